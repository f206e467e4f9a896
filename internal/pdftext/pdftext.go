// Package pdftext extracts plain text lines from Daily Price Index
// PDF bytes. This is the fatal-input boundary: an unreadable PDF is an
// error, everything after it is the parser's problem.
package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// ExtractLines returns the text of every page in reading order, split
// into trimmed non-empty lines.
func ExtractLines(content []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	out := []string{}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.ReplaceAll(text, "\r\n", "\n")
		for _, line := range strings.Split(text, "\n") {
			if strings.TrimSpace(line) != "" {
				out = append(out, line)
			}
		}
	}
	return out, nil
}
