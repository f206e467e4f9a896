package parser

import (
	"regexp"
	"strings"
	"time"

	"presyo/internal"
)

const isoDate = "2006-01-02"

// headerScanDepth bounds how far into the document the title-date scan
// looks; the bulletin date sits in the first few header lines.
const headerScanDepth = 12

var (
	filenameDatePattern = regexp.MustCompile(`([A-Za-z]+-\d{1,2}-\d{4})`)
	headerDatePattern   = regexp.MustCompile(`(?i)\b([A-Za-z]+)\.?\s+(\d{1,2}),?\s+(\d{4})\b`)
	marketsHeading      = regexp.MustCompile(`(?i)(covered markets?|^d\))\s*:?\s*(.*)$`)
	marketListMarker    = regexp.MustCompile(`\s*\d+\.\s*`)
)

var filenameDateLayouts = []string{"January-2-2006", "Jan-2-2006"}

// DateFromFilename recovers the bulletin date embedded in the PDF's
// file name (e.g. Daily-Price-Index-January-15-2026.pdf).
func DateFromFilename(filename string) (time.Time, bool) {
	m := filenameDatePattern.FindStringSubmatch(filename)
	if m == nil {
		return time.Time{}, false
	}
	for _, layout := range filenameDateLayouts {
		if t, err := time.Parse(layout, m[1]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ExtractMetadata derives the bulletin date and the covered-market
// list from the normalized line sequence plus the source file name.
// Either field may come back empty; metadata never fails a parse.
func ExtractMetadata(filename string, lines []internal.RawLine) internal.DocumentMetadata {
	meta := internal.DocumentMetadata{CoveredMarkets: []string{}}

	if t, ok := DateFromFilename(filename); ok {
		meta.DateProcessed = internal.StringPtr(t.Format(isoDate))
	} else if t, ok := dateFromHeader(lines); ok {
		meta.DateProcessed = internal.StringPtr(t.Format(isoDate))
	}

	meta.CoveredMarkets = extractMarkets(lines)
	return meta
}

func dateFromHeader(lines []internal.RawLine) (time.Time, bool) {
	depth := headerScanDepth
	if len(lines) < depth {
		depth = len(lines)
	}
	for _, line := range lines[:depth] {
		m := headerDatePattern.FindStringSubmatch(line.Text)
		if m == nil {
			continue
		}
		month, ok := monthByName(m[1])
		if !ok {
			continue
		}
		probe := month.String() + "-" + m[2] + "-" + m[3]
		if t, err := time.Parse("January-2-2006", probe); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func monthByName(name string) (time.Month, bool) {
	probe := strings.ToLower(name)
	if len(probe) > 3 {
		probe = probe[:3]
	}
	for m := time.January; m <= time.December; m++ {
		if strings.ToLower(m.String()[:3]) == probe {
			return m, true
		}
	}
	return 0, false
}

// extractMarkets collects the proper names following a covered-markets
// heading. Names may be numbered, comma-separated, or one per line;
// the list ends at the next category header. First-seen order, no
// duplicates.
func extractMarkets(lines []internal.RawLine) []string {
	out := []string{}
	seen := map[string]struct{}{}
	collecting := false

	for _, line := range lines {
		if m := marketsHeading.FindStringSubmatch(line.Text); m != nil {
			collecting = true
			appendMarkets(&out, seen, m[2])
			continue
		}
		if !collecting {
			continue
		}
		_, isHeader := matchCategory(line.Text)
		_, isRow := detectCompletion(line.Text)
		if isHeader || isRow {
			collecting = false
			continue
		}
		appendMarkets(&out, seen, line.Text)
	}

	return out
}

func appendMarkets(out *[]string, seen map[string]struct{}, chunk string) {
	chunk = marketListMarker.ReplaceAllString(chunk, "\n")
	for _, part := range strings.FieldsFunc(chunk, func(r rune) bool { return r == ',' || r == ';' || r == '\n' }) {
		name := strings.Trim(normalizeSpaces(part), " .")
		if len(name) <= 3 || !hasLetter(name) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		*out = append(*out, name)
	}
}

func hasLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
