package parser

import (
	"regexp"
	"strings"

	"presyo/internal"
)

// Boilerplate the PDF extractor carries over from page chrome. Matched
// lines never reach the reconstructor or the metadata extractor.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^source\s*:`),
	regexp.MustCompile(`(?i)^note\s*:`),
	regexp.MustCompile(`(?i)^prevailing\b`),
	regexp.MustCompile(`(?i)retail price`),
	regexp.MustCompile(`(?i)^page\b`),
	regexp.MustCompile(`(?i)^department of\b`),
	regexp.MustCompile(`(?i)^republic of the philippines\b`),
	regexp.MustCompile(`^-+\s*\d*\s*-*$`),
	regexp.MustCompile(`^\d{1,3}$`), // page-number-only lines
}

var spacesPattern = regexp.MustCompile(`\s+`)

// NormalizeLines trims raw extracted text lines, drops blanks and
// boilerplate, and preserves original order. Line numbers refer to the
// position in the raw input, not the cleaned sequence.
func NormalizeLines(raw []string) []internal.RawLine {
	out := make([]internal.RawLine, 0, len(raw))
	for i, line := range raw {
		text := normalizeSpaces(line)
		if text == "" || isBoilerplate(text) {
			continue
		}
		out = append(out, internal.RawLine{Text: text, LineNo: i + 1})
	}
	return out
}

// SplitLines breaks a block of extracted text into physical lines,
// dropping empty ones.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeSpaces(input string) string {
	input = strings.ReplaceAll(input, "\u00A0", " ")
	return strings.TrimSpace(spacesPattern.ReplaceAllString(input, " "))
}

func isBoilerplate(line string) bool {
	for _, re := range boilerplatePatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
