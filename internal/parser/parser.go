// Package parser converts the linear text of a Daily Price Index
// bulletin into structured price records. PDF text extraction destroys
// the table layout, so the parser reconstructs rows from line patterns
// alone: category headers and origin qualifiers carry state across
// lines, multi-line commodity names accumulate until a unit+price line
// completes them, and document metadata is recovered in a separate
// pass over the same lines.
package parser

import "presyo/internal"

// Parse is the core entry point: a pure function from the bulletin's
// extracted text lines (all pages, reading order) and its source file
// name to a ParseResult. Fresh state per call; concurrent calls are
// safe. An empty input yields empty records and null metadata, never
// an error — a document that produced no rows is off-format, not
// broken.
func Parse(filename string, rawLines []string) internal.ParseResult {
	lines := NormalizeLines(rawLines)
	rows, discarded := ReconstructRows(lines)
	records, rejected := NormalizeRows(rows)

	return internal.ParseResult{
		Metadata: ExtractMetadata(filename, lines),
		Records:  records,
		Stats: internal.ParseStats{
			Lines:     len(lines),
			Rows:      len(rows),
			Rejected:  rejected,
			Discarded: discarded,
		},
	}
}

// ParseText is Parse over a single text blob, for callers that hold
// the concatenated page text rather than split lines.
func ParseText(filename, text string) internal.ParseResult {
	return Parse(filename, SplitLines(text))
}
