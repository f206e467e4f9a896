package parser

import (
	"regexp"
	"strings"

	"presyo/internal"
)

// ParseState is the sequential state of one document parse: the active
// category/origin from the classifier and the name fragments waiting
// for a completing unit+price line. One value per document, owned by
// ReconstructRows, never shared.
type ParseState struct {
	Category        string
	Origin          string
	originQualified bool
	buffer          []internal.RawLine
	discarded       int
}

func NewParseState() *ParseState {
	return &ParseState{Category: internal.CategoryUncategorized}
}

var (
	unitTokenPattern = regexp.MustCompile(`(?i)\b(?:per\s+)?(kg|kilo(?:gram)?s?|pcs?|pieces?|doz(?:en)?|heads?|bundles?|tali|liters?|litres?|ltr|ml|bottles?|trays?)\b\.?`)
	// The price sits at the end of a completing line: optional currency
	// marker, thousands separators, or the bulletin's n/a and dash
	// placeholders for commodities with no quotation that day. The token
	// must stand alone after whitespace; a digit run glued to other text
	// (a malformed number like "52,50.00") is not a price and the line
	// does not complete a row.
	priceTokenPattern = regexp.MustCompile(`(?i)(?:^|\s)(?:(?:₱|php)\s*)?(\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?|n/a|-)\s*$`)
	leaderDotsPattern = regexp.MustCompile(`[.\x{2026}]{2,}`)
)

type completion struct {
	NamePart   string
	UnitToken  string
	PriceToken string
}

// detectCompletion checks whether a line bears the completing pattern:
// a unit token from the fixed vocabulary followed by a trailing price
// token. The text preceding the unit token is the line's own name
// fragment.
func detectCompletion(text string) (completion, bool) {
	pm := priceTokenPattern.FindStringSubmatchIndex(text)
	if pm == nil {
		return completion{}, false
	}
	priceToken := text[pm[2]:pm[3]]
	prefix := text[:pm[0]]

	ums := unitTokenPattern.FindAllStringIndex(prefix, -1)
	if len(ums) == 0 {
		return completion{}, false
	}
	um := ums[len(ums)-1]

	return completion{
		NamePart:   cleanFragment(prefix[:um[0]]),
		UnitToken:  strings.TrimRight(strings.TrimSpace(prefix[um[0]:um[1]]), "."),
		PriceToken: strings.TrimSpace(priceToken),
	}, true
}

// cleanFragment strips the dot leaders and stray separators PDF text
// extraction leaves between a name column and its price columns.
func cleanFragment(text string) string {
	text = leaderDotsPattern.ReplaceAllString(text, " ")
	return strings.Trim(normalizeSpaces(text), " -,.")
}

// ReconstructRows replays the normalized line sequence through a fresh
// ParseState and emits one RawRow per completed table row, plus the
// count of name fragments discarded at category/origin boundaries.
func ReconstructRows(lines []internal.RawLine) ([]internal.RawRow, int) {
	state := NewParseState()
	rows := make([]internal.RawRow, 0, len(lines))

	for _, line := range lines {
		if spec, ok := matchCategory(line.Text); ok {
			state.enterCategory(spec)
			continue
		}
		if origin, ok := matchOrigin(line.Text); ok && state.originQualified {
			state.enterOrigin(origin)
			continue
		}

		comp, ok := detectCompletion(line.Text)
		if !ok {
			state.buffer = append(state.buffer, line)
			continue
		}
		rows = append(rows, state.emit(line, comp))
	}

	state.flush()
	return rows, state.discarded
}

// enterCategory switches the active section. A buffered name cannot
// straddle a category boundary, so the buffer is flushed unmatched.
func (s *ParseState) enterCategory(spec categorySpec) {
	s.flush()
	s.Category = spec.Label
	s.Origin = spec.Origin
	s.originQualified = spec.OriginQualified
}

func (s *ParseState) enterOrigin(origin string) {
	s.flush()
	s.Origin = origin
}

func (s *ParseState) emit(line internal.RawLine, comp completion) internal.RawRow {
	parts := make([]string, 0, len(s.buffer)+1)
	firstLine := line.LineNo
	for i, frag := range s.buffer {
		if i == 0 {
			firstLine = frag.LineNo
		}
		parts = append(parts, frag.Text)
	}
	if comp.NamePart != "" {
		parts = append(parts, comp.NamePart)
	}
	s.buffer = s.buffer[:0]

	return internal.RawRow{
		Category:   s.Category,
		Origin:     s.Origin,
		RawName:    strings.Join(parts, " "),
		UnitToken:  comp.UnitToken,
		PriceToken: comp.PriceToken,
		FirstLine:  firstLine,
		LastLine:   line.LineNo,
	}
}

func (s *ParseState) flush() {
	s.discarded += len(s.buffer)
	s.buffer = s.buffer[:0]
}
