package parser

import (
	"regexp"
	"strings"

	"presyo/internal"
)

// categorySpec describes one recognizable section header. Label is the
// category with any LOCAL/IMPORTED prefix stripped; Origin is the
// origin the header itself implies; OriginQualified marks categories
// whose rows may carry standalone Local/Imported qualifier lines.
type categorySpec struct {
	Header          string
	Label           string
	Origin          string
	OriginQualified bool
}

// The bulletin's section headers. Order matters: more specific headers
// (with an origin prefix) are probed before the bare forms.
var categoryTable = []categorySpec{
	{Header: "IMPORTED COMMERCIAL RICE", Label: "COMMERCIAL RICE", Origin: internal.OriginImported, OriginQualified: true},
	{Header: "LOCAL COMMERCIAL RICE", Label: "COMMERCIAL RICE", Origin: internal.OriginLocal, OriginQualified: true},
	{Header: "COMMERCIAL RICE", Label: "COMMERCIAL RICE", OriginQualified: true},
	{Header: "CORN PRODUCTS", Label: "CORN PRODUCTS"},
	{Header: "FISH PRODUCTS", Label: "FISH PRODUCTS", OriginQualified: true},
	{Header: "BEEF MEAT PRODUCTS", Label: "BEEF MEAT PRODUCTS", OriginQualified: true},
	{Header: "PORK MEAT PRODUCTS", Label: "PORK MEAT PRODUCTS", OriginQualified: true},
	{Header: "OTHER LIVESTOCK MEAT PRODUCTS", Label: "OTHER LIVESTOCK MEAT PRODUCTS", OriginQualified: true},
	{Header: "POULTRY PRODUCTS", Label: "POULTRY PRODUCTS", OriginQualified: true},
	{Header: "LOWLAND VEGETABLES", Label: "LOWLAND VEGETABLES"},
	{Header: "HIGHLAND VEGETABLES", Label: "HIGHLAND VEGETABLES"},
	{Header: "VEGETABLES", Label: "VEGETABLES"},
	{Header: "SPICES", Label: "SPICES"},
	{Header: "FRUITS", Label: "FRUITS"},
	{Header: "OTHER BASIC COMMODITIES", Label: "OTHER BASIC COMMODITIES"},
}

var headerPunct = regexp.MustCompile(`[^A-Z0-9 ]`)

// matchCategory reports the category header a line carries, if any.
// Matching is case-insensitive and tolerant of stray punctuation.
func matchCategory(line string) (categorySpec, bool) {
	probe := headerPunct.ReplaceAllString(strings.ToUpper(line), " ")
	probe = normalizeSpaces(probe)
	for _, spec := range categoryTable {
		if strings.Contains(probe, spec.Header) {
			return spec, true
		}
	}
	return categorySpec{}, false
}

// matchOrigin reports whether a line is a standalone origin qualifier.
func matchOrigin(line string) (string, bool) {
	probe := strings.ToUpper(strings.Trim(line, " .,:-()"))
	switch probe {
	case "LOCAL":
		return internal.OriginLocal, true
	case "IMPORTED":
		return internal.OriginImported, true
	}
	return "", false
}
