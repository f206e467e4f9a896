package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"presyo/internal"
)

var (
	ErrNoPrice   = errors.New("no numeric price")
	ErrEmptyName = errors.New("empty commodity name")
)

// nameRule maps keyword combinations to a canonical commodity name.
// category is a substring of the category label ("" = any); every
// keyword in all must appear, and at least one in any when non-empty.
type nameRule struct {
	category  string
	all       []string
	any       []string
	canonical string
}

// Keyword rules for the commodities the bulletin quotes under varying
// raw spellings. Adding a commodity is a table change.
var nameRules = []nameRule{
	{category: "CORN", all: []string{"GRITS", "WHITE"}, canonical: "Corn Grits White"},
	{category: "CORN", all: []string{"GRITS", "YELLOW"}, canonical: "Corn Grits Yellow"},
	{category: "CORN", all: []string{"GRITS", "FEED GRADE"}, canonical: "Corn Grits Feed Grade"},
	{category: "CORN", all: []string{"CRACKED"}, canonical: "Corn Cracked Yellow"},
	{category: "CORN", all: []string{"COB"}, any: []string{"WHITE", "GLUTINOUS"}, canonical: "Corn Cob White"},
	{category: "CORN", all: []string{"COB"}, any: []string{"YELLOW", "SWEET"}, canonical: "Corn Cob Yellow"},

	{category: "RICE", all: []string{"SPECIAL"}, canonical: "Special White Rice"},
	{category: "RICE", all: []string{"PREMIUM"}, canonical: "Premium Rice"},
	{category: "RICE", all: []string{"WELL MILLED"}, canonical: "Well Milled Rice"},
	{category: "RICE", all: []string{"REGULAR MILLED"}, canonical: "Regular Milled Rice"},
	{category: "RICE", all: []string{"GLUTINOUS"}, canonical: "Glutinous Rice"},
	{category: "RICE", any: []string{"JASPONICA", "JAPONICA"}, canonical: "Jasponica Rice"},
	{category: "RICE", all: []string{"BASMATI"}, canonical: "Basmati Rice"},
	{category: "RICE", all: []string{"NFA"}, canonical: "NFA Rice"},

	{category: "VEGETABLES", all: []string{"BELL PEPPER", "RED"}, canonical: "Bell Pepper Red"},
	{category: "VEGETABLES", all: []string{"BELL PEPPER", "GREEN"}, canonical: "Bell Pepper Green"},
	{category: "VEGETABLES", all: []string{"CABBAGE", "SCORPIO"}, canonical: "Cabbage Scorpio"},
	{category: "VEGETABLES", all: []string{"CABBAGE", "RARE BALL"}, canonical: "Cabbage Rare Ball"},
	{category: "VEGETABLES", all: []string{"CABBAGE", "WONDER BALL"}, canonical: "Cabbage Wonder Ball"},
	{category: "", all: []string{"ONION", "RED"}, canonical: "Red Onion"},
	{category: "", all: []string{"ONION", "WHITE"}, canonical: "White Onion"},
	{category: "SPICES", all: []string{"CHILLI"}, any: []string{"RED", "TINGALA"}, canonical: "Chilli Red"},
	{category: "SPICES", all: []string{"CHILLI"}, any: []string{"GREEN", "PANIGANG"}, canonical: "Chilli Green"},

	{category: "FISH", all: []string{"BANGUS"}, canonical: "Bangus"},
	{category: "FISH", all: []string{"TILAPIA"}, canonical: "Tilapia"},
	{category: "FISH", all: []string{"GALUNGGONG"}, canonical: "Galunggong"},
	{category: "FISH", all: []string{"ALUMAHAN"}, canonical: "Alumahan"},
	{category: "FISH", all: []string{"SQUID"}, canonical: "Squid"},
	{category: "FISH", all: []string{"SALMON BELLY"}, canonical: "Salmon Belly"},
	{category: "FISH", all: []string{"SALMON HEAD"}, canonical: "Salmon Head"},
	{category: "FISH", all: []string{"PAMPANO"}, canonical: "Pampano"},

	{category: "POULTRY", all: []string{"WHOLE CHICKEN"}, canonical: "Whole Chicken"},
	{category: "POULTRY", all: []string{"CHICKEN EGG"}, canonical: "Chicken Egg"},
	{category: "BEEF", all: []string{"BRISKET"}, canonical: "Beef Brisket"},
	{category: "PORK", all: []string{"BELLY"}, canonical: "Pork Belly"},
	{category: "PORK", all: []string{"CHOP"}, canonical: "Pork Chop"},

	{category: "OTHER BASIC", all: []string{"SUGAR", "REFINED"}, canonical: "Sugar (Refined)"},
	{category: "OTHER BASIC", all: []string{"SUGAR", "WASHED"}, canonical: "Sugar (Washed)"},
	{category: "OTHER BASIC", all: []string{"SUGAR", "BROWN"}, canonical: "Sugar (Brown)"},
	{category: "OTHER BASIC", all: []string{"SALT", "IODIZED"}, canonical: "Salt (Iodized)"},
	{category: "OTHER BASIC", all: []string{"SALT", "ROCK"}, canonical: "Salt (Rock)"},
}

// Cooking-oil brands the bulletin lists alongside generic entries in
// the same section. Branded and generic rows must stay distinct
// records, so each gets an explicit variant tag.
var oilBrands = map[string]string{
	"MINOLA":        "Minola",
	"JOLLY":         "Jolly",
	"SPRING":        "Spring",
	"GOLDEN FIESTA": "Golden Fiesta",
	"MARCA LEON":    "Marca Leon",
}

var noiseWords = []string{
	"Magnolia", "Bounty Fresh", "Unbranded", "Fresh", "Fully Dressed",
	"Brand", "Local", "Imported", "frozen", "chilled", "whole round",
	"medium", "large", "small", "lean meat", "tapadera",
	"meat with bones", "food grade", "feed grade",
}

var noisePatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(noiseWords))
	for _, word := range noiseWords {
		out = append(out, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}
	return out
}()

var preservedTerms = map[string]string{
	"NFA": "NFA",
	"DA":  "DA",
}

var (
	controlChars  = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	parenthetical = regexp.MustCompile(`\([^)]*\)`)
	sizeTail      = regexp.MustCompile(`(?i)\d+[-\s]*\d*\s*(pcs|kg|g|ml|liter|bottle).*`)
	currencyMark  = regexp.MustCompile(`(?i)^(₱|php)\s*`)
	priceShape    = regexp.MustCompile(`^(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{1,2})?$`)
)

// NormalizeRow turns a reconstructed row into a PriceRecord or rejects
// it: unparsable/negative prices and empty names drop the row, never
// coerce it.
func NormalizeRow(row internal.RawRow) (internal.PriceRecord, error) {
	price, err := ParsePrice(row.PriceToken)
	if err != nil {
		return internal.PriceRecord{}, fmt.Errorf("line %d: %w", row.LastLine, err)
	}

	name := CanonicalName(row.RawName, row.Category)
	if name == "" {
		return internal.PriceRecord{}, fmt.Errorf("line %d: %w", row.LastLine, ErrEmptyName)
	}

	unit, known := CanonicalUnit(row.UnitToken)
	record := internal.PriceRecord{
		Category:    row.Category,
		Commodity:   name,
		Unit:        unit,
		Price:       price,
		UnitFlagged: !known,
	}
	if row.Origin != "" {
		origin := row.Origin
		record.Origin = &origin
	}
	return record, nil
}

// NormalizeRows normalizes every reconstructed row and merges exact
// duplicates within a category/origin: the later row's price wins but
// the earlier position is kept, so output order stays stable. Returns
// the records plus the rejected-row count.
func NormalizeRows(rows []internal.RawRow) ([]internal.PriceRecord, int) {
	records := make([]internal.PriceRecord, 0, len(rows))
	index := map[string]int{}
	rejected := 0

	for _, row := range rows {
		record, err := NormalizeRow(row)
		if err != nil {
			rejected++
			continue
		}

		origin := ""
		if record.Origin != nil {
			origin = *record.Origin
		}
		key := record.Category + "|" + origin + "|" + record.Commodity
		if at, ok := index[key]; ok {
			records[at] = record
			continue
		}
		index[key] = len(records)
		records = append(records, record)
	}

	return records, rejected
}

// CanonicalName cleans a raw name into its canonical commodity name.
// Already-canonical names come back unchanged.
func CanonicalName(raw, category string) string {
	clean := normalizeSpaces(controlChars.ReplaceAllString(raw, ""))
	upper := strings.ToUpper(clean)
	upperCat := strings.ToUpper(category)

	if variant, ok := oilVariant(upper); ok {
		return variant
	}

	for _, rule := range nameRules {
		if rule.matches(upper, upperCat) {
			return rule.canonical
		}
	}

	return fallbackName(clean)
}

func (r nameRule) matches(upperName, upperCat string) bool {
	if r.category != "" && !strings.Contains(upperCat, r.category) {
		return false
	}
	for _, kw := range r.all {
		if !strings.Contains(upperName, kw) {
			return false
		}
	}
	if len(r.any) == 0 {
		return true
	}
	for _, kw := range r.any {
		if strings.Contains(upperName, kw) {
			return true
		}
	}
	return false
}

// oilVariant applies the brand-aware rule: oil rows always carry a
// variant tag, either the recognized brand or Generic, so a branded
// and a generic listing of the same base oil never share a key.
func oilVariant(upper string) (string, bool) {
	isOil := strings.Contains(upper, "COOKING OIL") ||
		(strings.Contains(upper, "OIL") &&
			(strings.Contains(upper, "PALM") || strings.Contains(upper, "COCONUT")))
	if !isOil {
		return "", false
	}

	base := "Cooking Oil"
	switch {
	case strings.Contains(upper, "PALM"):
		base = "Palm Oil"
	case strings.Contains(upper, "COCONUT"):
		base = "Coconut Oil"
	}

	for probe, brand := range oilBrands {
		if strings.Contains(upper, probe) {
			return base + " (" + brand + ")", true
		}
	}
	return base + " (Generic)", true
}

// fallbackName is the cleanup path for names no rule covers: drop
// parenthesized specs, noise words and size tails, then title-case.
func fallbackName(clean string) string {
	name := parenthetical.ReplaceAllString(clean, "")
	for _, re := range noisePatterns {
		name = re.ReplaceAllString(name, "")
	}
	name = sizeTail.ReplaceAllString(name, "")
	name = strings.Trim(normalizeSpaces(name), " -,.")
	return titleCase(name)
}

func titleCase(input string) string {
	words := strings.Fields(input)
	for i, w := range words {
		if preserved, ok := preservedTerms[strings.ToUpper(w)]; ok {
			words[i] = preserved
			continue
		}
		runes := []rune(strings.ToLower(w))
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// ParsePrice strips currency markers and parses a non-negative
// decimal. Commas must form proper thousands groups; malformed numbers
// and the bulletin's n/a and dash placeholders fail here, which
// rejects the row rather than coercing a wrong value.
func ParsePrice(token string) (float64, error) {
	t := strings.TrimSpace(token)
	t = currencyMark.ReplaceAllString(t, "")
	t = strings.TrimSpace(t)

	if t == "" || t == "-" || strings.EqualFold(t, "n/a") {
		return 0, ErrNoPrice
	}
	if !priceShape.MatchString(t) {
		return 0, ErrNoPrice
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(t, ",", ""), 64)
	if err != nil || value < 0 {
		return 0, ErrNoPrice
	}
	return value, nil
}

// CanonicalUnit maps a recognized unit token to the controlled
// vocabulary; unknown tokens come back verbatim with ok=false.
func CanonicalUnit(token string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(token))
	t = strings.TrimSuffix(t, ".")
	t = strings.TrimPrefix(t, "per ")

	switch t {
	case "kg", "kilo", "kilos", "kilogram", "kilograms":
		return "kg", true
	case "pc", "pcs", "piece", "pieces":
		return "per piece", true
	case "doz", "dozen":
		return "per dozen", true
	case "head", "heads":
		return "per head", true
	case "bundle", "bundles", "tali":
		return "per bundle", true
	case "liter", "liters", "litre", "litres", "ltr", "ml", "bottle", "bottles":
		return "per liter", true
	case "tray", "trays":
		return "per tray", true
	default:
		return strings.TrimSpace(token), false
	}
}
