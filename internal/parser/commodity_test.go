package parser

import (
	"errors"
	"testing"

	"presyo/internal"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "plain", input: "52.50", want: 52.50},
		{name: "currency symbol", input: "₱52.50", want: 52.50},
		{name: "currency word", input: "Php 52.50", want: 52.50},
		{name: "thousands separator", input: "2,052.50", want: 2052.50},
		{name: "integer", input: "180", want: 180},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePrice(tc.input)
			if err != nil {
				t.Fatalf("err=%v", err)
			}
			if got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestParsePriceRejects(t *testing.T) {
	for _, input := range []string{"n/a", "N/A", "-", "", "abc", "52,50.00", "1,23"} {
		if _, err := ParsePrice(input); !errors.Is(err, ErrNoPrice) {
			t.Fatalf("input %q: err=%v", input, err)
		}
	}
}

func TestCanonicalUnit(t *testing.T) {
	cases := []struct {
		input string
		want  string
		known bool
	}{
		{"kg", "kg", true},
		{"Kilo", "kg", true},
		{"per kg", "kg", true},
		{"pc", "per piece", true},
		{"pcs.", "per piece", true},
		{"dozen", "per dozen", true},
		{"tali", "per bundle", true},
		{"bottle", "per liter", true},
		{"sack", "sack", false},
	}
	for _, tc := range cases {
		got, known := CanonicalUnit(tc.input)
		if got != tc.want || known != tc.known {
			t.Fatalf("input %q: got %q known=%v", tc.input, got, known)
		}
	}
}

func TestCanonicalNameRules(t *testing.T) {
	cases := []struct {
		raw      string
		category string
		want     string
	}{
		{"Rice Well milled", "COMMERCIAL RICE", "Well Milled Rice"},
		{"Corn Grits, White food grade", "CORN PRODUCTS", "Corn Grits White"},
		{"Cabbage (Scorpio)", "HIGHLAND VEGETABLES", "Cabbage Scorpio"},
		{"Red onion", "LOWLAND VEGETABLES", "Red Onion"},
		{"Galunggong, whole round", "FISH PRODUCTS", "Galunggong"},
		{"Whole Chicken Fully Dressed", "POULTRY PRODUCTS", "Whole Chicken"},
		{"Sugar refined", "OTHER BASIC COMMODITIES", "Sugar (Refined)"},
		{"Calamansi", "FRUITS", "Calamansi"},
	}
	for _, tc := range cases {
		if got := CanonicalName(tc.raw, tc.category); got != tc.want {
			t.Fatalf("raw=%q got %q want %q", tc.raw, got, tc.want)
		}
	}
}

func TestCanonicalNameIdempotent(t *testing.T) {
	names := []string{
		"Well Milled Rice",
		"Cabbage Scorpio",
		"Palm Oil (Minola)",
		"Cooking Oil (Generic)",
		"Calamansi",
		"NFA Rice",
	}
	categories := []string{"COMMERCIAL RICE", "HIGHLAND VEGETABLES", "OTHER BASIC COMMODITIES", "OTHER BASIC COMMODITIES", "FRUITS", "COMMERCIAL RICE"}
	for i, name := range names {
		if got := CanonicalName(name, categories[i]); got != name {
			t.Fatalf("%q renormalized to %q", name, got)
		}
	}
}

func TestBrandedAndGenericOilStayDistinct(t *testing.T) {
	rows := []internal.RawRow{
		{Category: "OTHER BASIC COMMODITIES", RawName: "Cooking Oil Palm Minola 1L", UnitToken: "bottle", PriceToken: "95.00"},
		{Category: "OTHER BASIC COMMODITIES", RawName: "Cooking Oil Palm", UnitToken: "bottle", PriceToken: "88.00"},
	}
	records, rejected := NormalizeRows(rows)
	if rejected != 0 {
		t.Fatalf("rejected=%d", rejected)
	}
	if len(records) != 2 {
		t.Fatalf("records=%d, branded and generic collapsed", len(records))
	}
	if records[0].Commodity != "Palm Oil (Minola)" {
		t.Fatalf("commodity0=%q", records[0].Commodity)
	}
	if records[1].Commodity != "Palm Oil (Generic)" {
		t.Fatalf("commodity1=%q", records[1].Commodity)
	}
}

func TestDuplicateRowsLastWins(t *testing.T) {
	rows := []internal.RawRow{
		{Category: "COMMERCIAL RICE", Origin: internal.OriginLocal, RawName: "Premium Rice", UnitToken: "kg", PriceToken: "54.00"},
		{Category: "COMMERCIAL RICE", Origin: internal.OriginLocal, RawName: "Bangus", UnitToken: "kg", PriceToken: "180.00"},
		{Category: "COMMERCIAL RICE", Origin: internal.OriginLocal, RawName: "Premium Grade Rice", UnitToken: "kg", PriceToken: "55.00"},
	}
	records, _ := NormalizeRows(rows)
	if len(records) != 2 {
		t.Fatalf("records=%d", len(records))
	}
	if records[0].Commodity != "Premium Rice" || records[0].Price != 55.00 {
		t.Fatalf("record0=%+v", records[0])
	}
}

func TestNormalizeRowRejections(t *testing.T) {
	rows := []internal.RawRow{
		{Category: "FISH PRODUCTS", RawName: "Squid", UnitToken: "kg", PriceToken: "n/a"},
		{Category: "SPICES", RawName: "", UnitToken: "kg", PriceToken: "55.00"},
		{Category: "FISH PRODUCTS", RawName: "Tilapia", UnitToken: "kg", PriceToken: "140.00"},
	}
	records, rejected := NormalizeRows(rows)
	if rejected != 2 {
		t.Fatalf("rejected=%d", rejected)
	}
	if len(records) != 1 || records[0].Commodity != "Tilapia" {
		t.Fatalf("records=%+v", records)
	}
}

func TestUnknownUnitKeptVerbatimAndFlagged(t *testing.T) {
	record, err := NormalizeRow(internal.RawRow{Category: "SPICES", RawName: "Garlic", UnitToken: "sack", PriceToken: "600.00"})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if record.Unit != "sack" || !record.UnitFlagged {
		t.Fatalf("unit=%q flagged=%v", record.Unit, record.UnitFlagged)
	}
}
