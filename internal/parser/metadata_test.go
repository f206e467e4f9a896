package parser

import "testing"

func TestDateFromFilename(t *testing.T) {
	cases := []struct {
		filename string
		want     string
		ok       bool
	}{
		{"Daily-Price-Index-January-15-2026.pdf", "2026-01-15", true},
		{"DPI-Jan-5-2026.pdf", "2026-01-05", true},
		{"Daily-Price-Index-August-22-2025.pdf", "2025-08-22", true},
		{"bulletin.pdf", "", false},
		{"Daily-Price-Index-Foo-99-2026.pdf", "", false},
	}
	for _, tc := range cases {
		got, ok := DateFromFilename(tc.filename)
		if ok != tc.ok {
			t.Fatalf("%s: ok=%v", tc.filename, ok)
		}
		if ok && got.Format(isoDate) != tc.want {
			t.Fatalf("%s: got %s want %s", tc.filename, got.Format(isoDate), tc.want)
		}
	}
}

func TestExtractMetadataPrefersFilenameDate(t *testing.T) {
	meta := ExtractMetadata("Daily-Price-Index-August-22-2025.pdf", lines(
		"Daily Price Index",
		"August 21, 2025",
	))
	if meta.DateProcessed == nil || *meta.DateProcessed != "2025-08-22" {
		t.Fatalf("date=%v", meta.DateProcessed)
	}
}

func TestExtractMetadataHeaderDateFallback(t *testing.T) {
	meta := ExtractMetadata("bulletin.pdf", lines(
		"Daily Price Index",
		"Aug. 22, 2025",
	))
	if meta.DateProcessed == nil || *meta.DateProcessed != "2025-08-22" {
		t.Fatalf("date=%v", meta.DateProcessed)
	}
}

func TestExtractMetadataNoDate(t *testing.T) {
	meta := ExtractMetadata("bulletin.pdf", lines("Daily Price Index"))
	if meta.DateProcessed != nil {
		t.Fatalf("date=%v", *meta.DateProcessed)
	}
	if meta.CoveredMarkets == nil || len(meta.CoveredMarkets) != 0 {
		t.Fatalf("markets=%v", meta.CoveredMarkets)
	}
}

func TestExtractMarkets(t *testing.T) {
	meta := ExtractMetadata("bulletin.pdf", lines(
		"Covered Markets: Balintawak Market, Farmers Market Cubao",
		"1. Commonwealth Market 2. Balintawak Market",
		"COMMERCIAL RICE",
		"Quezon City Market",
	))
	want := []string{"Balintawak Market", "Farmers Market Cubao", "Commonwealth Market"}
	if len(meta.CoveredMarkets) != len(want) {
		t.Fatalf("markets=%v", meta.CoveredMarkets)
	}
	for i, name := range want {
		if meta.CoveredMarkets[i] != name {
			t.Fatalf("markets[%d]=%q want %q", i, meta.CoveredMarkets[i], name)
		}
	}
}

func TestExtractMarketsStopsAtDataRow(t *testing.T) {
	meta := ExtractMetadata("bulletin.pdf", lines(
		"Covered Markets:",
		"Balintawak Market",
		"Tilapia kg 140.00",
		"Munoz Market",
	))
	if len(meta.CoveredMarkets) != 1 || meta.CoveredMarkets[0] != "Balintawak Market" {
		t.Fatalf("markets=%v", meta.CoveredMarkets)
	}
}
