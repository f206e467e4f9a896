package parser

import "testing"

func TestNormalizeLinesDropsBoilerplate(t *testing.T) {
	raw := []string{
		"  Republic of the Philippines  ",
		"Department of Agriculture",
		"",
		"Bangus   kg 180.00",
		"Page 2 of 3",
		"2",
		"Source: DA-AMAS",
		"Tilapia kg 140.00",
	}

	lines := NormalizeLines(raw)
	if len(lines) != 2 {
		t.Fatalf("len=%d want 2", len(lines))
	}
	if lines[0].Text != "Bangus kg 180.00" {
		t.Fatalf("text=%q", lines[0].Text)
	}
	if lines[0].LineNo != 4 || lines[1].LineNo != 8 {
		t.Fatalf("line numbers %d %d", lines[0].LineNo, lines[1].LineNo)
	}
}

func TestNormalizeLinesEmptyInput(t *testing.T) {
	if got := NormalizeLines(nil); len(got) != 0 {
		t.Fatalf("len=%d", len(got))
	}
	if got := NormalizeLines([]string{"", "   "}); len(got) != 0 {
		t.Fatalf("len=%d", len(got))
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("a\r\n\r\nb\nc\n")
	if len(got) != 3 {
		t.Fatalf("len=%d", len(got))
	}
}
