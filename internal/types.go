package internal

// Category labels are the bulletin's section headers with any
// LOCAL/IMPORTED prefix stripped. CategoryUncategorized marks rows
// that completed before any recognizable header was seen.
const CategoryUncategorized = "UNCATEGORIZED"

const (
	OriginLocal    = "Local"
	OriginImported = "Imported"
)

// RawLine is a single cleaned line of extracted bulletin text with its
// position in the original reading order.
type RawLine struct {
	Text   string
	LineNo int
}

// RawRow is a reconstructed table row before commodity normalization:
// the buffered name text together with the unit and price tokens pulled
// from the completing line.
type RawRow struct {
	Category   string
	Origin     string // "" = unspecified
	RawName    string
	UnitToken  string
	PriceToken string
	FirstLine  int
	LastLine   int
}

// PriceRecord is one normalized commodity price entry.
type PriceRecord struct {
	Category  string  `json:"category"`
	Commodity string  `json:"commodity"`
	Origin    *string `json:"origin"`
	Unit      string  `json:"unit"`
	Price     float64 `json:"price"`

	// UnitFlagged marks a unit token outside the known vocabulary,
	// kept verbatim in Unit.
	UnitFlagged bool `json:"-"`
}

// DocumentMetadata is derived once per bulletin, independent of row
// extraction. DateProcessed is an ISO date or nil when no date could
// be recovered from the filename or header.
type DocumentMetadata struct {
	DateProcessed  *string  `json:"date_processed"`
	CoveredMarkets []string `json:"covered_markets"`
}

// ParseStats counts what happened during one document parse.
type ParseStats struct {
	Lines     int `json:"lines"`
	Rows      int `json:"rows"`
	Rejected  int `json:"rejected"`
	Discarded int `json:"discarded"`
}

// ParseResult is the sole output of the parsing core.
type ParseResult struct {
	Metadata DocumentMetadata `json:"metadata"`
	Records  []PriceRecord    `json:"price_data"`
	Stats    ParseStats       `json:"stats"`
}

// NoData reports the "no price data found" outcome: the document
// parsed without a fatal error but produced no records.
func (r ParseResult) NoData() bool {
	return len(r.Records) == 0
}

// BulletinLink is a discovered Daily Price Index PDF on the source page.
type BulletinLink struct {
	URL      string
	Filename string
	DateISO  string
}

// BulletinRow is a stored bulletin.
type BulletinRow struct {
	ID            int
	SourceURL     string
	Filename      string
	DateProcessed *string
	Status        string
	RecordCount   int
	RejectedCount int
	MarketsJSON   string
	FetchedAt     string
}

// RecordExportRow is the flat shape handed to the XLSX exporter.
type RecordExportRow struct {
	Position  int
	Category  string
	Commodity string
	Origin    *string
	Unit      string
	Price     float64
}

func StringPtr(v string) *string { return &v }
