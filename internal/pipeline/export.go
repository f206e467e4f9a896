package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"presyo/internal"
)

// ExportRecordsToXLSX writes one bulletin's price records to a
// spreadsheet, with the bulletin metadata on a second sheet.
func ExportRecordsToXLSX(bulletin internal.BulletinRow, rows []internal.RecordExportRow, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"position", "category", "commodity", "origin", "unit", "price"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}
		set(1, row.Position)
		set(2, row.Category)
		set(3, row.Commodity)
		set(4, derefString(row.Origin))
		set(5, row.Unit)
		set(6, row.Price)
	}

	metaSheet := "metadata"
	if _, err := f.NewSheet(metaSheet); err == nil {
		_ = f.SetCellValue(metaSheet, "A1", "source_url")
		_ = f.SetCellValue(metaSheet, "B1", bulletin.SourceURL)
		_ = f.SetCellValue(metaSheet, "A2", "filename")
		_ = f.SetCellValue(metaSheet, "B2", bulletin.Filename)
		_ = f.SetCellValue(metaSheet, "A3", "date_processed")
		_ = f.SetCellValue(metaSheet, "B3", derefString(bulletin.DateProcessed))
		_ = f.SetCellValue(metaSheet, "A4", "covered_markets")
		_ = f.SetCellValue(metaSheet, "B4", bulletin.MarketsJSON)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
