package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"presyo/internal/config"
	"presyo/internal/parser"
	"presyo/internal/pdftext"
	"presyo/internal/pipeline"
	"presyo/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	cmd := os.Args[1]
	switch cmd {
	case "scrape":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		target := fs.String("target", "", "override target page URL")
		_ = fs.Parse(os.Args[2:])

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		svc := pipeline.NewProcessingService(db, cfg, log)
		res, err := svc.ScrapeLatest(context.Background(), *target)
		must(err)
		fmt.Printf("scraped %s bulletinId=%d records=%d rejected=%d markets=%d\n",
			res.Filename, res.BulletinID, len(res.Result.Records), res.Result.Stats.Rejected, len(res.Result.Metadata.CoveredMarkets))
	case "parse":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "local bulletin PDF path")
		asJSON := fs.Bool("json", false, "print the full parse result as JSON")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}

		blob, err := os.ReadFile(*input)
		must(err)
		lines, err := pdftext.ExtractLines(blob)
		must(err)
		result := parser.Parse(filepath.Base(*input), lines)

		if *asJSON {
			blob, err := json.MarshalIndent(result, "", "  ")
			must(err)
			fmt.Println(string(blob))
			return
		}
		fmt.Printf("parsed %s records=%d rejected=%d discarded=%d markets=%d\n",
			filepath.Base(*input), len(result.Records), result.Stats.Rejected, result.Stats.Discarded, len(result.Metadata.CoveredMarkets))
		for _, record := range result.Records {
			origin := "-"
			if record.Origin != nil {
				origin = *record.Origin
			}
			fmt.Printf("  %-28s %-32s %-8s %-10s %8.2f\n", record.Category, record.Commodity, origin, record.Unit, record.Price)
		}
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		bulletinID := fs.Int("bulletinId", 0, "stored bulletin id")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *bulletinID == 0 || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--bulletinId and --out are required"))
		}

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		bulletin, err := db.MustBulletinByID(*bulletinID)
		must(err)
		rows, err := db.GetExportRows(*bulletinID)
		must(err)
		if len(rows) == 0 {
			must(fmt.Errorf("no records for bulletinId=%d", *bulletinID))
		}
		must(pipeline.ExportRecordsToXLSX(bulletin, rows, *out))
		fmt.Printf("exported %d records to %s\n", len(rows), *out)
	case "bulletins":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max bulletins to list")
		_ = fs.Parse(os.Args[2:])

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		bulletins, err := db.ListBulletins(*limit)
		must(err)
		for _, b := range bulletins {
			date := "-"
			if b.DateProcessed != nil {
				date = *b.DateProcessed
			}
			fmt.Printf("%4d  %-10s  %-8s  records=%-4d  %s\n", b.ID, date, b.Status, b.RecordCount, b.Filename)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	if parsed, err := logrus.ParseLevel(strings.ToLower(level)); err == nil {
		log.SetLevel(parsed)
	}
	return log
}

func usage() {
	fmt.Println("usage: presyo <command>")
	fmt.Println("commands:")
	fmt.Println("  scrape [--target=URL]")
	fmt.Println("  parse --input=bulletin.pdf [--json]")
	fmt.Println("  export:xlsx --bulletinId=1 --out=./out/result.xlsx")
	fmt.Println("  bulletins [--limit=20]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
