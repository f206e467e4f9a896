package pipeline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"presyo/internal"
	"presyo/internal/config"
	"presyo/internal/parser"
	"presyo/internal/pdftext"
	"presyo/internal/scraper"
	"presyo/internal/storage"
)

// ProcessingService runs the intake path end to end: discover or
// receive a bulletin, extract its text, parse, persist. The parser
// stays pure; persistence happens only here.
type ProcessingService struct {
	db  *storage.DB
	cfg config.Config
	log *logrus.Logger
}

func NewProcessingService(db *storage.DB, cfg config.Config, log *logrus.Logger) *ProcessingService {
	return &ProcessingService{db: db, cfg: cfg, log: log}
}

type ProcessResult struct {
	BulletinID int
	SourceURL  string
	Filename   string
	Result     internal.ParseResult
}

// ScrapeLatest discovers the newest bulletin on the target page (or an
// override URL), downloads and parses it, and stores the outcome.
func (s *ProcessingService) ScrapeLatest(ctx context.Context, targetURL string) (ProcessResult, error) {
	client := scraper.NewClient(s.cfg, s.log)

	link, err := client.FindLatestBulletin(ctx, targetURL)
	if err != nil {
		return ProcessResult{}, err
	}

	blob, err := client.DownloadPDF(ctx, link.URL)
	if err != nil {
		return ProcessResult{}, err
	}

	return s.process(link.URL, link.Filename, blob)
}

// ProcessUpload parses directly-uploaded bulletin bytes.
func (s *ProcessingService) ProcessUpload(filename string, content []byte) (ProcessResult, error) {
	return s.process("manual:"+filename, filename, content)
}

func (s *ProcessingService) process(sourceURL, filename string, content []byte) (ProcessResult, error) {
	lines, err := pdftext.ExtractLines(content)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("extract %s: %w", filename, err)
	}

	result := parser.Parse(filename, lines)

	bulletinID, err := s.db.SaveResult(sourceURL, filename, result)
	if err != nil {
		return ProcessResult{}, err
	}

	s.log.WithFields(logrus.Fields{
		"bulletinId": bulletinID,
		"filename":   filename,
		"records":    len(result.Records),
		"rejected":   result.Stats.Rejected,
		"discarded":  result.Stats.Discarded,
		"markets":    len(result.Metadata.CoveredMarkets),
	}).Info("bulletin processed")

	return ProcessResult{BulletinID: bulletinID, SourceURL: sourceURL, Filename: filename, Result: result}, nil
}
