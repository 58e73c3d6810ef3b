// Package extract pulls worker timesheet data out of source documents:
// Word timesheets, the fixed-format Anel PDF report, and ZIP bundles of
// either. It produces one Extraction per worker found; matching and pay
// computation happen downstream.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/prlpayroll/timecard/internal/model"
)

// Extraction is one worker's raw timesheet data from a source document.
type Extraction struct {
	ExtractedOn time.Time
	Name        string
	Client      string
	SiteAddress string
	Department  string
	DateRange   string
	SourceFile  string
	Daily       []model.DailyHours
}

// Extractor routes source files to the right parser.
type Extractor struct {
	runner    Runner
	logger    *slog.Logger
	pdftotext string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRunner replaces the external command runner, for tests.
func WithRunner(r Runner) Option {
	return func(e *Extractor) { e.runner = r }
}

// WithPdftotext overrides the pdftotext binary path.
func WithPdftotext(path string) Option {
	return func(e *Extractor) { e.pdftotext = path }
}

// NewExtractor creates an extractor with the default exec-based runner.
func NewExtractor(logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Extractor{
		runner:    execRunner{},
		logger:    logger,
		pdftotext: "pdftotext",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractFile parses a timesheet document by extension. ZIP bundles are
// expanded and each supported member parsed; unsupported members are
// skipped with a warning rather than failing the bundle.
func (e *Extractor) ExtractFile(ctx context.Context, path string) ([]Extraction, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		rec, err := e.ExtractDOCX(path)
		if err != nil {
			return nil, err
		}
		return []Extraction{rec}, nil
	case ".pdf":
		return e.ExtractPDF(ctx, path)
	case ".zip":
		return e.ExtractZip(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ErrUnsupportedFormat reports a file type the extractor cannot parse.
var ErrUnsupportedFormat = fmt.Errorf("unsupported timesheet format")

// nameFromFilename derives a worker name from a source filename, the
// extraction path of last resort.
func nameFromFilename(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	return titleCase(stem)
}

// titleCase uppercases the first letter of each word and lowercases the
// rest, for names extracted from ALL-CAPS document text.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		if len(runes) > 0 {
			runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
