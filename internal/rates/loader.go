// Package rates loads pay-rate directories from XLSX rate sheets.
package rates

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/prlpayroll/timecard/internal/matcher"
)

// Header labels a rate table inside a sheet. The table starts at the row
// where these two appear in adjacent cells, case-insensitively.
const (
	headerName = "name"
	headerRate = "pay rate"
)

// Loader builds rate directories from one or more XLSX sources. Building is
// a pure transform from sources to entries: the same files always yield the
// same directory.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a rate sheet loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// LoadFiles reads every path in order and merges the results last-wins:
// when two sources define the same canonical name, the later file's rate
// is kept. A missing or unreadable file fails the whole load; a sheet
// without a rate table inside a readable file is skipped silently.
func (l *Loader) LoadFiles(paths ...string) (*matcher.Directory, error) {
	dir := matcher.NewDirectory()
	for _, path := range paths {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open rate sheet %s: %w", path, err)
		}
		l.loadWorkbook(dir, f, path)
		if err := f.Close(); err != nil {
			l.logger.Warn("failed to close rate sheet", "path", path, "error", err)
		}
	}
	l.logger.Info("rate directory built", "sources", len(paths), "entries", dir.Len())
	return dir, nil
}

// LoadReader reads a single XLSX source from r, merging into the same
// last-wins directory shape as LoadFiles.
func (l *Loader) LoadReader(r io.Reader, name string) (*matcher.Directory, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open rate sheet %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	dir := matcher.NewDirectory()
	l.loadWorkbook(dir, f, name)
	return dir, nil
}

func (l *Loader) loadWorkbook(dir *matcher.Directory, f *excelize.File, source string) {
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			l.logger.Warn("failed to read sheet", "source", source, "sheet", sheet, "error", err)
			continue
		}
		header := findHeaderRow(rows)
		if header < 0 {
			// Sheets without a rate table are expected; not an error.
			continue
		}
		added := l.loadRows(dir, rows[header+1:], source, sheet)
		l.logger.Debug("loaded rate table",
			"source", source, "sheet", sheet, "rows", added)
	}
}

// findHeaderRow locates the row whose first two cells read "Name" and
// "Pay Rate", case-insensitively. Returns -1 when the sheet has no table.
func findHeaderRow(rows [][]string) int {
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(row[0]), headerName) &&
			strings.EqualFold(strings.TrimSpace(row[1]), headerRate) {
			return i
		}
	}
	return -1
}

func (l *Loader) loadRows(dir *matcher.Directory, rows [][]string, source, sheet string) int {
	added := 0
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		name := strings.TrimSpace(row[0])
		rateText := strings.TrimSpace(row[1])
		if name == "" || rateText == "" {
			continue
		}
		rate, err := strconv.ParseFloat(strings.TrimPrefix(rateText, "£"), 64)
		if err != nil {
			// Malformed rows are dropped, never fatal.
			l.logger.Debug("dropping rate row with non-numeric rate",
				"source", source, "sheet", sheet, "name", name, "rate", rateText)
			continue
		}
		dir.Add(name, rate)
		added++
	}
	return added
}
