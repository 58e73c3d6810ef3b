package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/prlpayroll/timecard/internal/model"
	"github.com/prlpayroll/timecard/internal/paycalc"
)

var (
	reportRangeRe = regexp.MustCompile(
		`Report Range:\s*(?:Mon|Tue|Wed|Thu|Fri|Sat|Sun)\s+(\d{2}/\d{2}/\d{2})\s+to\s+(?:Mon|Tue|Wed|Thu|Fri|Sat|Sun)\s+(\d{2}/\d{2}/\d{2})`)
	clockTokenRe = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
)

// The trailing columns of an Anel report row: Mon..Sun plus weekly and
// weekend totals, each an H:MM token.
const trailingClockTokens = 9

// dayColumns maps a pay category to its offset in the trailing clock block.
// Offsets 5 and 8 are the report's own totals and are ignored; we aggregate
// from the daily columns instead.
var dayColumns = []struct {
	category model.DayCategory
	offset   int
}{
	{model.DayWeekday, 0}, // Monday
	{model.DayWeekday, 1},
	{model.DayWeekday, 2},
	{model.DayWeekday, 3},
	{model.DayWeekday, 4}, // Friday
	{model.DaySaturday, 6},
	{model.DaySunday, 7},
}

// ExtractPDF runs pdftotext on the file and tokenizes the resulting text.
func (e *Extractor) ExtractPDF(ctx context.Context, path string) ([]Extraction, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext %s: %w (%s)", path, err, strings.TrimSpace(string(errb)))
	}
	return e.ParseAnelReport(string(out), path), nil
}

// ParseAnelReport tokenizes the text of an Anel weekly hours report. Each
// worker row carries a trailing block of nine H:MM values (Mon..Sun plus
// totals); the worker's name sits between the leading ID and a "-"
// separator, followed by client, site and department segments. Rows are
// read until the Grand Totals footer. Malformed rows and H:MM tokens are
// skipped and zeroed respectively, never fatal.
func (e *Extractor) ParseAnelReport(text, sourceFile string) []Extraction {
	lines := strings.Split(text, "\n")

	dateRange := anelDateRange(lines)

	headerIdx := -1
	for i, line := range lines {
		if strings.Contains(line, "ID Name Paylink") && strings.Contains(line, "Tot Sat-Sun") {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		e.logger.Warn("no Anel header row found", "source", sourceFile)
		return nil
	}

	var results []Extraction
	for _, raw := range lines[headerIdx+1:] {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, "Grand Totals") {
			break
		}
		if line == "" {
			continue
		}
		rec, ok := e.parseAnelRow(line, dateRange, sourceFile)
		if !ok {
			continue
		}
		results = append(results, rec)
	}
	return results
}

func (e *Extractor) parseAnelRow(line, dateRange, sourceFile string) (Extraction, bool) {
	tokens := strings.Fields(line)
	n := len(tokens)
	if n < trailingClockTokens+1 {
		return Extraction{}, false
	}

	block := tokens[n-trailingClockTokens:]
	for _, t := range block {
		if !clockTokenRe.MatchString(t) {
			return Extraction{}, false
		}
	}

	dashIdx := -1
	for i, t := range tokens {
		if t == "-" {
			dashIdx = i
			break
		}
	}
	if dashIdx < 0 {
		return Extraction{}, false
	}

	rec := Extraction{
		Name:        titleCase(strings.Join(tokens[1:dashIdx], " ")),
		DateRange:   dateRange,
		SourceFile:  sourceFile,
		ExtractedOn: time.Now(),
	}

	for _, col := range dayColumns {
		h := paycalc.ParseHours(block[col.offset])
		if h > 0 {
			rec.Daily = append(rec.Daily, model.DailyHours{Category: col.category, Hours: h})
		}
	}

	// The middle segment between the dash and the clock block holds client,
	// site and department in fixed token spans.
	if dashIdx+2 < n {
		rec.Client = strings.Join(tokens[dashIdx+1:min(dashIdx+3, n)], " ")
	}
	if dashIdx+5 < n {
		rec.SiteAddress = strings.Join(tokens[dashIdx+3:min(dashIdx+5, n)], " ")
	}
	if deptStart, deptEnd := dashIdx+5, n-trailingClockTokens; deptStart < deptEnd {
		rec.Department = strings.TrimRight(strings.Join(tokens[deptStart:deptEnd], " "), "-")
		rec.Department = strings.TrimSpace(rec.Department)
	}

	return rec, true
}

func anelDateRange(lines []string) string {
	for _, line := range lines {
		if !strings.HasPrefix(line, "Report Range:") {
			continue
		}
		m := reportRangeRe.FindStringSubmatch(line)
		if m == nil {
			return ""
		}
		from, err1 := time.Parse("02/01/06", m[1])
		to, err2 := time.Parse("02/01/06", m[2])
		if err1 != nil || err2 != nil {
			return ""
		}
		return fmt.Sprintf("%s–%s", from.Format("02.01.2006"), to.Format("02.01.2006"))
	}
	return ""
}
