package extract

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/prlpayroll/timecard/internal/model"
)

const anelFixture = `Anel Weekly Hours Report
Report Range: Mon 03/06/24 to Sun 09/06/24

ID Name Paylink Comp Site Dept Mon Tue Wed Thu Fri Tot Sat-Sun Sun Total
1234 JOHN SMITH - Acme Ltd Kings Cross Civils - 8:00 8:00 8:00 8:00 8:00 40:00 4:30 0:00 44:30
1235 JOSE GARCIA - Acme Ltd Kings Cross Rail - 10:00 10:00 10:00 10:00 10:00 50:00 0:00 6:00 56:00
9999 NOT A REAL ROW missing clock block
Grand Totals 90:00 4:30 6:00 100:30
`

func sumCategory(daily []model.DailyHours, cat model.DayCategory) float64 {
	var total float64
	for _, d := range daily {
		if d.Category == cat {
			total += d.Hours
		}
	}
	return total
}

func TestParseAnelReport(t *testing.T) {
	e := NewExtractor(nil)
	recs := e.ParseAnelReport(anelFixture, "week23.pdf")

	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}

	first := recs[0]
	if first.Name != "John Smith" {
		t.Errorf("Name = %q, want %q", first.Name, "John Smith")
	}
	if first.Client != "Acme Ltd" {
		t.Errorf("Client = %q, want %q", first.Client, "Acme Ltd")
	}
	if first.SiteAddress != "Kings Cross" {
		t.Errorf("SiteAddress = %q, want %q", first.SiteAddress, "Kings Cross")
	}
	if first.Department != "Civils" {
		t.Errorf("Department = %q, want %q", first.Department, "Civils")
	}
	if first.DateRange != "03.06.2024–09.06.2024" {
		t.Errorf("DateRange = %q", first.DateRange)
	}
	if first.SourceFile != "week23.pdf" {
		t.Errorf("SourceFile = %q", first.SourceFile)
	}

	if wd := sumCategory(first.Daily, model.DayWeekday); wd != 40 {
		t.Errorf("weekday hours = %v, want 40", wd)
	}
	if sat := sumCategory(first.Daily, model.DaySaturday); math.Abs(sat-4.5) > 1e-9 {
		t.Errorf("saturday hours = %v, want 4.5", sat)
	}
	// 0:00 Sunday is omitted entirely, not recorded as zero.
	if sun := sumCategory(first.Daily, model.DaySunday); sun != 0 {
		t.Errorf("sunday hours = %v, want 0", sun)
	}

	second := recs[1]
	if second.Name != "Jose Garcia" {
		t.Errorf("Name = %q, want %q", second.Name, "Jose Garcia")
	}
	if wd := sumCategory(second.Daily, model.DayWeekday); wd != 50 {
		t.Errorf("weekday hours = %v, want 50", wd)
	}
	if sun := sumCategory(second.Daily, model.DaySunday); sun != 6 {
		t.Errorf("sunday hours = %v, want 6", sun)
	}
}

type stubRunner struct {
	stdout []byte
	err    error
	calls  [][]string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, append([]string{name}, args...))
	return s.stdout, nil, s.err
}

func TestExtractPDF(t *testing.T) {
	runner := &stubRunner{stdout: []byte(anelFixture)}
	e := NewExtractor(nil, WithRunner(runner), WithPdftotext("/opt/poppler/pdftotext"))

	recs, err := e.ExtractPDF(context.Background(), "week23.pdf")
	if err != nil {
		t.Fatalf("ExtractPDF: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if len(runner.calls) != 1 || runner.calls[0][0] != "/opt/poppler/pdftotext" {
		t.Errorf("runner calls = %v", runner.calls)
	}
}

func TestExtractPDFCommandFails(t *testing.T) {
	runner := &stubRunner{err: errors.New("binary not found")}
	e := NewExtractor(nil, WithRunner(runner))

	if _, err := e.ExtractPDF(context.Background(), "week23.pdf"); err == nil {
		t.Fatal("expected error when pdftotext fails")
	}
}

func TestParseAnelReportNoHeader(t *testing.T) {
	e := NewExtractor(nil)
	recs := e.ParseAnelReport("just some text\nwith no report header\n", "bad.pdf")
	if len(recs) != 0 {
		t.Errorf("got %d records from headerless text, want 0", len(recs))
	}
}

func TestParseAnelReportStopsAtGrandTotals(t *testing.T) {
	text := anelFixture +
		"1236 GHOST WORKER - Acme Ltd Kings Cross Civils - 8:00 8:00 8:00 8:00 8:00 40:00 0:00 0:00 40:00\n"
	e := NewExtractor(nil)
	recs := e.ParseAnelReport(text, "week23.pdf")
	if len(recs) != 2 {
		t.Errorf("got %d records, want rows after Grand Totals ignored", len(recs))
	}
}

func TestParseAnelReportMissingRange(t *testing.T) {
	text := `ID Name Paylink Comp Site Dept Tot Sat-Sun
1234 JOHN SMITH - Acme Ltd Kings Cross Civils - 8:00 8:00 8:00 8:00 8:00 40:00 0:00 0:00 40:00
`
	e := NewExtractor(nil)
	recs := e.ParseAnelReport(text, "week23.pdf")
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if recs[0].DateRange != "" {
		t.Errorf("DateRange = %q, want empty without a Report Range line", recs[0].DateRange)
	}
}
