// Package export produces the payroll XLSX workbook from stored timesheet
// records. Pay columns are written either as literal values rounded to two
// decimal places, or as live spreadsheet formulas so payroll staff can adjust
// hours and rates in place.
package export

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/prlpayroll/timecard/internal/model"
	"github.com/prlpayroll/timecard/internal/paycalc"
)

const sheetName = "Payroll"

var headers = []string{
	"Name",
	"Matched As",
	"Ratio",
	"Client",
	"Site Address",
	"Department",
	"Weekday Hours",
	"Saturday Hours",
	"Sunday Hours",
	"Rate",
	"Regular Pay",
	"Overtime Pay",
	"Saturday Pay",
	"Sunday Pay",
	"Total Pay",
	"Date Range",
	"Extracted On",
	"Source File",
}

// Options configures an export run.
type Options struct {
	// Formulas writes the pay columns as spreadsheet formulas over the
	// hours and rate cells instead of literal values.
	Formulas bool
}

// Exporter writes payroll workbooks. The pay policy is needed to price
// records (only hours and rate are stored) and to parameterize formulas.
type Exporter struct {
	logger *slog.Logger
	calc   paycalc.Config
}

// NewExporter creates an exporter under the given pay policy.
func NewExporter(calc paycalc.Config, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{calc: calc, logger: logger}
}

// WriteFile writes the workbook to path.
func (e *Exporter) WriteFile(path string, records []model.TimesheetRecord, opts Options) error {
	f, err := e.build(records, opts)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	e.logger.Info("Exported payroll workbook",
		"path", path,
		"rows", len(records),
		"formulas", opts.Formulas)
	return nil
}

// Write streams the workbook to w.
func (e *Exporter) Write(w io.Writer, records []model.TimesheetRecord, opts Options) error {
	f, err := e.build(records, opts)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (e *Exporter) build(records []model.TimesheetRecord, opts Options) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, rec := range records {
		row := i + 2
		if err := e.writeRecord(f, row, rec, opts); err != nil {
			return nil, err
		}
	}

	widths := []struct {
		from, to string
		width    float64
	}{
		{"A", "B", 24}, // names
		{"C", "C", 8},
		{"D", "E", 28}, // client, site
		{"F", "F", 18},
		{"G", "J", 12}, // hours, rate
		{"K", "O", 13}, // pay
		{"P", "P", 24},
		{"Q", "Q", 14},
		{"R", "R", 32},
	}
	for _, w := range widths {
		_ = f.SetColWidth(sheetName, w.from, w.to, w.width)
	}

	return f, nil
}

func (e *Exporter) writeRecord(f *excelize.File, row int, rec model.TimesheetRecord, opts Options) error {
	extracted := ""
	if !rec.ExtractedOn.IsZero() {
		extracted = rec.ExtractedOn.Format(time.DateOnly)
	}

	values := []any{
		rec.Name,
		rec.Match.MatchedName,
		round2(rec.Match.Confidence),
		rec.Client,
		rec.SiteAddress,
		rec.Department,
		rec.Pay.WeekdayHours,
		rec.Pay.SaturdayHours,
		rec.Pay.SundayHours,
		rec.Match.Rate,
	}
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}

	if opts.Formulas {
		if err := e.writePayFormulas(f, row); err != nil {
			return err
		}
	} else {
		e.writePayValues(f, row, rec)
	}

	tail := []any{rec.DateRange, extracted, rec.SourceFile}
	cell, _ = excelize.CoordinatesToCellName(16, row)
	if err := f.SetSheetRow(sheetName, cell, &tail); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

// writePayValues prices the stored hours under the policy and writes rounded
// literals. Stored records carry hours and rate only, so the breakdown is
// recomputed here at full precision before the final rounding.
func (e *Exporter) writePayValues(f *excelize.File, row int, rec model.TimesheetRecord) {
	pay := paycalc.Compute(e.calc, rec.Match.Rate, []model.DailyHours{
		{Category: model.DayWeekday, Hours: rec.Pay.WeekdayHours},
		{Category: model.DaySaturday, Hours: rec.Pay.SaturdayHours},
		{Category: model.DaySunday, Hours: rec.Pay.SundayHours},
	})

	for i, v := range []float64{pay.RegularPay, pay.OvertimePay, pay.SaturdayPay, pay.SundayPay, pay.TotalPay} {
		cell, _ := excelize.CoordinatesToCellName(11+i, row)
		_ = f.SetCellValue(sheetName, cell, round2(v))
	}
}

// writePayFormulas writes live formulas over the hours (G:I) and rate (J)
// cells, with the policy constants baked into the formula text.
func (e *Exporter) writePayFormulas(f *excelize.File, row int) error {
	formulas := map[string]string{
		"K": fmt.Sprintf("=MIN(G%d,%g)*J%d", row, e.calc.OvertimeThresholdHours, row),
		"L": fmt.Sprintf("=MAX(G%d-%g,0)*J%d*%g", row, e.calc.OvertimeThresholdHours, row, e.calc.OvertimeMultiplier),
		"M": fmt.Sprintf("=H%d*J%d*%g", row, row, e.calc.SaturdayMultiplier),
		"N": fmt.Sprintf("=I%d*J%d*%g", row, row, e.calc.SundayMultiplier),
		"O": fmt.Sprintf("=K%d+L%d+M%d+N%d", row, row, row, row),
	}
	for col, formula := range formulas {
		if err := f.SetCellFormula(sheetName, fmt.Sprintf("%s%d", col, row), formula); err != nil {
			return fmt.Errorf("failed to set formula in %s%d: %w", col, row, err)
		}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
