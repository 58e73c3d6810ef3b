package rates

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeRateSheet builds an XLSX file where each sheet's rows start at the
// given coordinates. Rows are [name, rate] pairs written below a
// "Name"/"Pay Rate" header.
func writeRateSheet(t *testing.T, path string, sheets map[string][][]any) {
	t.Helper()
	f := excelize.NewFile()
	first := true
	for sheet, rows := range sheets {
		if first {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
			first = false
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				t.Fatalf("new sheet: %v", err)
			}
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
}

func TestLoadFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.xlsx")
	writeRateSheet(t, path, map[string][][]any{
		"Contractors": {
			{"PRL Group — Weekly Rates", ""},
			{"Name", "Pay Rate"},
			{"John Smith", 20.0},
			{"José García", 18.5},
		},
	})

	dir, err := NewLoader(nil).LoadFiles(path)
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if dir.Len() != 2 {
		t.Fatalf("Len = %d, want 2", dir.Len())
	}

	entry, ok := dir.LookupExact("john smith")
	if !ok || entry.Rate != 20.0 {
		t.Errorf("john smith entry = %+v ok=%v", entry, ok)
	}
	entry, ok = dir.LookupExact("jose garcia")
	if !ok || entry.Rate != 18.5 {
		t.Errorf("jose garcia entry = %+v ok=%v", entry, ok)
	}
}

func TestLoadFilesHeaderNotFirstRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.xlsx")
	writeRateSheet(t, path, map[string][][]any{
		"Rates": {
			{"Some title"},
			{""},
			{"Name", "Pay Rate"},
			{"A Worker", 16.0},
		},
	})

	dir, err := NewLoader(nil).LoadFiles(path)
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if _, ok := dir.LookupExact("a worker"); !ok {
		t.Error("expected entry when header is below a title row")
	}
}

func TestLoadFilesDropsMalformedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.xlsx")
	writeRateSheet(t, path, map[string][][]any{
		"Rates": {
			{"Name", "Pay Rate"},
			{"Good Worker", 17.0},
			{"", 21.0},
			{"No Rate Worker", ""},
			{"Bad Rate Worker", "TBD"},
			{"Another Good", "£19.50"},
		},
	})

	dir, err := NewLoader(nil).LoadFiles(path)
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if dir.Len() != 2 {
		t.Errorf("Len = %d, want 2 (malformed rows dropped)", dir.Len())
	}
	if entry, ok := dir.LookupExact("another good"); !ok || entry.Rate != 19.5 {
		t.Errorf("currency-prefixed rate: entry=%+v ok=%v", entry, ok)
	}
}

func TestLoadFilesSkipsSheetsWithoutTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.xlsx")
	writeRateSheet(t, path, map[string][][]any{
		"Notes": {
			{"Nothing to see here"},
		},
		"Rates": {
			{"Name", "Pay Rate"},
			{"Only Worker", 15.5},
		},
	})

	dir, err := NewLoader(nil).LoadFiles(path)
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if dir.Len() != 1 {
		t.Errorf("Len = %d, want 1 (tableless sheet skipped silently)", dir.Len())
	}
}

func TestLoadFilesMergeLastWins(t *testing.T) {
	tmp := t.TempDir()
	first := filepath.Join(tmp, "first.xlsx")
	second := filepath.Join(tmp, "second.xlsx")
	writeRateSheet(t, first, map[string][][]any{
		"Rates": {
			{"Name", "Pay Rate"},
			{"A Worker", 16.0},
			{"B Worker", 17.0},
		},
	})
	writeRateSheet(t, second, map[string][][]any{
		"Rates": {
			{"Name", "Pay Rate"},
			{"A Worker", 18.0},
		},
	})

	dir, err := NewLoader(nil).LoadFiles(first, second)
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	entry, _ := dir.LookupExact("a worker")
	if entry.Rate != 18.0 {
		t.Errorf("rate = %v, want the later source's 18.0", entry.Rate)
	}
	if dir.Len() != 2 {
		t.Errorf("Len = %d, want 2", dir.Len())
	}
}

func TestLoadFilesMissingFile(t *testing.T) {
	_, err := NewLoader(nil).LoadFiles(filepath.Join(t.TempDir(), "nope.xlsx"))
	if err == nil {
		t.Fatal("expected error for missing rate sheet")
	}
}
