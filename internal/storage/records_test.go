package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prlpayroll/timecard/internal/common"
	"github.com/prlpayroll/timecard/internal/model"
	"github.com/prlpayroll/timecard/internal/service"
)

func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return store
}

func testRecord(name, dateRange string) *model.TimesheetRecord {
	return &model.TimesheetRecord{
		Name:        name,
		Client:      "Acme Ltd",
		SiteAddress: "12 High Street",
		DateRange:   dateRange,
		SourceFile:  "week23.docx",
		ExtractedOn: time.Now(),
		Match: model.MatchResult{
			MatchedName: name,
			Rate:        20.0,
			Confidence:  1.0,
		},
		Status: model.StatusAutoMatched,
		Pay: model.PayBreakdown{
			WeekdayHours:  45,
			SaturdayHours: 8,
			SundayHours:   4,
		},
	}
}

func TestSaveRecordsAndList(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	records := []*model.TimesheetRecord{
		testRecord("John Smith", "03.06.2024–09.06.2024"),
		testRecord("Jose Garcia", "03.06.2024–09.06.2024"),
	}
	result, err := store.SaveRecords(ctx, records)
	if err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}
	if result.Inserted != 2 || result.Duplicates != 0 {
		t.Errorf("result = %+v, want 2 inserted", result)
	}
	if records[0].ID == 0 {
		t.Error("inserted record should have its ID populated")
	}

	got, err := store.ListRecords(ctx, service.RecordFilter{})
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}

	rec := got[0]
	if rec.Name != "Jose Garcia" && rec.Name != "John Smith" {
		t.Errorf("unexpected record %+v", rec)
	}
	for _, rec := range got {
		if rec.Pay.WeekdayHours != 45 || rec.Pay.SaturdayHours != 8 || rec.Pay.SundayHours != 4 {
			t.Errorf("hours not round-tripped: %+v", rec.Pay)
		}
		if rec.Match.Rate != 20.0 || rec.Match.Confidence != 1.0 {
			t.Errorf("match not round-tripped: %+v", rec.Match)
		}
		if rec.Status != model.StatusAutoMatched {
			t.Errorf("Status = %q", rec.Status)
		}
		if rec.UploadedAt.IsZero() {
			t.Error("UploadedAt should be set by the database")
		}
	}
}

func TestSaveRecordsSkipsDuplicates(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	first := []*model.TimesheetRecord{testRecord("John Smith", "03.06.2024–09.06.2024")}
	if _, err := store.SaveRecords(ctx, first); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}

	// Same worker and period from a different source file is a duplicate.
	dup := testRecord("John Smith", "03.06.2024–09.06.2024")
	dup.SourceFile = "resent_copy.docx"
	result, err := store.SaveRecords(ctx, []*model.TimesheetRecord{
		dup,
		testRecord("John Smith", "10.06.2024–16.06.2024"),
	})
	if err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}
	if result.Inserted != 1 || result.Duplicates != 1 {
		t.Errorf("result = %+v, want 1 inserted 1 duplicate", result)
	}

	got, err := store.ListRecords(ctx, service.RecordFilter{})
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d records, want 2", len(got))
	}
}

func TestListRecordsNeedsReview(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	matched := testRecord("John Smith", "03.06.2024–09.06.2024")
	unmatched := testRecord("Zxy Qqq", "03.06.2024–09.06.2024")
	unmatched.Match = model.MatchResult{Rate: 15.0, Confidence: 0.21}
	unmatched.Status = model.StatusUnmatched

	if _, err := store.SaveRecords(ctx, []*model.TimesheetRecord{matched, unmatched}); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}

	got, err := store.ListRecords(ctx, service.RecordFilter{NeedsReview: true})
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if got[0].Name != "Zxy Qqq" {
		t.Errorf("Name = %q", got[0].Name)
	}
	if got[0].Match.MatchedName != "" {
		t.Errorf("MatchedName = %q, want empty for unmatched row", got[0].Match.MatchedName)
	}
}

func TestApplyOverride(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	rec := testRecord("Zxy Qqq", "03.06.2024–09.06.2024")
	rec.Match = model.MatchResult{Rate: 15.0, Confidence: 0.21}
	rec.Status = model.StatusUnmatched
	if _, err := store.SaveRecords(ctx, []*model.TimesheetRecord{rec}); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}

	if err := store.ApplyOverride(ctx, rec.ID, "John Smith", 20.0); err != nil {
		t.Fatalf("ApplyOverride: %v", err)
	}

	got, err := store.GetRecordByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetRecordByID: %v", err)
	}
	if got.Match.MatchedName != "John Smith" {
		t.Errorf("MatchedName = %q", got.Match.MatchedName)
	}
	if got.Match.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0 for human-confirmed match", got.Match.Confidence)
	}
	if got.Match.Rate != 20.0 {
		t.Errorf("Rate = %v", got.Match.Rate)
	}
	if got.Status != model.StatusManuallyResolved {
		t.Errorf("Status = %q", got.Status)
	}

	// Manual resolution is terminal.
	err = store.ApplyOverride(ctx, rec.ID, "Jose Garcia", 18.5)
	if !errors.Is(err, common.ErrAlreadyResolved) {
		t.Errorf("second override err = %v, want ErrAlreadyResolved", err)
	}
}

func TestApplyOverrideMissingRecord(t *testing.T) {
	store := createTestStorage(t)
	err := store.ApplyOverride(context.Background(), 9999, "John Smith", 20.0)
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMarkPaidAndUnpaidFilter(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	a := testRecord("John Smith", "03.06.2024–09.06.2024")
	b := testRecord("Jose Garcia", "03.06.2024–09.06.2024")
	if _, err := store.SaveRecords(ctx, []*model.TimesheetRecord{a, b}); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}

	if err := store.MarkPaid(ctx, []int64{a.ID}); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}

	unpaid, err := store.ListRecords(ctx, service.RecordFilter{UnpaidOnly: true})
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(unpaid) != 1 || unpaid[0].ID != b.ID {
		t.Errorf("unpaid = %+v, want only the second record", unpaid)
	}

	paid, err := store.GetRecordByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetRecordByID: %v", err)
	}
	if !paid.IsPaid {
		t.Error("record should be marked paid")
	}
}

func TestDeleteRecords(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	rec := testRecord("John Smith", "03.06.2024–09.06.2024")
	if _, err := store.SaveRecords(ctx, []*model.TimesheetRecord{rec}); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}
	if err := store.DeleteRecords(ctx, []int64{rec.ID}); err != nil {
		t.Fatalf("DeleteRecords: %v", err)
	}
	if _, err := store.GetRecordByID(ctx, rec.ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after delete", err)
	}
}

func TestSaveRecordsRejectsInvalid(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	if _, err := store.SaveRecords(ctx, nil); err == nil {
		t.Error("expected error for nil slice")
	}
	bad := testRecord("", "03.06.2024–09.06.2024")
	if _, err := store.SaveRecords(ctx, []*model.TimesheetRecord{bad}); err == nil {
		t.Error("expected error for blank name")
	}
}

func TestUploadWindow(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		preset   string
		wantFrom time.Time
		wantTo   time.Time
	}{
		{
			preset:   "last-30-days",
			wantFrom: now.AddDate(0, 0, -30),
			wantTo:   now,
		},
		{
			preset:   "this-month",
			wantFrom: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   now,
		},
		{
			preset:   "last-month",
			wantFrom: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
		},
		{
			preset:   "year-to-date",
			wantFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   now,
		},
	}
	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			from, to, err := UploadWindow(tt.preset, now)
			if err != nil {
				t.Fatalf("UploadWindow: %v", err)
			}
			if !from.Equal(tt.wantFrom) || !to.Equal(tt.wantTo) {
				t.Errorf("window = %v..%v, want %v..%v", from, to, tt.wantFrom, tt.wantTo)
			}
		})
	}

	if _, _, err := UploadWindow("fortnight", now); err == nil {
		t.Error("expected error for unknown preset")
	}
}
