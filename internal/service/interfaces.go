// Package service defines the interfaces between the processing engine and
// its collaborators.
package service

import (
	"context"
	"time"

	"github.com/prlpayroll/timecard/internal/model"
)

// RecordFilter defines filtering options for timesheet record queries.
type RecordFilter struct {
	UploadedFrom *time.Time
	UploadedTo   *time.Time
	NeedsReview  bool
	UnpaidOnly   bool
	Limit        int
}

// SaveResult reports the outcome of a batch insert.
type SaveResult struct {
	Inserted   int
	Duplicates int
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	// SaveRecords inserts a batch, silently skipping rows whose
	// (name, date range) pair is already stored.
	SaveRecords(ctx context.Context, records []*model.TimesheetRecord) (SaveResult, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]model.TimesheetRecord, error)
	GetRecordByID(ctx context.Context, id int64) (*model.TimesheetRecord, error)

	// ApplyOverride records a human-confirmed match for a record and is
	// the only mutation of match data after insert. It fails once a
	// record is already manually resolved.
	ApplyOverride(ctx context.Context, id int64, matchedName string, rate float64) error

	MarkPaid(ctx context.Context, ids []int64) error
	DeleteRecords(ctx context.Context, ids []int64) error

	Migrate(ctx context.Context) error
	Close() error
}
