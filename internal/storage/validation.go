package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prlpayroll/timecard/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrEmptySlice    = errors.New("slice cannot be empty")
	ErrInvalidRecord = errors.New("invalid timesheet record")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateIDs ensures an id slice has at least one entry.
func validateIDs(ids []int64) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: ids", ErrEmptySlice)
	}
	return nil
}

// validateRecords validates a slice of records before insert.
func validateRecords(records []*model.TimesheetRecord) error {
	if records == nil {
		return fmt.Errorf("%w: records", ErrNilParameter)
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: records", ErrEmptySlice)
	}
	for i, rec := range records {
		if err := validateRecord(rec); err != nil {
			return fmt.Errorf("record at index %d: %w", i, err)
		}
	}
	return nil
}

func validateRecord(rec *model.TimesheetRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if strings.TrimSpace(rec.Name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidRecord)
	}
	if rec.Match.Rate < 0 {
		return fmt.Errorf("%w: negative rate", ErrInvalidRecord)
	}
	if rec.Pay.WeekdayHours < 0 || rec.Pay.SaturdayHours < 0 || rec.Pay.SundayHours < 0 {
		return fmt.Errorf("%w: negative hours", ErrInvalidRecord)
	}
	switch rec.Status {
	case model.StatusAutoMatched, model.StatusUnmatched, model.StatusManuallyResolved:
	default:
		return fmt.Errorf("%w: status %q", ErrInvalidRecord, rec.Status)
	}
	return nil
}
