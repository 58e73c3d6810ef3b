package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prlpayroll/timecard/internal/common"
	"github.com/prlpayroll/timecard/internal/model"
	"github.com/prlpayroll/timecard/internal/service"
)

// SaveRecords inserts a batch of timesheet records, skipping duplicates.
// A duplicate is a row whose (name, date range) hash is already stored,
// the idempotence guard against processing the same document twice.
func (s *SQLiteStorage) SaveRecords(ctx context.Context, records []*model.TimesheetRecord) (service.SaveResult, error) {
	var result service.SaveResult
	if err := validateContext(ctx); err != nil {
		return result, err
	}
	if err := validateRecords(records); err != nil {
		return result, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, rec := range records {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO timesheet_entries (
				hash, name, matched_as, ratio, match_status,
				client, site_address, department,
				weekday_hours, saturday_hours, sunday_hours, rate,
				date_range, extracted_on, source_file, is_paid
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(hash) DO NOTHING
		`,
			rec.GenerateHash(),
			rec.Name,
			nullableString(rec.Match.MatchedName),
			rec.Match.Confidence,
			string(rec.Status),
			rec.Client,
			rec.SiteAddress,
			rec.Department,
			rec.Pay.WeekdayHours,
			rec.Pay.SaturdayHours,
			rec.Pay.SundayHours,
			rec.Match.Rate,
			rec.DateRange,
			rec.ExtractedOn,
			rec.SourceFile,
			rec.IsPaid,
		)
		if err != nil {
			return service.SaveResult{}, fmt.Errorf("failed to save record for %s: %w", rec.Name, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return service.SaveResult{}, fmt.Errorf("failed to read rows affected: %w", err)
		}
		if affected == 0 {
			result.Duplicates++
			continue
		}
		result.Inserted++
		if id, err := res.LastInsertId(); err == nil {
			rec.ID = id
		}
	}

	if err := tx.Commit(); err != nil {
		return service.SaveResult{}, fmt.Errorf("failed to commit batch: %w", err)
	}
	return result, nil
}

const recordColumns = `
	id, name, matched_as, ratio, match_status,
	client, site_address, department,
	weekday_hours, saturday_hours, sunday_hours, rate,
	date_range, extracted_on, source_file, upload_timestamp, is_paid`

// ListRecords returns records matching the filter, newest upload first.
func (s *SQLiteStorage) ListRecords(ctx context.Context, filter service.RecordFilter) ([]model.TimesheetRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var conditions []string
	var args []any
	if filter.UploadedFrom != nil {
		conditions = append(conditions, "upload_timestamp >= ?")
		args = append(args, *filter.UploadedFrom)
	}
	if filter.UploadedTo != nil {
		conditions = append(conditions, "upload_timestamp <= ?")
		args = append(args, *filter.UploadedTo)
	}
	if filter.NeedsReview {
		conditions = append(conditions, "match_status = ?")
		args = append(args, string(model.StatusUnmatched))
	}
	if filter.UnpaidOnly {
		conditions = append(conditions, "is_paid = 0")
	}

	query := "SELECT " + recordColumns + " FROM timesheet_entries"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY upload_timestamp DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.TimesheetRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetRecordByID returns a single record or common.ErrNotFound.
func (s *SQLiteStorage) GetRecordByID(ctx context.Context, id int64) (*model.TimesheetRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM timesheet_entries WHERE id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: record %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ApplyOverride records a human-confirmed match. Manual resolution is
// terminal: a second override of the same record fails.
func (s *SQLiteStorage) ApplyOverride(ctx context.Context, id int64, matchedName string, rate float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(matchedName, "matchedName"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var status string
	var oldMatched sql.NullString
	var oldRate float64
	err = tx.QueryRowContext(ctx,
		"SELECT match_status, matched_as, rate FROM timesheet_entries WHERE id = ?", id).
		Scan(&status, &oldMatched, &oldRate)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: record %d", common.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to load record %d: %w", id, err)
	}
	if status == string(model.StatusManuallyResolved) {
		return fmt.Errorf("%w: record %d", common.ErrAlreadyResolved, id)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE timesheet_entries
		SET matched_as = ?, ratio = 1.0, rate = ?, match_status = ?
		WHERE id = ?
	`, matchedName, rate, string(model.StatusManuallyResolved), id)
	if err != nil {
		return fmt.Errorf("failed to apply override: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO override_history (entry_id, old_matched_as, new_matched_as, old_rate, new_rate)
		VALUES (?, ?, ?, ?, ?)
	`, id, oldMatched, matchedName, oldRate, rate)
	if err != nil {
		return fmt.Errorf("failed to record override history: %w", err)
	}

	return tx.Commit()
}

// MarkPaid flags the given records as paid.
func (s *SQLiteStorage) MarkPaid(ctx context.Context, ids []int64) error {
	return s.updateByIDs(ctx, "UPDATE timesheet_entries SET is_paid = 1 WHERE id IN", ids)
}

// DeleteRecords removes the given records.
func (s *SQLiteStorage) DeleteRecords(ctx context.Context, ids []int64) error {
	return s.updateByIDs(ctx, "DELETE FROM timesheet_entries WHERE id IN", ids)
}

func (s *SQLiteStorage) updateByIDs(ctx context.Context, prefix string, ids []int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateIDs(ids); err != nil {
		return err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	_, err := s.db.ExecContext(ctx, prefix+" ("+placeholders+")", args...)
	if err != nil {
		return fmt.Errorf("failed to update records: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (model.TimesheetRecord, error) {
	var rec model.TimesheetRecord
	var matchedAs sql.NullString
	var extractedOn, uploadedAt sql.NullTime
	var status string

	err := row.Scan(
		&rec.ID,
		&rec.Name,
		&matchedAs,
		&rec.Match.Confidence,
		&status,
		&rec.Client,
		&rec.SiteAddress,
		&rec.Department,
		&rec.Pay.WeekdayHours,
		&rec.Pay.SaturdayHours,
		&rec.Pay.SundayHours,
		&rec.Match.Rate,
		&rec.DateRange,
		&extractedOn,
		&rec.SourceFile,
		&uploadedAt,
		&rec.IsPaid,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("failed to scan record: %w", err)
	}

	rec.Match.MatchedName = matchedAs.String
	rec.Status = model.MatchStatus(status)
	if extractedOn.Valid {
		rec.ExtractedOn = extractedOn.Time
	}
	if uploadedAt.Valid {
		rec.UploadedAt = uploadedAt.Time
	}
	return rec, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// UploadWindow converts a named date preset into a half-open upload
// timestamp window ending now. Supported presets mirror the history view:
// last-30-days, this-month, last-month, year-to-date.
func UploadWindow(preset string, now time.Time) (from, to time.Time, err error) {
	to = now
	switch preset {
	case "last-30-days":
		from = now.AddDate(0, 0, -30)
	case "this-month":
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case "last-month":
		firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		from = firstOfThis.AddDate(0, -1, 0)
		to = firstOfThis.Add(-time.Nanosecond)
	case "year-to-date":
		from = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: unknown date preset %q", common.ErrInvalidConfig, preset)
	}
	return from, to, nil
}
