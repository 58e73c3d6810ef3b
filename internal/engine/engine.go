// Package engine assembles extracted timesheet data into persisted records:
// it resolves each worker name against the rate directory, computes the pay
// breakdown, validates aggregate hours, and hands the batch to storage.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prlpayroll/timecard/internal/common"
	"github.com/prlpayroll/timecard/internal/config"
	"github.com/prlpayroll/timecard/internal/extract"
	"github.com/prlpayroll/timecard/internal/matcher"
	"github.com/prlpayroll/timecard/internal/model"
	"github.com/prlpayroll/timecard/internal/paycalc"
	"github.com/prlpayroll/timecard/internal/service"
)

// Aggregate hours caps. A weekday total above a full week of round-the-clock
// work, or a single weekend day above 24 hours, means the document was
// misparsed and the record must not reach the database.
const (
	maxWeekdayHours    = 168.0
	maxWeekendDayHours = 24.0
)

// Engine wires extraction, matching, pay computation and storage together.
type Engine struct {
	store     service.Storage
	extractor *extract.Extractor
	directory *matcher.Directory
	policy    config.PayPolicy
	logger    *slog.Logger
}

// New creates a processing engine. The directory may be empty, in which case
// every record comes out unmatched at the default rate.
func New(store service.Storage, extractor *extract.Extractor, dir *matcher.Directory, policy config.PayPolicy, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if dir == nil {
		dir = matcher.NewDirectory()
	}
	return &Engine{
		store:     store,
		extractor: extractor,
		directory: dir,
		policy:    policy,
		logger:    logger,
	}
}

// BuildRecord turns one extraction into a full timesheet record: name
// resolution, pay breakdown, and match status.
func (e *Engine) BuildRecord(ext extract.Extraction) *model.TimesheetRecord {
	match := matcher.Match(ext.Name, e.directory, e.policy.SimilarityThreshold, e.policy.DefaultRate)
	pay := paycalc.Compute(e.policy.Calc, match.Rate, ext.Daily)

	return &model.TimesheetRecord{
		Name:        ext.Name,
		Client:      ext.Client,
		SiteAddress: ext.SiteAddress,
		Department:  ext.Department,
		DateRange:   ext.DateRange,
		SourceFile:  ext.SourceFile,
		ExtractedOn: ext.ExtractedOn,
		Match:       match,
		Status:      match.Status(),
		Pay:         pay,
		Daily:       ext.Daily,
	}
}

// validateHours rejects records whose aggregate hours are physically
// impossible. This blocks persistence only; callers still see the record in
// the summary so the operator can fix the source document.
func validateHours(rec *model.TimesheetRecord) error {
	if rec.Pay.WeekdayHours < 0 || rec.Pay.SaturdayHours < 0 || rec.Pay.SundayHours < 0 {
		return fmt.Errorf("%w: negative hours for %s", common.ErrValidation, rec.Name)
	}
	if rec.Pay.WeekdayHours > maxWeekdayHours {
		return fmt.Errorf("%w: %s has %.1f weekday hours", common.ErrValidation, rec.Name, rec.Pay.WeekdayHours)
	}
	if rec.Pay.SaturdayHours > maxWeekendDayHours {
		return fmt.Errorf("%w: %s has %.1f Saturday hours", common.ErrValidation, rec.Name, rec.Pay.SaturdayHours)
	}
	if rec.Pay.SundayHours > maxWeekendDayHours {
		return fmt.Errorf("%w: %s has %.1f Sunday hours", common.ErrValidation, rec.Name, rec.Pay.SundayHours)
	}
	return nil
}

// Override applies a manual match correction. The replacement name must be
// an exact entry in the rate directory; its rate replaces the stored one and
// the record becomes terminally resolved.
func (e *Engine) Override(ctx context.Context, id int64, matchedName string) error {
	entry, ok := e.directory.LookupExact(matcher.Normalize(matchedName))
	if !ok {
		return fmt.Errorf("%w: %q is not in the rate directory", common.ErrNotFound, matchedName)
	}

	if err := e.store.ApplyOverride(ctx, id, entry.RawName, entry.Rate); err != nil {
		return err
	}

	e.logger.Info("Applied manual override",
		"record_id", id,
		"matched_as", entry.RawName,
		"rate", entry.Rate)
	return nil
}
