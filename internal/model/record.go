package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// TimesheetRecord is the persisted unit: one worker's extracted identity for
// one period, combined with the match outcome and the computed pay breakdown.
//
// Lifecycle: created at extraction time, optionally corrected once via a
// manual override (which replaces Match and recomputes Pay from Daily), then
// persisted read-only.
type TimesheetRecord struct {
	ExtractedOn time.Time
	UploadedAt  time.Time

	Name        string // Raw name as extracted from the document
	Client      string
	SiteAddress string
	Department  string
	DateRange   string
	SourceFile  string

	Match  MatchResult
	Status MatchStatus
	Pay    PayBreakdown

	// Daily is retained so an override can recompute Pay. Not persisted.
	Daily []DailyHours

	ID     int64
	IsPaid bool
}

// GenerateHash creates a stable key for duplicate detection. Two uploads of
// the same worker and period collide regardless of source filename.
func (r *TimesheetRecord) GenerateHash() string {
	data := fmt.Sprintf("%s:%s", r.Name, r.DateRange)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
