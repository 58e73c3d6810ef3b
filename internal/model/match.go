package model

// MatchStatus indicates how a timesheet name was resolved against the rate directory.
type MatchStatus string

// Match status constants.
const (
	StatusUnresolved       MatchStatus = "UNRESOLVED"
	StatusAutoMatched      MatchStatus = "AUTO_MATCHED"
	StatusUnmatched        MatchStatus = "UNMATCHED"
	StatusManuallyResolved MatchStatus = "MANUALLY_RESOLVED"
)

// MatchResult is the outcome of resolving an extracted name against the
// rate directory. MatchedName is empty exactly when Confidence fell below
// the acceptance threshold; Rate is always usable (the default rate is
// substituted for unmatched names).
type MatchResult struct {
	MatchedName string
	Rate        float64
	Confidence  float64
}

// Matched reports whether the name resolved to a directory entry.
func (m MatchResult) Matched() bool {
	return m.MatchedName != ""
}

// Status derives the record state implied by this result. Manual overrides
// are applied elsewhere; an automatic match is never MANUALLY_RESOLVED.
func (m MatchResult) Status() MatchStatus {
	if m.Matched() {
		return StatusAutoMatched
	}
	return StatusUnmatched
}
