package matcher

import (
	"github.com/prlpayroll/timecard/internal/model"
)

// Match resolves an extracted name against the directory.
//
// Exact canonical hits return the directory entry with confidence 1.0,
// never a recomputed similarity. Otherwise every directory key is scored
// against the canonical input and the best ratio wins if it clears the
// threshold. Below threshold the result carries no matched name and the
// default rate, but still reports the best ratio seen so callers can show
// "nearest miss" diagnostics.
//
// Ties on the best ratio go to the earlier directory entry (insertion order).
func Match(rawName string, dir *Directory, threshold, defaultRate float64) model.MatchResult {
	canonical := Normalize(rawName)
	if canonical == "" {
		return model.MatchResult{Rate: defaultRate, Confidence: 0.0}
	}

	if entry, ok := dir.LookupExact(canonical); ok {
		return model.MatchResult{
			MatchedName: entry.RawName,
			Rate:        entry.Rate,
			Confidence:  1.0,
		}
	}

	bestRatio := 0.0
	var bestEntry model.RateEntry
	found := false
	for _, key := range dir.keys {
		ratio := Similarity(key, canonical)
		if ratio > bestRatio {
			bestRatio = ratio
			bestEntry = dir.entries[key]
			found = true
		}
	}

	if found && bestRatio >= threshold {
		return model.MatchResult{
			MatchedName: bestEntry.RawName,
			Rate:        bestEntry.Rate,
			Confidence:  bestRatio,
		}
	}

	return model.MatchResult{Rate: defaultRate, Confidence: bestRatio}
}
