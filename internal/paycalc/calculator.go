// Package paycalc applies the tiered overtime and weekend pay policy to a
// worker's daily hours.
package paycalc

import (
	"github.com/prlpayroll/timecard/internal/model"
)

// Config holds the pay policy constants. They are operator-adjustable and
// must never be re-hardcoded inside the calculation itself.
type Config struct {
	// OvertimeThresholdHours is the weekday-hours cutoff above which the
	// overtime multiplier applies. Weekend hours never count toward it.
	OvertimeThresholdHours float64
	OvertimeMultiplier     float64
	SaturdayMultiplier     float64
	SundayMultiplier       float64
}

// DefaultConfig returns the standard UK day-rate contracting policy.
func DefaultConfig() Config {
	return Config{
		OvertimeThresholdHours: 50.0,
		OvertimeMultiplier:     1.5,
		SaturdayMultiplier:     1.5,
		SundayMultiplier:       1.75,
	}
}

// Compute aggregates daily hours by category and prices them under the
// policy: weekday hours up to the threshold at the base rate, weekday hours
// beyond it at the overtime multiplier, Saturday hours always at the
// Saturday multiplier and Sunday hours always at the Sunday multiplier.
//
// Values are carried at full precision; rounding happens only at
// presentation or export time. Compute never fails: it is a pure function
// of well-typed input.
func Compute(cfg Config, rate float64, daily []model.DailyHours) model.PayBreakdown {
	var weekday, saturday, sunday float64
	for _, d := range daily {
		switch d.Category {
		case model.DaySaturday:
			saturday += d.Hours
		case model.DaySunday:
			sunday += d.Hours
		default:
			weekday += d.Hours
		}
	}

	overtime := weekday - cfg.OvertimeThresholdHours
	if overtime < 0 {
		overtime = 0
	}
	regular := weekday - overtime

	breakdown := model.PayBreakdown{
		WeekdayHours:  weekday,
		SaturdayHours: saturday,
		SundayHours:   sunday,
		RegularPay:    regular * rate,
		OvertimePay:   overtime * rate * cfg.OvertimeMultiplier,
		SaturdayPay:   saturday * rate * cfg.SaturdayMultiplier,
		SundayPay:     sunday * rate * cfg.SundayMultiplier,
	}
	breakdown.TotalPay = breakdown.RegularPay + breakdown.OvertimePay +
		breakdown.SaturdayPay + breakdown.SundayPay
	return breakdown
}

// ParseHours converts an hours token from a source document to a float.
// Plain decimals ("7.5") and H:MM clock tokens ("7:30") are both accepted;
// anything unparseable counts as zero hours rather than failing, matching
// the leniency policy for malformed source data.
func ParseHours(token string) float64 {
	return parseHours(token)
}
