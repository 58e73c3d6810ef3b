// Package model defines the core domain models used throughout the application.
package model

// DayCategory classifies a worked day for pay purposes.
type DayCategory string

// Day category constants.
const (
	DayWeekday  DayCategory = "WEEKDAY"
	DaySaturday DayCategory = "SATURDAY"
	DaySunday   DayCategory = "SUNDAY"
)

// DailyHours is a single day's worked hours from a timesheet.
type DailyHours struct {
	Category DayCategory
	Hours    float64
}

// CategoryForDayName maps a day-of-week label from a source document to a
// pay category. Anything that is not Saturday or Sunday counts as a weekday,
// including labels we don't recognize.
func CategoryForDayName(day string) DayCategory {
	switch normalizeDay(day) {
	case "saturday", "sat":
		return DaySaturday
	case "sunday", "sun":
		return DaySunday
	default:
		return DayWeekday
	}
}

func normalizeDay(day string) string {
	b := make([]byte, 0, len(day))
	for i := 0; i < len(day); i++ {
		c := day[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c >= 'a' && c <= 'z' {
			b = append(b, c)
		}
	}
	return string(b)
}
