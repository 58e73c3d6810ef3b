package model

// PayBreakdown is the computed pay for one worker over one timesheet period.
// It is derived data: never mutated in place, always recomputed wholesale
// when the rate or hours change.
type PayBreakdown struct {
	WeekdayHours  float64
	SaturdayHours float64
	SundayHours   float64
	RegularPay    float64
	OvertimePay   float64
	SaturdayPay   float64
	SundayPay     float64
	TotalPay      float64
}

// TotalHours returns the sum of all hours in the breakdown.
func (p PayBreakdown) TotalHours() float64 {
	return p.WeekdayHours + p.SaturdayHours + p.SundayHours
}
