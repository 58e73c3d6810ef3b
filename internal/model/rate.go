package model

// RateEntry is a single row from a pay-rate sheet.
type RateEntry struct {
	// RawName is the name exactly as it appears in the rate sheet.
	RawName string
	// CanonicalName is the normalized form used as the matching key.
	CanonicalName string
	// Rate is the hourly pay rate in pounds.
	Rate float64
}
