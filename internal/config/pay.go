package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/prlpayroll/timecard/internal/common"
	"github.com/prlpayroll/timecard/internal/paycalc"
)

// Viper keys for the operator-adjustable constants. Every pay policy value
// flows through here; the algorithms never hardcode them.
const (
	KeyDefaultRate         = "pay.default_rate"
	KeySimilarityThreshold = "matching.similarity_threshold"
	KeyOvertimeThreshold   = "pay.overtime_threshold_hours"
	KeyOvertimeMultiplier  = "pay.overtime_multiplier"
	KeySaturdayMultiplier  = "pay.saturday_multiplier"
	KeySundayMultiplier    = "pay.sunday_multiplier"
)

// SetDefaults registers the standard policy values with viper. Call once at
// startup before reading the config file.
func SetDefaults() {
	viper.SetDefault(KeyDefaultRate, 15.0)
	viper.SetDefault(KeySimilarityThreshold, 0.60)
	viper.SetDefault(KeyOvertimeThreshold, 50.0)
	viper.SetDefault(KeyOvertimeMultiplier, 1.5)
	viper.SetDefault(KeySaturdayMultiplier, 1.5)
	viper.SetDefault(KeySundayMultiplier, 1.75)
	viper.SetDefault("storage.path", "~/.local/share/timecard/timecard.db")
	viper.SetDefault("rates.file", "pay_rates.xlsx")
}

// PayPolicy is the full set of matching and pay constants in effect.
type PayPolicy struct {
	Calc                paycalc.Config
	DefaultRate         float64
	SimilarityThreshold float64
}

// LoadPayPolicy reads the policy from viper and validates the ranges that
// would otherwise silently break matching or pay computation.
func LoadPayPolicy() (PayPolicy, error) {
	policy := PayPolicy{
		Calc: paycalc.Config{
			OvertimeThresholdHours: viper.GetFloat64(KeyOvertimeThreshold),
			OvertimeMultiplier:     viper.GetFloat64(KeyOvertimeMultiplier),
			SaturdayMultiplier:     viper.GetFloat64(KeySaturdayMultiplier),
			SundayMultiplier:       viper.GetFloat64(KeySundayMultiplier),
		},
		DefaultRate:         viper.GetFloat64(KeyDefaultRate),
		SimilarityThreshold: viper.GetFloat64(KeySimilarityThreshold),
	}

	if policy.SimilarityThreshold < 0 || policy.SimilarityThreshold > 1 {
		return PayPolicy{}, fmt.Errorf("%w: similarity threshold %v outside [0,1]",
			common.ErrInvalidConfig, policy.SimilarityThreshold)
	}
	if policy.DefaultRate < 0 {
		return PayPolicy{}, fmt.Errorf("%w: default rate %v is negative",
			common.ErrInvalidConfig, policy.DefaultRate)
	}
	if policy.Calc.OvertimeThresholdHours < 0 {
		return PayPolicy{}, fmt.Errorf("%w: overtime threshold %v is negative",
			common.ErrInvalidConfig, policy.Calc.OvertimeThresholdHours)
	}
	return policy, nil
}

// StoragePath returns the configured database path, tilde-expanded.
func StoragePath() string {
	return ExpandPath(viper.GetString("storage.path"))
}

// RateFiles returns the configured rate sheet paths, tilde-expanded.
func RateFiles() []string {
	files := viper.GetStringSlice("rates.file")
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, ExpandPath(f))
	}
	return out
}
