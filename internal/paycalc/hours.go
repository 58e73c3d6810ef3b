package paycalc

import (
	"strconv"
	"strings"
)

func parseHours(token string) float64 {
	s := strings.TrimSpace(token)
	if s == "" {
		return 0.0
	}

	if h, m, ok := strings.Cut(s, ":"); ok {
		hours, err := strconv.Atoi(strings.TrimSpace(h))
		if err != nil || hours < 0 {
			return 0.0
		}
		minutes, err := strconv.Atoi(strings.TrimSpace(m))
		if err != nil || minutes < 0 {
			return 0.0
		}
		return float64(hours) + float64(minutes)/60.0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0.0
	}
	return v
}
