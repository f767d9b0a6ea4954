package domain

import (
	"fmt"
	"math"
	"strconv"
)

// FormatDuration renders a raw seconds count as HH:MM:SS. Fractional seconds
// are truncated and hours are not wrapped at 24.
func FormatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}

	total := int64(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatDistance labels a kilometre value, e.g. 12.5 -> "12.5KM".
func FormatDistance(km float64) string {
	return strconv.FormatFloat(km, 'f', -1, 64) + "KM"
}
