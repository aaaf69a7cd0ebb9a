package domain

import (
	"math"
	"strconv"
)

// formatNumber prints integers without a fractional part and everything
// else with two decimals.
func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}
