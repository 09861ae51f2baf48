package roadmap

import (
	"math"
	"strconv"
	"strings"
)

// safeDivide returns n/d, or 0 when the divisor is zero or NaN.
// Scaling divisions by the magnitude must not blow up on empty charts.
func safeDivide(n, d float64) float64 {
	if d == 0 || math.IsNaN(d) {
		return 0
	}
	return n / d
}

// scaleWithin maps v from [0, magnitude] into [lo, hi] linearly.
func scaleWithin(v, magnitude, lo, hi float64) float64 {
	return lo + safeDivide(v, magnitude)*(hi-lo)
}

// doublesEqual compares floats with a fixed tolerance, the way the
// label shrink pass checks for the floor scale.
func doublesEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// formatValue renders a number with at most three decimal digits and no
// trailing zeroes ("7", "-0.5", "0.125").
func formatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	// normalize negative zero
	if s == "-0" {
		s = "0"
	}
	return s
}
