package money

import "math"

// Epsilon is the tolerance used when comparing monetary amounts.
const Epsilon = 1e-6

// Round2 rounds an amount to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// GTE reports whether a >= b within Epsilon.
func GTE(a, b float64) bool {
	return a >= b-Epsilon
}

// Eq reports whether a and b are equal within Epsilon.
func Eq(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}
