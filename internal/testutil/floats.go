// Package testutil holds small comparison helpers shared by the engine's
// package-level tests, factored out of the teacher's per-file almostEqual so
// every stats package compares floats the same way.
package testutil

import "math"

// AlmostEqual reports whether a and b are within tol of each other, treating
// matching infinities as equal.
func AlmostEqual(a, b, tol float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	if math.IsInf(a, 1) && math.IsInf(b, 1) {
		return true
	}
	if math.IsInf(a, -1) && math.IsInf(b, -1) {
		return true
	}
	return math.Abs(a-b) < tol
}
