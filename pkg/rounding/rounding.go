// Package rounding scales, rounds half up and scales back, so results do not
// depend on how floats are formatted.
package rounding

import "math"

// HalfUp rounds x to the given number of decimal places, ties toward +Inf.
func HalfUp(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(x*p+0.5) / p
}
