package utils

import "math"

// Cents converts a decimal currency amount to integer cents, rounding to the
// nearest cent. Truncation would turn 29.99 into 2998 because the decimal has
// no exact float64 representation.
func Cents(v float64) int64 {
	return int64(math.Round(v * 100))
}
