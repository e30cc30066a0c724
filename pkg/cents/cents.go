/*
Package cents provides the pitch arithmetic shared by the note table,
the harmonica model and the detectors: converting frequency ratios to
cents, shifting a frequency by a cents amount, and the truncating
3-decimal rounding applied to every computed note frequency.

A cent is 1/100 of an equal-tempered semitone, so 1200 cents make one
octave and the mapping between a frequency ratio and cents is

	cents = 1200 · log2(f1/f2)

All functions are pure and allocation-free.
*/
package cents

import "math"

// Semitone is the size of one equal-tempered half tone in cents.
const Semitone = 100.0

// Diff returns the distance from f2 to f1 in cents. The sign convention
// is fixed repo-wide: the result is positive when f1 is above f2. Call
// sites comparing a measurement against a reference pass the measured
// frequency first, so a positive deviation always reads as "sharp".
//
// Both frequencies must be positive; the result for non-positive input
// is NaN, mirroring the undefined musical meaning.
func Diff(f1, f2 float64) float64 {
	return 1200.0 * math.Log2(f1/f2)
}

// Shift moves a frequency by the given amount of cents and returns the
// resulting frequency. Negative cents shift downward.
func Shift(f, cents float64) float64 {
	return math.Pow(2.0, cents/1200.0) * f
}

// Round truncates a value to three decimal places toward negative
// infinity: floor(v·1000)/1000. Every note frequency exposed by the
// table and the harmonica model goes through this exact formula, so
// equality comparisons between them are stable.
func Round(v float64) float64 {
	return math.Floor(v*1000.0) / 1000.0
}
