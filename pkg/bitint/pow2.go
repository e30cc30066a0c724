/*
Package bitint provides the power-of-two helpers used for FFT sizing.
Spectral pitch estimation zero-pads every analysis frame up to a
power-of-two length, so the two operations here sit on the per-buffer
path and must stay constant-time and allocation-free.
*/
package bitint

import "math/bits"

// NextPowerOfTwo returns the smallest power of 2 >= size. Exact powers
// of 2 are preserved; zero and negative sizes map to 1.
//
// The size-1 before bits.Len is what keeps exact powers from doubling:
// for 8, bits.Len(7)=3 and 1<<3 = 8, while bits.Len(8)=4 would yield 16.
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}
	return 1 << bits.Len(uint(size-1))
}

// IsPowerOfTwo reports whether n is a positive power of 2. Powers of 2
// have a single bit set, so n&(n-1) clears it to zero exactly for them.
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
