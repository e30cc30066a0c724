/*
Package synth generates deterministic test signals: pure sines,
harmonic stacks, chords and white noise, all as float64 buffers in
[-1, 1] ready for the detectors. It backs the detector test suites, the
algorithm comparison sweep and the WAV fixture generator.
*/
package synth

import (
	"math"
	"math/rand/v2"
)

// Sine returns n samples of a pure sine at the given frequency and
// sample rate with unit amplitude.
func Sine(n int, sampleRate, freq float64) []float64 {
	buf := make([]float64, n)
	for i := range buf {
		t := float64(i) / sampleRate
		buf[i] = math.Sin(2 * math.Pi * freq * t)
	}
	return buf
}

// Harmonics returns n samples of a tone at f0 plus its integer
// harmonics: amps[0] scales the fundamental, amps[1] the second
// harmonic and so on. The textbook rich-but-periodic test signal.
func Harmonics(n int, sampleRate, f0 float64, amps ...float64) []float64 {
	buf := make([]float64, n)
	for i := range buf {
		t := float64(i) / sampleRate
		var s float64
		for h, a := range amps {
			s += a * math.Sin(2*math.Pi*f0*float64(h+1)*t)
		}
		buf[i] = s
	}
	return buf
}

// Chord sums equal-amplitude sines at the given frequencies, scaled by
// 1/len(freqs) to stay inside [-1, 1].
func Chord(n int, sampleRate float64, freqs []float64) []float64 {
	buf := make([]float64, n)
	if len(freqs) == 0 {
		return buf
	}
	amp := 1.0 / float64(len(freqs))
	for i := range buf {
		t := float64(i) / sampleRate
		var s float64
		for _, f := range freqs {
			s += math.Sin(2 * math.Pi * f * t)
		}
		buf[i] = s * amp
	}
	return buf
}

// WhiteNoise returns n samples of uniform white noise in [-amp, amp].
// The shared random source makes repeated runs differ; tests that need
// determinism should assert on statistical behavior only.
func WhiteNoise(n int, amp float64) []float64 {
	buf := make([]float64, n)
	for i := range buf {
		buf[i] = (2*rand.Float64() - 1) * amp
	}
	return buf
}

// AddNoise mixes uniform white noise scaled by ratio into buf in place
// and returns buf. A ratio of 0.5 adds noise at half the nominal signal
// amplitude.
func AddNoise(buf []float64, ratio float64) []float64 {
	for i := range buf {
		buf[i] += (2*rand.Float64() - 1) * ratio
	}
	return buf
}

// Silence returns n zero samples.
func Silence(n int) []float64 {
	return make([]float64, n)
}
