// SPDX-License-Identifier: MIT
// Package pitch estimates the fundamental frequency of raw audio buffers.
//
// Four interchangeable detectors share one contract: YIN (difference
// function, strongest below 300Hz), MPM (normalized square difference,
// faster and more precise on clean mid-range input), FFT (spectral peak
// picking, cheapest at high frequencies) and Hybrid (FFT rough estimate
// routing to the best of the three). Detection is synchronous and pure;
// degenerate input yields a no-pitch result, never an error.
package pitch

import (
	"fmt"
	"math"
	"strings"
)

// NoPitch is the pitch value reported when no fundamental frequency could
// be estimated. "No pitch this buffer" is a normal outcome in a real-time
// loop, so it is a value rather than an error.
const NoPitch = -1.0

// Default candidate band, wide enough for every supported harmonica from
// the lowest LLE blow reed to the highest overblow.
const (
	DefaultMinFrequency = 80.0
	DefaultMaxFrequency = 4835.0
)

// Result is one detection outcome.
type Result struct {
	Pitch      float64 // estimated fundamental in Hz, or NoPitch
	Confidence float64 // reliability of the estimate in [0,1]
}

// Detected reports whether the result carries a pitch.
func (r Result) Detected() bool { return r.Pitch != NoPitch }

func noResult() Result { return Result{Pitch: NoPitch} }

// Config bounds the candidate search band, typically seeded from the
// active harmonica's playable range. Zero fields take the defaults.
type Config struct {
	MinFrequency float64
	MaxFrequency float64
}

func (c Config) withDefaults() Config {
	if c.MinFrequency <= 0 {
		c.MinFrequency = DefaultMinFrequency
	}
	if c.MaxFrequency <= 0 {
		c.MaxFrequency = DefaultMaxFrequency
	}
	return c
}

// Detector estimates the fundamental frequency of one audio buffer.
// Implementations keep scratch buffers between calls to stay allocation
// free at audio-callback cadence, so a single instance must not be shared
// across goroutines; create one per stream.
type Detector interface {
	Detect(samples []float64, sampleRate int) Result
	Name() string
}

// Algorithm selects a detection strategy.
type Algorithm int

const (
	YIN Algorithm = iota
	MPM
	FFT
	Hybrid

	algorithmCount
)

var algorithmNames = [algorithmCount]string{"yin", "mpm", "fft", "hybrid"}

// String returns the algorithm's name, e.g. "yin".
func (a Algorithm) String() string {
	if a < 0 || a >= algorithmCount {
		return "unknown"
	}
	return algorithmNames[a]
}

// ParseAlgorithm resolves an algorithm name case-insensitively.
func ParseAlgorithm(s string) (Algorithm, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	for a, name := range algorithmNames {
		if name == n {
			return Algorithm(a), nil
		}
	}
	return 0, fmt.Errorf("unknown pitch algorithm %q", s)
}

// Algorithms lists the selectable algorithm names.
func Algorithms() []string {
	return algorithmNames[:]
}

// New builds a detector for the given algorithm. Unknown values select YIN.
func New(a Algorithm, cfg Config) Detector {
	switch a {
	case MPM:
		return NewMPM(cfg)
	case FFT:
		return NewFFT(cfg)
	case Hybrid:
		return NewHybrid(cfg)
	default:
		return NewYIN(cfg)
	}
}

// RMS returns the root mean square amplitude of the buffer.
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// parabolic refines a peak or trough index by fitting a parabola through
// the value and its neighbors. Boundary indices, flat neighborhoods and
// implausibly large adjustments fall back to the integer index.
func parabolic(values []float64, index int) float64 {
	if index <= 0 || index >= len(values)-1 {
		return float64(index)
	}
	x0, x1, x2 := values[index-1], values[index], values[index+1]

	denom := x0 - 2*x1 + x2
	if math.Abs(denom) < 1e-10 {
		return float64(index)
	}

	adjustment := 0.5 * (x0 - x2) / denom
	if math.Abs(adjustment) > 1 {
		adjustment = 0
	}
	return float64(index) + adjustment
}

// grow returns buf resized to n samples, reallocating only when the
// capacity is short.
func grow(buf []float64, n int) []float64 {
	if cap(buf) < n {
		return make([]float64, n)
	}
	return buf[:n]
}
