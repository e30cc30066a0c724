// SPDX-License-Identifier: MIT
package pitch

import (
	"harp/pkg/cents"
)

// DefaultYINThreshold is the absolute CMNDF acceptance threshold. Lower
// values demand a cleaner periodicity before a pitch is reported.
const DefaultYINThreshold = 0.4

// YINDetector implements the YIN method: a squared difference function
// over candidate lags, cumulative mean normalization, and the first
// qualifying local minimum refined by parabolic interpolation.
type YINDetector struct {
	cfg       Config
	threshold float64

	squared    []float64
	difference []float64
	cmndf      []float64
}

// NewYIN builds a YIN detector with the default threshold.
func NewYIN(cfg Config) *YINDetector {
	return &YINDetector{cfg: cfg.withDefaults(), threshold: DefaultYINThreshold}
}

// Name implements Detector.
func (d *YINDetector) Name() string { return "yin" }

// SetThreshold overrides the CMNDF acceptance threshold.
func (d *YINDetector) SetThreshold(threshold float64) {
	if threshold > 0 {
		d.threshold = threshold
	}
}

// Detect implements Detector.
func (d *YINDetector) Detect(samples []float64, sampleRate int) Result {
	n := len(samples)
	if n < 4 || sampleRate <= 0 {
		return noResult()
	}

	// Candidate lag window, padded a quarter semitone past the band so
	// notes sitting exactly on its edges still resolve.
	minTau := int(float64(sampleRate) / cents.Shift(d.cfg.MaxFrequency, 25))
	maxTau := int(float64(sampleRate) / cents.Shift(d.cfg.MinFrequency, -25))
	if maxTau > n/2 {
		maxTau = n / 2
	}

	d.computeDifference(samples)
	d.computeCMNDF(minTau, maxTau)

	tau := findFirstMinimum(d.cmndf, d.threshold, minTau, maxTau)
	if tau == -1 {
		return noResult()
	}

	refined := parabolic(d.cmndf, tau)
	if refined <= 0 {
		return noResult()
	}

	confidence := 1 - d.cmndf[tau]/d.threshold
	if confidence < 0 {
		confidence = 0
	}
	return Result{Pitch: float64(sampleRate) / refined, Confidence: confidence}
}

// computeDifference fills the squared difference function for lags up to
// half the buffer. Squares are precomputed so the inner loop runs on two
// multiplications instead of three.
func (d *YINDetector) computeDifference(samples []float64) {
	n := len(samples)
	half := n / 2

	d.squared = grow(d.squared, n)
	for i, s := range samples {
		d.squared[i] = s * s
	}

	d.difference = grow(d.difference, half)
	for tau := 0; tau < half; tau++ {
		var sum float64
		for i := 0; i < half; i++ {
			sum += d.squared[i] + d.squared[i+tau] - 2*samples[i]*samples[i+tau]
		}
		d.difference[tau] = sum
	}
}

// computeCMNDF normalizes the difference function by its cumulative mean.
// Lags outside the candidate window are pinned to 1 so they can never win
// against the threshold.
func (d *YINDetector) computeCMNDF(minTau, maxTau int) {
	n := len(d.difference)
	d.cmndf = grow(d.cmndf, n)
	d.cmndf[0] = 1

	var cumulative float64
	for tau := 1; tau < n; tau++ {
		cumulative += d.difference[tau]
		if tau >= minTau && tau <= maxTau {
			d.cmndf[tau] = d.difference[tau] / ((cumulative / float64(tau)) + 1e-10)
		} else {
			d.cmndf[tau] = 1
		}
	}
}

// findFirstMinimum returns the first lag in [minTau, maxTau) whose CMNDF
// value is below the threshold and a strict local minimum, or -1.
func findFirstMinimum(cmndf []float64, threshold float64, minTau, maxTau int) int {
	if minTau < 1 {
		minTau = 1
	}
	if maxTau > len(cmndf) {
		maxTau = len(cmndf)
	}
	for tau := minTau; tau < maxTau; tau++ {
		if cmndf[tau] < threshold && isLocalMinimum(cmndf, tau) {
			return tau
		}
	}
	return -1
}

func isLocalMinimum(cmndf []float64, tau int) bool {
	if tau <= 0 || tau >= len(cmndf)-1 {
		return false
	}
	return cmndf[tau] < cmndf[tau-1] && cmndf[tau] < cmndf[tau+1]
}
