// SPDX-License-Identifier: MIT
package pitch

// mpmPeakThreshold is the minimum NSDF value a lag must reach before it
// is accepted as a pitch candidate.
const mpmPeakThreshold = 0.5

// MPMDetector implements the McLeod pitch method: the normalized square
// difference function (NSDF) over the candidate lag window, with the
// first qualifying peak refined by parabolic interpolation. The NSDF's
// bounded range makes its peak value a direct confidence measure.
type MPMDetector struct {
	cfg  Config
	nsdf []float64
}

// NewMPM builds an MPM detector.
func NewMPM(cfg Config) *MPMDetector {
	return &MPMDetector{cfg: cfg.withDefaults()}
}

// Name implements Detector.
func (d *MPMDetector) Name() string { return "mpm" }

// Detect implements Detector.
func (d *MPMDetector) Detect(samples []float64, sampleRate int) Result {
	n := len(samples)
	if n < 4 || sampleRate <= 0 {
		return noResult()
	}

	// The lag window overshoots the band by 10% on both sides so peaks
	// near the edges keep their neighbors for refinement.
	minLag := int(float64(sampleRate) / (d.cfg.MaxFrequency * 1.1))
	if minLag < 1 {
		minLag = 1
	}
	maxLag := int(float64(sampleRate) / (d.cfg.MinFrequency * 0.9))
	if maxLag > n/2 {
		maxLag = n / 2
	}
	if maxLag <= minLag {
		return noResult()
	}

	d.computeNSDF(samples, minLag, maxLag)

	peak := d.firstPeak(minLag)
	if peak <= 0 {
		return noResult()
	}

	confidence := d.nsdf[peak-minLag]
	if confidence > 1 {
		confidence = 1
	} else if confidence < 0 {
		confidence = 0
	}

	refined := parabolic(d.nsdf, peak-minLag) + float64(minLag)
	return Result{Pitch: float64(sampleRate) / refined, Confidence: confidence}
}

// computeNSDF fills the normalized square difference for every lag in
// [minLag, maxLag); index i holds the value for lag minLag+i.
func (d *MPMDetector) computeNSDF(samples []float64, minLag, maxLag int) {
	n := len(samples)
	d.nsdf = grow(d.nsdf, maxLag-minLag)

	for lag := minLag; lag < maxLag; lag++ {
		var numerator, denominator float64
		for i := 0; i < n-lag; i++ {
			numerator += samples[i] * samples[i+lag]
			denominator += samples[i]*samples[i] + samples[i+lag]*samples[i+lag]
		}
		if denominator == 0 {
			d.nsdf[lag-minLag] = 0
		} else {
			d.nsdf[lag-minLag] = 2 * numerator / denominator
		}
	}
}

// firstPeak returns the absolute lag of the first strict local NSDF
// maximum above the acceptance threshold, or -1 when none qualifies.
// Taking the first peak rather than the tallest keeps the estimate on
// the fundamental instead of an octave below it.
func (d *MPMDetector) firstPeak(minLag int) int {
	for i := 1; i < len(d.nsdf)-1; i++ {
		if d.nsdf[i] > mpmPeakThreshold && d.nsdf[i] > d.nsdf[i-1] && d.nsdf[i] > d.nsdf[i+1] {
			return i + minLag
		}
	}
	return -1
}
