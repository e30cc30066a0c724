// SPDX-License-Identifier: MIT
package pitch

// Routing boundaries between the time-domain and spectral detectors.
const (
	lowBandCeiling = 300.0
	midBandCeiling = 1000.0
)

// noiseCrossingRate is the zero-crossing fraction above which a buffer is
// treated as broadband noise. A tone at the top of the default band
// crosses fewer than one in four samples at common rates, while white
// noise flips sign roughly every other sample.
const noiseCrossingRate = 0.35

// HybridDetector screens out obvious noise, takes a rough spectral
// estimate, then hands the buffer to the detector best suited for that
// band: YIN below 300Hz, MPM up to 1kHz, the FFT result itself above.
// When the rough pass finds nothing the configured band chooses instead.
type HybridDetector struct {
	cfg Config
	yin *YINDetector
	mpm *MPMDetector
	fft *FFTDetector
}

// NewHybrid builds a hybrid detector.
func NewHybrid(cfg Config) *HybridDetector {
	cfg = cfg.withDefaults()
	return &HybridDetector{
		cfg: cfg,
		yin: NewYIN(cfg),
		mpm: NewMPM(cfg),
		fft: NewFFT(cfg),
	}
}

// Name implements Detector.
func (d *HybridDetector) Name() string { return "hybrid" }

// Detect implements Detector.
func (d *HybridDetector) Detect(samples []float64, sampleRate int) Result {
	if len(samples) == 0 || sampleRate <= 0 || isLikelyNoise(samples) {
		return noResult()
	}

	if rough := d.fft.Detect(samples, sampleRate); rough.Detected() {
		switch {
		case rough.Pitch < lowBandCeiling:
			if r := d.yin.Detect(samples, sampleRate); r.Detected() {
				return r
			}
		case rough.Pitch < midBandCeiling:
			if r := d.mpm.Detect(samples, sampleRate); r.Detected() {
				return r
			}
		default:
			return rough
		}
	}

	// No usable rough estimate; pick by where the configured band sits.
	switch {
	case d.cfg.MinFrequency < lowBandCeiling:
		if r := d.yin.Detect(samples, sampleRate); r.Detected() {
			return r
		}
	case d.cfg.MinFrequency < midBandCeiling:
		if r := d.mpm.Detect(samples, sampleRate); r.Detected() {
			return r
		}
	default:
		if r := d.fft.Detect(samples, sampleRate); r.Detected() {
			return r
		}
	}
	return noResult()
}

// isLikelyNoise reports whether the buffer's zero-crossing rate sits above
// anything a harmonic tone in the detectable band could produce.
func isLikelyNoise(samples []float64) bool {
	if len(samples) < 2 {
		return false
	}
	crossings := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i-1] >= 0) != (samples[i] >= 0) {
			crossings++
		}
	}
	rate := float64(crossings) / float64(len(samples)-1)
	return rate > noiseCrossingRate
}
