// SPDX-License-Identifier: MIT
package pitch

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"harp/pkg/bitint"
)

const (
	// minFFTSize keeps the bin resolution usable even for short buffers;
	// shorter input is zero padded up to it.
	minFFTSize = 2048

	// fftPeakFloor is the absolute magnitude floor under the dynamic
	// peak threshold, so silence can never produce a peak.
	fftPeakFloor = 0.1

	// highFrequencyBoundary splits the spectrum into the low region that
	// needs harmonic validation and the high region that does not, with
	// a transition band of +/-25Hz around it.
	highFrequencyBoundary = 300.0
	transitionBandwidth   = 25.0
)

// FFTDetector estimates pitch from the magnitude spectrum: dynamic
// thresholding with region-dependent acceptance, parabolic bin
// refinement, and harmonic validation for low fundamentals that are
// easily confused with their own overtones.
type FFTDetector struct {
	cfg Config

	fft     *fourier.FFT
	fftSize int

	input     []float64
	coeffs    []complex128
	magnitude []float64
}

// NewFFT builds a spectral detector.
func NewFFT(cfg Config) *FFTDetector {
	return &FFTDetector{cfg: cfg.withDefaults()}
}

// Name implements Detector.
func (d *FFTDetector) Name() string { return "fft" }

// Detect implements Detector.
func (d *FFTDetector) Detect(samples []float64, sampleRate int) Result {
	if len(samples) == 0 || sampleRate <= 0 {
		return noResult()
	}

	fftSize := minFFTSize
	if n := bitint.NextPowerOfTwo(len(samples)); n > fftSize {
		fftSize = n
	}
	d.computeSpectrum(fftSize, samples)

	resolution := float64(sampleRate) / float64(fftSize)

	var avg float64
	for _, m := range d.magnitude {
		avg += m
	}
	avg /= float64(len(d.magnitude))

	// Harmonic-rich low notes spread energy across overtones, so the
	// wide-band threshold sits lower than the low-band one.
	multiplier := 1.5
	if d.cfg.MaxFrequency > highFrequencyBoundary {
		multiplier = 1.2
	}
	threshold := math.Max(fftPeakFloor, avg*multiplier)

	peakBin := d.findPeakBin(threshold, resolution)
	if peakBin == -1 {
		return noResult()
	}

	refined := parabolic(d.magnitude, peakBin)
	frequency := refined * resolution
	if frequency < d.cfg.MinFrequency || frequency > d.cfg.MaxFrequency {
		return noResult()
	}

	// Low peaks are validated against their harmonic series unless the
	// band itself reaches low enough that subharmonic confusion is the
	// caller's accepted trade-off.
	fundamental := float64(peakBin) * resolution
	if fundamental < highFrequencyBoundary && d.cfg.MinFrequency >= 100 {
		if !d.validateHarmonics(peakBin, resolution) {
			return noResult()
		}
	}

	snr := d.magnitude[peakBin] / (avg + 1e-10)
	return Result{Pitch: frequency, Confidence: math.Min(1, snr/10)}
}

// computeSpectrum zero pads the buffer to fftSize and fills the magnitude
// spectrum. The FFT plan and scratch slices are rebuilt only when the
// size changes.
func (d *FFTDetector) computeSpectrum(fftSize int, samples []float64) {
	if d.fft == nil || d.fftSize != fftSize {
		d.fft = fourier.NewFFT(fftSize)
		d.fftSize = fftSize
		d.input = make([]float64, fftSize)
		d.coeffs = make([]complex128, fftSize/2+1)
		d.magnitude = make([]float64, fftSize/2+1)
	}

	copy(d.input, samples)
	for i := len(samples); i < fftSize; i++ {
		d.input[i] = 0
	}

	d.fft.Coefficients(d.coeffs, d.input)
	for i, c := range d.coeffs {
		d.magnitude[i] = cmplx.Abs(c)
	}
}

// findPeakBin scans the candidate band for the tallest qualifying local
// peak. Bins above the high-frequency boundary face half the threshold,
// and bins inside the transition band face 70% of it but must also beat
// their second neighbors, which filters spectral leakage skirts.
func (d *FFTDetector) findPeakBin(threshold, resolution float64) int {
	spectrum := d.magnitude

	minBin := int(math.Ceil(d.cfg.MinFrequency / resolution))
	maxBin := int(math.Floor(d.cfg.MaxFrequency / resolution))

	highBin := int(math.Ceil(highFrequencyBoundary / resolution))
	transitionLow := int(math.Ceil((highFrequencyBoundary - transitionBandwidth) / resolution))
	transitionHigh := int(math.Ceil((highFrequencyBoundary + transitionBandwidth) / resolution))

	peakBin := -1
	peakValue := -1.0

	for i := max(1, minBin); i < min(len(spectrum)-1, maxBin); i++ {
		effective := threshold
		switch {
		case i >= highBin:
			effective = threshold * 0.5
		case i >= transitionLow && i <= transitionHigh:
			effective = threshold * 0.7
		}

		if spectrum[i] <= effective || spectrum[i] <= spectrum[i-1] || spectrum[i] <= spectrum[i+1] {
			continue
		}
		if spectrum[i] <= peakValue {
			continue
		}

		if i >= transitionLow && i <= transitionHigh {
			strong := (i <= 1 || spectrum[i] > spectrum[i-2]*0.8) &&
				(i >= len(spectrum)-2 || spectrum[i] > spectrum[i+2]*0.8)
			if !strong {
				continue
			}
		}

		peakBin = i
		peakValue = spectrum[i]
	}
	return peakBin
}

// validateHarmonics checks that a peak behaves like a fundamental: no
// strong component at half or a third of its bin, and a plausible
// overtone series above it. Expectations relax with frequency since high
// fundamentals carry fewer overtones inside the spectrum.
func (d *FFTDetector) validateHarmonics(peakBin int, resolution float64) bool {
	spectrum := d.magnitude
	peak := spectrum[peakBin]
	fundamental := float64(peakBin) * resolution

	// A strong line at peakBin/2 or peakBin/3 means this peak is itself
	// a harmonic of something lower.
	if peakBin >= 4 {
		if spectrum[peakBin/2] > peak*0.7 {
			return false
		}
		if spectrum[peakBin/3] > peak*0.6 {
			return false
		}
	}

	switch {
	case fundamental >= highFrequencyBoundary-transitionBandwidth &&
		fundamental <= highFrequencyBoundary+transitionBandwidth:
		// Transition band: either of the first two overtones will do.
		h2, h3 := peakBin*2, peakBin*3
		return (h2 < len(spectrum) && spectrum[h2] >= peak*0.15) ||
			(h3 < len(spectrum) && spectrum[h3] >= peak*0.1)

	case fundamental > highFrequencyBoundary:
		if h2 := peakBin * 2; h2 < len(spectrum) {
			return spectrum[h2] >= peak*0.15
		}
		// The octave is off the end of the spectrum; fall back to how
		// sharply the peak stands out from its surroundings.
		return d.isPeakProminent(peakBin)

	default:
		// Low fundamentals should show most of their first overtones,
		// each weighted by its expected rolloff.
		valid, total := 0, 0
		for harmonic := 2; harmonic <= 4; harmonic++ {
			bin := peakBin * harmonic
			if bin >= len(spectrum) {
				break
			}
			total++
			if spectrum[bin] >= peak*0.2/float64(harmonic-1) {
				valid++
			}
		}
		return total > 0 && float64(valid) >= float64(total)/2.0
	}
}

// isPeakProminent compares the peak against the mean of its neighborhood,
// excluding the bins directly under its own skirt.
func (d *FFTDetector) isPeakProminent(peakBin int) bool {
	spectrum := d.magnitude

	var sum float64
	var count int
	for i := max(0, peakBin-10); i <= min(len(spectrum)-1, peakBin+10); i++ {
		if i >= peakBin-2 && i <= peakBin+2 {
			continue
		}
		sum += spectrum[i]
		count++
	}

	avg := 0.0
	if count > 0 {
		avg = sum / float64(count)
	}
	return spectrum[peakBin] > avg*3
}
