// SPDX-License-Identifier: MIT
package pitch

import (
	"math"
	"testing"

	"harp/pkg/synth"
)

const testSampleRate = 44100

// relErr returns |got-want|/want.
func relErr(got, want float64) float64 {
	return math.Abs(got-want) / want
}

func TestParseAlgorithm(t *testing.T) {
	cases := []struct {
		in   string
		want Algorithm
	}{
		{"yin", YIN},
		{"YIN", YIN},
		{"mpm", MPM},
		{" Mpm ", MPM},
		{"fft", FFT},
		{"hybrid", Hybrid},
		{"HYBRID", Hybrid},
	}
	for _, tc := range cases {
		got, err := ParseAlgorithm(tc.in)
		if err != nil {
			t.Errorf("ParseAlgorithm(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseAlgorithm(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	for _, in := range []string{"", "fourier", "yinn"} {
		if _, err := ParseAlgorithm(in); err == nil {
			t.Errorf("ParseAlgorithm(%q): expected error", in)
		}
	}
}

func TestAlgorithmString(t *testing.T) {
	cases := []struct {
		a    Algorithm
		want string
	}{
		{YIN, "yin"},
		{MPM, "mpm"},
		{FFT, "fft"},
		{Hybrid, "hybrid"},
		{Algorithm(99), "unknown"},
		{Algorithm(-1), "unknown"},
	}
	for _, tc := range cases {
		if got := tc.a.String(); got != tc.want {
			t.Errorf("Algorithm(%d).String() = %q, want %q", int(tc.a), got, tc.want)
		}
	}
}

func TestNewSelectsAlgorithm(t *testing.T) {
	for _, a := range []Algorithm{YIN, MPM, FFT, Hybrid} {
		if got := New(a, Config{}).Name(); got != a.String() {
			t.Errorf("New(%v).Name() = %q, want %q", a, got, a.String())
		}
	}
	// Unknown values fall back to YIN rather than failing.
	if got := New(Algorithm(99), Config{}).Name(); got != "yin" {
		t.Errorf("New(unknown).Name() = %q, want yin", got)
	}
}

func TestAlgorithmsList(t *testing.T) {
	names := Algorithms()
	if len(names) != 4 {
		t.Fatalf("Algorithms() returned %d names, want 4", len(names))
	}
	if names[0] != "yin" || names[3] != "hybrid" {
		t.Errorf("unexpected algorithm order: %v", names)
	}
}

func TestConfigDefaults(t *testing.T) {
	c := Config{}.withDefaults()
	if c.MinFrequency != DefaultMinFrequency || c.MaxFrequency != DefaultMaxFrequency {
		t.Errorf("zero config resolved to %+v", c)
	}

	c = Config{MinFrequency: 200}.withDefaults()
	if c.MinFrequency != 200 || c.MaxFrequency != DefaultMaxFrequency {
		t.Errorf("partial config resolved to %+v", c)
	}
}

func TestResultDetected(t *testing.T) {
	if (Result{Pitch: NoPitch}).Detected() {
		t.Error("NoPitch result reported as detected")
	}
	if !(Result{Pitch: 440, Confidence: 0.9}).Detected() {
		t.Error("440Hz result reported as not detected")
	}
}

// Degenerate buffers must yield a clean no-pitch result from every
// algorithm, never a panic or a garbage estimate.
func TestDetectorsDegenerateInput(t *testing.T) {
	cases := []struct {
		name       string
		samples    []float64
		sampleRate int
	}{
		{"nil", nil, testSampleRate},
		{"empty", []float64{}, testSampleRate},
		{"three samples", []float64{0.1, -0.2, 0.1}, testSampleRate},
		{"zero rate", synth.Sine(4096, testSampleRate, 440), 0},
		{"negative rate", synth.Sine(4096, testSampleRate, 440), -44100},
	}
	for _, a := range []Algorithm{YIN, MPM, FFT, Hybrid} {
		d := New(a, Config{})
		for _, tc := range cases {
			r := d.Detect(tc.samples, tc.sampleRate)
			if r.Detected() {
				t.Errorf("%s/%s: detected %.3fHz from degenerate input", a, tc.name, r.Pitch)
			}
			if r.Confidence != 0 {
				t.Errorf("%s/%s: confidence %.3f, want 0", a, tc.name, r.Confidence)
			}
		}
	}
}

func TestDetectorsSilence(t *testing.T) {
	silence := synth.Silence(4096)
	for _, a := range []Algorithm{YIN, MPM, FFT, Hybrid} {
		r := New(a, Config{}).Detect(silence, testSampleRate)
		if r.Detected() {
			t.Errorf("%s: detected %.3fHz in silence", a, r.Pitch)
		}
		if r.Confidence != 0 {
			t.Errorf("%s: confidence %.3f in silence, want 0", a, r.Confidence)
		}
	}
}

func TestRMS(t *testing.T) {
	if got := RMS(nil); got != 0 {
		t.Errorf("RMS(nil) = %v, want 0", got)
	}
	if got := RMS([]float64{0.5, 0.5, 0.5}); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("RMS(dc 0.5) = %v, want 0.5", got)
	}
	sine := synth.Sine(4096, testSampleRate, 440)
	if got := RMS(sine); math.Abs(got-1/math.Sqrt2) > 0.01 {
		t.Errorf("RMS(unit sine) = %v, want ~%.4f", got, 1/math.Sqrt2)
	}
}

func TestParabolicRefinement(t *testing.T) {
	// Boundary indices are returned unrefined.
	if got := parabolic([]float64{1, 2, 3}, 0); got != 0 {
		t.Errorf("parabolic at left edge = %v, want 0", got)
	}
	if got := parabolic([]float64{1, 2, 3}, 2); got != 2 {
		t.Errorf("parabolic at right edge = %v, want 2", got)
	}

	// Flat neighborhoods fall back to the integer index.
	if got := parabolic([]float64{1, 1, 1}, 1); got != 1 {
		t.Errorf("parabolic on flat data = %v, want 1", got)
	}

	// A symmetric peak refines to its center.
	if got := parabolic([]float64{0, 1, 0}, 1); got != 1 {
		t.Errorf("parabolic on symmetric peak = %v, want 1", got)
	}

	// An asymmetric peak leans toward the taller neighbor:
	// adjustment = 0.5*(x0-x2)/(x0-2*x1+x2) = 0.5*(-0.5)/(-1.5).
	got := parabolic([]float64{0, 1, 0.5}, 1)
	if math.Abs(got-(1+1.0/6.0)) > 1e-9 {
		t.Errorf("parabolic on asymmetric peak = %v, want %.6f", got, 1+1.0/6.0)
	}
}
