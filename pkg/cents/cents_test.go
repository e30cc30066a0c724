// SPDX-License-Identifier: MIT
package cents

import (
	"fmt"
	"math"
	"testing"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		f1, f2   float64
		expected float64
	}{
		{440.0, 440.0, 0},        // Identical frequencies
		{880.0, 440.0, 1200},     // One octave up
		{440.0, 880.0, -1200},    // One octave down
		{220.0, 440.0, -1200},     // Octave down from A4
		{466.1637615, 440.0, 100}, // One semitone up (A#4)
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.1f vs %.1f", tt.f1, tt.f2), func(t *testing.T) {
			result := Diff(tt.f1, tt.f2)
			if math.Abs(result-tt.expected) > 1e-6 {
				t.Errorf("Diff(%v, %v) = %v, expected %v", tt.f1, tt.f2, result, tt.expected)
			}
		})
	}
}

func TestDiffShiftRoundTrip(t *testing.T) {
	pairs := []struct{ from, to float64 }{
		{440.0, 261.626},
		{82.4069, 4186.01},
		{195.998, 196.1},
	}

	for _, p := range pairs {
		shifted := Shift(p.from, Diff(p.to, p.from))
		if math.Abs(shifted-p.to) > 1e-9 {
			t.Errorf("Shift(%v, Diff(%v, %v)) = %v, expected %v", p.from, p.to, p.from, shifted, p.to)
		}
	}
}

func TestShift(t *testing.T) {
	tests := []struct {
		f, cents float64
		expected float64
	}{
		{440.0, 0, 440.0},                // No shift
		{440.0, 1200, 880.0},             // Octave up
		{440.0, -1200, 220.0},            // Octave down
		{440.0, Semitone, 466.1638},      // Semitone up
		{261.626, -Semitone, 246.94206},  // Semitone down from (rounded) C4
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%+.0f cents", tt.cents), func(t *testing.T) {
			result := Shift(tt.f, tt.cents)
			if math.Abs(result-tt.expected) > 1e-3 {
				t.Errorf("Shift(%v, %v) = %v, expected %v", tt.f, tt.cents, result, tt.expected)
			}
		})
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		v        float64
		expected float64
	}{
		{0, 0},
		{440.0, 440.0},          // Integer survives
		{1.9994, 1.999},         // Truncates, never rounds up
		{1.9999, 1.999},         // Even at .9999
		{523.2511306, 523.251},  // C5 reference value
		{0.0015, 0.001},         // Small magnitudes
		{-1.2345, -1.235},       // Floor goes toward -inf for negatives
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.v), func(t *testing.T) {
			result := Round(tt.v)
			if result != tt.expected {
				t.Errorf("Round(%v) = %v, expected %v", tt.v, result, tt.expected)
			}
		})
	}
}

func TestNoAllocations(t *testing.T) {
	allocs := testing.AllocsPerRun(1000, func() {
		_ = Diff(493.883, 440.0)
		_ = Shift(440.0, 250.0)
		_ = Round(311.1269837)
	})
	if allocs != 0 {
		t.Errorf("expected zero allocations, got %v", allocs)
	}
}

func BenchmarkDiff(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		Diff(466.164, 440.0)
	}
}

func BenchmarkShift(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		Shift(440.0, -100.0)
	}
}
