// SPDX-License-Identifier: MIT
package analyze_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"harp/internal/analyze"
	"harp/pkg/synth"
)

func TestWAVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	original := synth.Sine(22050, 44100, 440)

	require.NoError(t, analyze.EncodeWAV(path, original, 44100))

	decoded, sampleRate, err := analyze.DecodeWAV(path)
	require.NoError(t, err)
	require.Equal(t, 44100, sampleRate)
	require.Len(t, decoded, len(original))

	// 16-bit quantization keeps every sample within one step.
	worst := 0.0
	for i := range original {
		if d := math.Abs(decoded[i] - original[i]); d > worst {
			worst = d
		}
	}
	require.Less(t, worst, 0.001)
}

func TestEncodeWAVClampsOverdrive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hot.wav")
	hot := []float64{2.0, -2.0, 0.5, 1.0, -1.0}

	require.NoError(t, analyze.EncodeWAV(path, hot, 44100))

	decoded, _, err := analyze.DecodeWAV(path)
	require.NoError(t, err)
	require.Len(t, decoded, len(hot))
	for _, s := range decoded {
		require.GreaterOrEqual(t, s, -1.0)
		require.LessOrEqual(t, s, 1.0)
	}
	require.InDelta(t, 1.0, decoded[0], 0.001)
	require.InDelta(t, -1.0, decoded[1], 0.001)
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-audio.wav")
	require.NoError(t, os.WriteFile(path, []byte("this is not a wav file"), 0644))

	_, _, err := analyze.DecodeWAV(path)
	require.Error(t, err)
}

func TestDecodeWAVMissingFile(t *testing.T) {
	_, _, err := analyze.DecodeWAV(filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)
}
