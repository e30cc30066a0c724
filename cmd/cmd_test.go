// SPDX-License-Identifier: MIT
package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSynthAnalyzeRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")

	out, err := runCommand(t, "synth", path, "--note", "A4", "--duration", "0.5")
	require.NoError(t, err)
	require.Contains(t, out, "A4")

	out, err = runCommand(t, "analyze", path, "--algorithm", "mpm")
	require.NoError(t, err)
	require.Contains(t, out, "detector mpm")
	require.Contains(t, out, "2/2 frames pitched, dominant note A4")
}

func TestSynthChord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chord.wav")

	out, err := runCommand(t, "synth", path, "--chord", "1,2,3")
	require.NoError(t, err)
	require.Contains(t, out, "chord C4-E4-G4")
}

func TestSynthRequiresSource(t *testing.T) {
	_, err := runCommand(t, "synth", filepath.Join(t.TempDir(), "x.wav"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "--note")
}

func TestAnalyzeJSONReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	_, err := runCommand(t, "synth", path, "--freq", "440", "--duration", "0.25")
	require.NoError(t, err)

	out, err := runCommand(t, "analyze", path, "--json", "--frame", "4096", "--algorithm", "yin")
	require.NoError(t, err)
	require.Contains(t, out, `"sampleRate": 44100`)
	require.Contains(t, out, `"dominantNote": "A4"`)
}

func TestLayoutGrid(t *testing.T) {
	out, err := runCommand(t, "layout")
	require.NoError(t, err)
	require.Contains(t, out, "C richter harmonica at 440 Hz concert pitch")
	require.Contains(t, out, "blow")
	require.Contains(t, out, "draw")
	// Channel 1's overblow sits a semitone above the draw reed and is
	// starred in the grid.
	require.Contains(t, out, "D#4*")
}

func TestLayoutConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "harp.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("harmonica:\n  key: A\n"), 0o644))

	out, err := runCommand(t, "--config", cfgPath, "layout")
	require.NoError(t, err)
	require.Contains(t, out, "A richter harmonica")
}

func TestCompareTable(t *testing.T) {
	out, err := runCommand(t, "compare", "--frame", "2048")
	require.NoError(t, err)
	for _, name := range []string{"yin", "mpm", "fft", "hybrid"} {
		require.Contains(t, out, name)
	}
	require.Contains(t, out, "distinct cell frequencies")
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "harp unknown")
	require.Contains(t, out, "commit unknown")
}
