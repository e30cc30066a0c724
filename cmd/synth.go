// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"harp/internal/analyze"
	"harp/internal/harmonica"
	"harp/pkg/synth"
)

type synthOptions struct {
	root *rootOptions

	note     string
	freq     float64
	channels []int
	draw     bool
	key      string
	tune     string
	pitchHz  int
	duration float64
	rate     int
	amp      float64
	noise    float64
}

func newSynthCommand(root *rootOptions) *cobra.Command {
	opts := &synthOptions{root: root}

	cmd := &cobra.Command{
		Use:   "synth <out.wav>",
		Short: "Generate a test WAV: a note, a raw frequency or a harmonica chord",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynth(cmd.OutOrStdout(), opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.note, "note", "", `Note name to synthesize, e.g. "A4"`)
	flags.Float64Var(&opts.freq, "freq", 0, "Raw frequency in Hz")
	flags.IntSliceVar(&opts.channels, "chord", nil, "Harmonica channels to sound together, e.g. 1,2,3")
	flags.BoolVar(&opts.draw, "draw", false, "Use the draw reeds for --chord (default blow)")
	flags.StringVar(&opts.key, "key", "", "Harmonica key for --chord (default from config)")
	flags.StringVar(&opts.tune, "tune", "", "Harmonica tuning for --chord (default from config)")
	flags.IntVar(&opts.pitchHz, "pitch", 0, "Concert pitch in Hz (default from config)")
	flags.Float64Var(&opts.duration, "duration", 2.0, "Length in seconds")
	flags.IntVar(&opts.rate, "rate", 0, "Sample rate in Hz (default from config)")
	flags.Float64Var(&opts.amp, "amp", 0.8, "Peak amplitude, 0-1")
	flags.Float64Var(&opts.noise, "noise", 0, "White noise ratio mixed into the signal")
	return cmd
}

func runSynth(w io.Writer, opts *synthOptions, path string) error {
	cfg := opts.root.cfg

	rate := cfg.Audio.SampleRate
	if opts.rate > 0 {
		rate = opts.rate
	}
	if opts.duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", opts.duration)
	}
	n := int(opts.duration * float64(rate))

	var (
		samples []float64
		label   string
	)
	switch {
	case len(opts.channels) > 0:
		tones, name, err := opts.chordTones()
		if err != nil {
			return err
		}
		samples = synth.Chord(n, float64(rate), tones)
		label = fmt.Sprintf("chord %s", name)

	case opts.freq > 0:
		samples = synth.Sine(n, float64(rate), opts.freq)
		label = fmt.Sprintf("%.3f Hz", opts.freq)

	case opts.note != "":
		table := resolveTable(cfg, opts.pitchHz)
		freq, err := table.Frequency(opts.note)
		if err != nil {
			return err
		}
		samples = synth.Sine(n, float64(rate), freq)
		name, _ := table.NameOf(freq)
		label = fmt.Sprintf("%s (%.3f Hz)", name, freq)

	default:
		return fmt.Errorf("one of --note, --freq or --chord is required")
	}

	for i := range samples {
		samples[i] *= opts.amp
	}
	if opts.noise > 0 {
		synth.AddNoise(samples, opts.noise)
	}

	if err := analyze.EncodeWAV(path, samples, rate); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %s: %s, %.2fs at %d Hz\n", path, label, opts.duration, rate)
	return nil
}

// chordTones resolves the selected channels to reed frequencies and a
// display name.
func (opts *synthOptions) chordTones() ([]float64, string, error) {
	harp := resolveHarmonica(opts.root.cfg, opts.key, opts.tune, opts.pitchHz)

	note := 0
	if opts.draw {
		note = 1
	}
	tones := make([]float64, 0, len(opts.channels))
	names := make([]string, 0, len(opts.channels))
	for _, ch := range opts.channels {
		if !harp.HasNote(ch, note) {
			return nil, "", fmt.Errorf("channel %d is outside 1-%d", ch, harmonica.ChannelMax)
		}
		tones = append(tones, harp.NoteFrequency(ch, note))
		names = append(names, harp.NoteName(ch, note))
	}
	return tones, strings.Join(names, "-"), nil
}
