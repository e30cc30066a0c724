// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"harp/internal/harmonica"
	"harp/internal/pitch"
	"harp/pkg/cents"
	"harp/pkg/synth"
)

type compareOptions struct {
	root *rootOptions

	key       string
	tune      string
	pitchHz   int
	frame     int
	noise     float64
	tolerance float64
}

func newCompareCommand(root *rootOptions) *cobra.Command {
	opts := &compareOptions{root: root}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run every detector over a harmonica's cell frequencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.key, "key", "", "Harmonica key (default from config)")
	flags.StringVar(&opts.tune, "tune", "", "Harmonica tuning (default from config)")
	flags.IntVar(&opts.pitchHz, "pitch", 0, "Concert pitch in Hz (default from config)")
	flags.IntVar(&opts.frame, "frame", 0, "Frame size in samples (default from config)")
	flags.Float64Var(&opts.noise, "noise", 0, "White noise ratio mixed into each test tone")
	flags.Float64Var(&opts.tolerance, "tolerance", 5, "Accuracy window in cents")
	return cmd
}

func runCompare(w io.Writer, opts *compareOptions) error {
	cfg := opts.root.cfg
	harp := resolveHarmonica(cfg, opts.key, opts.tune, opts.pitchHz)

	frame := cfg.Audio.FrameSize
	if opts.frame > 0 {
		frame = opts.frame
	}
	rate := cfg.Audio.SampleRate

	freqs := cellFrequencies(harp)

	// Every detector sweeps the same buffers, so noise does not skew the
	// comparison between them.
	buffers := make([][]float64, len(freqs))
	for i, f := range freqs {
		buf := synth.Sine(frame, float64(rate), f)
		if opts.noise > 0 {
			synth.AddNoise(buf, opts.noise)
		}
		buffers[i] = buf
	}

	min, max := harp.Range()
	band := pitch.Config{MinFrequency: min, MaxFrequency: max}

	fmt.Fprintf(w, "%s %s harmonica: %d distinct cell frequencies (%.1f - %.1f Hz)\n",
		harp.KeyName(), harp.TuneName(), len(freqs), min, max)
	fmt.Fprintf(w, "frames of %d samples at %d Hz, noise ratio %.2f\n\n", frame, rate, opts.noise)

	fmt.Fprintf(w, "%-8s %10s %12s %12s %11s\n",
		"detector", "detected", fmt.Sprintf("within %gc", opts.tolerance), "mean cents", "per frame")

	for _, alg := range []pitch.Algorithm{pitch.YIN, pitch.MPM, pitch.FFT, pitch.Hybrid} {
		det := pitch.New(alg, band)

		var detected, within int
		var centsSum float64
		start := time.Now()
		for i, f := range freqs {
			res := det.Detect(buffers[i], rate)
			if !res.Detected() {
				continue
			}
			detected++
			off := math.Abs(cents.Diff(res.Pitch, f))
			centsSum += off
			if off <= opts.tolerance {
				within++
			}
		}
		perFrame := time.Since(start) / time.Duration(len(freqs))

		mean := 0.0
		if detected > 0 {
			mean = centsSum / float64(detected)
		}
		fmt.Fprintf(w, "%-8s %10s %12d %12.2f %11s\n",
			det.Name(), fmt.Sprintf("%d/%d", detected, len(freqs)),
			within, mean, perFrame.Round(time.Microsecond))
	}
	return nil
}

// cellFrequencies collects the harmonica's distinct cell frequencies in
// ascending order. Cells sharing a pitch (a bend landing on the next
// channel's reed, say) count once.
func cellFrequencies(h *harmonica.Harmonica) []float64 {
	seen := make(map[float64]struct{})
	var freqs []float64
	for ch := harmonica.ChannelMin; ch <= harmonica.ChannelMax; ch++ {
		for note := harmonica.NoteMin; note <= harmonica.NoteMax; note++ {
			if !h.HasNote(ch, note) {
				continue
			}
			f := h.NoteFrequency(ch, note)
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			freqs = append(freqs, f)
		}
	}
	sort.Float64s(freqs)
	return freqs
}
