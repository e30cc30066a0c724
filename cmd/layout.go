// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"harp/internal/harmonica"
)

type layoutOptions struct {
	root *rootOptions

	key     string
	tune    string
	pitchHz int
	freqs   bool
}

func newLayoutCommand(root *rootOptions) *cobra.Command {
	opts := &layoutOptions{root: root}

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the note grid of a harmonica",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.key, "key", "", "Harmonica key (default from config)")
	flags.StringVar(&opts.tune, "tune", "", "Harmonica tuning (default from config)")
	flags.IntVar(&opts.pitchHz, "pitch", 0, "Concert pitch in Hz (default from config)")
	flags.BoolVar(&opts.freqs, "freqs", false, "Print cell frequencies instead of note names")
	return cmd
}

func runLayout(w io.Writer, opts *layoutOptions) error {
	harp := resolveHarmonica(opts.root.cfg, opts.key, opts.tune, opts.pitchHz)

	root, _ := harp.Table().NameOf(harp.KeyFrequency())
	min, max := harp.Range()
	fmt.Fprintf(w, "%s %s harmonica at %d Hz concert pitch\n",
		harp.KeyName(), harp.TuneName(), harp.Table().ConcertPitch())
	fmt.Fprintf(w, "root %s = %.3f Hz, detector band %.1f - %.1f Hz\n\n",
		root, harp.KeyFrequency(), min, max)

	width := 6
	if opts.freqs {
		width = 9
	}

	fmt.Fprintf(w, "%4s", "")
	for ch := harmonica.ChannelMin; ch <= harmonica.ChannelMax; ch++ {
		fmt.Fprintf(w, "%*d", width, ch)
	}
	fmt.Fprintln(w)

	for note := harmonica.NoteMin; note <= harmonica.NoteMax; note++ {
		row := make([]string, 0, harmonica.ChannelMax)
		populated := false
		for ch := harmonica.ChannelMin; ch <= harmonica.ChannelMax; ch++ {
			cell := layoutCell(harp, ch, note, opts.freqs)
			if cell != "" {
				populated = true
			}
			row = append(row, cell)
		}
		// Rows no channel reaches (deep bends on most tunings) are elided.
		if !populated {
			continue
		}
		fmt.Fprintf(w, "%4s", rowLabel(note))
		for _, cell := range row {
			fmt.Fprintf(w, "%*s", width, cell)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "\n* overblow / overdraw")
	return nil
}

// layoutCell renders one grid cell, empty when the harmonica has no note
// there. Overblow and overdraw slots are starred.
func layoutCell(h *harmonica.Harmonica, channel, note int, freqs bool) string {
	if !h.HasNote(channel, note) {
		return ""
	}
	var cell string
	if freqs {
		cell = strconv.FormatFloat(h.NoteFrequency(channel, note), 'f', 1, 64)
	} else {
		cell = h.NoteName(channel, note)
	}
	if h.IsOverblow(channel, note) || h.IsOverdraw(channel, note) {
		cell += "*"
	}
	return cell
}

func rowLabel(note int) string {
	switch note {
	case 0:
		return "blow"
	case 1:
		return "draw"
	default:
		return strconv.Itoa(note)
	}
}
