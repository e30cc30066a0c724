// SPDX-License-Identifier: MIT
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"harp/internal/analyze"
	"harp/internal/harmonica"
	"harp/internal/pitch"
)

type analyzeOptions struct {
	root *rootOptions

	algorithm string
	key       string
	tune      string
	pitchHz   int
	frame     int
	hop       int
	jsonOut   bool
}

func newAnalyzeCommand(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{root: root}

	cmd := &cobra.Command{
		Use:   "analyze <file.wav>",
		Short: "Detect pitches in a WAV file frame by frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.OutOrStdout(), opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.algorithm, "algorithm", "", "Detector: yin, mpm, fft or hybrid (default from config)")
	flags.StringVar(&opts.key, "key", "", "Harmonica key for cell annotation (default from config)")
	flags.StringVar(&opts.tune, "tune", "", "Harmonica tuning for cell annotation (default from config)")
	flags.IntVar(&opts.pitchHz, "pitch", 0, "Concert pitch in Hz (default from config)")
	flags.IntVar(&opts.frame, "frame", 0, "Frame size in samples (default from config)")
	flags.IntVar(&opts.hop, "hop", 0, "Hop size in samples (default: one frame, no overlap)")
	flags.BoolVar(&opts.jsonOut, "json", false, "Emit the report as JSON")
	return cmd
}

func runAnalyze(w io.Writer, opts *analyzeOptions, path string) error {
	cfg := opts.root.cfg

	algorithm := cfg.PitchAlgorithm()
	if opts.algorithm != "" {
		parsed, err := pitch.ParseAlgorithm(opts.algorithm)
		if err != nil {
			return err
		}
		algorithm = parsed
	}

	harp := resolveHarmonica(cfg, opts.key, opts.tune, opts.pitchHz)

	frame := cfg.Audio.FrameSize
	if opts.frame > 0 {
		frame = opts.frame
	}

	analyzer := analyze.New(analyze.Options{
		FrameSize:  frame,
		HopSize:    opts.hop,
		SilenceRMS: cfg.Audio.SilenceRMS,
		Algorithm:  algorithm,
		Band:       cfg.PitchConfig(),
		Harmonica:  harp,
	})
	report, err := analyzer.AnalyzeFile(path)
	if err != nil {
		return err
	}

	if opts.jsonOut {
		return writeReportJSON(w, path, algorithm, harp, report)
	}
	printReport(w, path, algorithm, harp, report)
	return nil
}

func printReport(w io.Writer, path string, algorithm pitch.Algorithm, h *harmonica.Harmonica, report *analyze.Report) {
	fmt.Fprintf(w, "%s: %d Hz, %d frames of %d samples, %s\n",
		path, report.SampleRate, len(report.Frames), report.FrameSize,
		report.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "detector %s, harmonica %s %s at %d Hz\n\n",
		algorithm, h.KeyName(), h.TuneName(), h.Table().ConcertPitch())

	for _, frame := range report.Frames {
		offset := frame.Offset.Seconds()
		if frame.Silent() {
			fmt.Fprintf(w, "%8.3fs  silence\n", offset)
			continue
		}
		line := fmt.Sprintf("%8.3fs  %9.3f Hz  %-4s %+6.1fc  conf %.2f",
			offset, frame.Pitch, frame.NoteName, frame.Cents, frame.Confidence)
		if frame.Channel != 0 {
			line += "  " + cellLabel(h, frame.Channel, frame.CellNote)
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintf(w, "\n%d/%d frames pitched", report.Detected(), len(report.Frames))
	if note := report.DominantNote(); note != "" {
		fmt.Fprintf(w, ", dominant note %s", note)
	}
	fmt.Fprintln(w)
}

// cellLabel names a cell the way players talk about it: hole number
// plus the action that sounds it.
func cellLabel(h *harmonica.Harmonica, channel, note int) string {
	var action string
	switch {
	case h.IsOverblow(channel, note):
		action = "overblow"
	case h.IsOverdraw(channel, note):
		action = "overdraw"
	case note == 0:
		action = "blow"
	case note == 1:
		action = "draw"
	case note > 1:
		action = fmt.Sprintf("draw bend %d", note-1)
	default:
		action = fmt.Sprintf("blow bend %d", -note)
	}
	return fmt.Sprintf("hole %d %s", channel, action)
}

type reportJSON struct {
	File         string      `json:"file"`
	SampleRate   int         `json:"sampleRate"`
	FrameSize    int         `json:"frameSize"`
	Algorithm    string      `json:"algorithm"`
	Key          string      `json:"key"`
	Tune         string      `json:"tune"`
	ConcertPitch int         `json:"concertPitch"`
	Duration     float64     `json:"durationSeconds"`
	Detected     int         `json:"detected"`
	DominantNote string      `json:"dominantNote,omitempty"`
	Frames       []frameJSON `json:"frames"`
}

type frameJSON struct {
	Offset     float64 `json:"offsetSeconds"`
	Silent     bool    `json:"silent,omitempty"`
	Pitch      float64 `json:"pitch,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Note       string  `json:"note,omitempty"`
	Cents      float64 `json:"cents,omitempty"`
	Cell       string  `json:"cell,omitempty"`
}

func writeReportJSON(w io.Writer, path string, algorithm pitch.Algorithm, h *harmonica.Harmonica, report *analyze.Report) error {
	out := reportJSON{
		File:         path,
		SampleRate:   report.SampleRate,
		FrameSize:    report.FrameSize,
		Algorithm:    algorithm.String(),
		Key:          h.KeyName(),
		Tune:         h.TuneName(),
		ConcertPitch: h.Table().ConcertPitch(),
		Duration:     report.Duration.Seconds(),
		Detected:     report.Detected(),
		DominantNote: report.DominantNote(),
		Frames:       make([]frameJSON, 0, len(report.Frames)),
	}
	for _, frame := range report.Frames {
		fj := frameJSON{Offset: frame.Offset.Seconds()}
		if frame.Silent() {
			fj.Silent = true
		} else {
			fj.Pitch = frame.Pitch
			fj.Confidence = frame.Confidence
			fj.Note = frame.NoteName
			fj.Cents = frame.Cents
			if frame.Channel != 0 {
				fj.Cell = cellLabel(h, frame.Channel, frame.CellNote)
			}
		}
		out.Frames = append(out.Frames, fj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
