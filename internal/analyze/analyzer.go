// SPDX-License-Identifier: MIT
// Package analyze runs offline pitch analysis: it slices audio into
// fixed frames, runs a detector over each, and annotates results with
// note names, cents offsets and (optionally) the harmonica cell the
// pitch belongs to. It is the engine behind the analyze and compare
// commands and shares no state with the live WebSocket path.
package analyze

import (
	"time"

	"harp/internal/harmonica"
	"harp/internal/notes"
	"harp/internal/pitch"
	"harp/pkg/cents"
)

const defaultFrameSize = 8192

// Options configures an Analyzer. The zero value analyzes with YIN over
// 8192-sample frames against the canonical A4=440 table.
type Options struct {
	FrameSize  int     // samples per analysis frame; 0 selects 8192
	HopSize    int     // frame step; 0 steps a full frame (no overlap)
	SilenceRMS float64 // frames below this RMS are reported silent; 0 disables the gate

	Algorithm pitch.Algorithm // zero value selects YIN
	Band      pitch.Config    // zero bounds derive from Harmonica, else detector defaults

	Harmonica *harmonica.Harmonica // optional; enables cell annotation
	Table     *notes.Table         // nil uses Harmonica's table, else the default table
}

// Frame is the analysis result for one slice of audio. A silent or
// undetected frame keeps Pitch at the detector's no-pitch value with an
// empty note name.
type Frame struct {
	Offset     time.Duration // position of the frame start in the input
	Pitch      float64       // estimated fundamental in Hz
	Confidence float64
	NoteName   string  // nearest table note, "" when none matched
	Cents      float64 // signed offset from that note, positive is sharp
	Channel    int     // harmonica channel of the active cell, 0 when none
	CellNote   int     // cell note index (0 blow, 1 draw, negatives blow side)
}

// Silent reports whether the frame produced no pitch.
func (f Frame) Silent() bool { return f.Pitch == pitch.NoPitch }

// Report is the full result of one analysis run.
type Report struct {
	SampleRate int
	FrameSize  int
	Duration   time.Duration
	Frames     []Frame
}

// Detected returns how many frames carried a pitch.
func (r *Report) Detected() int {
	n := 0
	for _, f := range r.Frames {
		if !f.Silent() {
			n++
		}
	}
	return n
}

// DominantNote returns the most frequent note name across all frames,
// or "" when nothing was detected. Ties keep the note seen first.
func (r *Report) DominantNote() string {
	counts := make(map[string]int)
	best, bestCount := "", 0
	for _, f := range r.Frames {
		if f.NoteName == "" {
			continue
		}
		counts[f.NoteName]++
		if counts[f.NoteName] > bestCount {
			best, bestCount = f.NoteName, counts[f.NoteName]
		}
	}
	return best
}

// Analyzer runs frame-by-frame detection. It reuses one detector across
// frames, so an instance must not be shared between goroutines.
type Analyzer struct {
	frameSize  int
	hopSize    int
	silenceRMS float64
	detector   pitch.Detector
	table      *notes.Table
	harp       *harmonica.Harmonica
}

// New builds an analyzer from the options.
func New(opts Options) *Analyzer {
	frameSize := opts.FrameSize
	if frameSize <= 0 {
		frameSize = defaultFrameSize
	}
	hopSize := opts.HopSize
	if hopSize <= 0 {
		hopSize = frameSize
	}
	silence := opts.SilenceRMS
	if silence < 0 {
		silence = 0
	}

	band := opts.Band
	if opts.Harmonica != nil && band.MinFrequency == 0 && band.MaxFrequency == 0 {
		band.MinFrequency, band.MaxFrequency = opts.Harmonica.Range()
	}

	table := opts.Table
	if table == nil {
		if opts.Harmonica != nil {
			table = opts.Harmonica.Table()
		} else {
			table = notes.Default()
		}
	}

	return &Analyzer{
		frameSize:  frameSize,
		hopSize:    hopSize,
		silenceRMS: silence,
		detector:   pitch.New(opts.Algorithm, band),
		table:      table,
		harp:       opts.Harmonica,
	}
}

// Analyze slices the buffer into frames and detects each one. A trailing
// partial frame is dropped.
func (a *Analyzer) Analyze(samples []float64, sampleRate int) *Report {
	report := &Report{SampleRate: sampleRate, FrameSize: a.frameSize}
	if sampleRate <= 0 {
		return report
	}
	report.Duration = time.Duration(float64(len(samples)) / float64(sampleRate) * float64(time.Second))

	for start := 0; start+a.frameSize <= len(samples); start += a.hopSize {
		window := samples[start : start+a.frameSize]
		frame := Frame{
			Offset: time.Duration(float64(start) / float64(sampleRate) * float64(time.Second)),
			Pitch:  pitch.NoPitch,
		}

		if pitch.RMS(window) >= a.silenceRMS {
			result := a.detector.Detect(window, sampleRate)
			frame.Pitch = result.Pitch
			frame.Confidence = result.Confidence

			if result.Detected() {
				a.annotate(&frame)
			}
		}

		report.Frames = append(report.Frames, frame)
	}
	return report
}

// AnalyzeFile decodes a WAV file and analyzes it.
func (a *Analyzer) AnalyzeFile(path string) (*Report, error) {
	samples, sampleRate, err := DecodeWAV(path)
	if err != nil {
		return nil, err
	}
	return a.Analyze(samples, sampleRate), nil
}

func (a *Analyzer) annotate(frame *Frame) {
	if name, ok := a.table.NameOf(frame.Pitch); ok {
		frame.NoteName = name
		if noteFreq, err := a.table.Frequency(name); err == nil {
			frame.Cents = cents.Diff(frame.Pitch, noteFreq)
		}
	}
	if a.harp != nil {
		frame.Channel, frame.CellNote = activeCell(a.harp, frame.Pitch)
	}
}

// activeCell returns the first playable cell whose window contains the
// frequency, scanning channels low to high. Several cells can share a
// note (blow 3 and draw 2 on a richter harp); the lowest channel wins.
func activeCell(h *harmonica.Harmonica, freq float64) (int, int) {
	for ch := harmonica.ChannelMin; ch <= harmonica.ChannelMax; ch++ {
		for note := harmonica.NoteMin; note <= harmonica.NoteMax; note++ {
			if h.HasNote(ch, note) && h.IsNoteActive(ch, note, freq) {
				return ch, note
			}
		}
	}
	return 0, 0
}
