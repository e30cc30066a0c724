// SPDX-License-Identifier: MIT
// Package harmonica models 10-channel diatonic harmonicas: keys, tunings,
// per-channel note frequencies including bends, overblows and overdraws,
// and the chords playable on adjacent holes.
//
// Channel/note layout (C Richter shown; note 0 is the blow reed, note 1 the
// draw reed, positive notes walk down the draw-bend ladder, negative notes
// the blow-bend ladder, and -1/2 double as the overblow/overdraw slot):
//
//	 -------
//	 | 10,-2|
//	 -------------------
//	 | 8,-1| 9,-1| 10,-1|
//	 --------------------------------------------------------------
//	 | 1,0 | 2,0 | 3,0 | 4,0 | 5,0 | 6,0 | 7,0 | 8,0 | 9,0 | 10,0 |
//	 --------------------------------------------------------------
//	 | 1,1 | 2,1 | 3,1 | 4,1 | 5,1 | 6,1 | 7,1 | 8,1 | 9,1 | 10,1 |
//	 --------------------------------------------------------------
//	 | 1,2 | 2,2 | 3,2 | 4,2 |     | 6,2 |
//	 -------------------------     -------
//	 | 2,3 | 3,3 |
//	 -------------
//	 | 3,4 |
//	 -------
package harmonica

import (
	"harp/internal/notes"
	"harp/pkg/cents"
)

// Valid channel and note index bounds. Anything outside resolves to a zero
// frequency / inactive cell rather than an error.
const (
	ChannelMin = 1
	ChannelMax = 10
	NoteMin    = -3
	NoteMax    = 4
)

// halfWindow is the matching tolerance around a cell frequency, in cents.
// Two adjacent semitones are 100 cents apart, so windows never overlap.
const halfWindow = 50.0

// Harmonica is an immutable model of one harmonica: a key root frequency
// plus a tuning's half-tone offset tables. The root is resolved against the
// note table supplied at construction, so concert pitch flows in explicitly
// instead of through shared globals.
type Harmonica struct {
	key          Key
	tune         Tune
	table        *notes.Table
	keyFrequency float64
}

// New builds a harmonica for the given key and tuning. The table fixes the
// concert pitch; nil selects the canonical A4=440 table. Out-of-range key or
// tune values fall back to C Richter.
func New(key Key, tune Tune, table *notes.Table) *Harmonica {
	if table == nil {
		table = notes.Default()
	}
	if key < 0 || key >= keyCount {
		key = KeyC
	}
	if tune < 0 || tune >= tuneCount {
		tune = Richter
	}
	// Key roots are all table entries, so the lookup cannot fail here.
	f, _ := table.Frequency(keyRoots[key])
	return &Harmonica{key: key, tune: tune, table: table, keyFrequency: f}
}

// Key returns the harmonica's key.
func (h *Harmonica) Key() Key { return h.key }

// Tune returns the harmonica's tuning.
func (h *Harmonica) Tune() Tune { return h.tune }

// KeyName returns the display name of the harmonica's key, e.g. "C".
func (h *Harmonica) KeyName() string { return h.key.String() }

// TuneName returns the display name of the harmonica's tuning.
func (h *Harmonica) TuneName() string { return h.tune.String() }

// KeyFrequency returns the root frequency the offset tables are applied to.
func (h *Harmonica) KeyFrequency() float64 { return h.keyFrequency }

// Table returns the note table the harmonica was built against.
func (h *Harmonica) Table() *notes.Table { return h.table }

// blowFrequency returns the channel's unbent blow reed frequency, unrounded.
func (h *Harmonica) blowFrequency(channel int) float64 {
	return cents.Shift(h.keyFrequency, float64(tunings[h.tune].out[channel])*cents.Semitone)
}

// drawFrequency returns the channel's unbent draw reed frequency, unrounded.
func (h *Harmonica) drawFrequency(channel int) float64 {
	return cents.Shift(h.keyFrequency, float64(tunings[h.tune].in[channel])*cents.Semitone)
}

// overFrequency returns the channel's overblow/overdraw frequency: 100 cents
// above the non-bent reed opposite the bend direction.
func (h *Harmonica) overFrequency(channel int) float64 {
	if h.HasInverseCentsHandling(channel) {
		return cents.Shift(h.blowFrequency(channel), cents.Semitone)
	}
	return cents.Shift(h.drawFrequency(channel), cents.Semitone)
}

// NoteFrequency resolves the (channel, note) cell to its frequency in Hz,
// floor-rounded to three decimals. The bend ladders walk in 100-cent steps
// from the blow or draw reed, re-rounding at each step; the overblow and
// overdraw slots sit 100 cents above the opposite reed and replace the
// ladder value at their index. Out-of-range cells yield 0.
func (h *Harmonica) NoteFrequency(channel, note int) float64 {
	if channel < ChannelMin || channel > ChannelMax || note < NoteMin || note > NoteMax {
		return 0
	}

	switch {
	case h.IsOverblow(channel, note) || h.IsOverdraw(channel, note):
		return cents.Round(h.overFrequency(channel))
	case note == 0:
		return cents.Round(h.blowFrequency(channel))
	case note == 1:
		return cents.Round(h.drawFrequency(channel))
	case note > 1:
		f := cents.Round(h.drawFrequency(channel))
		for i := 2; i <= note; i++ {
			if h.IsOverdraw(channel, i) {
				f = cents.Round(h.overFrequency(channel))
				continue
			}
			f = cents.Round(cents.Shift(f, -cents.Semitone))
		}
		return f
	default: // note < 0
		f := cents.Round(h.blowFrequency(channel))
		for i := -1; i >= note; i-- {
			if h.IsOverblow(channel, i) {
				f = cents.Round(h.overFrequency(channel))
				continue
			}
			f = cents.Round(cents.Shift(f, -cents.Semitone))
		}
		return f
	}
}

// HasInverseCentsHandling reports whether the channel's blow reed sounds
// above its draw reed. On such channels the bend direction flips: note -1
// becomes a blow bend and note 2 the overdraw slot.
func (h *Harmonica) HasInverseCentsHandling(channel int) bool {
	return h.NoteFrequency(channel, 0) > h.NoteFrequency(channel, 1)
}

// IsOverblow reports whether the cell is the channel's overblow slot.
func (h *Harmonica) IsOverblow(channel, note int) bool {
	if channel < ChannelMin || channel > ChannelMax {
		return false
	}
	return note == -1 && !h.HasInverseCentsHandling(channel)
}

// IsOverdraw reports whether the cell is the channel's overdraw slot.
func (h *Harmonica) IsOverdraw(channel, note int) bool {
	if channel < ChannelMin || channel > ChannelMax {
		return false
	}
	return note == 2 && h.HasInverseCentsHandling(channel)
}

// DrawBendCount returns how many draw bend steps the channel offers.
func (h *Harmonica) DrawBendCount(channel int) int {
	if channel < ChannelMin || channel > ChannelMax {
		return 0
	}
	n := tunings[h.tune].in[channel] - tunings[h.tune].out[channel] - 1
	if n < 0 {
		n = 0
	}
	return n
}

// BlowBendCount returns how many blow bend steps the channel offers.
func (h *Harmonica) BlowBendCount(channel int) int {
	if channel < ChannelMin || channel > ChannelMax {
		return 0
	}
	n := tunings[h.tune].out[channel] - tunings[h.tune].in[channel] - 1
	if n < 0 {
		n = 0
	}
	return n
}

// HasNote reports whether the cell physically exists on this harmonica:
// the blow and draw reeds, the reachable bend steps, and the overblow or
// overdraw slot.
func (h *Harmonica) HasNote(channel, note int) bool {
	if channel < ChannelMin || channel > ChannelMax || note < NoteMin || note > NoteMax {
		return false
	}
	switch {
	case note == 0 || note == 1:
		return true
	case note < 0:
		return h.IsOverblow(channel, note) || h.BlowBendCount(channel) >= -note
	case h.IsOverdraw(channel, note):
		return true
	default: // note > 1
		return h.DrawBendCount(channel) >= note-1
	}
}

// NoteFrequencyMin returns the lower edge of the cell's matching window,
// 50 cents below the cell frequency. The edge itself is not re-rounded.
func (h *Harmonica) NoteFrequencyMin(channel, note int) float64 {
	return cents.Shift(h.NoteFrequency(channel, note), -halfWindow)
}

// NoteFrequencyMax returns the upper edge of the cell's matching window,
// 50 cents above the cell frequency.
func (h *Harmonica) NoteFrequencyMax(channel, note int) float64 {
	return cents.Shift(h.NoteFrequency(channel, note), halfWindow)
}

// IsNoteActive reports whether a measured frequency falls inside the cell's
// ±50-cent window, boundaries inclusive. Cells that resolve to a zero
// frequency are never active.
func (h *Harmonica) IsNoteActive(channel, note int, frequency float64) bool {
	f := h.NoteFrequency(channel, note)
	if f <= 0 {
		return false
	}
	return frequency >= cents.Shift(f, -halfWindow) && frequency <= cents.Shift(f, halfWindow)
}

// CentsOff returns how far a measured frequency sits from the cell
// frequency, positive when the measurement is sharp.
func (h *Harmonica) CentsOff(channel, note int, frequency float64) float64 {
	return cents.Diff(frequency, h.NoteFrequency(channel, note))
}

// NoteName returns the table name of the cell's note, or "" when the cell
// resolves outside the table.
func (h *Harmonica) NoteName(channel, note int) string {
	name, ok := h.table.NameOf(h.NoteFrequency(channel, note))
	if !ok {
		return ""
	}
	return name
}

// Range returns the band a detector should cover for this harmonica:
// 50 cents below its lowest cell and 50 cents above its highest.
func (h *Harmonica) Range() (min, max float64) {
	for ch := ChannelMin; ch <= ChannelMax; ch++ {
		for note := NoteMin; note <= NoteMax; note++ {
			if !h.HasNote(ch, note) {
				continue
			}
			f := h.NoteFrequency(ch, note)
			if min == 0 || f < min {
				min = f
			}
			if f > max {
				max = f
			}
		}
	}
	return cents.Shift(min, -halfWindow), cents.Shift(max, halfWindow)
}
