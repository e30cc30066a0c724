// SPDX-License-Identifier: MIT
package harmonica

import (
	"strings"

	"harp/internal/notes"
)

// Chord is a group of adjacent channels sounded together at one note
// index (0 for blow chords, 1 for draw chords).
type Chord struct {
	Channels []int
	Note     int
	Tones    []float64
}

// Name joins the chord's member note names with "-", e.g. "C4-E4-G4".
// Tones that fall outside the table are skipped.
func (c Chord) Name(t *notes.Table) string {
	parts := make([]string, 0, len(c.Tones))
	for _, f := range c.Tones {
		if name, ok := t.NameOf(f); ok {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "-")
}

// PossibleChords enumerates every two- and three-hole chord playable on
// adjacent channels, blow chords first, each with its resolved tone
// frequencies.
func (h *Harmonica) PossibleChords() []Chord {
	var chords []Chord
	for _, note := range [...]int{0, 1} {
		for width := 2; width <= 3; width++ {
			for ch := ChannelMin; ch+width-1 <= ChannelMax; ch++ {
				channels := make([]int, width)
				tones := make([]float64, width)
				for i := range width {
					channels[i] = ch + i
					tones[i] = h.NoteFrequency(ch+i, note)
				}
				chords = append(chords, Chord{Channels: channels, Note: note, Tones: tones})
			}
		}
	}
	return chords
}
