// SPDX-License-Identifier: MIT
package server

import "harp/internal/harmonica"

// cellJSON is one playable cell of the layout grid.
type cellJSON struct {
	Note      int     `json:"note"`
	Name      string  `json:"name"`
	Frequency float64 `json:"frequency"`
	Overblow  bool    `json:"overblow,omitempty"`
	Overdraw  bool    `json:"overdraw,omitempty"`
}

type channelJSON struct {
	Channel   int        `json:"channel"`
	Cells     []cellJSON `json:"cells"`
	DrawBends int        `json:"drawBends"`
	BlowBends int        `json:"blowBends"`
	Inverse   bool       `json:"inverse,omitempty"`
}

type layoutJSON struct {
	Key          string        `json:"key"`
	Tune         string        `json:"tune"`
	ConcertPitch int           `json:"concertPitch"`
	KeyFrequency float64       `json:"keyFrequency"`
	MinFrequency float64       `json:"minFrequency"`
	MaxFrequency float64       `json:"maxFrequency"`
	Channels     []channelJSON `json:"channels"`
}

type chordJSON struct {
	Channels []int     `json:"channels"`
	Draw     bool      `json:"draw"`
	Name     string    `json:"name"`
	Tones    []float64 `json:"tones"`
}

type versionResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Time    string `json:"time"`
	UUID    string `json:"uuid"`
}

// buildLayout flattens the harmonica's cell grid into its JSON shape,
// listing only the cells each channel actually has, bend ladders and
// over-notes included.
func buildLayout(h *harmonica.Harmonica) layoutJSON {
	minF, maxF := h.Range()
	out := layoutJSON{
		Key:          h.KeyName(),
		Tune:         h.TuneName(),
		ConcertPitch: h.Table().ConcertPitch(),
		KeyFrequency: h.KeyFrequency(),
		MinFrequency: minF,
		MaxFrequency: maxF,
	}
	for ch := harmonica.ChannelMin; ch <= harmonica.ChannelMax; ch++ {
		cj := channelJSON{
			Channel:   ch,
			DrawBends: h.DrawBendCount(ch),
			BlowBends: h.BlowBendCount(ch),
			Inverse:   h.HasInverseCentsHandling(ch),
		}
		for note := harmonica.NoteMin; note <= harmonica.NoteMax; note++ {
			if !h.HasNote(ch, note) {
				continue
			}
			cj.Cells = append(cj.Cells, cellJSON{
				Note:      note,
				Name:      h.NoteName(ch, note),
				Frequency: h.NoteFrequency(ch, note),
				Overblow:  h.IsOverblow(ch, note),
				Overdraw:  h.IsOverdraw(ch, note),
			})
		}
		out.Channels = append(out.Channels, cj)
	}
	return out
}

// buildChords lists every playable adjacent-hole chord with its
// resolved note names.
func buildChords(h *harmonica.Harmonica) []chordJSON {
	chords := h.PossibleChords()
	out := make([]chordJSON, 0, len(chords))
	for _, c := range chords {
		out = append(out, chordJSON{
			Channels: c.Channels,
			Draw:     c.Note == 1,
			Name:     c.Name(h.Table()),
			Tones:    c.Tones,
		})
	}
	return out
}
