// SPDX-License-Identifier: MIT
package harmonica

import "strings"

// Tune identifies a tuning scheme: which half-tone offsets from the key's
// root each channel's blow and draw reeds are set to.
type Tune int

// Supported tunings.
const (
	Richter Tune = iota
	Country
	Diminished
	HarmonicMoll
	PaddyRichter
	MelodyMaker
	NaturalMoll
	Circular
	Augmented

	tuneCount
)

var tuneNames = [tuneCount]string{
	"richter", "country", "diminished", "harmonicmoll", "paddyrichter",
	"melodymaker", "naturalmoll", "circular", "augmented",
}

// halfTones holds one tuning's per-channel offsets from the key root, in
// half-tones. Index 0 is unused; channels are 1-based.
type halfTones struct {
	in  [ChannelMax + 1]int // draw reeds
	out [ChannelMax + 1]int // blow reeds
}

var tunings = [tuneCount]halfTones{
	Richter: {
		in:  [...]int{0, 2, 7, 11, 14, 17, 21, 23, 26, 29, 33},
		out: [...]int{0, 0, 4, 7, 12, 16, 19, 24, 28, 31, 36},
	},
	Country: {
		in:  [...]int{0, 2, 7, 11, 14, 18, 21, 23, 26, 29, 33},
		out: [...]int{0, 0, 4, 7, 12, 16, 19, 24, 28, 31, 36},
	},
	Diminished: {
		in:  [...]int{0, 2, 5, 8, 11, 14, 17, 20, 23, 26, 29},
		out: [...]int{0, 0, 3, 6, 9, 12, 15, 18, 21, 24, 27},
	},
	HarmonicMoll: {
		in:  [...]int{0, 2, 7, 11, 14, 17, 20, 23, 26, 29, 32},
		out: [...]int{0, 0, 3, 7, 12, 15, 19, 24, 27, 31, 36},
	},
	PaddyRichter: {
		in:  [...]int{0, 2, 7, 11, 14, 17, 21, 23, 26, 29, 33},
		out: [...]int{0, 0, 4, 9, 12, 16, 19, 24, 28, 31, 36},
	},
	MelodyMaker: {
		in:  [...]int{0, 2, 7, 11, 14, 18, 21, 23, 26, 29, 33},
		out: [...]int{0, 0, 4, 9, 12, 16, 19, 24, 28, 31, 36},
	},
	NaturalMoll: {
		in:  [...]int{0, 2, 7, 10, 14, 17, 21, 22, 26, 29, 33},
		out: [...]int{0, 0, 3, 7, 12, 15, 19, 24, 27, 31, 36},
	},
	Circular: {
		in:  [...]int{0, 2, 5, 9, 12, 16, 19, 22, 26, 29, 33},
		out: [...]int{0, 0, 4, 7, 10, 14, 17, 21, 24, 28, 31},
	},
	Augmented: {
		in:  [...]int{0, 3, 7, 11, 15, 19, 23, 27, 31, 35, 39},
		out: [...]int{0, 0, 4, 8, 12, 16, 20, 24, 28, 32, 36},
	},
}

// String returns the tuning's display name, e.g. "richter".
func (t Tune) String() string {
	if t < 0 || t >= tuneCount {
		t = Richter
	}
	return tuneNames[t]
}

// ParseTune resolves a tuning name case-insensitively. Unknown names fall
// back to Richter so a selection is always playable.
func ParseTune(s string) Tune {
	n := strings.ToLower(strings.TrimSpace(s))
	for t, name := range tuneNames {
		if name == n {
			return Tune(t)
		}
	}
	return Richter
}

// Tunes lists every supported tuning.
func Tunes() []Tune {
	ts := make([]Tune, tuneCount)
	for i := range ts {
		ts[i] = Tune(i)
	}
	return ts
}
