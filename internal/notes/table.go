/*
Package notes maps between note names and frequencies. It holds the
canonical equal-temperament table at concert pitch A4=440Hz (C0..B8,
108 entries) and can rebuild the whole table for any other concert
pitch by applying one uniform cents shift to every entry.

A Table is an immutable snapshot: all lookups are read-only and safe
for concurrent use. Retuning produces a new Table; Context performs the
swap atomically for callers that share one table across goroutines.
*/
package notes

import (
	"fmt"
	"strings"

	"harp/pkg/cents"
)

// Note is one immutable table entry.
type Note struct {
	Name      string
	Frequency float64
}

const (
	octaveCount = 9
	entryCount  = octaveCount * 12

	// DefaultConcertPitch is the reference tuning of the canonical table.
	DefaultConcertPitch = 440

	centsWindow = 50.0
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// canonical holds the reference frequencies at A4=440, ascending from
// C0, twelve entries per octave. The values are the published
// equal-temperament references, not formula output, so lookups match
// the tables players know.
var canonical = [entryCount]float64{
	16.3516, 17.3239, 18.3540, 19.4454, 20.6017, 21.8268, 23.1247, 24.4997, 25.9565, 27.5, 29.1352, 30.8677,
	32.7032, 34.6478, 36.7081, 38.8909, 41.2034, 43.6535, 46.2493, 48.9994, 51.9131, 55.0, 58.2705, 61.7354,
	65.4064, 69.2957, 73.4162, 77.7817, 82.4069, 87.3071, 92.4986, 97.9989, 103.826, 110.0, 116.541, 123.471,
	130.813, 138.591, 146.832, 155.563, 164.814, 174.614, 184.997, 195.998, 207.652, 220.0, 233.082, 246.942,
	261.626, 277.183, 293.665, 311.127, 329.628, 349.228, 369.994, 391.995, 415.305, 440.0, 466.164, 493.883,
	523.251, 554.365, 587.330, 622.254, 659.255, 698.456, 739.989, 783.991, 830.609, 880.0, 932.328, 987.767,
	1046.50, 1108.73, 1174.66, 1244.51, 1318.51, 1396.91, 1479.98, 1567.98, 1661.22, 1760.0, 1864.66, 1975.53,
	2093.00, 2217.46, 2349.32, 2489.02, 2637.02, 2793.83, 2959.96, 3135.96, 3322.44, 3520.0, 3729.31, 3951.07,
	4186.01, 4434.92, 4698.63, 4978.03, 5274.04, 5587.65, 5919.91, 6271.93, 6644.88, 7040.0, 7458.62, 7902.13,
}

// Table is an immutable note table at one concert pitch. Entries are
// stored frequency-ascending (C0 first), which fixes the tie-break
// order for window lookups.
type Table struct {
	concertPitch int
	freqs        [entryCount]float64
	// Precomputed ±50-cent window bounds per entry, so NameOf runs
	// without any log calls on the per-frame path.
	lo, hi [entryCount]float64
}

// New builds a table for the given concert pitch. Every canonical
// entry is shifted by 1200·log2(hz/440) cents and floor-rounded to
// three decimals. Any positive integer is accepted; values outside the
// supported 431–446 range are musically unusual but not rejected.
func New(concertPitchHz int) *Table {
	t := &Table{concertPitch: concertPitchHz}
	offset := cents.Diff(float64(concertPitchHz), DefaultConcertPitch)
	for i, f := range canonical {
		t.freqs[i] = cents.Round(cents.Shift(f, offset))
	}
	t.computeBounds()
	return t
}

// defaultTable keeps the canonical values untouched (no shift, no
// rounding), matching the reference table exactly.
var defaultTable = func() *Table {
	t := &Table{concertPitch: DefaultConcertPitch, freqs: canonical}
	t.computeBounds()
	return t
}()

// Default returns the shared canonical A4=440 table.
func Default() *Table {
	return defaultTable
}

func (t *Table) computeBounds() {
	for i, f := range t.freqs {
		t.lo[i] = cents.Shift(f, -centsWindow)
		t.hi[i] = cents.Shift(f, centsWindow)
	}
}

// ConcertPitch returns the pitch in Hz this table was built for.
func (t *Table) ConcertPitch() int {
	return t.concertPitch
}

// Frequency resolves a note name like "C#4" to its frequency in this
// table. Parsing is case-insensitive, tolerates surrounding whitespace
// and accepts flat spellings ("Db4" resolves to the C#4 entry). An
// unparsable name or an octave outside 0..8 is a hard error; lookups
// never silently default.
func (t *Table) Frequency(name string) (float64, error) {
	idx, err := parseName(name)
	if err != nil {
		return 0, err
	}
	return t.freqs[idx], nil
}

// NameOf returns the name of the first entry, in ascending frequency
// order, whose ±50-cent window (inclusive on both edges) contains the
// given frequency. The second result is false when nothing matches —
// an expected outcome for silence, noise or out-of-range pitches.
func (t *Table) NameOf(freq float64) (string, bool) {
	for i := range t.freqs {
		if freq < t.lo[i] {
			break // Entries are ascending; no later window can match.
		}
		if freq <= t.hi[i] {
			return nameAt(i), true
		}
	}
	return "", false
}

// Notes returns a copy of all entries in ascending frequency order.
func (t *Table) Notes() []Note {
	out := make([]Note, entryCount)
	for i, f := range t.freqs {
		out[i] = Note{Name: nameAt(i), Frequency: f}
	}
	return out
}

// SupportedConcertPitches returns the fixed whitelist of selectable
// concert pitches, ascending.
func SupportedConcertPitches() []string {
	return []string{
		"431", "432", "433", "434", "435", "436", "437", "438",
		"439", "440", "441", "442", "443", "444", "445", "446",
	}
}

func nameAt(idx int) string {
	return fmt.Sprintf("%s%d", noteNames[idx%12], idx/12)
}

var pitchClass = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// parseName normalizes Letter[#|b]Octave to a table index. The octave
// digit is taken as written even for wrapped spellings (B#4 lands on
// C4), which keeps parsing total and deterministic.
func parseName(name string) (int, error) {
	s := strings.TrimSpace(name)
	if s == "" {
		return 0, fmt.Errorf("note name is empty")
	}
	if len(s) < 2 || len(s) > 3 {
		return 0, fmt.Errorf("invalid note name %q", name)
	}

	letter := s[0]
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	pc, ok := pitchClass[letter]
	if !ok {
		return 0, fmt.Errorf("invalid note name %q: unknown letter %q", name, s[0])
	}

	rest := s[1:]
	if len(rest) == 2 {
		switch rest[0] {
		case '#':
			pc = (pc + 1) % 12
		case 'b', 'B':
			pc = (pc + 11) % 12
		default:
			return 0, fmt.Errorf("invalid note name %q: unknown accidental %q", name, rest[0])
		}
		rest = rest[1:]
	}

	oct := rest[0]
	if oct < '0' || oct > '9' {
		return 0, fmt.Errorf("invalid note name %q: bad octave %q", name, oct)
	}
	if oct > '8' {
		return 0, fmt.Errorf("invalid note name %q: octave out of range 0..8", name)
	}
	return int(oct-'0')*12 + pc, nil
}
