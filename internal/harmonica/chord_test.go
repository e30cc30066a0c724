package harmonica_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"harp/internal/harmonica"
	"harp/internal/notes"
)

func TestPossibleChordsRichterC(t *testing.T) {
	h := richterC()
	chords := h.PossibleChords()

	// 9 pairs and 8 triples per breath direction.
	require.Len(t, chords, 34)

	first := chords[0]
	require.Equal(t, []int{1, 2}, first.Channels)
	require.Equal(t, 0, first.Note)
	require.Equal(t, "C4-E4", first.Name(notes.Default()))

	var names []string
	for _, c := range chords {
		require.Len(t, c.Tones, len(c.Channels))
		for _, f := range c.Tones {
			require.Greater(t, f, 0.0)
		}
		names = append(names, c.Name(notes.Default()))
	}

	// The classic C-major blow triad and the draw pair on holes 1-2.
	require.Contains(t, names, "C4-E4-G4")
	require.Contains(t, names, "D4-G4")
}

func TestChordsFollowConcertPitch(t *testing.T) {
	tbl := notes.New(443)
	h := harmonica.New(harmonica.KeyC, harmonica.Richter, tbl)

	for _, c := range h.PossibleChords() {
		require.NotEmpty(t, c.Name(tbl), "chord on channels %v", c.Channels)
	}
}
