// SPDX-License-Identifier: MIT
package harmonica

import "strings"

// Key selects the root note a harmonica is built around. The plain names
// cover the standard middle range; L and LL prefixes mark low keys below
// it, H high keys above it.
type Key int

// Supported keys, ordered by ascending root frequency (E2 up to A#4).
const (
	KeyLLE Key = iota
	KeyLLF
	KeyLLFSharp
	KeyLG
	KeyLAFlat
	KeyLA
	KeyLBFlat
	KeyLB
	KeyLC
	KeyLDFlat
	KeyLD
	KeyLEFlat
	KeyLE
	KeyLF
	KeyLFSharp
	KeyG
	KeyAFlat
	KeyA
	KeyBFlat
	KeyB
	KeyC
	KeyDFlat
	KeyD
	KeyEFlat
	KeyE
	KeyF
	KeyFSharp
	KeyHG
	KeyHAFlat
	KeyHBFlat

	keyCount
)

var keyNames = [keyCount]string{
	"LLE", "LLF", "LLF#", "LG", "LAb", "LA", "LBb", "LB", "LC", "LDb",
	"LD", "LEb", "LE", "LF", "LF#", "G", "Ab", "A", "Bb", "B",
	"C", "Db", "D", "Eb", "E", "F", "F#", "HG", "HAb", "HBb",
}

// keyRoots maps each key to the note its offset tables are anchored on.
var keyRoots = [keyCount]string{
	"E2", "F2", "F#2", "G2", "G#2", "A2", "A#2", "B2", "C3", "C#3",
	"D3", "D#3", "E3", "F3", "F#3", "G3", "G#3", "A3", "A#3", "B3",
	"C4", "C#4", "D4", "D#4", "E4", "F4", "F#4", "G4", "G#4", "A#4",
}

// String returns the key's display name, e.g. "C" or "LF#".
func (k Key) String() string {
	if k < 0 || k >= keyCount {
		k = KeyC
	}
	return keyNames[k]
}

// Note returns the name of the key's root note, e.g. "C4" for KeyC.
func (k Key) Note() string {
	if k < 0 || k >= keyCount {
		k = KeyC
	}
	return keyRoots[k]
}

// ParseKey resolves a key name case-insensitively. Both the compact
// spellings ("Ab", "LF#") and the underscore spellings used by older
// clients ("A_FLAT", "LF_HASH") are accepted. Unknown names fall back
// to C so a selection is always playable.
func ParseKey(s string) Key {
	n := strings.ToUpper(strings.TrimSpace(s))
	n = strings.ReplaceAll(n, "_FLAT", "B")
	n = strings.ReplaceAll(n, "_HASH", "#")
	for k, name := range keyNames {
		if strings.ToUpper(name) == n {
			return Key(k)
		}
	}
	return KeyC
}

// Keys lists every supported key in ascending root-frequency order.
func Keys() []Key {
	ks := make([]Key, keyCount)
	for i := range ks {
		ks[i] = Key(i)
	}
	return ks
}
