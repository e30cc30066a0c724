// SPDX-License-Identifier: MIT
package cmd

import (
	"harp/internal/config"
	"harp/internal/harmonica"
	"harp/internal/notes"
)

// resolveTable returns the note table for the effective concert pitch. A
// zero pitchHz means "no flag given" and defers to the config. The shared
// canonical table is reused when nothing moved the pitch off 440 Hz.
func resolveTable(cfg *config.Config, pitchHz int) *notes.Table {
	if pitchHz == 0 {
		pitchHz = cfg.Harmonica.ConcertPitch
	}
	if pitchHz != notes.DefaultConcertPitch {
		return notes.New(pitchHz)
	}
	return notes.Default()
}

// resolveHarmonica layers flag overrides over the configured instrument.
// Empty key or tune strings fall back to the config values.
func resolveHarmonica(cfg *config.Config, key, tune string, pitchHz int) *harmonica.Harmonica {
	if key == "" {
		key = cfg.Harmonica.Key
	}
	if tune == "" {
		tune = cfg.Harmonica.Tune
	}
	return harmonica.New(harmonica.ParseKey(key), harmonica.ParseTune(tune), resolveTable(cfg, pitchHz))
}
