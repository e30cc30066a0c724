// SPDX-License-Identifier: MIT
// Package config loads and validates the application configuration.
// Values resolve in three layers: built-in defaults, then an optional
// YAML file, then HARP_* environment overrides. Validation runs on the
// final result so every consumer can trust the numbers it gets.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"harp/internal/log"
	"harp/internal/pitch"
	"harp/pkg/bitint"
)

// Limits enforced by Validate.
const (
	MinSampleRate = 8000   // Minimum usable sample rate (Hz)
	MaxSampleRate = 192000 // Maximum supported sample rate (Hz)

	MinFrameSize = 256   // Below this the detectors lose the low reeds
	MaxFrameSize = 16384 // Frames are zero padded to powers of two

	MinConcertPitch = 400 // Hz, anything outside is surely a typo
	MaxConcertPitch = 500
)

// Config is the main application configuration structure, loaded from YAML.
type Config struct {
	LogLevel  string          `yaml:"log_level"` // Logging level ("debug", "info", "warn", "error").
	Server    ServerConfig    `yaml:"server"`    // HTTP and WebSocket server settings.
	Audio     AudioConfig     `yaml:"audio"`     // Audio framing settings.
	Detect    DetectConfig    `yaml:"detect"`    // Pitch detection settings.
	Harmonica HarmonicaConfig `yaml:"harmonica"` // Default instrument settings.
}

// ServerConfig holds settings for the HTTP and WebSocket server.
type ServerConfig struct {
	Address              string   `yaml:"address"`                // Listen address, e.g. ":8080".
	AllowedOrigins       []string `yaml:"allowed_origins"`        // CORS origins; ["*"] allows any.
	ShutdownGraceSeconds int      `yaml:"shutdown_grace_seconds"` // Drain window for graceful shutdown.
}

// AudioConfig holds settings for slicing raw audio into analysis frames.
type AudioConfig struct {
	SampleRate int     `yaml:"sample_rate"` // Sample rate in Hz (e.g. 44100, 48000).
	FrameSize  int     `yaml:"frame_size"`  // Samples per analysis frame; power of two.
	SilenceRMS float64 `yaml:"silence_rms"` // Frames below this RMS are skipped as silence.
}

// DetectConfig holds settings for the pitch detectors.
type DetectConfig struct {
	Algorithm    string  `yaml:"algorithm"`     // "yin", "mpm", "fft" or "hybrid".
	MinFrequency float64 `yaml:"min_frequency"` // Lower band edge in Hz; 0 derives it from the harmonica.
	MaxFrequency float64 `yaml:"max_frequency"` // Upper band edge in Hz; 0 derives it from the harmonica.
}

// HarmonicaConfig holds the instrument a session starts with.
type HarmonicaConfig struct {
	Key          string `yaml:"key"`           // Key name, e.g. "C", "Bb", "LF#".
	Tune         string `yaml:"tune"`          // Tuning name, e.g. "richter".
	ConcertPitch int    `yaml:"concert_pitch"` // Reference A4 in Hz.
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Server: ServerConfig{
			Address:              ":8080",
			AllowedOrigins:       []string{"*"},
			ShutdownGraceSeconds: 5,
		},
		Audio: AudioConfig{
			SampleRate: 44100,
			FrameSize:  8192,
			SilenceRMS: 0.01,
		},
		Detect: DetectConfig{
			Algorithm:    "hybrid",
			MinFrequency: 0,
			MaxFrequency: 0,
		},
		Harmonica: HarmonicaConfig{
			Key:          "C",
			Tune:         "richter",
			ConcertPitch: 440,
		},
	}
}

// LoadConfig loads configuration from a YAML file specified by path. If
// path is empty it searches default locations ("harp.yaml",
// "config.yaml") and falls back to built-in defaults when none exists.
// Environment overrides apply after the file, then the result is
// validated.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		candidates := []string{"harp.yaml", "config.yaml"}
		for _, candidate := range candidates {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Apply environment variable overrides AFTER loading from file.
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks every bound the rest of the application relies on.
func (c *Config) Validate() error {
	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("log_level %q is not a known level", c.LogLevel)
	}

	if c.Server.Address == "" {
		return fmt.Errorf("server.address must not be empty")
	}
	if c.Server.ShutdownGraceSeconds < 0 {
		return fmt.Errorf("server.shutdown_grace_seconds must not be negative")
	}

	if c.Audio.SampleRate < MinSampleRate || c.Audio.SampleRate > MaxSampleRate {
		return fmt.Errorf("audio.sample_rate %d outside %d..%d", c.Audio.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if c.Audio.FrameSize < MinFrameSize || c.Audio.FrameSize > MaxFrameSize {
		return fmt.Errorf("audio.frame_size %d outside %d..%d", c.Audio.FrameSize, MinFrameSize, MaxFrameSize)
	}
	if !bitint.IsPowerOfTwo(c.Audio.FrameSize) {
		return fmt.Errorf("audio.frame_size %d is not a power of two", c.Audio.FrameSize)
	}
	if c.Audio.SilenceRMS < 0 || c.Audio.SilenceRMS >= 1 {
		return fmt.Errorf("audio.silence_rms %g outside [0, 1)", c.Audio.SilenceRMS)
	}

	if _, err := pitch.ParseAlgorithm(c.Detect.Algorithm); err != nil {
		return fmt.Errorf("detect.algorithm: %w", err)
	}
	if c.Detect.MinFrequency < 0 || c.Detect.MaxFrequency < 0 {
		return fmt.Errorf("detect frequency bounds must not be negative")
	}
	if c.Detect.MinFrequency > 0 && c.Detect.MaxFrequency > 0 &&
		c.Detect.MinFrequency >= c.Detect.MaxFrequency {
		return fmt.Errorf("detect.min_frequency %g must be below detect.max_frequency %g",
			c.Detect.MinFrequency, c.Detect.MaxFrequency)
	}

	if c.Harmonica.ConcertPitch < MinConcertPitch || c.Harmonica.ConcertPitch > MaxConcertPitch {
		return fmt.Errorf("harmonica.concert_pitch %d outside %d..%d",
			c.Harmonica.ConcertPitch, MinConcertPitch, MaxConcertPitch)
	}

	// Key and tune names are not rejected here: unknown values fall back
	// to C richter at construction, matching the lookup behavior players
	// see in the UI.
	return nil
}

// PitchConfig maps the detect section onto a detector configuration.
// Zero bounds stay zero so the detector can apply its own defaults or
// the caller can derive the band from a harmonica's range.
func (c *Config) PitchConfig() pitch.Config {
	return pitch.Config{
		MinFrequency: c.Detect.MinFrequency,
		MaxFrequency: c.Detect.MaxFrequency,
	}
}

// PitchAlgorithm returns the configured algorithm, falling back to
// hybrid if the name no longer parses.
func (c *Config) PitchAlgorithm() pitch.Algorithm {
	a, err := pitch.ParseAlgorithm(c.Detect.Algorithm)
	if err != nil {
		return pitch.Hybrid
	}
	return a
}

func (c *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("HARP_LOG_LEVEL"); ok {
		c.LogLevel = val
		log.Debugf("config: overriding log_level from env: %s", val)
	}
	if val, ok := os.LookupEnv("HARP_SERVER_ADDRESS"); ok {
		c.Server.Address = val
		log.Debugf("config: overriding server.address from env: %s", val)
	}
	if val, ok := os.LookupEnv("HARP_SAMPLE_RATE"); ok {
		if iVal, err := strconv.Atoi(val); err == nil {
			c.Audio.SampleRate = iVal
			log.Debugf("config: overriding audio.sample_rate from env: %d", iVal)
		}
	}
	if val, ok := os.LookupEnv("HARP_FRAME_SIZE"); ok {
		if iVal, err := strconv.Atoi(val); err == nil {
			c.Audio.FrameSize = iVal
			log.Debugf("config: overriding audio.frame_size from env: %d", iVal)
		}
	}
	if val, ok := os.LookupEnv("HARP_ALGORITHM"); ok {
		c.Detect.Algorithm = val
		log.Debugf("config: overriding detect.algorithm from env: %s", val)
	}
	if val, ok := os.LookupEnv("HARP_KEY"); ok {
		c.Harmonica.Key = val
		log.Debugf("config: overriding harmonica.key from env: %s", val)
	}
	if val, ok := os.LookupEnv("HARP_TUNE"); ok {
		c.Harmonica.Tune = val
		log.Debugf("config: overriding harmonica.tune from env: %s", val)
	}
	if val, ok := os.LookupEnv("HARP_CONCERT_PITCH"); ok {
		if iVal, err := strconv.Atoi(val); err == nil {
			c.Harmonica.ConcertPitch = iVal
			log.Debugf("config: overriding harmonica.concert_pitch from env: %d", iVal)
		}
	}
}
