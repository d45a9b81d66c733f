// Package tpcconfig persists the CLI wrappers' default settings between
// runs. The core probe packages never consult it — they take every
// parameter as an explicit function argument.
package tpcconfig

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

// Config is the operator's persisted default settings.
type Config struct {
	SampleRate       int    `json:"sample_rate"`
	UltrasonicStart  int    `json:"ultrasonic_start_hz"`
	UltrasonicEnd    int    `json:"ultrasonic_end_hz"`
	OutputDir        string `json:"output_dir"`
	LastInputDevice  int    `json:"last_input_device"`
	LastOutputDevice int    `json:"last_output_device"`
}

// Default returns the built-in settings used when no config file exists or
// it cannot be read.
func Default() Config {
	return Config{
		SampleRate:       48000,
		UltrasonicStart:  17000,
		UltrasonicEnd:    22000,
		OutputDir:        ".",
		LastInputDevice:  -1,
		LastOutputDevice: -1,
	}
}

// Path returns the on-disk location of the config file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tpc", "config.json"), nil
}

// Load reads the persisted config, falling back to Default on any error
// (missing file, unreadable, malformed) so a CLI wrapper never fails to
// start because of a broken settings file.
func Load() Config {
	path, err := Path()
	if err != nil {
		log.Printf("[tpcconfig] no config dir available: %v", err)
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("[tpcconfig] malformed config at %s: %v", path, err)
		return Default()
	}
	return cfg
}

// Save persists cfg to disk, creating its parent directory if needed.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
