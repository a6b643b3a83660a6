// Package config provides configuration management for deckgen using Viper,
// loading from .deckgen.yml, DECKGEN_-prefixed environment variables, and
// command-line flags.
//
// The template archive location is an explicit configuration value injected
// into the materializer rather than process-wide path state, so tests can
// point it at fixtures.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	Template TemplateConfig `yaml:"template"`
	Output   OutputConfig   `yaml:"output"`
	Deck     DeckConfig     `yaml:"deck"`
	Watch    WatchConfig    `yaml:"watch"`
	Log      LogConfig      `yaml:"log"`
}

// TemplateConfig locates the packaged template archive.
type TemplateConfig struct {
	Archive string `yaml:"archive"`
}

// OutputConfig controls where deck directories are created.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// DeckConfig carries deck identity defaults.
type DeckConfig struct {
	Title string `yaml:"title"`
}

// WatchConfig tunes the finalize watch mode.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Debounce returns the watch debounce as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// DefaultArchivePath is where the packaged template archive is looked up when
// the config does not name one.
func DefaultArchivePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".deckgen", "template.zip")
	}

	return filepath.Join(home, ".deckgen", "template.zip")
}

// Load builds the configuration from viper's current state and applies
// defaults for anything unset.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if viper.IsSet("template.archive") {
		config.Template.Archive = viper.GetString("template.archive")
	}
	if config.Template.Archive == "" {
		config.Template.Archive = DefaultArchivePath()
	}

	if viper.IsSet("output.dir") {
		config.Output.Dir = viper.GetString("output.dir")
	}
	if config.Output.Dir == "" {
		config.Output.Dir = "."
	}

	if viper.IsSet("watch.debounce_ms") {
		config.Watch.DebounceMS = viper.GetInt("watch.debounce_ms")
	}
	if config.Watch.DebounceMS == 0 {
		config.Watch.DebounceMS = 300
	}

	if config.Log.Level == "" {
		config.Log.Level = viper.GetString("log-level")
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
