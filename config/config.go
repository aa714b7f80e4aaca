// Package config loads the run configuration of the pdfops command.
//
// Values are layered: built-in defaults, then the TOML file named by
// PDFOPS_CONFIG, then individual environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/tsawler/pdfops/logging"
	"github.com/tsawler/pdfops/operation"
	"github.com/tsawler/pdfops/walker"
)

// EnvConfigFile names the optional TOML file.
const EnvConfigFile = "PDFOPS_CONFIG"

// Config is the run configuration.
type Config struct {
	// Suppress lists operators the printer does not write.
	Suppress []string `env:"PDFOPS_SUPPRESS" envSeparator:","`
	// SkipInvalid turns decode errors into logged skips.
	SkipInvalid bool `env:"PDFOPS_SKIP_INVALID"`
	Log         logging.Config
}

// fileConfig mirrors the TOML layout. Only keys present in the file
// override defaults.
type fileConfig struct {
	Suppress    []string       `toml:"suppress"`
	SkipInvalid bool           `toml:"skip_invalid"`
	Log         logging.Config `toml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Suppress: append([]string(nil), walker.DefaultSuppressed...),
		Log:      logging.DefaultConfig(),
	}
}

// Load builds the configuration from defaults, the config file and the
// environment, and validates it.
func Load() (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv(EnvConfigFile)); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.Suppress = normalizeOperators(cfg.Suppress)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("suppress") {
		cfg.Suppress = raw.Suppress
	}
	if meta.IsDefined("skip_invalid") {
		cfg.SkipInvalid = raw.SkipInvalid
	}
	if meta.IsDefined("log", "level") {
		cfg.Log.Level = raw.Log.Level
	}
	if meta.IsDefined("log", "format") {
		cfg.Log.Format = raw.Log.Format
	}
	if meta.IsDefined("log", "timestamp") {
		cfg.Log.Timestamp = raw.Log.Timestamp
	}
	if meta.IsDefined("log", "no_color") {
		cfg.Log.NoColor = raw.Log.NoColor
	}
	return nil
}

// normalizeOperators trims entries and drops empty ones.
func normalizeOperators(ops []string) []string {
	out := make([]string, 0, len(ops))
	for _, op := range ops {
		if op = strings.TrimSpace(op); op != "" {
			out = append(out, op)
		}
	}
	return out
}

// Validate reports unknown suppressed operators and bad log settings.
func (c Config) Validate() error {
	for _, op := range c.Suppress {
		if !operation.Known(op) {
			return fmt.Errorf("cannot suppress unknown operator %q", op)
		}
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}
