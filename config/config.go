// Package config loads the bslsp configuration file.
//
// The file is TOML:
//
//	executable = "/usr/local/bin/brain-surgeon"
//	log_file = "/tmp/bslsp.log"
//	log_level = "debug"
//	telemetry = "log"
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Config is the server configuration.
type Config struct {
	// Executable is the brain-surgeon binary, looked up in PATH when it has
	// no directory.
	Executable string `toml:"executable" validate:"required"`
	// LogFile is where the server logs. Empty means the default in the user
	// cache directory.
	LogFile  string `toml:"log_file"`
	LogLevel string `toml:"log_level" validate:"oneof=debug info warn error"`
	// Telemetry is where invocation spans and metrics go: "log" appends them
	// to the log file, "none" drops them.
	Telemetry string `toml:"telemetry" validate:"oneof=log none"`
}

var validate = validator.New()

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Executable: "brain-surgeon",
		LogLevel:   "info",
		Telemetry:  "log",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/bslsp/config.toml, or its platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bslsp", "config.toml"), nil
}

// Load reads path over the defaults. A missing file is not an error when
// optional is set.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("invalid %s: failed %q", strings.ToLower(fe.Field()), fe.Tag())
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// SlogLevel returns LogLevel as a slog.Level.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
