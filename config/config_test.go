package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
executable = "/opt/bin/brain-surgeon"
log_level = "debug"
`)
	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, Config{
		Executable: "/opt/bin/brain-surgeon",
		LogLevel:   "debug",
		Telemetry:  "log",
	}, cfg)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `log_file = "/tmp/bslsp.log"`), false)
	require.NoError(t, err)
	assert.Equal(t, "brain-surgeon", cfg.Executable)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "log", cfg.Telemetry)
	assert.Equal(t, "/tmp/bslsp.log", cfg.LogFile)
}

func TestLoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(path, false)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr string
	}{
		{name: "bad toml", text: `executable = `, wantErr: "failed to parse TOML"},
		{name: "unknown key", text: `language = "brainfuck"`, wantErr: "unknown keys: language"},
		{name: "empty executable", text: `executable = ""`, wantErr: `invalid executable: failed "required"`},
		{name: "bad level", text: `log_level = "loud"`, wantErr: `invalid loglevel: failed "oneof"`},
		{name: "bad telemetry", text: `telemetry = "otlp"`, wantErr: `invalid telemetry: failed "oneof"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.text), false)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, Config{LogLevel: "warn"}.SlogLevel())
	assert.Equal(t, slog.LevelError, Config{LogLevel: "error"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, Config{LogLevel: "nonsense"}.SlogLevel())
}
