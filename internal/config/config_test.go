package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "eventlined.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeTempConfig(t, `
[server]
host = "127.0.0.1"
port = 9000

[driver]
sub_window_minutes = 60
default_bodies = ["Sun", "Moon"]

[fetch]
base_url = "http://ephemeris.internal"
max_retries = 5
initial_backoff = "250ms"
max_backoff = "5s"
backoff_multiplier = 2.5

[logging]
level = "debug"
format = "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Len(t, cfg.Driver.DefaultBodies, 2)
	assert.Equal(t, 5, cfg.Fetch.MaxRetries)
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	path := writeTempConfig(t, `
[server]
host = "127.0.0.1"
port = 9000

[driver]
default_bodies = ["Sun"]

[fetch]
base_url = "http://ephemeris.internal"
initial_backoff = "1s"
max_backoff = "10s"
backoff_multiplier = 2.0

[logging]
level = "verbose"
format = "text"
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, validate.Struct(Default()))
}
