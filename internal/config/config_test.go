package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"ASANA_ADDR", "ASANA_CAMERA", "ASANA_MODE", "ASANA_TICK_INTERVAL",
	"ASANA_LOG_LEVEL", "ASANA_LOG_FILE", "ASANA_WEB_DIR", "ASANA_TRAY", "ASANA_ENABLED",
}

// clearEnv blanks every key for the test; Load treats empty as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("ASANA_WEB_DIR", "/srv/hud")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, 0, c.Camera)
	assert.Equal(t, "squat", c.Mode)
	assert.Equal(t, 66*time.Millisecond, c.TickInterval)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "/srv/hud", c.WebDir)
	assert.True(t, c.Tray)
	assert.True(t, c.Enabled)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ASANA_ADDR", "127.0.0.1:9000")
	t.Setenv("ASANA_CAMERA", "2")
	t.Setenv("ASANA_MODE", "rps")
	t.Setenv("ASANA_TICK_INTERVAL", "100ms")
	t.Setenv("ASANA_LOG_LEVEL", "debug")
	t.Setenv("ASANA_TRAY", "false")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", c.Addr)
	assert.Equal(t, 2, c.Camera)
	assert.Equal(t, "rps", c.Mode)
	assert.Equal(t, 100*time.Millisecond, c.TickInterval)
	assert.Equal(t, "debug", c.LogLevel)
	assert.False(t, c.Tray)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ASANA_MODE=balance\nASANA_CAMERA=1\n"), 0o644))

	// godotenv does not override variables that are already set, even to "".
	require.NoError(t, os.Unsetenv("ASANA_MODE"))
	require.NoError(t, os.Unsetenv("ASANA_CAMERA"))
	t.Cleanup(func() {
		os.Unsetenv("ASANA_MODE")
		os.Unsetenv("ASANA_CAMERA")
	})

	c, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "balance", c.Mode)
	assert.Equal(t, 1, c.Camera)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"ASANA_CAMERA", "front"},
		{"ASANA_CAMERA", "-1"},
		{"ASANA_TICK_INTERVAL", "soon"},
		{"ASANA_TICK_INTERVAL", "1ms"},
		{"ASANA_LOG_LEVEL", "loud"},
		{"ASANA_ADDR", "nowhere"},
		{"ASANA_TRAY", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestFindWebDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "web"), 0o755))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	got := FindWebDir()
	want, err := filepath.EvalSymlinks(filepath.Join(dir, "web"))
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, want, gotResolved)
}
