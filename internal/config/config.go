// Package config loads process settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every process setting.
type Config struct {
	Addr         string        `validate:"required,hostname_port"`
	Camera       int           `validate:"gte=0"`
	Mode         string        `validate:"required"`
	TickInterval time.Duration `validate:"gte=10ms,lte=5s"`
	LogLevel     string        `validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFile      string
	WebDir       string
	Tray         bool
	Enabled      bool
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:         ":8080",
		Camera:       0,
		Mode:         "squat",
		TickInterval: 66 * time.Millisecond,
		LogLevel:     "info",
		Tray:         true,
		Enabled:      true,
	}
}

var validate = validator.New()

// Load reads envFiles (missing files are skipped) and then the ASANA_*
// variables on top of the defaults. Already-set environment variables win
// over file values.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	c := Default()
	var err error

	c.Addr = str("ASANA_ADDR", c.Addr)
	c.Mode = str("ASANA_MODE", c.Mode)
	c.LogLevel = str("ASANA_LOG_LEVEL", c.LogLevel)
	c.LogFile = str("ASANA_LOG_FILE", c.LogFile)
	c.WebDir = str("ASANA_WEB_DIR", c.WebDir)

	if c.Camera, err = integer("ASANA_CAMERA", c.Camera); err != nil {
		return Config{}, err
	}
	if c.TickInterval, err = duration("ASANA_TICK_INTERVAL", c.TickInterval); err != nil {
		return Config{}, err
	}
	if c.Tray, err = boolean("ASANA_TRAY", c.Tray); err != nil {
		return Config{}, err
	}
	if c.Enabled, err = boolean("ASANA_ENABLED", c.Enabled); err != nil {
		return Config{}, err
	}

	if c.WebDir == "" {
		c.WebDir = FindWebDir()
	}

	if err := validate.Struct(c); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

func str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func integer(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func boolean(key string, def bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

// FindWebDir looks for the HUD assets in "web", "../web", "../../web" and
// ~/.asana/web. It returns "" when none exists.
func FindWebDir() string {
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(home, ".asana", "web")
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return ""
}
