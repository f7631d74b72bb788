package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables that override the config files.
const (
	EnvAPIURL   = "ECHOES_API_URL"
	EnvLogLevel = "ECHOES_LOG_LEVEL"
	EnvLogFile  = "ECHOES_LOG_FILE"
)

const (
	DefaultAPIURL            = "http://localhost:8080/api"
	DefaultTapBackThreshold  = 3 * time.Second
	DefaultMaxShuffleRerolls = 64
)

type Config struct {
	API     APIConfig     `koanf:"api"`
	Player  PlayerConfig  `koanf:"player"`
	Log     LogConfig     `koanf:"log"`
	Session SessionConfig `koanf:"session"`
	Icons   string        `koanf:"icons"` // "nerd", "unicode", or "none" (default)

	Notifications bool `koanf:"notifications"` // desktop notification on track change
}

// APIConfig holds the backend connection settings.
type APIConfig struct {
	URL            string `koanf:"url"`
	TimeoutSeconds int    `koanf:"timeout_seconds"` // default: 30
	MaxRetries     int    `koanf:"max_retries"`     // retries on 5xx and network errors (default: 3)
	RetryWaitMS    int    `koanf:"retry_wait_ms"`   // base backoff (default: 500)
}

// PlayerConfig holds playback engine settings.
type PlayerConfig struct {
	InitialVolume     *float64 `koanf:"initial_volume"`      // 0.0-1.0 (default: 1.0)
	TapBackSeconds    *float64 `koanf:"tap_back_seconds"`    // previous restarts the track past this (default: 3)
	MaxShuffleRerolls int      `koanf:"max_shuffle_rerolls"` // default: 64
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `koanf:"level"`       // debug, info, warn, error (default: info)
	File       string `koanf:"file"`        // empty means the XDG state dir
	MaxSizeMB  int    `koanf:"max_size_mb"` // default: 10
	MaxBackups int    `koanf:"max_backups"` // default: 3
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

// SessionConfig holds the session store location.
type SessionConfig struct {
	DBPath string `koanf:"db_path"` // empty means the XDG data dir
}

// Load reads .env, the user and local config files, then applies
// environment overrides.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given toml files in order (last wins), skipping missing
// ones, then applies environment overrides.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	applyEnv(cfg)

	cfg.API.URL = strings.TrimSuffix(cfg.API.URL, "/")
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}
	if cfg.Session.DBPath != "" {
		cfg.Session.DBPath = expandPath(cfg.Session.DBPath)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvAPIURL); ok && v != "" {
		cfg.API.URL = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v, ok := os.LookupEnv(EnvLogFile); ok && v != "" {
		cfg.Log.File = v
	}
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/echoes/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "echoes", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetAPIConfig returns the API configuration with defaults applied.
func (c *Config) GetAPIConfig() APIConfig {
	cfg := c.API
	if cfg.URL == "" {
		cfg.URL = DefaultAPIURL
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	} else if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryWaitMS <= 0 {
		cfg.RetryWaitMS = 500
	}
	return cfg
}

// Timeout returns the request timeout.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// RetryWait returns the base retry backoff.
func (a APIConfig) RetryWait() time.Duration {
	return time.Duration(a.RetryWaitMS) * time.Millisecond
}

// Volume returns the initial volume clamped to [0, 1], default 1.
func (c *Config) Volume() float64 {
	if c.Player.InitialVolume == nil {
		return 1
	}
	return min(max(*c.Player.InitialVolume, 0), 1)
}

// TapBackThreshold returns how far into a track Previous restarts it
// instead of moving back.
func (c *Config) TapBackThreshold() time.Duration {
	if c.Player.TapBackSeconds == nil || *c.Player.TapBackSeconds < 0 {
		return DefaultTapBackThreshold
	}
	return time.Duration(*c.Player.TapBackSeconds * float64(time.Second))
}

// MaxShuffleRerolls returns the shuffle reroll cap.
func (c *Config) MaxShuffleRerolls() int {
	if c.Player.MaxShuffleRerolls <= 0 {
		return DefaultMaxShuffleRerolls
	}
	return c.Player.MaxShuffleRerolls
}

// GetLogConfig returns the log configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log
	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		cfg.Level = "info"
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 3
	}
	return cfg
}
