package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the console settings after defaults and overrides.
type Config struct {
	// APIBase is the admin API root. Empty means the in-process mock.
	APIBase    string
	Storage    string
	StateDir   string
	LogFile    string
	MockDelay  time.Duration
	MockRoutes string
	Autosave   time.Duration
	Theme      string
}

const (
	defaultConfigPath  = "~/.config/storeadmin/config.toml"
	defaultStateDir    = "~/.local/share/storeadmin"
	defaultStorage     = "file"
	defaultMockRoutes  = "full"
	defaultTheme       = "light"
	defaultMockDelayMS = 1000
	defaultAutosaveSec = 5
	activityLogName    = "activity.log"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// raw mirrors the TOML file. Every field can be overridden from the
// environment; unset variables leave the file value alone.
type raw struct {
	APIBase     string `toml:"api_base" env:"STOREADMIN_API_BASE"`
	Storage     string `toml:"storage" env:"STOREADMIN_STORAGE"`
	StateDir    string `toml:"state_dir" env:"STOREADMIN_STATE_DIR"`
	LogFile     string `toml:"log_file" env:"STOREADMIN_LOG_FILE"`
	MockDelayMS *int   `toml:"mock_delay_ms" env:"STOREADMIN_MOCK_DELAY_MS"`
	MockRoutes  string `toml:"mock_routes" env:"STOREADMIN_MOCK_ROUTES"`
	AutosaveSec *int   `toml:"autosave_seconds" env:"STOREADMIN_AUTOSAVE_SECONDS"`
	Theme       string `toml:"theme" env:"STOREADMIN_THEME"`
}

// Load reads the config file at path, applies STOREADMIN_* environment
// overrides and fills defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var r raw
	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer func() { _ = file.Close() }()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &r); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	if err := env.Parse(&r); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return r.resolve()
}

func (r raw) resolve() (Config, error) {
	cfg := Config{
		APIBase:    strings.TrimSpace(r.APIBase),
		Storage:    orDefault(strings.ToLower(r.Storage), defaultStorage),
		StateDir:   mustExpand(orDefault(r.StateDir, defaultStateDir)),
		MockRoutes: orDefault(strings.ToLower(r.MockRoutes), defaultMockRoutes),
		Theme:      orDefault(strings.ToLower(r.Theme), defaultTheme),
		MockDelay:  defaultMockDelayMS * time.Millisecond,
		Autosave:   defaultAutosaveSec * time.Second,
	}

	cfg.LogFile = strings.TrimSpace(r.LogFile)
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.StateDir, activityLogName)
	} else {
		cfg.LogFile = mustExpand(cfg.LogFile)
	}

	if r.MockDelayMS != nil {
		if *r.MockDelayMS < 0 {
			return Config{}, fmt.Errorf("mock_delay_ms must not be negative, got %d", *r.MockDelayMS)
		}
		cfg.MockDelay = time.Duration(*r.MockDelayMS) * time.Millisecond
	}
	if r.AutosaveSec != nil {
		if *r.AutosaveSec < 0 {
			return Config{}, fmt.Errorf("autosave_seconds must not be negative, got %d", *r.AutosaveSec)
		}
		cfg.Autosave = time.Duration(*r.AutosaveSec) * time.Second
	}
	return cfg, nil
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
