// Package config handles application configuration management.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	KeyHome              = "home"
	KeyBundledThemesDir  = "themes.bundled_dir"
	KeyCustomThemesDir   = "themes.custom_dir"
	KeyWorkers           = "workers"
	KeyStateBackend      = "state.backend"
	KeyWallpaperBinary   = "wallpaper.binary"
	KeyWallpaperResource = "wallpaper.resources_dir"
	KeyWallpaperAuto     = "wallpaper.auto"
	KeyLogLevel          = "log.level"
	KeyLogFile           = "log.file"
)

const envPrefix = "SWATCH"

// State backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	// Data root for all swatch state (~/.local/share/swatch)
	BaseDir string

	// Root that application config paths are resolved against (~/.config)
	ConfigHome string

	Themes    ThemesConfig
	Wallpaper WallpaperConfig
	Log       LogConfig

	// Parallel adapter tasks during an apply
	Workers int

	// Where ApplicationState is persisted: "json" or "sqlite"
	StateBackend string
}

// ThemesConfig holds theme source directories.
type ThemesConfig struct {
	BundledDir string
	CustomDir  string
}

// WallpaperConfig holds wallpaper applier settings.
type WallpaperConfig struct {
	// Explicit desktoppr path, tried first
	Binary string
	// Directory holding bin/desktoppr when shipped alongside swatch
	ResourcesDir string
	// Apply the theme's first wallpaper when none is requested
	Auto bool
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
	// Log file path; empty disables file logging
	File string
}

type loadSettings struct {
	configFile string
}

// Option configures Load. Useful for tests to override paths.
type Option func(*loadSettings)

// WithConfigFile reads settings from path instead of <data>/config.yaml.
func WithConfigFile(path string) Option {
	return func(s *loadSettings) {
		s.configFile = path
	}
}

// Load reads configuration using the precedence:
// defaults < config file < environment variables.
func Load(opts ...Option) (*Config, error) {
	settings := loadSettings{}
	for _, opt := range opts {
		opt(&settings)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	configFile := settings.configFile
	if configFile == "" {
		configFile = filepath.Join(v.GetString(KeyHome), "config.yaml")
	}
	if err := mergeConfigFile(v, configFile); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure directories exist
	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", KeyWorkers, c.Workers)
	}
	switch c.StateBackend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", KeyStateBackend, BackendJSON, BackendSQLite, c.StateBackend)
	}
	return nil
}

func fromViper(v *viper.Viper) *Config {
	base := v.GetString(KeyHome)
	cfg := &Config{
		BaseDir:    base,
		ConfigHome: DefaultConfigHome(),
		Themes: ThemesConfig{
			BundledDir: v.GetString(KeyBundledThemesDir),
			CustomDir:  v.GetString(KeyCustomThemesDir),
		},
		Wallpaper: WallpaperConfig{
			Binary:       v.GetString(KeyWallpaperBinary),
			ResourcesDir: v.GetString(KeyWallpaperResource),
			Auto:         v.GetBool(KeyWallpaperAuto),
		},
		Log: LogConfig{
			Level: strings.ToLower(v.GetString(KeyLogLevel)),
			File:  v.GetString(KeyLogFile),
		},
		Workers:      v.GetInt(KeyWorkers),
		StateBackend: strings.ToLower(v.GetString(KeyStateBackend)),
	}
	// Theme dirs follow a relocated home unless set explicitly.
	if cfg.Themes.BundledDir == "" {
		cfg.Themes.BundledDir = filepath.Join(base, "themes")
	}
	if cfg.Themes.CustomDir == "" {
		cfg.Themes.CustomDir = filepath.Join(base, "custom-themes")
	}
	return cfg
}

func mergeConfigFile(v *viper.Viper, path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// ensureDirectories creates required directories if they don't exist.
func ensureDirectories(cfg *Config) error {
	paths := GetPaths(cfg)
	dirs := []string{
		cfg.BaseDir,
		paths.Staging,
		paths.Logs,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
