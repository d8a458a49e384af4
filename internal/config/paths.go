package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Paths contains commonly used file paths.
type Paths struct {
	Database         string // SQLite state and history
	StateFile        string // JSON state (json backend)
	Config           string // Config file
	Staging          string // Generated artifacts, one dir per theme
	Current          string // Symlink to the active theme dir
	CurrentWallpaper string // Symlink to the active wallpaper
	Logs             string // Log directory
}

// GetPaths returns all commonly used paths based on config.
func GetPaths(cfg *Config) Paths {
	return Paths{
		Database:         filepath.Join(cfg.BaseDir, "swatch.db"),
		StateFile:        filepath.Join(cfg.BaseDir, "state.json"),
		Config:           filepath.Join(cfg.BaseDir, "config.yaml"),
		Staging:          filepath.Join(cfg.BaseDir, "staging"),
		Current:          filepath.Join(cfg.BaseDir, "current"),
		CurrentWallpaper: filepath.Join(cfg.BaseDir, "current-wallpaper"),
		Logs:             filepath.Join(cfg.BaseDir, "logs"),
	}
}

// LogFile returns the configured log file, defaulting into the log dir.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(GetPaths(c).Logs, "swatch.log")
}

// DefaultBaseDir returns the default data root ($XDG_DATA_HOME/swatch).
func DefaultBaseDir() string {
	return filepath.Join(xdg.DataHome, "swatch")
}

// DefaultConfigHome returns the root application configs live under.
// Terminal and editor configs sit in ~/.config on macOS too, so the
// platform-specific xdg.ConfigHome is not used here.
func DefaultConfigHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config"
	}
	return filepath.Join(home, ".config")
}
