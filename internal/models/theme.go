package models

import (
	"path/filepath"
	"strings"
)

// WallpaperExtensions lists the image extensions recognized in a theme's
// wallpapers directory.
var WallpaperExtensions = []string{".png", ".jpg", ".jpeg", ".heic", ".webp"}

// Theme is a named palette plus optional wallpaper selection.
// Themes are read-only once loaded.
type Theme struct {
	Name        string
	DisplayName string
	Author      string
	Description string
	IsCustom    bool
	IsLight     bool
	Colors      ThemeColors

	// Wallpapers are absolute image paths in display order.
	Wallpapers []string

	// Dir is the resolved theme directory.
	Dir string
}

// Matches reports whether name refers to this theme (case-insensitive).
func (t *Theme) Matches(name string) bool {
	return strings.EqualFold(t.Name, strings.TrimSpace(name))
}

// HasWallpapers reports whether the theme ships any wallpapers.
func (t *Theme) HasWallpapers() bool {
	return len(t.Wallpapers) > 0
}

// Appearance returns "light" or "dark".
func (t *Theme) Appearance() string {
	if t.IsLight {
		return "light"
	}
	return "dark"
}

// IsWallpaperFile reports whether path has a recognized image extension.
func IsWallpaperFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range WallpaperExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
