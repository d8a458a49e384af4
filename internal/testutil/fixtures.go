// Package testutil provides theme fixtures shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/asteroid-belt/swatch/internal/models"
)

// TokyoNightColors returns a complete, valid palette.
func TokyoNightColors() models.ThemeColors {
	return models.ThemeColors{
		Background: "#1a1b26", Foreground: "#c0caf5", Cursor: "#c0caf5",
		Selection: "#283457", Accent: "#7aa2f7", Border: "#565f89",
		Black: "#15161e", Red: "#f7768e", Green: "#9ece6a", Yellow: "#e0af68",
		Blue: "#7aa2f7", Magenta: "#bb9af7", Cyan: "#7dcfff", White: "#a9b1d6",
		BrightBlack: "#414868", BrightRed: "#f7768e", BrightGreen: "#9ece6a", BrightYellow: "#e0af68",
		BrightBlue: "#7aa2f7", BrightMagenta: "#bb9af7", BrightCyan: "#7dcfff", BrightWhite: "#c0caf5",
	}
}

// GruvboxLightColors returns a second valid palette, light-classified.
func GruvboxLightColors() models.ThemeColors {
	return models.ThemeColors{
		Background: "#fbf1c7", Foreground: "#3c3836", Cursor: "#3c3836",
		Selection: "#ebdbb2", Accent: "#076678", Border: "#bdae93",
		Black: "#fbf1c7", Red: "#cc241d", Green: "#98971a", Yellow: "#d79921",
		Blue: "#458588", Magenta: "#b16286", Cyan: "#689d6a", White: "#7c6f64",
		BrightBlack: "#928374", BrightRed: "#9d0006", BrightGreen: "#79740e", BrightYellow: "#b57614",
		BrightBlue: "#076678", BrightMagenta: "#8f3f71", BrightCyan: "#427b58", BrightWhite: "#3c3836",
	}
}

// ThemeSpec describes a fixture theme directory.
type ThemeSpec struct {
	Name        string
	DisplayName string
	Appearance  string
	Colors      models.ThemeColors
	Wallpapers  []string // file names created under wallpapers/
}

type descriptor struct {
	DisplayName string             `yaml:"display_name,omitempty"`
	Appearance  string             `yaml:"appearance,omitempty"`
	Colors      models.ThemeColors `yaml:"colors"`
}

// WriteTheme creates <root>/<spec.Name>/theme.yaml plus any wallpapers and
// returns the theme directory.
func WriteTheme(t *testing.T, root string, spec ThemeSpec) string {
	t.Helper()
	dir := filepath.Join(root, spec.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("create theme dir: %v", err)
	}
	data, err := yaml.Marshal(descriptor{
		DisplayName: spec.DisplayName,
		Appearance:  spec.Appearance,
		Colors:      spec.Colors,
	})
	if err != nil {
		t.Fatalf("marshal theme: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "theme.yaml"), data, 0644); err != nil {
		t.Fatalf("write theme: %v", err)
	}
	if len(spec.Wallpapers) > 0 {
		wp := filepath.Join(dir, "wallpapers")
		if err := os.MkdirAll(wp, 0755); err != nil {
			t.Fatalf("create wallpapers dir: %v", err)
		}
		for _, name := range spec.Wallpapers {
			if err := os.WriteFile(filepath.Join(wp, name), []byte("img"), 0644); err != nil {
				t.Fatalf("write wallpaper: %v", err)
			}
		}
	}
	return dir
}
