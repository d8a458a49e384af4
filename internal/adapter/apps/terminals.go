package apps

import (
	"context"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/asteroid-belt/swatch/internal/adapter"
	"github.com/asteroid-belt/swatch/internal/models"
)

// --- Alacritty ---

type alacrittyFile struct {
	Colors alacrittyColors `toml:"colors"`
}

type alacrittyColors struct {
	Primary   alacrittyPrimary   `toml:"primary"`
	Cursor    alacrittyCursor    `toml:"cursor"`
	Selection alacrittySelection `toml:"selection"`
	Normal    alacrittyANSI      `toml:"normal"`
	Bright    alacrittyANSI      `toml:"bright"`
}

type alacrittyPrimary struct {
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
}

type alacrittyCursor struct {
	Text   string `toml:"text"`
	Cursor string `toml:"cursor"`
}

type alacrittySelection struct {
	Text       string `toml:"text"`
	Background string `toml:"background"`
}

type alacrittyANSI struct {
	Black   string `toml:"black"`
	Red     string `toml:"red"`
	Green   string `toml:"green"`
	Yellow  string `toml:"yellow"`
	Blue    string `toml:"blue"`
	Magenta string `toml:"magenta"`
	Cyan    string `toml:"cyan"`
	White   string `toml:"white"`
}

func newAlacrittyANSI(c [8]string) alacrittyANSI {
	return alacrittyANSI{c[0], c[1], c[2], c[3], c[4], c[5], c[6], c[7]}
}

const alacrittyFileName = "alacritty.toml"

// Alacritty writes a TOML color table that the user's config imports.
func Alacritty(d Dirs) *adapter.Adapter {
	live := d.config("alacritty", "swatch-theme.toml")
	a := &adapter.Adapter{
		Name:         "alacritty",
		DisplayName:  "Alacritty",
		Category:     adapter.CategoryTerminal,
		InstallPaths: []string{d.app("Alacritty.app"), d.config("alacritty")},
		ConfigPaths: []string{
			d.config("alacritty", "alacritty.toml"),
			d.home(".alacritty.toml"),
		},
		InstallCommand:     "alacritty",
		IntegrationSnippet: "[general]\nimport = [\"" + live + "\"]",
		IntegrationMarker:  "swatch-theme.toml",
		Generate: func(c models.ThemeColors) (adapter.Artifact, error) {
			body, err := toml.Marshal(alacrittyFile{Colors: alacrittyColors{
				Primary:   alacrittyPrimary{Background: c.Background, Foreground: c.Foreground},
				Cursor:    alacrittyCursor{Text: c.Background, Cursor: c.Cursor},
				Selection: alacrittySelection{Text: c.Foreground, Background: c.Selection},
				Normal:    newAlacrittyANSI(c.ANSI()),
				Bright:    newAlacrittyANSI(c.BrightANSI()),
			}})
			if err != nil {
				return adapter.Artifact{}, fmt.Errorf("encode alacritty colors: %w", err)
			}
			return adapter.Artifact{
				FileName: alacrittyFileName,
				Content:  append([]byte("# "+header+"\n\n"), body...),
			}, nil
		},
	}
	a.Notify = copyAndTouch(alacrittyFileName, live, a.ConfigPath)
	return a
}

// --- Kitty ---

const kittyFileName = "kitty.conf"

// Kitty writes an include file and asks running instances to re-read config.
func Kitty(d Dirs) *adapter.Adapter {
	live := d.config("kitty", "swatch-theme.conf")
	return &adapter.Adapter{
		Name:               "kitty",
		DisplayName:        "Kitty",
		Category:           adapter.CategoryTerminal,
		InstallPaths:       []string{d.app("kitty.app"), d.config("kitty")},
		InstallCommand:     "kitty",
		ConfigPaths:        []string{d.config("kitty", "kitty.conf")},
		IntegrationSnippet: "include swatch-theme.conf",
		IntegrationMarker:  "swatch-theme.conf",
		Generate: func(c models.ThemeColors) (adapter.Artifact, error) {
			ls := []string{
				"# " + header,
				"foreground " + c.Foreground,
				"background " + c.Background,
				"cursor " + c.Cursor,
				"cursor_text_color " + c.Background,
				"selection_foreground " + c.Foreground,
				"selection_background " + c.Selection,
				"url_color " + c.Accent,
				"active_border_color " + c.Accent,
				"inactive_border_color " + c.Border,
				"active_tab_background " + c.Accent,
				"active_tab_foreground " + c.Background,
				"inactive_tab_background " + c.Background,
				"inactive_tab_foreground " + c.Foreground,
			}
			for i, col := range c.ANSI() {
				ls = append(ls, fmt.Sprintf("color%d %s", i, col))
			}
			for i, col := range c.BrightANSI() {
				ls = append(ls, fmt.Sprintf("color%d %s", i+8, col))
			}
			return adapter.Artifact{FileName: kittyFileName, Content: lines(ls...)}, nil
		},
		Notify: func(ctx context.Context, req adapter.NotifyRequest) error {
			if err := adapter.CopyArtifact(req, kittyFileName, live); err != nil {
				return err
			}
			return signalProcess(ctx, req, "USR1", "kitty")
		},
	}
}

// --- Ghostty ---

const ghosttyFileName = "ghostty"

// Ghostty installs a named theme file; the user's config selects it.
func Ghostty(d Dirs) *adapter.Adapter {
	live := d.config("ghostty", "themes", "swatch")
	a := &adapter.Adapter{
		Name:        "ghostty",
		DisplayName: "Ghostty",
		Category:    adapter.CategoryTerminal,
		InstallPaths: []string{
			d.app("Ghostty.app"),
			d.config("ghostty"),
		},
		InstallCommand: "ghostty",
		ConfigPaths: []string{
			d.config("ghostty", "config"),
			d.home("Library", "Application Support", "com.mitchellh.ghostty", "config"),
		},
		IntegrationSnippet: "theme = swatch",
		IntegrationMarker:  "theme = swatch",
		Generate: func(c models.ThemeColors) (adapter.Artifact, error) {
			ls := []string{
				"# " + header,
				"background = " + c.Background,
				"foreground = " + c.Foreground,
				"cursor-color = " + c.Cursor,
				"selection-background = " + c.Selection,
				"selection-foreground = " + c.Foreground,
			}
			for i, col := range c.ANSI() {
				ls = append(ls, fmt.Sprintf("palette = %d=%s", i, col))
			}
			for i, col := range c.BrightANSI() {
				ls = append(ls, fmt.Sprintf("palette = %d=%s", i+8, col))
			}
			return adapter.Artifact{FileName: ghosttyFileName, Content: lines(ls...)}, nil
		},
	}
	a.Notify = copyAndTouch(ghosttyFileName, live, a.ConfigPath)
	return a
}

// --- WezTerm ---

const weztermFileName = "swatch_colors.lua"

// WezTerm writes a Lua table the user's config loads with dofile.
func WezTerm(d Dirs) *adapter.Adapter {
	live := d.config("wezterm", weztermFileName)
	a := &adapter.Adapter{
		Name:           "wezterm",
		DisplayName:    "WezTerm",
		Category:       adapter.CategoryTerminal,
		InstallPaths:   []string{d.app("WezTerm.app"), d.config("wezterm")},
		InstallCommand: "wezterm",
		ConfigPaths: []string{
			d.config("wezterm", "wezterm.lua"),
			d.home(".wezterm.lua"),
		},
		IntegrationSnippet: `config.colors = dofile(wezterm.config_dir .. "/swatch_colors.lua")`,
		IntegrationMarker:  "swatch_colors",
		Generate: func(c models.ThemeColors) (adapter.Artifact, error) {
			ls := []string{
				"-- " + header,
				"return {",
				fmt.Sprintf("  foreground = %q,", c.Foreground),
				fmt.Sprintf("  background = %q,", c.Background),
				fmt.Sprintf("  cursor_bg = %q,", c.Cursor),
				fmt.Sprintf("  cursor_fg = %q,", c.Background),
				fmt.Sprintf("  cursor_border = %q,", c.Cursor),
				fmt.Sprintf("  selection_fg = %q,", c.Foreground),
				fmt.Sprintf("  selection_bg = %q,", c.Selection),
				fmt.Sprintf("  split = %q,", c.Border),
				"  ansi = { " + luaList(c.ANSI()) + " },",
				"  brights = { " + luaList(c.BrightANSI()) + " },",
				"}",
			}
			return adapter.Artifact{FileName: weztermFileName, Content: lines(ls...)}, nil
		},
	}
	a.Notify = copyAndTouch(weztermFileName, live, a.ConfigPath)
	return a
}

func luaList(cols [8]string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return strings.Join(quoted, ", ")
}
