package apps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/asteroid-belt/swatch/internal/adapter"
	"github.com/asteroid-belt/swatch/internal/models"
)

// --- btop ---

const btopFileName = "swatch.theme"

// Btop installs a theme file; btop re-reads its config on SIGUSR2.
func Btop(d Dirs) *adapter.Adapter {
	live := d.config("btop", "themes", btopFileName)
	return &adapter.Adapter{
		Name:               "btop",
		DisplayName:        "btop",
		Category:           adapter.CategorySystem,
		InstallPaths:       []string{d.config("btop")},
		InstallCommand:     "btop",
		ConfigPaths:        []string{d.config("btop", "btop.conf")},
		IntegrationSnippet: `color_theme = "swatch"`,
		IntegrationMarker:  `"swatch"`,
		Generate: func(c models.ThemeColors) (adapter.Artifact, error) {
			kv := [][2]string{
				{"main_bg", c.Background},
				{"main_fg", c.Foreground},
				{"title", c.Foreground},
				{"hi_fg", c.Accent},
				{"selected_bg", c.Selection},
				{"selected_fg", c.Foreground},
				{"inactive_fg", c.BrightBlack},
				{"proc_misc", c.Cyan},
				{"cpu_box", c.Border},
				{"mem_box", c.Border},
				{"net_box", c.Border},
				{"proc_box", c.Border},
				{"div_line", c.Border},
				{"temp_start", c.Green},
				{"temp_mid", c.Yellow},
				{"temp_end", c.Red},
				{"cpu_start", c.Green},
				{"cpu_mid", c.Yellow},
				{"cpu_end", c.Red},
			}
			ls := []string{"# " + header}
			for _, e := range kv {
				ls = append(ls, fmt.Sprintf("theme[%s]=%q", e[0], e[1]))
			}
			return adapter.Artifact{FileName: btopFileName, Content: lines(ls...)}, nil
		},
		Notify: func(ctx context.Context, req adapter.NotifyRequest) error {
			if err := adapter.CopyArtifact(req, btopFileName, live); err != nil {
				return err
			}
			return signalProcess(ctx, req, "USR2", "btop")
		},
	}
}

// --- SketchyBar ---

const sketchybarFileName = "swatch-colors.sh"

// SketchyBar exports bar colors as shell variables and reloads the bar.
func SketchyBar(d Dirs) *adapter.Adapter {
	live := d.config("sketchybar", sketchybarFileName)
	return &adapter.Adapter{
		Name:               "sketchybar",
		DisplayName:        "SketchyBar",
		Category:           adapter.CategorySystem,
		InstallPaths:       []string{d.config("sketchybar"), "/opt/homebrew/bin/sketchybar"},
		InstallCommand:     "sketchybar",
		ConfigPaths:        []string{d.config("sketchybar", "sketchybarrc")},
		IntegrationSnippet: `source "$CONFIG_DIR/swatch-colors.sh"`,
		IntegrationMarker:  sketchybarFileName,
		Generate: func(c models.ThemeColors) (adapter.Artifact, error) {
			kv := [][2]string{
				{"BAR_COLOR", c.Background},
				{"BAR_BORDER_COLOR", c.Border},
				{"ITEM_BG_COLOR", c.Selection},
				{"ICON_COLOR", c.Foreground},
				{"LABEL_COLOR", c.Foreground},
				{"ACCENT_COLOR", c.Accent},
				{"POPUP_BG_COLOR", c.Background},
				{"POPUP_BORDER_COLOR", c.Accent},
				{"RED", c.Red},
				{"GREEN", c.Green},
				{"YELLOW", c.Yellow},
				{"BLUE", c.Blue},
				{"MAGENTA", c.Magenta},
				{"CYAN", c.Cyan},
			}
			ls := []string{"#!/bin/sh", "# " + header}
			for _, e := range kv {
				ls = append(ls, fmt.Sprintf("export %s=%s", e[0], argb(e[1])))
			}
			return adapter.Artifact{FileName: sketchybarFileName, Content: lines(ls...)}, nil
		},
		Notify: func(ctx context.Context, req adapter.NotifyRequest) error {
			if err := adapter.CopyArtifact(req, sketchybarFileName, live); err != nil {
				return err
			}
			if req.Runner == nil {
				return nil
			}
			if _, err := req.Runner.Run(ctx, "sketchybar", "--reload"); err != nil {
				return fmt.Errorf("reload sketchybar: %w", err)
			}
			return nil
		},
	}
}

// --- JankyBorders ---

const bordersFileName = "bordersrc"

// Borders writes a bordersrc and pushes the new colors to a running
// borders instance, which accepts option updates as arguments.
func Borders(d Dirs) *adapter.Adapter {
	live := d.config("borders", bordersFileName)
	return &adapter.Adapter{
		Name:               "borders",
		DisplayName:        "JankyBorders",
		Category:           adapter.CategoryTiling,
		InstallPaths:       []string{d.config("borders"), "/opt/homebrew/bin/borders"},
		InstallCommand:     "borders",
		ConfigPaths:        []string{live},
		IntegrationSnippet: "managed: swatch writes " + live + " directly",
		Generate: func(c models.ThemeColors) (adapter.Artifact, error) {
			ls := []string{
				"#!/bin/bash",
				"# " + header,
				"options=(",
				"\tstyle=round",
				"\twidth=6.0",
				"\thidpi=off",
				"\tactive_color=" + argb(c.Accent),
				"\tinactive_color=" + argb(c.Border),
				")",
				`borders "${options[@]}"`,
			}
			return adapter.Artifact{FileName: bordersFileName, Content: lines(ls...)}, nil
		},
		Notify: func(ctx context.Context, req adapter.NotifyRequest) error {
			if err := adapter.CopyArtifact(req, bordersFileName, live); err != nil {
				return err
			}
			if err := os.Chmod(live, 0755); err != nil {
				return fmt.Errorf("make bordersrc executable: %w", err)
			}
			if req.Runner == nil {
				return nil
			}
			if _, err := req.Runner.Run(ctx, "pgrep", "-x", "borders"); err != nil {
				req.Log("borders is not running, new colors apply on next start")
				return nil
			}
			opts, err := bordersOptions(filepath.Join(req.ThemeDir, bordersFileName))
			if err != nil {
				return err
			}
			if _, err := req.Runner.Run(ctx, "borders", opts...); err != nil {
				return fmt.Errorf("update borders: %w", err)
			}
			return nil
		},
	}
}

// bordersOptions extracts the key=value lines of the options=( ... ) array.
func bordersOptions(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bordersrc: %w", err)
	}
	var opts []string
	in := false
	for _, l := range strings.Split(string(data), "\n") {
		l = strings.TrimSpace(l)
		switch {
		case l == "options=(":
			in = true
		case l == ")":
			in = false
		case in && strings.Contains(l, "="):
			opts = append(opts, l)
		}
	}
	return opts, nil
}
