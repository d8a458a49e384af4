package apps

import (
	"encoding/json"
	"fmt"

	"github.com/asteroid-belt/swatch/internal/adapter"
	"github.com/asteroid-belt/swatch/internal/models"
)

// --- Neovim ---

const neovimFileName = "swatch.lua"

type nvimHighlight struct {
	group string
	fg    string
	bg    string
}

// Neovim installs a colorscheme file under colors/ so `:colorscheme swatch`
// picks it up.
func Neovim(d Dirs) *adapter.Adapter {
	live := d.config("nvim", "colors", neovimFileName)
	a := &adapter.Adapter{
		Name:               "neovim",
		DisplayName:        "Neovim",
		Category:           adapter.CategoryEditor,
		InstallPaths:       []string{d.config("nvim")},
		InstallCommand:     "nvim",
		ConfigPaths:        []string{d.config("nvim", "init.lua"), d.config("nvim", "init.vim")},
		IntegrationSnippet: `vim.cmd.colorscheme("swatch")`,
		IntegrationMarker:  "swatch",
		Generate: func(c models.ThemeColors) (adapter.Artifact, error) {
			bg := "dark"
			if models.IsLightColor(c.Background) {
				bg = "light"
			}
			ls := []string{
				"-- " + header,
				`vim.cmd("highlight clear")`,
				fmt.Sprintf("vim.o.background = %q", bg),
				`vim.g.colors_name = "swatch"`,
			}
			normal, bright := c.ANSI(), c.BrightANSI()
			for i, col := range append(normal[:], bright[:]...) {
				ls = append(ls, fmt.Sprintf("vim.g.terminal_color_%d = %q", i, col))
			}
			ls = append(ls, "local hl = vim.api.nvim_set_hl")
			for _, h := range []nvimHighlight{
				{"Normal", c.Foreground, c.Background},
				{"CursorLine", "", c.LineHighlight()},
				{"ColorColumn", "", c.LineHighlight()},
				{"Visual", "", c.Selection},
				{"Cursor", c.Background, c.Cursor},
				{"LineNr", c.BrightBlack, ""},
				{"CursorLineNr", c.Accent, ""},
				{"WinSeparator", c.Border, ""},
				{"Comment", c.BrightBlack, ""},
				{"String", c.Green, ""},
				{"Function", c.Blue, ""},
				{"Keyword", c.Magenta, ""},
				{"Type", c.Yellow, ""},
				{"Constant", c.Cyan, ""},
				{"Error", c.Red, ""},
			} {
				ls = append(ls, h.lua())
			}
			return adapter.Artifact{FileName: neovimFileName, Content: lines(ls...)}, nil
		},
	}
	a.Notify = copyAndTouch(neovimFileName, live, nil)
	return a
}

func (h nvimHighlight) lua() string {
	attrs := ""
	if h.fg != "" {
		attrs += fmt.Sprintf(" fg = %q,", h.fg)
	}
	if h.bg != "" {
		attrs += fmt.Sprintf(" bg = %q,", h.bg)
	}
	return fmt.Sprintf("hl(0, %q, {%s })", h.group, attrs)
}

// --- VS Code ---

const (
	vscodeFileName = "vscode-settings.json"
	vscodeMarker   = `"swatch.managed"`
)

// VSCode only generates a settings fragment; VS Code owns settings.json and
// rewrites it, so the user merges the fragment in.
func VSCode(d Dirs) *adapter.Adapter {
	return &adapter.Adapter{
		Name:        "vscode",
		DisplayName: "Visual Studio Code",
		Category:    adapter.CategoryEditor,
		InstallPaths: []string{
			d.app("Visual Studio Code.app"),
			d.config("Code"),
		},
		InstallCommand: "code",
		ConfigPaths: []string{
			d.home("Library", "Application Support", "Code", "User", "settings.json"),
			d.config("Code", "User", "settings.json"),
		},
		IntegrationSnippet: `"swatch.managed": true, "workbench.colorCustomizations": { ... }`,
		IntegrationMarker:  vscodeMarker,
		Generate: func(c models.ThemeColors) (adapter.Artifact, error) {
			doc := map[string]any{
				"swatch.managed": true,
				"workbench.colorCustomizations": map[string]string{
					"editor.background":                   c.Background,
					"editor.foreground":                   c.Foreground,
					"editor.lineHighlightBackground":      c.LineHighlight(),
					"editor.selectionBackground":          c.Selection,
					"editorCursor.foreground":             c.Cursor,
					"focusBorder":                         c.Accent,
					"panel.border":                        c.Border,
					"sideBar.background":                  c.Background,
					"statusBar.background":                c.Background,
					"statusBar.foreground":                c.Foreground,
					"terminal.ansiBlack":                  c.Black,
					"terminal.ansiRed":                    c.Red,
					"terminal.ansiGreen":                  c.Green,
					"terminal.ansiYellow":                 c.Yellow,
					"terminal.ansiBlue":                   c.Blue,
					"terminal.ansiMagenta":                c.Magenta,
					"terminal.ansiCyan":                   c.Cyan,
					"terminal.ansiWhite":                  c.White,
					"terminal.ansiBrightBlack":            c.BrightBlack,
					"terminal.ansiBrightRed":              c.BrightRed,
					"terminal.ansiBrightGreen":            c.BrightGreen,
					"terminal.ansiBrightYellow":           c.BrightYellow,
					"terminal.ansiBrightBlue":             c.BrightBlue,
					"terminal.ansiBrightMagenta":          c.BrightMagenta,
					"terminal.ansiBrightCyan":             c.BrightCyan,
					"terminal.ansiBrightWhite":            c.BrightWhite,
					"activityBarBadge.background":         c.Accent,
					"editorIndentGuide.activeBackground1": c.Border,
				},
			}
			// encoding/json sorts map keys, so output is stable.
			body, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return adapter.Artifact{}, fmt.Errorf("encode vscode settings: %w", err)
			}
			return adapter.Artifact{FileName: vscodeFileName, Content: append(body, '\n')}, nil
		},
		DetectIntegration: func(configPath string) bool {
			return adapter.ContainsMarker(configPath, vscodeMarker) &&
				adapter.ContainsMarker(configPath, "workbench.colorCustomizations")
		},
	}
}
