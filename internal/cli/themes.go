package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/swatch/internal/models"
)

var themesCmd = &cobra.Command{
	Use:     "themes",
	Aliases: []string{"list"},
	Short:   "List bundled and custom themes",
	Long: `List bundled and custom themes.

A custom theme with the same name as a bundled theme is hidden; bundled
themes always win.`,
	Args: cobra.NoArgs,
	RunE: runThemes,
}

func runThemes(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return trackCLIError("themes", err)
	}
	defer a.Close()

	themes, errs := a.themes.List()
	for _, e := range errs {
		a.logger.Warn("skipping theme", "err", e)
	}

	current := ""
	if s, err := a.engine.Status(); err == nil {
		current = s.Theme
	}
	renderThemes(cmd.OutOrStdout(), themes, current)
	return nil
}

func renderThemes(w io.Writer, themes []*models.Theme, current string) {
	if len(themes) == 0 {
		_, _ = fmt.Fprintln(w, "No themes found.")
		_, _ = fmt.Fprintln(w, "\nUse 'swatch init' to install the bundled themes.")
		return
	}

	_, _ = fmt.Fprintf(w, "%s\n", titleStyle.Render(fmt.Sprintf("THEMES (%d)", len(themes))))
	_, _ = fmt.Fprintln(w, rule)
	for _, t := range themes {
		marker := " "
		if t.Matches(current) {
			marker = okStyle.Render("*")
		}
		source := "bundled"
		if t.IsCustom {
			source = "custom"
		}
		palette := ""
		for _, hex := range []string{t.Colors.Background, t.Colors.Foreground, t.Colors.Accent, t.Colors.Red, t.Colors.Green, t.Colors.Blue} {
			palette += swatchBlock(hex)
		}
		_, _ = fmt.Fprintf(w, "%s %-22s %s %s\n", marker, t.Name, palette,
			dimStyle.Render(fmt.Sprintf("%s, %s, %d wallpaper(s)", t.Appearance(), source, len(t.Wallpapers))))
	}
}
