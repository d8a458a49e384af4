package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/swatch/internal/engine"
)

var (
	applyWallpaper   string
	applyNoWallpaper bool
	applyDisplay     int
	applyOnly        []string
	applyDryRun      bool
	applyStrict      bool
)

var applyCmd = &cobra.Command{
	Use:   "apply <theme>",
	Short: "Apply a theme to every supported application",
	Long: `Apply a theme to every supported application.

Each adapter generates its config into the staging area and pushes it
live. The wallpaper is set when one is selected, then the current theme
pointer is swapped. A failing adapter never stops the others.

Examples:
  swatch apply tokyo-night
  swatch apply tokyo-night --wallpaper 2 --display 1
  swatch apply gruvbox-light --only kitty,neovim
  swatch apply catppuccin-mocha --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVarP(&applyWallpaper, "wallpaper", "w", "", "wallpaper by 1-based index, file name, or absolute path")
	applyCmd.Flags().BoolVar(&applyNoWallpaper, "no-wallpaper", false, "leave the wallpaper unchanged")
	applyCmd.Flags().IntVar(&applyDisplay, "display", 0, "1-based display for the wallpaper (0 = all displays)")
	applyCmd.Flags().StringSliceVar(&applyOnly, "only", nil, "only run these adapters")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "generate configs into staging without applying anything")
	applyCmd.Flags().BoolVar(&applyStrict, "strict", false, "exit non-zero when any adapter or the wallpaper failed")
}

func runApply(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return trackCLIError("apply", err)
	}
	defer a.Close()

	res, err := a.engine.Apply(cmd.Context(), args[0], engine.ApplyOptions{
		Wallpaper:   applyWallpaper,
		NoWallpaper: applyNoWallpaper,
		Display:     applyDisplay,
		Adapters:    applyOnly,
		DryRun:      applyDryRun,
	})

	var resolution *engine.ResolutionError
	if res != nil && !errors.As(err, &resolution) {
		renderApply(cmd.OutOrStdout(), res)
	}
	if err != nil {
		return trackCLIError("apply", err)
	}
	if applyStrict && !res.DryRun && !res.Clean() {
		return trackCLIError("apply", fmt.Errorf("%d adapter(s) failed", len(res.Failures)))
	}
	return nil
}

func renderApply(w io.Writer, res *engine.ApplyResult) {
	switch {
	case res.DryRun:
		_, _ = fmt.Fprintf(w, "%s %s\n", titleStyle.Render("Dry run:"), res.CurrentTheme)
		_, _ = fmt.Fprintf(w, "%s\n", dimStyle.Render("staged in "+res.StagingDir))
	case res.Committed:
		line := fmt.Sprintf("Applied %s", res.CurrentTheme)
		if res.PreviousTheme != "" && res.PreviousTheme != res.CurrentTheme {
			line += dimStyle.Render(fmt.Sprintf(" (was %s)", res.PreviousTheme))
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", titleStyle.Render(line), dimStyle.Render(res.Duration.Round(time.Millisecond).String()))
	default:
		_, _ = fmt.Fprintf(w, "%s %s\n", errStyle.Render("Not applied:"), res.CurrentTheme)
	}
	_, _ = fmt.Fprintln(w, rule)

	for _, name := range adapterNames(res) {
		_, _ = fmt.Fprintf(w, "  %s\n", adapterLine(res, name))
	}

	switch res.Wallpaper.Status {
	case engine.WallpaperApplied:
		_, _ = fmt.Fprintf(w, "\n  %s wallpaper %s\n", okStyle.Render(markOK), filepath.Base(res.Wallpaper.Path))
	case engine.WallpaperFailed:
		_, _ = fmt.Fprintf(w, "\n  %s wallpaper: %v\n", errStyle.Render(markFail), res.Wallpaper.Err)
	}
}

// adapterNames merges every list in the result into one sorted, unique set.
func adapterNames(res *engine.ApplyResult) []string {
	seen := map[string]bool{}
	var names []string
	add := func(ns ...string) {
		for _, n := range ns {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	add(res.Generated...)
	add(res.Unchanged...)
	add(res.Notified...)
	add(res.Skipped...)
	for _, f := range res.Failures {
		add(f.Adapter)
	}
	sort.Strings(names)
	return names
}

func adapterLine(res *engine.ApplyResult, name string) string {
	if f := res.FailureFor(name); f != nil {
		return fmt.Sprintf("%s %s %s", errStyle.Render(markFail), nameStyle.Render(name), dimStyle.Render(string(f.Stage)+": "+f.Err.Error()))
	}
	if slices.Contains(res.Skipped, name) {
		return fmt.Sprintf("%s %s %s", warnStyle.Render(markSkip), name, dimStyle.Render("skipped"))
	}
	var notes []string
	if slices.Contains(res.Unchanged, name) {
		notes = append(notes, "unchanged")
	}
	switch {
	case slices.Contains(res.Notified, name):
		notes = append(notes, "live")
	case res.DryRun:
		notes = append(notes, "staged")
	default:
		notes = append(notes, "generated only")
	}
	return fmt.Sprintf("%s %s %s", okStyle.Render(markOK), nameStyle.Render(name), dimStyle.Render(strings.Join(notes, ", ")))
}
