package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/asteroid-belt/swatch/internal/engine"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the currently applied theme",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return trackCLIError("status", err)
	}
	defer a.Close()

	s, err := a.engine.Status()
	if err != nil {
		return trackCLIError("status", fmt.Errorf("read status: %w", err))
	}
	renderStatus(cmd.OutOrStdout(), s)
	return nil
}

func renderStatus(w io.Writer, s *engine.Status) {
	if s.Theme == "" {
		_, _ = fmt.Fprintln(w, "No theme applied yet.")
		_, _ = fmt.Fprintln(w, "\nUse 'swatch themes' to list themes and 'swatch apply <theme>' to apply one.")
		return
	}

	_, _ = fmt.Fprintf(w, "%s %s\n", titleStyle.Render("Theme:"), s.Theme)
	wallpaper := "unchanged by swatch"
	if s.Wallpaper != "" {
		wallpaper = filepath.Base(s.Wallpaper)
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", titleStyle.Render("Wallpaper:"), wallpaper)
	_, _ = fmt.Fprintf(w, "%s %s\n", titleStyle.Render("Switched:"), formatTimeSince(s.LastSwitched))

	if !s.Consistent {
		_, _ = fmt.Fprintf(w, "\n%s saved state disagrees with %s; showing the linked theme\n",
			warnStyle.Render("!"), s.LinkTarget)
	}
	if s.Dangling {
		_, _ = fmt.Fprintf(w, "\n%s %s no longer exists; re-apply the theme\n", warnStyle.Render("!"), s.LinkTarget)
	}
}

// formatTimeSince renders t relative to now, or "never" for the zero time.
func formatTimeSince(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}
