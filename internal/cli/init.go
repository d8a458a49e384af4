package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/swatch/internal/theme"
)

var initOverwrite bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Install the bundled themes and create the data directories",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initOverwrite, "force", false, "overwrite bundled themes that already exist")
}

func runInit(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return trackCLIError("init", err)
	}
	defer a.Close()

	if err := os.MkdirAll(a.cfg.Themes.CustomDir, 0755); err != nil {
		return trackCLIError("init", fmt.Errorf("create custom themes dir: %w", err))
	}
	written, err := theme.Seed(a.cfg.Themes.BundledDir, initOverwrite)
	if err != nil {
		return trackCLIError("init", err)
	}

	w := cmd.OutOrStdout()
	for _, name := range written {
		_, _ = fmt.Fprintf(w, "%s %s\n", okStyle.Render(markOK), name)
	}
	if len(written) == 0 {
		_, _ = fmt.Fprintln(w, "Bundled themes already installed.")
	}
	_, _ = fmt.Fprintf(w, "\nThemes:        %s\nCustom themes: %s\n", a.cfg.Themes.BundledDir, a.cfg.Themes.CustomDir)
	_, _ = fmt.Fprintln(w, "\nRun 'swatch detect' to see which applications still need a config snippet.")
	return nil
}
