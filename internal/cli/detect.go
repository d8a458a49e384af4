package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/asteroid-belt/swatch/internal/detect"
)

var (
	detectAll  bool
	detectCopy string
)

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Check which applications are installed and wired to swatch",
	Long: `Check which applications are installed and wired to swatch.

For each installed application whose config does not reference swatch
output yet, the snippet to add is printed. Use --copy to put one
adapter's snippet on the clipboard instead.`,
	Args: cobra.NoArgs,
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().BoolVarP(&detectAll, "all", "a", false, "include applications that are not installed")
	detectCmd.Flags().StringVar(&detectCopy, "copy", "", "copy this adapter's integration snippet to the clipboard")
}

func runDetect(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return trackCLIError("detect", err)
	}
	defer a.Close()

	results := detect.DetectAll(a.registry)
	if detectCopy != "" {
		if err := copySnippet(cmd.OutOrStdout(), results, detectCopy); err != nil {
			return trackCLIError("detect", err)
		}
		return nil
	}
	if !detectAll {
		results = detect.Installed(results)
	}
	renderDetect(cmd.OutOrStdout(), results)
	return nil
}

func renderDetect(w io.Writer, results []detect.DetectionResult) {
	if len(results) == 0 {
		_, _ = fmt.Fprintln(w, "No supported applications detected.")
		return
	}

	for _, r := range results {
		var status string
		switch {
		case !r.Installed:
			status = dimStyle.Render(markSkip + " not installed")
		case r.Integrated:
			status = okStyle.Render(markOK + " integrated")
		case !r.ConfigExists:
			status = warnStyle.Render("! no config file")
		default:
			status = warnStyle.Render("! not integrated")
		}
		_, _ = fmt.Fprintf(w, "%-12s %s\n", nameStyle.Render(r.Adapter.Name), status)
		if r.ConfigPath != "" {
			_, _ = fmt.Fprintf(w, "  %s\n", dimStyle.Render(r.ConfigPath))
		}
		if r.NeedsIntegration() {
			_, _ = fmt.Fprintf(w, "%s\n", snippetStyle.MarginLeft(2).Render(r.Snippet))
		}
	}
}

// snippetFor returns the integration snippet of the named adapter.
func snippetFor(results []detect.DetectionResult, name string) (string, error) {
	for _, r := range results {
		if !strings.EqualFold(r.Adapter.Name, name) {
			continue
		}
		if r.Snippet == "" {
			return "", fmt.Errorf("%s has no integration snippet", r.Adapter.Name)
		}
		return r.Snippet, nil
	}
	return "", fmt.Errorf("unknown adapter %q", name)
}

func copySnippet(w io.Writer, results []detect.DetectionResult, name string) error {
	snippet, err := snippetFor(results, name)
	if err != nil {
		return err
	}
	if err := copyToClipboard(snippet); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	_, _ = fmt.Fprintf(w, "%s Copied the %s snippet to the clipboard.\n", okStyle.Render(markOK), strings.ToLower(name))
	return nil
}
