package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/swatch/internal/adapter"
)

var adaptersCmd = &cobra.Command{
	Use:   "adapters",
	Short: "List supported applications and what swatch can do for each",
	Args:  cobra.NoArgs,
	RunE:  runAdapters,
}

func runAdapters(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return trackCLIError("adapters", err)
	}
	defer a.Close()

	renderAdapters(cmd.OutOrStdout(), a.registry)
	return nil
}

func renderAdapters(w io.Writer, reg *adapter.Registry) {
	_, _ = fmt.Fprintf(w, "%s\n", titleStyle.Render(fmt.Sprintf("ADAPTERS (%d)", reg.Len())))
	_, _ = fmt.Fprintln(w, rule)
	for _, cat := range adapter.AllCategories() {
		var inCat []*adapter.Adapter
		for _, a := range reg.All() {
			if a.Category == cat {
				inCat = append(inCat, a)
			}
		}
		if len(inCat) == 0 {
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\n", dimStyle.Render(strings.ToUpper(string(cat))))
		for _, a := range inCat {
			caps := make([]string, 0, 3)
			for _, c := range a.Capabilities() {
				caps = append(caps, string(c))
			}
			_, _ = fmt.Fprintf(w, "  %-12s %-20s %s\n", nameStyle.Render(a.Name), a.DisplayName, dimStyle.Render(strings.Join(caps, ", ")))
		}
	}
}
