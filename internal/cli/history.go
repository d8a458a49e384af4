package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/swatch/internal/models"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent theme switches",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of entries to show (0 = all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return trackCLIError("history", err)
	}
	defer a.Close()

	records, err := a.db.ListApplyRecords(historyLimit)
	if err != nil {
		return trackCLIError("history", err)
	}
	renderHistory(cmd.OutOrStdout(), records)
	return nil
}

func renderHistory(w io.Writer, records []models.ApplyRecord) {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(w, "No themes applied yet.")
		return
	}

	for _, r := range records {
		mark := okStyle.Render(markOK)
		detail := fmt.Sprintf("%d live", r.Notified)
		if r.Failed > 0 {
			mark = warnStyle.Render("!")
			detail += fmt.Sprintf(", %d failed (%s)", r.Failed, r.FailedNames)
		}
		from := ""
		if r.PreviousTheme != "" {
			from = " from " + r.PreviousTheme
		}
		_, _ = fmt.Fprintf(w, "%s %-16s %s%s %s\n", mark, formatTimeSince(r.AppliedAt),
			nameStyle.Render(r.Theme), dimStyle.Render(from), dimStyle.Render(detail))
	}
}
