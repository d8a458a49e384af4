// Package cli provides the command-line interface for swatch.
package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/asteroid-belt/swatch/internal/engine"
	"github.com/asteroid-belt/swatch/internal/telemetry"
	"github.com/asteroid-belt/swatch/internal/theme"
	"github.com/asteroid-belt/swatch/pkg/version"
)

var telemetryClient telemetry.Client = telemetry.Noop()

var commandStartTime time.Time

var rootCmd = &cobra.Command{
	Use:   "swatch",
	Short: "Switch your desktop theme everywhere at once",
	Long: `Switch your desktop theme everywhere at once

swatch generates matching color configs for your terminals, editors and
menu bar tools, pushes them live, sets the wallpaper, and records the
switch in one step.

Telemetry:
  Telemetry is enabled by default, always anonymous, and never sends
  custom theme names, file paths, or IP addresses.

  Opt-out with:
  	SWATCH_TELEMETRY_TRACKING_ENABLED=false`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commandStartTime = time.Now()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		durationMs := time.Since(commandStartTime).Milliseconds()
		hasFlags := cmd.Flags().NFlag() > 0
		telemetryClient.TrackCLICommandExecuted(cmd.Name(), hasFlags, durationMs)
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(themesCmd)
	rootCmd.AddCommand(adaptersCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(initCmd)
}

// Execute runs the CLI with fang enhancements.
func Execute(ctx context.Context, tc telemetry.Client) error {
	if tc == nil {
		tc = telemetry.New(nil)
	}
	telemetryClient = tc

	return fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(version.Info()),
		fang.WithCommit(version.Commit),
	)
}

// trackCLIError wraps an error with telemetry tracking.
// Call this before returning errors from CLI commands.
func trackCLIError(cmdName string, err error) error {
	if err == nil {
		return nil
	}
	telemetryClient.TrackCLIError(cmdName, classifyError(err))
	return err
}

// classifyError determines the error type for telemetry.
func classifyError(err error) string {
	var (
		resolution *engine.ResolutionError
		commit     *engine.CommitError
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, engine.ErrApplyInProgress):
		return "busy"
	case errors.Is(err, theme.ErrThemeNotFound):
		return "theme_not_found"
	case errors.As(err, &resolution):
		return "resolution_error"
	case errors.As(err, &commit):
		return "commit_" + string(commit.Stage) + "_error"
	}

	errStr := err.Error()
	switch {
	case containsAny(errStr, "config", "configuration"):
		return "config_error"
	case containsAny(errStr, "database", "db"):
		return "database_error"
	case containsAny(errStr, "permission", "access denied"):
		return "permission_error"
	case containsAny(errStr, "not found", "does not exist"):
		return "not_found_error"
	case containsAny(errStr, "invalid", "parse", "format"):
		return "validation_error"
	default:
		return "unknown_error"
	}
}

// containsAny checks if s contains any of the substrings (case-insensitive).
func containsAny(s string, substrs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}
