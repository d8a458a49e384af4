package telemetry

import (
	"runtime"

	"github.com/asteroid-belt/swatch/pkg/version"
)

// Event names
const (
	EventThemeApplied       = "theme_applied"
	EventWallpaperApplied   = "wallpaper_applied"
	EventCLICommandExecuted = "cli_command_executed"
	EventCLIErrorOccurred   = "cli_error"
)

// ThemeApplied summarizes one apply. Theme names are only sent for bundled
// themes; custom theme names stay local.
type ThemeApplied struct {
	Theme      string
	IsCustom   bool
	IsLight    bool
	Notified   int
	Failed     int
	Committed  bool
	DryRun     bool
	DurationMs int64
}

// baseProperties are merged into every event by Track.
func baseProperties() map[string]interface{} {
	return map[string]interface{}{
		"os":        runtime.GOOS,
		"arch":      runtime.GOARCH,
		"version":   version.Short(),
		"channel":   version.Channel(),
		"dev_build": version.IsDevBuild(),
	}
}

func (e ThemeApplied) properties() map[string]interface{} {
	return map[string]interface{}{
		"theme":          e.Theme,
		"is_custom":      e.IsCustom,
		"is_light":       e.IsLight,
		"notified_count": e.Notified,
		"failed_count":   e.Failed,
		"committed":      e.Committed,
		"dry_run":        e.DryRun,
		"duration_ms":    e.DurationMs,
	}
}

// TrackThemeApplied tracks a finished apply.
func (c *posthogClient) TrackThemeApplied(e ThemeApplied) {
	c.Track(EventThemeApplied, e.properties())
}

// TrackWallpaperApplied tracks a wallpaper attempt.
func (c *posthogClient) TrackWallpaperApplied(applied bool, strategies int) {
	c.Track(EventWallpaperApplied, map[string]interface{}{
		"applied":              applied,
		"strategies_attempted": strategies,
	})
}

func (c *posthogClient) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {
	c.Track(EventCLICommandExecuted, map[string]interface{}{
		"command_name": commandName,
		"has_flags":    hasFlags,
		"duration_ms":  durationMs,
	})
}

func (c *posthogClient) TrackCLIError(commandName, errorType string) {
	c.Track(EventCLIErrorOccurred, map[string]interface{}{
		"command_name": commandName,
		"error_type":   errorType,
	})
}

func (noopClient) TrackThemeApplied(ThemeApplied)              {}
func (noopClient) TrackWallpaperApplied(bool, int)             {}
func (noopClient) TrackCLICommandExecuted(string, bool, int64) {}
func (noopClient) TrackCLIError(string, string)                {}
