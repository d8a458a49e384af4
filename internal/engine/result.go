package engine

import (
	"time"

	"github.com/asteroid-belt/swatch/internal/wallpaper"
)

// WallpaperStatus is the wallpaper step's outcome.
type WallpaperStatus string

const (
	WallpaperSkipped WallpaperStatus = "skipped"
	WallpaperApplied WallpaperStatus = "applied"
	WallpaperFailed  WallpaperStatus = "failed"
)

// WallpaperOutcome reports the wallpaper step.
type WallpaperOutcome struct {
	Status WallpaperStatus
	Path   string
	// Strategies holds per-strategy detail when an apply was attempted.
	Strategies *wallpaper.Result
	Err        *WallpaperError
}

// ApplyResult gathers everything an apply did. Name lists are sorted.
type ApplyResult struct {
	ID            string
	PreviousTheme string
	CurrentTheme  string
	DryRun        bool

	// Generated lists adapters whose artifact was staged.
	Generated []string
	// Unchanged lists adapters whose staged artifact already matched.
	Unchanged []string
	// Notified lists adapters whose artifact was pushed live.
	Notified []string
	// Skipped lists adapters not run because the apply was canceled.
	Skipped  []string
	Failures []*AdapterError

	Wallpaper WallpaperOutcome

	// ThemeDir is the resolved theme directory; current points here once
	// committed.
	ThemeDir string
	// StagingDir holds the generated artifacts notifiers copy from.
	StagingDir string
	Committed  bool

	StartedAt time.Time
	Duration  time.Duration
}

// Succeeded reports the overall outcome: the theme resolved and the
// current pointer was swapped.
func (r *ApplyResult) Succeeded() bool {
	return r != nil && r.Committed
}

// Clean reports a committed apply with no adapter or wallpaper failures.
func (r *ApplyResult) Clean() bool {
	return r.Succeeded() && len(r.Failures) == 0 && r.Wallpaper.Status != WallpaperFailed
}

// FailureFor returns the collected failure for an adapter, if any.
func (r *ApplyResult) FailureFor(name string) *AdapterError {
	for _, f := range r.Failures {
		if f.Adapter == name {
			return f
		}
	}
	return nil
}
