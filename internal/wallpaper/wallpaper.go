// Package wallpaper sets the desktop picture through two independent
// mechanisms: a direct API binary (desktoppr) and AppleScript via
// osascript. Both always run; one success is enough.
package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/asteroid-belt/swatch/internal/models"
	"github.com/asteroid-belt/swatch/internal/system"
)

// BinaryName is the direct-API wallpaper tool.
const BinaryName = "desktoppr"

// WellKnownDirs are searched for the binary after the override and bundled
// resource locations.
var WellKnownDirs = []string{"/opt/homebrew/bin", "/usr/local/bin", "/usr/bin"}

var (
	// ErrInvalidWallpaper is returned for a missing or non-image path.
	ErrInvalidWallpaper = errors.New("invalid wallpaper")

	// ErrInvalidDisplay is returned for a display index below 1.
	ErrInvalidDisplay = errors.New("display index must be 1 or greater")
)

// StrategyStatus is the outcome of one strategy.
type StrategyStatus string

const (
	StatusNotAttempted StrategyStatus = "not_attempted"
	StatusSucceeded    StrategyStatus = "succeeded"
	StatusFailed       StrategyStatus = "failed"
)

// StrategyResult records one strategy's attempt.
type StrategyResult struct {
	Name   string
	Status StrategyStatus
	Err    error
}

// Result gathers both strategies' outcomes.
type Result struct {
	Path    string
	Display int // 1-based, 0 for all displays
	Binary  StrategyResult
	Script  StrategyResult
	Applied bool
}

// Error describes a wallpaper apply where no attempted strategy worked.
type Error struct {
	Path    string
	Reasons []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("set wallpaper %s: %s", filepath.Base(e.Path), strings.Join(e.Reasons, "; "))
}

// Options configure the applier.
type Options struct {
	// BinaryOverride is an explicit path to desktoppr.
	BinaryOverride string
	// ResourcesDir holds bundled resources; the binary is looked up at
	// <ResourcesDir>/bin/desktoppr.
	ResourcesDir string
}

// Applier sets wallpapers.
type Applier struct {
	runner     system.Runner
	opts       Options
	executable func(string) bool
	searchDirs []string
}

// New creates an applier that runs commands through runner.
func New(runner system.Runner, opts Options) *Applier {
	return &Applier{
		runner:     runner,
		opts:       opts,
		executable: system.IsExecutable,
		searchDirs: WellKnownDirs,
	}
}

// FindBinary locates desktoppr: override, bundled resource, then well-known
// install dirs. It returns "" when none is executable.
func (a *Applier) FindBinary() string {
	var candidates []string
	if a.opts.BinaryOverride != "" {
		candidates = append(candidates, a.opts.BinaryOverride)
	}
	if a.opts.ResourcesDir != "" {
		candidates = append(candidates, filepath.Join(a.opts.ResourcesDir, "bin", BinaryName))
	}
	for _, d := range a.searchDirs {
		candidates = append(candidates, filepath.Join(d, BinaryName))
	}
	for _, c := range candidates {
		if a.executable(c) {
			return c
		}
	}
	return ""
}

// Apply sets path as wallpaper on a 1-based display, or every display when
// display is 0. Both strategies are attempted regardless of each other's
// outcome. The returned error is non-nil only for invalid input or when no
// attempted strategy succeeded; the Result is always populated.
func (a *Applier) Apply(ctx context.Context, path string, display int) (*Result, error) {
	res := &Result{
		Path:    path,
		Display: display,
		Binary:  StrategyResult{Name: BinaryName, Status: StatusNotAttempted},
		Script:  StrategyResult{Name: "osascript", Status: StatusNotAttempted},
	}
	if err := validate(path, display); err != nil {
		return res, err
	}

	if bin := a.FindBinary(); bin != "" {
		res.Binary = a.attempt(ctx, BinaryName, bin, binaryArgs(path, display)...)
	}
	res.Script = a.attempt(ctx, "osascript", "osascript", "-e", AppleScript(path, display))

	res.Applied = res.Binary.Status == StatusSucceeded || res.Script.Status == StatusSucceeded
	if res.Applied {
		return res, nil
	}

	werr := &Error{Path: path}
	for _, s := range []StrategyResult{res.Binary, res.Script} {
		if s.Status == StatusFailed {
			werr.Reasons = append(werr.Reasons, fmt.Sprintf("%s: %v", s.Name, s.Err))
		}
	}
	if res.Binary.Status == StatusNotAttempted {
		werr.Reasons = append(werr.Reasons, BinaryName+": not installed")
	}
	return res, werr
}

func (a *Applier) attempt(ctx context.Context, label, name string, args ...string) StrategyResult {
	r := StrategyResult{Name: label, Status: StatusSucceeded}
	if _, err := a.runner.Run(ctx, name, args...); err != nil {
		r.Status = StatusFailed
		r.Err = err
	}
	return r
}

func validate(path string, display int) error {
	if display < 0 {
		return ErrInvalidDisplay
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: %s is not absolute", ErrInvalidWallpaper, path)
	}
	if !models.IsWallpaperFile(path) {
		return fmt.Errorf("%w: %s is not a supported image", ErrInvalidWallpaper, path)
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s does not exist", ErrInvalidWallpaper, path)
	}
	return nil
}

// binaryArgs maps a 1-based display to desktoppr's 0-based screen index.
func binaryArgs(path string, display int) []string {
	if display > 0 {
		return []string{strconv.Itoa(display - 1), path}
	}
	return []string{path}
}

// AppleScript builds the System Events snippet for a display, or every
// desktop when display is 0.
func AppleScript(path string, display int) string {
	target := "every desktop"
	if display > 0 {
		target = fmt.Sprintf("desktop %d", display)
	}
	return fmt.Sprintf(`tell application "System Events" to tell %s to set picture to "%s"`,
		target, EscapeAppleScript(path))
}

// EscapeAppleScript escapes s for use inside a double-quoted AppleScript
// string literal.
func EscapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
