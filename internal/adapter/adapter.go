// Package adapter defines the per-application integration contract and the
// registry that holds one adapter per supported application.
package adapter

import (
	"context"
	"os"

	"github.com/asteroid-belt/swatch/internal/models"
	"github.com/asteroid-belt/swatch/internal/system"
)

// Category groups adapters for display.
type Category string

const (
	CategoryTerminal Category = "terminal"
	CategoryEditor   Category = "editor"
	CategorySystem   Category = "system"
	CategoryTiling   Category = "tiling"
)

// AllCategories returns every category in display order.
func AllCategories() []Category {
	return []Category{CategoryTerminal, CategoryEditor, CategorySystem, CategoryTiling}
}

// IsValid checks if the category is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryTerminal, CategoryEditor, CategorySystem, CategoryTiling:
		return true
	default:
		return false
	}
}

// Capability names one of the optional adapter behaviours.
type Capability string

const (
	CapGenerate Capability = "generate"
	CapDetect   Capability = "detect"
	CapNotify   Capability = "notify"
)

// DefaultIntegrationMarker is searched for in an application's config file
// when the adapter has no detector of its own.
const DefaultIntegrationMarker = "swatch"

// Artifact is a generated config file, named relative to the staging dir.
type Artifact struct {
	FileName string
	Content  []byte
}

// Logf receives progress lines from a notifier.
type Logf func(format string, args ...any)

// NotifyRequest carries what a notifier needs to push an artifact live.
type NotifyRequest struct {
	// ThemeDir is the staging directory holding this theme's artifacts.
	ThemeDir string
	Runner   system.Runner
	Logf     Logf
}

// Log forwards a progress line to Logf when one is set.
func (r NotifyRequest) Log(format string, args ...any) {
	if r.Logf != nil {
		r.Logf(format, args...)
	}
}

// GenerateFunc turns a palette into an application config artifact.
// It must be deterministic.
type GenerateFunc func(colors models.ThemeColors) (Artifact, error)

// DetectFunc reports whether the config at configPath already references
// managed output.
type DetectFunc func(configPath string) bool

// NotifyFunc copies a staged artifact into the live location and nudges the
// application to reload.
type NotifyFunc func(ctx context.Context, req NotifyRequest) error

// Adapter describes one supported application. Capabilities are optional;
// a nil func means the adapter does not support it.
type Adapter struct {
	Name        string // lowercase unique id (e.g., "kitty")
	DisplayName string // e.g., "Kitty"
	Category    Category

	// InstallPaths are existence-checked with OR semantics.
	InstallPaths []string
	// InstallCommand is checked in PATH as an extra install signal.
	InstallCommand string
	// ConfigPaths are ordered candidates; the first that exists wins.
	ConfigPaths []string

	// IntegrationSnippet is what the user pastes into their config to pick
	// up managed output.
	IntegrationSnippet string
	// IntegrationMarker overrides DefaultIntegrationMarker.
	IntegrationMarker string

	Generate          GenerateFunc
	DetectIntegration DetectFunc
	Notify            NotifyFunc
}

// Has reports whether the adapter provides a capability.
// Detection is always available through the default substring detector,
// so CapDetect reports only adapter-specific detectors.
func (a *Adapter) Has(c Capability) bool {
	switch c {
	case CapGenerate:
		return a.Generate != nil
	case CapDetect:
		return a.DetectIntegration != nil
	case CapNotify:
		return a.Notify != nil
	default:
		return false
	}
}

// Capabilities lists the capabilities the adapter provides.
func (a *Adapter) Capabilities() []Capability {
	var caps []Capability
	for _, c := range []Capability{CapGenerate, CapDetect, CapNotify} {
		if a.Has(c) {
			caps = append(caps, c)
		}
	}
	return caps
}

// ConfigPath returns the first existing config candidate, or the first
// candidate when none exist.
func (a *Adapter) ConfigPath() string {
	return ResolveConfigPath(a.ConfigPaths, exists)
}

// IsInstalled reports whether any install path exists or the install
// command is on PATH.
func (a *Adapter) IsInstalled() bool {
	for _, p := range a.InstallPaths {
		if exists(p) {
			return true
		}
	}
	return a.InstallCommand != "" && system.CommandExists(a.InstallCommand)
}

// IsIntegrated runs the adapter's detector against its resolved config path,
// falling back to a marker substring search.
func (a *Adapter) IsIntegrated() bool {
	path := a.ConfigPath()
	if path == "" {
		return false
	}
	if a.DetectIntegration != nil {
		return safeDetect(a.DetectIntegration, path)
	}
	marker := a.IntegrationMarker
	if marker == "" {
		marker = DefaultIntegrationMarker
	}
	return ContainsMarker(path, marker)
}

// safeDetect shields callers from a detector that panics.
func safeDetect(fn DetectFunc, path string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return fn(path)
}

// ResolveConfigPath picks the first candidate for which exists returns true.
// With no existing candidate it returns the first one, or "" for none.
func ResolveConfigPath(candidates []string, exists func(string) bool) string {
	for _, c := range candidates {
		if exists(c) {
			return c
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
