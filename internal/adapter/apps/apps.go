// Package apps holds the built-in adapters, one per supported application.
package apps

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/asteroid-belt/swatch/internal/adapter"
	"github.com/asteroid-belt/swatch/internal/models"
)

const header = "Generated by swatch. Do not edit; changes are overwritten on the next theme switch."

// Dirs are the host directories adapter paths are built from.
type Dirs struct {
	Home         string // user home
	ConfigHome   string // usually ~/.config
	Applications string // macOS /Applications
}

func (d Dirs) config(parts ...string) string {
	return filepath.Join(append([]string{d.ConfigHome}, parts...)...)
}

func (d Dirs) home(parts ...string) string {
	return filepath.Join(append([]string{d.Home}, parts...)...)
}

func (d Dirs) app(name string) string {
	apps := d.Applications
	if apps == "" {
		apps = "/Applications"
	}
	return filepath.Join(apps, name)
}

// All builds every built-in adapter in display order.
func All(d Dirs) []*adapter.Adapter {
	return []*adapter.Adapter{
		Alacritty(d),
		Kitty(d),
		Ghostty(d),
		WezTerm(d),
		Neovim(d),
		VSCode(d),
		Btop(d),
		SketchyBar(d),
		Borders(d),
	}
}

// DefaultRegistry builds and freezes a registry of the built-in adapters.
// It panics on a duplicate name since that is a build-time mistake.
func DefaultRegistry(d Dirs) *adapter.Registry {
	reg := adapter.NewRegistry()
	reg.MustRegister(All(d)...)
	reg.Freeze()
	return reg
}

// argb converts "#rrggbb" to the 0xAARRGGBB form used by macOS bar tools.
func argb(hex string) string {
	return "0xff" + strings.ToLower(models.StripHash(hex))
}

// lines joins content lines with a trailing newline.
func lines(ls ...string) []byte {
	return []byte(strings.Join(ls, "\n") + "\n")
}

// copyAndTouch is the common notifier: copy the artifact to dest and bump
// the mtime of the watched config so the app live-reloads.
func copyAndTouch(fileName, dest string, watched func() string) adapter.NotifyFunc {
	return func(ctx context.Context, req adapter.NotifyRequest) error {
		if err := adapter.CopyArtifact(req, fileName, dest); err != nil {
			return err
		}
		if watched == nil {
			return nil
		}
		if w := watched(); w != "" && w != dest {
			return adapter.Touch(w)
		}
		return nil
	}
}

// signalProcess sends sig to every process named name. A process that is not
// running has nothing to reload, so pkill's "no match" is not a failure.
func signalProcess(ctx context.Context, req adapter.NotifyRequest, sig, name string) error {
	if req.Runner == nil {
		return nil
	}
	if _, err := req.Runner.Run(ctx, "pgrep", "-x", name); err != nil {
		req.Log("%s is not running, skipping reload", name)
		return nil
	}
	if _, err := req.Runner.Run(ctx, "pkill", "-"+sig, "-x", name); err != nil {
		return fmt.Errorf("signal %s: %w", name, err)
	}
	return nil
}
