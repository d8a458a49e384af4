package engine

import (
	"path/filepath"
	"time"

	"github.com/asteroid-belt/swatch/internal/link"
)

// Status describes what is applied right now.
type Status struct {
	Theme        string
	Wallpaper    string
	LastSwitched time.Time

	// LinkTarget is where the current symlink points, "" when absent.
	LinkTarget string
	// LinkTheme is the theme named by LinkTarget.
	LinkTheme string
	// Consistent is false when the saved state and the current symlink
	// disagree, e.g. after a state write failed.
	Consistent bool
	// Dangling is true when the current symlink points at a missing dir.
	Dangling bool
}

// Status reads the saved state and cross-checks it against the current
// symlink. The symlink wins when they disagree since it is committed first.
func (o *Orchestrator) Status() (*Status, error) {
	st, err := o.state.Load()
	if err != nil && st == nil {
		return nil, err
	}

	s := &Status{
		Theme:        st.CurrentTheme,
		Wallpaper:    st.CurrentWallpaper,
		LastSwitched: st.LastSwitched,
	}

	lm := link.NewManager()
	current := o.CurrentLink()
	if target, err := lm.ReadLink(current); err == nil {
		s.LinkTarget = target
		s.LinkTheme = filepath.Base(target)
		s.Dangling = lm.Dangling(current)
	}

	s.Consistent = s.LinkTheme == s.Theme
	if !s.Consistent && s.LinkTheme != "" {
		s.Theme = s.LinkTheme
	}
	return s, nil
}
