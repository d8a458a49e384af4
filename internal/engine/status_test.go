package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/swatch/internal/models"
)

func TestStatus_NothingApplied(t *testing.T) {
	f := newFixture(t)
	s, err := f.orchestrator(f.registry()).Status()
	require.NoError(t, err)

	assert.Empty(t, s.Theme)
	assert.Empty(t, s.LinkTarget)
	assert.True(t, s.Consistent)
	assert.False(t, s.Dangling)
}

func TestStatus_AfterApply(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(f.registry(f.fake("alpha")))
	_, err := o.Apply(context.Background(), "tokyo-night", ApplyOptions{Wallpaper: "1"})
	require.NoError(t, err)

	s, err := o.Status()
	require.NoError(t, err)
	assert.Equal(t, "tokyo-night", s.Theme)
	assert.Equal(t, "tokyo-night", s.LinkTheme)
	assert.True(t, s.Consistent)
	assert.False(t, s.LastSwitched.IsZero())
	assert.Equal(t, filepath.Join(f.bundled, "tokyo-night", "wallpapers", "city.png"), s.Wallpaper)
}

func TestStatus_SymlinkWinsOverStaleState(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(f.registry(f.fake("alpha")))
	_, err := o.Apply(context.Background(), "gruvbox-light", ApplyOptions{})
	require.NoError(t, err)

	require.NoError(t, f.state.Save(&models.ApplicationState{CurrentTheme: "tokyo-night"}))

	s, err := o.Status()
	require.NoError(t, err)
	assert.False(t, s.Consistent)
	assert.Equal(t, "gruvbox-light", s.Theme)
}

func TestStatus_Dangling(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(f.registry(f.fake("alpha")))
	_, err := o.Apply(context.Background(), "tokyo-night", ApplyOptions{})
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(filepath.Join(f.bundled, "tokyo-night")))

	s, err := o.Status()
	require.NoError(t, err)
	assert.True(t, s.Dangling)
}
