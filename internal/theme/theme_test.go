package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/swatch/internal/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	root := t.TempDir()
	return NewStore(filepath.Join(root, "themes"), filepath.Join(root, "custom-themes"))
}

func TestFind_BundledThenCustom(t *testing.T) {
	s := newTestStore(t)
	testutil.WriteTheme(t, s.BundledDir, testutil.ThemeSpec{Name: "tokyo-night", Colors: testutil.TokyoNightColors()})
	testutil.WriteTheme(t, s.CustomDir, testutil.ThemeSpec{Name: "tokyo-night", Colors: testutil.GruvboxLightColors()})
	testutil.WriteTheme(t, s.CustomDir, testutil.ThemeSpec{Name: "Mine", Colors: testutil.GruvboxLightColors()})

	th, err := s.Find("Tokyo-Night")
	require.NoError(t, err)
	assert.Equal(t, "tokyo-night", th.Name)
	assert.False(t, th.IsCustom)
	assert.Equal(t, "#1a1b26", th.Colors.Background)
	assert.False(t, th.IsLight)

	th, err = s.Find("mine")
	require.NoError(t, err)
	assert.Equal(t, "Mine", th.Name)
	assert.True(t, th.IsCustom)
	assert.True(t, th.IsLight, "light classification inferred from background")
}

func TestFind_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Find("nope")
	assert.ErrorIs(t, err, ErrThemeNotFound)

	_, err = s.Find("  ")
	assert.ErrorIs(t, err, ErrThemeNotFound)
}

func TestLoad_InvalidColors(t *testing.T) {
	s := newTestStore(t)
	colors := testutil.TokyoNightColors()
	colors.Accent = "blue"
	testutil.WriteTheme(t, s.BundledDir, testutil.ThemeSpec{Name: "broken", Colors: colors})

	_, err := s.Find("broken")
	assert.ErrorIs(t, err, ErrInvalidTheme)
	assert.Contains(t, err.Error(), "accent")
}

func TestLoad_MissingDescriptor(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.MkdirAll(dir, 0755))
	_, err := Load(dir, false)
	assert.ErrorIs(t, err, ErrInvalidTheme)
}

func TestLoad_Wallpapers(t *testing.T) {
	s := newTestStore(t)
	testutil.WriteTheme(t, s.BundledDir, testutil.ThemeSpec{
		Name:       "walls",
		Colors:     testutil.TokyoNightColors(),
		Wallpapers: []string{"b.jpg", "a.png", "readme.txt", "c.HEIC"},
	})

	th, err := s.Find("walls")
	require.NoError(t, err)
	require.Len(t, th.Wallpapers, 3)
	assert.Equal(t, "a.png", filepath.Base(th.Wallpapers[0]))
	assert.Equal(t, "b.jpg", filepath.Base(th.Wallpapers[1]))
	assert.True(t, filepath.IsAbs(th.Wallpapers[0]))
}

func TestResolveWallpaper(t *testing.T) {
	s := newTestStore(t)
	testutil.WriteTheme(t, s.BundledDir, testutil.ThemeSpec{
		Name: "walls", Colors: testutil.TokyoNightColors(), Wallpapers: []string{"a.png", "b.jpg"},
	})
	th, err := s.Find("walls")
	require.NoError(t, err)

	got, err := ResolveWallpaper(th, "")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = ResolveWallpaper(th, "2")
	require.NoError(t, err)
	assert.Equal(t, "b.jpg", filepath.Base(got))

	got, err = ResolveWallpaper(th, "A.PNG")
	require.NoError(t, err)
	assert.Equal(t, "a.png", filepath.Base(got))

	_, err = ResolveWallpaper(th, "3")
	assert.ErrorIs(t, err, ErrWallpaperNotFound)

	_, err = ResolveWallpaper(th, "/does/not/exist.png")
	assert.ErrorIs(t, err, ErrWallpaperNotFound)

	outside := filepath.Join(t.TempDir(), "outside.webp")
	require.NoError(t, os.WriteFile(outside, []byte("img"), 0644))
	got, err = ResolveWallpaper(th, outside)
	require.NoError(t, err)
	assert.Equal(t, outside, got)
}

func TestList_ShadowsAndSkipsBroken(t *testing.T) {
	s := newTestStore(t)
	testutil.WriteTheme(t, s.BundledDir, testutil.ThemeSpec{Name: "tokyo-night", Colors: testutil.TokyoNightColors()})
	testutil.WriteTheme(t, s.CustomDir, testutil.ThemeSpec{Name: "Tokyo-Night", Colors: testutil.GruvboxLightColors()})
	testutil.WriteTheme(t, s.CustomDir, testutil.ThemeSpec{Name: "gruvbox", Colors: testutil.GruvboxLightColors()})
	require.NoError(t, os.MkdirAll(filepath.Join(s.CustomDir, "junk"), 0755))

	themes, errs := s.List()
	require.Len(t, themes, 2)
	assert.Equal(t, "gruvbox", themes[0].Name)
	assert.Equal(t, "tokyo-night", themes[1].Name)
	assert.False(t, themes[1].IsCustom)
	assert.Len(t, errs, 1)
}

func TestSeed(t *testing.T) {
	dir := t.TempDir()
	written, err := Seed(dir, false)
	require.NoError(t, err)
	assert.ElementsMatch(t, BundledNames(), written)
	assert.Contains(t, written, "tokyo-night")

	s := NewStore(dir, "")
	for _, name := range written {
		th, err := s.Find(name)
		require.NoError(t, err, name)
		assert.NoError(t, th.Colors.Validate())
	}
	gl, err := s.Find("gruvbox-light")
	require.NoError(t, err)
	assert.True(t, gl.IsLight)

	again, err := Seed(dir, false)
	require.NoError(t, err)
	assert.Empty(t, again)
}
