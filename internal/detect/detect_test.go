package detect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/swatch/internal/adapter"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDetectAdapter_NotInstalled(t *testing.T) {
	dir := t.TempDir()
	a := &adapter.Adapter{
		Name:               "kitty",
		Category:           adapter.CategoryTerminal,
		InstallPaths:       []string{filepath.Join(dir, "Kitty.app")},
		ConfigPaths:        []string{filepath.Join(dir, "kitty.conf")},
		IntegrationSnippet: "include swatch-theme.conf",
	}

	result := DetectAdapter(a)
	assert.False(t, result.Installed)
	assert.False(t, result.ConfigExists)
	assert.False(t, result.Integrated)
	assert.Equal(t, filepath.Join(dir, "kitty.conf"), result.ConfigPath)
	assert.False(t, result.NeedsIntegration())
}

func TestDetectAdapter_InstalledNeedsIntegration(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Kitty.app"), 0755))
	conf := filepath.Join(dir, "kitty.conf")
	writeFile(t, conf, "font_size 13\n")

	a := &adapter.Adapter{
		Name:               "kitty",
		Category:           adapter.CategoryTerminal,
		InstallPaths:       []string{filepath.Join(dir, "Kitty.app")},
		ConfigPaths:        []string{conf},
		IntegrationSnippet: "include swatch-theme.conf",
		IntegrationMarker:  "swatch-theme.conf",
	}

	result := DetectAdapter(a)
	assert.True(t, result.Installed)
	assert.True(t, result.ConfigExists)
	assert.False(t, result.Integrated)
	assert.Equal(t, "include swatch-theme.conf", result.Snippet)
	assert.True(t, result.NeedsIntegration())

	writeFile(t, conf, "font_size 13\ninclude swatch-theme.conf\n")
	result = DetectAdapter(a)
	assert.True(t, result.Integrated)
	assert.Empty(t, result.Snippet)
	assert.False(t, result.NeedsIntegration())
}

func TestDetectAdapter_SecondConfigCandidate(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a", "init.lua")
	second := filepath.Join(dir, "b", "init.lua")
	writeFile(t, second, "vim.cmd.colorscheme('swatch')\n")

	result := DetectAdapter(&adapter.Adapter{
		Name:         "neovim",
		Category:     adapter.CategoryEditor,
		InstallPaths: []string{dir},
		ConfigPaths:  []string{first, second},
	})
	assert.Equal(t, second, result.ConfigPath)
	assert.True(t, result.Integrated, "default marker detector")
}

func TestDetectAll_OrderAndFilter(t *testing.T) {
	dir := t.TempDir()
	reg := adapter.NewRegistry()
	reg.MustRegister(
		&adapter.Adapter{Name: "btop", Category: adapter.CategorySystem, InstallPaths: []string{dir}},
		&adapter.Adapter{Name: "alacritty", Category: adapter.CategoryTerminal, InstallPaths: []string{filepath.Join(dir, "nope")}},
	)

	results := DetectAll(reg)
	require.Len(t, results, 2)
	assert.Equal(t, "btop", results[0].Adapter.Name)
	assert.Equal(t, "alacritty", results[1].Adapter.Name)

	installed := Installed(results)
	require.Len(t, installed, 1)
	assert.Equal(t, "btop", installed[0].Adapter.Name)
}
