// Package theme locates theme directories and parses their descriptors.
//
// A theme is a directory holding a theme.yaml descriptor and an optional
// wallpapers/ subdirectory. Bundled themes shadow custom themes of the same
// name.
package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/asteroid-belt/swatch/internal/models"
)

const (
	// DescriptorFile is the palette descriptor inside a theme directory.
	DescriptorFile = "theme.yaml"

	// WallpapersDir holds a theme's wallpaper images.
	WallpapersDir = "wallpapers"
)

type descriptor struct {
	DisplayName string             `yaml:"display_name"`
	Author      string             `yaml:"author"`
	Description string             `yaml:"description"`
	Appearance  string             `yaml:"appearance"`
	Colors      models.ThemeColors `yaml:"colors"`
}

// Store resolves themes from the bundled and custom theme directories.
type Store struct {
	BundledDir string
	CustomDir  string
}

// NewStore creates a store over the two theme roots.
func NewStore(bundledDir, customDir string) *Store {
	return &Store{BundledDir: bundledDir, CustomDir: customDir}
}

// Find resolves name case-insensitively, bundled first, then custom.
func (s *Store) Find(name string) (*models.Theme, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrThemeNotFound)
	}
	for _, root := range s.roots() {
		dir, ok := findDir(root.path, name)
		if !ok {
			continue
		}
		return Load(dir, root.custom)
	}
	return nil, fmt.Errorf("%w: %s", ErrThemeNotFound, name)
}

// List returns every loadable theme sorted by name. A custom theme whose
// name matches a bundled theme is hidden. Broken themes are skipped and
// reported in the returned error list.
func (s *Store) List() ([]*models.Theme, []error) {
	var (
		themes []*models.Theme
		errs   []error
		seen   = map[string]bool{}
	)
	for _, root := range s.roots() {
		entries, err := os.ReadDir(root.path)
		if err != nil {
			if !os.IsNotExist(err) {
				errs = append(errs, fmt.Errorf("read %s: %w", root.path, err))
			}
			continue
		}
		for _, e := range entries {
			if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			key := strings.ToLower(e.Name())
			if seen[key] {
				continue
			}
			t, err := Load(filepath.Join(root.path, e.Name()), root.custom)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			seen[key] = true
			themes = append(themes, t)
		}
	}
	sort.Slice(themes, func(i, j int) bool { return themes[i].Name < themes[j].Name })
	return themes, errs
}

type root struct {
	path   string
	custom bool
}

func (s *Store) roots() []root {
	var rs []root
	if s.BundledDir != "" {
		rs = append(rs, root{path: s.BundledDir})
	}
	if s.CustomDir != "" {
		rs = append(rs, root{path: s.CustomDir, custom: true})
	}
	return rs
}

// findDir returns the child directory of root named name, preferring an
// exact match over a case-insensitive one.
func findDir(root, name string) (string, bool) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", false
	}
	folded := ""
	for _, e := range entries {
		path := filepath.Join(root, e.Name())
		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			continue
		}
		if e.Name() == name {
			return path, true
		}
		if folded == "" && strings.EqualFold(e.Name(), name) {
			folded = path
		}
	}
	return folded, folded != ""
}

// Load parses the theme in dir. The directory name is the theme name.
func Load(dir string, custom bool) (*models.Theme, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	data, err := os.ReadFile(filepath.Join(abs, DescriptorFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s has no %s", ErrInvalidTheme, abs, DescriptorFile)
		}
		return nil, fmt.Errorf("read theme %s: %w", abs, err)
	}

	var d descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidTheme, abs, err)
	}
	if err := d.Colors.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTheme, filepath.Base(abs), err)
	}

	colors := d.Colors.Normalized()
	isLight := strings.EqualFold(d.Appearance, "light")
	if d.Appearance == "" {
		isLight = models.IsLightColor(colors.Background)
	}

	wallpapers, err := listWallpapers(filepath.Join(abs, WallpapersDir))
	if err != nil {
		return nil, err
	}

	return &models.Theme{
		Name:        filepath.Base(abs),
		Author:      d.Author,
		DisplayName: firstNonEmpty(d.DisplayName, filepath.Base(abs)),
		Description: d.Description,
		IsCustom:    custom,
		IsLight:     isLight,
		Colors:      colors,
		Wallpapers:  wallpapers,
		Dir:         abs,
	}, nil
}

func listWallpapers(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read wallpapers: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !models.IsWallpaperFile(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// ResolveWallpaper picks a wallpaper from t's set. The selector is a 1-based
// index, a file name inside wallpapers/, or an absolute path to any image.
// An empty selector means no wallpaper.
func ResolveWallpaper(t *models.Theme, selector string) (string, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return "", nil
	}
	if n, err := strconv.Atoi(selector); err == nil {
		if n < 1 || n > len(t.Wallpapers) {
			return "", fmt.Errorf("%w: %s has %d wallpapers, asked for #%d",
				ErrWallpaperNotFound, t.Name, len(t.Wallpapers), n)
		}
		return t.Wallpapers[n-1], nil
	}
	for _, w := range t.Wallpapers {
		if strings.EqualFold(filepath.Base(w), selector) {
			return w, nil
		}
	}
	if filepath.IsAbs(selector) && models.IsWallpaperFile(selector) {
		if info, err := os.Stat(selector); err == nil && !info.IsDir() {
			return selector, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrWallpaperNotFound, selector)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
