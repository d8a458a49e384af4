package theme

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed bundled
var bundledFS embed.FS

// BundledNames lists the themes shipped inside the binary.
func BundledNames() []string {
	entries, _ := fs.ReadDir(bundledFS, "bundled")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}

// Seed writes the embedded themes into dir. Existing theme directories are
// left untouched unless overwrite is set. It returns the names written.
func Seed(dir string, overwrite bool) ([]string, error) {
	var written []string
	for _, name := range BundledNames() {
		target := filepath.Join(dir, name)
		if _, err := os.Stat(target); err == nil && !overwrite {
			continue
		}
		if err := copyEmbedded("bundled/"+name, target); err != nil {
			return written, fmt.Errorf("seed %s: %w", name, err)
		}
		written = append(written, name)
	}
	return written, nil
}

func copyEmbedded(src, dst string) error {
	return fs.WalkDir(bundledFS, src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		out := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(out, 0755)
		}
		data, err := bundledFS.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(out, data, 0644)
	})
}
