// Package link manages the symlinks that point at the active theme and
// wallpaper. A link is only ever repointed by renaming a freshly created
// symlink over it, so readers always see either the old or the new target.
package link

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var (
	// ErrNotSymlink is returned when a path exists but is not a symlink.
	ErrNotSymlink = errors.New("not a symlink")

	// ErrOccupied is returned when a real file or directory sits where a
	// link should go and backups are disabled.
	ErrOccupied = errors.New("path is occupied by a non-symlink")
)

// Manager creates and repoints symlinks.
type Manager struct {
	// BackupExisting moves a non-symlink found at the link path to
	// <path>.backup instead of failing.
	BackupExisting bool

	rename  func(oldpath, newpath string) error
	symlink func(oldname, newname string) error
}

// NewManager creates a manager that backs up non-symlinks it would replace.
func NewManager() *Manager {
	return &Manager{
		BackupExisting: true,
		rename:         os.Rename,
		symlink:        os.Symlink,
	}
}

// Swap atomically points link at target. It writes a symlink under a
// unique temporary name in the same directory and renames it over link.
// On any failure link keeps its previous target.
func (m *Manager) Swap(target, link string) error {
	dir := filepath.Dir(link)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	if m.Exists(link) && !m.IsSymlink(link) {
		if !m.BackupExisting {
			return fmt.Errorf("%w: %s", ErrOccupied, link)
		}
		if err := m.backup(link); err != nil {
			return err
		}
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(link), uuid.NewString()))
	if err := m.symlink(target, tmp); err != nil {
		return fmt.Errorf("create temp symlink: %w", err)
	}
	if err := m.rename(tmp, link); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename symlink into place: %w", err)
	}
	return nil
}

func (m *Manager) backup(path string) error {
	backupPath := path + ".backup"
	if m.Exists(backupPath) {
		if err := os.RemoveAll(backupPath); err != nil {
			return fmt.Errorf("remove stale backup: %w", err)
		}
	}
	if err := m.rename(path, backupPath); err != nil {
		return fmt.Errorf("back up %s: %w", path, err)
	}
	return nil
}

// Remove deletes a symlink. Missing links are not an error.
func (m *Manager) Remove(link string) error {
	if !m.Exists(link) {
		return nil
	}
	if !m.IsSymlink(link) {
		return fmt.Errorf("%w: %s", ErrNotSymlink, link)
	}
	if err := os.Remove(link); err != nil {
		return fmt.Errorf("remove symlink: %w", err)
	}
	return nil
}

// Exists checks if a file or symlink exists at path.
func (m *Manager) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsSymlink checks if path is a symlink.
func (m *Manager) IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

// ReadLink returns the target of a symlink.
func (m *Manager) ReadLink(path string) (string, error) {
	if !m.IsSymlink(path) {
		return "", fmt.Errorf("%w: %s", ErrNotSymlink, path)
	}
	target, err := os.Readlink(path)
	if err != nil {
		return "", fmt.Errorf("read symlink: %w", err)
	}
	return target, nil
}

// Verify checks that a symlink points to the expected target.
func (m *Manager) Verify(link, expectedTarget string) (bool, error) {
	if !m.IsSymlink(link) {
		return false, nil
	}
	target, err := m.ReadLink(link)
	if err != nil {
		return false, err
	}
	return target == expectedTarget, nil
}

// Dangling reports whether link is a symlink whose target is gone.
func (m *Manager) Dangling(link string) bool {
	if !m.IsSymlink(link) {
		return false
	}
	_, err := os.Stat(link)
	return err != nil
}
