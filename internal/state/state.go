// Package state persists the ApplicationState: which theme and wallpaper are
// applied and when they last changed.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/asteroid-belt/swatch/internal/models"
)

// ErrCorruptState is returned alongside a default state when the stored
// state cannot be parsed.
var ErrCorruptState = errors.New("corrupt state")

// Store loads and saves the application state.
type Store interface {
	// Load returns the stored state, or the default state when none exists.
	// On ErrCorruptState the default state is returned as well.
	Load() (*models.ApplicationState, error)
	Save(s *models.ApplicationState) error
}

// FileName is the JSON state file name.
const FileName = "state.json"

// fileState mirrors the on-disk format. Pointer fields tell an absent key
// from an empty one so partial files merge over defaults.
type fileState struct {
	CurrentTheme     *string    `json:"currentTheme"`
	CurrentWallpaper *string    `json:"currentWallpaper,omitempty"`
	LastSwitched     *time.Time `json:"lastSwitched"`
}

// JSONStore keeps state in a single JSON file.
type JSONStore struct {
	path string
}

// NewJSONStore creates a store backed by path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the backing file path.
func (s *JSONStore) Path() string {
	return s.path
}

// Load reads the state file. A missing file yields the default state.
func (s *JSONStore) Load() (*models.ApplicationState, error) {
	st := models.DefaultApplicationState()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return st, fmt.Errorf("read state: %w", err)
	}

	var fs fileState
	if err := json.Unmarshal(data, &fs); err != nil {
		return st, fmt.Errorf("%w: %s: %v", ErrCorruptState, s.path, err)
	}

	if fs.CurrentTheme != nil {
		st.CurrentTheme = *fs.CurrentTheme
	}
	if fs.CurrentWallpaper != nil {
		st.CurrentWallpaper = *fs.CurrentWallpaper
	}
	if fs.LastSwitched != nil {
		st.LastSwitched = *fs.LastSwitched
	}
	return st, nil
}

// Save writes the state using atomic file operations.
func (s *JSONStore) Save(st *models.ApplicationState) error {
	fs := fileState{
		CurrentTheme: &st.CurrentTheme,
		LastSwitched: &st.LastSwitched,
	}
	if st.CurrentWallpaper != "" {
		fs.CurrentWallpaper = &st.CurrentWallpaper
	}

	data, err := json.MarshalIndent(fs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	// Atomic write: unique temp file in the same dir + rename, so
	// concurrent writers never share a temp path.
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename state: %w", err)
	}
	return nil
}

// Memory is an in-process Store.
type Memory struct {
	st  models.ApplicationState
	set bool
	// SaveErr, when set, is returned by Save without storing.
	SaveErr error
}

// Load returns a copy of the stored state.
func (m *Memory) Load() (*models.ApplicationState, error) {
	if !m.set {
		return models.DefaultApplicationState(), nil
	}
	st := m.st
	return &st, nil
}

// Save stores a copy of st.
func (m *Memory) Save(st *models.ApplicationState) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.st = *st
	m.set = true
	return nil
}
