// Package migration moves persisted data between storage layouts.
// Every migration is idempotent and safe to run on each startup.
package migration

import (
	"errors"
	"fmt"
	"os"

	"github.com/asteroid-belt/swatch/internal/state"
)

// MigratedSuffix is appended to a JSON state file once it has been imported.
const MigratedSuffix = ".migrated"

// Result tracks what a state import did.
type Result struct {
	Imported bool
	// Skipped is set when the destination already held newer state.
	Skipped bool
	// Renamed is the path the JSON file was moved to, if any.
	Renamed string
	Errors  []string
}

// ImportJSONState copies the state in jsonPath into dst, then renames the
// file with MigratedSuffix so it is not imported again. The destination
// wins when it already records a switch at least as recent. A corrupt file
// is left in place and reported in Result.Errors.
func ImportJSONState(dst state.Store, jsonPath string) (*Result, error) {
	result := &Result{}

	if _, err := os.Stat(jsonPath); err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return result, fmt.Errorf("stat %s: %w", jsonPath, err)
	}

	src, err := state.NewJSONStore(jsonPath).Load()
	if err != nil {
		if errors.Is(err, state.ErrCorruptState) {
			result.Errors = append(result.Errors, err.Error())
			return result, nil
		}
		return result, err
	}

	cur, err := dst.Load()
	if err != nil && !errors.Is(err, state.ErrCorruptState) {
		return result, fmt.Errorf("load destination state: %w", err)
	}

	switch {
	case !src.HasTheme():
		result.Skipped = true
	case cur.HasTheme() && !cur.LastSwitched.Before(src.LastSwitched):
		result.Skipped = true
	default:
		if err := dst.Save(src); err != nil {
			return result, fmt.Errorf("save imported state: %w", err)
		}
		result.Imported = true
	}

	target := jsonPath + MigratedSuffix
	if err := os.Rename(jsonPath, target); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("rename %s: %v", jsonPath, err))
		return result, nil
	}
	result.Renamed = target
	return result, nil
}
