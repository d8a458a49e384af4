package engine

import (
	"errors"
	"fmt"
)

// Stage names the step of an apply an error came from.
type Stage string

const (
	StageGenerate Stage = "generate"
	StageNotify   Stage = "notify"
	StageSymlink  Stage = "symlink"
	StageState    Stage = "state"
)

// ErrApplyInProgress is returned by TryApply while another apply runs.
var ErrApplyInProgress = errors.New("another theme apply is in progress")

// ResolutionError means the theme, wallpaper selection or adapter filter
// could not be resolved. Nothing was touched.
type ResolutionError struct {
	Theme string
	Err   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve theme %q: %v", e.Theme, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// AdapterError is one adapter's generate or notify failure. It is collected
// in the result and never aborts the apply.
type AdapterError struct {
	Adapter string
	Stage   Stage
	Err     error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Adapter, e.Stage, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// WallpaperError is a failed wallpaper apply. It does not block the commit.
type WallpaperError struct {
	Path string
	Err  error
}

func (e *WallpaperError) Error() string {
	return fmt.Sprintf("wallpaper %s: %v", e.Path, e.Err)
}

func (e *WallpaperError) Unwrap() error { return e.Err }

// CommitError means the apply did not fully succeed. With Stage StageState
// the symlink was already swapped and stays in place; notifications are
// never reverted.
type CommitError struct {
	Stage Stage
	Err   error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit %s: %v", e.Stage, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }
