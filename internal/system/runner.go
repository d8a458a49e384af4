// Package system wraps the OS process and filesystem calls that adapters and
// the wallpaper applier depend on, so tests can swap them out.
package system

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner executes external commands.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args and returns combined output.
// A non-zero exit returns an error that includes trimmed output.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		out := strings.TrimSpace(buf.String())
		if out != "" {
			return buf.Bytes(), fmt.Errorf("%s: %w: %s", name, err, out)
		}
		return buf.Bytes(), fmt.Errorf("%s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// CommandExists checks whether name resolves in PATH.
func CommandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// PathExists checks if a file, directory, or symlink exists at path.
func PathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsExecutable reports whether path is a regular file with an exec bit set.
func IsExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}
