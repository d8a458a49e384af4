// Package version provides build version information.
package version

import (
	"fmt"
	"runtime"
)

// These are set via ldflags at build time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info returns formatted version information.
func Info() string {
	commitShort := Commit
	if len(commitShort) > 7 {
		commitShort = commitShort[:7]
	}
	return fmt.Sprintf("swatch %s [%s] (%s) built on %s with %s",
		Version, Channel(), commitShort, BuildDate, runtime.Version())
}

// Short returns just the version number.
func Short() string {
	return Version
}
