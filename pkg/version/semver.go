package version

import (
	"github.com/Masterminds/semver/v3"
)

// Release channels reported by Channel.
const (
	ChannelDev        = "dev"
	ChannelPrerelease = "prerelease"
	ChannelStable     = "stable"
)

var (
	parsedVersion  *semver.Version
	parseAttempted bool
)

// resetParsedVersion clears the cached parsed version for testing.
func resetParsedVersion() {
	parsedVersion = nil
	parseAttempted = false
}

// Parsed returns the parsed semantic version, or nil if unparseable.
// Computed lazily on first call and cached.
func Parsed() *semver.Version {
	if parsedVersion != nil || parseAttempted {
		return parsedVersion
	}
	parseAttempted = true

	v, err := semver.NewVersion(Version)
	if err != nil {
		return nil
	}
	parsedVersion = v
	return parsedVersion
}

// IsPrerelease reports a pre-release build. Unparseable versions
// (like "dev") are not pre-releases.
func IsPrerelease() bool {
	v := Parsed()
	return v != nil && v.Prerelease() != ""
}

// IsDevBuild reports a build without a valid semver.
func IsDevBuild() bool {
	return Parsed() == nil
}

// Channel classifies the build as dev, prerelease or stable.
func Channel() string {
	switch {
	case IsDevBuild():
		return ChannelDev
	case IsPrerelease():
		return ChannelPrerelease
	default:
		return ChannelStable
	}
}
