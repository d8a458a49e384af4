package config

import (
	"runtime"

	"github.com/spf13/viper"
)

// DefaultWorkers bounds parallel adapter work.
var DefaultWorkers = min(runtime.NumCPU(), 4)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyHome, DefaultBaseDir())
	v.SetDefault(KeyBundledThemesDir, "")
	v.SetDefault(KeyCustomThemesDir, "")
	v.SetDefault(KeyWorkers, DefaultWorkers)
	v.SetDefault(KeyStateBackend, BackendSQLite)
	v.SetDefault(KeyWallpaperBinary, "")
	v.SetDefault(KeyWallpaperResource, "")
	v.SetDefault(KeyWallpaperAuto, true)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
}
