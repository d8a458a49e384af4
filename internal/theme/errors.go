package theme

import "errors"

var (
	// ErrThemeNotFound is returned when no theme directory matches a name.
	ErrThemeNotFound = errors.New("theme not found")

	// ErrInvalidTheme is returned when a theme descriptor cannot be used.
	ErrInvalidTheme = errors.New("invalid theme")

	// ErrWallpaperNotFound is returned when a wallpaper selection does not resolve.
	ErrWallpaperNotFound = errors.New("wallpaper not found")
)
