package models

import "errors"

// ErrInvalidColors is returned when a palette has missing or malformed slots.
var ErrInvalidColors = errors.New("invalid theme colors")
