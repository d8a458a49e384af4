package adapter

import "errors"

var (
	// ErrDuplicateAdapter is returned when an adapter name is already registered.
	ErrDuplicateAdapter = errors.New("adapter already registered")

	// ErrInvalidAdapter is returned when an adapter is missing required fields.
	ErrInvalidAdapter = errors.New("invalid adapter")

	// ErrRegistryFrozen is returned when registering after startup completed.
	ErrRegistryFrozen = errors.New("adapter registry is frozen")

	// ErrArtifactMissing is returned when a notifier cannot find its staged artifact.
	ErrArtifactMissing = errors.New("staged artifact not found")
)
