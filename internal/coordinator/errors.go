package coordinator

import "errors"

// Coordinator errors.
var (
	// ErrMissingDependency indicates a nil required dependency in the
	// coordinator configuration.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrInvalidInterval indicates a non-positive poll interval.
	ErrInvalidInterval = errors.New("invalid poll interval")

	// ErrDeviceNotFound indicates a targeted sync for a device that is
	// not in the current inventory.
	ErrDeviceNotFound = errors.New("device not found")
)
