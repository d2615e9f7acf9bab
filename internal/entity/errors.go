package entity

import "errors"

// Entity command errors.
var (
	// ErrUnsupportedCommand indicates a command that does not apply to
	// the entity's device class.
	ErrUnsupportedCommand = errors.New("unsupported command for device class")

	// ErrInvalidArgument indicates a command argument outside its
	// allowed range.
	ErrInvalidArgument = errors.New("invalid command argument")
)
