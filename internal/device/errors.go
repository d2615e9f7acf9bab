package device

import "errors"

// Device identity errors.
var (
	// ErrInvalidDeviceID indicates an ID that is not "serial:module:smap".
	ErrInvalidDeviceID = errors.New("invalid device id")

	// ErrUnknownClass indicates an inventory type string that maps to
	// no supported device class.
	ErrUnknownClass = errors.New("unknown device class")
)
