package statusword

import "errors"

// Encoding errors.
var (
	// ErrBrightnessRange indicates a brightness value outside [0, 255]
	// was passed to ToIntensity.
	ErrBrightnessRange = errors.New("brightness out of range")
)
