package statusword

import (
	"fmt"
	"math"
)

// Channel value bounds for the encoding helpers.
const (
	channelMax   = 255
	intensityMax = 100
)

// RGBToHex formats an RGB triplet as an uppercase "#RRGGBB" string for
// the set-rgb-color command.
//
// Each channel is clamped to [0, 255] before formatting. Clamping is
// intentional here: color values arrive from UI sliders that can
// momentarily overshoot, and a clamped color is always displayable.
//
// Parameters:
//   - r, g, b: Channel values, clamped to 0-255
//
// Returns:
//   - string: Hex color string, e.g. "#FF8000"
func RGBToHex(r, g, b int) string {
	return fmt.Sprintf("#%02X%02X%02X", clampChannel(r), clampChannel(g), clampChannel(b))
}

// ToIntensity converts a 0-255 brightness value to a 0-100 intensity
// percentage for the set-intensity command.
//
// Unlike RGBToHex this rejects out-of-range input instead of clamping:
// brightness comes straight from the caller's command arguments, and an
// out-of-range value indicates a caller bug worth surfacing.
//
// Parameters:
//   - brightness: Brightness value, must be in [0, 255]
//
// Returns:
//   - int: Intensity percentage, 0-100
//   - error: ErrBrightnessRange if brightness is outside [0, 255]
func ToIntensity(brightness int) (int, error) {
	if brightness < 0 || brightness > channelMax {
		return 0, fmt.Errorf("%w: %d not in [0, %d]", ErrBrightnessRange, brightness, channelMax)
	}
	return int(math.Round(float64(brightness) / channelMax * intensityMax)), nil
}

// clampChannel bounds a color channel value to [0, 255].
func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > channelMax {
		return channelMax
	}
	return v
}
