package statusword

// Fan speed bit masks within the status word.
//
// A fan controller reports its speed as a combination of three bits.
// The observed firmware uses these combinations:
//
//	0x40        speed 4 (100%)
//	0x10 | 0x20 speed 3 (75%)
//	0x20        speed 2 (50%)
//	0x10        speed 1 (25%)
//
// Other combinations are resolved by branch priority below; the
// firmware does not emit them under normal operation.
const (
	// FanR1 is the low speed bit.
	FanR1 uint32 = 0x10

	// FanR2 is the medium speed bit.
	FanR2 uint32 = 0x20

	// FanR3 is the high speed bit.
	FanR3 uint32 = 0x40
)

// Cover position bounds (percent open).
const (
	// PositionClosed is a fully closed cover.
	PositionClosed = 0

	// PositionOpen is a fully open cover.
	PositionOpen = 100
)

// SwitchState is the decoded state of one switch sub-device.
type SwitchState struct {
	// On indicates whether the switch's bit is set in the status word.
	On bool
}

// FanState is the decoded state of a fan controller.
type FanState struct {
	// On indicates whether the fan is running.
	On bool

	// Speed is the discrete speed step, 0 (off) through 4 (full).
	Speed int

	// Percentage is the speed expressed as 0-100.
	Percentage int
}

// CoverState is the decoded state of a cover controller.
//
// The push channel reports only the two extremes. Partial positions
// are tracked locally by the entity that issued the move command.
type CoverState struct {
	// Open indicates the cover is fully open.
	Open bool

	// Position is the percent open, 0 or 100 on this path.
	Position int
}

// LightState is the decoded state of an RGB light controller.
type LightState struct {
	// On indicates the light is emitting.
	On bool

	// Red, Green and Blue are the channel values, 0-255 each.
	Red   uint8
	Green uint8
	Blue  uint8

	// Brightness is the brightest channel, 0-255.
	Brightness uint8
}

// DecodeSwitch decodes a status word for one switch sub-device.
//
// The switch is on when the status word is non-zero and the device's
// own smap bit is set within it. A group poll returns the combined
// word for all sub-devices on the controller, so each switch masks
// with its own smap to find its bit.
//
// Parameters:
//   - smap: The sub-device's bit position mask
//   - status: Raw status word (full word, not pre-masked)
//
// Returns:
//   - SwitchState: Decoded on/off state
func DecodeSwitch(smap, status uint32) SwitchState {
	return SwitchState{
		On: status != 0 && smap&status != 0,
	}
}

// DecodeFan decodes a status word for a fan controller.
//
// Branch priority matters: FanR3 wins over the FanR1|FanR2 pair, which
// wins over FanR2 alone, which wins over FanR1 alone. A non-zero word
// with none of the speed bits set decodes as on with speed 0.
//
// Parameters:
//   - status: Raw status word
//
// Returns:
//   - FanState: Decoded speed and on/off state
func DecodeFan(status uint32) FanState {
	var state FanState

	switch {
	case status&FanR3 != 0:
		state.Speed = 4
		state.Percentage = 100
	case status&FanR1 != 0 && status&FanR2 != 0:
		state.Speed = 3
		state.Percentage = 75
	case status&FanR2 != 0:
		state.Speed = 2
		state.Percentage = 50
	case status&FanR1 != 0:
		state.Speed = 1
		state.Percentage = 25
	}

	if status == 0 {
		return FanState{}
	}
	state.On = true
	return state
}

// DecodeCover decodes a status word for a cover controller.
//
// The push channel reports only fully open (status equals the smap
// exactly) or fully closed (anything else). Partial positions set via
// commands are not read back.
//
// Parameters:
//   - smap: The sub-device's bit position mask
//   - status: Raw status word
//
// Returns:
//   - CoverState: Fully open or fully closed
func DecodeCover(smap, status uint32) CoverState {
	if status == smap {
		return CoverState{Open: true, Position: PositionOpen}
	}
	return CoverState{Open: false, Position: PositionClosed}
}

// DecodeLight decodes a status word for an RGB light controller.
//
// The word packs the color as big-endian channel bytes:
//
//	bits 31-24: red
//	bits 23-16: green
//	bits 15-8:  blue
//	bits 7-0:   unused
//
// Brightness is the brightest of the three channels. A zero word means
// the light is off with color and brightness reset.
//
// Parameters:
//   - status: Raw status word
//
// Returns:
//   - LightState: Decoded color, brightness and on/off state
func DecodeLight(status uint32) LightState {
	if status == 0 {
		return LightState{}
	}

	r := uint8(status >> 24)
	g := uint8(status >> 16)
	b := uint8(status >> 8)

	return LightState{
		On:         true,
		Red:        r,
		Green:      g,
		Blue:       b,
		Brightness: maxChannel(r, g, b),
	}
}

// maxChannel returns the largest of three channel values.
func maxChannel(r, g, b uint8) uint8 {
	brightest := r
	if g > brightest {
		brightest = g
	}
	if b > brightest {
		brightest = b
	}
	return brightest
}
