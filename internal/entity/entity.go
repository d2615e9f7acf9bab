package entity

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/smarteefi/smarteefi-bridge/internal/device"
	"github.com/smarteefi/smarteefi-bridge/internal/executor"
	"github.com/smarteefi/smarteefi-bridge/internal/router"
	"github.com/smarteefi/smarteefi-bridge/internal/statusword"
)

// Logger defines the logging interface for entities.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// State is one entity's displayed state. Which fields carry meaning
// depends on the device class; the rest stay zero.
type State struct {
	// Available reports whether the last reading could be trusted.
	Available bool

	// On is the on/off state. Meaningful for every class.
	On bool

	// Speed and Percentage are the fan speed step and its percent.
	Speed      int
	Percentage int

	// Position is the cover's percent open. Maintained locally for
	// partial positions; status reads only confirm the extremes.
	Position int

	// Red, Green, Blue and Brightness are the light's color state.
	Red        uint8
	Green      uint8
	Blue       uint8
	Brightness uint8
}

// Entity is one logical device the bridge mirrors and controls.
//
// All four device classes share this type; the class tag selects the
// status decoding rules and which commands are accepted. An entity
// subscribes to its routing key on activation and applies every
// update to its own displayed state.
type Entity struct {
	dev    device.Device
	ident  device.Identity
	runner executor.Runner
	logger Logger

	mu    sync.Mutex
	state State
	unsub func()
}

// New creates an Entity for a device.
//
// Parameters:
//   - dev: Device from the inventory
//   - runner: Command executor for the control path
//   - logger: Diagnostic output. Optional.
//
// Returns:
//   - *Entity: Inactive entity; call Activate to receive updates
//   - error: If the device ID does not parse
func New(dev device.Device, runner executor.Runner, logger Logger) (*Entity, error) {
	ident, err := dev.Identity()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Entity{
		dev:    dev,
		ident:  ident,
		runner: runner,
		logger: logger,
	}, nil
}

// Device returns the underlying inventory record.
func (e *Entity) Device() device.Device { return e.dev }

// RoutingKey returns the entity's update address.
func (e *Entity) RoutingKey() string { return e.ident.RoutingKey() }

// State returns a copy of the current displayed state.
func (e *Entity) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Activate subscribes the entity to its routing key. Idempotent.
func (e *Entity) Activate(r *router.Router) {
	if e.unsub != nil {
		return
	}
	e.unsub = r.Subscribe(e.ident.RoutingKey(), e.handleUpdate)
}

// Deactivate unsubscribes the entity. Idempotent.
func (e *Entity) Deactivate() {
	if e.unsub != nil {
		e.unsub()
		e.unsub = nil
	}
}

// handleUpdate applies one status update to the displayed state.
//
// The update carries the full status word, combined across the whole
// group on the poll path; the entity masks with its own smap where the
// class calls for it. A cover's locally tracked partial position is
// only overwritten when the reading reports an extreme it does not
// already show.
func (e *Entity) handleUpdate(u router.StatusUpdate) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !u.Available {
		e.state.Available = false
		return
	}
	e.state.Available = true

	switch e.dev.Class {
	case device.ClassSwitch:
		e.state.On = statusword.DecodeSwitch(e.ident.Smap, u.Status).On

	case device.ClassFan:
		fan := statusword.DecodeFan(u.Status)
		e.state.On = fan.On
		e.state.Speed = fan.Speed
		e.state.Percentage = fan.Percentage

	case device.ClassCover:
		cover := statusword.DecodeCover(e.ident.Smap, u.Status)
		e.state.On = cover.Open
		e.state.Position = cover.Position

	case device.ClassLight:
		light := statusword.DecodeLight(u.Status)
		e.state.On = light.On
		e.state.Red = light.Red
		e.state.Green = light.Green
		e.state.Blue = light.Blue
		e.state.Brightness = light.Brightness
	}
}

// TurnOn switches the device on. Valid for every class.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - error: If the control command fails
func (e *Entity) TurnOn(ctx context.Context) error {
	if _, err := e.runner.Run(ctx, executor.CmdSetStatus, e.dev.ID, e.dev.CloudID, "1"); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.On = true
	if e.dev.Class == device.ClassCover {
		e.state.Position = statusword.PositionOpen
	}
	return nil
}

// TurnOff switches the device off. Valid for every class.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - error: If the control command fails
func (e *Entity) TurnOff(ctx context.Context) error {
	if _, err := e.runner.Run(ctx, executor.CmdSetStatus, e.dev.ID, e.dev.CloudID, "0"); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.On = false
	switch e.dev.Class {
	case device.ClassFan:
		e.state.Speed = 0
		e.state.Percentage = 0
	case device.ClassCover:
		e.state.Position = statusword.PositionClosed
	case device.ClassLight:
		e.state.Red, e.state.Green, e.state.Blue = 0, 0, 0
		e.state.Brightness = 0
	}
	return nil
}

// SetSpeed sets a fan's speed step. Speed 0 turns the fan off.
//
// Parameters:
//   - ctx: Context for cancellation
//   - speed: Speed step, 0 through 4
//
// Returns:
//   - error: ErrUnsupportedCommand for non-fans, ErrInvalidArgument
//     for speeds outside 0-4, or the command failure
func (e *Entity) SetSpeed(ctx context.Context, speed int) error {
	if e.dev.Class != device.ClassFan {
		return fmt.Errorf("%w: set-speed on %s", ErrUnsupportedCommand, e.dev.Class)
	}
	if speed < 0 || speed > 4 {
		return fmt.Errorf("%w: speed %d not in 0-4", ErrInvalidArgument, speed)
	}
	if speed == 0 {
		return e.TurnOff(ctx)
	}

	if _, err := e.runner.Run(ctx, executor.CmdSetSpeed, e.dev.ID, e.dev.CloudID, strconv.Itoa(speed)); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.On = true
	e.state.Speed = speed
	e.state.Percentage = speed * 25
	return nil
}

// SetPosition moves a cover to a target percent open.
//
// The device takes a direction flag and a relative percentage, so the
// entity computes the move from its locally tracked position. Status
// reads never report partial positions back; the local value is the
// only bookkeeping.
//
// Parameters:
//   - ctx: Context for cancellation
//   - position: Target percent open, 0-100
//
// Returns:
//   - error: ErrUnsupportedCommand for non-covers, ErrInvalidArgument
//     for positions outside 0-100, or the command failure
func (e *Entity) SetPosition(ctx context.Context, position int) error {
	if e.dev.Class != device.ClassCover {
		return fmt.Errorf("%w: set-position on %s", ErrUnsupportedCommand, e.dev.Class)
	}
	if position < 0 || position > 100 {
		return fmt.Errorf("%w: position %d not in 0-100", ErrInvalidArgument, position)
	}

	e.mu.Lock()
	current := e.state.Position
	e.mu.Unlock()

	var direction, delta string
	switch {
	case position == statusword.PositionClosed:
		direction, delta = "0", "0"
	case position == statusword.PositionOpen:
		direction, delta = "1", "0"
	case position > current:
		direction, delta = "1", strconv.Itoa(position-current)
	case position < current:
		direction, delta = "0", strconv.Itoa(current-position)
	default:
		// Already there.
		return nil
	}

	if _, err := e.runner.Run(ctx, executor.CmdSetStatus, e.dev.ID, e.dev.CloudID, direction, delta); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Position = position
	e.state.On = position != statusword.PositionClosed
	return nil
}

// SetColor sets a light's RGB color. Channels are clamped to 0-255.
//
// Parameters:
//   - ctx: Context for cancellation
//   - r, g, b: Channel values
//
// Returns:
//   - error: ErrUnsupportedCommand for non-lights, or the command failure
func (e *Entity) SetColor(ctx context.Context, r, g, b int) error {
	if e.dev.Class != device.ClassLight {
		return fmt.Errorf("%w: set-rgb-color on %s", ErrUnsupportedCommand, e.dev.Class)
	}

	hex := statusword.RGBToHex(r, g, b)
	if _, err := e.runner.Run(ctx, executor.CmdSetRGBColor, e.dev.ID, e.dev.CloudID, hex); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.On = true
	e.state.Red = clamp8(r)
	e.state.Green = clamp8(g)
	e.state.Blue = clamp8(b)
	return nil
}

// SetBrightness sets a light's brightness on the 0-255 scale.
//
// Parameters:
//   - ctx: Context for cancellation
//   - brightness: Brightness, must be in 0-255
//
// Returns:
//   - error: ErrUnsupportedCommand for non-lights, the encoder's
//     domain error for out-of-range input, or the command failure
func (e *Entity) SetBrightness(ctx context.Context, brightness int) error {
	if e.dev.Class != device.ClassLight {
		return fmt.Errorf("%w: set-intensity on %s", ErrUnsupportedCommand, e.dev.Class)
	}

	intensity, err := statusword.ToIntensity(brightness)
	if err != nil {
		return err
	}

	if _, err := e.runner.Run(ctx, executor.CmdSetIntensity, e.dev.ID, e.dev.CloudID, strconv.Itoa(intensity)); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.On = brightness > 0
	e.state.Brightness = uint8(brightness)
	return nil
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
