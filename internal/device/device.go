package device

import (
	"fmt"
	"strconv"
	"strings"
)

// Class identifies how a device's status word is decoded and which
// commands it accepts.
type Class string

// Supported device classes.
const (
	ClassSwitch Class = "switch"
	ClassFan    Class = "fan"
	ClassCover  Class = "cover"
	ClassLight  Class = "light"
)

// ParseClass converts a cloud inventory type string to a Class.
//
// Parameters:
//   - s: Type string from the inventory record
//
// Returns:
//   - Class: Matching class
//   - error: ErrUnknownClass if the string matches no class
func ParseClass(s string) (Class, error) {
	switch Class(strings.ToLower(s)) {
	case ClassSwitch:
		return ClassSwitch, nil
	case ClassFan:
		return ClassFan, nil
	case ClassCover:
		return ClassCover, nil
	case ClassLight:
		return ClassLight, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownClass, s)
	}
}

// Device is one controllable logical unit. Several Devices can share a
// physical controller, each occupying one smap bit position.
type Device struct {
	// ID is the three-part identifier "serial:module:smap".
	ID string

	// CloudID is the secondary identifier the control CLI requires.
	CloudID int

	// Class selects the status decoding rules. Fixed at creation.
	Class Class

	// Name is the display label. Not semantically load-bearing.
	Name string
}

// Identity is the parsed form of a Device ID.
type Identity struct {
	// Serial identifies the physical controller.
	Serial string

	// Module is the middle ID segment. It takes part in grouping but
	// carries no other meaning here.
	Module string

	// Smap is the bit position mask of this logical sub-device.
	Smap uint32
}

// ParseID splits a device ID into its identity parts.
//
// The format is "serial:module:smap" where smap is a base-10 unsigned
// integer.
//
// Parameters:
//   - id: Three-part device identifier
//
// Returns:
//   - Identity: Parsed parts
//   - error: ErrInvalidDeviceID if the format does not match
func ParseID(id string) (Identity, error) {
	parts := strings.Split(id, ":")
	if len(parts) != 3 {
		return Identity{}, fmt.Errorf("%w: %q has %d parts, want 3", ErrInvalidDeviceID, id, len(parts))
	}
	if parts[0] == "" {
		return Identity{}, fmt.Errorf("%w: %q has empty serial", ErrInvalidDeviceID, id)
	}

	smap, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %q has non-numeric smap: %v", ErrInvalidDeviceID, id, err)
	}

	return Identity{
		Serial: parts[0],
		Module: parts[1],
		Smap:   uint32(smap),
	}, nil
}

// Identity parses the device's ID.
func (d Device) Identity() (Identity, error) {
	return ParseID(d.ID)
}

// RoutingKey is the "serial:smap" address used to deliver status
// updates to every device sharing a controller and a bit position.
// The push listener and the sync coordinator must compute it the same
// way, which is why it only exists in derived form.
func (i Identity) RoutingKey() string {
	return i.Serial + ":" + strconv.FormatUint(uint64(i.Smap), 10)
}

// GroupKey is the "serial:module" prefix shared by all sub-devices of
// one physical controller. Devices with equal GroupKeys are polled
// together.
func (i Identity) GroupKey() string {
	return i.Serial + ":" + i.Module
}
