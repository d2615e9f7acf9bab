package packet

import "errors"

// Decode errors. All of them mean the datagram is dropped; none are
// fatal to the listener.
var (
	// ErrPacketTooShort indicates a datagram below the minimum length.
	ErrPacketTooShort = errors.New("packet too short")

	// ErrBadSeparator indicates a missing ':' at a separator offset.
	ErrBadSeparator = errors.New("bad separator")

	// ErrBadSerial indicates a serial field with non-ASCII content.
	ErrBadSerial = errors.New("bad serial")
)
