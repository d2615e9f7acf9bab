package packet

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Status packet layout constants.
//
// A controller announces state changes by broadcasting a fixed-layout
// binary datagram:
//
//	Byte 0-15:  ASCII serial, NUL-padded
//	Byte 16:    ':' separator
//	Byte 17-20: smap, little-endian uint32
//	Byte 21:    ':' separator
//	Byte 22-25: status, little-endian uint32
//	Byte 26+:   ignored
const (
	// serialLen is the fixed width of the NUL-padded serial field.
	serialLen = 16

	// sepFirst and sepSecond are the offsets of the ':' separators.
	sepFirst  = 16
	sepSecond = 21

	// smapOffset and statusOffset locate the two uint32 fields.
	smapOffset   = 17
	statusOffset = 22

	// MinLength is the minimum valid packet size. Trailing bytes
	// beyond it are ignored.
	MinLength = 26

	// separator is the field delimiter byte.
	separator = ':'
)

// StatusPacket is one decoded controller status announcement.
type StatusPacket struct {
	// Serial identifies the physical controller.
	Serial string

	// Smap is the bit position mask the announcement concerns.
	Smap uint32

	// Status is the raw status word.
	Status uint32
}

// Decode parses a raw datagram into a StatusPacket.
//
// Decoding is stateless and never partial: either the whole packet is
// valid or an error is returned and the caller drops it.
//
// Parameters:
//   - data: Raw datagram bytes
//
// Returns:
//   - StatusPacket: Decoded packet
//   - error: ErrPacketTooShort, ErrBadSeparator or ErrBadSerial
func Decode(data []byte) (StatusPacket, error) {
	if len(data) < MinLength {
		return StatusPacket{}, fmt.Errorf("%w: %d bytes, need at least %d",
			ErrPacketTooShort, len(data), MinLength)
	}

	if data[sepFirst] != separator {
		return StatusPacket{}, fmt.Errorf("%w: byte %d is %#x", ErrBadSeparator, sepFirst, data[sepFirst])
	}
	if data[sepSecond] != separator {
		return StatusPacket{}, fmt.Errorf("%w: byte %d is %#x", ErrBadSeparator, sepSecond, data[sepSecond])
	}

	serial, err := decodeSerial(data[:serialLen])
	if err != nil {
		return StatusPacket{}, err
	}

	return StatusPacket{
		Serial: serial,
		Smap:   binary.LittleEndian.Uint32(data[smapOffset : smapOffset+4]),
		Status: binary.LittleEndian.Uint32(data[statusOffset : statusOffset+4]),
	}, nil
}

// Encode builds the wire form of a StatusPacket.
//
// Serials longer than the 16-byte field are rejected. Used by the
// packet simulator and tests; real packets originate from controllers.
//
// Parameters:
//   - p: Packet to encode
//
// Returns:
//   - []byte: 26-byte datagram
//   - error: ErrBadSerial if the serial does not fit the field
func Encode(p StatusPacket) ([]byte, error) {
	if len(p.Serial) > serialLen {
		return nil, fmt.Errorf("%w: %q longer than %d bytes", ErrBadSerial, p.Serial, serialLen)
	}
	for i := 0; i < len(p.Serial); i++ {
		if p.Serial[i] == 0 || p.Serial[i] > 0x7F {
			return nil, fmt.Errorf("%w: %q contains non-ASCII byte", ErrBadSerial, p.Serial)
		}
	}

	buf := make([]byte, MinLength)
	copy(buf[:serialLen], p.Serial)
	buf[sepFirst] = separator
	binary.LittleEndian.PutUint32(buf[smapOffset:smapOffset+4], p.Smap)
	buf[sepSecond] = separator
	binary.LittleEndian.PutUint32(buf[statusOffset:statusOffset+4], p.Status)
	return buf, nil
}

// decodeSerial extracts the serial from its NUL-padded field.
// The serial is everything before the first NUL; every byte of it must
// be printable ASCII.
func decodeSerial(field []byte) (string, error) {
	end := bytes.IndexByte(field, 0)
	if end == -1 {
		end = len(field)
	}
	serial := field[:end]

	for _, c := range serial {
		if c < 0x20 || c > 0x7E {
			return "", fmt.Errorf("%w: byte %#x in serial field", ErrBadSerial, c)
		}
	}
	return string(serial), nil
}
