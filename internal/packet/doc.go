// Package packet parses the fixed-layout binary status datagrams that
// Smarteefi controllers broadcast on the local network.
//
// A datagram carries the controller serial, the smap bit mask the
// announcement concerns, and the raw status word. Decoding is pure and
// all-or-nothing: malformed datagrams produce an error and are dropped
// by the caller, never a partial result.
package packet
