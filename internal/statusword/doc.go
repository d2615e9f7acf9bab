// Package statusword decodes raw device status words into semantic
// per-class state, and encodes command arguments in the other
// direction.
//
// A Smarteefi controller reports the state of all its logical
// sub-devices as one 32-bit unsigned word. Each device class reads
// that word differently:
//
//	switch: the sub-device's smap bit selects its on/off bit
//	fan:    bits 0x10/0x20/0x40 combine into four speed steps
//	cover:  status == smap means fully open, anything else closed
//	light:  the word packs R/G/B channel bytes plus brightness
//
// Every function in this package is pure. No I/O, no state.
package statusword
