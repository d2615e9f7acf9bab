// Package listener drives the push half of state synchronization.
//
// Smarteefi controllers broadcast a binary status datagram whenever
// their state changes. The listener binds one UDP socket for the life
// of the bridge, decodes every datagram and publishes the result to
// the update router. Malformed datagrams are logged and dropped; they
// never disturb the socket or other packets.
package listener
