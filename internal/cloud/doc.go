// Package cloud fetches the account's device inventory from the
// Smarteefi cloud API.
//
// This is the only outbound internet dependency in the bridge, and it
// is read-only: device control and status both run over the local
// network. The fetched inventory is cached in SQLite so a cloud outage
// does not prevent startup.
package cloud
