// Package device models the controllable units the bridge manages.
//
// A physical Smarteefi controller exposes several logical sub-devices,
// each occupying one bit position (smap) in the controller's status
// word. Device IDs take the form "serial:module:smap"; devices sharing
// the "serial:module" prefix share a controller and are polled as one
// Group with an OR-combined smap mask.
//
// The package holds the in-memory Registry the sync coordinator reads,
// the grouping logic both poll and push paths rely on, and a SQLite
// Repository that snapshots the inventory for offline startup.
package device
