// Package api serves the local administrative HTTP interface.
//
// The API is read-mostly: it exposes the device inventory with live
// state, bridge health with sync and listener counters, and three
// actions (full sync, targeted sync, inventory refresh). It binds to
// loopback by default and carries no authentication; anything beyond
// the local host should sit behind a reverse proxy.
//
// Routes (all under /api/v1):
//
//	GET  /health              bridge health and counters
//	GET  /devices             inventory with entity state
//	POST /devices/refresh     refetch inventory from the cloud
//	POST /devices/{id}/sync   poll one device's group now
//	POST /sync                run a full sync pass now
package api
