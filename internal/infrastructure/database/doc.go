// Package database provides SQLite connection management for the
// Smarteefi bridge's device snapshot store.
//
// The bridge persists the last cloud device inventory locally so it
// can start and serve state even when the cloud API is unreachable.
// SQLite is configured with WAL mode and a busy timeout, and the pool
// is capped at a single connection because SQLite supports only one
// writer.
package database
