package device

import (
	"context"
	"fmt"

	"github.com/smarteefi/smarteefi-bridge/internal/infrastructure/database"
)

// Repository persists the device inventory snapshot in SQLite.
//
// The snapshot is written after each successful cloud refresh and read
// at startup, so the bridge can poll known devices even when the cloud
// API is unreachable.
type Repository struct {
	db *database.DB
}

// NewRepository creates a Repository backed by the given database.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Init creates the snapshot table if it does not exist.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: If table creation fails
func (r *Repository) Init(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS devices (
			id       TEXT PRIMARY KEY,
			cloud_id INTEGER NOT NULL,
			class    TEXT NOT NULL,
			name     TEXT NOT NULL
		)`

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating devices table: %w", err)
	}
	return nil
}

// ReplaceAll replaces the stored snapshot with a new device list in a
// single transaction.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - devices: New complete device list
//
// Returns:
//   - error: If the transaction fails; the old snapshot is kept intact
func (r *Repository) ReplaceAll(ctx context.Context, devices []Device) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM devices"); err != nil {
		return fmt.Errorf("clearing devices: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO devices (id, cloud_id, class, name) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck // Closed with the transaction

	for _, d := range devices {
		if _, err := stmt.ExecContext(ctx, d.ID, d.CloudID, string(d.Class), d.Name); err != nil {
			return fmt.Errorf("inserting device %s: %w", d.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// List loads the stored snapshot sorted by ID.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - []Device: Stored devices, empty if no snapshot exists
//   - error: If the query fails
func (r *Repository) List(ctx context.Context) ([]Device, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, cloud_id, class, name FROM devices ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only rows

	var devices []Device
	for rows.Next() {
		var d Device
		var class string
		if err := rows.Scan(&d.ID, &d.CloudID, &class, &d.Name); err != nil {
			return nil, fmt.Errorf("scanning device row: %w", err)
		}
		d.Class = Class(class)
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating device rows: %w", err)
	}
	return devices, nil
}
