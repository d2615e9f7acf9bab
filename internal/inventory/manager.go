// Package inventory keeps the device registry, the database snapshot,
// and the live entity set in agreement with the cloud account.
package inventory

import (
	"context"
	"fmt"

	"github.com/smarteefi/smarteefi-bridge/internal/device"
)

// Logger receives diagnostic output. Compatible with *logging.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Fetcher retrieves the device inventory from the cloud API.
type Fetcher interface {
	FetchDevices(ctx context.Context) ([]device.Device, error)
}

// Store persists the inventory snapshot between runs.
type Store interface {
	ReplaceAll(ctx context.Context, devices []Device) error
	List(ctx context.Context) ([]Device, error)
}

// Device aliases the inventory record type for Store implementors.
type Device = device.Device

// Applier reacts to inventory diffs. Satisfied by *entity.Set.
type Applier interface {
	Apply(added, removed []device.Device)
}

// Manager orchestrates inventory loads and refreshes.
type Manager struct {
	fetcher  Fetcher
	registry *device.Registry
	store    Store
	applier  Applier
	logger   Logger
}

// Config collects Manager dependencies.
type Config struct {
	// Fetcher retrieves devices from the cloud. Required.
	Fetcher Fetcher

	// Registry is the in-memory inventory. Required.
	Registry *device.Registry

	// Store persists snapshots. Optional; without it the bridge
	// cannot start while the cloud is unreachable.
	Store Store

	// Applier receives diffs after every load or refresh. Optional.
	Applier Applier

	// Logger receives diagnostic output. Optional.
	Logger Logger
}

// New creates a Manager.
func New(cfg Config) (*Manager, error) {
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("inventory: fetcher is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("inventory: registry is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = noopLogger{}
	}
	return &Manager{
		fetcher:  cfg.Fetcher,
		registry: cfg.Registry,
		store:    cfg.Store,
		applier:  cfg.Applier,
		logger:   cfg.Logger,
	}, nil
}

// Load populates the registry at startup.
//
// The cloud is the source of truth; when it answers, the snapshot in
// the store is rewritten to match. When it does not, the last
// persisted snapshot keeps the bridge serving known devices until the
// next successful refresh.
//
// Parameters:
//   - ctx: Cancellation context
//
// Returns:
//   - int: Number of devices loaded
//   - error: Only when both cloud and store fail
func (m *Manager) Load(ctx context.Context) (int, error) {
	devices, err := m.fetcher.FetchDevices(ctx)
	if err == nil {
		m.apply(devices)
		m.persist(ctx, devices)
		m.logger.Info("inventory loaded from cloud", "devices", len(devices))
		return len(devices), nil
	}

	m.logger.Warn("cloud fetch failed, falling back to stored snapshot", "error", err)

	if m.store == nil {
		return 0, fmt.Errorf("inventory: cloud fetch failed and no store configured: %w", err)
	}
	devices, storeErr := m.store.List(ctx)
	if storeErr != nil {
		return 0, fmt.Errorf("inventory: cloud fetch failed (%v) and snapshot load failed: %w", err, storeErr)
	}
	m.apply(devices)
	m.logger.Info("inventory loaded from snapshot", "devices", len(devices))
	return len(devices), nil
}

// Refresh refetches the inventory from the cloud and applies the diff.
//
// Returns:
//   - added: Devices new since the previous inventory
//   - removed: Devices gone since the previous inventory
//   - err: Wrapped fetch or persistence error
func (m *Manager) Refresh(ctx context.Context) (added, removed []device.Device, err error) {
	devices, err := m.fetcher.FetchDevices(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("inventory: refresh: %w", err)
	}

	added, removed = m.registry.Replace(devices)
	if m.applier != nil {
		m.applier.Apply(added, removed)
	}
	m.persist(ctx, devices)

	m.logger.Info("inventory refreshed",
		"devices", len(devices),
		"added", len(added),
		"removed", len(removed),
	)
	return added, removed, nil
}

func (m *Manager) apply(devices []device.Device) {
	added, removed := m.registry.Replace(devices)
	if m.applier != nil {
		m.applier.Apply(added, removed)
	}
}

func (m *Manager) persist(ctx context.Context, devices []device.Device) {
	if m.store == nil {
		return
	}
	if err := m.store.ReplaceAll(ctx, devices); err != nil {
		m.logger.Warn("snapshot persist failed", "error", err)
	}
}
