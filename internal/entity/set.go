package entity

import (
	"sort"
	"sync"

	"github.com/smarteefi/smarteefi-bridge/internal/device"
	"github.com/smarteefi/smarteefi-bridge/internal/executor"
	"github.com/smarteefi/smarteefi-bridge/internal/router"
)

// Set owns the live entities, one per inventory device.
//
// Inventory refreshes produce added/removed diffs; Apply keeps the set
// in step, activating new entities and deactivating removed ones so
// their subscriptions never outlive their devices.
type Set struct {
	runner executor.Runner
	router *router.Router
	logger Logger

	mu       sync.RWMutex
	entities map[string]*Entity
}

// NewSet creates an empty Set.
//
// Parameters:
//   - runner: Command executor shared by all entities
//   - r: Update router entities subscribe to
//   - logger: Diagnostic output. Optional.
func NewSet(runner executor.Runner, r *router.Router, logger Logger) *Set {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Set{
		runner:   runner,
		router:   r,
		logger:   logger,
		entities: make(map[string]*Entity),
	}
}

// Apply brings the set in line with an inventory diff.
//
// Devices whose IDs do not parse are logged and skipped; everything
// else gets an active entity. Removed devices are deactivated and
// dropped.
//
// Parameters:
//   - added: Devices new to the inventory
//   - removed: Devices gone from the inventory
func (s *Set) Apply(added, removed []device.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range removed {
		if e, ok := s.entities[d.ID]; ok {
			e.Deactivate()
			delete(s.entities, d.ID)
			s.logger.Info("entity removed", "device_id", d.ID)
		}
	}

	for _, d := range added {
		if _, ok := s.entities[d.ID]; ok {
			continue
		}
		e, err := New(d, s.runner, s.logger)
		if err != nil {
			s.logger.Warn("skipping device with malformed id", "device_id", d.ID)
			continue
		}
		e.Activate(s.router)
		s.entities[d.ID] = e
		s.logger.Info("entity added",
			"device_id", d.ID,
			"class", string(d.Class),
		)
	}
}

// Get looks up the live entity for a device ID.
func (s *Set) Get(id string) (*Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[id]
	return e, ok
}

// All returns the live entities sorted by device ID.
func (s *Set) All() []*Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Entity, 0, len(s.entities))
	for _, e := range s.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].dev.ID < out[j].dev.ID })
	return out
}

// Len returns the number of live entities.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// Close deactivates every entity. Called on shutdown.
func (s *Set) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.entities {
		e.Deactivate()
		delete(s.entities, id)
	}
}
