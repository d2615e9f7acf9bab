package device

import (
	"sort"
	"sync"
)

// Registry holds the current in-memory device inventory.
//
// The coordinator reads it on every poll pass and the cloud refresh
// replaces its contents, so access is guarded. Reads vastly outnumber
// writes.
type Registry struct {
	mu      sync.RWMutex
	devices map[string]Device
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		devices: make(map[string]Device),
	}
}

// Replace swaps the full inventory for a new snapshot and reports the
// difference, so the caller can activate new entities and tear down
// removed ones.
//
// Parameters:
//   - devices: New complete device list
//
// Returns:
//   - added: Devices present now but not before
//   - removed: Devices present before but absent now
func (r *Registry) Replace(devices []Device) (added, removed []Device) {
	next := make(map[string]Device, len(devices))
	for _, d := range devices {
		next[d.ID] = d
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, d := range next {
		if _, ok := r.devices[id]; !ok {
			added = append(added, d)
		}
	}
	for id, d := range r.devices {
		if _, ok := next[id]; !ok {
			removed = append(removed, d)
		}
	}

	r.devices = next

	sortByID(added)
	sortByID(removed)
	return added, removed
}

// List returns a snapshot of all devices sorted by ID.
func (r *Registry) List() []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Device, 0, len(r.devices))
	for _, d := range r.devices {
		out = append(out, d)
	}
	sortByID(out)
	return out
}

// Get looks up a device by ID.
func (r *Registry) Get(id string) (Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.devices[id]
	return d, ok
}

// Len returns the number of devices in the inventory.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}

func sortByID(devices []Device) {
	sort.Slice(devices, func(i, j int) bool { return devices[i].ID < devices[j].ID })
}
