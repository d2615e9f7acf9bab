package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/smarteefi/smarteefi-bridge/internal/device"
)

type fakeFetcher struct {
	devices []device.Device
	err     error
	calls   int
}

func (f *fakeFetcher) FetchDevices(ctx context.Context) ([]device.Device, error) {
	f.calls++
	return f.devices, f.err
}

type fakeStore struct {
	snapshot []device.Device
	listErr  error
	replaced [][]device.Device
}

func (s *fakeStore) ReplaceAll(ctx context.Context, devices []device.Device) error {
	s.replaced = append(s.replaced, devices)
	return nil
}

func (s *fakeStore) List(ctx context.Context) ([]device.Device, error) {
	return s.snapshot, s.listErr
}

type fakeApplier struct {
	added   []device.Device
	removed []device.Device
	calls   int
}

func (a *fakeApplier) Apply(added, removed []device.Device) {
	a.calls++
	a.added = append(a.added, added...)
	a.removed = append(a.removed, removed...)
}

func dev(id string) device.Device {
	return device.Device{ID: id, CloudID: 1, Class: device.ClassSwitch, Name: id}
}

func TestLoadFromCloud(t *testing.T) {
	fetcher := &fakeFetcher{devices: []device.Device{dev("A:0:1"), dev("A:0:2")}}
	store := &fakeStore{}
	applier := &fakeApplier{}
	registry := device.NewRegistry()

	m, err := New(Config{Fetcher: fetcher, Registry: registry, Store: store, Applier: applier})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	n, err := m.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != 2 {
		t.Fatalf("loaded %d devices, want 2", n)
	}
	if registry.Len() != 2 {
		t.Errorf("registry holds %d devices, want 2", registry.Len())
	}
	if len(store.replaced) != 1 || len(store.replaced[0]) != 2 {
		t.Errorf("snapshot not persisted: %v", store.replaced)
	}
	if len(applier.added) != 2 {
		t.Errorf("applier saw %d added, want 2", len(applier.added))
	}
}

func TestLoadFallsBackToSnapshot(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("cloud down")}
	store := &fakeStore{snapshot: []device.Device{dev("A:0:1")}}
	registry := device.NewRegistry()

	m, err := New(Config{Fetcher: fetcher, Registry: registry, Store: store})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	n, err := m.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != 1 {
		t.Fatalf("loaded %d devices, want 1", n)
	}
	if len(store.replaced) != 0 {
		t.Errorf("snapshot rewritten from fallback data")
	}
}

func TestLoadFailsWhenBothSourcesFail(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("cloud down")}
	store := &fakeStore{listErr: errors.New("disk gone")}
	registry := device.NewRegistry()

	m, err := New(Config{Fetcher: fetcher, Registry: registry, Store: store})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := m.Load(context.Background()); err == nil {
		t.Fatal("expected error when cloud and snapshot both fail")
	}
}

func TestRefreshAppliesDiff(t *testing.T) {
	fetcher := &fakeFetcher{devices: []device.Device{dev("A:0:1"), dev("A:0:2")}}
	store := &fakeStore{}
	applier := &fakeApplier{}
	registry := device.NewRegistry()

	m, err := New(Config{Fetcher: fetcher, Registry: registry, Store: store, Applier: applier})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	fetcher.devices = []device.Device{dev("A:0:2"), dev("B:0:1")}
	added, removed, err := m.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(added) != 1 || added[0].ID != "B:0:1" {
		t.Errorf("added = %v, want [B:0:1]", added)
	}
	if len(removed) != 1 || removed[0].ID != "A:0:1" {
		t.Errorf("removed = %v, want [A:0:1]", removed)
	}
	if len(store.replaced) != 2 {
		t.Errorf("snapshot persisted %d times, want 2", len(store.replaced))
	}
}

func TestRefreshPropagatesFetchError(t *testing.T) {
	fetcher := &fakeFetcher{devices: []device.Device{dev("A:0:1")}}
	registry := device.NewRegistry()

	m, err := New(Config{Fetcher: fetcher, Registry: registry})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	fetcher.err = errors.New("cloud down")
	if _, _, err := m.Refresh(context.Background()); err == nil {
		t.Fatal("expected fetch error to propagate")
	}
	if registry.Len() != 1 {
		t.Errorf("registry changed on failed refresh: %d devices", registry.Len())
	}
}
