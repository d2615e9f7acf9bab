package coordinator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/smarteefi/smarteefi-bridge/internal/device"
	"github.com/smarteefi/smarteefi-bridge/internal/executor"
	"github.com/smarteefi/smarteefi-bridge/internal/router"
)

// staticDevices is a fixed inventory source.
type staticDevices []device.Device

func (s staticDevices) List() []device.Device { return s }

// scriptedRunner returns canned results in order and records calls.
type scriptedRunner struct {
	mu      sync.Mutex
	outputs []string
	errs    []error
	calls   []string // device IDs in call order
}

func (r *scriptedRunner) Run(_ context.Context, _, deviceID string, _ int, _ ...string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := len(r.calls)
	r.calls = append(r.calls, deviceID)
	if i < len(r.errs) && r.errs[i] != nil {
		return "", r.errs[i]
	}
	if i < len(r.outputs) {
		return r.outputs[i], nil
	}
	return "0", nil
}

func (r *scriptedRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// collector records published updates.
type collector struct {
	mu      sync.Mutex
	updates []router.StatusUpdate
}

func (c *collector) Publish(u router.StatusUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates = append(c.updates, u)
}

func (c *collector) all() []router.StatusUpdate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]router.StatusUpdate(nil), c.updates...)
}

func newTestCoordinator(t *testing.T, cfg Config) *Coordinator {
	t.Helper()
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = time.Hour
	}
	if cfg.RegularInterval == 0 {
		cfg.RegularInterval = time.Hour
	}
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(c.Stop)
	return c
}

var groupedInventory = staticDevices{
	{ID: "A:x:1", CloudID: 10, Class: device.ClassSwitch},
	{ID: "A:x:2", CloudID: 10, Class: device.ClassSwitch},
	{ID: "A:x:4", CloudID: 10, Class: device.ClassFan},
}

func TestSyncAllPollsOneCommandPerGroup(t *testing.T) {
	runner := &scriptedRunner{outputs: []string{"5"}}
	sink := &collector{}

	c := newTestCoordinator(t, Config{
		Runner:    runner,
		Devices:   groupedInventory,
		Publisher: sink,
	})

	if err := c.SyncAll(context.Background()); err != nil {
		t.Fatalf("SyncAll() error = %v", err)
	}

	if got := runner.callCount(); got != 1 {
		t.Fatalf("runner calls = %d, want exactly 1 for the group", got)
	}
	if runner.calls[0] != "A:x:7" {
		t.Errorf("poll device id = %q, want A:x:7 (combined smap)", runner.calls[0])
	}

	updates := sink.all()
	if len(updates) != 3 {
		t.Fatalf("published %d updates, want 3 (one per member)", len(updates))
	}
	wantKeys := map[string]bool{"A:1": false, "A:2": false, "A:4": false}
	for _, u := range updates {
		if !u.Available {
			t.Errorf("update %+v should be available", u)
		}
		if u.Smap != 7 {
			t.Errorf("update smap = %d, want combined 7", u.Smap)
		}
		if u.Status != 5 {
			t.Errorf("update status = %d, want 5", u.Status)
		}
		wantKeys[u.RoutingKey] = true
	}
	for k, seen := range wantKeys {
		if !seen {
			t.Errorf("no update published for routing key %s", k)
		}
	}
}

func TestSyncAllRetriesOnceThenMarksGroupUnavailable(t *testing.T) {
	runner := &scriptedRunner{
		errs: []error{executor.ErrCommandFailed, executor.ErrCommandFailed},
	}
	sink := &collector{}

	c := newTestCoordinator(t, Config{
		RetryDelay: time.Millisecond,
		Runner:     runner,
		Devices:    groupedInventory,
		Publisher:  sink,
	})

	if err := c.SyncAll(context.Background()); err != nil {
		t.Fatalf("SyncAll() error = %v", err)
	}

	if got := runner.callCount(); got != 2 {
		t.Fatalf("runner calls = %d, want exactly 2 (no third attempt)", got)
	}

	updates := sink.all()
	if len(updates) != 3 {
		t.Fatalf("published %d updates, want 3 unavailable", len(updates))
	}
	for _, u := range updates {
		if u.Available {
			t.Errorf("update %+v should be unavailable", u)
		}
	}

	if c.Stats().GroupFailures != 1 {
		t.Errorf("GroupFailures = %d, want 1", c.Stats().GroupFailures)
	}
}

func TestSyncAllTreatsNonNumericResultAsFailure(t *testing.T) {
	runner := &scriptedRunner{outputs: []string{"not-a-number"}}
	sink := &collector{}

	c := newTestCoordinator(t, Config{
		Runner:    runner,
		Devices:   groupedInventory,
		Publisher: sink,
	})

	if err := c.SyncAll(context.Background()); err != nil {
		t.Fatalf("SyncAll() error = %v", err)
	}

	for _, u := range sink.all() {
		if u.Available {
			t.Errorf("update %+v should be unavailable after parse failure", u)
		}
	}
}

func TestSyncAllPollsGroupsSequentially(t *testing.T) {
	runner := &scriptedRunner{outputs: []string{"1", "2"}}
	sink := &collector{}

	c := newTestCoordinator(t, Config{
		Runner: runner,
		Devices: staticDevices{
			{ID: "A:x:1", CloudID: 10},
			{ID: "B:0:1", CloudID: 20},
		},
		Publisher: sink,
	})

	if err := c.SyncAll(context.Background()); err != nil {
		t.Fatalf("SyncAll() error = %v", err)
	}

	if runner.callCount() != 2 {
		t.Fatalf("runner calls = %d, want 2", runner.callCount())
	}
	if runner.calls[0] != "A:x:1" || runner.calls[1] != "B:0:1" {
		t.Errorf("poll order = %v, want [A:x:1 B:0:1]", runner.calls)
	}
}

func TestSyncDeviceTargetsOnlyItsGroup(t *testing.T) {
	runner := &scriptedRunner{outputs: []string{"3"}}
	sink := &collector{}

	c := newTestCoordinator(t, Config{
		Runner: runner,
		Devices: staticDevices{
			{ID: "A:x:1", CloudID: 10},
			{ID: "A:x:2", CloudID: 10},
			{ID: "B:0:1", CloudID: 20},
		},
		Publisher: sink,
	})

	if err := c.SyncDevice(context.Background(), "A:x:2"); err != nil {
		t.Fatalf("SyncDevice() error = %v", err)
	}

	if runner.callCount() != 1 || runner.calls[0] != "A:x:3" {
		t.Errorf("calls = %v, want one poll of A:x:3", runner.calls)
	}
	if len(sink.all()) != 2 {
		t.Errorf("published %d updates, want 2 (group members only)", len(sink.all()))
	}
}

func TestSyncDeviceUnknown(t *testing.T) {
	c := newTestCoordinator(t, Config{
		Runner:    &scriptedRunner{},
		Devices:   staticDevices{},
		Publisher: &collector{},
	})

	err := c.SyncDevice(context.Background(), "Z:9:1")
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("SyncDevice() error = %v, want ErrDeviceNotFound", err)
	}
}

func TestTickSkippedWhenNotReady(t *testing.T) {
	runner := &scriptedRunner{}

	c := newTestCoordinator(t, Config{
		InitialInterval: 10 * time.Millisecond,
		RegularInterval: 10 * time.Millisecond,
		Runner:          runner,
		Devices:         groupedInventory,
		Publisher:       &collector{},
		Ready:           func() bool { return false },
	})

	c.Start()
	time.Sleep(100 * time.Millisecond)
	c.Stop()

	if got := runner.callCount(); got != 0 {
		t.Errorf("runner calls = %d, want 0 while not ready", got)
	}
}

func TestIntervalTransitionIsOneShot(t *testing.T) {
	runner := &scriptedRunner{outputs: []string{"1", "1", "1"}}

	c := newTestCoordinator(t, Config{
		InitialInterval: 20 * time.Millisecond,
		RegularInterval: 10 * time.Second,
		Runner:          runner,
		Devices:         staticDevices{{ID: "A:x:1", CloudID: 10}},
		Publisher:       &collector{},
	})

	c.Start()
	time.Sleep(300 * time.Millisecond)
	c.Stop()

	// The first tick fires at the initial interval; the second is
	// rescheduled at the regular interval and never happens within
	// the window.
	if got := c.Stats().SyncPasses; got != 1 {
		t.Errorf("sync passes = %d, want exactly 1 inside the window", got)
	}
}

func TestNewValidatesDependencies(t *testing.T) {
	_, err := New(Config{
		InitialInterval: time.Second,
		RegularInterval: time.Second,
	})
	if !errors.Is(err, ErrMissingDependency) {
		t.Errorf("New() error = %v, want ErrMissingDependency", err)
	}

	_, err = New(Config{
		Runner:    &scriptedRunner{},
		Devices:   staticDevices{},
		Publisher: &collector{},
	})
	if !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("New() error = %v, want ErrInvalidInterval", err)
	}
}
