package coordinator

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/smarteefi/smarteefi-bridge/internal/device"
	"github.com/smarteefi/smarteefi-bridge/internal/executor"
	"github.com/smarteefi/smarteefi-bridge/internal/router"
)

// Logger defines the logging interface for the coordinator.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// DeviceSource supplies the current device inventory.
type DeviceSource interface {
	List() []device.Device
}

// Publisher receives the status updates a sync pass produces.
type Publisher interface {
	Publish(router.StatusUpdate)
}

// Config holds coordinator configuration.
type Config struct {
	// InitialInterval is the poll interval before the first tick.
	InitialInterval time.Duration

	// RegularInterval is the poll interval from the second tick on.
	RegularInterval time.Duration

	// GroupDelay is the pause between consecutive group polls.
	GroupDelay time.Duration

	// RetryDelay is the pause before the single retry of a failed poll.
	RetryDelay time.Duration

	// Runner executes the get-status commands.
	Runner executor.Runner

	// Devices supplies the inventory each pass reads.
	Devices DeviceSource

	// Publisher receives every StatusUpdate. Usually the router.
	Publisher Publisher

	// Ready gates timer ticks: when it returns false the tick is a
	// no-op and the schedule continues unchanged. Nil means always
	// ready. Manual syncs bypass the gate.
	Ready func() bool

	// Logger receives diagnostic output. Optional.
	Logger Logger
}

// Stats holds coordinator counters, all updated atomically.
type Stats struct {
	// SyncPasses counts completed full passes, timer or manual.
	SyncPasses uint64

	// GroupPolls counts individual group poll attempts.
	GroupPolls uint64

	// GroupFailures counts groups marked unavailable after retry
	// exhaustion.
	GroupFailures uint64
}

// Coordinator polls device groups on a timer and publishes the
// readings as status updates.
//
// The timer starts at the initial interval and switches to the regular
// interval after the first tick fires. The switch happens exactly once
// and never reverts, even when the first tick was skipped by the ready
// gate.
type Coordinator struct {
	cfg    Config
	logger Logger

	// syncMu serializes sync passes so a manual trigger never
	// overlaps a timer pass. The group loop within a pass is
	// sequential to bound load on the physical network.
	syncMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	started   bool

	syncPasses    atomic.Uint64
	groupPolls    atomic.Uint64
	groupFailures atomic.Uint64
}

// New creates a Coordinator. It does not start the timer.
//
// Parameters:
//   - cfg: Coordinator configuration
//
// Returns:
//   - *Coordinator: Ready to Start
//   - error: If a required dependency or interval is missing
func New(cfg Config) (*Coordinator, error) {
	if cfg.Runner == nil {
		return nil, fmt.Errorf("%w: runner", ErrMissingDependency)
	}
	if cfg.Devices == nil {
		return nil, fmt.Errorf("%w: device source", ErrMissingDependency)
	}
	if cfg.Publisher == nil {
		return nil, fmt.Errorf("%w: publisher", ErrMissingDependency)
	}
	if cfg.InitialInterval <= 0 || cfg.RegularInterval <= 0 {
		return nil, ErrInvalidInterval
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		cfg:    cfg,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}, nil
}

// Start launches the poll timer. Safe to call once.
func (c *Coordinator) Start() {
	if c.started {
		return
	}
	c.started = true

	c.wg.Add(1)
	go c.loop()

	c.logger.Info("sync coordinator started",
		"initial_interval", c.cfg.InitialInterval.String(),
		"regular_interval", c.cfg.RegularInterval.String(),
	)
}

// Stop cancels the timer and any in-flight pass, then waits for the
// loop to exit. Safe to call multiple times.
func (c *Coordinator) Stop() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.cancel()
	})
	c.wg.Wait()
}

// Stats returns a snapshot of the coordinator counters.
func (c *Coordinator) Stats() Stats {
	return Stats{
		SyncPasses:    c.syncPasses.Load(),
		GroupPolls:    c.groupPolls.Load(),
		GroupFailures: c.groupFailures.Load(),
	}
}

// loop runs ticks at the initial interval, then at the regular
// interval after the first tick. The transition is one-shot.
func (c *Coordinator) loop() {
	defer c.wg.Done()

	timer := time.NewTimer(c.cfg.InitialInterval)
	defer timer.Stop()

	first := true
	for {
		select {
		case <-c.done:
			return
		case <-timer.C:
			c.tick()
			if first {
				first = false
				c.logger.Debug("switching to regular poll interval",
					"interval", c.cfg.RegularInterval.String(),
				)
			}
			timer.Reset(c.cfg.RegularInterval)
		}
	}
}

// tick runs one timer-driven pass, skipping when the host is not
// ready. A skip changes nothing about the schedule.
func (c *Coordinator) tick() {
	if c.cfg.Ready != nil && !c.cfg.Ready() {
		c.logger.Debug("skipping sync tick, host not ready")
		return
	}
	if err := c.SyncAll(c.ctx); err != nil {
		c.logger.Warn("sync pass aborted", "error", err)
	}
}

// SyncAll runs one full sync pass over every device group. The manual
// trigger and the timer share this path.
//
// Parameters:
//   - ctx: Context; cancellation aborts between groups
//
// Returns:
//   - error: Only when the pass is aborted by cancellation; group
//     failures resolve to unavailable updates, not errors
func (c *Coordinator) SyncAll(ctx context.Context) error {
	c.syncMu.Lock()
	defer c.syncMu.Unlock()

	groups, skipped := device.GroupDevices(c.cfg.Devices.List())
	for _, d := range skipped {
		c.logger.Warn("skipping device with malformed id", "device_id", d.ID)
	}

	for i := range groups {
		if i > 0 && c.cfg.GroupDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.cfg.GroupDelay):
			}
		}
		c.syncGroup(ctx, &groups[i])
	}

	c.syncPasses.Add(1)
	return ctx.Err()
}

// SyncDevice runs a targeted pass for the group containing one device,
// refreshing it without waiting for the full loop.
//
// Parameters:
//   - ctx: Context for cancellation
//   - id: Device ID whose group should be polled
//
// Returns:
//   - error: ErrDeviceNotFound if no group contains the device
func (c *Coordinator) SyncDevice(ctx context.Context, id string) error {
	c.syncMu.Lock()
	defer c.syncMu.Unlock()

	groups, _ := device.GroupDevices(c.cfg.Devices.List())
	for i := range groups {
		for _, m := range groups[i].Members {
			if m.ID == id {
				c.syncGroup(ctx, &groups[i])
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
}

// syncGroup polls one group and fans the result out to every member.
//
// A failed command is retried exactly once; a second failure, or a
// non-numeric poll result, marks the whole group unavailable. Members
// are never marked individually.
func (c *Coordinator) syncGroup(ctx context.Context, g *device.Group) {
	c.groupPolls.Add(1)

	out, err := executor.RunWithRetry(ctx, c.cfg.Runner, c.cfg.RetryDelay,
		executor.CmdGetStatus, g.PollDeviceID(), g.CloudID())
	if err != nil {
		c.logger.Warn("group poll failed after retry",
			"group", g.Key,
			"error", err,
		)
		c.markUnavailable(g)
		return
	}

	status, err := strconv.ParseUint(out, 10, 32)
	if err != nil {
		// The command succeeded but the result is garbage. Same
		// outcome as a command failure.
		c.logger.Warn("group poll returned non-numeric status",
			"group", g.Key,
			"output", out,
		)
		c.markUnavailable(g)
		return
	}

	c.logger.Debug("group poll succeeded",
		"group", g.Key,
		"status", status,
	)

	for _, m := range g.Members {
		ident, err := m.Identity()
		if err != nil {
			continue
		}
		c.cfg.Publisher.Publish(router.StatusUpdate{
			RoutingKey: ident.RoutingKey(),
			Available:  true,
			Smap:       g.CombinedSmap,
			Status:     uint32(status),
		})
	}
}

// markUnavailable publishes an explicit unavailable update for every
// group member. Failures never vanish silently.
func (c *Coordinator) markUnavailable(g *device.Group) {
	c.groupFailures.Add(1)

	for _, m := range g.Members {
		ident, err := m.Identity()
		if err != nil {
			continue
		}
		c.cfg.Publisher.Publish(router.StatusUpdate{
			RoutingKey: ident.RoutingKey(),
			Available:  false,
		})
	}
}
