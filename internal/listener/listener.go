package listener

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/smarteefi/smarteefi-bridge/internal/packet"
	"github.com/smarteefi/smarteefi-bridge/internal/router"
)

// readBufferSize is the datagram read buffer. Status packets are 26
// bytes plus whatever trailing bytes the firmware appends.
const readBufferSize = 512

// Logger defines the logging interface for the listener.
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

// Publisher receives the status updates decoded from packets.
type Publisher interface {
	Publish(router.StatusUpdate)
}

// Config holds listener configuration.
type Config struct {
	// Port is the UDP port to bind. 0 picks an ephemeral port, which
	// tests use.
	Port int

	// Publisher receives every decoded update. Usually the router.
	Publisher Publisher

	// Logger receives diagnostic output. Optional.
	Logger Logger
}

// Stats holds listener counters, all updated atomically.
type Stats struct {
	// Received counts datagrams read off the socket.
	Received uint64

	// Dropped counts datagrams discarded as malformed.
	Dropped uint64
}

// Listener receives status broadcast datagrams and publishes decoded
// updates.
//
// One socket lives for the lifetime of the bridge. It accepts
// broadcast traffic and shares its address with other listeners on the
// host, so a second bridge instance or the vendor app can coexist.
type Listener struct {
	cfg    Config
	logger Logger

	conn      net.PacketConn
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	received atomic.Uint64
	dropped  atomic.Uint64
}

// New creates a Listener. The socket is not bound until Start.
//
// Parameters:
//   - cfg: Listener configuration
//
// Returns:
//   - *Listener: Ready to Start
//   - error: If the publisher is missing
func New(cfg Config) (*Listener, error) {
	if cfg.Publisher == nil {
		return nil, errors.New("listener: publisher is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Listener{
		cfg:    cfg,
		logger: logger,
		done:   make(chan struct{}),
	}, nil
}

// Start binds the socket and launches the receive loop.
//
// Parameters:
//   - ctx: Context for the bind operation only; the receive loop runs
//     until Stop
//
// Returns:
//   - error: If binding fails
func (l *Listener) Start(ctx context.Context) error {
	lc := net.ListenConfig{Control: setSocketOptions}

	conn, err := lc.ListenPacket(ctx, "udp4", ":"+strconv.Itoa(l.cfg.Port))
	if err != nil {
		return fmt.Errorf("binding status listener: %w", err)
	}
	l.conn = conn

	l.logger.Info("status listener bound", "addr", conn.LocalAddr().String())

	l.wg.Add(1)
	go l.receiveLoop()
	return nil
}

// Stop closes the socket and waits for the receive loop to exit. Safe
// to call multiple times.
func (l *Listener) Stop() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.done)
		if l.conn != nil {
			err = l.conn.Close()
		}
	})
	l.wg.Wait()
	return err
}

// LocalAddr returns the bound socket address. Nil before Start.
func (l *Listener) LocalAddr() net.Addr {
	if l.conn == nil {
		return nil
	}
	return l.conn.LocalAddr()
}

// Stats returns a snapshot of the listener counters.
func (l *Listener) Stats() Stats {
	return Stats{
		Received: l.received.Load(),
		Dropped:  l.dropped.Load(),
	}
}

// receiveLoop reads datagrams until the socket closes. One malformed
// packet never affects the next.
func (l *Listener) receiveLoop() {
	defer l.wg.Done()

	buf := make([]byte, readBufferSize)
	for {
		n, addr, err := l.conn.ReadFrom(buf)
		if err != nil {
			select {
			case <-l.done:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			l.logger.Warn("status listener read error", "error", err)
			continue
		}

		l.received.Add(1)

		pkt, err := packet.Decode(buf[:n])
		if err != nil {
			l.dropped.Add(1)
			l.logger.Debug("dropping malformed status packet",
				"source", addr.String(),
				"error", err,
			)
			continue
		}

		key := pkt.Serial + ":" + strconv.FormatUint(uint64(pkt.Smap), 10)
		l.logger.Debug("status packet received",
			"routing_key", key,
			"status", pkt.Status,
		)

		l.cfg.Publisher.Publish(router.StatusUpdate{
			RoutingKey: key,
			Available:  true,
			Smap:       pkt.Smap,
			Status:     pkt.Status,
		})
	}
}
