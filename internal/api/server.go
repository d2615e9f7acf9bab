package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/smarteefi/smarteefi-bridge/internal/coordinator"
	"github.com/smarteefi/smarteefi-bridge/internal/device"
	"github.com/smarteefi/smarteefi-bridge/internal/entity"
	"github.com/smarteefi/smarteefi-bridge/internal/infrastructure/config"
	"github.com/smarteefi/smarteefi-bridge/internal/infrastructure/logging"
	"github.com/smarteefi/smarteefi-bridge/internal/listener"
)

const gracefulShutdownTimeout = 10 * time.Second

// Syncer triggers status synchronisation passes. Satisfied by
// *coordinator.Coordinator.
type Syncer interface {
	SyncAll(ctx context.Context) error
	SyncDevice(ctx context.Context, id string) error
	Stats() coordinator.Stats
}

// Refresher refetches the device inventory. Satisfied by
// *inventory.Manager.
type Refresher interface {
	Refresh(ctx context.Context) (added, removed []device.Device, err error)
}

// Deps carries everything the HTTP server needs.
type Deps struct {
	// Config sets the bind address and timeouts. Required.
	Config config.APIConfig

	// Logger receives diagnostic and access-log output. Required.
	Logger *logging.Logger

	// Registry is the device inventory. Required.
	Registry *device.Registry

	// Entities resolves live entity state for listings. Optional.
	Entities *entity.Set

	// Syncer serves the sync endpoints. Required.
	Syncer Syncer

	// Refresher serves the inventory refresh endpoint. Optional;
	// without it the endpoint answers 502.
	Refresher Refresher

	// ListenerStats reports datagram counters for health output.
	// Optional.
	ListenerStats func() listener.Stats

	// Version is reported by the health endpoint.
	Version string
}

// Server is the local administrative HTTP API.
type Server struct {
	deps    Deps
	logger  *logging.Logger
	httpSrv *http.Server
	started time.Time
}

// New validates dependencies and creates a Server. It does not bind
// the port; call Start for that.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, errors.New("api: logger is required")
	}
	if deps.Registry == nil {
		return nil, errors.New("api: registry is required")
	}
	if deps.Syncer == nil {
		return nil, errors.New("api: syncer is required")
	}
	return &Server{
		deps:   deps,
		logger: deps.Logger.With("component", "api"),
	}, nil
}

// Start binds the configured address and serves until Close.
//
// Returns:
//   - error: Bind failure. Serve errors after a successful bind are
//     logged, not returned.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.deps.Config.Host, strconv.Itoa(s.deps.Config.Port))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("api: listen on %s: %w", addr, err)
	}

	s.started = time.Now()
	s.httpSrv = &http.Server{
		Handler:      s.buildRouter(),
		ReadTimeout:  time.Duration(s.deps.Config.Timeouts.Read) * time.Second,
		WriteTimeout: time.Duration(s.deps.Config.Timeouts.Write) * time.Second,
		IdleTimeout:  time.Duration(s.deps.Config.Timeouts.Idle) * time.Second,
	}

	s.logger.Info("api server listening", "addr", addr)

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server stopped", "error", err)
		}
	}()
	return nil
}

// Close drains in-flight requests and shuts the server down.
func (s *Server) Close() error {
	if s.httpSrv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}
