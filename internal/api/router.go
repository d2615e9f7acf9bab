package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// buildRouter assembles the middleware chain and route tree.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.handleListDevices)
			r.Post("/refresh", s.handleRefresh)
			r.Post("/{id}/sync", s.handleSyncDevice)
		})

		r.Post("/sync", s.handleSyncAll)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:        "ok",
		Version:       s.deps.Version,
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		Devices:       s.deps.Registry.Len(),
	}

	stats := s.deps.Syncer.Stats()
	resp.Sync = &syncStats{
		Passes:        stats.SyncPasses,
		GroupPolls:    stats.GroupPolls,
		GroupFailures: stats.GroupFailures,
	}

	if s.deps.ListenerStats != nil {
		ls := s.deps.ListenerStats()
		resp.Listener = &listenerStats{
			Received: ls.Received,
			Dropped:  ls.Dropped,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
