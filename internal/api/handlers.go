package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smarteefi/smarteefi-bridge/internal/coordinator"
	"github.com/smarteefi/smarteefi-bridge/internal/entity"
)

type healthResponse struct {
	Status        string         `json:"status"`
	Version       string         `json:"version"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Devices       int            `json:"devices"`
	Sync          *syncStats     `json:"sync,omitempty"`
	Listener      *listenerStats `json:"listener,omitempty"`
}

type syncStats struct {
	Passes        uint64 `json:"passes"`
	GroupPolls    uint64 `json:"group_polls"`
	GroupFailures uint64 `json:"group_failures"`
}

type listenerStats struct {
	Received uint64 `json:"received"`
	Dropped  uint64 `json:"dropped"`
}

type deviceResponse struct {
	ID      string       `json:"id"`
	CloudID int          `json:"cloud_id"`
	Class   string       `json:"class"`
	Name    string       `json:"name"`
	State   *deviceState `json:"state,omitempty"`
}

type deviceState struct {
	Available  bool `json:"available"`
	On         bool `json:"on"`
	Speed      int  `json:"speed,omitempty"`
	Percentage int  `json:"percentage,omitempty"`
	Position   int  `json:"position,omitempty"`
	Red        int  `json:"red,omitempty"`
	Green      int  `json:"green,omitempty"`
	Blue       int  `json:"blue,omitempty"`
	Brightness int  `json:"brightness,omitempty"`
}

type refreshResponse struct {
	Devices int `json:"devices"`
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

func toDeviceState(st entity.State) *deviceState {
	return &deviceState{
		Available:  st.Available,
		On:         st.On,
		Speed:      st.Speed,
		Percentage: st.Percentage,
		Position:   st.Position,
		Red:        int(st.Red),
		Green:      int(st.Green),
		Blue:       int(st.Blue),
		Brightness: int(st.Brightness),
	}
}

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices := s.deps.Registry.List()

	out := make([]deviceResponse, 0, len(devices))
	for _, d := range devices {
		resp := deviceResponse{
			ID:      d.ID,
			CloudID: d.CloudID,
			Class:   string(d.Class),
			Name:    d.Name,
		}
		if s.deps.Entities != nil {
			if e, ok := s.deps.Entities.Get(d.ID); ok {
				resp.State = toDeviceState(e.State())
			}
		}
		out = append(out, resp)
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.deps.Refresher == nil {
		writeUpstreamError(w, "inventory refresh not available")
		return
	}

	added, removed, err := s.deps.Refresher.Refresh(r.Context())
	if err != nil {
		s.logger.Warn("inventory refresh failed", "error", err)
		writeUpstreamError(w, "inventory refresh failed")
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{
		Devices: s.deps.Registry.Len(),
		Added:   len(added),
		Removed: len(removed),
	})
}

func (s *Server) handleSyncAll(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Syncer.SyncAll(r.Context()); err != nil {
		s.logger.Warn("manual sync failed", "error", err)
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "synced"})
}

func (s *Server) handleSyncDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "device id is required")
		return
	}

	if err := s.deps.Syncer.SyncDevice(r.Context(), id); err != nil {
		if errors.Is(err, coordinator.ErrDeviceNotFound) {
			writeNotFound(w, "device not found: "+id)
			return
		}
		s.logger.Warn("targeted sync failed", "device_id", id, "error", err)
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "synced", "device_id": id})
}
