package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/marmos91/draftkeep/pkg/autosave"
	"github.com/marmos91/draftkeep/pkg/notify"
	"github.com/marmos91/draftkeep/pkg/storage"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	store   *storage.SafeStore
	tracker *autosave.Tracker
}

// NewHealthHandler creates a health handler. Either argument may be nil; the
// matching endpoints then report unhealthy.
func NewHealthHandler(store *storage.SafeStore, tracker *autosave.Tracker) *HealthHandler {
	return &HealthHandler{store: store, tracker: tracker}
}

// Liveness handles GET /health.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthyResponse(map[string]string{
		"service": "draftkeep",
	}))
}

// StorageStatus is the body of GET /health/storage.
type StorageStatus struct {
	Health   storage.HealthReport `json:"health"`
	Estimate storage.Estimate     `json:"estimate"`
	Strip    *notify.Notification `json:"strip,omitempty"`
	Latency  string               `json:"latency"`
}

// Storage handles GET /health/storage. It probes the store and returns 200
// when writes are possible (or the outcome is indeterminate) and 503 otherwise.
func (h *HealthHandler) Storage(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("storage not initialized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	start := time.Now()
	health := h.store.Health(ctx)
	estimate := h.store.Estimate(ctx)

	status := StorageStatus{
		Health:   health.Report(),
		Estimate: estimate,
		Latency:  time.Since(start).String(),
	}
	if strip, ok := notify.StatusStrip(health, estimate); ok {
		status.Strip = &strip
	}

	if health.CanWrite() || health.Status == storage.StatusIndeterminate {
		writeJSON(w, http.StatusOK, healthyResponse(status))
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, unhealthyResponseWithData(status))
}

// AutosaveStatus is the body of GET /health/autosave.
type AutosaveStatus struct {
	State       autosave.State `json:"state"`
	Dirty       bool           `json:"dirty"`
	GuardArmed  bool           `json:"guard_armed"`
	HasSnapshot bool           `json:"has_snapshot"`
}

// Autosave handles GET /health/autosave. Unsaved changes are reported but are
// not unhealthy.
func (h *HealthHandler) Autosave(w http.ResponseWriter, r *http.Request) {
	if h.tracker == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("no editing session"))
		return
	}

	_, hasSnap := h.tracker.Snapshot()
	writeJSON(w, http.StatusOK, okResponse(AutosaveStatus{
		State:       h.tracker.State(),
		Dirty:       h.tracker.Dirty(),
		GuardArmed:  h.tracker.Guard().Armed(),
		HasSnapshot: hasSnap,
	}))
}
