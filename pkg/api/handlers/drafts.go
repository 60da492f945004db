package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marmos91/draftkeep/pkg/drafts"
	"github.com/marmos91/draftkeep/pkg/storage"
)

// DraftsHandler serves read-only draft endpoints.
type DraftsHandler struct {
	registry *drafts.Registry
}

// NewDraftsHandler creates a drafts handler.
func NewDraftsHandler(registry *drafts.Registry) *DraftsHandler {
	return &DraftsHandler{registry: registry}
}

// List handles GET /drafts. ?pinned=true limits the result to pinned drafts.
func (h *DraftsHandler) List(w http.ResponseWriter, r *http.Request) {
	list := h.registry.List
	if r.URL.Query().Get("pinned") == "true" {
		list = h.registry.Pinned
	}

	all, err := list(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse(all))
}

// Get handles GET /drafts/{id}.
func (h *DraftsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, ok, err := h.registry.Get(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	if !ok {
		NotFound(w, "Draft not found")
		return
	}
	writeJSON(w, http.StatusOK, okResponse(d))
}

// Current handles GET /drafts/current.
func (h *DraftsHandler) Current(w http.ResponseWriter, r *http.Request) {
	d, ok, err := h.registry.Current(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	if !ok {
		NotFound(w, "No current draft")
		return
	}
	writeJSON(w, http.StatusOK, okResponse(d))
}

// fail maps storage failures to problem responses.
func (h *DraftsHandler) fail(w http.ResponseWriter, err error) {
	switch storage.KindOf(err) {
	case storage.KindAccessDenied:
		ServiceUnavailable(w, storage.MessageOf(err))
	default:
		InternalServerError(w, storage.MessageOf(err))
	}
}
