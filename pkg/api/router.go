package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marmos91/draftkeep/internal/logger"
	"github.com/marmos91/draftkeep/pkg/api/handlers"
	"github.com/marmos91/draftkeep/pkg/autosave"
	"github.com/marmos91/draftkeep/pkg/drafts"
	"github.com/marmos91/draftkeep/pkg/metrics"
	"github.com/marmos91/draftkeep/pkg/storage"
)

// Deps are the components the status API reports on. Nil members disable
// or degrade the matching routes.
type Deps struct {
	Store   *storage.SafeStore
	Tracker *autosave.Tracker
	Drafts  *drafts.Registry
}

// NewRouter creates the chi router with middleware and routes.
//
// Routes:
//   - GET /health - Liveness probe
//   - GET /health/storage - Storage probe, estimate and status strip
//   - GET /health/autosave - Change tracker state
//   - GET /drafts, /drafts/current, /drafts/{id} - Read-only drafts
//   - GET /metrics - Prometheus metrics, when metrics are enabled
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	healthHandler := handlers.NewHealthHandler(deps.Store, deps.Tracker)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/storage", healthHandler.Storage)
		r.Get("/autosave", healthHandler.Autosave)
	})

	if deps.Drafts != nil {
		draftsHandler := handlers.NewDraftsHandler(deps.Drafts)
		r.Route("/drafts", func(r chi.Router) {
			r.Get("/", draftsHandler.List)
			r.Get("/current", draftsHandler.Current)
			r.Get("/{id}", draftsHandler.Get)
		})
	}

	if reg := metrics.GetRegistry(); reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	return r
}

// requestLogger logs requests using the internal logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger.Debug("Status request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			logger.KeyDurationMs, float64(time.Since(start).Microseconds())/1000,
		)
	})
}
