package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/draftkeep/pkg/autosave"
	"github.com/marmos91/draftkeep/pkg/drafts"
	"github.com/marmos91/draftkeep/pkg/kv/memory"
	"github.com/marmos91/draftkeep/pkg/storage"
)

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

func get(t *testing.T, srv *httptest.Server, path string) (int, envelope) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(body, &env))
	}
	return resp.StatusCode, env
}

func newTestServer(t *testing.T, provider *memory.Store) (*httptest.Server, Deps) {
	t.Helper()
	store := storage.New(provider)
	deps := Deps{
		Store:   store,
		Tracker: autosave.NewTracker(store, autosave.WithClock(autosave.NewManualClock(time.Unix(0, 0)))),
		Drafts:  drafts.NewRegistry(store),
	}
	srv := httptest.NewServer(NewRouter(deps))
	t.Cleanup(srv.Close)
	return srv, deps
}

func TestLiveness(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t, memory.New())

	code, env := get(t, srv, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", env.Status)
	assert.JSONEq(t, `{"service":"draftkeep"}`, string(env.Data))
}

func TestStorageHealth(t *testing.T) {
	t.Parallel()
	provider := memory.New()
	srv, _ := newTestServer(t, provider)

	code, env := get(t, srv, "/health/storage")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", env.Status)

	var status struct {
		Health storage.HealthReport `json:"health"`
		Strip  *struct {
			Title string `json:"title"`
		} `json:"strip"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.Equal(t, "healthy", status.Health.Status)
	assert.Nil(t, status.Strip)

	provider.SetReadOnly(true)
	code, env = get(t, srv, "/health/storage")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", env.Status)
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.True(t, status.Health.ReadOnly)
	require.NotNil(t, status.Strip)
	assert.Equal(t, "Storage Access Limited", status.Strip.Title)
}

func TestStorageHealth_NoStore(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(NewRouter(Deps{}))
	t.Cleanup(srv.Close)

	code, env := get(t, srv, "/health/storage")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "storage not initialized", env.Error)

	code, _ = get(t, srv, "/drafts")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAutosaveStatus(t *testing.T) {
	t.Parallel()
	srv, deps := newTestServer(t, memory.New())
	deps.Tracker.Reset(t.Context(), "")
	deps.Tracker.Edit("typing")

	code, env := get(t, srv, "/health/autosave")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"state":"dirty-pending","dirty":true,"guard_armed":true,"has_snapshot":true}`, string(env.Data))
}

func TestDraftRoutes(t *testing.T) {
	t.Parallel()
	srv, deps := newTestServer(t, memory.New())
	ctx := t.Context()

	d, err := deps.Drafts.Create(ctx, "# hello", "greeting")
	require.NoError(t, err)

	code, env := get(t, srv, "/drafts")
	assert.Equal(t, http.StatusOK, code)
	var list []drafts.Draft
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "greeting", list[0].Name)

	code, env = get(t, srv, "/drafts/"+d.ID)
	assert.Equal(t, http.StatusOK, code)
	var got drafts.Draft
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "# hello", got.Content)

	code, _ = get(t, srv, "/drafts/current")
	assert.Equal(t, http.StatusOK, code)

	code, _ = get(t, srv, "/drafts/missing")
	assert.Equal(t, http.StatusNotFound, code)

	code, env = get(t, srv, "/drafts?pinned=true")
	assert.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Empty(t, list)
}

func TestRootRedirects(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t, memory.New())

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.Get(srv.URL + "/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, "/health", resp.Header.Get("Location"))
}

func TestAPIConfigDefaults(t *testing.T) {
	t.Parallel()
	var c APIConfig
	c.ApplyDefaults()
	assert.Equal(t, 8080, c.Port)
	assert.Equal(t, "127.0.0.1:8080", c.Addr())
	assert.Equal(t, 10*time.Second, c.ReadTimeout)
	assert.Equal(t, 60*time.Second, c.IdleTimeout)
}
