package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/draftkeep/pkg/api"
	"github.com/marmos91/draftkeep/pkg/autosave"
	"github.com/marmos91/draftkeep/pkg/drafts"
	"github.com/marmos91/draftkeep/pkg/kv/memory"
	"github.com/marmos91/draftkeep/pkg/storage"
)

type fixture struct {
	client   *Client
	provider *memory.Store
	tracker  *autosave.Tracker
	drafts   *drafts.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	provider := memory.New()
	store := storage.New(provider)
	tracker := autosave.NewTracker(store, autosave.WithClock(autosave.NewManualClock(time.Unix(0, 0))))
	reg := drafts.NewRegistry(store)

	srv := httptest.NewServer(api.NewRouter(api.Deps{Store: store, Tracker: tracker, Drafts: reg}))
	t.Cleanup(srv.Close)
	t.Cleanup(tracker.Close)

	return &fixture{client: New(srv.URL + "/"), provider: provider, tracker: tracker, drafts: reg}
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	assert.Equal(t, "http://localhost:8080", New("http://localhost:8080/").baseURL)
}

func TestPing(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.client.Ping(context.Background()))
}

func TestStorage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.client.Storage(ctx)
	require.NoError(t, err)
	assert.True(t, s.Health.CanWrite)
	assert.Nil(t, s.Strip)

	f.provider.SetReadOnly(true)
	s, err = f.client.Storage(ctx)
	require.Error(t, err)
	assert.True(t, IsUnhealthy(err))
	require.NotNil(t, s)
	assert.True(t, s.Health.ReadOnly)
	require.NotNil(t, s.Strip)
	assert.Equal(t, "Storage Access Limited", s.Strip.Title)
}

func TestAutosave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.tracker.Edit("hello")
	s, err := f.client.Autosave(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dirty-pending", s.State)
	assert.True(t, s.Dirty)
	assert.True(t, s.GuardArmed)
}

func TestDrafts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, found, err := f.client.CurrentDraft(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	created, err := f.drafts.Create(ctx, "body", "notes")
	require.NoError(t, err)
	require.NoError(t, f.drafts.SetPinned(ctx, created.ID, true))

	list, err := f.client.ListDrafts(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "notes", list[0].Name)

	pinned, err := f.client.ListDrafts(ctx, true)
	require.NoError(t, err)
	assert.Len(t, pinned, 1)

	d, found, err := f.client.GetDraft(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "body", d.Content)
	assert.True(t, created.CreatedAt.Equal(d.CreatedAt))

	cur, found, err := f.client.CurrentDraft(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, created.ID, cur.ID)

	_, found, err = f.client.GetDraft(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestProblemResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"title":"Internal Server Error","status":500,"detail":"Saved drafts could not be parsed"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListDrafts(context.Background(), false)
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "Internal Server Error: Saved drafts could not be parsed", err.Error())
}

func TestPlainErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(srv.URL).Ping(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}
