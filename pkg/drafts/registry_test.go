package drafts

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/draftkeep/pkg/kv/memory"
	"github.com/marmos91/draftkeep/pkg/storage"
)

// ============================================================================
// Helpers
// ============================================================================

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	provider *memory.Store
	store    *storage.SafeStore
	clock    *fakeClock
	registry *Registry
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	provider := memory.New()
	store := storage.New(provider)
	clock := &fakeClock{now: time.Date(2024, time.March, 7, 10, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clock.Now)}, opts...)

	return &fixture{
		provider: provider,
		store:    store,
		clock:    clock,
		registry: NewRegistry(store, opts...),
	}
}

func (f *fixture) seed(t *testing.T, records ...record) {
	t.Helper()
	raw, err := json.Marshal(records)
	require.NoError(t, err)
	require.NoError(t, f.store.Write(t.Context(), storage.KeyDrafts, string(raw)))
}

func (f *fixture) raw(t *testing.T, key string) (string, bool) {
	t.Helper()
	value, found, err := f.store.Read(t.Context(), key)
	require.NoError(t, err)
	return value, found
}

func ids(drafts []Draft) []string {
	out := make([]string, len(drafts))
	for i, d := range drafts {
		out[i] = d.ID
	}
	return out
}

// ============================================================================
// Listing
// ============================================================================

func TestList_Empty(t *testing.T) {
	t.Parallel()

	drafts, err := newFixture(t).registry.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestList_PinnedFirstThenNewest(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.seed(t,
		record{ID: "A", IsPinned: true, UpdatedAt: 1},
		record{ID: "B", IsPinned: false, UpdatedAt: 5},
		record{ID: "C", IsPinned: true, UpdatedAt: 3},
	)

	drafts, err := f.registry.List(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, ids(drafts))

	pinned, err := f.registry.Pinned(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A"}, ids(pinned))
}

func TestList_Corrupted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{{{"},
		{"not an array", `{"id":"1"}`},
		{"missing id", `[{"name":"x","createdAt":1,"updatedAt":1}]`},
		{"duplicate ids", `[{"id":"1","createdAt":1,"updatedAt":1},{"id":"1","createdAt":2,"updatedAt":2}]`},
		{"negative timestamp", `[{"id":"1","createdAt":-5,"updatedAt":1}]`},
		{"wrong field type", `[{"id":1}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.store.Write(t.Context(), storage.KeyDrafts, tt.raw))

			_, err := f.registry.List(t.Context())
			require.Error(t, err)
			assert.Equal(t, storage.KindCorrupted, storage.KindOf(err))
		})
	}
}

func TestList_NullIsEmpty(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	require.NoError(t, f.store.Write(t.Context(), storage.KeyDrafts, "null"))

	drafts, err := f.registry.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

// ============================================================================
// Create
// ============================================================================

func TestCreate_SetsCurrent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := t.Context()

	draft, err := f.registry.Create(ctx, "# hello", "Notes")
	require.NoError(t, err)

	assert.Equal(t, "1709805600000", draft.ID)
	assert.Equal(t, "Notes", draft.Name)
	assert.Equal(t, "# hello", draft.Content)
	assert.False(t, draft.Pinned)
	assert.Equal(t, draft.CreatedAt, draft.UpdatedAt)

	current, found, err := f.registry.CurrentID(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, draft.ID, current)

	got, found, err := f.registry.Get(ctx, draft.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, draft, got)
}

func TestCreate_DefaultName(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	draft, err := f.registry.Create(t.Context(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "Draft 3/7/2024", draft.Name)

	f2 := newFixture(t, WithNameLayout("2006-01-02"))
	draft, err = f2.registry.Create(t.Context(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "Draft 2024-03-07", draft.Name)
}

func TestCreate_SameMillisecondGetsUniqueID(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := t.Context()

	first, err := f.registry.Create(ctx, "one", "")
	require.NoError(t, err)
	second, err := f.registry.Create(ctx, "two", "")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, strings.HasPrefix(second.ID, first.ID+"-"))

	drafts, err := f.registry.List(ctx)
	require.NoError(t, err)
	assert.Len(t, drafts, 2)
}

func TestCreate_PersistedFormat(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.registry.Create(t.Context(), "body", "Name")
	require.NoError(t, err)

	raw, found := f.raw(t, storage.KeyDrafts)
	require.True(t, found)

	var stored []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, "1709805600000", stored[0]["id"])
	assert.Equal(t, float64(1709805600000), stored[0]["createdAt"])
	assert.Equal(t, float64(1709805600000), stored[0]["updatedAt"])
	assert.Equal(t, false, stored[0]["isPinned"])
}

func TestCreate_QuotaFailureChangesNothing(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := t.Context()
	f.provider.SetQuota(64)

	_, err := f.registry.Create(ctx, strings.Repeat("x", 200), "big")
	require.ErrorIs(t, err, storage.ErrQuotaExceeded)

	_, found := f.raw(t, storage.KeyDrafts)
	assert.False(t, found)
	_, found, err = f.registry.CurrentID(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCreate_PointerFailureReturnsDraft(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.provider.SetFault(func(op memory.Op, key string) error {
		if op == memory.OpSet && key == storage.KeyCurrentDraft {
			return context.DeadlineExceeded
		}
		return nil
	})

	draft, err := f.registry.Create(t.Context(), "body", "")
	require.Error(t, err)
	assert.NotEmpty(t, draft.ID)

	_, found, getErr := f.registry.Get(t.Context(), draft.ID)
	require.NoError(t, getErr)
	assert.True(t, found, "draft is persisted even though the pointer is not")
}

// ============================================================================
// Mutations
// ============================================================================

func TestRename_BumpsUpdatedAt(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := t.Context()

	draft, err := f.registry.Create(ctx, "body", "old")
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	require.NoError(t, f.registry.Rename(ctx, draft.ID, "new"))

	got, _, err := f.registry.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)
	assert.True(t, draft.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, got.UpdatedAt.Equal(draft.UpdatedAt.Add(time.Minute)), "updated at %v", got.UpdatedAt)
}

func TestMutations_MissingIDIsNoOp(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := t.Context()

	_, err := f.registry.Create(ctx, "body", "kept")
	require.NoError(t, err)
	before, _ := f.raw(t, storage.KeyDrafts)

	f.clock.Advance(time.Hour)
	require.NoError(t, f.registry.Rename(ctx, "missing", "x"))
	require.NoError(t, f.registry.SetPinned(ctx, "missing", true))
	require.NoError(t, f.registry.TogglePin(ctx, "missing"))
	require.NoError(t, f.registry.UpdateContent(ctx, "missing", "x"))

	after, _ := f.raw(t, storage.KeyDrafts)
	assert.Equal(t, before, after)
}

func TestPinning(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := t.Context()

	older, err := f.registry.Create(ctx, "older", "")
	require.NoError(t, err)
	f.clock.Advance(time.Second)
	newer, err := f.registry.Create(ctx, "newer", "")
	require.NoError(t, err)

	drafts, err := f.registry.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{newer.ID, older.ID}, ids(drafts))

	f.clock.Advance(time.Second)
	require.NoError(t, f.registry.TogglePin(ctx, older.ID))

	drafts, err = f.registry.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{older.ID, newer.ID}, ids(drafts))
	assert.True(t, drafts[0].Pinned)

	require.NoError(t, f.registry.SetPinned(ctx, older.ID, false))
	pinned, err := f.registry.Pinned(ctx)
	require.NoError(t, err)
	assert.Empty(t, pinned)
}

func TestUpdateContent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := t.Context()

	draft, err := f.registry.Create(ctx, "v1", "")
	require.NoError(t, err)
	require.NoError(t, f.registry.UpdateContent(ctx, draft.ID, "v2"))

	got, _, err := f.registry.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Content)
}

// ============================================================================
// Delete and the current pointer
// ============================================================================

func TestDelete_CurrentClearsPointer(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := t.Context()

	draft, err := f.registry.Create(ctx, "body", "")
	require.NoError(t, err)
	require.NoError(t, f.registry.Delete(ctx, draft.ID))

	_, found, err := f.registry.CurrentID(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	_, found = f.raw(t, storage.KeyCurrentDraft)
	assert.False(t, found, "pointer key is removed, not blanked")

	drafts, err := f.registry.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestDelete_OtherKeepsPointer(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := t.Context()

	first, err := f.registry.Create(ctx, "first", "")
	require.NoError(t, err)
	f.clock.Advance(time.Millisecond)
	second, err := f.registry.Create(ctx, "second", "")
	require.NoError(t, err)

	require.NoError(t, f.registry.Delete(ctx, first.ID))

	current, found, err := f.registry.CurrentID(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, second.ID, current)
}

func TestDelete_DanglingPointerIsCleared(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := t.Context()

	require.NoError(t, f.registry.SetCurrentID(ctx, "ghost"))
	require.NoError(t, f.registry.Delete(ctx, "ghost"))

	_, found, err := f.registry.CurrentID(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCurrent_Revalidates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := t.Context()

	draft, err := f.registry.Create(ctx, "body", "")
	require.NoError(t, err)

	got, found, err := f.registry.Current(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, draft.ID, got.ID)

	require.NoError(t, f.registry.SetCurrentID(ctx, "ghost"))
	_, found, err = f.registry.Current(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	id, found, err := f.registry.CurrentID(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ghost", id, "CurrentID reports the raw pointer")

	require.NoError(t, f.registry.SetCurrentID(ctx, ""))
	_, found, err = f.registry.CurrentID(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}

// ============================================================================
// Metrics
// ============================================================================

type recordingMetrics struct {
	mu            sync.Mutex
	mutations     []string
	total, pinned int
}

func (m *recordingMetrics) RecordMutation(op string, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if success {
		m.mutations = append(m.mutations, op)
	} else {
		m.mutations = append(m.mutations, op+":failed")
	}
}

func (m *recordingMetrics) SetCount(total, pinned int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total, m.pinned = total, pinned
}

func TestRegistry_Metrics(t *testing.T) {
	t.Parallel()
	m := &recordingMetrics{}
	f := newFixture(t, WithMetrics(m))
	ctx := t.Context()

	draft, err := f.registry.Create(ctx, "body", "")
	require.NoError(t, err)
	require.NoError(t, f.registry.SetPinned(ctx, draft.ID, true))
	require.NoError(t, f.registry.Delete(ctx, draft.ID))

	assert.Equal(t, []string{"create", "pin", "delete"}, m.mutations)
	assert.Zero(t, m.total)
	assert.Zero(t, m.pinned)
}
