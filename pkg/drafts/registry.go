// Package drafts keeps a collection of named content snapshots and a
// "current draft" pointer on top of a storage.SafeStore.
//
// The collection lives under one key and is rewritten in full on every
// mutation. The pointer lives under a second key and the two are never
// written atomically, so the pointer is advisory: Current revalidates it
// against the collection before returning a draft.
package drafts

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marmos91/draftkeep/internal/logger"
	"github.com/marmos91/draftkeep/internal/telemetry"
	"github.com/marmos91/draftkeep/pkg/metrics"
	"github.com/marmos91/draftkeep/pkg/storage"
)

// DefaultNameLayout renders the creation date used as a default draft name.
const DefaultNameLayout = "1/2/2006"

// Registry manages drafts. Safe for concurrent use: mutations are serialized
// so read-modify-write cycles never interleave.
type Registry struct {
	store      *storage.SafeStore
	now        func() time.Time
	nameLayout string
	metrics    metrics.DraftMetrics

	mu sync.Mutex
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock replaces time.Now for id and timestamp generation.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithNameLayout sets the time layout for default draft names.
func WithNameLayout(layout string) Option {
	return func(r *Registry) { r.nameLayout = layout }
}

// WithMetrics attaches draft metrics. nil disables them.
func WithMetrics(m metrics.DraftMetrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// NewRegistry creates a registry persisting through store.
func NewRegistry(store *storage.SafeStore, opts ...Option) *Registry {
	r := &Registry{
		store:      store,
		now:        time.Now,
		nameLayout: DefaultNameLayout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// load reads the collection in stored order. An absent key is an empty
// collection.
func (r *Registry) load(ctx context.Context) ([]Draft, error) {
	raw, found, err := r.store.Read(ctx, storage.KeyDrafts)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	drafts, err := decode(raw)
	if err != nil {
		logger.WarnCtx(ctx, "Stored drafts are corrupted", logger.Err(err))
		return nil, err
	}
	return drafts, nil
}

// save persists the whole collection.
func (r *Registry) save(ctx context.Context, op string, drafts []Draft) error {
	raw, err := encode(drafts)
	if err == nil {
		err = r.store.Write(ctx, storage.KeyDrafts, raw)
	}

	if r.metrics != nil {
		r.metrics.RecordMutation(op, err == nil)
		if err == nil {
			pinned := 0
			for _, d := range drafts {
				if d.Pinned {
					pinned++
				}
			}
			r.metrics.SetCount(len(drafts), pinned)
		}
	}
	return err
}

// List returns every draft, pinned first, each group by UpdatedAt descending.
// The order is recomputed on every call.
func (r *Registry) List(ctx context.Context) ([]Draft, error) {
	drafts, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	sortForDisplay(drafts)
	return drafts, nil
}

// Pinned returns only pinned drafts, UpdatedAt descending.
func (r *Registry) Pinned(ctx context.Context) ([]Draft, error) {
	drafts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(drafts, func(d Draft) bool { return !d.Pinned }), nil
}

// Get returns the draft with id.
func (r *Registry) Get(ctx context.Context, id string) (Draft, bool, error) {
	drafts, err := r.load(ctx)
	if err != nil {
		return Draft{}, false, err
	}
	i := slices.IndexFunc(drafts, func(d Draft) bool { return d.ID == id })
	if i < 0 {
		return Draft{}, false, nil
	}
	return drafts[i], true, nil
}

// Create appends a new draft and makes it current.
//
// The id is the creation time in Unix milliseconds; if that id is taken a
// random suffix is appended. An empty name defaults to "Draft <date>".
//
// If the collection write fails nothing changes and the zero Draft is
// returned. If only the pointer write fails the draft exists and is returned
// together with the error.
func (r *Registry) Create(ctx context.Context, content, name string) (Draft, error) {
	ctx, span := telemetry.StartDraftSpan(ctx, "create")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	drafts, err := r.load(ctx)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return Draft{}, err
	}

	now := r.now()
	id := strconv.FormatInt(now.UnixMilli(), 10)
	if slices.ContainsFunc(drafts, func(d Draft) bool { return d.ID == id }) {
		id += "-" + uuid.NewString()[:8]
	}
	if name == "" {
		name = "Draft " + now.Format(r.nameLayout)
	}

	// Persisted timestamps have millisecond resolution.
	ts := time.UnixMilli(now.UnixMilli())
	draft := Draft{ID: id, Name: name, Content: content, CreatedAt: ts, UpdatedAt: ts}

	if err := r.save(ctx, "create", append(drafts, draft)); err != nil {
		telemetry.RecordError(ctx, err)
		return Draft{}, err
	}
	telemetry.SetAttributes(ctx, telemetry.DraftID(id), telemetry.DraftCount(len(drafts)+1))

	if err := r.setCurrent(ctx, id); err != nil {
		logger.WarnCtx(ctx, "Draft created but not made current", logger.KeyDraftID, id, logger.Err(err))
		return draft, err
	}

	logger.InfoCtx(ctx, "Draft created", logger.KeyDraftID, id, logger.KeyDraftName, name)
	return draft, nil
}

// update applies fn to the draft with id, bumps UpdatedAt and persists.
// A missing id is a no-op.
func (r *Registry) update(ctx context.Context, op, id string, fn func(*Draft)) error {
	ctx, span := telemetry.StartDraftSpan(ctx, op, telemetry.DraftID(id))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	drafts, err := r.load(ctx)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return err
	}
	i := slices.IndexFunc(drafts, func(d Draft) bool { return d.ID == id })
	if i < 0 {
		logger.DebugCtx(ctx, "Draft not found, nothing to update", logger.KeyOperation, op, logger.KeyDraftID, id)
		return nil
	}

	fn(&drafts[i])
	drafts[i].UpdatedAt = time.UnixMilli(r.now().UnixMilli())

	if err := r.save(ctx, op, drafts); err != nil {
		telemetry.RecordError(ctx, err)
		return err
	}
	logger.DebugCtx(ctx, "Draft updated", logger.KeyOperation, op, logger.KeyDraftID, id)
	return nil
}

// Rename changes a draft's name.
func (r *Registry) Rename(ctx context.Context, id, name string) error {
	return r.update(ctx, "rename", id, func(d *Draft) { d.Name = name })
}

// SetPinned pins or unpins a draft.
func (r *Registry) SetPinned(ctx context.Context, id string, pinned bool) error {
	return r.update(ctx, "pin", id, func(d *Draft) { d.Pinned = pinned })
}

// TogglePin flips a draft's pinned flag.
func (r *Registry) TogglePin(ctx context.Context, id string) error {
	return r.update(ctx, "pin", id, func(d *Draft) { d.Pinned = !d.Pinned })
}

// UpdateContent replaces a draft's content.
func (r *Registry) UpdateContent(ctx context.Context, id, content string) error {
	return r.update(ctx, "update", id, func(d *Draft) { d.Content = content })
}

// Delete removes a draft. If it was current the pointer is cleared, even when
// the draft itself was already gone.
func (r *Registry) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartDraftSpan(ctx, "delete", telemetry.DraftID(id))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	drafts, err := r.load(ctx)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return err
	}

	remaining := slices.DeleteFunc(slices.Clone(drafts), func(d Draft) bool { return d.ID == id })
	if len(remaining) != len(drafts) {
		if err := r.save(ctx, "delete", remaining); err != nil {
			telemetry.RecordError(ctx, err)
			return err
		}
		logger.InfoCtx(ctx, "Draft deleted", logger.KeyDraftID, id)
	}

	current, found, err := r.currentID(ctx)
	if err != nil {
		return err
	}
	if found && current == id {
		return r.setCurrent(ctx, "")
	}
	return nil
}

// CurrentID returns the pointer as stored. It may name a draft that no
// longer exists.
func (r *Registry) CurrentID(ctx context.Context) (string, bool, error) {
	return r.currentID(ctx)
}

func (r *Registry) currentID(ctx context.Context) (string, bool, error) {
	id, found, err := r.store.Read(ctx, storage.KeyCurrentDraft)
	if err != nil || !found || id == "" {
		return "", false, err
	}
	return id, true, nil
}

// SetCurrentID sets the pointer. An empty id clears it.
func (r *Registry) SetCurrentID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setCurrent(ctx, id)
}

func (r *Registry) setCurrent(ctx context.Context, id string) error {
	if id == "" {
		return r.store.Remove(ctx, storage.KeyCurrentDraft)
	}
	return r.store.Write(ctx, storage.KeyCurrentDraft, id)
}

// Current returns the draft the pointer names, after checking it still
// exists. A dangling pointer reports found=false.
func (r *Registry) Current(ctx context.Context) (Draft, bool, error) {
	id, found, err := r.currentID(ctx)
	if err != nil || !found {
		return Draft{}, false, err
	}
	draft, found, err := r.Get(ctx, id)
	if err != nil {
		return Draft{}, false, err
	}
	if !found {
		logger.DebugCtx(ctx, "Current draft pointer is dangling", logger.KeyDraftID, id)
	}
	return draft, found, nil
}
