// Package workspace composes one editor session: the saved content, the
// change tracker, drafts, preferences and user notifications.
package workspace

import (
	"context"
	"strings"

	"github.com/marmos91/draftkeep/internal/logger"
	"github.com/marmos91/draftkeep/pkg/autosave"
	"github.com/marmos91/draftkeep/pkg/drafts"
	"github.com/marmos91/draftkeep/pkg/notify"
	"github.com/marmos91/draftkeep/pkg/prefs"
	"github.com/marmos91/draftkeep/pkg/storage"
)

// Workspace is an editor session.
type Workspace struct {
	store    *storage.SafeStore
	tracker  *autosave.Tracker
	drafts   *drafts.Registry
	prefs    *prefs.Store
	notifier notify.Notifier
	theme    prefs.Theme
}

// Options wires the session's collaborators. Zero fields get defaults built
// on Store.
type Options struct {
	Store    *storage.SafeStore
	Drafts   *drafts.Registry
	Notifier notify.Notifier

	// TrackerOptions are applied after the workspace's own callbacks.
	TrackerOptions []autosave.Option
}

// Open loads the saved content and preferences and starts tracking edits.
//
// A successful load seeds the last-saved snapshot with the loaded content. An
// absent content key falls back to the persisted snapshot. A failed load
// raises a warning and the session continues with empty content
// and no snapshot. It never fails.
func Open(ctx context.Context, opts Options) *Workspace {
	w := &Workspace{
		store:    opts.Store,
		drafts:   opts.Drafts,
		notifier: opts.Notifier,
	}
	if w.notifier == nil {
		w.notifier = notify.Discard
	}
	if w.drafts == nil {
		w.drafts = drafts.NewRegistry(w.store)
	}
	w.prefs = prefs.New(w.store)

	trackerOpts := append([]autosave.Option{
		autosave.WithOnSave(w.onAutosave),
		autosave.WithOnQuotaExceeded(func() { w.notifier.Notify(context.Background(), notify.StorageFull()) }),
	}, opts.TrackerOptions...)
	w.tracker = autosave.NewTracker(w.store, trackerOpts...)

	content, found, err := w.store.Read(ctx, storage.KeyContent)
	switch {
	case err != nil:
		logger.WarnCtx(ctx, "Could not load saved content", logger.Err(err))
		w.notifier.Notify(ctx, notify.LoadFailed(storage.MessageOf(err)))
	case found:
		w.tracker.Reset(ctx, content)
	default:
		w.restoreLastSaved(ctx)
	}

	w.theme = w.prefs.Theme(ctx)
	return w
}

// restoreLastSaved falls back to the last-saved snapshot when the content key
// is absent. Nothing found leaves the session empty with no snapshot.
func (w *Workspace) restoreLastSaved(ctx context.Context) {
	restored, err := w.tracker.LoadSnapshot(ctx)
	switch {
	case err != nil:
		logger.WarnCtx(ctx, "Could not load last-saved snapshot", logger.Err(err))
		w.notifier.Notify(ctx, notify.LoadFailed(storage.MessageOf(err)))
	case restored:
		logger.InfoCtx(ctx, "Restored content from last-saved snapshot")
	}
}

// onAutosave reports debounced failures. Manual saves are reported by Save.
func (w *Workspace) onAutosave(r autosave.SaveResult) {
	if r.Err == nil || r.Trigger != autosave.TriggerDebounce {
		return
	}
	w.notifier.Notify(context.Background(), notify.AutosaveFailed(storage.MessageOf(r.Err)))
}

// Tracker returns the session's change tracker.
func (w *Workspace) Tracker() *autosave.Tracker { return w.tracker }

// Drafts returns the draft registry.
func (w *Workspace) Drafts() *drafts.Registry { return w.drafts }

// Prefs returns the preference store.
func (w *Workspace) Prefs() *prefs.Store { return w.prefs }

// Content returns the live content.
func (w *Workspace) Content() string { return w.tracker.Content() }

// Theme returns the session's preview theme.
func (w *Workspace) Theme() prefs.Theme { return w.theme }

// Edit replaces the live content.
func (w *Workspace) Edit(content string) {
	w.tracker.Edit(content)
}

// Save writes the live content now and notifies the outcome.
func (w *Workspace) Save(ctx context.Context) error {
	if err := w.tracker.SaveNow(ctx); err != nil {
		w.notifier.Notify(ctx, notify.SaveFailed(storage.MessageOf(err)))
		return err
	}
	w.notifier.Notify(ctx, notify.Saved())
	return nil
}

// SetTheme changes the preview theme. A storage failure is logged and the
// in-memory theme still changes.
func (w *Workspace) SetTheme(ctx context.Context, t prefs.Theme) error {
	if _, err := prefs.ParseTheme(string(t)); err != nil {
		return err
	}
	w.theme = t
	_ = w.prefs.SetTheme(ctx, t)
	return nil
}

// LoadDraft makes the draft's content the live content and marks it current.
// It reports false when no such draft exists.
func (w *Workspace) LoadDraft(ctx context.Context, id string) (bool, error) {
	d, ok, err := w.drafts.Get(ctx, id)
	if err != nil || !ok {
		return false, err
	}
	w.tracker.Edit(d.Content)
	if err := w.drafts.SetCurrentID(ctx, d.ID); err != nil {
		logger.WarnCtx(ctx, "Could not record current draft", logger.KeyDraftID, d.ID, logger.Err(err))
	}
	return true, nil
}

// SaveAsDraft stores the live content as a new draft. Blank content is
// refused with a warning.
func (w *Workspace) SaveAsDraft(ctx context.Context, name string) (drafts.Draft, error) {
	content := w.tracker.Content()
	if strings.TrimSpace(content) == "" {
		w.notifier.Notify(ctx, notify.EmptyDraft())
		return drafts.Draft{}, ErrEmptyDraft
	}

	d, err := w.drafts.Create(ctx, content, name)
	if err != nil && d.ID == "" {
		w.notifier.Notify(ctx, notify.DraftSaveFailed())
		return d, err
	}
	w.notifier.Notify(ctx, notify.DraftSaved(name))
	return d, err
}

// Status returns the storage status strip, if any.
func (w *Workspace) Status(ctx context.Context) (notify.Notification, bool) {
	return notify.StatusStrip(w.store.Health(ctx), w.store.Estimate(ctx))
}

// Close flushes unsaved content and stops the tracker.
func (w *Workspace) Close(ctx context.Context) error {
	defer w.tracker.Close()
	return w.tracker.Flush(ctx)
}
