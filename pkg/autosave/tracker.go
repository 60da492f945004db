// Package autosave tracks unsaved editor changes and persists them after a
// quiet period.
//
// A Tracker compares live content with the last durably saved snapshot. Every
// edit that leaves the content dirty cancels the pending save and schedules a
// new one, so only the most recent value within a quiet period is written.
// A failed save keeps the content dirty; recovery waits for the next edit or
// an explicit SaveNow, there is no background retry.
package autosave

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/marmos91/draftkeep/internal/logger"
	"github.com/marmos91/draftkeep/internal/telemetry"
	"github.com/marmos91/draftkeep/pkg/metrics"
	"github.com/marmos91/draftkeep/pkg/storage"
)

// DefaultQuietPeriod is the debounce delay between the last edit and the save.
const DefaultQuietPeriod = 2 * time.Second

// State is the tracker's save state.
type State int

const (
	StateClean State = iota
	StateDirtyPending
	StateSaving
)

func (s State) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateDirtyPending:
		return "dirty-pending"
	case StateSaving:
		return "saving"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Trigger says what started a save.
type Trigger string

const (
	TriggerDebounce Trigger = "debounce"
	TriggerManual   Trigger = "manual"
)

// SaveResult describes one finished save.
type SaveResult struct {
	Trigger Trigger
	Content string
	Err     error
}

// Tracker is the change tracker and autosave scheduler.
//
// Edit, SaveNow and the timer callback may run on different goroutines.
// Writes are serialized: one completes before the next begins.
type Tracker struct {
	store       *storage.SafeStore
	key         string
	snapshotKey string
	quiet       time.Duration
	maxRetries  int
	clock       Clock
	guard       *Guard
	metrics     metrics.AutosaveMetrics

	onSave          func(SaveResult)
	onQuotaExceeded func()
	onStateChange   func(State)

	mu         sync.Mutex
	live       string
	snapshot   string
	hasSnap    bool
	state      State
	saving     bool
	timer      Timer
	generation uint64
	closed     bool

	writeMu sync.Mutex
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithQuietPeriod sets the debounce delay.
func WithQuietPeriod(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.quiet = d
		}
	}
}

// WithMaxRetries sets the retry count passed to every write.
func WithMaxRetries(n int) Option {
	return func(t *Tracker) {
		if n >= 0 {
			t.maxRetries = n
		}
	}
}

// WithClock replaces the real clock.
func WithClock(c Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithGuard uses g as the exit guard instead of a fresh one.
func WithGuard(g *Guard) Option {
	return func(t *Tracker) { t.guard = g }
}

// WithKeys overrides the content and snapshot keys.
func WithKeys(content, snapshot string) Option {
	return func(t *Tracker) {
		t.key = content
		t.snapshotKey = snapshot
	}
}

// WithMetrics attaches autosave metrics. nil disables them.
func WithMetrics(m metrics.AutosaveMetrics) Option {
	return func(t *Tracker) { t.metrics = m }
}

// WithOnSave registers a callback for every finished save, successful or not.
// It runs after the write lock is released and may call SaveNow or Flush.
func WithOnSave(fn func(SaveResult)) Option {
	return func(t *Tracker) { t.onSave = fn }
}

// WithOnQuotaExceeded registers the quota callback passed to every write.
func WithOnQuotaExceeded(fn func()) Option {
	return func(t *Tracker) { t.onQuotaExceeded = fn }
}

// WithOnStateChange registers a callback for state transitions. Transitions
// made by a save are reported once the write lock is released.
func WithOnStateChange(fn func(State)) Option {
	return func(t *Tracker) { t.onStateChange = fn }
}

// NewTracker creates a tracker writing through store. It starts with no
// snapshot, which makes it dirty-pending with the guard armed until Reset or
// LoadSnapshot seeds one.
func NewTracker(store *storage.SafeStore, opts ...Option) *Tracker {
	t := &Tracker{
		store:       store,
		key:         storage.KeyContent,
		snapshotKey: storage.KeyLastSaved,
		quiet:       DefaultQuietPeriod,
		maxRetries:  storage.DefaultMaxRetries,
		clock:       RealClock(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.guard == nil {
		t.guard = NewGuard("")
	}

	t.mu.Lock()
	t.recomputeLocked()
	t.mu.Unlock()
	return t
}

// Guard returns the exit guard the tracker arms.
func (t *Tracker) Guard() *Guard {
	return t.guard
}

// LoadSnapshot restores the persisted last-saved snapshot as both the live
// value and the snapshot, cancelling any pending save. It reports whether a
// snapshot was found; an absent one leaves the tracker untouched.
func (t *Tracker) LoadSnapshot(ctx context.Context) (bool, error) {
	value, found, err := t.store.Read(ctx, t.snapshotKey)
	if err != nil || !found {
		return false, err
	}

	t.mu.Lock()
	t.stopTimerLocked()
	t.live = value
	t.snapshot, t.hasSnap = value, true
	changed := t.recomputeLocked()
	t.mu.Unlock()

	t.notifyState(changed)
	return true, nil
}

// Reset makes content both the live value and the saved snapshot, cancelling
// any pending save. The snapshot is also persisted, best effort.
func (t *Tracker) Reset(ctx context.Context, content string) {
	t.mu.Lock()
	t.stopTimerLocked()
	t.live = content
	t.snapshot, t.hasSnap = content, true
	changed := t.recomputeLocked()
	t.mu.Unlock()

	t.notifyState(changed)
	t.persistSnapshot(ctx, content)
}

// Edit records a new live value and re-evaluates dirtiness. A dirty value
// (re)starts the quiet period; a value equal to the snapshot cancels it.
func (t *Tracker) Edit(content string) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.live = content

	superseded := t.stopTimerLocked()
	if t.dirtyLocked() {
		t.generation++
		gen := t.generation
		t.timer = t.clock.AfterFunc(t.quiet, func() { t.fire(gen) })
	}
	changed := t.recomputeLocked()
	t.mu.Unlock()

	if superseded && t.metrics != nil {
		t.metrics.RecordSuperseded()
	}
	t.notifyState(changed)
}

// HasUnsavedChanges reports whether content differs from the snapshot. With
// no snapshot every value, including "", is unsaved.
func (t *Tracker) HasUnsavedChanges(content string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.hasSnap || content != t.snapshot
}

// Dirty reports whether the live value differs from the snapshot.
func (t *Tracker) Dirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dirtyLocked()
}

// State returns the current save state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Content returns the live value.
func (t *Tracker) Content() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live
}

// Snapshot returns the last saved value and whether one exists.
func (t *Tracker) Snapshot() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot, t.hasSnap
}

// SaveNow writes the live value immediately, cancelling any pending save.
// It works from any state, including clean.
func (t *Tracker) SaveNow(ctx context.Context) error {
	t.mu.Lock()
	if t.stopTimerLocked() {
		t.generation++
	}
	t.mu.Unlock()

	return t.save(ctx, TriggerManual, false)
}

// Flush saves the live value if it is dirty. Used before exit.
func (t *Tracker) Flush(ctx context.Context) error {
	t.mu.Lock()
	t.stopTimerLocked()
	t.generation++
	t.mu.Unlock()

	return t.save(ctx, TriggerManual, true)
}

// Close cancels any pending save. Later edits are ignored.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopTimerLocked()
	t.closed = true
}

// fire runs when the quiet period of generation gen elapses.
func (t *Tracker) fire(gen uint64) {
	t.mu.Lock()
	stale := t.closed || gen != t.generation
	t.timer = nil
	t.mu.Unlock()
	if stale {
		return
	}

	ctx := logger.WithContext(context.Background(), logger.NewLogContext("autosave"))
	_ = t.save(ctx, TriggerDebounce, true)
}

// save writes the live value. With onlyIfDirty a clean tracker skips the write.
// Callbacks run after the write lock is released.
func (t *Tracker) save(ctx context.Context, trigger Trigger, onlyIfDirty bool) error {
	result, transitions, ran := t.write(ctx, trigger, onlyIfDirty)
	if !ran {
		return nil
	}

	if t.onStateChange != nil {
		for _, s := range transitions {
			t.onStateChange(s)
		}
	}
	if t.onSave != nil {
		t.onSave(result)
	}
	return result.Err
}

// write performs one save under writeMu and returns the state transitions it
// caused, in order.
func (t *Tracker) write(ctx context.Context, trigger Trigger, onlyIfDirty bool) (SaveResult, []State, bool) {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	var transitions []State

	t.mu.Lock()
	if onlyIfDirty && !t.dirtyLocked() {
		t.mu.Unlock()
		return SaveResult{}, nil, false
	}
	value, gen := t.live, t.generation
	t.saving = true
	if t.recomputeLocked() {
		transitions = append(transitions, t.state)
	}
	t.mu.Unlock()

	ctx, span := telemetry.StartAutosaveSpan(ctx, string(trigger), gen)
	defer span.End()

	start := time.Now()
	err := t.store.Write(ctx, t.key, value,
		storage.WithMaxRetries(t.maxRetries),
		storage.WithQuotaCallback(t.onQuotaExceeded))
	elapsed := time.Since(start)

	t.mu.Lock()
	t.saving = false
	if err == nil {
		t.snapshot, t.hasSnap = value, true
	}
	if t.recomputeLocked() {
		transitions = append(transitions, t.state)
	}
	state := t.state
	t.mu.Unlock()

	if err == nil {
		t.persistSnapshot(ctx, value)
		logger.DebugCtx(ctx, "Autosave complete",
			logger.KeyTrigger, string(trigger), logger.KeyBytes, len(value),
			logger.KeyState, state.String(), logger.KeyDurationMs, float64(elapsed.Microseconds())/1000)
	} else {
		telemetry.RecordError(ctx, err)
		logger.WarnCtx(ctx, "Autosave failed, content stays dirty",
			logger.KeyTrigger, string(trigger), logger.KeyErrorKind, storage.KindOf(err).String(), logger.Err(err))
	}

	if t.metrics != nil {
		t.metrics.ObserveSave(string(trigger), err == nil, elapsed)
	}
	return SaveResult{Trigger: trigger, Content: value, Err: err}, transitions, true
}

// persistSnapshot mirrors the snapshot to its key. A failure only costs the
// snapshot across restarts, so it is logged and dropped.
func (t *Tracker) persistSnapshot(ctx context.Context, value string) {
	if err := t.store.Write(ctx, t.snapshotKey, value, storage.WithMaxRetries(0)); err != nil {
		logger.DebugCtx(ctx, "Could not persist last-saved snapshot", logger.Err(err))
	}
}

func (t *Tracker) dirtyLocked() bool {
	return !t.hasSnap || t.live != t.snapshot
}

// stopTimerLocked cancels a pending save and reports whether one was pending.
func (t *Tracker) stopTimerLocked() bool {
	if t.timer == nil {
		return false
	}
	stopped := t.timer.Stop()
	t.timer = nil
	return stopped
}

// recomputeLocked derives the state, re-arms or disarms the guard and
// reports whether the state changed.
func (t *Tracker) recomputeLocked() bool {
	prev := t.state
	switch {
	case t.saving:
		t.state = StateSaving
	case t.dirtyLocked():
		t.state = StateDirtyPending
	default:
		t.state = StateClean
	}

	if t.state == StateClean {
		t.guard.Disarm()
	} else {
		t.guard.Arm(t.Dirty)
	}
	if t.metrics != nil {
		t.metrics.SetDirty(t.state != StateClean)
	}
	return t.state != prev
}

func (t *Tracker) notifyState(changed bool) {
	if !changed || t.onStateChange == nil {
		return
	}
	t.onStateChange(t.State())
}
