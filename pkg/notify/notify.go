// Package notify describes user-facing notifications and the sinks that
// deliver them.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/marmos91/draftkeep/internal/logger"
)

// Kind is the severity of a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// ActionClearDrafts is the suggested action attached to quota notifications.
const ActionClearDrafts = "Clear drafts"

// Notification is a message for the user. Action and Details are optional.
type Notification struct {
	Kind     Kind          `json:"kind" yaml:"kind"`
	Title    string        `json:"title" yaml:"title"`
	Message  string        `json:"message" yaml:"message"`
	Action   string        `json:"action,omitempty" yaml:"action,omitempty"`
	Details  string        `json:"details,omitempty" yaml:"details,omitempty"`
	Duration time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
}

func (n Notification) String() string {
	if n.Message == "" {
		return fmt.Sprintf("[%s] %s", n.Kind, n.Title)
	}
	return fmt.Sprintf("[%s] %s: %s", n.Kind, n.Title, n.Message)
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(context.Context, Notification) {})

// LogNotifier writes notifications to the structured log, mapping kinds to
// levels.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n Notification) {
	args := []any{"title", n.Title}
	if n.Action != "" {
		args = append(args, "action", n.Action)
	}
	if n.Details != "" {
		args = append(args, "details", n.Details)
	}

	switch n.Kind {
	case KindError:
		logger.ErrorCtx(ctx, n.Message, args...)
	case KindWarning:
		logger.WarnCtx(ctx, n.Message, args...)
	default:
		logger.InfoCtx(ctx, n.Message, args...)
	}
}

// Multi fans a notification out to every non-nil sink.
func Multi(sinks ...Notifier) Notifier {
	return NotifierFunc(func(ctx context.Context, n Notification) {
		for _, s := range sinks {
			if s != nil {
				s.Notify(ctx, n)
			}
		}
	})
}

// Recorder keeps every notification it receives. Safe for concurrent use.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, n)
}

// All returns a copy of the recorded notifications in arrival order.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.all...)
}

// Titles returns the recorded titles in arrival order.
func (r *Recorder) Titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	titles := make([]string, len(r.all))
	for i, n := range r.all {
		titles[i] = n.Title
	}
	return titles
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = nil
}
