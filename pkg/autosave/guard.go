package autosave

import (
	"context"
	"sync"
)

// DefaultGuardMessage is shown when exit is intercepted.
const DefaultGuardMessage = "You have unsaved changes. Leave anyway?"

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// Guard intercepts exit while unsaved changes exist.
//
// The tracker re-arms it on every dirty-state recomputation and disarms it
// once state returns to clean. Dirtiness is read lazily through the check
// installed by the most recent Arm, at the moment exit is attempted.
type Guard struct {
	mu      sync.Mutex
	armed   bool
	arms    uint64
	check   func() bool
	message string
}

// NewGuard creates a disarmed guard.
func NewGuard(message string) *Guard {
	if message == "" {
		message = DefaultGuardMessage
	}
	return &Guard{message: message}
}

// Arm installs check as the dirtiness source and arms the guard.
func (g *Guard) Arm(check func() bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.armed = true
	g.check = check
	g.arms++
}

// Disarm lets exit through without asking.
func (g *Guard) Disarm() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.armed = false
	g.check = nil
}

// Armed reports whether the guard is armed.
func (g *Guard) Armed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.armed
}

// ShouldBlock reports whether exit needs confirmation right now.
func (g *Guard) ShouldBlock() bool {
	g.mu.Lock()
	armed, check := g.armed, g.check
	g.mu.Unlock()
	return armed && check != nil && check()
}

// ConfirmExit returns true when exit may proceed: either nothing is unsaved
// or the user confirmed through c.
func (g *Guard) ConfirmExit(ctx context.Context, c Confirmer) (bool, error) {
	if !g.ShouldBlock() {
		return true, nil
	}
	if c == nil {
		return false, nil
	}
	return c.Confirm(ctx, g.message)
}
