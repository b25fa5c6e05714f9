// internal/screen/router.go
//
// Screen router: exactly one registered screen is visible at a time.
// Responsibilities:
//   - Hold the fixed set of screens by id.
//   - Activate(id): hide every screen, then show the target.
//   - Map session phases to screens (Navigate).

package screen

import (
	"fmt"
	"sync"

	"github.com/robalobadob/mastermind/internal/session"
)

// ID names a screen.
type ID string

const (
	Setup       ID = "setup"
	SecretEntry ID = "secret-entry"
	Handover    ID = "handover"
	Guessing    ID = "guessing"
	RoundOver   ID = "round-over"
)

// Screen is anything the router can show or hide.
type Screen interface {
	ID() ID
	Show()
	Hide()
}

// ForPhase returns the screen bound to a session phase.
func ForPhase(p session.Phase) (ID, bool) {
	switch p {
	case session.PhaseSetup:
		return Setup, true
	case session.PhaseSecretEntry:
		return SecretEntry, true
	case session.PhaseHandover:
		return Handover, true
	case session.PhaseGuessing:
		return Guessing, true
	case session.PhaseRoundOver:
		return RoundOver, true
	}
	return "", false
}

// Router shows one screen at a time.
type Router struct {
	mu      sync.Mutex
	order   []ID
	screens map[ID]Screen
	active  ID
}

// NewRouter registers screens in the given order. Later duplicates replace
// earlier ones.
func NewRouter(screens ...Screen) *Router {
	r := &Router{screens: make(map[ID]Screen, len(screens))}
	for _, s := range screens {
		r.Register(s)
	}
	return r
}

// Register adds or replaces a screen.
func (r *Router) Register(s Screen) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.screens[s.ID()]; !ok {
		r.order = append(r.order, s.ID())
	}
	r.screens[s.ID()] = s
}

// Activate hides all screens and shows id. An unknown id is an error and
// leaves the current screen visible.
func (r *Router) Activate(id ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.screens[id]
	if !ok {
		return fmt.Errorf("screen: unknown screen %q", id)
	}
	for _, sid := range r.order {
		if sid != id {
			r.screens[sid].Hide()
		}
	}
	target.Show()
	r.active = id
	return nil
}

// Active returns the visible screen id, or "" before the first Activate.
func (r *Router) Active() ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Navigate implements session.Navigator.
func (r *Router) Navigate(p session.Phase) error {
	id, ok := ForPhase(p)
	if !ok {
		return fmt.Errorf("screen: no screen for phase %s", p)
	}
	return r.Activate(id)
}
