package auth

import (
	"time"

	"github.com/ananyak/chatterm/internal/bus"
)

// State is the gate's view of the session.
type State int

const (
	// StateUnknown means the credential check has not run yet. Views render
	// a neutral "checking" placeholder instead of flashing protected content.
	StateUnknown State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Gate decides whether protected views may fetch. Absence of a credential is
// not an error; it simply means the login page comes first.
type Gate struct {
	store *Store
	bus   *bus.Bus
}

// NewGate creates a gate over the given token store.
func NewGate(store *Store, b *bus.Bus) *Gate {
	return &Gate{store: store, bus: b}
}

// Check resolves the tri-state by consulting the token store.
func (g *Gate) Check() State {
	if g.store.Token() == "" {
		return StateUnauthenticated
	}
	return StateAuthenticated
}

// IsAuthenticated reports whether a credential is currently held.
func (g *Gate) IsAuthenticated() bool {
	return g.Check() == StateAuthenticated
}

// SignIn stores the freshly issued token and announces the change.
func (g *Gate) SignIn(token string) error {
	if err := g.store.Set(token); err != nil {
		return err
	}
	g.publish(StateAuthenticated)
	return nil
}

// SignOut destroys the local credential. Server-side invalidation is the
// caller's concern; local teardown must not depend on the server answering.
func (g *Gate) SignOut() error {
	if err := g.store.Clear(); err != nil {
		return err
	}
	g.publish(StateUnauthenticated)
	return nil
}

func (g *Gate) publish(s State) {
	if g.bus == nil {
		return
	}
	g.bus.Publish(bus.Event{
		Kind:      bus.KindAuthChanged,
		Timestamp: time.Now(),
		Payload:   s,
	})
}
