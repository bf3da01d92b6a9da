package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ananyak/chatterm/internal/bus"
)

func TestGateStates(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "token"))
	g := NewGate(s, nil)

	if got := g.Check(); got != StateUnauthenticated {
		t.Errorf("Check() = %v, want unauthenticated", got)
	}
	if g.IsAuthenticated() {
		t.Error("IsAuthenticated() = true, want false")
	}

	if err := g.SignIn("tok"); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if got := g.Check(); got != StateAuthenticated {
		t.Errorf("Check() after SignIn = %v, want authenticated", got)
	}

	if err := g.SignOut(); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}
	if got := g.Check(); got != StateUnauthenticated {
		t.Errorf("Check() after SignOut = %v, want unauthenticated", got)
	}
}

func TestGatePublishesAuthChanges(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "token"))
	b := bus.New()
	g := NewGate(s, b)

	ch, unsub := b.Subscribe("auth.", 10)
	defer unsub()

	if err := g.SignIn("tok"); err != nil {
		t.Fatal(err)
	}

	select {
	case evt := <-ch:
		if evt.Kind != bus.KindAuthChanged {
			t.Errorf("got kind %q, want %q", evt.Kind, bus.KindAuthChanged)
		}
		if state, ok := evt.Payload.(State); !ok || state != StateAuthenticated {
			t.Errorf("payload = %v, want StateAuthenticated", evt.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for auth event")
	}
}

func TestStateString(t *testing.T) {
	if got := StateUnknown.String(); got != "unknown" {
		t.Errorf("StateUnknown = %q", got)
	}
	if got := StateAuthenticated.String(); got != "authenticated" {
		t.Errorf("StateAuthenticated = %q", got)
	}
	if got := StateUnauthenticated.String(); got != "unauthenticated" {
		t.Errorf("StateUnauthenticated = %q", got)
	}
}
