package chat

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ananyak/chatterm/internal/bus"
)

// Phase represents a session controller's lifecycle state for one open
// conversation.
type Phase string

const (
	PhaseIdle    Phase = "IDLE"
	PhaseLoading Phase = "LOADING"
	PhaseReady   Phase = "READY"
	PhaseSending Phase = "SENDING"
)

// validTransitions defines allowed phase transitions. Loading happens once
// per open; Sending may repeat while Ready.
var validTransitions = map[Phase][]Phase{
	PhaseIdle:    {PhaseLoading},
	PhaseLoading: {PhaseReady},
	PhaseReady:   {PhaseSending, PhaseLoading},
	PhaseSending: {PhaseReady},
}

// phaseMachine tracks and enforces controller phase transitions.
type phaseMachine struct {
	mu      sync.RWMutex
	current Phase
	bus     *bus.Bus
}

func newPhaseMachine(b *bus.Bus) *phaseMachine {
	return &phaseMachine{current: PhaseIdle, bus: b}
}

// Current returns the current phase.
func (m *phaseMachine) Current() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition attempts to move to a new phase. Returns error if the
// transition is invalid.
func (m *phaseMachine) Transition(to Phase) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed := validTransitions[m.current]
	if !slices.Contains(allowed, to) {
		return fmt.Errorf("invalid phase transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	if m.bus != nil {
		m.bus.Publish(bus.Event{
			Kind:      bus.KindPhaseChanged,
			Timestamp: time.Now(),
			Payload:   PhaseChange{From: from, To: to},
		})
	}
	return nil
}

// PhaseChange is the payload for phase change events.
type PhaseChange struct {
	From Phase
	To   Phase
}
