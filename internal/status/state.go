package status

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/bus"
)

// State represents a connection session state.
type State string

const (
	// Idle means no connection attempt has been made yet.
	Idle State = "IDLE"
	// Connecting means a transport dial is in flight.
	Connecting State = "CONNECTING"
	// Open means the transport is established and usable.
	Open State = "OPEN"
	// Reconnecting means the transport was lost and a retry is pending.
	Reconnecting State = "RECONNECTING"
	// Exhausted means the automatic retry budget is spent. Terminal until a
	// caller invokes Connect again.
	Exhausted State = "EXHAUSTED"
	// Closed means teardown was requested. Terminal; a new session is
	// required to connect again.
	Closed State = "CLOSED"
)

// validTransitions defines allowed state transitions. Every state may move
// to Closed because explicit teardown is always legal.
var validTransitions = map[State][]State{
	Idle:         {Connecting, Closed},
	Connecting:   {Open, Reconnecting, Closed},
	Open:         {Reconnecting, Closed},
	Reconnecting: {Connecting, Exhausted, Closed},
	Exhausted:    {Connecting, Closed},
	Closed:       {},
}

// Machine tracks and enforces the state transitions of one connection
// session. Every successful transition is published on the bus scoped to the
// session ID.
type Machine struct {
	mu      sync.RWMutex
	current State
	session string
	bus     *bus.Bus
}

// NewMachine creates a state machine for the given session starting in Idle.
func NewMachine(b *bus.Bus, session string) *Machine {
	return &Machine{
		current: Idle,
		session: session,
		bus:     b,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition attempts to move to a new state. Returns error if transition is invalid.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed := validTransitions[m.current]
	if !slices.Contains(allowed, to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	if m.bus != nil {
		m.bus.Publish(bus.Event{
			Kind:      "conn.state_changed",
			Session:   m.session,
			Timestamp: time.Now(),
			Payload: StatusChange{
				From: from,
				To:   to,
			},
		})
	}
	return nil
}

// StatusChange is the payload for state change events.
type StatusChange struct {
	From State
	To   State
}
