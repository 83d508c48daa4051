package status

import (
	"testing"

	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/bus"
)

func TestInitialState(t *testing.T) {
	m := NewMachine(nil, "s1")
	if m.Current() != Idle {
		t.Errorf("initial state = %s, want IDLE", m.Current())
	}
}

func TestValidTransitions(t *testing.T) {
	tests := []struct {
		from State
		to   State
	}{
		{Idle, Connecting},
		{Idle, Closed},
		{Connecting, Open},
		{Connecting, Reconnecting},
		{Connecting, Closed},
		{Open, Reconnecting},
		{Open, Closed},
		{Reconnecting, Connecting},
		{Reconnecting, Exhausted},
		{Reconnecting, Closed},
		{Exhausted, Connecting},
		{Exhausted, Closed},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			m := NewMachine(nil, "s1")
			walkTo(t, m, tt.from)
			if err := m.Transition(tt.to); err != nil {
				t.Errorf("Transition(%s -> %s) error = %v", tt.from, tt.to, err)
			}
			if m.Current() != tt.to {
				t.Errorf("state = %s, want %s", m.Current(), tt.to)
			}
		})
	}
}

func TestInvalidTransition(t *testing.T) {
	m := NewMachine(nil, "s1")
	if err := m.Transition(Open); err == nil {
		t.Error("Transition(IDLE -> OPEN) should fail")
	}
}

// TestClosedIsTerminal verifies that no transition leaves Closed: a torn-down
// session must never produce another state change, even if a stale retry
// callback tries to re-enter Connecting.
func TestClosedIsTerminal(t *testing.T) {
	for _, to := range []State{Idle, Connecting, Open, Reconnecting, Exhausted} {
		t.Run("CLOSED->"+string(to), func(t *testing.T) {
			m := NewMachine(nil, "s1")
			if err := m.Transition(Closed); err != nil {
				t.Fatal(err)
			}
			if err := m.Transition(to); err == nil {
				t.Errorf("Transition(CLOSED -> %s) should fail", to)
			}
			if m.Current() != Closed {
				t.Errorf("state = %s, want CLOSED", m.Current())
			}
		})
	}
}

// TestOpenRequiresConnecting verifies that neither Reconnecting nor Idle can
// jump straight to Open; establishment is only observed from a dial in flight.
func TestOpenRequiresConnecting(t *testing.T) {
	m := NewMachine(nil, "s1")
	walkTo(t, m, Reconnecting)

	if err := m.Transition(Open); err == nil {
		t.Fatal("Transition(RECONNECTING -> OPEN) should fail; must go through CONNECTING first")
	}
	if m.Current() != Reconnecting {
		t.Errorf("state = %s, want RECONNECTING (should not have changed)", m.Current())
	}

	if err := m.Transition(Connecting); err != nil {
		t.Fatalf("RECONNECTING -> CONNECTING: %v", err)
	}
	if err := m.Transition(Open); err != nil {
		t.Fatalf("CONNECTING -> OPEN: %v", err)
	}
}

// TestRecoveryLifecycle simulates a drop and successful recovery:
// IDLE → CONNECTING → OPEN → RECONNECTING → CONNECTING → OPEN
func TestRecoveryLifecycle(t *testing.T) {
	m := NewMachine(nil, "s1")

	steps := []State{Connecting, Open, Reconnecting, Connecting, Open}
	for _, s := range steps {
		if err := m.Transition(s); err != nil {
			t.Fatalf("Transition to %s: %v (current: %s)", s, err, m.Current())
		}
	}
	if m.Current() != Open {
		t.Errorf("final state = %s, want OPEN", m.Current())
	}
}

// TestExhaustionLifecycle simulates a failed episode ending in Exhausted and
// a manual connect leaving it:
// IDLE → CONNECTING → RECONNECTING → ... → EXHAUSTED → CONNECTING
func TestExhaustionLifecycle(t *testing.T) {
	m := NewMachine(nil, "s1")

	steps := []State{Connecting, Reconnecting, Connecting, Reconnecting, Exhausted, Connecting}
	for _, s := range steps {
		if err := m.Transition(s); err != nil {
			t.Fatalf("Transition to %s: %v (current: %s)", s, err, m.Current())
		}
	}
	if m.Current() != Connecting {
		t.Errorf("final state = %s, want CONNECTING", m.Current())
	}
}

func TestTransitionEmitsEvent(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("conn.", 10)
	defer unsub()

	m := NewMachine(b, "s1")
	if err := m.Transition(Connecting); err != nil {
		t.Fatal(err)
	}

	evt := <-ch
	if evt.Kind != "conn.state_changed" {
		t.Errorf("event kind = %q, want conn.state_changed", evt.Kind)
	}
	if evt.Session != "s1" {
		t.Errorf("event session = %q, want s1", evt.Session)
	}
	change, ok := evt.Payload.(StatusChange)
	if !ok {
		t.Fatalf("payload type = %T, want StatusChange", evt.Payload)
	}
	if change.From != Idle || change.To != Connecting {
		t.Errorf("change = %v -> %v, want IDLE -> CONNECTING", change.From, change.To)
	}
}

// walkTo is a helper that transitions the machine to a target state.
func walkTo(t *testing.T, m *Machine, target State) {
	t.Helper()
	paths := map[State][]State{
		Idle:         {},
		Connecting:   {Connecting},
		Open:         {Connecting, Open},
		Reconnecting: {Connecting, Reconnecting},
		Exhausted:    {Connecting, Reconnecting, Exhausted},
		Closed:       {Closed},
	}
	for _, s := range paths[target] {
		if err := m.Transition(s); err != nil {
			t.Fatalf("walkTo(%s): %v", target, err)
		}
	}
}
