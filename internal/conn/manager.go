package conn

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/bus"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/model"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/status"
)

const (
	// DefaultRetryDelay is the fixed delay between reconnection attempts.
	DefaultRetryDelay = 2 * time.Second
	// DefaultMaxAttempts is the number of consecutive failed attempts after
	// which the session gives up until Connect is called again.
	DefaultMaxAttempts = 5

	dialTimeout = 10 * time.Second
)

// Config carries the manager's tunables. Zero values fall back to the
// defaults above and the real websocket dialer.
type Config struct {
	WSBase      string
	RetryDelay  time.Duration
	MaxAttempts int
	Dialer      Dialer
}

// Manager owns exactly one live websocket session for a (room, username)
// target: it dials, watches for unexpected closure, retries on a fixed delay
// up to the attempt budget, and tears everything down on Disconnect.
//
// All outcomes are observed asynchronously through "conn." bus events scoped
// to the manager's session ID: conn.state_changed, conn.open, conn.message,
// conn.error, conn.closed, conn.dropped_payload, conn.send_dropped. No event
// for a session is ever published after its Closed transition.
type Manager struct {
	target   Target
	endpoint string
	session  string
	dialer   Dialer
	machine  *status.Machine
	bus      *bus.Bus
	logger   *zap.Logger

	retryDelay  time.Duration
	maxAttempts int

	mu       sync.Mutex
	sock     Socket
	gen      int // bumped on every dial and on teardown; stale goroutines check it
	attempts int
	retry    *time.Timer
}

// NewManager creates a manager for the target. The session does not dial
// until Connect is called.
func NewManager(target Target, cfg Config, b *bus.Bus, logger *zap.Logger) *Manager {
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Dialer == nil {
		cfg.Dialer = NewDialer()
	}

	session := uuid.New().String()
	return &Manager{
		target:      target,
		endpoint:    target.Endpoint(cfg.WSBase),
		session:     session,
		dialer:      cfg.Dialer,
		machine:     status.NewMachine(b, session),
		bus:         b,
		logger: logger.With(
			zap.String("session", session),
			zap.String("room", target.RoomID),
			zap.String("username", target.Username),
		),
		retryDelay:  cfg.RetryDelay,
		maxAttempts: cfg.MaxAttempts,
	}
}

// Session returns the session ID carried by this manager's bus events.
func (m *Manager) Session() string {
	return m.session
}

// Target returns the (room, username) pair this session is bound to.
func (m *Manager) Target() Target {
	return m.target
}

// State returns the current connection state.
func (m *Manager) State() status.State {
	return m.machine.Current()
}

// Connect begins establishing the session. It is idempotent: calls while
// already Open or Connecting do nothing. From Exhausted it resets the
// attempt budget and starts a fresh episode; from Reconnecting it preempts
// the pending retry timer and dials immediately. A closed session never
// reconnects.
func (m *Manager) Connect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.machine.Current() {
	case status.Connecting, status.Open:
		return
	case status.Closed:
		m.logger.Warn("connect ignored: session is closed")
		return
	case status.Exhausted:
		m.attempts = 0
	case status.Reconnecting:
		m.stopRetryLocked()
	}
	m.startDialLocked()
}

// Disconnect tears the session down from any state: it cancels a pending
// retry timer synchronously, closes an open transport, and transitions to
// Closed. Calling it again is a no-op.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.machine.Current() == status.Closed {
		return
	}
	m.stopRetryLocked()
	m.gen++
	if m.sock != nil {
		_ = m.sock.Close()
		m.sock = nil
	}
	_ = m.machine.Transition(status.Closed)
	m.logger.Info("session closed")
}

// Send writes one outbound chat frame: the raw trimmed text, not a Message
// envelope (the server stamps sender, type, and timestamp). Outside Open the
// text is dropped with a conn.send_dropped event; nothing is queued for
// later delivery.
func (m *Manager) Send(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.machine.Current() != status.Open || m.sock == nil {
		m.logger.Warn("send dropped: session not open",
			zap.String("state", string(m.machine.Current())))
		m.publishLocked("conn.send_dropped", text)
		return
	}
	if err := m.sock.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		// The read loop observes the broken transport and drives recovery.
		m.logger.Warn("send failed", zap.Error(err))
		m.publishLocked("conn.error", err.Error())
	}
}

// startDialLocked transitions into Connecting and launches the dial.
// Caller must hold m.mu.
func (m *Manager) startDialLocked() {
	if err := m.machine.Transition(status.Connecting); err != nil {
		m.logger.Error("cannot start dial", zap.Error(err))
		return
	}
	m.gen++
	gen := m.gen
	go m.dial(gen)
}

func (m *Manager) dial(gen int) {
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	sock, err := m.dialer.Dial(ctx, m.endpoint)

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen || m.machine.Current() != status.Connecting {
		// Superseded by teardown while the dial was in flight. The new
		// socket is never owned, so release it here.
		if err == nil {
			_ = sock.Close()
		}
		return
	}
	if err != nil {
		m.logger.Warn("dial failed", zap.Error(err))
		m.publishLocked("conn.error", err.Error())
		m.failLocked()
		return
	}

	m.sock = sock
	m.attempts = 0
	_ = m.machine.Transition(status.Open)
	m.publishLocked("conn.open", nil)
	m.logger.Info("session open")
	go m.readLoop(sock, gen)
}

// readLoop pumps inbound frames for one socket generation. It exits when the
// socket errors, which is also how teardown (closing the socket) stops it.
// Inbound events are published under the lock together with the generation
// check, so a frame read just before teardown can never surface after the
// Closed transition.
func (m *Manager) readLoop(sock Socket, gen int) {
	for {
		_, data, err := sock.ReadMessage()
		if err != nil {
			m.handleClosed(gen, err)
			return
		}

		msg, perr := model.ParseMessage(data)

		m.mu.Lock()
		if gen != m.gen {
			m.mu.Unlock()
			return
		}
		if perr != nil {
			m.logger.Warn("dropping malformed frame", zap.Error(perr), zap.Int("bytes", len(data)))
			m.publishLocked("conn.dropped_payload", nil)
		} else {
			m.publishLocked("conn.message", msg)
		}
		m.mu.Unlock()
	}
}

// handleClosed reacts to an unexpected transport closure.
func (m *Manager) handleClosed(gen int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen {
		// Teardown or supersession already released this socket.
		return
	}
	m.logger.Warn("transport closed", zap.Error(err))
	m.publishLocked("conn.error", err.Error())
	m.publishLocked("conn.closed", nil)
	if m.sock != nil {
		_ = m.sock.Close()
		m.sock = nil
	}
	m.failLocked()
}

// failLocked records a failed attempt and either schedules the next retry or
// gives up. The attempt counter is incremented before the timer is armed and
// only ever reset by a successful Open or a manual Connect from Exhausted.
// Caller must hold m.mu.
func (m *Manager) failLocked() {
	if err := m.machine.Transition(status.Reconnecting); err != nil {
		return
	}
	m.attempts++
	if m.attempts >= m.maxAttempts {
		m.logger.Warn("giving up: retry budget exhausted", zap.Int("attempts", m.attempts))
		_ = m.machine.Transition(status.Exhausted)
		return
	}
	m.logger.Info("retry scheduled",
		zap.Int("attempt", m.attempts),
		zap.Duration("delay", m.retryDelay))
	gen := m.gen
	m.retry = time.AfterFunc(m.retryDelay, func() { m.onRetry(gen) })
}

// onRetry fires when the retry delay elapses. State and generation checks
// resolve the race against a concurrent Disconnect whose Stop came too late
// to prevent the timer from firing.
func (m *Manager) onRetry(gen int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen || m.machine.Current() != status.Reconnecting {
		return
	}
	m.retry = nil
	m.startDialLocked()
}

// stopRetryLocked cancels the pending retry timer, if any. Caller must hold
// m.mu; together with the generation check in onRetry this guarantees a
// cancelled timer never produces a transition.
func (m *Manager) stopRetryLocked() {
	if m.retry != nil {
		m.retry.Stop()
		m.retry = nil
	}
}

// publishLocked emits a session-scoped event. Callers hold m.mu; Bus.Publish
// never blocks, so holding the lock across it is safe and keeps event order
// consistent with state changes.
func (m *Manager) publishLocked(kind string, payload any) {
	m.bus.Publish(bus.Event{
		Kind:      kind,
		Session:   m.session,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
