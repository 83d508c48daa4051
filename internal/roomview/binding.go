package roomview

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/bus"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/conn"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/model"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/status"
)

// sessionManager is the slice of conn.Manager the binding drives.
type sessionManager interface {
	Connect()
	Disconnect()
	Send(text string)
	Session() string
	State() status.State
}

var _ sessionManager = (*conn.Manager)(nil)

// Binding ties the currently selected room to exactly one connection
// manager and owns the append-only message log for it. Switching the target
// always tears the previous manager down — exactly once — before the next
// one is constructed, and clears the log; no cross-room history carries
// over. Inbound events are matched against the live session ID, so buffered
// notifications from a superseded session can never pollute the new log.
type Binding struct {
	bus    *bus.Bus
	logger *zap.Logger

	// newManager constructs the manager for a target; tests substitute it.
	newManager func(target conn.Target) sessionManager

	mu      sync.RWMutex
	mgr     sessionManager
	target  conn.Target
	session string
	state   status.State
	log     []model.Message

	refreshCh chan struct{}
	cancel    context.CancelFunc
}

// NewBinding creates a binding that constructs real connection managers with
// the given transport config. No session exists until SetTarget is called.
func NewBinding(cfg conn.Config, b *bus.Bus, logger *zap.Logger) *Binding {
	bd := &Binding{
		bus:       b,
		logger:    logger,
		state:     status.Idle,
		refreshCh: make(chan struct{}, 1),
	}
	bd.newManager = func(target conn.Target) sessionManager {
		return conn.NewManager(target, cfg, b, logger)
	}
	return bd
}

// Start subscribes to session events. Must be called before SetTarget.
func (bd *Binding) Start(ctx context.Context) {
	ctx, bd.cancel = context.WithCancel(ctx)
	ch, unsub := bd.bus.Subscribe("conn.", 256)

	go func() {
		defer unsub()
		for {
			select {
			case evt := <-ch:
				bd.handleEvent(evt)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// SetTarget switches the binding to a new (room, username) pair. The
// previous manager, if any, is fully torn down before the new one is
// created, and the message log is cleared. Re-selecting the current target
// keeps the existing session.
func (bd *Binding) SetTarget(roomID, username string) {
	t := conn.Target{RoomID: roomID, Username: username}

	bd.mu.Lock()
	if bd.mgr != nil && bd.target == t {
		bd.mu.Unlock()
		return
	}
	if old := bd.mgr; old != nil {
		bd.mgr = nil
		old.Disconnect()
	}

	m := bd.newManager(t)
	bd.mgr = m
	bd.target = t
	bd.session = m.Session()
	bd.state = m.State()
	bd.log = nil
	bd.mu.Unlock()

	bd.logger.Info("room target changed",
		zap.String("room", roomID),
		zap.String("session", m.Session()))
	m.Connect()
	bd.signalRefresh()
}

// Leave tears down the active session, if any, and clears the log, leaving
// the binding ready for a future SetTarget. Safe to call with no session.
func (bd *Binding) Leave() {
	bd.mu.Lock()
	old := bd.mgr
	bd.mgr = nil
	bd.session = ""
	bd.state = status.Idle
	bd.log = nil
	bd.target = conn.Target{}
	bd.mu.Unlock()

	if old != nil {
		old.Disconnect()
	}
	bd.signalRefresh()
}

// Close tears down the active session, if any, and stops the event loop.
// Safe to call more than once.
func (bd *Binding) Close() {
	bd.Leave()
	if bd.cancel != nil {
		bd.cancel()
	}
}

// Send forwards outbound text to the live manager. With no target bound the
// text is silently discarded; outside Open the manager itself drops it.
func (bd *Binding) Send(text string) {
	bd.mu.RLock()
	m := bd.mgr
	bd.mu.RUnlock()
	if m != nil {
		m.Send(text)
	}
}

// Reconnect re-invokes Connect on the live manager, the manual escape hatch
// out of Exhausted.
func (bd *Binding) Reconnect() {
	bd.mu.RLock()
	m := bd.mgr
	bd.mu.RUnlock()
	if m != nil {
		m.Connect()
	}
}

// Messages returns a snapshot of the ordered message log.
func (bd *Binding) Messages() []model.Message {
	bd.mu.RLock()
	defer bd.mu.RUnlock()
	return append([]model.Message(nil), bd.log...)
}

// State returns the last observed connection state.
func (bd *Binding) State() status.State {
	bd.mu.RLock()
	defer bd.mu.RUnlock()
	return bd.state
}

// CanSend reports whether the composer should be enabled: a user-facing
// projection of the manager's Open-only send rule.
func (bd *Binding) CanSend() bool {
	return bd.State() == status.Open
}

// Target returns the currently bound target.
func (bd *Binding) Target() conn.Target {
	bd.mu.RLock()
	defer bd.mu.RUnlock()
	return bd.target
}

// RefreshCh signals that the log or connection state changed.
func (bd *Binding) RefreshCh() <-chan struct{} {
	return bd.refreshCh
}

func (bd *Binding) signalRefresh() {
	select {
	case bd.refreshCh <- struct{}{}:
	default:
	}
}

func (bd *Binding) handleEvent(evt bus.Event) {
	bd.mu.Lock()
	if evt.Session == "" || evt.Session != bd.session {
		bd.mu.Unlock()
		return
	}
	switch evt.Kind {
	case "conn.message":
		msg, ok := evt.Payload.(*model.Message)
		if !ok {
			bd.mu.Unlock()
			return
		}
		// Append-only, in arrival order; timestamps are display data.
		bd.log = append(bd.log, *msg)
	case "conn.state_changed":
		change, ok := evt.Payload.(status.StatusChange)
		if !ok {
			bd.mu.Unlock()
			return
		}
		bd.state = change.To
	}
	bd.mu.Unlock()
	bd.signalRefresh()
}
