package conn

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/bus"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/model"
)

// echoServer upgrades websocket requests and echoes every inbound text frame
// back wrapped in a Message envelope, the way the chat backend does.
type echoServer struct {
	t  *testing.T
	mu sync.Mutex
	// conns holds the server side of every accepted session.
	conns []*websocket.Conn
	path  string
	query string
}

func (e *echoServer) handler(w http.ResponseWriter, r *http.Request) {
	e.mu.Lock()
	e.path = r.URL.Path
	e.query = r.URL.RawQuery
	e.mu.Unlock()

	upgrader := websocket.Upgrader{}
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		e.t.Errorf("upgrade: %v", err)
		return
	}
	e.mu.Lock()
	e.conns = append(e.conns, c)
	e.mu.Unlock()

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			return
		}
		msg := model.Message{
			UserID:      "u1",
			Username:    "amy",
			RoomID:      "general",
			Content:     string(data),
			MessageType: model.TypeChat,
			Timestamp:   model.Time{Time: time.Now().UTC()},
		}
		out, _ := json.Marshal(msg)
		if err := c.WriteMessage(websocket.TextMessage, out); err != nil {
			return
		}
	}
}

func (e *echoServer) dropAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range e.conns {
		_ = c.Close()
	}
	e.conns = nil
}

// TestLiveSessionEchoAndRecovery exercises the manager against a real
// websocket server: open, send, receive the echoed Message, survive a
// server-side drop, and tear down cleanly.
func TestLiveSessionEchoAndRecovery(t *testing.T) {
	echo := &echoServer{t: t}
	srv := httptest.NewServer(http.HandlerFunc(echo.handler))
	defer srv.Close()

	wsBase := "ws" + strings.TrimPrefix(srv.URL, "http")

	b := bus.New()
	ch, unsub := b.Subscribe("conn.", 64)
	defer unsub()

	m := NewManager(
		Target{RoomID: "general", Username: "amy smith"},
		Config{WSBase: wsBase, RetryDelay: 10 * time.Millisecond},
		b,
		zap.NewNop(),
	)
	defer m.Disconnect()

	m.Connect()
	waitKind(t, ch, "conn.open")

	echo.mu.Lock()
	path, query := echo.path, echo.query
	echo.mu.Unlock()
	if path != "/ws/general" {
		t.Errorf("request path = %q, want /ws/general", path)
	}
	if query != "username=amy+smith" {
		t.Errorf("request query = %q, want username=amy+smith", query)
	}

	m.Send("hello")
	evt := waitKind(t, ch, "conn.message")
	msg := evt.Payload.(*model.Message)
	if msg.Content != "hello" || msg.RoomID != "general" || msg.MessageType != model.TypeChat {
		t.Errorf("echoed message = %+v", msg)
	}

	// Server drops the session; the manager must recover on its own.
	echo.dropAll()
	waitKind(t, ch, "conn.open")

	m.Send("back")
	evt = waitKind(t, ch, "conn.message")
	if evt.Payload.(*model.Message).Content != "back" {
		t.Errorf("post-recovery echo = %+v", evt.Payload)
	}
}
