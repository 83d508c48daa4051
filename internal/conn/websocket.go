package conn

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// Socket is the minimal transport surface the manager needs. A gorilla
// *websocket.Conn satisfies it directly.
type Socket interface {
	ReadMessage() (messageType int, data []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Dialer establishes a Socket for an endpoint URL.
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Socket, error)
}

type wsDialer struct {
	dialer *websocket.Dialer
}

// NewDialer returns a Dialer backed by the default gorilla websocket dialer.
func NewDialer() Dialer {
	return &wsDialer{dialer: websocket.DefaultDialer}
}

func (w *wsDialer) Dial(ctx context.Context, endpoint string) (Socket, error) {
	sock, resp, err := w.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", endpoint, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}
	return sock, nil
}

// Target identifies which real-time session should be live.
type Target struct {
	RoomID   string
	Username string
}

// Endpoint derives the opaque websocket URL for this target:
// <ws-base>/ws/{room_id}?username={url-encoded username}.
func (t Target) Endpoint(wsBase string) string {
	return strings.TrimRight(wsBase, "/") + "/ws/" + url.PathEscape(t.RoomID) +
		"?username=" + url.QueryEscape(t.Username)
}
