package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/model"
)

// Client talks to the room directory REST API. Requests are plain
// request/response: a failure surfaces to the caller and is never retried
// here.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a directory client for the given API base URL.
func NewClient(apiBase string) *Client {
	return &Client{
		base: strings.TrimRight(apiBase, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// ListRooms fetches the full room set. The returned slice replaces any
// previously held list wholesale.
func (c *Client) ListRooms(ctx context.Context) ([]model.Room, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/rooms", nil)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("list rooms: unexpected status %d", resp.StatusCode)
	}

	var rooms []model.Room
	if err := json.NewDecoder(resp.Body).Decode(&rooms); err != nil {
		return nil, fmt.Errorf("list rooms: decode response: %w", err)
	}
	return rooms, nil
}

// CreateRoom creates a room with the given name and returns it with the
// server-assigned identifier. The name is trimmed and must be non-empty; the
// UI bounds its length before calling here.
func (c *Client) CreateRoom(ctx context.Context, name string) (*model.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("create room: name is empty")
	}

	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/rooms", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("create room: unexpected status %d", resp.StatusCode)
	}

	var room model.Room
	if err := json.NewDecoder(resp.Body).Decode(&room); err != nil {
		return nil, fmt.Errorf("create room: decode response: %w", err)
	}
	return &room, nil
}
