package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType classifies a chat event on the wire.
type MessageType string

const (
	TypeChat   MessageType = "chat"
	TypeJoin   MessageType = "join"
	TypeLeave  MessageType = "leave"
	TypeTyping MessageType = "typing"
	TypeSystem MessageType = "system"
)

// System reports whether messages of this type are rendered as system
// notices (no author header) rather than user chat.
func (t MessageType) System() bool {
	return t == TypeJoin || t == TypeLeave || t == TypeSystem
}

// Time accepts both RFC 3339 timestamps and the timezone-naive ISO 8601
// form the chat backend emits (datetime.isoformat() without an offset).
// Naive values are taken as UTC.
type Time struct {
	time.Time
}

func (t *Time) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// Message is one chat event as delivered by the server. The timestamp is
// stamped by the origin, never by the receiving client, and a received
// Message is treated as immutable.
type Message struct {
	UserID      string      `json:"user_id"`
	Username    string      `json:"username"`
	RoomID      string      `json:"room_id"`
	Content     string      `json:"content"`
	MessageType MessageType `json:"message_type"`
	Timestamp   Time        `json:"timestamp"`
}

// Room is one entry in the room directory. MemberCount is refreshed on the
// directory poll cadence and is only eventually consistent.
type Room struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CreatedAt   Time   `json:"created_at"`
	MemberCount int    `json:"member_count"`
}

// ParseMessage decodes a single inbound text frame. Frames that do not
// decode as a Message are rejected so the caller can drop them.
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode message frame: %w", err)
	}
	if msg.MessageType == "" {
		msg.MessageType = TypeChat
	}
	return &msg, nil
}
