package model

import (
	"testing"
	"time"
)

func TestParseMessage(t *testing.T) {
	data := []byte(`{"user_id":"u1","username":"Amy","room_id":"general","content":"hello","message_type":"chat","timestamp":"2026-01-01T00:00:00Z"}`)

	msg, err := ParseMessage(data)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if msg.UserID != "u1" || msg.Username != "Amy" || msg.RoomID != "general" {
		t.Errorf("parsed = %+v", msg)
	}
	if msg.Content != "hello" || msg.MessageType != TypeChat {
		t.Errorf("parsed = %+v", msg)
	}
	want := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if !msg.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", msg.Timestamp, want)
	}
}

// The backend serializes datetime.isoformat() without a timezone offset;
// such timestamps must decode as UTC rather than fail the whole frame.
func TestParseMessageNaiveTimestamp(t *testing.T) {
	data := []byte(`{"username":"Amy","room_id":"general","content":"hi","message_type":"chat","timestamp":"2026-01-01T00:00:00.123456"}`)

	msg, err := ParseMessage(data)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	want := time.Date(2026, 1, 1, 0, 0, 0, 123456000, time.UTC)
	if !msg.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", msg.Timestamp, want)
	}
}

func TestParseMessageMalformed(t *testing.T) {
	for _, tt := range []struct {
		name string
		data string
	}{
		{"truncated", `{"user_id":"u1"`},
		{"not json", "hello there"},
		{"wrong shape", `[1,2,3]`},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseMessage([]byte(tt.data)); err == nil {
				t.Error("ParseMessage should fail")
			}
		})
	}
}

func TestParseMessageDefaultsToChat(t *testing.T) {
	msg, err := ParseMessage([]byte(`{"username":"Amy","room_id":"general","content":"hi"}`))
	if err != nil {
		t.Fatal(err)
	}
	if msg.MessageType != TypeChat {
		t.Errorf("message_type = %q, want chat", msg.MessageType)
	}
}

func TestMessageTypeSystem(t *testing.T) {
	tests := []struct {
		typ  MessageType
		want bool
	}{
		{TypeChat, false},
		{TypeTyping, false},
		{TypeJoin, true},
		{TypeLeave, true},
		{TypeSystem, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := tt.typ.System(); got != tt.want {
				t.Errorf("System() = %v, want %v", got, tt.want)
			}
		})
	}
}
