package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/model"
)

// MessageLog displays the ordered message log for the active room.
type MessageLog struct {
	*tview.TextView
	roomName string
}

// NewMessageLog creates a new message log view.
func NewMessageLog() *MessageLog {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true).SetTitle(" Messages ")

	return &MessageLog{TextView: tv}
}

// SetRoomName updates the title with the room name.
func (ml *MessageLog) SetRoomName(name string) {
	ml.roomName = name
	ml.SetTitle(fmt.Sprintf(" %s ", name))
}

// Update re-renders the log in delivery order. Join/leave/system entries are
// styled as dim notices without an author header; typing indicators are not
// part of the transcript and are skipped.
func (ml *MessageLog) Update(msgs []model.Message) {
	ml.Clear()

	for _, m := range msgs {
		if m.MessageType == model.TypeTyping {
			continue
		}
		content := sanitizeForTerminal(m.Content)
		if m.MessageType.System() {
			_, _ = fmt.Fprintf(ml, "[::d]-- %s --[-:-:-]\n\n", content)
			continue
		}
		ts := m.Timestamp.Local().Format("15:04")
		_, _ = fmt.Fprintf(ml, "[::b]%s[-:-:-] [::d]%s[-:-:-]\n%s\n\n",
			sanitizeForTerminal(m.Username), ts, content)
	}

	ml.ScrollToEnd()
}
