package views

import (
	"fmt"
	"time"

	"github.com/rivo/tview"

	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/status"
)

// StatusBar displays the username, active room, and connection state.
type StatusBar struct {
	*tview.TextView
	username string
	room     string
	state    status.State
	flash    string
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.MoreContrastBackgroundColor)

	return &StatusBar{TextView: tv, state: status.Idle}
}

// SetUsername updates the username display.
func (sb *StatusBar) SetUsername(name string) {
	sb.username = name
	sb.render()
}

// SetRoom updates the active room display.
func (sb *StatusBar) SetRoom(room string) {
	sb.room = room
	sb.render()
}

// SetState updates the connection state display.
func (sb *StatusBar) SetState(s status.State) {
	sb.state = s
	sb.render()
}

// SetFlash sets a temporary message.
func (sb *StatusBar) SetFlash(msg string) {
	sb.flash = msg
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	room := sb.room
	if room == "" {
		room = "no room"
	}
	clock := time.Now().Format("15:04")

	line := fmt.Sprintf(" [::b]%s[-:-:-] | %s | %s | %s",
		sb.username, room, stateLabel(sb.state), clock)
	if sb.flash != "" {
		line += fmt.Sprintf(" | [yellow]%s[-]", sb.flash)
	}

	_, _ = fmt.Fprint(sb, line)
}

func stateLabel(s status.State) string {
	switch s {
	case status.Open:
		return "[green]connected[-]"
	case status.Connecting:
		return "[yellow]connecting[-]"
	case status.Reconnecting:
		return "[yellow]reconnecting[-]"
	case status.Exhausted:
		return "[red]disconnected (r to retry)[-]"
	case status.Closed:
		return "[::d]closed[-:-:-]"
	default:
		return "[::d]idle[-:-:-]"
	}
}
