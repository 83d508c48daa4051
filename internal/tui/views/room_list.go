package views

import (
	"fmt"
	"time"

	"github.com/rivo/tview"

	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/model"
)

// RoomList is the room directory table.
type RoomList struct {
	*tview.Table
	rooms      []model.Room
	onSelect   func(roomID string)
	selectedFn func() (int, int)
}

// NewRoomList creates a new room list table.
func NewRoomList() *RoomList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Rooms ")

	rl := &RoomList{Table: table}
	rl.selectedFn = table.GetSelection

	table.SetSelectedFunc(func(row, _ int) {
		idx := row - 1 // account for header
		if rl.onSelect != nil && idx >= 0 && idx < len(rl.rooms) {
			rl.onSelect(rl.rooms[idx].ID)
		}
	})
	return rl
}

// SetOnSelect sets the callback when a room is chosen.
func (rl *RoomList) SetOnSelect(fn func(roomID string)) {
	rl.onSelect = fn
}

// Update replaces the displayed roster wholesale with the latest poll
// result; member counts are only as fresh as the poll cadence.
func (rl *RoomList) Update(rooms []model.Room) {
	rl.rooms = rooms
	rl.Clear()

	// Header row.
	rl.SetCell(0, 0, tview.NewTableCell(" Name").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	rl.SetCell(0, 1, tview.NewTableCell(" Members").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	rl.SetCell(0, 2, tview.NewTableCell(" Created").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, room := range rooms {
		row := i + 1
		name := room.Name
		if name == "" {
			name = room.ID
		}
		rl.SetCell(row, 0, tview.NewTableCell(" "+sanitizeForTerminal(name)).SetMaxWidth(32).SetExpansion(2))
		rl.SetCell(row, 1, tview.NewTableCell(fmt.Sprintf(" %d", room.MemberCount)).SetMaxWidth(8))
		rl.SetCell(row, 2, tview.NewTableCell(" "+formatCreatedAt(room.CreatedAt)).SetMaxWidth(12))
	}
}

// SelectedRoom returns the ID of the currently selected room.
func (rl *RoomList) SelectedRoom() string {
	row, _ := rl.selectedFn()
	idx := row - 1 // account for header
	if idx >= 0 && idx < len(rl.rooms) {
		return rl.rooms[idx].ID
	}
	return ""
}

func formatCreatedAt(ts model.Time) string {
	if ts.IsZero() {
		return ""
	}
	now := time.Now()
	if ts.Year() == now.Year() && ts.YearDay() == now.YearDay() {
		return ts.Format("15:04")
	}
	return ts.Format("01/02")
}
