package views

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// maxRoomNameLen bounds room names at creation time.
const maxRoomNameLen = 30

// RoomForm is the create-room dialog.
type RoomForm struct {
	*tview.Flex
	input    *tview.InputField
	onCreate func(name string)
	onCancel func()
}

// NewRoomForm creates the room creation form.
func NewRoomForm() *RoomForm {
	input := tview.NewInputField().
		SetLabel(" Room name: ").
		SetFieldWidth(maxRoomNameLen).
		SetAcceptanceFunc(tview.InputFieldMaxLength(maxRoomNameLen))

	rf := &RoomForm{input: input}

	input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			name := strings.TrimSpace(input.GetText())
			if name != "" && rf.onCreate != nil {
				rf.onCreate(name)
			}
		case tcell.KeyEscape:
			if rf.onCancel != nil {
				rf.onCancel()
			}
		}
	})

	box := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(input, 1, 0, true)
	box.SetBorder(true).SetTitle(" New room ")

	// Center the dialog.
	rf.Flex = tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(box, 3, 0, true).
			AddItem(nil, 0, 1, false), maxRoomNameLen+16, 0, true).
		AddItem(nil, 0, 1, false)

	return rf
}

// SetOnCreate sets the callback when a room name is submitted.
func (rf *RoomForm) SetOnCreate(fn func(name string)) {
	rf.onCreate = fn
}

// SetOnCancel sets the callback when the form is dismissed.
func (rf *RoomForm) SetOnCancel(fn func()) {
	rf.onCancel = fn
}

// Input returns the form's input field for focus handling.
func (rf *RoomForm) Input() *tview.InputField {
	return rf.input
}

// Reset clears the input for the next use.
func (rf *RoomForm) Reset() {
	rf.input.SetText("")
}
