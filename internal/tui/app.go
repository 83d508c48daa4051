package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/bus"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/directory"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/model"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/roomview"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/tui/keys"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/tui/views"
)

// App is the main TUI application shell.
type App struct {
	app       *tview.Application
	pages     *tview.Pages
	bus       *bus.Bus
	binding   *roomview.Binding
	dir       *directory.Client
	registry  *keys.Registry
	flash     *Flash
	logger    *zap.Logger
	username  string
	statusBar *views.StatusBar
	roomList  *views.RoomList
	msgLog    *views.MessageLog
	composer  *views.Composer
	roomForm  *views.RoomForm
	rooms     []model.Room
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(b *bus.Bus, bd *roomview.Binding, dir *directory.Client, username string, logger *zap.Logger) *App {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		app:       tview.NewApplication(),
		pages:     tview.NewPages(),
		bus:       b,
		binding:   bd,
		dir:       dir,
		registry:  keys.NewRegistry(),
		flash:     &Flash{},
		logger:    logger,
		username:  username,
		statusBar: views.NewStatusBar(),
		roomList:  views.NewRoomList(),
		msgLog:    views.NewMessageLog(),
		composer:  views.NewComposer(),
		roomForm:  views.NewRoomForm(),
		ctx:       ctx,
		cancel:    cancel,
	}

	a.statusBar.SetUsername(username)
	a.composer.SetEnabled(false)
	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupBindings() {
	a.registry.AddPage("rooms", "quit", &keys.Action{
		Rune: 'q', Key: tcell.KeyRune,
		Description: "q:quit", Visible: true,
		Handler: func() { a.app.Stop() },
	})
	a.registry.AddPage("rooms", "new", &keys.Action{
		Rune: 'n', Key: tcell.KeyRune,
		Description: "n:new room", Visible: true,
		Handler: func() { a.showRoomForm() },
	})
	a.registry.AddPage("room", "reconnect", &keys.Action{
		Rune: 'r', Key: tcell.KeyRune,
		Description: "r:reconnect", Visible: true,
		Handler: func() { a.binding.Reconnect() },
	})
}

func (a *App) setupCallbacks() {
	a.roomList.SetOnSelect(func(roomID string) {
		a.openRoom(roomID)
	})

	a.composer.SetOnSend(func(text string) {
		a.binding.Send(text)
	})

	a.roomForm.SetOnCreate(func(name string) {
		go func() {
			room, err := a.dir.CreateRoom(a.ctx, name)
			if err != nil {
				a.logger.Warn("room create failed", zap.String("name", name), zap.Error(err))
				a.flash.Set("Create failed: "+err.Error(), 5*time.Second)
				a.app.QueueUpdateDraw(func() {
					a.statusBar.SetFlash(a.flash.Get())
				})
				return
			}
			a.app.QueueUpdateDraw(func() {
				a.roomForm.Reset()
				a.openRoom(room.ID)
			})
		}()
	})
	a.roomForm.SetOnCancel(func() {
		a.roomForm.Reset()
		a.pages.SwitchToPage("rooms")
		a.app.SetFocus(a.roomList)
	})
}

func (a *App) setupLayout() {
	roomFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.msgLog, 0, 1, false).
		AddItem(a.composer, 1, 0, false)

	a.pages.AddPage("rooms", a.roomList, true, true)
	a.pages.AddPage("room", roomFlex, true, false)
	a.pages.AddPage("form", a.roomForm, true, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		currentPage, _ := a.pages.GetFrontPage()

		if event.Key() == tcell.KeyEscape {
			switch currentPage {
			case "room":
				a.leaveRoom()
				return nil
			case "form":
				a.roomForm.Reset()
				a.pages.SwitchToPage("rooms")
				a.app.SetFocus(a.roomList)
				return nil
			}
		}

		// Let text input widgets handle all keys normally.
		focused := a.app.GetFocus()
		if _, ok := focused.(*tview.InputField); ok {
			return event
		}

		// 'i' focuses the composer (only when not already in an input field).
		if currentPage == "room" && event.Key() == tcell.KeyRune && event.Rune() == 'i' {
			if a.binding.CanSend() {
				a.app.SetFocus(a.composer.InputField)
			}
			return nil
		}

		if a.registry.HandleEvent(currentPage, event) {
			return nil
		}

		return event
	})
}

// openRoom must run on the UI event loop.
func (a *App) openRoom(roomID string) {
	a.binding.SetTarget(roomID, a.username)

	name := roomID
	for _, r := range a.rooms {
		if r.ID == roomID && r.Name != "" {
			name = r.Name
			break
		}
	}
	a.msgLog.SetRoomName(name)
	a.msgLog.Update(nil)
	a.statusBar.SetRoom(name)
	a.pages.SwitchToPage("room")
	a.app.SetFocus(a.msgLog)
}

func (a *App) leaveRoom() {
	a.binding.Leave()
	a.statusBar.SetRoom("")
	a.pages.SwitchToPage("rooms")
	a.app.SetFocus(a.roomList)
}

func (a *App) showRoomForm() {
	a.pages.SwitchToPage("form")
	a.app.SetFocus(a.roomForm.Input())
}

// Run starts the TUI application and the background watchers that feed it.
func (a *App) Run() error {
	go a.watchDirectory()
	go a.watchSession()
	return a.app.Run()
}

// watchDirectory mirrors room roster polls into the room list.
func (a *App) watchDirectory() {
	ch, unsub := a.bus.Subscribe("directory.", 16)
	defer unsub()

	for {
		select {
		case evt := <-ch:
			switch evt.Kind {
			case "directory.rooms":
				rooms, ok := evt.Payload.([]model.Room)
				if !ok {
					continue
				}
				a.app.QueueUpdateDraw(func() {
					a.rooms = rooms
					a.roomList.Update(rooms)
					a.statusBar.SetFlash(a.flash.Get())
				})
			case "directory.error":
				if msg, ok := evt.Payload.(string); ok {
					a.flash.Set("Directory: "+msg, 5*time.Second)
					a.app.QueueUpdateDraw(func() {
						a.statusBar.SetFlash(a.flash.Get())
					})
				}
			}
		case <-a.ctx.Done():
			return
		}
	}
}

// watchSession redraws the transcript and composer whenever the binding
// reports new messages or a connection state change.
func (a *App) watchSession() {
	for {
		select {
		case <-a.binding.RefreshCh():
			a.app.QueueUpdateDraw(func() {
				a.msgLog.Update(a.binding.Messages())
				a.statusBar.SetState(a.binding.State())
				canSend := a.binding.CanSend()
				a.composer.SetEnabled(canSend)
				if !canSend {
					// Keep keystrokes out of a dead composer.
					if a.app.GetFocus() == a.composer.InputField {
						a.app.SetFocus(a.msgLog)
					}
				}
			})
		case <-a.ctx.Done():
			return
		}
	}
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}
