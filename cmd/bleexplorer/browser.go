package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shimmeringbits/gattle/gatt"
)

// notificationBridge adapts gatt.Handler's synchronous listener callback
// to bubbletea's message-passing model: NotificationReceived runs on the
// reader goroutine (per the gatt package's contract that listeners must
// not block it), so it only forwards the payload via (*tea.Program).Send,
// which is safe to call from any goroutine.
type notificationBridge struct {
	program *tea.Program
}

func (b *notificationBridge) NotificationReceived(decl *gatt.GATTCharacterisicsDecl, value []byte) {
	if decl == nil {
		return
	}
	b.program.Send(notificationMsg{decl: decl, value: append([]byte(nil), value...)})
}

// runBrowser opens the bubbletea program for handler's already-discovered
// services, wiring peer notifications into the TUI's message loop.
func runBrowser(handler *gatt.Handler) error {
	m := newModel(handler)
	program := tea.NewProgram(m, tea.WithAltScreen())

	handler.SetGATTNotificationListener(&notificationBridge{program: program})

	_, err := program.Run()
	return err
}
