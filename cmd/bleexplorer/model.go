package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shimmeringbits/gattle/gatt"
)

// view is one screen of the browser, in the same enumerated-View style as
// sfpw-tool's internal/tui/model.go.
type view int

const (
	viewServices view = iota
	viewCharacteristics
	viewValue
)

// notificationMsg is delivered by the gatt.NotificationListener installed
// in runBrowser, via (*tea.Program).Send, whenever the peer notifies a
// subscribed characteristic.
type notificationMsg struct {
	decl  *gatt.GATTCharacterisicsDecl
	value []byte
}

// readResultMsg carries the outcome of an asynchronous characteristic
// read triggered from viewCharacteristics.
type readResultMsg struct {
	decl  *gatt.GATTCharacterisicsDecl
	value []byte
	err   error
}

// toggleResultMsg carries the outcome of an asynchronous CCCD write
// triggered by the notify keybinding.
type toggleResultMsg struct {
	handle uint16
	err    error
}

// model is the bubbletea Model for the browser, structured after
// sfpw-tool's internal/tui/model.go: a single struct carrying both
// navigation state and the last fetched data for the current view.
type model struct {
	handler  *gatt.Handler
	services []*gatt.GATTPrimaryService

	view          view
	serviceCursor int
	charCursor    int

	selectedService *gatt.GATTPrimaryService
	selectedChar    *gatt.GATTCharacterisicsDecl

	lastValue        []byte
	lastValueErr     error
	notifying        map[uint16]bool
	lastNotification string

	statusMsg string
	width     int
	height    int

	keys   keyMap
	styles styles
}

func newModel(handler *gatt.Handler) model {
	return model{
		handler:   handler,
		services:  handler.Services(),
		notifying: make(map[uint16]bool),
		keys:      defaultKeyMap(),
		styles:    defaultStyles(),
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case notificationMsg:
		m.lastNotification = fmt.Sprintf("%s: % X", msg.decl.UUID, msg.value)
		return m, nil

	case readResultMsg:
		m.lastValue = msg.value
		m.lastValueErr = msg.err
		m.view = viewValue
		return m, nil

	case toggleResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("notify toggle failed: %s", msg.err)
		} else {
			m.statusMsg = ""
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			return m.back(), nil
		case key.Matches(msg, m.keys.Up):
			return m.move(-1), nil
		case key.Matches(msg, m.keys.Down):
			return m.move(1), nil
		case key.Matches(msg, m.keys.Select):
			return m.selectCmd()
		case key.Matches(msg, m.keys.Notify):
			return m.toggleNotifyCmd()
		}
	}
	return m, nil
}

func (m model) back() model {
	switch m.view {
	case viewCharacteristics:
		m.view = viewServices
	case viewValue:
		m.view = viewCharacteristics
	}
	return m
}

func (m model) move(delta int) model {
	switch m.view {
	case viewServices:
		m.serviceCursor = clamp(m.serviceCursor+delta, 0, len(m.services)-1)
	case viewCharacteristics:
		if m.selectedService != nil {
			m.charCursor = clamp(m.charCursor+delta, 0, len(m.selectedService.Characteristics)-1)
		}
	}
	return m
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (m model) selectCmd() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewServices:
		if len(m.services) == 0 {
			return m, nil
		}
		m.selectedService = m.services[m.serviceCursor]
		m.charCursor = 0
		m.view = viewCharacteristics
		return m, nil

	case viewCharacteristics:
		if m.selectedService == nil || m.charCursor >= len(m.selectedService.Characteristics) {
			return m, nil
		}
		decl := m.selectedService.Characteristics[m.charCursor]
		m.selectedChar = decl
		return m, readCharCmd(m.handler, decl)
	}
	return m, nil
}

func (m model) toggleNotifyCmd() (tea.Model, tea.Cmd) {
	if m.view != viewCharacteristics || m.selectedService == nil {
		return m, nil
	}
	if m.charCursor >= len(m.selectedService.Characteristics) {
		return m, nil
	}
	decl := m.selectedService.Characteristics[m.charCursor]
	if decl.Config == nil {
		return m, nil
	}
	enable := !m.notifying[decl.ValueHandle]
	m.notifying[decl.ValueHandle] = enable
	return m, toggleNotifyCmd(m.handler, decl, enable)
}

func readCharCmd(handler *gatt.Handler, decl *gatt.GATTCharacterisicsDecl) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		v, err := handler.ReadCharacteristicValue(ctx, decl, -1)
		return readResultMsg{decl: decl, value: v, err: err}
	}
}

func toggleNotifyCmd(handler *gatt.Handler, decl *gatt.GATTCharacterisicsDecl, enable bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := handler.ConfigIndicationNotification(ctx, decl, enable, false)
		return toggleResultMsg{handle: decl.ValueHandle, err: err}
	}
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("bleexplorer") + "\n\n")

	switch m.view {
	case viewServices:
		for i, svc := range m.services {
			line := fmt.Sprintf("%s  (0x%04X-0x%04X)", svc.Declaration.UUID, svc.Declaration.StartHandle, svc.Declaration.EndHandle)
			b.WriteString(m.renderLine(i == m.serviceCursor, line) + "\n")
		}

	case viewCharacteristics:
		if m.selectedService != nil {
			b.WriteString(m.styles.Dim.Render(m.selectedService.Declaration.UUID.String()) + "\n\n")
			for i, c := range m.selectedService.Characteristics {
				mark := " "
				if m.notifying[c.ValueHandle] {
					mark = "*"
				}
				line := fmt.Sprintf("%s%s  props=%s", mark, c.UUID, c.Properties)
				b.WriteString(m.renderLine(i == m.charCursor, line) + "\n")
			}
		}
		if m.lastNotification != "" {
			b.WriteString("\n" + m.styles.Value.Render("last notification: "+m.lastNotification) + "\n")
		}

	case viewValue:
		if m.selectedChar != nil {
			b.WriteString(m.styles.Label.Render("characteristic") + m.styles.Value.Render(m.selectedChar.UUID.String()) + "\n")
		}
		if m.lastValueErr != nil {
			b.WriteString(m.styles.Error.Render("read failed: "+m.lastValueErr.Error()) + "\n")
		} else {
			b.WriteString(m.styles.Label.Render("value") + m.styles.Value.Render(fmt.Sprintf("% X", m.lastValue)) + "\n")
			b.WriteString(m.styles.Label.Render("as text") + m.styles.Value.Render(fmt.Sprintf("%q", m.lastValue)) + "\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n" + m.styles.Error.Render(m.statusMsg) + "\n")
	}
	b.WriteString("\n" + m.styles.Help.Render("↑/↓ move · enter select · n notify · esc back · q quit"))

	return m.styles.App.Render(b.String())
}

func (m model) renderLine(selected bool, s string) string {
	if selected {
		return m.styles.ItemSelected.Render("> " + s)
	}
	return m.styles.Item.Render("  " + s)
}
