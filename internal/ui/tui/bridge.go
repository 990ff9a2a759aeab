package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"medibot/internal/app/chat"
)

// View calls made by the controller, delivered to the model as tea messages.
type (
	appendMsg       struct{ message chat.Message }
	loadingMsg      struct{ on bool }
	inputEnabledMsg struct{ enabled bool }
	clearInputMsg   struct{}
	focusInputMsg   struct{}
)

// Bridge implements chat.View by queueing every call for the bubbletea model.
// The controller runs on command goroutines while the model owns the widgets,
// so the two only meet through this channel.
type Bridge struct {
	events chan tea.Msg
}

// NewBridge returns a Bridge with room for size pending calls.
func NewBridge(size int) *Bridge {
	return &Bridge{events: make(chan tea.Msg, size)}
}

func (b *Bridge) AppendMessage(m chat.Message) { b.events <- appendMsg{message: m} }
func (b *Bridge) ShowLoading()                 { b.events <- loadingMsg{on: true} }
func (b *Bridge) HideLoading()                 { b.events <- loadingMsg{on: false} }
func (b *Bridge) SetInputEnabled(enabled bool) { b.events <- inputEnabledMsg{enabled: enabled} }
func (b *Bridge) ClearInput()                  { b.events <- clearInputMsg{} }
func (b *Bridge) FocusInput()                  { b.events <- focusInputMsg{} }

// waitForUIEvent blocks for the next queued view call.
func waitForUIEvent(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return e
	}
}
