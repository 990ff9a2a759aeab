/*
Package tui is the full-screen chat front end built on bubbletea.

The transcript scrolls in a viewport, the message is typed into a textarea, and a
spinner stands in for the typing indicator. Enter sends; Alt+Enter inserts a line
break, since terminals do not report Shift with Enter.
*/
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"medibot/internal/app/chat"
	"medibot/internal/pkg/logx"
	"medibot/internal/ui/markdown"
)

// Key names as reported by bubbletea.
const (
	keyEnter      = "enter"
	keyShiftEnter = "alt+enter"
)

const inputHeight = 3

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFDF5")).Background(lipgloss.Color("62")).Padding(0, 1)
	userStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	botStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
)

// dispatchDoneMsg reports the outcome of a dispatched event.
type dispatchDoneMsg struct {
	action chat.Action
	err    error
}

// Model is the bubbletea model of the chat screen.
type Model struct {
	ctx    context.Context
	ctrl   *chat.Controller
	events <-chan tea.Msg

	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model

	renderer   markdown.Renderer
	plain      bool
	transcript []chat.Message
	loading    bool
	enabled    bool
}

// New returns the model for a controller whose view is bridge.
func New(ctx context.Context, ctrl *chat.Controller, bridge *Bridge, plain bool) Model {
	input := textarea.New()
	input.Placeholder = "Type your question..."
	input.ShowLineNumbers = false
	input.SetHeight(inputHeight)
	input.CharLimit = 0
	// Enter and line breaks are routed through the controller's dispatch table.
	input.KeyMap.InsertNewline.SetEnabled(false)
	input.Blur()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		ctx:      ctx,
		ctrl:     ctrl,
		events:   bridge.events,
		viewport: viewport.New(80, 20),
		input:    input,
		spinner:  sp,
		renderer: markdown.New(!plain, 80),
		plain:    plain,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForUIEvent(m.events),
		m.dispatch(chat.Event{Trigger: chat.TriggerLoad}),
	)
}

// dispatch runs ev through the controller off the update loop.
func (m Model) dispatch(ev chat.Event) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		action, err := ctrl.Dispatch(ctx, ev)
		return dispatchDoneMsg{action: action, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case appendMsg:
		m.transcript = append(m.transcript, msg.message)
		m.refresh()
		return m, waitForUIEvent(m.events)

	case loadingMsg:
		m.loading = msg.on
		m.refresh()
		return m, waitForUIEvent(m.events)

	case inputEnabledMsg:
		m.enabled = msg.enabled
		if !msg.enabled {
			m.input.Blur()
		}
		return m, waitForUIEvent(m.events)

	case clearInputMsg:
		m.input.Reset()
		return m, waitForUIEvent(m.events)

	case focusInputMsg:
		focus := m.input.Focus()
		return m, tea.Batch(focus, waitForUIEvent(m.events))

	case dispatchDoneMsg:
		if msg.err != nil {
			logx.Debug("Dispatch finished with error", "action", msg.action.String(), "error", msg.err.Error())
		}
		if msg.action == chat.ActionStart && msg.err == nil {
			focus := m.input.Focus()
			return m, focus
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.loading {
			m.refresh()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case keyEnter, keyShiftEnter:
		ev := chat.Event{
			Trigger: chat.TriggerKey,
			Target:  chat.KeyEnter,
			Shift:   msg.String() == keyShiftEnter,
			Input:   m.input.Value(),
		}

		switch m.ctrl.Resolve(ev) {
		case chat.ActionInsertNewline:
			if m.enabled {
				m.input.InsertString("\n")
			}
			return m, nil
		case chat.ActionSend:
			if !m.enabled {
				return m, nil
			}
			return m, m.dispatch(ev)
		}
		return m, nil
	}

	if !m.enabled {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) resize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = max(height-inputHeight-4, 1)
	m.input.SetWidth(width)

	if !m.plain {
		m.renderer = markdown.New(true, max(width-4, 20))
	}
	m.refresh()
}

// refresh re-renders the transcript into the viewport and keeps it scrolled to
// the newest message.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	var b strings.Builder
	for i, msg := range m.transcript {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch msg.Sender {
		case chat.SenderUser:
			b.WriteString(userStyle.Render("You"))
			b.WriteString("\n")
			b.WriteString(msg.Text)
		default:
			b.WriteString(botStyle.Render("MediBot"))
			b.WriteString("\n")
			b.WriteString(m.renderer.Render(msg.Text))
		}
	}
	if m.loading {
		b.WriteString("\n\n")
		b.WriteString(m.spinner.View())
		b.WriteString(statusStyle.Render(" MediBot is typing..."))
	}
	return b.String()
}

func (m Model) View() string {
	status := "Enter to send, Alt+Enter for a new line, Esc to quit"
	if !m.enabled {
		status = "Input disabled"
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("MediBot"),
		m.viewport.View(),
		statusStyle.Render(status),
		m.input.View(),
	)
}

// Run starts the full-screen chat against backend and blocks until the user quits.
func Run(ctx context.Context, backend chat.Backend, plain bool) error {
	bridge := NewBridge(64)
	ctrl := chat.NewController(backend, bridge)

	p := tea.NewProgram(
		New(ctx, ctrl, bridge, plain),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
