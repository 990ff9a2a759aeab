/*
Package chat contains the chat session logic, independent of any UI toolkit.

A Controller owns one conversation: it obtains the conversation handle, sends user
messages one at a time, and drives a View (transcript, loading indicator, input
lock, focus). Front ends translate their native events into Event values and hand
them to Dispatch.
*/
package chat

import (
	"context"
	"strings"
	"sync"

	"medibot/internal/app/apiclient"
	"medibot/internal/pkg/errs"
	"medibot/internal/pkg/logx"
)

// View is what the controller drives. Calls arrive in order from whichever
// goroutine runs Start or Send.
type View interface {
	AppendMessage(m Message)
	ShowLoading()
	HideLoading()
	SetInputEnabled(enabled bool)
	ClearInput()
	FocusInput()
}

// Backend is the part of the API the chat session needs.
type Backend interface {
	StartConversation(ctx context.Context) (apiclient.Conversation, error)
	Chat(ctx context.Context, conv apiclient.Conversation, message string) (string, error)
}

// State is the lifecycle state of a Controller.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateSending

	// StateDegraded is terminal: the conversation could not be started.
	StateDegraded
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateSending:
		return "sending"
	case StateDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Controller runs one chat session.
type Controller struct {
	backend Backend
	view    View
	table   DispatchTable

	// flight is held for the duration of Start and of every Send.
	flight sync.Mutex

	// mu protects the fields below.
	mu           sync.Mutex
	state        State
	conv         apiclient.Conversation
	inputEnabled bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithDispatchTable replaces the default event bindings.
func WithDispatchTable(t DispatchTable) Option {
	return func(c *Controller) { c.table = t }
}

// NewController returns a Controller in StateUninitialized.
func NewController(backend Backend, view View, opts ...Option) *Controller {
	c := &Controller{
		backend: backend,
		view:    view,
		table:   DefaultDispatchTable(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Conversation returns the handle obtained by Start, invalid before that.
func (c *Controller) Conversation() apiclient.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conv
}

// InputEnabled reports whether the input controls are currently enabled.
func (c *Controller) InputEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inputEnabled
}

// Resolve maps ev to an action without performing it.
func (c *Controller) Resolve(ev Event) Action {
	return c.table.Resolve(ev)
}

// Dispatch resolves ev and performs the action. Send events are dropped while
// the input is disabled. ActionInsertNewline is returned for the front end to apply.
func (c *Controller) Dispatch(ctx context.Context, ev Event) (Action, error) {
	action := c.table.Resolve(ev)

	switch action {
	case ActionStart:
		_, err := c.Start(ctx)
		return action, err

	case ActionSend:
		if !c.InputEnabled() {
			return ActionNone, nil
		}
		return action, c.Send(ctx, c.Conversation(), ev.Input)
	}

	return action, nil
}

// Start requests the conversation handle. On success the greeting is shown and
// input is enabled; on failure an apology is shown and input stays disabled for
// the rest of the session. Start runs at most once; later calls return the
// outcome of the first.
func (c *Controller) Start(ctx context.Context) (apiclient.Conversation, error) {
	c.flight.Lock()
	defer c.flight.Unlock()

	switch state := c.State(); state {
	case StateUninitialized:
	case StateDegraded:
		return apiclient.Conversation{}, errs.NewError(errs.ErrConversationUnavailable)
	default:
		return c.Conversation(), nil
	}

	c.setState(StateInitializing)
	c.setInputEnabled(false)
	c.view.ShowLoading()

	conv, err := c.backend.StartConversation(ctx)
	c.view.HideLoading()

	if err != nil {
		logx.Error(err, "Error starting conversation")

		c.setState(StateDegraded)
		unavailable := errs.Wrap(errs.ErrConversationUnavailable, err)
		c.view.AppendMessage(Message{Text: unavailable.Message, Sender: SenderBot})
		return apiclient.Conversation{}, unavailable
	}

	c.mu.Lock()
	c.conv = conv
	c.state = StateReady
	c.mu.Unlock()

	logx.Info("Conversation started", "conversation_id", conv.ID)

	c.setInputEnabled(true)
	c.view.AppendMessage(Message{Text: Greeting, Sender: SenderBot})

	return conv, nil
}

// Send posts text to conv. Empty text, an invalid handle, and a handle other than
// the one obtained by Start are rejected without touching the view, as is any
// call made before Start succeeded or after it failed. Otherwise the input is locked, the user message and the
// loading indicator are shown, and once the request settles the reply (or an
// error message) is appended, the indicator removed, and the input re-enabled
// and focused, whatever the outcome.
func (c *Controller) Send(ctx context.Context, conv apiclient.Conversation, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errs.NewError(errs.ErrEmptyMessage)
	}
	if !conv.Valid() {
		return errs.NewError(errs.ErrNoConversation)
	}

	if !c.flight.TryLock() {
		return errs.NewError(errs.ErrSubmitTooFrequent)
	}
	defer c.flight.Unlock()

	if c.State() != StateReady || conv != c.Conversation() {
		return errs.NewError(errs.ErrNoConversation)
	}

	c.setInputEnabled(false)
	c.setState(StateSending)

	c.view.AppendMessage(Message{Text: text, Sender: SenderUser})
	c.view.ClearInput()
	c.view.ShowLoading()

	loading := true
	hideLoading := func() {
		if loading {
			loading = false
			c.view.HideLoading()
		}
	}

	defer func() {
		hideLoading()
		c.setState(StateReady)
		c.setInputEnabled(true)
		c.view.FocusInput()
	}()

	reply, err := c.backend.Chat(ctx, conv, text)
	hideLoading()

	if err != nil {
		logx.Error(err, "Error sending message", "conversation_id", conv.ID)

		failed := errs.Wrap(errs.ErrChatFailed, err)
		c.view.AppendMessage(Message{Text: failed.Message, Sender: SenderBot})
		return failed
	}

	c.view.AppendMessage(Message{Text: reply, Sender: SenderBot})
	return nil
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Controller) setInputEnabled(enabled bool) {
	c.mu.Lock()
	c.inputEnabled = enabled
	c.mu.Unlock()

	c.view.SetInputEnabled(enabled)
}
