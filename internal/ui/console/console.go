/*
Package console is the line-oriented chat front end.

Each input line is an Enter key press. A line ending in a backslash is Shift+Enter:
the backslash is dropped and the message continues on the next line. "/quit" or
end of input leaves the session.
*/
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"medibot/internal/app/chat"
	"medibot/internal/pkg/errs"
	"medibot/internal/ui/markdown"
)

// QuitCommand ends the session.
const QuitCommand = "/quit"

const (
	promptText  = "> "
	loadingText = "MediBot is typing..."
)

// Console implements chat.View over a reader and a writer.
type Console struct {
	in       io.Reader
	out      io.Writer
	renderer markdown.Renderer

	mu      sync.Mutex
	pending strings.Builder
	enabled bool
}

// New returns a Console. A nil renderer means markdown.Plain.
func New(in io.Reader, out io.Writer, renderer markdown.Renderer) *Console {
	if renderer == nil {
		renderer = markdown.Plain{}
	}
	return &Console{in: in, out: out, renderer: renderer}
}

func (c *Console) AppendMessage(m chat.Message) {
	switch m.Sender {
	case chat.SenderUser:
		fmt.Fprintf(c.out, "You: %s\n", m.Text)
	default:
		fmt.Fprintf(c.out, "MediBot: %s\n", c.renderer.Render(m.Text))
	}
}

func (c *Console) ShowLoading() { fmt.Fprintln(c.out, loadingText) }

// HideLoading is a no-op: a printed line cannot be taken back.
func (c *Console) HideLoading() {}

func (c *Console) SetInputEnabled(enabled bool) {
	c.mu.Lock()
	c.enabled = enabled
	c.mu.Unlock()
}

func (c *Console) ClearInput() {
	c.mu.Lock()
	c.pending.Reset()
	c.mu.Unlock()
}

func (c *Console) FocusInput() { fmt.Fprint(c.out, promptText) }

func (c *Console) inputEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

func (c *Console) input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending.String()
}

func (c *Console) appendInput(s string) {
	c.mu.Lock()
	c.pending.WriteString(s)
	c.mu.Unlock()
}

// Run loads the chat and feeds input lines to ctrl until /quit, end of input or
// ctx is done. A session whose conversation could not be started ends right
// after the apology is shown.
func (c *Console) Run(ctx context.Context, ctrl *chat.Controller) error {
	if _, err := ctrl.Dispatch(ctx, chat.Event{Trigger: chat.TriggerLoad}); err != nil {
		if errs.HasCode(err, errs.ErrConversationUnavailable) {
			return nil
		}
		return err
	}
	fmt.Fprint(c.out, promptText)

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		var line string
		var ok bool

		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok = <-lines:
		}

		if !ok {
			fmt.Fprintln(c.out)
			select {
			case err := <-readErr:
				return err
			default:
				return nil
			}
		}

		if strings.TrimSpace(line) == QuitCommand && c.input() == "" {
			return nil
		}

		if err := c.handleLine(ctx, ctrl, line); err != nil {
			return err
		}
	}
}

func (c *Console) handleLine(ctx context.Context, ctrl *chat.Controller, line string) error {
	ev := chat.Event{Trigger: chat.TriggerKey, Target: chat.KeyEnter}

	if strings.HasSuffix(line, `\`) {
		ev.Shift = true
		line = strings.TrimSuffix(line, `\`)
	}
	c.appendInput(line)
	ev.Input = c.input()

	if !c.inputEnabled() {
		return nil
	}

	action, err := ctrl.Dispatch(ctx, ev)
	switch {
	case action == chat.ActionInsertNewline:
		c.appendInput("\n")
	case errs.HasCode(err, errs.ErrEmptyMessage):
		c.ClearInput()
		fmt.Fprint(c.out, promptText)
	case errs.IsServer(err):
		// Already shown in the transcript.
	case err != nil:
		return err
	}

	return nil
}
