/*
Package form collects credentials for the login and signup commands.

Fields already supplied on the command line are not asked for again. What remains
is prompted for with a huh form when stdin is a terminal.
*/
package form

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"medibot/internal/app/auth"
)

// Kind selects which fields a form asks for.
type Kind int

const (
	KindLogin Kind = iota
	KindSignup
)

func (k Kind) title() string {
	if k == KindSignup {
		return "Create your MediBot account"
	}
	return "Sign in to MediBot"
}

// Fields builds the inputs still missing from f. Each input writes straight into f.
func Fields(kind Kind, f *auth.Form) []huh.Field {
	var fields []huh.Field

	if kind == KindSignup && f.Name == "" {
		fields = append(fields, huh.NewInput().Title("Name").Value(&f.Name))
	}
	if f.Email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(&f.Email))
	}
	if f.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&f.Password))
	}

	return fields
}

// Complete prompts for the fields missing from f. Nothing is asked when every
// field is present or interactive is false; validation is left to the auth flow.
func Complete(ctx context.Context, kind Kind, f *auth.Form, interactive bool) error {
	fields := Fields(kind, f)
	if len(fields) == 0 || !interactive {
		return nil
	}

	group := huh.NewGroup(fields...).Title(kind.title())

	return huh.NewForm(group).
		WithTheme(huh.ThemeCharm()).
		RunWithContext(ctx)
}

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// Status is the message line under an auth form. It implements auth.View.
type Status struct {
	out    io.Writer
	last   string
	styled bool
}

// NewStatus writes messages to out, styled when styled is true.
func NewStatus(out io.Writer, styled bool) *Status {
	return &Status{out: out, styled: styled}
}

func (s *Status) SetMessage(text string) {
	s.last = text
	if s.styled {
		text = errorStyle.Render(text)
	}
	fmt.Fprintln(s.out, text)
}

// Info prints a success line.
func (s *Status) Info(text string) {
	if s.styled {
		text = infoStyle.Render(text)
	}
	fmt.Fprintln(s.out, text)
}

// Last returns the most recent message set, "" if none.
func (s *Status) Last() string { return s.last }
