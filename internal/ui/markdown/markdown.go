/*
Package markdown renders bot replies for the terminal.

Replies are Markdown. On a terminal they are styled with glamour; anywhere else
(pipes, log files, tests) the raw text is passed through unchanged.
*/
package markdown

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"

	"medibot/internal/pkg/logx"
)

// Renderer turns Markdown into display text.
type Renderer interface {
	Render(text string) string
}

// Plain returns its input unchanged.
type Plain struct{}

func (Plain) Render(text string) string { return text }

// Styled renders through glamour.
type Styled struct {
	tr *glamour.TermRenderer
}

// NewStyled returns a glamour renderer wrapping at width columns. A width of
// zero or less disables wrapping.
func NewStyled(style string, width int) (*Styled, error) {
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(width, 0)),
	)
	if err != nil {
		return nil, err
	}
	return &Styled{tr: tr}, nil
}

// Render styles text. On failure the raw text is returned.
func (s *Styled) Render(text string) string {
	out, err := s.tr.Render(text)
	if err != nil {
		logx.Warn("Markdown render failed, showing raw text", "error", err.Error())
		return text
	}
	return strings.Trim(out, "\n")
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// New returns Styled ("dark") when styled is true, Plain otherwise or when the
// glamour renderer cannot be built.
func New(styled bool, width int) Renderer {
	if !styled {
		return Plain{}
	}

	r, err := NewStyled("dark", width)
	if err != nil {
		logx.Warn("Falling back to plain output", "error", err.Error())
		return Plain{}
	}
	return r
}
