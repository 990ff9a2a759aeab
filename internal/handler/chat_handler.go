package handler

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"medibot/internal/app/chat"
	"medibot/internal/app/storage"
	"medibot/internal/app/user"
	"medibot/internal/pkg/logx"
	"medibot/internal/ui/console"
	"medibot/internal/ui/markdown"
	"medibot/internal/ui/tui"
)

func newChatCommand(deps func() *AppDeps) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open a chat session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), deps(), plain)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "line mode without the full-screen interface")

	return cmd
}

// runChat opens a chat session: full-screen when both ends are terminals and
// plain is false, line mode otherwise.
func runChat(ctx context.Context, deps *AppDeps, plain bool) error {
	if _, err := user.LoadSession(ctx, deps.Store); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		logx.Warn("No stored session, chatting without a token")
	}

	if !plain && deps.Interactive && deps.Styled {
		err := tui.Run(ctx, deps.API, false)
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}

	c := console.New(deps.In, deps.Out, markdown.New(deps.Styled && !plain, 80))
	if err := c.Run(ctx, chat.NewController(deps.API, c)); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
