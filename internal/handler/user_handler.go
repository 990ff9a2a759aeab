package handler

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"medibot/internal/app/storage"
	"medibot/internal/app/user"
	"medibot/internal/pkg/errs"
	"medibot/internal/pkg/logx"
)

// newWhoamiCommand prints the stored session. The token is decoded, not verified.
func newWhoamiCommand(deps func() *AppDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := deps()

			session, err := user.LoadSession(cmd.Context(), d.Store)
			if errors.Is(err, storage.ErrNotFound) {
				return errs.NewError(errs.ErrNotSignedIn)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(d.Out, "User ID: %s\n", session.UserID)

			claims, err := session.Claims()
			if err != nil {
				logx.Debug("Session token is not a JWT", "error", err.Error())
				return nil
			}

			if claims.Email != "" {
				fmt.Fprintf(d.Out, "Email:   %s\n", claims.Email)
			}
			if exp := claims.Expiry(); !exp.IsZero() {
				state := "valid"
				if claims.Expired(time.Now()) {
					state = "expired"
				}
				fmt.Fprintf(d.Out, "Expires: %s (%s)\n", exp.Format(time.RFC3339), state)
			}
			return nil
		},
	}
}
