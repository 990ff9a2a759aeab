package handler

import (
	"context"

	"github.com/spf13/cobra"

	"medibot/internal/app/auth"
	"medibot/internal/ui/form"
)

func newLoginCommand(deps func() *AppDeps) *cobra.Command {
	var f auth.Form
	var noChat bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and open the chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := deps()
			if noChat {
				d.Routes().Handle(auth.RouteAfterLogin, func(context.Context) error { return nil })
			}
			return runLogin(cmd.Context(), d, f)
		},
	}

	cmd.Flags().StringVar(&f.Email, "email", "", "account email")
	cmd.Flags().StringVar(&f.Password, "password", "", "account password")
	cmd.Flags().BoolVar(&noChat, "no-chat", false, "only store the session, do not open the chat")

	return cmd
}

func newSignupCommand(deps func() *AppDeps) *cobra.Command {
	var f auth.Form

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignup(cmd.Context(), deps(), f)
		},
	}

	cmd.Flags().StringVar(&f.Name, "name", "", "display name")
	cmd.Flags().StringVar(&f.Email, "email", "", "account email")
	cmd.Flags().StringVar(&f.Password, "password", "", "account password")

	return cmd
}

// runLogin prompts for missing credentials and runs the login flow.
func runLogin(ctx context.Context, deps *AppDeps, f auth.Form) error {
	if err := form.Complete(ctx, form.KindLogin, &f, deps.Interactive); err != nil {
		return err
	}

	client, status := deps.authFlow()

	if err := client.Login(ctx, f); err != nil {
		if status.Last() != "" {
			return reported(err)
		}
		return err
	}
	return nil
}

// runSignup prompts for missing fields and runs the signup flow.
func runSignup(ctx context.Context, deps *AppDeps, f auth.Form) error {
	if err := form.Complete(ctx, form.KindSignup, &f, deps.Interactive); err != nil {
		return err
	}

	client, status := deps.authFlow()

	if err := client.Signup(ctx, f); err != nil {
		if status.Last() != "" {
			return reported(err)
		}
		return err
	}
	return nil
}

// navigatorFunc adapts a function to auth.Navigator.
type navigatorFunc func(ctx context.Context, path string) error

func (f navigatorFunc) Navigate(ctx context.Context, path string) error { return f(ctx, path) }

// signedIn prints msg before handing a successful login over to next.
func signedIn(status *form.Status, msg string, next auth.Navigator) auth.Navigator {
	return navigatorFunc(func(ctx context.Context, path string) error {
		if path == auth.RouteAfterLogin {
			status.Info(msg)
		}
		return next.Navigate(ctx, path)
	})
}
