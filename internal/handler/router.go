/*
Package handler wires the medibot command line: the cobra command tree, the route
table that auth flows navigate through, and the per-command handlers.
*/
package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"medibot/internal/app/auth"
	"medibot/internal/configs"
	"medibot/internal/pkg/errs"
	"medibot/internal/pkg/logx"
)

// RouteFunc runs the screen behind a route.
type RouteFunc func(ctx context.Context) error

// Routes is the navigation table. It implements auth.Navigator.
type Routes struct {
	mu    sync.RWMutex
	table map[string]RouteFunc
}

// NewRoutes returns an empty table.
func NewRoutes() *Routes {
	return &Routes{table: make(map[string]RouteFunc)}
}

// Handle binds path to fn, replacing any previous binding.
func (r *Routes) Handle(path string, fn RouteFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table[path] = fn
}

// Navigate runs the screen bound to path.
func (r *Routes) Navigate(ctx context.Context, path string) error {
	r.mu.RLock()
	fn, ok := r.table[path]
	r.mu.RUnlock()

	if !ok {
		return errs.NewError(errs.ErrUnknownRoute, path)
	}

	logx.Debug("Navigating", "path", path)
	return fn(ctx)
}

// Paths lists the bound paths in order.
func (r *Routes) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths := make([]string, 0, len(r.table))
	for p := range r.table {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// defaultRoutes binds the screens a successful login or signup leads to.
func defaultRoutes(deps *AppDeps) *Routes {
	routes := NewRoutes()

	routes.Handle(auth.RouteAfterLogin, func(ctx context.Context) error {
		return runChat(ctx, deps, !deps.Styled)
	})

	routes.Handle(auth.RouteAfterSignup, func(ctx context.Context) error {
		if !deps.Interactive {
			fmt.Fprintln(deps.Out, `Account created. Run "medibot login" to sign in.`)
			return nil
		}
		fmt.Fprintln(deps.Out, "Account created. Please sign in.")
		return runLogin(ctx, deps, auth.Form{})
	})

	return routes
}

// reportedError marks an error whose message the user has already seen.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err}
}

// NewRootCommand builds the medibot command tree on top of cfg. Persistent
// flags override cfg before any subcommand runs.
func NewRootCommand(cfg *configs.AppConfig, in io.Reader, out io.Writer) *cobra.Command {
	var deps *AppDeps

	root := &cobra.Command{
		Use:           "medibot",
		Short:         "medibot is a terminal client for the MediBot medical assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			apiBase, err := configs.NormalizeAPIBase(cfg.APIBase)
			if err != nil {
				return err
			}
			cfg.APIBase = apiBase

			cfg.Store = strings.ToLower(cfg.Store)
			if err := configs.ValidateStore(cfg.Store); err != nil {
				return err
			}

			logx.SetLevel(cfg.LogLevel)

			deps, err = newAppDeps(cfg, in, out)
			if err != nil {
				return err
			}

			logx.Info("Configuration loaded",
				"environment", cfg.Environment,
				"api_base", cfg.APIBase,
				"store", cfg.Store,
				"command", cmd.Name(),
			)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.APIBase, "api-base", cfg.APIBase, "base URL of the MediBot API")
	flags.StringVar(&cfg.Store, "store", cfg.Store, "session store backend (badger, sqlite, memory)")
	flags.StringVar(&cfg.StorePath, "store-path", cfg.StorePath, "directory holding the session store")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	depsFn := func() *AppDeps { return deps }

	root.AddCommand(
		newLoginCommand(depsFn),
		newSignupCommand(depsFn),
		newChatCommand(depsFn),
		newWhoamiCommand(depsFn),
		newHealthCommand(depsFn),
	)

	// Release the store after every command, failed ones included.
	for _, sub := range root.Commands() {
		run := sub.RunE
		sub.RunE = func(cmd *cobra.Command, args []string) error {
			defer closeDeps(deps)
			return run(cmd, args)
		}
	}

	return root
}

func closeDeps(deps *AppDeps) {
	if deps == nil || deps.Store == nil {
		return
	}
	if err := deps.Store.Close(); err != nil {
		logx.Error(err, "Failed to close session store")
	}
}

// Execute runs root and returns the process exit code. Errors not already
// shown to the user are printed to errOut.
func Execute(ctx context.Context, root *cobra.Command, errOut io.Writer) int {
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var shown reportedError
	if errors.As(err, &shown) {
		return 1
	}

	if _, ok := errs.As(err); ok {
		fmt.Fprintln(errOut, errs.UserMessage(err))
	} else {
		fmt.Fprintln(errOut, "Error:", err)
	}
	logx.Error(err, "Command failed")
	return 1
}
