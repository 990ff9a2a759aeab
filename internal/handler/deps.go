package handler

import (
	"io"
	"os"

	"medibot/internal/app/apiclient"
	"medibot/internal/app/auth"
	"medibot/internal/app/storage"
	"medibot/internal/app/user"
	"medibot/internal/configs"
	"medibot/internal/ui/form"
	"medibot/internal/ui/markdown"
)

// AppDeps carries what every command needs once flags are parsed.
type AppDeps struct {
	Config *configs.AppConfig
	Store  storage.Store
	API    *apiclient.Client

	In  io.Reader
	Out io.Writer

	// Interactive is true when In is a terminal, so forms can prompt.
	Interactive bool

	// Styled is true when Out is a terminal.
	Styled bool

	// Built on first use and shared by every form of one invocation.
	routes *Routes
	status *form.Status
	auth   *auth.Client
}

// Routes returns the navigation table of this invocation.
func (d *AppDeps) Routes() *Routes {
	if d.routes == nil {
		d.routes = defaultRoutes(d)
	}
	return d.routes
}

// authFlow returns the auth client and the status line it reports to. A signup
// handing over to login submits through the same client, so the submit limiter
// sees both.
func (d *AppDeps) authFlow() (*auth.Client, *form.Status) {
	if d.auth == nil {
		d.status = form.NewStatus(d.Out, d.Styled)
		nav := signedIn(d.status, "Signed in.", d.Routes())
		d.auth = auth.New(d.API, d.Store, d.status, nav, auth.WithSubmitInterval(d.Config.SubmitInterval))
	}
	return d.auth, d.status
}

// newAppDeps opens the session store and builds the API client for cfg.
func newAppDeps(cfg *configs.AppConfig, in io.Reader, out io.Writer) (*AppDeps, error) {
	store, err := storage.NewStore(storage.ServiceConfig{Backend: cfg.Store, Path: cfg.StorePath})
	if err != nil {
		return nil, err
	}

	apiCfg := apiclient.Config{BaseURL: cfg.APIBase, Timeout: cfg.HTTPTimeout}
	if cfg.AuthorizeChat {
		apiCfg.TokenSource = user.TokenSource(store)
	}

	return &AppDeps{
		Config:      cfg,
		Store:       store,
		API:         apiclient.New(apiCfg),
		In:          in,
		Out:         out,
		Interactive: isTerminal(in),
		Styled:      isTerminal(out),
	}, nil
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && markdown.IsTerminal(f)
}
