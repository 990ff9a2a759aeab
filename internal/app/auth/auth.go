/*
Package auth implements the login and signup flows.

A Client validates a credential form, calls the API, persists the returned session
and navigates to the next route. Everything the user sees goes through View, and
every failure is also returned as a *errs.CustomError.
*/
package auth

import (
	"context"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"medibot/internal/app/apiclient"
	"medibot/internal/app/storage"
	"medibot/internal/app/user"
	"medibot/internal/pkg/errs"
	"medibot/internal/pkg/limiter"
	"medibot/internal/pkg/logx"
)

// Navigation targets after a successful submit.
const (
	RouteAfterLogin = "/chat"

	// RouteAfterSignup sends a new account to the login screen rather than into chat.
	RouteAfterSignup = "/login"
)

// Form holds the raw credential fields as entered.
type Form struct {
	Name     string
	Email    string
	Password string
}

// trimmed returns the form with surrounding whitespace removed from every field.
func (f Form) trimmed() Form {
	return Form{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Password: strings.TrimSpace(f.Password),
	}
}

// Authenticator is the part of the API the auth flows need.
type Authenticator interface {
	Login(ctx context.Context, in apiclient.LoginRequest) (user.Session, error)
	Signup(ctx context.Context, in apiclient.SignupRequest) (user.Session, error)
}

// View displays the single status message of an auth form.
type View interface {
	SetMessage(text string)
}

// Navigator moves to another route after a successful submit.
type Navigator interface {
	Navigate(ctx context.Context, path string) error
}

// Client runs the login and signup flows.
type Client struct {
	api     Authenticator
	store   storage.Store
	view    View
	nav     Navigator
	limiter *limiter.SubmitLimiter
}

// Option configures a Client.
type Option func(*Client)

// WithSubmitInterval rejects a second submit of the same form within d.
// Zero disables the check.
func WithSubmitInterval(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = limiter.NewSubmitLimiter(rate.Every(d), 1)
	}
}

// New returns a Client.
func New(api Authenticator, store storage.Store, view View, nav Navigator, opts ...Option) *Client {
	c := &Client{api: api, store: store, view: view, nav: nav}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login validates email and password, authenticates, stores the session and
// navigates to RouteAfterLogin.
func (c *Client) Login(ctx context.Context, form Form) error {
	f := form.trimmed()

	if f.Email == "" || f.Password == "" {
		return c.fail(errs.NewError(errs.ErrFieldsRequired))
	}

	if !c.limiter.Allow("login") {
		return c.fail(errs.NewError(errs.ErrSubmitTooFrequent))
	}

	session, err := c.api.Login(ctx, apiclient.LoginRequest{Email: f.Email, Password: f.Password})
	if err != nil {
		return c.failRequest("Login", err)
	}

	return c.complete(ctx, session, RouteAfterLogin)
}

// Signup validates name, email and password, creates the account, stores the
// session and navigates to RouteAfterSignup.
func (c *Client) Signup(ctx context.Context, form Form) error {
	f := form.trimmed()

	if f.Name == "" || f.Email == "" || f.Password == "" {
		return c.fail(errs.NewError(errs.ErrFieldsRequired))
	}

	if !c.limiter.Allow("signup") {
		return c.fail(errs.NewError(errs.ErrSubmitTooFrequent))
	}

	session, err := c.api.Signup(ctx, apiclient.SignupRequest{Name: f.Name, Email: f.Email, Password: f.Password})
	if err != nil {
		return c.failRequest("Signup", err)
	}

	return c.complete(ctx, session, RouteAfterSignup)
}

func (c *Client) complete(ctx context.Context, session user.Session, route string) error {
	if err := user.SaveSession(ctx, c.store, session); err != nil {
		logx.Error(err, "Failed to persist session", "user_id", session.UserID)
		return c.fail(errs.Wrap(errs.ErrUnknown, err))
	}

	logx.Info("Authenticated", "user_id", session.UserID, "next", route)

	return c.nav.Navigate(ctx, route)
}

// failRequest reports a failed API call. Anything that is not a server-reported
// error is shown as "Server not responding.".
func (c *Client) failRequest(action string, err error) error {
	if errs.IsServer(err) {
		logx.Warn(action+" rejected", "error", err.Error())
		customErr, _ := errs.As(err)
		return c.fail(customErr)
	}

	logx.Error(err, action+" Error")

	customErr, ok := errs.As(err)
	if !ok || !errs.IsTransport(err) {
		customErr = errs.Wrap(errs.ErrServerUnreachable, err)
	}
	return c.fail(customErr)
}

func (c *Client) fail(err *errs.CustomError) error {
	c.view.SetMessage(err.Message)
	return err
}
