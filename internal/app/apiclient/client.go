/*
Package apiclient is the typed HTTP client for the MediBot API.

It is constructed from an explicit Config (no global base URL) and exposes one method
per endpoint. Every failure is returned as a *errs.CustomError classifying it as a
server-reported or transport error.
*/
package apiclient

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"medibot/internal/app/user"
	"medibot/internal/pkg/auth/jwt"
	"medibot/internal/pkg/errs"
	"medibot/internal/pkg/logx"
	"medibot/internal/pkg/req"
	"medibot/internal/pkg/resp"
)

// Endpoint paths relative to the API base.
const (
	PathLogin             = "/login"
	PathSignup            = "/signup"
	PathStartConversation = "/start_conversation"
	PathChat              = "/chat"
	PathHealth            = "/health"
)

// Config holds everything the client needs to reach the API.
type Config struct {
	// BaseURL is the absolute API base, e.g. "http://localhost:8000/api".
	BaseURL string

	// Timeout bounds each request. Zero means no client-side timeout.
	Timeout time.Duration

	// TokenSource, when set, supplies the bearer token attached to
	// conversation requests (/start_conversation and /chat).
	TokenSource jwt.TokenSource

	// Transport is the base RoundTripper. nil means http.DefaultTransport.
	Transport http.RoundTripper
}

// Client talks to the MediBot API.
type Client struct {
	base string

	// plain is used for the auth and health endpoints.
	plain *http.Client

	// authed attaches the session token.
	authed *http.Client
}

// New returns a Client for cfg.
func New(cfg Config) *Client {
	logged := logx.NewTransport(cfg.Transport)

	return &Client{
		base:  strings.TrimRight(cfg.BaseURL, "/"),
		plain: &http.Client{Transport: logged, Timeout: cfg.Timeout},
		authed: &http.Client{
			Transport: &jwt.BearerTransport{Base: logged, Source: cfg.TokenSource},
			Timeout:   cfg.Timeout,
		},
	}
}

// BaseURL returns the API base the client was built with.
func (c *Client) BaseURL() string {
	return c.base
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, in LoginRequest) (user.Session, error) {
	var out authResponse
	if err := c.do(ctx, c.plain, http.MethodPost, PathLogin, in, &out, errs.ErrLoginFailed); err != nil {
		return user.Session{}, err
	}
	return user.Session{UserID: out.UserID, Token: out.Token}, nil
}

// Signup creates an account.
func (c *Client) Signup(ctx context.Context, in SignupRequest) (user.Session, error) {
	var out authResponse
	if err := c.do(ctx, c.plain, http.MethodPost, PathSignup, in, &out, errs.ErrSignupFailed); err != nil {
		return user.Session{}, err
	}
	return user.Session{UserID: out.UserID, Token: out.Token}, nil
}

// StartConversation requests a new conversation handle.
// A response without conversation_id is treated as malformed.
func (c *Client) StartConversation(ctx context.Context) (Conversation, error) {
	var out Conversation
	if err := c.do(ctx, c.authed, http.MethodGet, PathStartConversation, nil, &out, errs.ErrConversationUnavailable); err != nil {
		return Conversation{}, err
	}
	if !out.Valid() {
		return Conversation{}, errs.NewError(errs.ErrMalformedResponse)
	}
	return out, nil
}

// Chat posts message to the conversation and returns the bot reply text.
// A response without a response field is treated as malformed.
func (c *Client) Chat(ctx context.Context, conv Conversation, message string) (string, error) {
	if !conv.Valid() {
		return "", errs.NewError(errs.ErrNoConversation)
	}

	in := ChatRequest{ConversationID: conv.ID, Message: message}

	var out chatResponse
	if err := c.do(ctx, c.authed, http.MethodPost, PathChat, in, &out, errs.ErrChatFailed); err != nil {
		return "", err
	}
	if out.Response == nil {
		return "", errs.NewError(errs.ErrMalformedResponse)
	}
	return *out.Response, nil
}

// Health queries the service health endpoint.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	if err := c.do(ctx, c.plain, http.MethodGet, PathHealth, nil, &out, errs.ErrUnknown); err != nil {
		return Health{}, err
	}
	return out, nil
}

// do performs one request and decodes the response into out.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, body, out any, fallbackCode int) error {
	r, err := req.NewJSON(ctx, method, c.base+path, body)
	if err != nil {
		return errs.Wrap(errs.ErrUnknown, err)
	}
	r.Header.Set(logx.RequestIDHeader, uuid.NewString())

	res, err := hc.Do(r)
	if err != nil {
		return errs.Wrap(errs.ErrServerUnreachable, err)
	}

	return resp.Decode(res, out, fallbackCode)
}
