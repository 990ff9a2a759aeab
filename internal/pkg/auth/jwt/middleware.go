package jwt

import (
	"net/http"
)

// TokenSource returns the current session token, "" when there is none.
type TokenSource func() string

// BearerTransport attaches "Authorization: Bearer <token>" to outbound requests
// whenever the token source yields a token. Requests that already carry an
// Authorization header are left untouched.
type BearerTransport struct {
	Base   http.RoundTripper
	Source TokenSource
}

// RoundTrip implements http.RoundTripper.
func (t *BearerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	if t.Source == nil || r.Header.Get("Authorization") != "" {
		return base.RoundTrip(r)
	}

	token := t.Source()
	if token == "" {
		return base.RoundTrip(r)
	}

	// RoundTrippers must not modify the caller's request.
	r = r.Clone(r.Context())
	r.Header.Set("Authorization", "Bearer "+token)

	return base.RoundTrip(r)
}
