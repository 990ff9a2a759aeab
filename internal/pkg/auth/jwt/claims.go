package jwt

import (
	"time"

	"github.com/golang-jwt/jwt"
)

// Payload is the claim set of a MediBot session token.
// The server signs it; the client only reads it.
type Payload struct {
	// StandardClaims holds exp and, when present, iat and iss at the top level.
	jwt.StandardClaims

	// UserID is the account identifier, the same value returned as user_id at login.
	UserID string `json:"user_id"`

	// Email is the address the account was registered with.
	Email string `json:"email"`
}

// Expiry returns the expiry as a time, the zero time when the token has none.
func (p *Payload) Expiry() time.Time {
	if p.StandardClaims.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(p.StandardClaims.ExpiresAt, 0)
}

// Expired reports whether the token expiry is before now. Tokens without exp never expire.
func (p *Payload) Expired(now time.Time) bool {
	exp := p.Expiry()
	return !exp.IsZero() && now.After(exp)
}
