/*
Package user contains the client-side representation of an authenticated identity.

A Session is what a successful login or signup yields. It is persisted as two plain
string values, user_id and token, in the session store.
*/
package user

import (
	"context"
	"errors"
	"fmt"

	"medibot/internal/app/storage"
	"medibot/internal/pkg/auth/jwt"
)

// Storage keys of the persisted session.
const (
	KeyUserID = "user_id"
	KeyToken  = "token"
)

// Session is the identity returned by /login and /signup.
type Session struct {
	// UserID is the account identifier assigned by the server.
	UserID string `json:"user_id"`

	// Token is the opaque session credential.
	Token string `json:"token"`
}

// SaveSession writes both session values to the store in one transaction, so a
// failed save leaves the previous session intact.
func SaveSession(ctx context.Context, store storage.Store, s Session) error {
	err := store.SetMany(ctx, map[string]string{
		KeyUserID: s.UserID,
		KeyToken:  s.Token,
	})
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// LoadSession reads the stored session. It returns storage.ErrNotFound when no
// token has been stored.
func LoadSession(ctx context.Context, store storage.Store) (Session, error) {
	token, err := store.Get(ctx, KeyToken)
	if err != nil {
		return Session{}, err
	}

	userID, err := store.Get(ctx, KeyUserID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return Session{}, err
	}

	return Session{UserID: userID, Token: token}, nil
}

// TokenSource returns a jwt.TokenSource reading the token from store on every call.
// Lookup failures yield no token.
func TokenSource(store storage.Store) jwt.TokenSource {
	return func() string {
		token, err := store.Get(context.Background(), KeyToken)
		if err != nil {
			return ""
		}
		return token
	}
}

// Claims decodes the token's claims without verifying it.
func (s Session) Claims() (*jwt.Payload, error) {
	return jwt.Inspect(s.Token)
}
