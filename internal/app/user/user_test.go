package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"medibot/internal/app/storage"
	"medibot/internal/pkg/auth/jwt"
)

func TestSaveAndLoadSession(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	_, err := LoadSession(ctx, store)
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.Empty(t, TokenSource(store)())

	require.NoError(t, SaveSession(ctx, store, Session{UserID: "u1", Token: "t1"}))

	s, err := LoadSession(ctx, store)
	require.NoError(t, err)
	require.Equal(t, Session{UserID: "u1", Token: "t1"}, s)
	require.Equal(t, "t1", TokenSource(store)())
}

// brokenStore fails every batched write.
type brokenStore struct {
	*storage.MemoryStore
}

func (brokenStore) SetMany(context.Context, map[string]string) error {
	return errors.New("disk full")
}

func TestFailedSaveKeepsPreviousSession(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStore()
	require.NoError(t, SaveSession(ctx, mem, Session{UserID: "u1", Token: "t1"}))

	err := SaveSession(ctx, brokenStore{mem}, Session{UserID: "u2", Token: "t2"})
	require.ErrorContains(t, err, "disk full")

	s, err := LoadSession(ctx, mem)
	require.NoError(t, err)
	require.Equal(t, Session{UserID: "u1", Token: "t1"}, s)
}

func TestSessionClaims(t *testing.T) {
	token, err := jwt.GenerateToken(&jwt.Payload{UserID: "u1", Email: "ada@example.com"}, "k", time.Hour)
	require.NoError(t, err)

	claims, err := Session{UserID: "u1", Token: token}.Claims()
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", claims.Email)

	_, err = Session{Token: "opaque"}.Claims()
	require.Error(t, err)
}
