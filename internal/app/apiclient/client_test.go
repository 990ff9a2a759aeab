package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"medibot/internal/apitest"
	"medibot/internal/pkg/auth/jwt"
	"medibot/internal/pkg/errs"
)

func newClient(t *testing.T, token string) (*Client, *apitest.Backend) {
	t.Helper()
	backend := apitest.NewBackend(t)
	client := New(Config{
		BaseURL:     backend.BaseURL() + "/",
		TokenSource: func() string { return token },
	})
	return client, backend
}

func TestLoginReturnsSession(t *testing.T) {
	client, backend := newClient(t, "")
	id := backend.AddAccount(t, "Ada", "ada@example.com", "secret")

	s, err := client.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "secret"})
	require.NoError(t, err)
	require.Equal(t, id, s.UserID)
	require.NotEmpty(t, s.Token)

	claims, err := s.Claims()
	require.NoError(t, err)
	require.Equal(t, id, claims.UserID)
	require.Equal(t, "ada@example.com", claims.Email)
}

func TestLoginServerErrorCarriesMessage(t *testing.T) {
	client, backend := newClient(t, "")
	backend.AddAccount(t, "Ada", "ada@example.com", "secret")

	_, err := client.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "wrong"})
	require.Error(t, err)
	require.True(t, errs.IsServer(err))

	customErr, ok := errs.As(err)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, customErr.Status)
	require.Equal(t, "Invalid password", customErr.Message)
}

func TestSignupErrorFieldWithStatusOK(t *testing.T) {
	client, backend := newClient(t, "")
	backend.AddAccount(t, "Ada", "ada@example.com", "secret")

	_, err := client.Signup(context.Background(), SignupRequest{Name: "Ada", Email: "ada@example.com", Password: "x"})
	require.Error(t, err)
	require.Equal(t, "Email already registered", errs.UserMessage(err))
}

func TestConversationRequestsCarryBearerToken(t *testing.T) {
	token, err := jwt.GenerateToken(&jwt.Payload{UserID: "u1"}, apitest.Secret, time.Hour)
	require.NoError(t, err)
	client, backend := newClient(t, token)

	conv, err := client.StartConversation(context.Background())
	require.NoError(t, err)
	require.True(t, conv.Valid())

	reply, err := client.Chat(context.Background(), conv, "hello")
	require.NoError(t, err)
	require.Equal(t, "You said: hello", reply)

	_, err = client.Health(context.Background())
	require.NoError(t, err)

	for _, r := range backend.Requests() {
		switch r.Path {
		case PathStartConversation, PathChat:
			require.Equal(t, "Bearer "+token, r.Authorization, r.Path)
		default:
			require.Empty(t, r.Authorization, r.Path)
		}
	}
}

func TestChatWithoutConversationSendsNothing(t *testing.T) {
	client, backend := newClient(t, "")

	_, err := client.Chat(context.Background(), Conversation{}, "hello")
	require.True(t, errs.HasCode(err, errs.ErrNoConversation))
	require.Zero(t, backend.Count(PathChat))
}

func TestChatServerFailureUsesFallback(t *testing.T) {
	client, backend := newClient(t, "")
	backend.ChatStatus = http.StatusInternalServerError

	conv, err := client.StartConversation(context.Background())
	require.NoError(t, err)

	_, err = client.Chat(context.Background(), conv, "hello")
	require.True(t, errs.IsServer(err))
	require.Equal(t, "model backend failed", errs.UserMessage(err))
}

func TestMalformedAndUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	client := New(Config{BaseURL: srv.URL + "/api"})

	_, err := client.Login(context.Background(), LoginRequest{Email: "a", Password: "b"})
	require.True(t, errs.HasCode(err, errs.ErrMalformedResponse))
	require.True(t, errs.IsTransport(err))

	srv.Close()
	_, err = client.StartConversation(context.Background())
	require.True(t, errs.HasCode(err, errs.ErrServerUnreachable))
	require.Equal(t, "Server not responding.", errs.UserMessage(err))
}

func TestStartConversationWithoutIDIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := New(Config{BaseURL: srv.URL}).StartConversation(context.Background())
	require.True(t, errs.HasCode(err, errs.ErrMalformedResponse))
}

func TestChatWithoutResponseIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	reply, err := New(Config{BaseURL: srv.URL}).Chat(context.Background(), Conversation{ID: "c1"}, "hello")
	require.True(t, errs.HasCode(err, errs.ErrMalformedResponse))
	require.Empty(t, reply)
}

func TestConversationRejectsForeignToken(t *testing.T) {
	token, err := jwt.GenerateToken(&jwt.Payload{UserID: "u1"}, "another-secret", time.Hour)
	require.NoError(t, err)
	client, _ := newClient(t, token)

	_, err = client.StartConversation(context.Background())
	require.True(t, errs.IsServer(err))
	require.Equal(t, "Invalid token", errs.UserMessage(err))
}

func TestChatUnknownConversationIsRejected(t *testing.T) {
	client, _ := newClient(t, "")

	_, err := client.Chat(context.Background(), Conversation{ID: "stale"}, "hello")
	require.True(t, errs.IsServer(err))

	customErr, ok := errs.As(err)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, customErr.Status)
	require.Equal(t, "Conversation not found", customErr.Message)
}
