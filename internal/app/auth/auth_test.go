package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"medibot/internal/apitest"
	"medibot/internal/app/apiclient"
	"medibot/internal/app/storage"
	"medibot/internal/app/user"
	"medibot/internal/pkg/errs"
)

type messageView struct{ messages []string }

func (v *messageView) SetMessage(text string) { v.messages = append(v.messages, text) }

func (v *messageView) last() string {
	if len(v.messages) == 0 {
		return ""
	}
	return v.messages[len(v.messages)-1]
}

type recordingNavigator struct{ paths []string }

func (n *recordingNavigator) Navigate(_ context.Context, path string) error {
	n.paths = append(n.paths, path)
	return nil
}

type fixture struct {
	backend *apitest.Backend
	store   *storage.MemoryStore
	view    *messageView
	nav     *recordingNavigator
	client  *Client
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		backend: apitest.NewBackend(t),
		store:   storage.NewMemoryStore(),
		view:    &messageView{},
		nav:     &recordingNavigator{},
	}
	api := apiclient.New(apiclient.Config{BaseURL: f.backend.BaseURL()})
	f.client = New(api, f.store, f.view, f.nav, opts...)
	return f
}

func TestLoginRequiresEmailAndPassword(t *testing.T) {
	forms := []Form{
		{Email: "", Password: "pw"},
		{Email: "a@b.c", Password: ""},
		{Email: "   ", Password: "pw"},
		{Email: "a@b.c", Password: "\t\n"},
	}
	for _, form := range forms {
		f := newFixture(t)

		err := f.client.Login(context.Background(), form)
		require.True(t, errs.HasCode(err, errs.ErrFieldsRequired))
		require.Equal(t, "All fields are required.", f.view.last())
		require.Empty(t, f.backend.Requests(), "no request may be issued")
		require.Zero(t, f.store.Len())
		require.Empty(t, f.nav.paths)
	}
}

func TestSignupRequiresAllFields(t *testing.T) {
	forms := []Form{
		{Name: "", Email: "a@b.c", Password: "pw"},
		{Name: "Ada", Email: "", Password: "pw"},
		{Name: "Ada", Email: "a@b.c", Password: " "},
	}
	for _, form := range forms {
		f := newFixture(t)

		err := f.client.Signup(context.Background(), form)
		require.True(t, errs.IsValidation(err))
		require.Equal(t, "All fields are required.", f.view.last())
		require.Empty(t, f.backend.Requests())
	}
}

func TestLoginSuccessStoresSessionAndNavigatesToChat(t *testing.T) {
	f := newFixture(t)
	id := f.backend.AddAccount(t, "Ada", "ada@example.com", "secret")

	err := f.client.Login(context.Background(), Form{Email: "  ada@example.com ", Password: "secret "})
	require.NoError(t, err)

	s, err := user.LoadSession(context.Background(), f.store)
	require.NoError(t, err)
	require.Equal(t, id, s.UserID)
	require.NotEmpty(t, s.Token)
	require.Equal(t, []string{"/chat"}, f.nav.paths)
	require.Empty(t, f.view.messages)
}

func TestLoginRejectedShowsServerMessage(t *testing.T) {
	f := newFixture(t)
	f.backend.AddAccount(t, "Ada", "ada@example.com", "secret")

	err := f.client.Login(context.Background(), Form{Email: "ada@example.com", Password: "nope"})
	require.True(t, errs.IsServer(err))
	require.Equal(t, "Invalid password", f.view.last())
	require.Zero(t, f.store.Len())
	require.Empty(t, f.nav.paths)
}

func TestSignupSuccessNavigatesToLogin(t *testing.T) {
	f := newFixture(t)

	err := f.client.Signup(context.Background(), Form{Name: "Ada", Email: "ada@example.com", Password: "secret"})
	require.NoError(t, err)
	require.Equal(t, []string{"/login"}, f.nav.paths)

	token, err := f.store.Get(context.Background(), user.KeyToken)
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

func TestSignupDuplicateShowsServerMessage(t *testing.T) {
	f := newFixture(t)
	f.backend.AddAccount(t, "Ada", "ada@example.com", "secret")

	err := f.client.Signup(context.Background(), Form{Name: "Ada", Email: "ada@example.com", Password: "secret"})
	require.Error(t, err)
	require.Equal(t, "Email already registered", f.view.last())
	require.Empty(t, f.nav.paths)
}

// stubAuthenticator returns fixed results without a server.
type stubAuthenticator struct {
	session user.Session
	err     error
	calls   int
}

func (s *stubAuthenticator) Login(context.Context, apiclient.LoginRequest) (user.Session, error) {
	s.calls++
	return s.session, s.err
}

func (s *stubAuthenticator) Signup(context.Context, apiclient.SignupRequest) (user.Session, error) {
	s.calls++
	return s.session, s.err
}

func TestLoginStatus401WithErrorBody(t *testing.T) {
	api := &stubAuthenticator{err: errs.NewServerError(http.StatusUnauthorized, "bad credentials", errs.ErrLoginFailed)}
	store := storage.NewMemoryStore()
	view := &messageView{}
	nav := &recordingNavigator{}

	err := New(api, store, view, nav).Login(context.Background(), Form{Email: "a@b.c", Password: "pw"})
	require.Error(t, err)
	require.Equal(t, "bad credentials", view.last())
	require.Zero(t, store.Len())
	require.Empty(t, nav.paths)
}

func TestLoginFailureWithoutMessageUsesFallback(t *testing.T) {
	api := &stubAuthenticator{err: errs.NewServerError(http.StatusInternalServerError, "", errs.ErrLoginFailed)}
	view := &messageView{}

	_ = New(api, storage.NewMemoryStore(), view, &recordingNavigator{}).Login(context.Background(), Form{Email: "a@b.c", Password: "pw"})
	require.Equal(t, "Login failed.", view.last())

	api.err = errs.NewServerError(http.StatusInternalServerError, "", errs.ErrSignupFailed)
	_ = New(api, storage.NewMemoryStore(), view, &recordingNavigator{}).Signup(context.Background(), Form{Name: "n", Email: "a@b.c", Password: "pw"})
	require.Equal(t, "Signup failed.", view.last())
}

func TestLoginTransportFailureShowsServerNotResponding(t *testing.T) {
	for _, cause := range []error{
		errs.Wrap(errs.ErrServerUnreachable, errors.New("connection refused")),
		errors.New("unclassified"),
	} {
		api := &stubAuthenticator{err: cause}
		view := &messageView{}

		err := New(api, storage.NewMemoryStore(), view, &recordingNavigator{}).Login(context.Background(), Form{Email: "a@b.c", Password: "pw"})
		require.True(t, errs.IsTransport(err))
		require.Equal(t, "Server not responding.", view.last())
	}
}

func TestSubmitIntervalRejectsDoubleSubmit(t *testing.T) {
	api := &stubAuthenticator{session: user.Session{UserID: "u1", Token: "t1"}}
	view := &messageView{}
	client := New(api, storage.NewMemoryStore(), view, &recordingNavigator{}, WithSubmitInterval(time.Hour))

	form := Form{Email: "a@b.c", Password: "pw"}
	require.NoError(t, client.Login(context.Background(), form))

	err := client.Login(context.Background(), form)
	require.True(t, errs.HasCode(err, errs.ErrSubmitTooFrequent))
	require.Equal(t, "Please wait before trying again.", view.last())
	require.Equal(t, 1, api.calls)
}

func TestLoginStoresExactResponseValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"t1","user_id":"u1"}`))
	}))
	defer srv.Close()

	store := storage.NewMemoryStore()
	nav := &recordingNavigator{}
	api := apiclient.New(apiclient.Config{BaseURL: srv.URL + "/api"})

	require.NoError(t, New(api, store, &messageView{}, nav).Login(context.Background(), Form{Email: "a@b.c", Password: "pw"}))

	token, err := store.Get(context.Background(), user.KeyToken)
	require.NoError(t, err)
	require.Equal(t, "t1", token)

	userID, err := store.Get(context.Background(), user.KeyUserID)
	require.NoError(t, err)
	require.Equal(t, "u1", userID)
	require.Equal(t, []string{"/chat"}, nav.paths)
}
