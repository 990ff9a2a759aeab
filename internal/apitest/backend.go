/*
Package apitest provides an in-process fake of the MediBot API for tests.

Backend implements the /api routes with chi, hashes passwords with bcrypt, signs
session tokens with the same claim set as the real service and verifies them on the
conversation routes, and records every request it receives so tests can assert on
call counts and headers.
*/
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"medibot/internal/pkg/auth/jwt"
	"medibot/internal/pkg/logx"
	"medibot/internal/pkg/req"
	"medibot/internal/pkg/resp"
)

// Secret signs the tokens issued by Backend.
const Secret = "apitest-secret"

// Request is one recorded inbound request.
type Request struct {
	Method        string
	Path          string
	Authorization string
}

type account struct {
	userID string
	name   string
	hash   []byte
}

// Backend is a fake MediBot API.
type Backend struct {
	// Reply computes the /chat response text. Defaults to echoing the message.
	Reply func(conversationID, message string) string

	// StartStatus, when non-zero, makes /start_conversation fail with that status.
	StartStatus int

	// ChatStatus, when non-zero, makes /chat fail with that status.
	ChatStatus int

	// Hold, when set, blocks every /chat request until it is closed.
	Hold chan struct{}

	mu            sync.Mutex
	accounts      map[string]account
	conversations map[string]struct{}
	requests      []Request

	server *httptest.Server
}

// NewBackend starts a Backend and registers its shutdown with t.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		accounts:      make(map[string]account),
		conversations: make(map[string]struct{}),
	}
	b.server = httptest.NewServer(b.Router())
	t.Cleanup(b.server.Close)

	return b
}

// BaseURL is the API base to hand to the client, ending in /api.
func (b *Backend) BaseURL() string {
	return b.server.URL + "/api"
}

// Router builds the chi routing table.
func (b *Backend) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)
	r.Use(b.record)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			resp.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		api.Post("/signup", b.handleSignup)
		api.Post("/login", b.handleLogin)
		api.Group(func(conv chi.Router) {
			conv.Use(b.authorize)
			conv.Get("/start_conversation", b.handleStartConversation)
			conv.Post("/chat", b.handleChat)
		})
	})

	return r
}

// AddAccount registers an account directly and returns its user id.
func (b *Backend) AddAccount(t testing.TB, name, email, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	id := uuid.NewString()

	b.mu.Lock()
	b.accounts[email] = account{userID: id, name: name, hash: hash}
	b.mu.Unlock()

	return id
}

// Requests returns a copy of all recorded requests.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Count returns how many requests hit path (without the /api prefix).
func (b *Backend) Count(path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Path == path {
			n++
		}
	}
	return n
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:        r.Method,
			Path:          strings.TrimPrefix(r.URL.Path, "/api"),
			Authorization: r.Header.Get("Authorization"),
		})
		b.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// authorize rejects a conversation request whose bearer token was not issued by
// Backend. Requests without a token pass, as the service allows anonymous chat.
func (b *Backend) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			resp.RespondJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid authorization header"})
			return
		}
		if _, err := jwt.ParseToken(token, Secret); err != nil {
			resp.RespondJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid token"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

type signupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleSignup mirrors the service: application errors come back as HTTP 200
// with an "error" field.
func (b *Backend) handleSignup(w http.ResponseWriter, r *http.Request) {
	var input signupInput
	if err := req.BindJSON(w, r, &input); err != nil {
		resp.RespondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	b.mu.Lock()
	_, exists := b.accounts[input.Email]
	b.mu.Unlock()
	if exists {
		resp.RespondError(w, http.StatusOK, "Email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.MinCost)
	if err != nil {
		resp.RespondError(w, http.StatusInternalServerError, "hash failed")
		return
	}

	id := uuid.NewString()
	b.mu.Lock()
	b.accounts[input.Email] = account{userID: id, name: input.Name, hash: hash}
	b.mu.Unlock()

	b.respondSession(w, id, input.Email)
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var input loginInput
	if err := req.BindJSON(w, r, &input); err != nil {
		resp.RespondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	b.mu.Lock()
	acct, ok := b.accounts[input.Email]
	b.mu.Unlock()

	if !ok {
		resp.RespondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(input.Password)); err != nil {
		resp.RespondError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	b.respondSession(w, acct.userID, input.Email)
}

func (b *Backend) respondSession(w http.ResponseWriter, userID, email string) {
	token, err := jwt.GenerateToken(&jwt.Payload{UserID: userID, Email: email}, Secret, jwt.SessionExpiration)
	if err != nil {
		resp.RespondError(w, http.StatusInternalServerError, "token failed")
		return
	}
	resp.RespondJSON(w, http.StatusOK, map[string]string{"user_id": userID, "token": token})
}

func (b *Backend) handleStartConversation(w http.ResponseWriter, r *http.Request) {
	if b.StartStatus != 0 {
		resp.RespondJSON(w, b.StartStatus, map[string]string{"detail": "conversation service unavailable"})
		return
	}

	id := uuid.NewString()
	b.mu.Lock()
	b.conversations[id] = struct{}{}
	b.mu.Unlock()

	resp.RespondJSON(w, http.StatusOK, map[string]string{"conversation_id": id})
}

type chatInput struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

func (b *Backend) handleChat(w http.ResponseWriter, r *http.Request) {
	if b.Hold != nil {
		select {
		case <-b.Hold:
		case <-r.Context().Done():
			return
		}
	}

	if b.ChatStatus != 0 {
		resp.RespondJSON(w, b.ChatStatus, map[string]string{"detail": "model backend failed"})
		return
	}

	var input chatInput
	if err := req.BindJSON(w, r, &input); err != nil {
		resp.RespondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	b.mu.Lock()
	_, known := b.conversations[input.ConversationID]
	b.mu.Unlock()
	if !known {
		resp.RespondJSON(w, http.StatusNotFound, map[string]string{"detail": "Conversation not found"})
		return
	}

	reply := b.Reply
	if reply == nil {
		reply = func(_, message string) string { return "You said: " + message }
	}

	resp.RespondJSON(w, http.StatusOK, map[string]string{"response": reply(input.ConversationID, input.Message)})
}
