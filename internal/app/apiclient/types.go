package apiclient

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the success body of /login and /signup.
type authResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

// Conversation is the handle returned by GET /start_conversation.
type Conversation struct {
	ID string `json:"conversation_id"`
}

// Valid reports whether the handle can be used for sending.
func (c Conversation) Valid() bool {
	return c.ID != ""
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

// chatResponse is the success body of POST /chat.
type chatResponse struct {
	Response *string `json:"response"`
}

// Health is the body of GET /health.
type Health struct {
	Status string `json:"status"`
}
