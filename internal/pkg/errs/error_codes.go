/*
Package errs provides custom error types and application-level error code constants.

The codes classify every failure the client can report: local validation,
errors reported by the server, transport failures, and conversation state errors.
*/
package errs

// 1xxx: Client-side Validation Errors
const (
	// ErrFieldsRequired indicates that a required credential field was empty after trimming.
	ErrFieldsRequired = 1001

	// ErrSubmitTooFrequent indicates that a form was submitted again before the previous submit window elapsed.
	ErrSubmitTooFrequent = 1002

	// ErrEmptyMessage indicates that a chat message was empty after trimming.
	ErrEmptyMessage = 1003
)

// 2xxx: Server-reported Errors
const (
	// ErrServerRejected carries an error message supplied by the server.
	ErrServerRejected = 2001

	// ErrLoginFailed is the fallback when /login fails without a server message.
	ErrLoginFailed = 2002

	// ErrSignupFailed is the fallback when /signup fails without a server message.
	ErrSignupFailed = 2003

	// ErrChatFailed indicates that a /chat exchange failed for any reason.
	ErrChatFailed = 2004

	// ErrConversationUnavailable indicates that /start_conversation failed and chat is disabled.
	ErrConversationUnavailable = 2005
)

// 3xxx: Transport Errors
const (
	// ErrServerUnreachable indicates a network failure before any response was received.
	ErrServerUnreachable = 3001

	// ErrMalformedResponse indicates that the response body could not be decoded.
	ErrMalformedResponse = 3002
)

// 4xxx: Session and Conversation State Errors
const (
	// ErrNoConversation indicates that a message was sent without a conversation handle.
	ErrNoConversation = 4001

	// ErrNotSignedIn indicates that no session is stored.
	ErrNotSignedIn = 4002

	// ErrUnknownRoute indicates a navigation target without a registered handler.
	ErrUnknownRoute = 4003
)

// 5xxx: Internal Errors
const (
	// ErrUnknown represents an unclassified client error.
	ErrUnknown = 5000
)
