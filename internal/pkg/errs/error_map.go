/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError template holding the
user-facing message shown for that code.
*/
package errs

// errorMap stores the CustomError template for every application error code.
var errorMap = map[int]CustomError{
	// 1xxx: Client-side Validation Errors
	ErrFieldsRequired:    {Code: ErrFieldsRequired, Message: "All fields are required."},
	ErrSubmitTooFrequent: {Code: ErrSubmitTooFrequent, Message: "Please wait before trying again."},
	ErrEmptyMessage:      {Code: ErrEmptyMessage, Message: "Message is empty."},

	// 2xxx: Server-reported Errors
	ErrServerRejected:          {Code: ErrServerRejected, Message: "%s"},
	ErrLoginFailed:             {Code: ErrLoginFailed, Message: "Login failed."},
	ErrSignupFailed:            {Code: ErrSignupFailed, Message: "Signup failed."},
	ErrChatFailed:              {Code: ErrChatFailed, Message: "I encountered an error. Please try your question again."},
	ErrConversationUnavailable: {Code: ErrConversationUnavailable, Message: "Sorry, I am unable to connect right now. Please try again later."},

	// 3xxx: Transport Errors
	ErrServerUnreachable: {Code: ErrServerUnreachable, Message: "Server not responding."},
	ErrMalformedResponse: {Code: ErrMalformedResponse, Message: "Server not responding."},

	// 4xxx: Session and Conversation State Errors
	ErrNoConversation: {Code: ErrNoConversation, Message: "No active conversation."},
	ErrNotSignedIn:    {Code: ErrNotSignedIn, Message: "You are not signed in. Run \"medibot login\" first."},
	ErrUnknownRoute:   {Code: ErrUnknownRoute, Message: "Unknown destination %q."},

	// 5xxx: Internal Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again."},
}
