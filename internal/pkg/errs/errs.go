/*
Package errs provides custom error types and application-level error code constants.

This file defines the CustomError struct, which implements the standard Go error interface
and includes a business code, a user-facing message, the HTTP status observed (if any),
and the underlying cause.
*/
package errs

import (
	"errors"
	"fmt"
	"strings"

	"medibot/internal/pkg/logx"
)

// CustomError is the custom error structure used throughout the client.
type CustomError struct {
	// Code is the business error code (see constants definition).
	Code int

	// Message is the user-facing error description.
	Message string

	// Status is the HTTP status code of the response that produced this error, 0 if none.
	Status int

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the standard Go error interface.
func (e *CustomError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error Code %d", e.Code)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.Status)
	}
	fmt.Fprintf(&b, ": %s", e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *CustomError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a CustomError with the same code.
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError constructs a *CustomError from a predefined error code.
// The optional details are printf-style arguments for the message template.
// An unknown code yields ErrUnknown.
func NewError(code int, details ...any) *CustomError {
	templateErr, ok := errorMap[code]

	if !ok {
		logx.Error(
			fmt.Errorf("attempted to create an error with an unknown code in errorMap"),
			"Unknown error code requested",
			"requested_code", code,
		)

		unknownErr := errorMap[ErrUnknown]
		return &CustomError{
			Code:    unknownErr.Code,
			Message: unknownErr.Message,
		}
	}

	customErr := templateErr

	if len(details) > 0 {
		if strings.Contains(customErr.Message, "%") {
			customErr.Message = fmt.Sprintf(customErr.Message, details...)
		} else {
			logx.Warn(
				"Details provided for error, but message template has no formatting placeholders. Details ignored.",
				"code", code,
			)
		}
	}

	return &customErr
}

// Wrap is NewError with a cause attached.
func Wrap(code int, cause error, details ...any) *CustomError {
	e := NewError(code, details...)
	e.Cause = cause
	return e
}

// NewServerError builds the error for a failed response. A non-empty server
// message is kept verbatim; otherwise the fallback code's message is used.
func NewServerError(status int, serverMessage string, fallbackCode int) *CustomError {
	var e *CustomError
	if msg := strings.TrimSpace(serverMessage); msg != "" {
		e = NewError(ErrServerRejected, msg)
	} else {
		e = NewError(fallbackCode)
	}
	e.Status = status
	return e
}

// As extracts the *CustomError from err's chain.
func As(err error) (*CustomError, bool) {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code int) bool {
	return errors.Is(err, &CustomError{Code: code})
}

// IsValidation reports whether err is a 1xxx client-side validation error.
func IsValidation(err error) bool { return class(err) == 1 }

// IsServer reports whether err is a 2xxx server-reported error.
func IsServer(err error) bool { return class(err) == 2 }

// IsTransport reports whether err is a 3xxx transport error.
func IsTransport(err error) bool { return class(err) == 3 }

func class(err error) int {
	customErr, ok := As(err)
	if !ok {
		return 0
	}
	return customErr.Code / 1000
}

// UserMessage returns the message to show for err, falling back to ErrUnknown's.
func UserMessage(err error) string {
	if customErr, ok := As(err); ok {
		return customErr.Message
	}
	return errorMap[ErrUnknown].Message
}
