/*
Package resp provides helpers for the JSON response convention of the MediBot API.

Every response is a JSON object; failure is signalled by a non-2xx status or by an
"error" string field (FastAPI error bodies use "detail" instead, which is accepted
too). Decode turns a response into either the payload or a *errs.CustomError, and
RespondJSON/RespondError write responses in the same convention.
*/
package resp

import (
	"encoding/json"
	"io"
	"net/http"

	"medibot/internal/pkg/errs"
	"medibot/internal/pkg/logx"
)

// MaxResponseBytes bounds how much of a response body Decode reads.
const MaxResponseBytes int64 = 4 << 20 // 4 MB

// ErrorBody is the error envelope shared by every endpoint.
type ErrorBody struct {
	// Error is the application error message.
	Error string `json:"error,omitempty"`

	// Detail is the FastAPI HTTPException message; only strings are recognized.
	Detail json.RawMessage `json:"detail,omitempty"`
}

// Message returns the first non-empty error message in the envelope.
func (b ErrorBody) Message() string {
	if b.Error != "" {
		return b.Error
	}
	var detail string
	if len(b.Detail) > 0 && json.Unmarshal(b.Detail, &detail) == nil {
		return detail
	}
	return ""
}

// Decode reads res and decodes its JSON body into dst.
// A body that is not valid JSON yields ErrMalformedResponse regardless of status.
// A non-2xx status or a non-empty error field yields a server error carrying the
// server's message, or fallbackCode's message when the server sent none.
func Decode(res *http.Response, dst any, fallbackCode int) error {
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, MaxResponseBytes))
	if err != nil {
		return errs.Wrap(errs.ErrServerUnreachable, err)
	}

	var envelope ErrorBody
	if err := json.Unmarshal(body, &envelope); err != nil {
		malformed := errs.Wrap(errs.ErrMalformedResponse, err)
		malformed.Status = res.StatusCode
		return malformed
	}

	ok := res.StatusCode >= 200 && res.StatusCode < 300
	if msg := envelope.Message(); !ok || msg != "" {
		return errs.NewServerError(res.StatusCode, msg, fallbackCode)
	}

	if dst == nil {
		return nil
	}

	if err := json.Unmarshal(body, dst); err != nil {
		malformed := errs.Wrap(errs.ErrMalformedResponse, err)
		malformed.Status = res.StatusCode
		return malformed
	}

	return nil
}

// RespondJSON sets the Content-Type and sends payload with httpStatus.
func RespondJSON(w http.ResponseWriter, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	response, err := json.Marshal(payload)
	if err != nil {
		logx.Error(
			err,
			"Error encoding JSON response",
			"http_status", httpStatus,
		)

		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	w.Write(response)
}

// RespondError sends an error envelope with the given status and message.
func RespondError(w http.ResponseWriter, httpStatus int, message string) {
	RespondJSON(w, httpStatus, ErrorBody{Error: message})
}
