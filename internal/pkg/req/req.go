/*
Package req provides helper functions for building and parsing JSON HTTP requests.

NewJSON is used by the API client to encode outbound bodies. BindJSON is the
inbound counterpart used by in-process servers.
*/
package req

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// MaxBodyBytes bounds the size of a JSON request body accepted by BindJSON.
const MaxBodyBytes int64 = 1 << 20 // 1 MB

var (
	// ErrUnsupportedMediaType is returned by BindJSON when Content-Type is not JSON.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrExtraContent is returned by BindJSON when data follows the JSON value.
	ErrExtraContent = errors.New("request contains unexpected data")
)

// NewJSON builds a request whose body is the JSON encoding of body.
// A nil body produces a request without a body or Content-Type.
func NewJSON(ctx context.Context, method, url string, body any) (*http.Request, error) {
	if body == nil {
		return http.NewRequestWithContext(ctx, method, url, nil)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	r, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Accept", "application/json")

	return r, nil
}

// BindJSON decodes the JSON request body of r into dst.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return ErrUnsupportedMediaType
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}

	if decoder.More() {
		return ErrExtraContent
	}

	return nil
}
