package req

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	r, err := NewJSON(context.Background(), http.MethodPost, "http://api.test/login", map[string]string{"email": "a@b.c"})
	require.NoError(t, err)
	require.Equal(t, "application/json", r.Header.Get("Content-Type"))

	body, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"email":"a@b.c"}`, string(body))

	r, err = NewJSON(context.Background(), http.MethodGet, "http://api.test/health", nil)
	require.NoError(t, err)
	require.Nil(t, r.Body)
	require.Empty(t, r.Header.Get("Content-Type"))
}

func TestBindJSON(t *testing.T) {
	var dst struct {
		Message string `json:"message"`
	}

	bind := func(contentType, body string) error {
		r := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
		if contentType != "" {
			r.Header.Set("Content-Type", contentType)
		}
		return BindJSON(httptest.NewRecorder(), r, &dst)
	}

	require.NoError(t, bind("application/json; charset=utf-8", `{"message":"hi"}`))
	require.Equal(t, "hi", dst.Message)

	require.ErrorIs(t, bind("text/plain", `{"message":"hi"}`), ErrUnsupportedMediaType)
	require.ErrorIs(t, bind("application/json", `{"message":"a"}{"message":"b"}`), ErrExtraContent)
	require.Error(t, bind("application/json", `{"unknown":1}`))
}
