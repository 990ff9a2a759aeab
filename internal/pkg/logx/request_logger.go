/*
Package logx provides a structured logging wrapper based on zerolog.

This file contains the HTTP instrumentation: a RoundTripper that logs every outbound
API call (method, path, status, latency) and the matching chi middleware used by
in-process servers.
*/
package logx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestIDHeader carries the per-request correlation id on outbound calls.
const RequestIDHeader = "X-Request-ID"

// Transport wraps an http.RoundTripper and logs the request lifecycle.
type Transport struct {
	// Base is the underlying transport. nil means http.DefaultTransport.
	Base http.RoundTripper
}

// NewTransport returns a logging transport on top of base.
func NewTransport(base http.RoundTripper) *Transport {
	return &Transport{Base: base}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	logger := Logger().With().
		Str("component", "apiclient").
		Str("request_id", r.Header.Get(RequestIDHeader)).
		Str("request_method", r.Method).
		Str("request_path", r.URL.Path).
		Logger()

	t1 := time.Now()
	res, err := base.RoundTrip(r)
	if err != nil {
		logger.Warn().
			Err(err).
			Dur("latency", time.Since(t1)).
			Msg("Request failed")
		return nil, err
	}

	logEvent := logger.Debug()
	if res.StatusCode >= 500 {
		logEvent = logger.Error()
	} else if res.StatusCode >= 400 {
		logEvent = logger.Warn()
	}

	logEvent.
		Int("status", res.StatusCode).
		Dur("latency", time.Since(t1)).
		Msg("Request completed")

	return res, nil
}

// RequestLogger returns an HTTP middleware that logs every served request
// and injects a request-scoped logger into the context.
func RequestLogger() func(next http.Handler) http.Handler {
	baseLogger := Logger()

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			logger := baseLogger.With().
				Str("component", "http").
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("request_method", r.Method).
				Str("request_uri", r.RequestURI).
				Logger()

			r = r.WithContext(logger.WithContext(r.Context()))

			t1 := time.Now()
			next.ServeHTTP(ww, r)

			logger.Debug().
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("latency", time.Since(t1)).
				Msg("Request served")
		}

		return http.HandlerFunc(fn)
	}
}
