package transport

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/samandr77/healthportal/pkg/logger"
	"github.com/samandr77/healthportal/pkg/metrics"
)

type TokenSource interface {
	AccessToken() string
}

// AuthRoundTripper stamps request ids and bearer tokens on outgoing portal requests,
// logs and measures them, and reports 401 responses to OnUnauthorized.
type AuthRoundTripper struct {
	Transport      http.RoundTripper
	Tokens         TokenSource
	Metrics        *metrics.Metrics
	OnUnauthorized func()
}

func NewAuthRoundTripper(transport http.RoundTripper, tokens TokenSource, m *metrics.Metrics) *AuthRoundTripper {
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &AuthRoundTripper{Transport: transport, Tokens: tokens, Metrics: m}
}

func (t *AuthRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()

	// RoundTrip must not modify the caller's request
	r = r.Clone(ctx)

	reqID := logger.RequestIDFromCtx(ctx)
	if reqID == "" {
		reqID = uuid.Must(uuid.NewV4()).String()
	}

	r.Header.Set("X-Request-Id", reqID)

	if t.Tokens != nil && r.Header.Get("Authorization") == "" {
		if token := t.Tokens.AccessToken(); token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
	}

	op := logger.OperationFromCtx(ctx)

	slog.DebugContext(ctx, "outgoing request", "request", fmt.Sprintf("%s %s", r.Method, r.URL.Redacted()), "request_id", reqID)

	if t.Metrics != nil {
		t.Metrics.RequestStarted()
	}

	start := time.Now()

	resp, err := t.Transport.RoundTrip(r)
	if err != nil {
		if t.Metrics != nil {
			t.Metrics.RequestFinished(r.Method, op, 0, time.Since(start))
		}

		return nil, fmt.Errorf("round trip: %w", err)
	}

	if t.Metrics != nil {
		t.Metrics.RequestFinished(r.Method, op, resp.StatusCode, time.Since(start))
	}

	slog.DebugContext(ctx, "incoming response", "request", fmt.Sprintf("%s %s", r.Method, r.URL.Redacted()), "status", resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized && r.Header.Get("Authorization") != "" && t.OnUnauthorized != nil {
		t.OnUnauthorized()
	}

	return resp, nil
}
