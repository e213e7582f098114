// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package openwebif

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/e2ctl/internal/resilience"
)

func TestWrapError_Sentinels(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		status   int
		sentinel error
	}{
		{"HTTP 404", nil, http.StatusNotFound, ErrNotFound},
		{"HTTP 403", nil, http.StatusForbidden, ErrForbidden},
		{"HTTP 401", nil, http.StatusUnauthorized, ErrUnauthorized},
		{"HTTP 500", nil, http.StatusInternalServerError, ErrUpstreamError},
		{"HTTP 503", nil, http.StatusServiceUnavailable, ErrUpstreamError},
		{"Malformed JSON (400)", nil, http.StatusBadRequest, ErrUpstreamBadResponse},
		{"Network Timeout", &net.DNSError{IsTimeout: true}, 0, ErrTimeout},
		{"Context Timeout", context.DeadlineExceeded, 0, ErrTimeout},
		{"Connection Refused", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, 0, ErrUpstreamUnavailable},
		{"Circuit Open", resilience.ErrCircuitOpen, 0, ErrCircuitOpen},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := wrapError("test", tc.err, tc.status, nil)
			assert.ErrorIs(t, wrapped, tc.sentinel)

			var owiErr *OWIError
			require.True(t, errors.As(wrapped, &owiErr))
			assert.Equal(t, "test", owiErr.Operation)
			assert.Equal(t, tc.status, owiErr.Status)
		})
	}
}

func TestWrapError_CauseIsReachable(t *testing.T) {
	cause := &net.DNSError{Err: "no such host", Name: "box.invalid"}
	wrapped := wrapError("statusinfo", cause, 0, nil)

	assert.ErrorIs(t, wrapped, ErrUpstreamUnavailable)
	var dnsErr *net.DNSError
	require.True(t, errors.As(wrapped, &dnsErr))
	assert.Equal(t, "box.invalid", dnsErr.Name)
}

func TestWrapError_Redaction(t *testing.T) {
	body := []byte(`{"error": "invalid token: token=1234-5678-abcd-efgh sid=secret_123 password=my_secret_pass"}`)
	err := wrapError("redact_test", nil, 403, body)

	msg := err.Error()
	assert.NotContains(t, msg, "1234-5678")
	assert.NotContains(t, msg, "secret_123")
	assert.NotContains(t, msg, "my_secret_pass")
	assert.Contains(t, msg, "[REDACTED]")
}

func TestWrapError_TruncatesBody(t *testing.T) {
	body := []byte(strings.Repeat("x", 4*maxErrorBody))
	err := wrapError("big", nil, 500, body)

	var owiErr *OWIError
	require.True(t, errors.As(err, &owiErr))
	assert.Len(t, owiErr.Body, maxErrorBody)
}

func TestErrorClassifiers(t *testing.T) {
	assert.True(t, IsAuthFailure(wrapError("x", nil, 401, nil)))
	assert.True(t, IsAuthFailure(wrapError("x", nil, 403, nil)))
	assert.False(t, IsAuthFailure(wrapError("x", nil, 500, nil)))
	assert.False(t, IsAuthFailure(nil))

	assert.True(t, IsTransportFailure(wrapError("x", context.DeadlineExceeded, 0, nil)))
	assert.True(t, IsTransportFailure(decodeError("x", errors.New("bad json"))))
	assert.False(t, IsTransportFailure(argumentError("x", "bad volume")))
	assert.False(t, IsTransportFailure(nil))
}

func TestCountsAsOutage(t *testing.T) {
	assert.True(t, countsAsOutage(wrapError("x", errors.New("refused"), 0, nil)))
	assert.True(t, countsAsOutage(wrapError("x", nil, 502, nil)))
	assert.False(t, countsAsOutage(wrapError("x", nil, 401, nil)))
	assert.False(t, countsAsOutage(wrapError("x", nil, 404, nil)))
	assert.False(t, countsAsOutage(wrapError("x", context.Canceled, 0, nil)))
}

func TestErrorKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{wrapError("x", resilience.ErrCircuitOpen, 0, nil), "circuit_open"},
		{wrapError("x", context.DeadlineExceeded, 0, nil), "timeout"},
		{wrapError("x", errors.New("refused"), 0, nil), "unavailable"},
		{wrapError("x", nil, http.StatusUnauthorized, nil), "unauthorized"},
		{wrapError("x", nil, http.StatusForbidden, nil), "forbidden"},
		{wrapError("x", nil, http.StatusNotFound, nil), "not_found"},
		{wrapError("x", nil, http.StatusBadGateway, nil), "upstream_error"},
		{decodeError("x", errors.New("bad json")), "bad_response"},
		{argumentError("x", "bad volume"), "invalid_argument"},
		{&OWIError{Sentinel: ErrMissingParam, Operation: "new"}, "missing_param"},
		{errors.New("other"), "unknown"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ErrorKind(tc.err), "%v", tc.err)
	}
}
