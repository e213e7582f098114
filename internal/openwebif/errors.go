// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package openwebif

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"

	"github.com/ManuGH/e2ctl/internal/resilience"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrNotFound            = errors.New("upstream: resource not found")
	ErrUnauthorized        = errors.New("upstream: authentication failed")
	ErrForbidden           = errors.New("upstream: access forbidden")
	ErrUpstreamUnavailable = errors.New("upstream: host unreachable or transport failure")
	ErrUpstreamError       = errors.New("upstream: internal error (5xx)")
	ErrUpstreamBadResponse = errors.New("upstream: invalid response format or malformed data")
	ErrTimeout             = errors.New("upstream: request timed out")
	ErrCircuitOpen         = resilience.ErrCircuitOpen

	ErrMissingParam    = errors.New("openwebif: missing connection parameter")
	ErrInvalidArgument = errors.New("openwebif: invalid argument")
)

const maxErrorBody = 512

// OWIError is a rich error type that wraps the sentinel errors with context.
type OWIError struct {
	Sentinel  error
	Operation string
	Status    int
	Body      string
	Err       error // Nested lower-level error (e.g. net.Error)
}

func (e *OWIError) Error() string {
	msg := fmt.Sprintf("openwebif: %s: %v", e.Operation, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the category and the underlying cause.
func (e *OWIError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Sentinel}
	}
	return []error{e.Sentinel, e.Err}
}

var secretPattern = regexp.MustCompile(`(?i)\b(token|sid|password)=[^\s&"',;]+`)

func redact(body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return secretPattern.ReplaceAllString(string(body), "$1=[REDACTED]")
}

// wrapError classifies a transport error or a non-success HTTP status.
func wrapError(operation string, err error, status int, body []byte) error {
	e := &OWIError{
		Operation: operation,
		Status:    status,
		Err:       err,
	}
	if len(body) > 0 {
		e.Body = redact(body)
	}

	switch {
	case err != nil && errors.Is(err, resilience.ErrCircuitOpen):
		e.Sentinel = ErrCircuitOpen
	case err != nil && isTimeout(err):
		e.Sentinel = ErrTimeout
	case err != nil:
		e.Sentinel = ErrUpstreamUnavailable
	case status == http.StatusUnauthorized:
		e.Sentinel = ErrUnauthorized
	case status == http.StatusForbidden:
		e.Sentinel = ErrForbidden
	case status == http.StatusNotFound:
		e.Sentinel = ErrNotFound
	case status >= 500:
		e.Sentinel = ErrUpstreamError
	default:
		e.Sentinel = ErrUpstreamBadResponse
	}
	return e
}

func decodeError(operation string, err error) error {
	return &OWIError{Sentinel: ErrUpstreamBadResponse, Operation: operation, Err: err}
}

func argumentError(operation, format string, args ...any) error {
	return &OWIError{Sentinel: ErrInvalidArgument, Operation: operation, Err: fmt.Errorf(format, args...)}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// ErrorKind names the error category of err, for span attributes.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "unavailable"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUpstreamError):
		return "upstream_error"
	case errors.Is(err, ErrUpstreamBadResponse):
		return "bad_response"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrMissingParam):
		return "missing_param"
	default:
		return "unknown"
	}
}

// IsAuthFailure reports whether the receiver rejected the credentials.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}

// IsTransportFailure reports whether the request could not complete or the
// receiver answered with something unusable.
func IsTransportFailure(err error) bool {
	for _, sentinel := range []error{
		ErrUpstreamUnavailable,
		ErrTimeout,
		ErrCircuitOpen,
		ErrUpstreamError,
		ErrUpstreamBadResponse,
		ErrNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// countsAsOutage decides which failures trip the circuit breaker. The box
// answered when it rejected credentials or a path, so those do not count.
func countsAsOutage(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, ErrUpstreamUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrUpstreamError)
}
