// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package httpx

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultClientTimeout         = 5 * time.Second
	defaultDialTimeout           = 3 * time.Second
	defaultResponseHeaderTimeout = 3 * time.Second
	defaultIdleConnTimeout       = 30 * time.Second
	defaultExpectContinueTimeout = 1 * time.Second
	defaultMaxIdleConns          = 4
	defaultMaxIdleConnsPerHost   = 2
)

// Options tune the client built by New.
type Options struct {
	// Timeout bounds a whole request; <= 0 selects the default.
	Timeout time.Duration
	// InsecureSkipVerify disables TLS certificate verification. Receivers
	// commonly serve self-signed certificates.
	InsecureSkipVerify bool
	// Trace wraps the transport with otelhttp so every request gets a client span.
	Trace bool
}

// NewClient returns a hardened HTTP client for receiver requests.
func NewClient(timeout time.Duration) *http.Client {
	return New(Options{Timeout: timeout})
}

// New returns a hardened HTTP client configured by opts.
func New(opts Options) *http.Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}

	dialTimeout := timeout
	if dialTimeout > defaultDialTimeout {
		dialTimeout = defaultDialTimeout
	}

	responseHeaderTimeout := timeout
	if responseHeaderTimeout > defaultResponseHeaderTimeout {
		responseHeaderTimeout = defaultResponseHeaderTimeout
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: dialTimeout, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          defaultMaxIdleConns,
		MaxIdleConnsPerHost:   defaultMaxIdleConnsPerHost,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   dialTimeout,
		ResponseHeaderTimeout: responseHeaderTimeout,
		ExpectContinueTimeout: defaultExpectContinueTimeout,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			// #nosec G402 -- operator opt-in for self-signed receiver certificates
			InsecureSkipVerify: opts.InsecureSkipVerify,
		},
	}

	var rt http.RoundTripper = transport
	if opts.Trace {
		rt = otelhttp.NewTransport(transport)
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: rt,
	}
}
