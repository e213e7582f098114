// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package openwebif is a client for the OpenWebif HTTP API of Enigma2 receivers.
package openwebif

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/ManuGH/e2ctl/internal/log"
	"github.com/ManuGH/e2ctl/internal/metrics"
	"github.com/ManuGH/e2ctl/internal/picon"
	platformnet "github.com/ManuGH/e2ctl/internal/platform/net"
	"github.com/ManuGH/e2ctl/internal/platform/httpx"
	"github.com/ManuGH/e2ctl/internal/resilience"
	"github.com/ManuGH/e2ctl/internal/telemetry"
)

const (
	defaultTimeout          = 5 * time.Second
	defaultBreakerThreshold = 3
	defaultBreakerReset     = 30 * time.Second

	maxJSONBody  = 8 << 20
	maxImageBody = 2 << 20

	// RequestIDHeader carries the caller's request id to the receiver.
	RequestIDHeader = "X-Request-ID"
)

// Options configures a Client. Either URL or Host must be set.
type Options struct {
	URL   string // http(s)://host[:port]; wins over Host/Port/HTTPS
	Host  string
	Port  int // 0 omits the port
	HTTPS bool

	Username string
	Password string

	Timeout            time.Duration
	InsecureSkipVerify bool
	Tracing            bool
	HTTPClient         *http.Client // overrides InsecureSkipVerify and Tracing; Timeout still bounds shared status fetches

	Logger *zerolog.Logger

	BreakerThreshold int
	BreakerReset     time.Duration

	// CommandRate throttles powerstate, vol and remotecontrol requests
	// (requests per second, 0 = unlimited).
	CommandRate  float64
	CommandBurst int

	PiconMaxAttempts int
}

// Client talks to one receiver. It is safe for concurrent use.
type Client struct {
	base     string
	username string
	password string

	http    *http.Client
	timeout time.Duration
	log     zerolog.Logger
	breaker *resilience.CircuitBreaker
	limiter *rate.Limiter
	tracer  trace.Tracer

	statusGroup singleflight.Group
	statusSeen  atomic.Bool
	standby     atomic.Bool

	picons *picon.Resolver
}

// New builds a client. It performs no I/O; use Ping to check connectivity.
func New(opts Options) (*Client, error) {
	base, err := baseURL(opts)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = httpx.New(httpx.Options{
			Timeout:            timeout,
			InsecureSkipVerify: opts.InsecureSkipVerify,
			Trace:              opts.Tracing,
		})
	}

	logger := log.WithComponent("openwebif")
	if opts.Logger != nil {
		logger = opts.Logger.With().Str(log.FieldComponent, "openwebif").Logger()
	}
	logger = logger.With().Str(log.FieldBaseURL, platformnet.SanitizeURL(base)).Logger()

	threshold := opts.BreakerThreshold
	if threshold <= 0 {
		threshold = defaultBreakerThreshold
	}
	reset := opts.BreakerReset
	if reset <= 0 {
		reset = defaultBreakerReset
	}

	c := &Client{
		base:     base,
		username: opts.Username,
		password: opts.Password,
		http:     httpClient,
		timeout:  timeout,
		log:      logger,
		breaker: resilience.NewCircuitBreaker("openwebif", threshold, reset,
			resilience.WithFailurePredicate(countsAsOutage),
			resilience.WithPanicRecovery(true)),
		tracer: telemetry.Tracer("e2ctl/openwebif"),
	}
	c.standby.Store(true)

	if opts.CommandRate > 0 {
		burst := opts.CommandBurst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.CommandRate), burst)
	}

	src := piconSource{c: c}
	c.picons = picon.NewResolver(base, src, src, picon.WithMaxAttempts(opts.PiconMaxAttempts))

	return c, nil
}

func baseURL(opts Options) (string, error) {
	if raw := strings.TrimSpace(opts.URL); raw != "" {
		base, err := platformnet.NormalizeBaseURL(raw)
		if err != nil {
			return "", &OWIError{Sentinel: ErrInvalidArgument, Operation: "new", Err: err}
		}
		return base, nil
	}
	if strings.TrimSpace(opts.Host) == "" {
		return "", &OWIError{Sentinel: ErrMissingParam, Operation: "new", Err: errors.New("host or url is required")}
	}
	base, err := BuildBaseURL(opts.Host, opts.Port, opts.HTTPS)
	if err != nil {
		return "", &OWIError{Sentinel: ErrInvalidArgument, Operation: "new", Err: err}
	}
	return base, nil
}

// BuildBaseURL returns http(s)://host[:port]. A zero port is omitted.
func BuildBaseURL(host string, port int, https bool) (string, error) {
	return platformnet.BuildBaseURL(host, port, https)
}

// BaseURL returns the receiver base URL without trailing slash.
func (c *Client) BaseURL() string {
	return c.base
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

func (c *Client) endpoint(path string, query url.Values) string {
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}

// getJSON issues a GET against the receiver API and decodes the JSON body.
func (c *Client) getJSON(ctx context.Context, operation, target string, out any) error {
	body, err := c.get(ctx, operation, target, maxJSONBody)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		logger := log.WithContext(ctx, c.log)
		logger.Error().Err(err).
			Str(log.FieldEvent, "openwebif.decode").
			Str(log.FieldOperation, operation).
			Msg("failed to decode response")
		return decodeError(operation, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, operation, target string, limit int64) ([]byte, error) {
	var body []byte
	err := c.do(ctx, operation, http.MethodGet, target, func(resp *http.Response) error {
		data, readErr := io.ReadAll(io.LimitReader(resp.Body, limit))
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return wrapError(operation, nil, resp.StatusCode, data)
		}
		if readErr != nil {
			return wrapError(operation, readErr, 0, nil)
		}
		body = data
		return nil
	})
	return body, err
}

// do sends one request through the breaker. handle inspects the response
// and returns the error the breaker should see.
func (c *Client) do(ctx context.Context, operation, method, target string, handle func(*http.Response) error) error {
	sanitized := platformnet.SanitizeURL(target)
	ctx, span := c.tracer.Start(ctx, "openwebif."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(telemetry.DeviceAttributes(operation, method, sanitized)...))
	defer span.End()

	start := time.Now()
	status := 0

	err := c.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, method, target, nil)
		if err != nil {
			return &OWIError{Sentinel: ErrInvalidArgument, Operation: operation, Err: err}
		}
		c.applyHeaders(ctx, req)

		resp, err := c.http.Do(req)
		if err != nil {
			return wrapError(operation, err, 0, nil)
		}
		defer func() { _ = resp.Body.Close() }()

		status = resp.StatusCode
		return handle(resp)
	})
	if err != nil && !errors.As(err, new(*OWIError)) {
		// Only the breaker itself returns bare errors here.
		err = wrapError(operation, err, 0, nil)
	}

	elapsed := time.Since(start)
	metrics.ObserveDeviceRequest(operation, err, elapsed)

	if status > 0 {
		span.SetAttributes(attribute.Int(telemetry.HTTPStatusCodeKey, status))
	}

	logger := log.WithContext(ctx, c.log)
	if err != nil {
		span.SetAttributes(telemetry.ErrorAttributes(ErrorKind(err))...)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		evt := logger.Debug()
		if IsAuthFailure(err) {
			evt = logger.Warn()
		}
		evt.Err(err).
			Str(log.FieldOperation, operation).
			Str(log.FieldURL, sanitized).
			Int(log.FieldStatus, status).
			Int64(log.FieldDurationMS, elapsed.Milliseconds()).
			Msg("receiver request failed")
		return err
	}

	span.SetStatus(codes.Ok, "")
	logger.Debug().
		Str(log.FieldOperation, operation).
		Str(log.FieldURL, sanitized).
		Int(log.FieldStatus, status).
		Int64(log.FieldDurationMS, elapsed.Milliseconds()).
		Msg("receiver request")
	return nil
}

func (c *Client) applyHeaders(ctx context.Context, req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	if rid := log.RequestIDFromContext(ctx); rid != "" {
		req.Header.Set(RequestIDHeader, rid)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}

// waitCommand applies the command rate limit.
func (c *Client) waitCommand(ctx context.Context, operation string) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		// Wait fails only when ctx ends before a token is available.
		return &OWIError{Sentinel: ErrTimeout, Operation: operation, Err: err}
	}
	return nil
}
