// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package picon

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/e2ctl/internal/metrics"
	"github.com/ManuGH/e2ctl/internal/telemetry"
)

const (
	// RecordingPrefix marks a service reference that points at a recording.
	RecordingPrefix = "1:0:0"

	// RecordingPath is served instead of a channel picon during playback
	// of a recording.
	RecordingPath = "/lcd4linux/dpf.png"

	// DefaultMaxAttempts bounds the candidates tried per resolution.
	DefaultMaxAttempts = 5
)

// StatusFetcher reports what the receiver is currently playing. An empty
// station means nothing is playing.
type StatusFetcher interface {
	CurrentService(ctx context.Context) (station, serviceRef string, err error)
}

// Prober checks whether a URL exists. Transport and authentication
// failures are returned as errors, never as false.
type Prober interface {
	Exists(ctx context.Context, url string) (bool, error)
}

// Resolver computes the picon URL for a channel and verifies it before
// returning it. It is safe for concurrent use when its Cache is.
type Resolver struct {
	baseURL     string
	status      StatusFetcher
	prober      Prober
	cache       Cache
	maxAttempts int
	tracer      trace.Tracer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache injects the verified-URL cache. Defaults to a fresh URLCache.
func WithCache(c Cache) Option {
	return func(r *Resolver) {
		if c != nil {
			r.cache = c
		}
	}
}

// WithMaxAttempts caps the number of candidate URLs per call.
func WithMaxAttempts(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// NewResolver builds a resolver for the receiver at baseURL
// (http(s)://host[:port], no trailing slash).
func NewResolver(baseURL string, status StatusFetcher, prober Prober, opts ...Option) *Resolver {
	r := &Resolver{
		baseURL:     strings.TrimRight(baseURL, "/"),
		status:      status,
		prober:      prober,
		cache:       NewURLCache(),
		maxAttempts: DefaultMaxAttempts,
		tracer:      telemetry.Tracer("e2ctl/picon"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cache returns the resolver's verified-URL cache.
func (r *Resolver) Cache() Cache {
	return r.cache
}

// Resolve returns the picon URL for channelName. Empty arguments are
// looked up from the receiver status, fetched at most once per call.
// found is false when no picon exists; err is set only when the answer
// could not be determined.
func (r *Resolver) Resolve(ctx context.Context, channelName, serviceRef string) (url string, found bool, err error) {
	ctx, span := r.tracer.Start(ctx, "picon.resolve",
		trace.WithAttributes(telemetry.PiconAttributes(channelName, serviceRef)...))
	defer span.End()

	res, err := r.resolve(ctx, channelName, serviceRef)

	metrics.RecordPiconLookup(res.outcome)
	span.SetAttributes(
		attribute.Int(telemetry.PiconAttemptsKey, res.attempts),
		attribute.Bool(telemetry.PiconFoundKey, res.found),
	)
	if err != nil {
		span.SetAttributes(telemetry.ErrorAttributes(res.failedStep)...)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return res.url, res.found, err
}

// Steps that can fail a resolution.
const (
	stepStatus = "status"
	stepProbe  = "probe"
)

type lookup struct {
	url        string
	found      bool
	outcome    string
	attempts   int
	failedStep string
}

func (r *Resolver) resolve(ctx context.Context, channelName, serviceRef string) (lookup, error) {
	var (
		fetched    bool
		currentRef string
	)
	fetch := func() error {
		if fetched {
			return nil
		}
		station, ref, err := r.status.CurrentService(ctx)
		if err != nil {
			return err
		}
		fetched = true
		currentRef = ref
		if channelName == "" {
			channelName = station
		}
		return nil
	}
	statusFailed := lookup{outcome: metrics.PiconError, failedStep: stepStatus}

	if channelName == "" {
		if err := fetch(); err != nil {
			return statusFailed, err
		}
		if channelName == "" {
			return lookup{outcome: metrics.PiconMiss}, nil
		}
	}
	if serviceRef == "" {
		if err := fetch(); err != nil {
			return statusFailed, err
		}
		serviceRef = currentRef
	}

	recording := strings.HasPrefix(serviceRef, RecordingPrefix)
	failed := make(map[string]struct{})
	name := channelName
	attempts := 0

	for attempts < r.maxAttempts {
		attempts++
		candidate := r.candidate(name, recording)

		if r.cache.Contains(candidate) {
			return lookup{url: candidate, found: true, outcome: metrics.PiconCacheHit, attempts: attempts}, nil
		}

		if _, probed := failed[candidate]; !probed {
			ok, err := r.prober.Exists(ctx, candidate)
			if err != nil {
				return lookup{outcome: metrics.PiconError, attempts: attempts, failedStep: stepProbe}, err
			}
			if ok {
				r.cache.Add(candidate)
				return lookup{url: candidate, found: true, outcome: metrics.PiconProbeHit, attempts: attempts}, nil
			}
			failed[candidate] = struct{}{}
		}

		// The recording image does not depend on the name.
		if recording || !hasHDSuffix(name) {
			break
		}
		name = stripHDSuffix(name)
	}

	return lookup{outcome: metrics.PiconMiss, attempts: attempts}, nil
}

func (r *Resolver) candidate(name string, recording bool) string {
	if recording {
		return r.baseURL + RecordingPath
	}
	return r.baseURL + "/picon/" + Key(name) + ".png"
}

func hasHDSuffix(name string) bool {
	return len(name) >= 2 && strings.EqualFold(name[len(name)-2:], "hd")
}

// stripHDSuffix drops the trailing "HD" and all whitespace.
func stripHDSuffix(name string) string {
	return strings.Join(strings.Fields(name[:len(name)-2]), "")
}
