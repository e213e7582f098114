// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package picon

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

const testBase = "http://123.123.123.123"

type fakeStatus struct {
	station string
	ref     string
	err     error
	calls   int
}

func (f *fakeStatus) CurrentService(context.Context) (string, string, error) {
	f.calls++
	return f.station, f.ref, f.err
}

type fakeProber struct {
	mu       sync.Mutex
	existing map[string]bool
	errFor   map[string]error
	calls    []string
}

func (f *fakeProber) Exists(_ context.Context, url string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	if err := f.errFor[url]; err != nil {
		return false, err
	}
	return f.existing[url], nil
}

func newProber(urls ...string) *fakeProber {
	p := &fakeProber{existing: map[string]bool{}, errFor: map[string]error{}}
	for _, u := range urls {
		p.existing[u] = true
	}
	return p
}

func TestResolve_LiveChannel(t *testing.T) {
	status := &fakeStatus{}
	prober := newProber(testBase + "/picon/itv2.png")
	r := NewResolver(testBase, status, prober)

	url, found, err := r.Resolve(context.Background(), "ITV2", "1:0:1:2756:7FC:2:11A0000:0:0:0:")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "http://123.123.123.123/picon/itv2.png", url)
	assert.Equal(t, 0, status.calls, "status must not be fetched when both inputs are given")
	assert.Equal(t, []string{url}, prober.calls)
}

func TestResolve_HDFallback(t *testing.T) {
	prober := newProber(testBase + "/picon/bbcone.png")
	r := NewResolver(testBase, &fakeStatus{}, prober)

	url, found, err := r.Resolve(context.Background(), "BBC ONE HD", "1:0:19:1:2:3:0:0:0:0:")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, testBase+"/picon/bbcone.png", url)
	assert.Equal(t, []string{
		testBase + "/picon/bbconehd.png",
		testBase + "/picon/bbcone.png",
	}, prober.calls)
}

func TestResolve_CacheShortCircuit(t *testing.T) {
	prober := newProber(testBase + "/picon/itv2.png")
	r := NewResolver(testBase, &fakeStatus{}, prober)
	ctx := context.Background()

	first, found, err := r.Resolve(ctx, "ITV2", "1:0:1:0:0:0:0:0:0:0:")
	require.NoError(t, err)
	require.True(t, found)

	second, found, err := r.Resolve(ctx, "ITV2", "1:0:1:0:0:0:0:0:0:0:")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, first, second)
	assert.Len(t, prober.calls, 1, "confirmed URL must not be probed again")
}

func TestResolve_InjectedCacheIsConsulted(t *testing.T) {
	cache := NewURLCache()
	cache.Add(testBase + "/picon/itv2.png")
	prober := newProber()
	r := NewResolver(testBase, &fakeStatus{}, prober, WithCache(cache))

	url, found, err := r.Resolve(context.Background(), "ITV2", "1:0:1:0:0:0:0:0:0:0:")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, testBase+"/picon/itv2.png", url)
	assert.Empty(t, prober.calls)
	assert.Same(t, cache, r.Cache())
}

func TestResolve_Recording(t *testing.T) {
	prober := newProber(testBase + RecordingPath)
	r := NewResolver(testBase, &fakeStatus{}, prober)

	url, found, err := r.Resolve(context.Background(), "Some Channel HD", "1:0:0:0:0:0:0:0:0:0:/media/hdd/movie/x.ts")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "http://123.123.123.123/lcd4linux/dpf.png", url)
	assert.Equal(t, []string{testBase + RecordingPath}, prober.calls)
}

func TestResolve_RecordingMissDoesNotFallBack(t *testing.T) {
	prober := newProber()
	r := NewResolver(testBase, &fakeStatus{}, prober)

	url, found, err := r.Resolve(context.Background(), "Movie HD", "1:0:0:0:0:0:0:0:0:0:/media/hdd/movie/x.ts")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, url)
	assert.Equal(t, []string{testBase + RecordingPath}, prober.calls)
}

func TestResolve_NothingPlaying(t *testing.T) {
	status := &fakeStatus{}
	prober := newProber()
	r := NewResolver(testBase, status, prober)

	url, found, err := r.Resolve(context.Background(), "", "")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, url)
	assert.Equal(t, 1, status.calls)
	assert.Empty(t, prober.calls)
}

func TestResolve_StatusFetchedOnce(t *testing.T) {
	status := &fakeStatus{station: "ITV2", ref: "1:0:1:2756:7FC:2:11A0000:0:0:0:"}
	prober := newProber(testBase + "/picon/itv2.png")
	r := NewResolver(testBase, status, prober)

	url, found, err := r.Resolve(context.Background(), "", "")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, testBase+"/picon/itv2.png", url)
	assert.Equal(t, 1, status.calls)
}

func TestResolve_ServiceRefFromStatus(t *testing.T) {
	status := &fakeStatus{station: "Other", ref: "1:0:0:0:0:0:0:0:0:0:/media/hdd/movie/rec.ts"}
	prober := newProber(testBase + RecordingPath)
	r := NewResolver(testBase, status, prober)

	url, found, err := r.Resolve(context.Background(), "ITV2", "")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, testBase+RecordingPath, url)
	assert.Equal(t, 1, status.calls)
}

func TestResolve_MissingServiceRefTreatedAsLive(t *testing.T) {
	status := &fakeStatus{station: "ITV2"}
	prober := newProber(testBase + "/picon/itv2.png")
	r := NewResolver(testBase, status, prober)

	url, found, err := r.Resolve(context.Background(), "", "")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, testBase+"/picon/itv2.png", url)
}

func TestResolve_StatusErrorPropagates(t *testing.T) {
	boom := errors.New("connection refused")
	r := NewResolver(testBase, &fakeStatus{err: boom}, newProber())

	_, found, err := r.Resolve(context.Background(), "", "")
	assert.ErrorIs(t, err, boom)
	assert.False(t, found)
}

func TestResolve_ProbeErrorIsNotAMiss(t *testing.T) {
	boom := errors.New("timeout")
	prober := newProber()
	prober.errFor[testBase+"/picon/bbconehd.png"] = boom
	r := NewResolver(testBase, &fakeStatus{}, prober)

	_, found, err := r.Resolve(context.Background(), "BBC ONE HD", "1:0:19:0:0:0:0:0:0:0:")
	assert.ErrorIs(t, err, boom)
	assert.False(t, found)
	assert.Len(t, prober.calls, 1, "no fallback after a transport failure")
}

func TestResolve_MaxAttemptsBoundsPathologicalNames(t *testing.T) {
	prober := newProber()
	r := NewResolver(testBase, &fakeStatus{}, prober, WithMaxAttempts(3))

	_, found, err := r.Resolve(context.Background(), "XHDHDHDHDHD", "1:0:1:0:0:0:0:0:0:0:")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, []string{
		testBase + "/picon/xhdhdhdhdhd.png",
		testBase + "/picon/xhdhdhdhd.png",
		testBase + "/picon/xhdhdhd.png",
	}, prober.calls)
}

func TestResolve_MissAfterSingleFallback(t *testing.T) {
	prober := newProber()
	r := NewResolver(testBase, &fakeStatus{}, prober)

	_, found, err := r.Resolve(context.Background(), "A.HD", "1:0:1:0:0:0:0:0:0:0:")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, []string{
		testBase + "/picon/ahd.png",
		testBase + "/picon/a.png",
	}, prober.calls)
}

func TestResolve_TrailingSlashBase(t *testing.T) {
	prober := newProber(testBase + "/picon/itv2.png")
	r := NewResolver(testBase+"/", &fakeStatus{}, prober)

	url, found, err := r.Resolve(context.Background(), "ITV2", "1:0:1:0:0:0:0:0:0:0:")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, testBase+"/picon/itv2.png", url)
}

func recordSpans(t *testing.T, r *Resolver) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	r.tracer = tp.Tracer("test")
	return sr
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestResolve_SpanNamesFailedStep(t *testing.T) {
	tests := []struct {
		name     string
		status   *fakeStatus
		prober   *fakeProber
		channel  string
		wantStep string
	}{
		{
			name:     "status",
			status:   &fakeStatus{err: errors.New("connection refused")},
			prober:   newProber(),
			wantStep: stepStatus,
		},
		{
			name:   "probe",
			status: &fakeStatus{},
			prober: &fakeProber{
				existing: map[string]bool{},
				errFor:   map[string]error{testBase + "/picon/itv2.png": errors.New("401")},
			},
			channel:  "ITV2",
			wantStep: stepProbe,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(testBase, tt.status, tt.prober)
			sr := recordSpans(t, r)

			_, _, err := r.Resolve(context.Background(), tt.channel, "1:0:1:0:0:0:0:0:0:0:")
			require.Error(t, err)

			spans := sr.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, codes.Error, spans[0].Status().Code)
			v, ok := spanAttr(spans[0], "error.type")
			require.True(t, ok)
			assert.Equal(t, tt.wantStep, v.AsString())
		})
	}
}

func TestResolve_MissIsNotASpanError(t *testing.T) {
	r := NewResolver(testBase, &fakeStatus{}, newProber())
	sr := recordSpans(t, r)

	_, found, err := r.Resolve(context.Background(), "ITV2", "1:0:1:0:0:0:0:0:0:0:")
	require.NoError(t, err)
	assert.False(t, found)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
	_, ok := spanAttr(spans[0], "error.type")
	assert.False(t, ok)
}
