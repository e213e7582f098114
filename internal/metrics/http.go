// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig bounds scraping of the metrics endpoint.
type RouterConfig struct {
	RequestLimit int
	WindowSize   time.Duration
}

// DefaultRouterConfig allows 60 scrapes per minute per IP.
var DefaultRouterConfig = RouterConfig{RequestLimit: 60, WindowSize: time.Minute}

// NewRouter serves /metrics and /healthz behind a per-IP rate limit.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.RequestLimit <= 0 || cfg.WindowSize <= 0 {
		cfg = DefaultRouterConfig
	}

	r := chi.NewRouter()
	r.Use(httprate.Limit(
		cfg.RequestLimit,
		cfg.WindowSize,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(cfg.WindowSize.Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate_limit_exceeded","detail":"Too many requests. Please try again later."}`))
		}),
	))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	return r
}
