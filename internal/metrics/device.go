// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request results.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	deviceRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "e2ctl_device_requests_total",
		Help: "Requests issued against the receiver's OpenWebif API",
	}, []string{"operation", "result"})

	deviceRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "e2ctl_device_request_duration_seconds",
		Help:    "Latency of receiver API requests",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"operation"})
)

// ObserveDeviceRequest records one receiver API request.
func ObserveDeviceRequest(operation string, err error, elapsed time.Duration) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	deviceRequestsTotal.WithLabelValues(operation, result).Inc()
	deviceRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
