// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mcpToolCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "e2ctl_mcp_tool_calls_total",
		Help: "MCP tool invocations by tool and result",
	}, []string{"tool", "result"})

	mcpToolDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "e2ctl_mcp_tool_duration_seconds",
		Help:    "MCP tool handler latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"tool"})
)

// ObserveToolCall records one MCP tool invocation.
func ObserveToolCall(tool string, failed bool, elapsed time.Duration) {
	result := "ok"
	if failed {
		result = "error"
	}
	mcpToolCallsTotal.WithLabelValues(tool, result).Inc()
	mcpToolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}
