// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Picon lookup outcomes.
const (
	PiconCacheHit = "cache_hit"
	PiconProbeHit = "probe_hit"
	PiconMiss     = "miss"
	PiconError    = "error"
)

var piconLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "e2ctl_picon_lookups_total",
	Help: "Picon URL resolutions by outcome",
}, []string{"outcome"})

// RecordPiconLookup counts one picon resolution.
func RecordPiconLookup(outcome string) {
	piconLookupsTotal.WithLabelValues(outcome).Inc()
}
