// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"strings"
	"time"

	"github.com/ManuGH/e2ctl/internal/telemetry"
	"github.com/ManuGH/e2ctl/internal/validate"
)

// Validate validates an AppConfig using the centralized validation package.
// The receiver address stays optional so commands that never contact the
// receiver (version, help) work without one.
func Validate(cfg AppConfig) error {
	v := validate.New()

	r := cfg.Receiver
	if strings.TrimSpace(r.URL) != "" {
		v.URL("Receiver.URL", r.URL, []string{"http", "https"})
	}
	if r.Port != 0 {
		v.Port("Receiver.Port", r.Port)
	}
	if r.Password != "" && r.Username == "" {
		v.AddError("Receiver.Username", "password is set without a username", "")
	}
	v.DurationRange("Receiver.Timeout", r.Timeout, 100*time.Millisecond, 5*time.Minute)

	c := cfg.Client
	v.FloatRange("Client.CommandRate", c.CommandRate, 0, 1000)
	if c.CommandRate > 0 {
		v.Positive("Client.CommandBurst", c.CommandBurst)
	} else {
		v.NonNegative("Client.CommandBurst", c.CommandBurst)
	}
	v.Positive("Client.BreakerThreshold", c.BreakerThreshold)
	v.DurationRange("Client.BreakerReset", c.BreakerReset, time.Second, time.Hour)

	v.Range("Picon.MaxAttempts", cfg.Picon.MaxAttempts, 1, 20)

	v.Custom("LogLevel", cfg.LogLevel, func(value any) error {
		_, err := validate.ParseLogLevel(value.(string))
		return err
	})

	if t := cfg.Telemetry; t.Enabled {
		v.OneOf("Telemetry.Exporter", t.Exporter, []string{telemetry.ExporterGRPC, telemetry.ExporterHTTP})
		v.NotEmpty("Telemetry.Endpoint", t.Endpoint)
		v.FloatRange("Telemetry.SamplingRate", t.SamplingRate, 0, 1)
	}

	return v.Err()
}
