// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"io"

	"github.com/ManuGH/e2ctl/internal/log"
	"github.com/ManuGH/e2ctl/internal/openwebif"
	"github.com/ManuGH/e2ctl/internal/telemetry"
)

// ClientOptions maps the configuration onto openwebif.Options. Logger and
// HTTPClient are left for the caller.
func (c AppConfig) ClientOptions() openwebif.Options {
	return openwebif.Options{
		URL:                c.Receiver.URL,
		Host:               c.Receiver.Host,
		Port:               c.Receiver.Port,
		HTTPS:              c.Receiver.HTTPS,
		Username:           c.Receiver.Username,
		Password:           c.Receiver.Password,
		Timeout:            c.Receiver.Timeout,
		InsecureSkipVerify: !c.Receiver.VerifyTLS,
		Tracing:            c.Telemetry.Enabled,
		BreakerThreshold:   c.Client.BreakerThreshold,
		BreakerReset:       c.Client.BreakerReset,
		CommandRate:        c.Client.CommandRate,
		CommandBurst:       c.Client.CommandBurst,
		PiconMaxAttempts:   c.Picon.MaxAttempts,
	}
}

// TelemetryConfig maps the tracing settings onto telemetry.Config.
func (c AppConfig) TelemetryConfig() telemetry.Config {
	return telemetry.Config{
		Enabled:        c.Telemetry.Enabled,
		ServiceName:    "e2ctl",
		ServiceVersion: c.Version,
		ExporterType:   c.Telemetry.Exporter,
		Endpoint:       c.Telemetry.Endpoint,
		SamplingRate:   c.Telemetry.SamplingRate,
	}
}

// LogConfig returns the logger settings writing to out.
func (c AppConfig) LogConfig(out io.Writer) log.Config {
	return log.Config{
		Level:   c.LogLevel,
		Output:  out,
		Service: "e2ctl",
	}
}
