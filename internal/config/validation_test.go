// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() AppConfig {
	var cfg AppConfig
	NewLoader("", "").setDefaults(&cfg)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{"defaults", func(*AppConfig) {}, ""},
		{"https url", func(c *AppConfig) { c.Receiver.URL = "https://box.local:8443" }, ""},
		{"bad url scheme", func(c *AppConfig) { c.Receiver.URL = "rtsp://box.local" }, "Receiver.URL"},
		{"bad port", func(c *AppConfig) { c.Receiver.Port = 70000 }, "Receiver.Port"},
		{"password without user", func(c *AppConfig) { c.Receiver.Password = "pw" }, "Receiver.Username"},
		{"tiny timeout", func(c *AppConfig) { c.Receiver.Timeout = time.Millisecond }, "Receiver.Timeout"},
		{"negative rate", func(c *AppConfig) { c.Client.CommandRate = -1 }, "Client.CommandRate"},
		{"zero burst with rate", func(c *AppConfig) { c.Client.CommandBurst = 0 }, "Client.CommandBurst"},
		{"zero burst unlimited", func(c *AppConfig) {
			c.Client.CommandRate = 0
			c.Client.CommandBurst = 0
		}, ""},
		{"negative burst unlimited", func(c *AppConfig) {
			c.Client.CommandRate = 0
			c.Client.CommandBurst = -1
		}, "Client.CommandBurst"},
		{"upper-case log level", func(c *AppConfig) { c.LogLevel = "DEBUG" }, ""},
		{"zero threshold", func(c *AppConfig) { c.Client.BreakerThreshold = 0 }, "Client.BreakerThreshold"},
		{"attempts out of range", func(c *AppConfig) { c.Picon.MaxAttempts = 0 }, "Picon.MaxAttempts"},
		{"bad log level", func(c *AppConfig) { c.LogLevel = "loud" }, "LogLevel"},
		{"telemetry disabled ignores exporter", func(c *AppConfig) { c.Telemetry.Exporter = "zipkin" }, ""},
		{"telemetry bad exporter", func(c *AppConfig) {
			c.Telemetry.Enabled = true
			c.Telemetry.Exporter = "zipkin"
		}, "Telemetry.Exporter"},
		{"telemetry bad sampling", func(c *AppConfig) {
			c.Telemetry.Enabled = true
			c.Telemetry.SamplingRate = 2
		}, "Telemetry.SamplingRate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}
