// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

// Environment keys
const (
	EnvURL               = "E2_URL"
	EnvHost              = "E2_HOST"
	EnvPort              = "E2_PORT"
	EnvHTTPS             = "E2_HTTPS"
	EnvUsername          = "E2_USERNAME"
	EnvPassword          = "E2_PASSWORD"
	EnvTimeout           = "E2_TIMEOUT"
	EnvVerifyTLS         = "E2_VERIFY_TLS"
	EnvCommandRate       = "E2_COMMAND_RATE"
	EnvCommandBurst      = "E2_COMMAND_BURST"
	EnvBreakerThreshold  = "E2_BREAKER_THRESHOLD"
	EnvBreakerReset      = "E2_BREAKER_RESET"
	EnvPiconMaxAttempts  = "E2_PICON_MAX_ATTEMPTS"
	EnvLogLevel          = "LOG_LEVEL"
	EnvTelemetryEnabled  = "E2_TELEMETRY_ENABLED"
	EnvTelemetryExporter = "E2_TELEMETRY_EXPORTER"
	EnvTelemetryEndpoint = "E2_TELEMETRY_ENDPOINT"
	EnvTelemetrySampling = "E2_TELEMETRY_SAMPLING"
)

// mergeEnvConfig merges environment variables into cfg.
// ENV variables have the highest precedence.
func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	l.mergeEnvReceiver(cfg)
	l.mergeEnvClient(cfg)
	l.mergeEnvTelemetry(cfg)
	cfg.LogLevel = l.envString(EnvLogLevel, cfg.LogLevel)
}

func (l *Loader) mergeEnvReceiver(cfg *AppConfig) {
	r := &cfg.Receiver
	r.URL = l.envString(EnvURL, r.URL)
	r.Host = l.envString(EnvHost, r.Host)
	r.Port = l.envInt(EnvPort, r.Port)
	r.HTTPS = l.envBool(EnvHTTPS, r.HTTPS)
	r.Username = l.envString(EnvUsername, r.Username)
	r.Password = l.envString(EnvPassword, r.Password)
	r.Timeout = l.envDuration(EnvTimeout, r.Timeout)
	r.VerifyTLS = l.envBool(EnvVerifyTLS, r.VerifyTLS)
}

func (l *Loader) mergeEnvClient(cfg *AppConfig) {
	c := &cfg.Client
	c.CommandRate = l.envFloat(EnvCommandRate, c.CommandRate)
	c.CommandBurst = l.envInt(EnvCommandBurst, c.CommandBurst)
	c.BreakerThreshold = l.envInt(EnvBreakerThreshold, c.BreakerThreshold)
	c.BreakerReset = l.envDuration(EnvBreakerReset, c.BreakerReset)
	cfg.Picon.MaxAttempts = l.envInt(EnvPiconMaxAttempts, cfg.Picon.MaxAttempts)
}

func (l *Loader) mergeEnvTelemetry(cfg *AppConfig) {
	t := &cfg.Telemetry
	t.Enabled = l.envBool(EnvTelemetryEnabled, t.Enabled)
	t.Exporter = l.envString(EnvTelemetryExporter, t.Exporter)
	t.Endpoint = l.envString(EnvTelemetryEndpoint, t.Endpoint)
	t.SamplingRate = l.envFloat(EnvTelemetrySampling, t.SamplingRate)
}
