// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// AppConfig is the effective configuration after all layers are merged.
type AppConfig struct {
	Version  string
	LogLevel string

	Receiver  ReceiverConfig
	Client    ClientConfig
	Picon     PiconConfig
	Telemetry TelemetryConfig
}

// ReceiverConfig locates and authenticates the receiver.
type ReceiverConfig struct {
	URL       string
	Host      string
	Port      int
	HTTPS     bool
	Username  string
	Password  string
	VerifyTLS bool
	Timeout   time.Duration
}

// ClientConfig tunes request behaviour.
type ClientConfig struct {
	CommandRate      float64
	CommandBurst     int
	BreakerThreshold int
	BreakerReset     time.Duration
}

// PiconConfig tunes picon resolution.
type PiconConfig struct {
	MaxAttempts int
}

// TelemetryConfig controls OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool
	Exporter     string
	Endpoint     string
	SamplingRate float64
}

// FileConfig is the on-disk YAML layout. Pointer fields distinguish an
// explicit zero from an absent key.
type FileConfig struct {
	LogLevel  string               `yaml:"logLevel,omitempty"`
	Receiver  *ReceiverFileConfig  `yaml:"receiver,omitempty"`
	Client    *ClientFileConfig    `yaml:"client,omitempty"`
	Picon     *PiconFileConfig     `yaml:"picon,omitempty"`
	Telemetry *TelemetryFileConfig `yaml:"telemetry,omitempty"`
}

type ReceiverFileConfig struct {
	URL       string         `yaml:"url,omitempty"`
	Host      string         `yaml:"host,omitempty"`
	Port      *int           `yaml:"port,omitempty"`
	HTTPS     *bool          `yaml:"https,omitempty"`
	Username  string         `yaml:"username,omitempty"`
	Password  string         `yaml:"password,omitempty"`
	VerifyTLS *bool          `yaml:"verifyTLS,omitempty"`
	Timeout   *time.Duration `yaml:"timeout,omitempty"`
}

type ClientFileConfig struct {
	CommandRate      *float64       `yaml:"commandRate,omitempty"`
	CommandBurst     *int           `yaml:"commandBurst,omitempty"`
	BreakerThreshold *int           `yaml:"breakerThreshold,omitempty"`
	BreakerReset     *time.Duration `yaml:"breakerReset,omitempty"`
}

type PiconFileConfig struct {
	MaxAttempts *int `yaml:"maxAttempts,omitempty"`
}

type TelemetryFileConfig struct {
	Enabled      *bool    `yaml:"enabled,omitempty"`
	Exporter     string   `yaml:"exporter,omitempty"`
	Endpoint     string   `yaml:"endpoint,omitempty"`
	SamplingRate *float64 `yaml:"samplingRate,omitempty"`
}
