// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

// mergeFileConfig overlays the keys present in src onto dst.
func mergeFileConfig(dst *AppConfig, src *FileConfig) {
	if src == nil {
		return
	}
	setString(&dst.LogLevel, src.LogLevel)

	if r := src.Receiver; r != nil {
		setString(&dst.Receiver.URL, r.URL)
		setString(&dst.Receiver.Host, r.Host)
		setPtr(&dst.Receiver.Port, r.Port)
		setPtr(&dst.Receiver.HTTPS, r.HTTPS)
		setString(&dst.Receiver.Username, r.Username)
		setString(&dst.Receiver.Password, r.Password)
		setPtr(&dst.Receiver.VerifyTLS, r.VerifyTLS)
		setPtr(&dst.Receiver.Timeout, r.Timeout)
	}

	if c := src.Client; c != nil {
		setPtr(&dst.Client.CommandRate, c.CommandRate)
		setPtr(&dst.Client.CommandBurst, c.CommandBurst)
		setPtr(&dst.Client.BreakerThreshold, c.BreakerThreshold)
		setPtr(&dst.Client.BreakerReset, c.BreakerReset)
	}

	if p := src.Picon; p != nil {
		setPtr(&dst.Picon.MaxAttempts, p.MaxAttempts)
	}

	if t := src.Telemetry; t != nil {
		setPtr(&dst.Telemetry.Enabled, t.Enabled)
		setString(&dst.Telemetry.Exporter, t.Exporter)
		setString(&dst.Telemetry.Endpoint, t.Endpoint)
		setPtr(&dst.Telemetry.SamplingRate, t.SamplingRate)
	}
}

// setString treats "" as absent.
func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setPtr[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
