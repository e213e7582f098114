// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for receiver spans.
const (
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPURLKey        = "http.url"

	DeviceOperationKey = "device.operation"
	DeviceBaseURLKey   = "device.base_url"

	PiconChannelKey    = "picon.channel"
	PiconServiceRefKey = "picon.service_ref"
	PiconAttemptsKey   = "picon.attempts"
	PiconFoundKey      = "picon.found"

	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// DeviceAttributes describes one receiver API request.
func DeviceAttributes(operation, method, url string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(DeviceOperationKey, operation),
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPURLKey, url),
	}
}

// PiconAttributes describes a picon resolution. Empty inputs are omitted.
func PiconAttributes(channel, serviceRef string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if channel != "" {
		attrs = append(attrs, attribute.String(PiconChannelKey, channel))
	}
	if serviceRef != "" {
		attrs = append(attrs, attribute.String(PiconServiceRefKey, serviceRef))
	}
	return attrs
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
