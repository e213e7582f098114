// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldCorrelationID = "correlation_id"
	FieldRequestID     = "request_id"
	FieldServiceRef    = "service_ref"
	FieldChannel       = "channel"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldOperation = "operation"

	// Path / URL fields
	FieldPath    = "path"
	FieldURL     = "url"
	FieldBaseURL = "base_url"

	// Result fields
	FieldStatus     = "status"
	FieldDurationMS = "duration_ms"
	FieldAttempt    = "attempt"

	// Tracing fields
	FieldTraceID = "trace_id"
	FieldSpanID  = "span_id"
)
