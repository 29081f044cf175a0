// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry wires OpenTelemetry for wayfinder.
//
// Packages instrument themselves with otel.Tracer and otel.Meter. Init
// installs the global providers those calls resolve to, so the exporter
// choice is configuration, never code.
//
// # Exporters
//
//   - Traces: "otlp" (gRPC), "stdout", or "none".
//   - Metrics: "prometheus" (served by MetricsHandler), "stdout", or "none".
//
// # Usage
//
//	shutdown, err := telemetry.Init(ctx, cfg)
//	if err != nil {
//	    return fmt.Errorf("init telemetry: %w", err)
//	}
//	defer shutdown(context.Background())
package telemetry

import "errors"

var (
	// ErrNilContext indicates a nil context.Context was passed.
	ErrNilContext = errors.New("context must not be nil")

	// ErrUnknownExporter indicates an exporter name Init does not support.
	ErrUnknownExporter = errors.New("unknown exporter")
)
