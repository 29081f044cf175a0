// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for graph operations.
var (
	tracer = otel.Tracer("wayfinder.graph")
	meter  = otel.Meter("wayfinder.graph")
)

// Metrics for graph building and path queries.
var (
	buildLatency  metric.Float64Histogram
	buildTotal    metric.Int64Counter
	queryLatency  metric.Float64Histogram
	nodesVisited  metric.Int64Histogram
	pathsReturned metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		buildLatency, err = meter.Float64Histogram(
			"wayfinder_graph_build_duration_seconds",
			metric.WithDescription("Duration of graph build operations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		buildTotal, err = meter.Int64Counter(
			"wayfinder_graph_build_total",
			metric.WithDescription("Total number of graph build operations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		queryLatency, err = meter.Float64Histogram(
			"wayfinder_path_query_duration_seconds",
			metric.WithDescription("Duration of shortest path queries"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		nodesVisited, err = meter.Int64Histogram(
			"wayfinder_path_nodes_visited",
			metric.WithDescription("Nodes dequeued per shortest path query"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		pathsReturned, err = meter.Int64Counter(
			"wayfinder_path_queries_total",
			metric.WithDescription("Shortest path queries by outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordBuildMetrics records metrics for a build operation.
func recordBuildMetrics(ctx context.Context, duration time.Duration, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.Bool("success", success))
	buildLatency.Record(ctx, duration.Seconds(), attrs)
	buildTotal.Add(ctx, 1, attrs)
}

// recordQueryMetrics records metrics for a path query.
func recordQueryMetrics(ctx context.Context, duration time.Duration, visited int, found bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.Bool("found", found))
	queryLatency.Record(ctx, duration.Seconds(), attrs)
	nodesVisited.Record(ctx, int64(visited))
	pathsReturned.Add(ctx, 1, attrs)
}

// startBuildSpan creates a span for a bulk build.
func startBuildSpan(ctx context.Context, nodeCount, edgeCount int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Graph.BuildFrom",
		trace.WithAttributes(
			attribute.Int("graph.input_nodes", nodeCount),
			attribute.Int("graph.input_edges", edgeCount),
		),
	)
}

// startQuerySpan creates a span for a path query.
func startQuerySpan(ctx context.Context, from, to string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Graph.ShortestPath",
		trace.WithAttributes(
			attribute.String("graph.from", from),
			attribute.String("graph.to", to),
		),
	)
}
