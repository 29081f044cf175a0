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
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// BuildFrom constructs a graph from decoded node identifiers and edges.
//
// Description:
//
//	Registers every id, then adds every edge in order, then finalizes.
//	Construction errors are fatal: the first failing node or edge aborts
//	the build and no graph is returned.
//
// Inputs:
//
//	ctx - Carries the trace context for the build span.
//	ids - Node identifiers. Repeats follow the builder's node policy.
//	edges - Directed links. Both endpoints must appear in ids.
//	opts - Builder options.
//
// Outputs:
//
//	*Graph - The immutable graph.
//	error - Non-nil on the first construction failure. Edge failures are
//	        reported as *EdgeError wrapping the sentinel.
func BuildFrom(ctx context.Context, ids []string, edges []Edge, opts ...BuilderOption) (*Graph, error) {
	ctx, span := startBuildSpan(ctx, len(ids), len(edges))
	defer span.End()
	start := time.Now()

	fail := func(err error) (*Graph, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		recordBuildMetrics(ctx, time.Since(start), false)
		return nil, err
	}

	b := NewBuilder(opts...)
	for _, id := range ids {
		if err := b.AddNode(id); err != nil {
			return fail(fmt.Errorf("add node %q: %w", id, err))
		}
	}

	for i, e := range edges {
		if err := b.AddDirectedEdge(e.Source, e.Target); err != nil {
			return fail(&EdgeError{Source: e.Source, Target: e.Target, Index: i, Err: err})
		}
	}

	g, err := b.Build()
	if err != nil {
		return fail(err)
	}

	stats := b.Stats()
	span.SetAttributes(
		attribute.Int("graph.node_count", stats.NodesAdded),
		attribute.Int("graph.edge_count", stats.EdgesAdded),
		attribute.Int("graph.duplicate_nodes", stats.DuplicateNodes),
	)
	recordBuildMetrics(ctx, time.Since(start), true)
	return g, nil
}
