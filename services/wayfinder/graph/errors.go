// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graph provides the topic link graph and shortest-path search.
//
// The graph is a directed relation over opaque string identifiers (one per
// topic). Edges are hyperlinks from one topic to another.
//
// # Lifecycle
//
// A typical graph lifecycle:
//  1. Create a builder with NewBuilder()
//  2. Register topics with AddNode() and links with AddDirectedEdge()
//  3. Call Build() to obtain an immutable *Graph
//  4. Query with ShortestPath(), Traverse(), Walk(), Successors()
//
// # Thread Safety
//
// Builder is NOT safe for concurrent use. It is designed for a single
// writer during ingestion. The *Graph returned by Build() is read-only and
// may be shared between goroutines without locking.
package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph construction.
var (
	// ErrGraphFinalized is returned when attempting to modify a builder
	// after Build() has been called.
	ErrGraphFinalized = errors.New("graph is finalized and cannot be modified")

	// ErrUnknownNode is returned when an edge references a node that was
	// never registered. Both endpoints must exist before an edge is added.
	ErrUnknownNode = errors.New("unknown node")

	// ErrDuplicateNode is returned when a node is registered twice while the
	// builder runs with the strict node policy (see WithStrictNodes).
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrEmptyNodeID is returned when registering the empty identifier.
	ErrEmptyNodeID = errors.New("node id is empty")

	// ErrMaxNodesExceeded is returned when the builder has reached its
	// configured maximum node capacity.
	ErrMaxNodesExceeded = errors.New("maximum node count exceeded")

	// ErrMaxEdgesExceeded is returned when the builder has reached its
	// configured maximum edge capacity.
	ErrMaxEdgesExceeded = errors.New("maximum edge count exceeded")
)

// EdgeError represents a failure to add a single edge during a bulk build.
//
// A failed edge aborts the build; there is no partial graph.
type EdgeError struct {
	// Source is the source node ID.
	Source string

	// Target is the target node ID.
	Target string

	// Index is the position of the edge in the input slice.
	Index int

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *EdgeError) Error() string {
	return fmt.Sprintf("edge #%d %q -> %q: %v", e.Index, e.Source, e.Target, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *EdgeError) Unwrap() error {
	return e.Err
}
