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
	"fmt"
	"sort"
	"time"
)

// Default configuration values.
const (
	// DefaultMaxNodes is the default maximum number of nodes a graph can hold.
	DefaultMaxNodes = 1_000_000

	// DefaultMaxEdges is the default maximum number of edges a graph can hold.
	DefaultMaxEdges = 10_000_000
)

// Edge is a directed link from Source to Target.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// BuilderOptions configures Builder behavior and limits.
type BuilderOptions struct {
	// MaxNodes is the maximum number of nodes the graph can hold.
	// Default: 1,000,000
	MaxNodes int

	// MaxEdges is the maximum number of edges the graph can hold.
	// Default: 10,000,000
	MaxEdges int

	// StrictNodes makes AddNode return ErrDuplicateNode for a repeated id.
	// Default: false (repeated ids are ignored and counted).
	StrictNodes bool
}

// DefaultBuilderOptions returns sensible defaults for graph construction.
func DefaultBuilderOptions() BuilderOptions {
	return BuilderOptions{
		MaxNodes: DefaultMaxNodes,
		MaxEdges: DefaultMaxEdges,
	}
}

// BuilderOption is a functional option for configuring Builder.
type BuilderOption func(*BuilderOptions)

// WithMaxNodes sets the maximum number of nodes the graph can hold.
func WithMaxNodes(n int) BuilderOption {
	return func(o *BuilderOptions) {
		o.MaxNodes = n
	}
}

// WithMaxEdges sets the maximum number of edges the graph can hold.
func WithMaxEdges(n int) BuilderOption {
	return func(o *BuilderOptions) {
		o.MaxEdges = n
	}
}

// WithStrictNodes rejects duplicate node registrations with ErrDuplicateNode.
func WithStrictNodes() BuilderOption {
	return func(o *BuilderOptions) {
		o.StrictNodes = true
	}
}

// BuildStats contains statistics about a build operation.
type BuildStats struct {
	// NodesAdded is the number of distinct nodes registered.
	NodesAdded int `json:"nodes_added"`

	// DuplicateNodes is the number of repeated AddNode calls that were
	// ignored under the idempotent policy.
	DuplicateNodes int `json:"duplicate_nodes"`

	// EdgesAdded is the number of edges added, parallel edges included.
	EdgesAdded int `json:"edges_added"`

	// DurationMicro is the total build time in microseconds.
	DurationMicro int64 `json:"duration_micro"`
}

// Builder accumulates nodes and edges and produces an immutable Graph.
//
// Node policy:
//
//	AddNode is idempotent by default: the source dataset declares each
//	topic once, and tolerating repeats keeps a messy export from failing
//	the whole build. WithStrictNodes() turns repeats into ErrDuplicateNode.
//
// Thread Safety:
//
//	Builder is NOT safe for concurrent use.
type Builder struct {
	options   BuilderOptions
	succ      map[string][]string
	edgeCount int
	stats     BuildStats
	finalized bool
	startTime time.Time
}

// NewBuilder creates an empty builder.
//
// Example:
//
//	b := NewBuilder(WithMaxNodes(10_000))
//	_ = b.AddNode("Zebra")
//	_ = b.AddNode("Africa")
//	_ = b.AddDirectedEdge("Zebra", "Africa")
//	g, err := b.Build()
func NewBuilder(opts ...BuilderOption) *Builder {
	options := DefaultBuilderOptions()
	for _, opt := range opts {
		opt(&options)
	}

	return &Builder{
		options:   options,
		succ:      make(map[string][]string),
		startTime: time.Now(),
	}
}

// AddNode registers id as a node.
//
// Errors:
//
//	ErrGraphFinalized - Build() was already called
//	ErrEmptyNodeID - id is ""
//	ErrDuplicateNode - id already registered and StrictNodes is set
//	ErrMaxNodesExceeded - builder is at node capacity
func (b *Builder) AddNode(id string) error {
	if b.finalized {
		return ErrGraphFinalized
	}

	if id == "" {
		return ErrEmptyNodeID
	}

	if _, exists := b.succ[id]; exists {
		if b.options.StrictNodes {
			return fmt.Errorf("%w: %s", ErrDuplicateNode, id)
		}
		b.stats.DuplicateNodes++
		return nil
	}

	if len(b.succ) >= b.options.MaxNodes {
		return ErrMaxNodesExceeded
	}

	b.succ[id] = nil
	b.stats.NodesAdded++
	return nil
}

// AddDirectedEdge appends target to the successor sequence of source.
//
// Parallel edges between the same pair are kept; traversal ignores a
// successor after its first visit, so they cost nothing in correctness.
//
// Errors:
//
//	ErrGraphFinalized - Build() was already called
//	ErrUnknownNode - source or target was never registered
//	ErrMaxEdgesExceeded - builder is at edge capacity
func (b *Builder) AddDirectedEdge(source, target string) error {
	if b.finalized {
		return ErrGraphFinalized
	}

	if _, ok := b.succ[source]; !ok {
		return fmt.Errorf("%w: source %s", ErrUnknownNode, source)
	}
	if _, ok := b.succ[target]; !ok {
		return fmt.Errorf("%w: target %s", ErrUnknownNode, target)
	}

	if b.edgeCount >= b.options.MaxEdges {
		return ErrMaxEdgesExceeded
	}

	b.succ[source] = append(b.succ[source], target)
	b.edgeCount++
	b.stats.EdgesAdded++
	return nil
}

// HasNode reports whether id has been registered.
func (b *Builder) HasNode(id string) bool {
	_, ok := b.succ[id]
	return ok
}

// Stats returns the running build statistics.
func (b *Builder) Stats() BuildStats {
	return b.stats
}

// Build finalizes the builder into an immutable Graph.
//
// After Build() returns, AddNode, AddDirectedEdge and Build itself return
// ErrGraphFinalized. The builder hands its adjacency data to the graph
// without copying.
func (b *Builder) Build() (*Graph, error) {
	if b.finalized {
		return nil, ErrGraphFinalized
	}
	b.finalized = true
	b.stats.DurationMicro = time.Since(b.startTime).Microseconds()

	g := &Graph{
		succ:         b.succ,
		edgeCount:    b.edgeCount,
		stats:        b.stats,
		BuiltAtMilli: time.Now().UnixMilli(),
	}
	b.succ = nil
	return g, nil
}

// Graph is the finalized, read-only topic graph.
//
// Thread Safety:
//
//	Graph has no mutating methods and is safe for concurrent readers.
type Graph struct {
	// succ maps node ID to its ordered successors. Every key is a node.
	succ      map[string][]string
	edgeCount int
	stats     BuildStats

	// BuiltAtMilli is the Unix timestamp in milliseconds when Build() ran.
	BuiltAtMilli int64
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.succ)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	return g.edgeCount
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.succ[id]
	return ok
}

// Nodes returns every node identifier in unspecified order.
//
// The returned slice is freshly allocated and may be modified by the caller.
func (g *Graph) Nodes() []string {
	ids := make([]string, 0, len(g.succ))
	for id := range g.succ {
		ids = append(ids, id)
	}
	return ids
}

// SortedNodes returns every node identifier in lexicographic order.
func (g *Graph) SortedNodes() []string {
	ids := g.Nodes()
	sort.Strings(ids)
	return ids
}

// Successors returns the ordered direct successors of id.
//
// The result is empty when id has no outgoing edges or is not a node.
// Callers must not modify the returned slice.
func (g *Graph) Successors(id string) []string {
	return g.succ[id]
}

// GraphStats contains summary statistics about a built graph.
type GraphStats struct {
	NodeCount    int        `json:"node_count"`
	EdgeCount    int        `json:"edge_count"`
	SinkCount    int        `json:"sink_count"`
	MaxOutDegree int        `json:"max_out_degree"`
	Build        BuildStats `json:"build"`
	BuiltAtMilli int64      `json:"built_at_milli"`
}

// Stats returns summary statistics about the graph.
//
// Complexity: O(V).
func (g *Graph) Stats() GraphStats {
	stats := GraphStats{
		NodeCount:    len(g.succ),
		EdgeCount:    g.edgeCount,
		Build:        g.stats,
		BuiltAtMilli: g.BuiltAtMilli,
	}
	for _, out := range g.succ {
		if len(out) == 0 {
			stats.SinkCount++
		}
		if len(out) > stats.MaxOutDegree {
			stats.MaxOutDegree = len(out)
		}
	}
	return stats
}
