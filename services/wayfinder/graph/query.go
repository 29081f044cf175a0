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
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// PathResult contains the result of a shortest path query.
//
// Found is the only field callers should branch on. Path and Length are
// meaningful only when Found is true.
type PathResult struct {
	// From is the starting node ID.
	From string `json:"from"`

	// To is the target node ID.
	To string `json:"to"`

	// Found is true when a directed path exists.
	Found bool `json:"found"`

	// Path contains node IDs in path order, including From and To.
	// Nil if no path exists.
	Path []string `json:"path,omitempty"`

	// Length is the number of edges in the path.
	// -1 if no path exists.
	Length int `json:"length"`

	// Visited is the number of nodes dequeued by the search.
	Visited int `json:"visited"`
}

// Traversal is the complete outcome of one breadth-first search.
type Traversal struct {
	// Start is the node the search began from.
	Start string

	// Order lists reachable nodes in the order they were dequeued.
	Order []string

	// Parent maps every reached node except Start to the node it was
	// first discovered from.
	Parent map[string]string
}

// Reached reports whether id was reached by the traversal.
func (t *Traversal) Reached(id string) bool {
	if id == t.Start {
		return len(t.Order) > 0
	}
	_, ok := t.Parent[id]
	return ok
}

// PathTo reconstructs the path from Start to target.
//
// Walks Parent backward from target and reverses the collected nodes.
// Returns nil, false when target was not reached.
func (t *Traversal) PathTo(target string) ([]string, bool) {
	if !t.Reached(target) {
		return nil, false
	}

	var reversed []string
	for cur := target; ; {
		reversed = append(reversed, cur)
		if cur == t.Start {
			break
		}
		cur = t.Parent[cur]
	}

	path := make([]string, len(reversed))
	for i, id := range reversed {
		path[len(reversed)-1-i] = id
	}
	return path, true
}

// Walk returns a breadth-first iterator starting at start.
//
// Description:
//
//	Yields (node, parent) pairs in dequeue order. The first pair is
//	(start, ""). Successors are discovered in adjacency order, which fixes
//	tie-breaking between equally short paths: the first discovered wins.
//	Nothing is yielded when start is not a node.
//
// Example:
//
//	for node, parent := range g.Walk("Zebra") {
//	    fmt.Printf("%s <- %s\n", node, parent)
//	}
func (g *Graph) Walk(start string) func(yield func(node, parent string) bool) {
	return func(yield func(node, parent string) bool) {
		if !g.HasNode(start) {
			return
		}

		type queueItem struct {
			node   string
			parent string
		}

		visited := map[string]bool{start: true}
		queue := []queueItem{{node: start}}

		for len(queue) > 0 {
			item := queue[0]
			queue = queue[1:]

			if !yield(item.node, item.parent) {
				return
			}

			for _, next := range g.succ[item.node] {
				if visited[next] {
					continue
				}
				visited[next] = true
				queue = append(queue, queueItem{node: next, parent: item.node})
			}
		}
	}
}

// Traverse runs a full breadth-first search from start.
//
// Returns the visit order and the complete parent map in one value.
// Complexity: O(V + E) time, O(V) space.
func (g *Graph) Traverse(start string) *Traversal {
	t := &Traversal{
		Start:  start,
		Parent: make(map[string]string),
	}
	for node, parent := range g.Walk(start) {
		t.Order = append(t.Order, node)
		if node != start {
			t.Parent[node] = parent
		}
	}
	return t
}

// Distances returns the hop count from start to every reachable node.
//
// start maps to 0. Unreachable nodes are absent.
func (g *Graph) Distances(start string) map[string]int {
	dist := make(map[string]int)
	for node, parent := range g.Walk(start) {
		if node == start {
			dist[node] = 0
			continue
		}
		dist[node] = dist[parent] + 1
	}
	return dist
}

// ShortestPath finds the minimum-edge directed path between two nodes.
//
// Description:
//
//	Runs BFS from fromID and stops as soon as toID is dequeued. If
//	fromID == toID the path is [fromID] and no search runs. An unknown
//	endpoint is reported as "no path", never as an error.
//
// Inputs:
//
//	ctx - Carries the trace context. The search always runs to completion.
//	fromID - Starting node ID
//	toID - Target node ID
//
// Outputs:
//
//	PathResult - Found is false with Length -1 when no path exists.
func (g *Graph) ShortestPath(ctx context.Context, fromID, toID string) PathResult {
	ctx, span := startQuerySpan(ctx, fromID, toID)
	defer span.End()
	start := time.Now()

	result := g.shortestPath(fromID, toID)

	span.SetAttributes(
		attribute.Bool("graph.path_found", result.Found),
		attribute.Int("graph.path_length", result.Length),
		attribute.Int("graph.visited", result.Visited),
	)
	recordQueryMetrics(ctx, time.Since(start), result.Visited, result.Found)
	return result
}

func (g *Graph) shortestPath(fromID, toID string) PathResult {
	result := PathResult{
		From:   fromID,
		To:     toID,
		Length: -1,
	}

	if !g.HasNode(fromID) || !g.HasNode(toID) {
		return result
	}

	if fromID == toID {
		result.Found = true
		result.Path = []string{fromID}
		result.Length = 0
		return result
	}

	t := &Traversal{
		Start:  fromID,
		Parent: make(map[string]string),
	}
	for node, parent := range g.Walk(fromID) {
		result.Visited++
		t.Order = append(t.Order, node)
		if node != fromID {
			t.Parent[node] = parent
		}
		if node == toID {
			break
		}
	}

	if path, ok := t.PathTo(toID); ok {
		result.Found = true
		result.Path = path
		result.Length = len(path) - 1
	}
	return result
}
