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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_AddNode_Idempotent(t *testing.T) {
	b := NewBuilder()

	require.NoError(t, b.AddNode("Zebra"))
	require.NoError(t, b.AddNode("Zebra"))
	require.NoError(t, b.AddNode("Africa"))

	stats := b.Stats()
	assert.Equal(t, 2, stats.NodesAdded)
	assert.Equal(t, 1, stats.DuplicateNodes)

	g, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 2, g.NodeCount())
}

func TestBuilder_AddNode_Strict(t *testing.T) {
	b := NewBuilder(WithStrictNodes())

	require.NoError(t, b.AddNode("Zebra"))
	err := b.AddNode("Zebra")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateNode))
	assert.Contains(t, err.Error(), "Zebra")
}

func TestBuilder_AddNode_Empty(t *testing.T) {
	b := NewBuilder()
	assert.ErrorIs(t, b.AddNode(""), ErrEmptyNodeID)
}

func TestBuilder_AddNode_MaxNodes(t *testing.T) {
	b := NewBuilder(WithMaxNodes(2))

	require.NoError(t, b.AddNode("A"))
	require.NoError(t, b.AddNode("B"))
	assert.ErrorIs(t, b.AddNode("C"), ErrMaxNodesExceeded)

	// A repeat of an existing node is not a new node.
	assert.NoError(t, b.AddNode("A"))
}

func TestBuilder_AddDirectedEdge_UnknownNode(t *testing.T) {
	tests := []struct {
		name   string
		source string
		target string
		want   string
	}{
		{"unknown source", "Ghost", "A", "source Ghost"},
		{"unknown target", "A", "Ghost", "target Ghost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			require.NoError(t, b.AddNode("A"))

			err := b.AddDirectedEdge(tt.source, tt.target)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnknownNode)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuilder_AddDirectedEdge_ParallelEdgesKept(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddNode("A"))
	require.NoError(t, b.AddNode("B"))
	require.NoError(t, b.AddDirectedEdge("A", "B"))
	require.NoError(t, b.AddDirectedEdge("A", "B"))

	g, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "B"}, g.Successors("A"))
	assert.Equal(t, 2, g.EdgeCount())
}

func TestBuilder_AddDirectedEdge_MaxEdges(t *testing.T) {
	b := NewBuilder(WithMaxEdges(1))
	require.NoError(t, b.AddNode("A"))
	require.NoError(t, b.AddNode("B"))
	require.NoError(t, b.AddDirectedEdge("A", "B"))
	assert.ErrorIs(t, b.AddDirectedEdge("B", "A"), ErrMaxEdgesExceeded)
}

func TestBuilder_Build_Finalizes(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddNode("A"))

	g, err := b.Build()
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.NotZero(t, g.BuiltAtMilli)

	assert.ErrorIs(t, b.AddNode("B"), ErrGraphFinalized)
	assert.ErrorIs(t, b.AddDirectedEdge("A", "A"), ErrGraphFinalized)

	_, err = b.Build()
	assert.ErrorIs(t, err, ErrGraphFinalized)

	// The finalized graph is unaffected by the rejected calls.
	assert.Equal(t, 1, g.NodeCount())
	assert.False(t, g.HasNode("B"))
}

func TestGraph_Successors_Order(t *testing.T) {
	g := mustBuild(t,
		[]string{"A", "B", "C", "D"},
		[]Edge{{"A", "C"}, {"A", "B"}, {"A", "D"}},
	)

	assert.Equal(t, []string{"C", "B", "D"}, g.Successors("A"))
	assert.Empty(t, g.Successors("B"))
	assert.Empty(t, g.Successors("Ghost"))
}

func TestGraph_Nodes(t *testing.T) {
	g := mustBuild(t, []string{"Zebra", "Africa", "Mammal"}, nil)

	assert.ElementsMatch(t, []string{"Africa", "Mammal", "Zebra"}, g.Nodes())
	assert.Equal(t, []string{"Africa", "Mammal", "Zebra"}, g.SortedNodes())
}

func TestGraph_Stats(t *testing.T) {
	g := mustBuild(t,
		[]string{"A", "B", "C"},
		[]Edge{{"A", "B"}, {"A", "C"}, {"B", "C"}},
	)

	stats := g.Stats()
	assert.Equal(t, 3, stats.NodeCount)
	assert.Equal(t, 3, stats.EdgeCount)
	assert.Equal(t, 1, stats.SinkCount)
	assert.Equal(t, 2, stats.MaxOutDegree)
	assert.Equal(t, 3, stats.Build.NodesAdded)
}

func TestBuildFrom_EdgeError(t *testing.T) {
	_, err := BuildFrom(context.Background(),
		[]string{"A", "B"},
		[]Edge{{"A", "B"}, {"B", "Ghost"}},
	)
	require.Error(t, err)

	var edgeErr *EdgeError
	require.True(t, errors.As(err, &edgeErr))
	assert.Equal(t, 1, edgeErr.Index)
	assert.Equal(t, "Ghost", edgeErr.Target)
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestBuildFrom_StrictDuplicate(t *testing.T) {
	_, err := BuildFrom(context.Background(), []string{"A", "A"}, nil, WithStrictNodes())
	assert.ErrorIs(t, err, ErrDuplicateNode)
}

// mustBuild builds a graph from ids and edges or fails the test.
func mustBuild(t *testing.T, ids []string, edges []Edge) *Graph {
	t.Helper()
	g, err := BuildFrom(context.Background(), ids, edges)
	require.NoError(t, err)
	return g
}
