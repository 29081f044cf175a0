// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package wayfinder provides the query service over one loaded topic graph.
//
// The service owns the built graph and its resolver and exposes them to
// the CLI and to the HTTP API registered by RegisterRoutes.
package wayfinder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/AleutianAI/wayfinder/services/wayfinder/dataset"
	"github.com/AleutianAI/wayfinder/services/wayfinder/graph"
	"github.com/AleutianAI/wayfinder/services/wayfinder/resolve"
)

// ServiceConfig configures the query service.
type ServiceConfig struct {
	// ShortListSize is the number of suggestions offered per query.
	// Default: 5
	ShortListSize int

	// Logger receives install events. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		ShortListSize: resolve.DefaultShortListSize,
	}
}

// snapshot is one installed graph with everything derived from it.
type snapshot struct {
	dataset  *dataset.Dataset
	graph    *graph.Graph
	resolver *resolve.Resolver
}

// Service answers path and resolution queries.
//
// Thread Safety:
//
//	Service is safe for concurrent use. Install swaps the whole snapshot
//	under a lock; queries read an immutable snapshot.
type Service struct {
	config  ServiceConfig
	logger  *slog.Logger
	mu      sync.RWMutex
	current *snapshot
}

// NewService creates a service with no graph installed.
func NewService(config ServiceConfig) *Service {
	if config.ShortListSize < 1 {
		config.ShortListSize = resolve.DefaultShortListSize
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{config: config, logger: logger}
}

// Install makes g the graph answered by every later query.
//
// Description:
//
//	Builds the resolver over g's node identifiers and swaps it in with
//	the graph. ds may be nil when the graph was not built from a dataset.
//
// Inputs:
//
//	ds - The dataset g was built from, for stats. May be nil.
//	g - The finalized graph. Must not be nil.
func (s *Service) Install(ds *dataset.Dataset, g *graph.Graph) {
	snap := &snapshot{
		dataset:  ds,
		graph:    g,
		resolver: resolve.New(g.Nodes(), resolve.WithShortListSize(s.config.ShortListSize)),
	}

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	s.logger.Info("Graph installed",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount())
}

// Ready reports whether a graph is installed.
func (s *Service) Ready() bool {
	_, err := s.snapshot()
	return err == nil
}

func (s *Service) snapshot() (*snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNotReady
	}
	return s.current, nil
}

// Graph returns the installed graph.
func (s *Service) Graph() (*graph.Graph, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.graph, nil
}

// Stats summarizes the installed graph and its dataset.
func (s *Service) Stats() (StatsResponse, error) {
	snap, err := s.snapshot()
	if err != nil {
		return StatsResponse{}, err
	}

	resp := StatsResponse{
		Graph:         snap.graph.Stats(),
		ShortListSize: snap.resolver.ShortListSize(),
	}
	if snap.dataset != nil {
		resp.Source = snap.dataset.Source
		resp.Fingerprint = snap.dataset.Fingerprint
		resp.LoadedAt = snap.dataset.LoadedAt
	}
	return resp, nil
}

// Match ranks query against every node.
func (s *Service) Match(query string) (resolve.Match, error) {
	snap, err := s.snapshot()
	if err != nil {
		return resolve.Match{}, err
	}
	if strings.TrimSpace(query) == "" {
		return resolve.Match{}, ErrEmptyQuery
	}
	return snap.resolver.Match(query), nil
}

// Resolve ranks query and applies an optional selection.
//
// Description:
//
//	choice 0 ranks only: the Resolution is set only for an exact match.
//	A positive choice is applied to the short list with the same rules
//	as an interactive prompt, including the "none" index.
//
// Outputs:
//
//	ResolveResponse - The ranking and, when decided, the resolution.
//	error - ErrNotReady, ErrEmptyQuery or resolve.ErrInvalidSelection.
func (s *Service) Resolve(query string, choice int) (ResolveResponse, error) {
	snap, err := s.snapshot()
	if err != nil {
		return ResolveResponse{}, err
	}
	if strings.TrimSpace(query) == "" {
		return ResolveResponse{}, ErrEmptyQuery
	}

	m := snap.resolver.Match(query)
	resp := ResolveResponse{Match: m}
	if !m.Exact && choice == 0 {
		return resp, nil
	}

	res, err := snap.resolver.Select(m, choice)
	if err != nil {
		return resp, err
	}
	resp.Resolution = &res
	return resp, nil
}

// ResolveWith resolves query, asking chooser when there is no exact match.
func (s *Service) ResolveWith(ctx context.Context, query string, chooser resolve.Chooser) (resolve.Resolution, error) {
	snap, err := s.snapshot()
	if err != nil {
		return resolve.Resolution{}, err
	}
	return snap.resolver.Resolve(ctx, query, chooser)
}

// Lookup returns input when it names a node exactly.
//
// Otherwise it returns a *NodeNotFoundError carrying the short list.
func (s *Service) Lookup(input string) (string, error) {
	snap, err := s.snapshot()
	if err != nil {
		return "", err
	}
	return snap.lookup(input)
}

func (snap *snapshot) lookup(input string) (string, error) {
	if snap.graph.HasNode(input) {
		return input, nil
	}
	m := snap.resolver.Match(input)
	return "", &NodeNotFoundError{Input: input, Suggestions: m.ShortList}
}

// ShortestPath finds the shortest path between two exact node identifiers.
//
// Description:
//
//	Both endpoints are checked against the same installed graph the
//	search runs on, so an unknown name is reported with suggestions
//	instead of as "no path". Two known
//	nodes with no route between them give a PathResult with Found false.
//
// Inputs:
//
//	ctx - Carries the trace context.
//	from - Starting node identifier.
//	to - Target node identifier.
//
// Outputs:
//
//	graph.PathResult - The search outcome.
//	error - ErrNotReady or *NodeNotFoundError.
func (s *Service) ShortestPath(ctx context.Context, from, to string) (graph.PathResult, error) {
	snap, err := s.snapshot()
	if err != nil {
		return graph.PathResult{}, err
	}
	for _, id := range []string{from, to} {
		if _, err := snap.lookup(id); err != nil {
			return graph.PathResult{}, fmt.Errorf("lookup: %w", err)
		}
	}
	return snap.graph.ShortestPath(ctx, from, to), nil
}
