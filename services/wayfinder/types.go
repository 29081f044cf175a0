// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package wayfinder

import (
	"time"

	"github.com/AleutianAI/wayfinder/services/wayfinder/graph"
	"github.com/AleutianAI/wayfinder/services/wayfinder/resolve"
)

// ServiceVersion is the wayfinder API version.
const ServiceVersion = "0.1.0"

// HealthResponse is the response for GET /v1/wayfinder/health.
type HealthResponse struct {
	// Status is "healthy" whenever the process is serving.
	Status string `json:"status"`

	// Version is the API version.
	Version string `json:"version"`
}

// ReadyResponse is the response for GET /v1/wayfinder/ready.
type ReadyResponse struct {
	// Ready is true once a graph is installed.
	Ready bool `json:"ready"`

	// NodeCount is the number of nodes in the installed graph.
	NodeCount int `json:"node_count"`
}

// StatsResponse is the response for GET /v1/wayfinder/stats.
type StatsResponse struct {
	// Graph holds node, edge and build statistics.
	Graph graph.GraphStats `json:"graph"`

	// Source describes where the dataset was read from.
	Source string `json:"source"`

	// Fingerprint identifies the dataset contents.
	Fingerprint string `json:"fingerprint"`

	// LoadedAt is when the dataset was decoded.
	LoadedAt time.Time `json:"loaded_at"`

	// ShortListSize is the number of suggestions offered per query.
	ShortListSize int `json:"short_list_size"`
}

// ResolveRequest holds the query parameters for GET /v1/wayfinder/resolve.
type ResolveRequest struct {
	// Query is the free-text topic name.
	Query string `form:"q" binding:"required"`

	// Choice is an optional 1-based short-list selection. Zero means
	// "rank only".
	Choice int `form:"choice" binding:"min=0"`
}

// ResolveResponse is the response for GET /v1/wayfinder/resolve.
type ResolveResponse struct {
	// Match holds the ranking for the query.
	Match resolve.Match `json:"match"`

	// Resolution is set when the query matched exactly or a choice was given.
	Resolution *resolve.Resolution `json:"resolution,omitempty"`
}

// PathRequest holds the query parameters for GET /v1/wayfinder/path.
type PathRequest struct {
	// From is the starting topic. Must match a node exactly.
	From string `form:"from" binding:"required"`

	// To is the target topic. Must match a node exactly.
	To string `form:"to" binding:"required"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is the error code (optional).
	Code string `json:"code,omitempty"`

	// Input is the offending topic name for NODE_NOT_FOUND (optional).
	Input string `json:"input,omitempty"`

	// Suggestions lists the closest topics for NODE_NOT_FOUND (optional).
	Suggestions []resolve.Candidate `json:"suggestions,omitempty"`
}
