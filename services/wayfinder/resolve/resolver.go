// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package resolve

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultShortListSize is the number of candidates offered for disambiguation.
const DefaultShortListSize = 5

var tracer = otel.Tracer("wayfinder.resolve")

// Candidate is one ranked identifier.
type Candidate struct {
	ID       string `json:"id"`
	Distance int    `json:"distance"`
}

// Match is the outcome of ranking a query.
//
// When Exact is true, ID holds the matched identifier and no choice is
// needed. Otherwise ShortList holds the best candidates in rank order.
type Match struct {
	Query     string      `json:"query"`
	Exact     bool        `json:"exact"`
	ID        string      `json:"id,omitempty"`
	ShortList []Candidate `json:"short_list,omitempty"`
}

// NoneIndex returns the 1-based selection index meaning "none of these".
func (m Match) NoneIndex() int {
	return len(m.ShortList) + 1
}

// Resolution is the final answer for one query.
type Resolution struct {
	Query    string `json:"query"`
	ID       string `json:"id,omitempty"`
	Resolved bool   `json:"resolved"`
	Exact    bool   `json:"exact"`
}

// Chooser picks one entry from a short list.
//
// Choose returns a 1-based index. Index len(shortList)+1 means the user
// rejected every candidate.
type Chooser interface {
	Choose(ctx context.Context, query string, shortList []Candidate) (int, error)
}

// ChooserFunc adapts a function to the Chooser interface.
type ChooserFunc func(ctx context.Context, query string, shortList []Candidate) (int, error)

// Choose calls f.
func (f ChooserFunc) Choose(ctx context.Context, query string, shortList []Candidate) (int, error) {
	return f(ctx, query, shortList)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithShortListSize sets the maximum short list length.
//
// Values below 1 are ignored.
func WithShortListSize(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.shortListSize = n
		}
	}
}

// Resolver ranks queries against a fixed identifier set.
type Resolver struct {
	ids           []string
	runes         [][]rune
	shortListSize int
}

// New creates a Resolver over ids.
//
// # Description
//
// Copies, sorts and deduplicates ids so ranking is independent of the
// caller's ordering. Each identifier is converted to runes once.
//
// # Inputs
//
//   - ids: Candidate identifiers, typically graph.Graph.Nodes().
//   - opts: Resolver options.
//
// # Outputs
//
//   - *Resolver: Ready for Match and Resolve.
func New(ids []string, opts ...Option) *Resolver {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	r := &Resolver{
		ids:           sorted,
		runes:         make([][]rune, len(sorted)),
		shortListSize: DefaultShortListSize,
	}
	for i, id := range sorted {
		r.runes[i] = []rune(id)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Len returns the number of candidate identifiers.
func (r *Resolver) Len() int {
	return len(r.ids)
}

// ShortListSize returns the configured short list length.
func (r *Resolver) ShortListSize() int {
	return r.shortListSize
}

// Match ranks every identifier against query.
//
// # Description
//
// Candidates are ordered by ascending distance, then by identifier.
// The short list is the first min(ShortListSize, Len) entries; ties that
// fall beyond the cut are dropped. A best distance of 0 yields an exact
// match and no short list.
//
// # Examples
//
//	m := r.Match("Untied States")
//	// m.ShortList[0] == Candidate{ID: "United States", Distance: 2}
func (r *Resolver) Match(query string) Match {
	m := Match{Query: query}
	if len(r.ids) == 0 {
		return m
	}

	q := []rune(query)
	ranked := make([]Candidate, len(r.ids))
	for i, id := range r.ids {
		ranked[i] = Candidate{ID: id, Distance: distanceRunes(q, r.runes[i])}
	}

	slices.SortStableFunc(ranked, func(a, b Candidate) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if ranked[0].Distance == 0 {
		m.Exact = true
		m.ID = ranked[0].ID
		return m
	}

	n := min(r.shortListSize, len(ranked))
	m.ShortList = slices.Clip(ranked[:n])
	return m
}

// Select applies a 1-based selection index to a match.
//
// # Description
//
// Exact matches resolve regardless of index. Indices 1..len(ShortList)
// pick that candidate. NoneIndex() leaves the query unresolved. Any other
// index returns ErrInvalidSelection.
func (r *Resolver) Select(m Match, index int) (Resolution, error) {
	res := Resolution{Query: m.Query}

	if m.Exact {
		res.ID = m.ID
		res.Resolved = true
		res.Exact = true
		return res, nil
	}

	switch {
	case index >= 1 && index <= len(m.ShortList):
		res.ID = m.ShortList[index-1].ID
		res.Resolved = true
		return res, nil
	case index == m.NoneIndex():
		return res, nil
	default:
		return res, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidSelection, index, m.NoneIndex())
	}
}

// Resolve ranks query and, if needed, asks chooser to disambiguate.
//
// # Description
//
// An exact match returns without calling chooser. An empty identifier
// set returns an unresolved result without calling chooser. Otherwise
// chooser is called once with the short list.
//
// # Outputs
//
//   - Resolution: Resolved is false when the user picked "none".
//   - error: From chooser, or ErrInvalidSelection for an out-of-range index.
func (r *Resolver) Resolve(ctx context.Context, query string, chooser Chooser) (Resolution, error) {
	ctx, span := tracer.Start(ctx, "Resolver.Resolve",
		trace.WithAttributes(
			attribute.Int("resolve.candidates", len(r.ids)),
			attribute.Int("resolve.short_list_size", r.shortListSize),
		),
	)
	defer span.End()

	m := r.Match(query)
	span.SetAttributes(attribute.Bool("resolve.exact", m.Exact))

	if m.Exact || len(m.ShortList) == 0 {
		res, _ := r.Select(m, m.NoneIndex())
		return res, nil
	}

	index, err := chooser.Choose(ctx, query, m.ShortList)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chooser failed")
		return Resolution{Query: query}, fmt.Errorf("choose for %q: %w", query, err)
	}

	res, err := r.Select(m, index)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid selection")
		return res, err
	}
	span.SetAttributes(attribute.Bool("resolve.resolved", res.Resolved))
	return res, nil
}
