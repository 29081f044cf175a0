// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dataset

import (
	"context"
	"time"

	"github.com/AleutianAI/wayfinder/services/wayfinder/graph"
)

const (
	// ArticlesFile is the default article table name.
	ArticlesFile = "articles.tsv"

	// LinksFile is the default link table name.
	LinksFile = "links.tsv"
)

// Attribution is the citation shown wherever Wikispeedia data is presented.
const Attribution = `Credit for the dataset:
(1) Robert West and Jure Leskovec:
     Human Wayfinding in Information Networks.
     21st International World Wide Web Conference (WWW), 2012.
(2) Robert West, Joelle Pineau, and Doina Precup:
     Wikispeedia: An Online Game for Inferring Semantic Distances between Concepts.
     21st International Joint Conference on Artificial Intelligence (IJCAI), 2009.`

// Link is one decoded hyperlink.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Dataset holds decoded article titles and links.
type Dataset struct {
	// Source describes where the tables were read from.
	Source string `json:"source"`

	// Fingerprint identifies the exact table contents the dataset came from.
	Fingerprint string `json:"fingerprint"`

	// Articles lists decoded titles in file order.
	Articles []string `json:"articles"`

	// Links lists decoded hyperlinks in file order.
	Links []Link `json:"links"`

	// LoadedAt is when the tables were decoded.
	LoadedAt time.Time `json:"loaded_at"`
}

// Edges converts Links to graph edges.
func (d *Dataset) Edges() []graph.Edge {
	edges := make([]graph.Edge, len(d.Links))
	for i, l := range d.Links {
		edges[i] = graph.Edge{Source: l.Source, Target: l.Target}
	}
	return edges
}

// Build constructs the directed graph for this dataset.
func (d *Dataset) Build(ctx context.Context, opts ...graph.BuilderOption) (*graph.Graph, error) {
	return graph.BuildFrom(ctx, d.Articles, d.Edges(), opts...)
}
