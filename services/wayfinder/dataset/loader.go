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
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/AleutianAI/wayfinder/services/wayfinder/graph"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("wayfinder.dataset")

// Cache stores decoded datasets by fingerprint.
type Cache interface {
	Get(ctx context.Context, fingerprint string) (*Dataset, bool, error)
	Put(ctx context.Context, ds *Dataset) error
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the loader's logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithCache enables snapshot lookups before decoding.
func WithCache(c Cache) LoaderOption {
	return func(l *Loader) {
		l.cache = c
	}
}

// WithFiles overrides the article and link table names.
func WithFiles(articles, links string) LoaderOption {
	return func(l *Loader) {
		if articles != "" {
			l.articlesFile = articles
		}
		if links != "" {
			l.linksFile = links
		}
	}
}

// Loader decodes datasets from a Source.
type Loader struct {
	logger       *slog.Logger
	cache        Cache
	articlesFile string
	linksFile    string
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		logger:       slog.Default(),
		articlesFile: ArticlesFile,
		linksFile:    LinksFile,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and decodes both tables from src.
//
// # Description
//
// Fingerprints the tables first. With a cache configured, a hit returns
// the cached dataset without reading the tables. On a miss the article
// and link tables are decoded concurrently and the result is stored.
// Cache failures are logged and never fail the load.
//
// # Outputs
//
//   - *Dataset: Decoded titles and links in file order.
//   - error: Non-nil if a table cannot be read or holds a malformed row.
func (l *Loader) Load(ctx context.Context, src Source) (*Dataset, error) {
	ctx, span := tracer.Start(ctx, "Loader.Load")
	defer span.End()
	span.SetAttributes(attribute.String("dataset.source", src.String()))

	fail := func(err error) (*Dataset, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	fingerprint, err := src.Fingerprint(ctx, l.articlesFile, l.linksFile)
	if err != nil {
		return fail(fmt.Errorf("fingerprint %s: %w", src, err))
	}

	if l.cache != nil {
		cached, ok, err := l.cache.Get(ctx, fingerprint)
		switch {
		case err != nil:
			l.logger.Warn("snapshot lookup failed", "fingerprint", fingerprint, "error", err)
		case ok:
			l.logger.Info("loaded dataset from snapshot",
				"source", src.String(),
				"articles", len(cached.Articles),
				"links", len(cached.Links))
			span.SetAttributes(attribute.Bool("dataset.snapshot_hit", true))
			return cached, nil
		}
	}

	start := time.Now()
	ds := &Dataset{Source: src.String(), Fingerprint: fingerprint}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return l.read(gCtx, src, l.articlesFile, func(r io.Reader) (err error) {
			ds.Articles, err = ParseArticles(r, l.articlesFile)
			return err
		})
	})
	g.Go(func() error {
		return l.read(gCtx, src, l.linksFile, func(r io.Reader) (err error) {
			ds.Links, err = ParseLinks(r, l.linksFile)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return fail(err)
	}
	ds.LoadedAt = time.Now()

	l.logger.Info("decoded dataset",
		"source", src.String(),
		"articles", len(ds.Articles),
		"links", len(ds.Links),
		"duration", time.Since(start))
	span.SetAttributes(
		attribute.Int("dataset.articles", len(ds.Articles)),
		attribute.Int("dataset.links", len(ds.Links)),
	)

	if l.cache != nil {
		if err := l.cache.Put(ctx, ds); err != nil {
			l.logger.Warn("snapshot store failed", "fingerprint", fingerprint, "error", err)
		}
	}
	return ds, nil
}

func (l *Loader) read(ctx context.Context, src Source, name string, decode func(io.Reader) error) error {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return err
	}
	defer rc.Close()
	return decode(rc)
}

// LoadGraph is a convenience that loads src and builds its graph.
func (l *Loader) LoadGraph(ctx context.Context, src Source, opts ...graph.BuilderOption) (*Dataset, *graph.Graph, error) {
	ds, err := l.Load(ctx, src)
	if err != nil {
		return nil, nil, err
	}
	g, err := ds.Build(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("build graph from %s: %w", src, err)
	}
	return ds, g, nil
}
