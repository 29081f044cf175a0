// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/AleutianAI/wayfinder/cmd/wayfinder/config"
	"github.com/AleutianAI/wayfinder/pkg/logging"
	"github.com/AleutianAI/wayfinder/pkg/ux"
	"github.com/AleutianAI/wayfinder/services/wayfinder"
	"github.com/AleutianAI/wayfinder/services/wayfinder/dataset"
	"github.com/AleutianAI/wayfinder/services/wayfinder/graph"
	"github.com/AleutianAI/wayfinder/services/wayfinder/snapshot"
	"github.com/AleutianAI/wayfinder/services/wayfinder/telemetry"
)

// app holds everything one command invocation needs.
type app struct {
	cfg      config.Config
	logger   *logging.Logger
	store    *snapshot.Store
	svc      *wayfinder.Service
	source   dataset.Source
	errOut   io.Writer
	closers  []func() error
	shutdown func(context.Context) error
}

// newApp loads configuration and starts logging and telemetry.
//
// # Description
//
// Flags in opts override the merged configuration. The snapshot store
// is opened when enabled. Call Close when done, even on error paths
// after a successful return.
//
// # Outputs
//
//   - *app: Ready for loadGraph.
//   - error: A *CommandError with ExitUsage for configuration problems.
func newApp(ctx context.Context, opts *rootOptions, errOut io.Writer) (*app, error) {
	cfg, err := config.Load(config.LoadOptions{Path: opts.configPath, EnvFile: opts.envFile})
	if err != nil {
		return nil, NewCommandError("config", ExitUsage, err)
	}
	opts.apply(&cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, NewCommandError("config", ExitUsage, err)
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, NewCommandError("config", ExitUsage, err)
	}
	logger := logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Log.Dir,
		Service: "wayfinder",
		JSON:    cfg.Log.JSON,
		Output:  errOut,
	})

	a := &app{cfg: cfg, logger: logger, errOut: errOut}

	telCfg := cfg.Telemetry
	telCfg.Writer = errOut
	a.shutdown, err = telemetry.Init(ctx, telCfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	if cfg.Snapshot.Enabled {
		if err := a.openStore(); err != nil {
			a.Close()
			return nil, err
		}
	}

	a.svc = wayfinder.NewService(wayfinder.ServiceConfig{
		ShortListSize: cfg.Resolve.ShortListSize,
		Logger:        logger.Slog(),
	})
	return a, nil
}

// openStore opens the snapshot store at the configured path.
func (a *app) openStore() error {
	if a.store != nil {
		return nil
	}
	snapCfg := snapshot.DefaultConfig(a.cfg.Snapshot.Path)
	snapCfg.TTL = a.cfg.Snapshot.TTL
	snapCfg.Logger = a.logger.Slog()

	store, err := snapshot.Open(snapCfg)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	a.store = store
	a.closers = append(a.closers, store.Close)
	return nil
}

// openSource opens the configured data location.
func (a *app) openSource(ctx context.Context) (dataset.Source, error) {
	if a.source != nil {
		return a.source, nil
	}
	src, closeSrc, err := dataset.OpenSource(ctx, a.cfg.Data.Location, a.cfg.Data.CredentialsFile)
	if err != nil {
		if errors.Is(err, dataset.ErrUnsupportedSource) {
			return nil, NewCommandError("load", ExitUsage, err)
		}
		return nil, err
	}
	a.closers = append(a.closers, closeSrc)
	a.source = src
	return src, nil
}

// loadGraph decodes the dataset, builds the graph and installs it.
//
// A spinner on errOut shows progress.
func (a *app) loadGraph(ctx context.Context) error {
	src, err := a.openSource(ctx)
	if err != nil {
		return err
	}

	loaderOpts := []dataset.LoaderOption{
		dataset.WithLogger(a.logger.Slog()),
		dataset.WithFiles(a.cfg.Data.ArticlesFile, a.cfg.Data.LinksFile),
	}
	if a.store != nil {
		loaderOpts = append(loaderOpts, dataset.WithCache(a.store))
	}
	var buildOpts []graph.BuilderOption
	if a.cfg.Data.StrictNodes {
		buildOpts = append(buildOpts, graph.WithStrictNodes())
	}

	var (
		ds *dataset.Dataset
		g  *graph.Graph
	)
	spin := ux.NewSpinner(a.errOut, "Loading graph from "+src.String())
	spin.Start()
	ds, g, err = dataset.NewLoader(loaderOpts...).LoadGraph(ctx, src, buildOpts...)
	spin.Stop()
	if err != nil {
		return NewCommandError("load", ExitError, err)
	}

	a.svc.Install(ds, g)
	return nil
}

// Close releases the snapshot store, the source and telemetry.
// watchData reloads the graph whenever the local tables change.
//
// Blocks until ctx is canceled. Sources other than a local directory
// are not watched.
func (a *app) watchData(ctx context.Context) error {
	src, err := a.openSource(ctx)
	if err != nil {
		return err
	}
	dir, ok := src.(dataset.DirSource)
	if !ok {
		a.logger.Warn("Dataset watch needs a local directory, not watching", "source", src.String())
		return nil
	}

	w, err := dataset.NewWatcher(dir,
		[]string{a.cfg.Data.ArticlesFile, a.cfg.Data.LinksFile},
		dataset.WithDebounce(a.cfg.Server.WatchDebounce),
		dataset.WithWatchLogger(a.logger.Slog()),
	)
	if err != nil {
		return NewCommandError("serve", ExitError, err)
	}
	a.logger.Info("Watching dataset for changes", "dir", dir.Dir)
	return w.Run(ctx, a.loadGraph)
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	if a.shutdown != nil {
		errs = append(errs, a.shutdown(context.Background()))
	}
	errs = append(errs, a.logger.Close())
	return errors.Join(errs...)
}
