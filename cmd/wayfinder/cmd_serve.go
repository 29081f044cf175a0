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
	"fmt"
	"net"

	"github.com/AleutianAI/wayfinder/services/wayfinder"
	"github.com/AleutianAI/wayfinder/services/wayfinder/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the path and resolve API over HTTP",
		Long: `Serve the wayfinder HTTP API under /v1/wayfinder.

The listener starts immediately; /v1/wayfinder/ready reports 503 until
the graph has loaded. /metrics is served when the Prometheus exporter
is configured. With --watch, edits to a local dataset rebuild the graph
and swap it in without restarting.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			if cmd.Flags().Changed("watch") {
				a.cfg.Server.Watch = watch
			}
			if a.cfg.Log.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			metrics, err := telemetry.NewMetrics(otel.Meter("wayfinder.http"))
			if err != nil {
				return err
			}
			router := wayfinder.NewRouter(wayfinder.RouterConfig{
				ServiceName: a.cfg.Telemetry.ServiceName,
				RateLimit:   a.cfg.Server.RateLimit,
				RateBurst:   a.cfg.Server.RateBurst,
				Metrics:     metrics,
			}, wayfinder.NewHandlers(a.svc))

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return NewCommandError("serve", ExitError, fmt.Errorf("listen on %s: %w", addr, err))
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return wayfinder.Serve(gctx, ln, router, a.logger.Slog())
			})
			g.Go(func() error {
				if err := a.loadGraph(gctx); err != nil {
					return err
				}
				a.logger.Info("Ready to serve queries", "addr", ln.Addr().String())
				if !a.cfg.Server.Watch {
					return nil
				}
				return a.watchData(gctx)
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, localhost:8080)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload the graph when local dataset files change")
	return cmd
}
