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
	"strconv"
	"time"

	"github.com/AleutianAI/wayfinder/pkg/ux"
	"github.com/spf13/cobra"
)

func newStatsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Load the dataset and print graph statistics",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			a, err := newApp(ctx, root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.loadGraph(ctx); err != nil {
				return err
			}
			stats, err := a.svc.Stats()
			if err != nil {
				return err
			}

			if root.jsonOutput {
				return writeJSON(out, stats)
			}

			fingerprint := stats.Fingerprint
			if len(fingerprint) > 12 {
				fingerprint = fingerprint[:12]
			}
			ux.Title(out, "Wikispeedia graph")
			ux.KeyValue(out, [][2]string{
				{"Source", stats.Source},
				{"Fingerprint", fingerprint},
				{"Articles", strconv.Itoa(stats.Graph.NodeCount)},
				{"Links", strconv.Itoa(stats.Graph.EdgeCount)},
				{"Duplicate articles", strconv.Itoa(stats.Graph.Build.DuplicateNodes)},
				{"Dead ends", strconv.Itoa(stats.Graph.SinkCount)},
				{"Max out-degree", strconv.Itoa(stats.Graph.MaxOutDegree)},
				{"Build time", (time.Duration(stats.Graph.Build.DurationMicro) * time.Microsecond).String()},
				{"Loaded at", stats.LoadedAt.Format(time.RFC3339)},
			})
			return nil
		},
	}
}
