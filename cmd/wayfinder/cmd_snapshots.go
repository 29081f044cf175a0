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
	"strconv"
	"time"

	"github.com/AleutianAI/wayfinder/pkg/ux"
	"github.com/spf13/cobra"
)

func newSnapshotsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Inspect and prune cached dataset snapshots",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			a, err := newApp(ctx, root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.openStore(); err != nil {
				return err
			}
			infos, err := a.store.List(ctx)
			if err != nil {
				return err
			}

			if root.jsonOutput {
				return writeJSON(out, infos)
			}
			if len(infos) == 0 {
				ux.Info(out, "No snapshots stored")
				return nil
			}
			for _, info := range infos {
				ux.KeyValue(out, [][2]string{
					{"Fingerprint", info.Fingerprint},
					{"Source", info.Source},
					{"Articles", strconv.Itoa(info.Articles)},
					{"Links", strconv.Itoa(info.Links)},
					{"Bytes", strconv.Itoa(info.Bytes)},
					{"Stored at", info.StoredAt.Format(time.RFC3339)},
				})
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	var all bool
	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete snapshots that do not match the current dataset",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			a, err := newApp(ctx, root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.openStore(); err != nil {
				return err
			}

			keep := ""
			if !all {
				src, err := a.openSource(ctx)
				if err != nil {
					return err
				}
				keep, err = src.Fingerprint(ctx, a.cfg.Data.ArticlesFile, a.cfg.Data.LinksFile)
				if err != nil {
					return fmt.Errorf("fingerprint %s: %w", src, err)
				}
			}

			removed, err := a.store.Prune(ctx, keep)
			if err != nil {
				return err
			}

			if root.jsonOutput {
				return writeJSON(out, map[string]any{"removed": removed, "kept": keep})
			}
			ux.Success(out, fmt.Sprintf("Removed %d snapshot(s)", removed))
			return nil
		},
	}
	pruneCmd.Flags().BoolVar(&all, "all", false, "Delete every snapshot, including the current one")

	cmd.AddCommand(listCmd, pruneCmd)
	return cmd
}
