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
	"errors"
	"fmt"

	"github.com/AleutianAI/wayfinder/pkg/ux"
	"github.com/AleutianAI/wayfinder/services/wayfinder"
	"github.com/AleutianAI/wayfinder/services/wayfinder/resolve"
	"github.com/spf13/cobra"
)

func newResolveCmd(root *rootOptions) *cobra.Command {
	var choice int

	cmd := &cobra.Command{
		Use:   "resolve QUERY",
		Short: "Show the articles closest to a name",
		Long: `Rank every article by edit distance to QUERY.

An exact match resolves immediately. Otherwise the closest articles are
listed; --choice applies a 1-based selection, where the index after the
last article means "none of these".`,
		Example: `  wayfinder resolve "Untied States"
  wayfinder resolve "Untied States" --choice 1`,
		Args: usageArgs(cobra.ExactArgs(1)),
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

			resp, err := a.svc.Resolve(args[0], choice)
			if err != nil {
				if errors.Is(err, resolve.ErrInvalidSelection) || errors.Is(err, wayfinder.ErrEmptyQuery) {
					return NewCommandError("resolve", ExitUsage, err)
				}
				return NewCommandError("resolve", ExitError, err)
			}

			if root.jsonOutput {
				return writeJSON(out, resp)
			}
			printResolution(cmd, args[0], resp)
			return nil
		},
	}

	cmd.Flags().IntVar(&choice, "choice", 0, "Apply a 1-based selection from the short list")
	return cmd
}

func printResolution(cmd *cobra.Command, query string, resp wayfinder.ResolveResponse) {
	out := cmd.OutOrStdout()

	switch res := resp.Resolution; {
	case res != nil && res.Exact:
		ux.Success(out, fmt.Sprintf("%s is an exact match", res.ID))
	case res != nil && res.Resolved:
		ux.Success(out, fmt.Sprintf("%s %s %s", query, ux.IconArrow, res.ID))
	case res != nil:
		ux.Warning(out, fmt.Sprintf("No article selected for %q", query))
	case len(resp.Match.ShortList) == 0:
		ux.Warning(out, "No articles loaded")
	default:
		ux.ChoiceList(out, fmt.Sprintf("Closest articles to %q:", query), choicesFor(resp.Match.ShortList))
	}
}
