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
	"fmt"
	"io"

	"github.com/AleutianAI/wayfinder/pkg/ux"
	"github.com/AleutianAI/wayfinder/services/wayfinder/dataset"
	"github.com/AleutianAI/wayfinder/services/wayfinder/resolve"
	"github.com/spf13/cobra"
)

type pathOptions struct {
	failIfEmpty bool
	auto        bool
	plain       bool
}

func newPathCmd(root *rootOptions) *cobra.Command {
	opts := &pathOptions{}

	cmd := &cobra.Command{
		Use:   "path [FROM TO]",
		Short: "Find the shortest hyperlink path between two articles",
		Long: `Find the shortest hyperlink path between two articles.

With no arguments, prompts for the starting and goal articles. A name
that does not match an article exactly offers the closest titles to
choose from.`,
		Example: `  wayfinder path Zebra Africa
  wayfinder path "Untied States" Bear --auto
  wayfinder path --json Zebra Africa`,
		Args: usageArgs(func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("accepts 0 or 2 arg(s), received %d", len(args))
			}
			return nil
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPath(cmd, root, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.failIfEmpty, "fail-if-empty", false, "Exit with status 3 when no path exists")
	cmd.Flags().BoolVar(&opts.auto, "auto", false, "Pick the closest article instead of prompting")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Use numbered prompts even on a terminal")
	return cmd
}

func runPath(cmd *cobra.Command, root *rootOptions, opts *pathOptions, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	// Keep stdout pure JSON; prompts go to stderr.
	promptOut := out
	if root.jsonOutput {
		promptOut = cmd.ErrOrStderr()
	}

	a, err := newApp(ctx, root, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	if !root.jsonOutput {
		ux.Credits(out, dataset.Attribution)
	}

	if err := a.loadGraph(ctx); err != nil {
		return err
	}
	g, err := a.svc.Graph()
	if err != nil {
		return NewCommandError("path", ExitError, err)
	}
	if g.NodeCount() == 0 {
		return NewCommandError("path", ExitError, errEmptyDataset)
	}

	ask := pickAsker(cmd, promptOut, opts.plain)
	var chooser resolve.Chooser = ask
	if opts.auto {
		chooser = autoChooser
	}

	var from, to string
	if len(args) == 2 {
		if from, err = resolveArg(ctx, a, args[0], chooser); err != nil {
			return err
		}
		if to, err = resolveArg(ctx, a, args[1], chooser); err != nil {
			return err
		}
	} else {
		if from, err = askTopic(ctx, a, ask, chooser, promptOut, "Enter starting article: "); err != nil {
			return err
		}
		if to, err = askTopic(ctx, a, ask, chooser, promptOut, "Enter goal article: "); err != nil {
			return err
		}
	}

	result, err := a.svc.ShortestPath(ctx, from, to)
	if err != nil {
		return NewCommandError("path", ExitError, err)
	}

	if root.jsonOutput {
		if err := writeJSON(out, result); err != nil {
			return err
		}
	} else {
		ux.Route(out, ux.RouteView{From: from, To: to, Found: result.Found, Steps: result.Path})
	}

	if !result.Found && opts.failIfEmpty {
		return NewCommandError("path", ExitNoPath, fmt.Errorf("%w from %q to %q", errNoPath, from, to))
	}
	return nil
}

// pickAsker returns huh forms on a terminal and line prompts otherwise.
func pickAsker(cmd *cobra.Command, out io.Writer, plain bool) asker {
	if !plain && ux.IsInteractive() {
		return formAsker{}
	}
	return newLineAsker(cmd.InOrStdin(), out)
}

// resolveArg resolves a topic given on the command line.
//
// Rejecting every candidate is a usage error.
func resolveArg(ctx context.Context, a *app, query string, chooser resolve.Chooser) (string, error) {
	res, err := a.svc.ResolveWith(ctx, query, chooser)
	if err != nil {
		return "", NewCommandError("path", ExitError, err)
	}
	if !res.Resolved {
		return "", NewCommandError("path", ExitUsage, fmt.Errorf("article %q not resolved", query))
	}
	return res.ID, nil
}

// askTopic prompts until a topic resolves.
func askTopic(ctx context.Context, a *app, ask asker, chooser resolve.Chooser, out io.Writer, label string) (string, error) {
	for {
		query, err := ask.Ask(ctx, label)
		if err != nil {
			return "", NewCommandError("path", ExitError, err)
		}
		res, err := a.svc.ResolveWith(ctx, query, chooser)
		if err != nil {
			return "", NewCommandError("path", ExitError, err)
		}
		if res.Resolved {
			fmt.Fprintln(out)
			return res.ID, nil
		}
	}
}
