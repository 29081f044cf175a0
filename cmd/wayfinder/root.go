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
	"encoding/json"
	"io"

	"github.com/AleutianAI/wayfinder/cmd/wayfinder/config"
	"github.com/AleutianAI/wayfinder/pkg/ux"
	"github.com/spf13/cobra"
)

// rootOptions holds the global flags.
type rootOptions struct {
	configPath   string
	envFile      string
	dataLocation string
	logLevel     string
	personality  string
	jsonOutput   bool
}

// apply copies explicitly set flags over cfg.
func (o *rootOptions) apply(cfg *config.Config) {
	if o.dataLocation != "" {
		cfg.Data.Location = o.dataLocation
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "wayfinder",
		Short: "Find the shortest hyperlink path between two Wikispeedia articles",
		Long: `wayfinder loads the Wikispeedia article graph and finds the shortest
chain of hyperlinks from one article to another. Topic names that do not
match an article exactly are resolved against the closest titles.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize UX personality from flag or environment
			if opts.personality != "" {
				ux.SetPersonalityLevel(ux.ParsePersonalityLevel(opts.personality))
			} else {
				ux.InitPersonality()
			}
		},
	}

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return NewCommandError(cmd.Name(), ExitUsage, err)
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default ~/.wayfinder/wayfinder.yaml)")
	flags.StringVar(&opts.envFile, "env-file", "", "Dotenv file with WAYFINDER_* overrides (default .env)")
	flags.StringVar(&opts.dataLocation, "data", "", "Dataset directory or gs://bucket/prefix")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.personality, "personality", "",
		"Output style: full, standard, minimal, machine (env: "+ux.PersonalityEnv+")")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Print results as JSON")

	rootCmd.AddCommand(
		newPathCmd(opts),
		newResolveCmd(opts),
		newStatsCmd(opts),
		newServeCmd(opts),
		newSnapshotsCmd(opts),
		newConfigCmd(opts),
	)
	return rootCmd
}

// usageArgs reports argument validation failures with ExitUsage.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return NewCommandError(cmd.Name(), ExitUsage, err)
		}
		return nil
	}
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
