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
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AleutianAI/wayfinder/cmd/wayfinder/config"
	"github.com/AleutianAI/wayfinder/pkg/ux"
	"github.com/AleutianAI/wayfinder/services/wayfinder"
	"github.com/AleutianAI/wayfinder/services/wayfinder/graph"
	"github.com/AleutianAI/wayfinder/services/wayfinder/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testArticlesTSV = "# Wikispeedia articles\n\nZebra\nMammal\nAfrica\nIsland\n"
	testLinksTSV    = "# source\ttarget\nZebra\tMammal\nMammal\tAfrica\nIsland\tIsland\n"
)

// cliEnv is an isolated HOME plus a dataset directory.
type cliEnv struct {
	home string
	data string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	orig := ux.GetPersonality()
	t.Cleanup(func() { ux.SetPersonality(orig) })

	data := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(data, "articles.tsv"), []byte(testArticlesTSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(data, "links.tsv"), []byte(testLinksTSV), 0o644))
	return &cliEnv{home: home, data: data}
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// run executes the CLI in machine personality against the test dataset.
func (e *cliEnv) run(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--personality", "machine", "--data", e.data}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestCLI_PathWithArgs(t *testing.T) {
	env := newCLIEnv(t)

	res := env.run(t, "", "path", "Zebra", "Africa")

	require.NoError(t, res.err, res.stderr)
	assert.True(t, strings.HasPrefix(res.stdout, "Credit for the dataset:"))
	assert.Contains(t, res.stdout, "PATH\t2\tZebra\tMammal\tAfrica\n")
	assert.Contains(t, res.stderr, "PROGRESS: Loading graph")
}

func TestCLI_PathJSON(t *testing.T) {
	env := newCLIEnv(t)

	res := env.run(t, "", "--json", "path", "Zebra", "Africa")
	require.NoError(t, res.err, res.stderr)

	var result graph.PathResult
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &result), res.stdout)
	assert.True(t, result.Found)
	assert.Equal(t, []string{"Zebra", "Mammal", "Africa"}, result.Path)
	assert.Equal(t, 2, result.Length)
}

func TestCLI_PathNoPath(t *testing.T) {
	env := newCLIEnv(t)

	res := env.run(t, "", "path", "Africa", "Zebra")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "NO_PATH\tAfrica\tZebra\n")
	assert.NotContains(t, res.stdout, "length")

	res = env.run(t, "", "path", "--fail-if-empty", "Africa", "Zebra")
	assert.Equal(t, ExitNoPath, ExitCode(res.err))
	assert.ErrorIs(t, res.err, errNoPath)
}

func TestCLI_PathResolvesWithPrompt(t *testing.T) {
	env := newCLIEnv(t)

	res := env.run(t, "1\n", "path", "Zebar", "Africa")

	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "WARN: Could not find exact article: Zebar")
	assert.Contains(t, res.stdout, "1) Zebra\n")
	assert.Contains(t, res.stdout, "PATH\t2\tZebra\tMammal\tAfrica\n")
}

func TestCLI_PathAuto(t *testing.T) {
	env := newCLIEnv(t)

	res := env.run(t, "", "path", "--auto", "Zebar", "Afrika")

	require.NoError(t, res.err, res.stderr)
	assert.NotContains(t, res.stdout, "Could not find")
	assert.Contains(t, res.stdout, "PATH\t2\tZebra\tMammal\tAfrica\n")
}

func TestCLI_PathRejectedArgument(t *testing.T) {
	env := newCLIEnv(t)

	// Four articles give a four-entry short list; 5 is "none".
	res := env.run(t, "5\n", "path", "Zebar", "Africa")

	assert.Equal(t, ExitUsage, ExitCode(res.err))
	assert.Contains(t, res.err.Error(), `"Zebar" not resolved`)
}

func TestCLI_PathInteractive(t *testing.T) {
	env := newCLIEnv(t)

	// "None" on the first prompt asks for the starting article again.
	res := env.run(t, "Zebar\n5\nZebra\nAfrica\n", "path")

	require.NoError(t, res.err, res.stderr)
	assert.Equal(t, 2, strings.Count(res.stdout, "Enter starting article: "))
	assert.Equal(t, 1, strings.Count(res.stdout, "Enter goal article: "))
	assert.Contains(t, res.stdout, "PATH\t2\tZebra\tMammal\tAfrica\n")
}

func TestCLI_PathInteractiveEndOfInput(t *testing.T) {
	env := newCLIEnv(t)

	res := env.run(t, "Zebra\n", "path")

	assert.Equal(t, ExitError, ExitCode(res.err))
	assert.ErrorIs(t, res.err, errAborted)
}

func TestCLI_UsageErrors(t *testing.T) {
	env := newCLIEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"one path argument", []string{"path", "Zebra"}},
		{"unknown flag", []string{"path", "--bogus"}},
		{"resolve without query", []string{"resolve"}},
		{"unsupported scheme", []string{"--data", "s3://bucket/wiki", "stats"}},
		{"bad log level", []string{"--log-level", "loud", "stats"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := env.run(t, "", tt.args...)
			assert.Equal(t, ExitUsage, ExitCode(res.err), "err: %v", res.err)
		})
	}
}

func TestCLI_MissingDataDirectory(t *testing.T) {
	env := newCLIEnv(t)

	res := env.run(t, "", "--data", filepath.Join(env.home, "absent"), "stats")
	assert.Equal(t, ExitError, ExitCode(res.err))
}

func TestCLI_Resolve(t *testing.T) {
	env := newCLIEnv(t)

	t.Run("short list", func(t *testing.T) {
		res := env.run(t, "", "resolve", "Zebar")
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "Closest articles to \"Zebar\":\n1) Zebra\n")
		assert.Contains(t, res.stdout, "5) None\n")
	})

	t.Run("exact", func(t *testing.T) {
		res := env.run(t, "", "resolve", "Mammal")
		require.NoError(t, res.err)
		assert.Equal(t, "OK: Mammal is an exact match\n", res.stdout)
	})

	t.Run("choice", func(t *testing.T) {
		res := env.run(t, "", "resolve", "Zebar", "--choice", "1")
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "Zebra")
		assert.True(t, strings.HasPrefix(res.stdout, "OK: Zebar"))
	})

	t.Run("none", func(t *testing.T) {
		res := env.run(t, "", "resolve", "Zebar", "--choice", "5")
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "WARN: No article selected")
	})

	t.Run("invalid choice", func(t *testing.T) {
		res := env.run(t, "", "resolve", "Zebar", "--choice", "9")
		assert.Equal(t, ExitUsage, ExitCode(res.err))
	})

	t.Run("json", func(t *testing.T) {
		res := env.run(t, "", "--json", "resolve", "Zebar")
		require.NoError(t, res.err)
		var resp wayfinder.ResolveResponse
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
		assert.False(t, resp.Match.Exact)
		require.Len(t, resp.Match.ShortList, 4)
		assert.Equal(t, "Zebra", resp.Match.ShortList[0].ID)
	})
}

func TestCLI_Stats(t *testing.T) {
	env := newCLIEnv(t)

	res := env.run(t, "", "--json", "stats")
	require.NoError(t, res.err, res.stderr)

	var stats wayfinder.StatsResponse
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &stats))
	assert.Equal(t, 4, stats.Graph.NodeCount)
	assert.Equal(t, 3, stats.Graph.EdgeCount)
	assert.Equal(t, 1, stats.Graph.SinkCount)
	assert.NotEmpty(t, stats.Fingerprint)

	res = env.run(t, "", "stats")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "articles=4\n")
	assert.Contains(t, res.stdout, "dead_ends=1\n")
}

func TestCLI_Snapshots(t *testing.T) {
	env := newCLIEnv(t)
	t.Setenv("WAYFINDER_SNAPSHOT_ENABLED", "true")
	t.Setenv("WAYFINDER_SNAPSHOT_PATH", filepath.Join(env.home, "snaps"))

	res := env.run(t, "", "stats")
	require.NoError(t, res.err, res.stderr)

	res = env.run(t, "", "--json", "snapshots", "list")
	require.NoError(t, res.err, res.stderr)
	var infos []snapshot.Info
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, 4, infos[0].Articles)
	assert.Equal(t, 3, infos[0].Links)

	// The current dataset's snapshot survives a plain prune.
	res = env.run(t, "", "snapshots", "prune")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "Removed 0 snapshot(s)")

	res = env.run(t, "", "snapshots", "prune", "--all")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "Removed 1 snapshot(s)")

	res = env.run(t, "", "snapshots", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "No snapshots stored")
}

func TestCLI_Config(t *testing.T) {
	env := newCLIEnv(t)
	path := filepath.Join(env.home, "custom", "wayfinder.yaml")

	res := env.run(t, "", "--config", path, "config", "init")
	require.NoError(t, res.err)
	assert.FileExists(t, path)

	res = env.run(t, "", "--config", path, "config", "init")
	assert.Equal(t, ExitUsage, ExitCode(res.err))

	t.Setenv("WAYFINDER_RESOLVE_SHORT_LIST_SIZE", "7")
	res = env.run(t, "", "--config", path, "--json", "config", "show")
	require.NoError(t, res.err)

	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &cfg))
	assert.Equal(t, 7, cfg.Resolve.ShortListSize)
	assert.Equal(t, env.data, cfg.Data.Location, "--data overrides the file")
}

func TestCLI_PathEmptyDataset(t *testing.T) {
	env := newCLIEnv(t)
	empty := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(empty, "articles.tsv"), []byte("# no articles\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(empty, "links.tsv"), []byte(""), 0o644))

	res := env.run(t, "", "--data", empty, "path", "Zebra", "Africa")

	assert.Equal(t, ExitError, ExitCode(res.err))
	assert.ErrorIs(t, res.err, errEmptyDataset)
}
