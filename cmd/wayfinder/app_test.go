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
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AleutianAI/wayfinder/pkg/ux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_WatchDataReloadsGraph(t *testing.T) {
	env := newCLIEnv(t)
	ux.SetPersonalityLevel(ux.PersonalityMachine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, &rootOptions{dataLocation: env.data}, io.Discard)
	require.NoError(t, err)
	defer a.Close()
	a.cfg.Server.WatchDebounce = 20 * time.Millisecond

	require.NoError(t, a.loadGraph(ctx))
	before, err := a.svc.ShortestPath(ctx, "Island", "Zebra")
	require.NoError(t, err)
	require.False(t, before.Found)

	done := make(chan error, 1)
	go func() { done <- a.watchData(ctx) }()

	// Give the watch time to register before editing the table.
	time.Sleep(50 * time.Millisecond)
	links := testLinksTSV + "Island\tZebra\n"
	require.NoError(t, os.WriteFile(filepath.Join(env.data, "links.tsv"), []byte(links), 0o644))

	assert.Eventually(t, func() bool {
		result, err := a.svc.ShortestPath(ctx, "Island", "Africa")
		return err == nil && result.Found && result.Length == 3
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestApp_WatchDataBrokenEditKeepsGraph(t *testing.T) {
	env := newCLIEnv(t)
	ux.SetPersonalityLevel(ux.PersonalityMachine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, &rootOptions{dataLocation: env.data}, io.Discard)
	require.NoError(t, err)
	defer a.Close()
	a.cfg.Server.WatchDebounce = 20 * time.Millisecond
	require.NoError(t, a.loadGraph(ctx))

	done := make(chan error, 1)
	go func() { done <- a.watchData(ctx) }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(env.data, "links.tsv"), []byte("Zebra\tGhost\n"), 0o644))
	time.Sleep(300 * time.Millisecond)

	result, err := a.svc.ShortestPath(ctx, "Zebra", "Africa")
	require.NoError(t, err)
	assert.True(t, result.Found)

	cancel()
	assert.NoError(t, <-done)
}
