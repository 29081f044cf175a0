// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/AleutianAI/wayfinder/services/wayfinder/dataset"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleDataset(fingerprint string) *dataset.Dataset {
	return &dataset.Dataset{
		Source:      "testdata",
		Fingerprint: fingerprint,
		Articles:    []string{"Áedán mac Gabráin", "Africa", "Zebra"},
		Links: []dataset.Link{
			{Source: "Áedán mac Gabráin", Target: "Africa"},
			{Source: "Africa", Target: "Zebra"},
		},
		LoadedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestStore_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	want := sampleDataset("fp-1")

	require.NoError(t, s.Put(ctx, want))

	got, ok, err := s.Get(ctx, "fp-1")
	require.NoError(t, err)
	require.True(t, ok)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_Miss(t *testing.T) {
	s := openTestStore(t)

	got, ok, err := s.Get(context.Background(), "absent")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestStore_PutRequiresFingerprint(t *testing.T) {
	s := openTestStore(t)

	err := s.Put(context.Background(), sampleDataset(""))

	assert.Error(t, err)
}

func TestStore_CancelledContext(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Put(ctx, sampleDataset("fp")), context.Canceled)
	_, _, err := s.Get(ctx, "fp")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_ListDeletePrune(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, fp := range []string{"a", "b", "c"} {
		require.NoError(t, s.Put(ctx, sampleDataset(fp)))
	}

	infos, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, "a", infos[0].Fingerprint)
	assert.Equal(t, 3, infos[0].Articles)
	assert.Equal(t, 2, infos[0].Links)
	assert.Positive(t, infos[0].Bytes)

	require.NoError(t, s.Delete(ctx, "b"))
	_, ok, err := s.Get(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)

	removed, err := s.Prune(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	infos, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "c", infos[0].Fingerprint)
}

func TestStore_CorruptData(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(dataPrefix+"bad"), []byte("not zstd"))
	})
	require.NoError(t, err)

	_, _, err = s.Get(ctx, "bad")
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestStore_ServesAsLoaderCache(t *testing.T) {
	var _ dataset.Cache = (*Store)(nil)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestOpen_Persistent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, sampleDataset("persisted")))
	require.NoError(t, s.Close())

	s, err = Open(DefaultConfig(dir))
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get(ctx, "persisted")
	require.NoError(t, err)
	assert.True(t, ok)
}
