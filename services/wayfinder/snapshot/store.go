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
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AleutianAI/wayfinder/services/wayfinder/dataset"
	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	metaPrefix = "snap/meta/"
	dataPrefix = "snap/data/"
)

// Info describes one stored snapshot.
type Info struct {
	Fingerprint string    `msgpack:"fingerprint" json:"fingerprint"`
	Source      string    `msgpack:"source" json:"source"`
	Articles    int       `msgpack:"articles" json:"articles"`
	Links       int       `msgpack:"links" json:"links"`
	Bytes       int       `msgpack:"bytes" json:"bytes"`
	LoadedAt    time.Time `msgpack:"loaded_at" json:"loaded_at"`
	StoredAt    time.Time `msgpack:"stored_at" json:"stored_at"`
}

// record is the encoded form of a dataset.
type record struct {
	Source      string      `msgpack:"s"`
	Fingerprint string      `msgpack:"f"`
	Articles    []string    `msgpack:"a"`
	Links       [][2]string `msgpack:"l"`
	LoadedAt    time.Time   `msgpack:"t"`
}

// Store is a BadgerDB-backed dataset cache.
//
// Store implements dataset.Cache. It is safe for concurrent use.
type Store struct {
	db     *badger.DB
	gc     *gcRunner
	enc    *zstd.Encoder
	dec    *zstd.Decoder
	ttl    time.Duration
	logger *slog.Logger
}

// Open opens or creates a snapshot store.
//
// # Outputs
//
//   - *Store: Call Close when done.
//   - error: Non-nil if the database cannot be opened.
func Open(cfg Config) (*Store, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{db: db, enc: enc, dec: dec, ttl: cfg.TTL, logger: logger}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		s.gc = startGC(db, cfg.GCInterval, cfg.GCDiscardRatio, cfg.Logger)
	}
	return s, nil
}

// Close stops GC and closes the database.
func (s *Store) Close() error {
	if s.gc != nil {
		s.gc.stop()
	}
	s.dec.Close()
	encErr := s.enc.Close()
	return errors.Join(s.db.Close(), encErr)
}

// Put stores ds under its fingerprint, replacing any previous snapshot.
func (s *Store) Put(ctx context.Context, ds *dataset.Dataset) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	if ds.Fingerprint == "" {
		return errors.New("dataset has no fingerprint")
	}

	rec := record{
		Source:      ds.Source,
		Fingerprint: ds.Fingerprint,
		Articles:    ds.Articles,
		Links:       make([][2]string, len(ds.Links)),
		LoadedAt:    ds.LoadedAt,
	}
	for i, l := range ds.Links {
		rec.Links[i] = [2]string{l.Source, l.Target}
	}

	raw, err := msgpack.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	data := s.enc.EncodeAll(raw, nil)

	meta, err := msgpack.Marshal(&Info{
		Fingerprint: ds.Fingerprint,
		Source:      ds.Source,
		Articles:    len(ds.Articles),
		Links:       len(ds.Links),
		Bytes:       len(data),
		LoadedAt:    ds.LoadedAt,
		StoredAt:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("encode snapshot info: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.SetEntry(s.entry(dataPrefix+ds.Fingerprint, data)); err != nil {
			return err
		}
		return txn.SetEntry(s.entry(metaPrefix+ds.Fingerprint, meta))
	})
	if err != nil {
		return fmt.Errorf("store snapshot %s: %w", ds.Fingerprint, err)
	}

	s.logger.Debug("stored snapshot",
		"fingerprint", ds.Fingerprint,
		"raw_bytes", len(raw),
		"stored_bytes", len(data))
	return nil
}

func (s *Store) entry(key string, value []byte) *badger.Entry {
	e := badger.NewEntry([]byte(key), value)
	if s.ttl > 0 {
		e = e.WithTTL(s.ttl)
	}
	return e
}

// Get returns the snapshot for fingerprint.
//
// # Outputs
//
//   - *dataset.Dataset: The restored dataset, nil on a miss.
//   - bool: True on a hit.
//   - error: Non-nil on storage failure or ErrCorruptSnapshot.
func (s *Store) Get(ctx context.Context, fingerprint string) (*dataset.Dataset, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("context cancelled: %w", err)
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(dataPrefix + fingerprint))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read snapshot %s: %w", fingerprint, err)
	}

	raw, err := s.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrCorruptSnapshot, fingerprint, err)
	}
	var rec record
	if err := msgpack.Unmarshal(raw, &rec); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrCorruptSnapshot, fingerprint, err)
	}

	ds := &dataset.Dataset{
		Source:      rec.Source,
		Fingerprint: rec.Fingerprint,
		Articles:    rec.Articles,
		Links:       make([]dataset.Link, len(rec.Links)),
		LoadedAt:    rec.LoadedAt,
	}
	for i, l := range rec.Links {
		ds.Links[i] = dataset.Link{Source: l[0], Target: l[1]}
	}
	return ds, true, nil
}

// List returns info for every stored snapshot, ordered by key.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	var infos []Info
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(metaPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var info Info
			err := it.Item().Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &info)
			})
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrCorruptSnapshot, it.Item().Key(), err)
			}
			infos = append(infos, info)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

// Delete removes the snapshot for fingerprint. Missing snapshots are not an error.
func (s *Store) Delete(ctx context.Context, fingerprint string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(dataPrefix + fingerprint)); err != nil {
			return err
		}
		return txn.Delete([]byte(metaPrefix + fingerprint))
	})
}

// Prune removes every snapshot except keep. Returns the number removed.
func (s *Store) Prune(ctx context.Context, keep string) (int, error) {
	infos, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, info := range infos {
		if info.Fingerprint == keep {
			continue
		}
		if err := s.Delete(ctx, info.Fingerprint); err != nil {
			return removed, fmt.Errorf("delete snapshot %s: %w", info.Fingerprint, err)
		}
		removed++
	}
	return removed, nil
}
