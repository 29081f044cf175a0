// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dataset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Source provides the raw article and link tables.
type Source interface {
	// Open returns a reader for the named table.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Fingerprint identifies the current contents of the named tables
	// without reading them in full.
	Fingerprint(ctx context.Context, names ...string) (string, error)

	// String describes the location for logs and snapshots.
	String() string
}

// DirSource reads tables from a local directory.
type DirSource struct {
	Dir string
}

// Open implements Source.
func (s DirSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, nil
}

// Fingerprint hashes each table's name, size and modification time.
func (s DirSource) Fingerprint(_ context.Context, names ...string) (string, error) {
	h := sha256.New()
	for _, name := range names {
		info, err := os.Stat(filepath.Join(s.Dir, name))
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", name, err)
		}
		fmt.Fprintf(h, "%s\x00%d\x00%d\n", name, info.Size(), info.ModTime().UnixNano())
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (s DirSource) String() string {
	return s.Dir
}

// GCSSource reads tables from a Cloud Storage bucket prefix.
type GCSSource struct {
	client *storage.Client
	Bucket string
	Prefix string
}

// NewGCSSource creates a source for gs://bucket/prefix.
//
// # Description
//
// When credentialsFile is empty, application default credentials are
// used. Otherwise the file must exist and hold a service account key.
//
// # Outputs
//
//   - *GCSSource: Call Close when done.
//   - error: Non-nil if the key is missing or the client cannot be created.
func NewGCSSource(ctx context.Context, bucket, prefix, credentialsFile string) (*GCSSource, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		if _, err := os.Stat(credentialsFile); err != nil {
			return nil, fmt.Errorf("service account key not found at path: %s: %w", credentialsFile, err)
		}
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}
	return &GCSSource{client: client, Bucket: bucket, Prefix: prefix}, nil
}

func (s *GCSSource) object(name string) *storage.ObjectHandle {
	return s.client.Bucket(s.Bucket).Object(path.Join(s.Prefix, name))
}

// Open implements Source.
func (s *GCSSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	r, err := s.object(name).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open gs://%s/%s: %w", s.Bucket, path.Join(s.Prefix, name), err)
	}
	return r, nil
}

// Fingerprint hashes each object's generation and CRC32C.
func (s *GCSSource) Fingerprint(ctx context.Context, names ...string) (string, error) {
	h := sha256.New()
	for _, name := range names {
		attrs, err := s.object(name).Attrs(ctx)
		if err != nil {
			return "", fmt.Errorf("stat gs://%s/%s: %w", s.Bucket, path.Join(s.Prefix, name), err)
		}
		fmt.Fprintf(h, "%s\x00%d\x00%d\n", name, attrs.Generation, attrs.CRC32C)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (s *GCSSource) String() string {
	return "gs://" + path.Join(s.Bucket, s.Prefix)
}

// Close releases the storage client.
func (s *GCSSource) Close() error {
	return s.client.Close()
}

// OpenSource interprets a data location.
//
// # Description
//
// "gs://bucket/prefix" opens a Cloud Storage source. A location with any
// other "scheme://" prefix returns ErrUnsupportedSource. Anything else
// is treated as a local directory, which must exist.
//
// # Outputs
//
//   - Source: Ready for Load.
//   - func() error: Releases the source. Never nil.
//   - error: Non-nil if the location cannot be used.
func OpenSource(ctx context.Context, location, credentialsFile string) (Source, func() error, error) {
	noop := func() error { return nil }

	if rest, ok := strings.CutPrefix(location, "gs://"); ok {
		bucket, prefix, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return nil, noop, fmt.Errorf("%w: missing bucket in %q", ErrUnsupportedSource, location)
		}
		src, err := NewGCSSource(ctx, bucket, strings.TrimSuffix(prefix, "/"), credentialsFile)
		if err != nil {
			return nil, noop, err
		}
		return src, src.Close, nil
	}

	if scheme, _, ok := strings.Cut(location, "://"); ok {
		return nil, noop, fmt.Errorf("%w: scheme %q", ErrUnsupportedSource, scheme)
	}

	if location == "" {
		return nil, noop, fmt.Errorf("%w: empty location", ErrUnsupportedSource)
	}
	info, err := os.Stat(location)
	if err != nil {
		return nil, noop, fmt.Errorf("data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, noop, fmt.Errorf("data directory: %s is not a directory", location)
	}
	return DirSource{Dir: location}, noop, nil
}
