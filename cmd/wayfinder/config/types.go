// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/AleutianAI/wayfinder/services/wayfinder/telemetry"
)

// EnvPrefix prefixes every environment override, e.g. WAYFINDER_DATA_LOCATION.
const EnvPrefix = "WAYFINDER"

// Config is the complete wayfinder configuration.
//
// Precedence, lowest first: DefaultConfig, the YAML file, a .env file,
// the process environment, then command-line flags.
type Config struct {
	// Data locates the Wikispeedia tables.
	Data DataConfig `yaml:"data"`

	// Snapshot controls the decoded-dataset cache.
	Snapshot SnapshotConfig `yaml:"snapshot"`

	// Resolve tunes topic name matching.
	Resolve ResolveConfig `yaml:"resolve"`

	// Log controls diagnostic logging.
	Log LogConfig `yaml:"log"`

	// Server configures `wayfinder serve`.
	Server ServerConfig `yaml:"server"`

	// Telemetry configures tracing and metrics export.
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// DataConfig locates the dataset.
type DataConfig struct {
	// Location is a directory or a gs://bucket/prefix URL.
	Location string `yaml:"location" validate:"required"`

	// CredentialsFile is a service account key for gs:// locations.
	CredentialsFile string `yaml:"credentials_file" split_words:"true"`

	// ArticlesFile names the articles table.
	ArticlesFile string `yaml:"articles_file" split_words:"true" validate:"required"`

	// LinksFile names the links table.
	LinksFile string `yaml:"links_file" split_words:"true" validate:"required"`

	// StrictNodes rejects repeated article rows instead of ignoring them.
	StrictNodes bool `yaml:"strict_nodes" split_words:"true"`
}

// SnapshotConfig controls the snapshot cache.
type SnapshotConfig struct {
	// Enabled turns the cache on.
	Enabled bool `yaml:"enabled"`

	// Path is the Badger directory.
	Path string `yaml:"path" validate:"required_if=Enabled true"`

	// TTL expires snapshots after this long. Zero keeps them forever.
	TTL time.Duration `yaml:"ttl" validate:"min=0"`
}

// ResolveConfig tunes the match resolver.
type ResolveConfig struct {
	// ShortListSize is the number of suggestions offered.
	ShortListSize int `yaml:"short_list_size" split_words:"true" validate:"min=1,max=50"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level" validate:"oneof=debug info warn warning error"`

	// Dir enables JSON file logging when set.
	Dir string `yaml:"dir"`

	// JSON switches console logs to JSON.
	JSON bool `yaml:"json"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `yaml:"addr" validate:"required,hostname_port"`

	// RateLimit is the sustained requests per second. Zero disables limiting.
	RateLimit float64 `yaml:"rate_limit" split_words:"true" validate:"min=0"`

	// RateBurst is the limiter bucket size. Zero uses RateLimit.
	RateBurst int `yaml:"rate_burst" split_words:"true" validate:"min=0"`

	// Watch reloads the graph when the tables of a local dataset change.
	Watch bool `yaml:"watch"`

	// WatchDebounce is the quiet period before a reload.
	WatchDebounce time.Duration `yaml:"watch_debounce" split_words:"true" validate:"min=0"`
}

// DefaultDir returns ~/.wayfinder, or .wayfinder when there is no home.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wayfinder"
	}
	return filepath.Join(home, ".wayfinder")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "wayfinder.yaml")
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Data: DataConfig{
			Location:     "data",
			ArticlesFile: "articles.tsv",
			LinksFile:    "links.tsv",
		},
		Snapshot: SnapshotConfig{
			Enabled: false,
			Path:    filepath.Join(DefaultDir(), "snapshots"),
			TTL:     7 * 24 * time.Hour,
		},
		Resolve: ResolveConfig{
			ShortListSize: 5,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Server: ServerConfig{
			Addr:      "localhost:8080",
			RateLimit: 50,
			RateBurst: 100,

			WatchDebounce: 500 * time.Millisecond,
		},
		Telemetry: telemetry.DefaultConfig(),
	}
}
