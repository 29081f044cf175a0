// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads wayfinder configuration from YAML, .env files and
// WAYFINDER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig indicates the merged configuration failed validation.
var ErrInvalidConfig = errors.New("invalid config")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// LoadOptions selects the files Load reads.
type LoadOptions struct {
	// Path is the YAML file. Empty means DefaultPath, which may be absent.
	// An explicit Path must exist.
	Path string

	// EnvFile is a dotenv file. Empty means ".env" in the working
	// directory, which may be absent. Variables already set in the
	// process environment win.
	EnvFile string
}

// Load builds the configuration.
//
// Description:
//
//	Starts from DefaultConfig, overlays the YAML file, loads the dotenv
//	file into the environment, applies WAYFINDER_* overrides, and
//	validates the result.
//
// Outputs:
//
//	Config - The merged configuration.
//	error - File, parse or override errors, or ErrInvalidConfig.
func Load(opts LoadOptions) (Config, error) {
	cfg := DefaultConfig()

	path, required := opts.Path, true
	if path == "" {
		path, required = DefaultPath(), false
	}
	if err := readYAML(path, required, &cfg); err != nil {
		return Config{}, err
	}

	envFile, required := opts.EnvFile, true
	if envFile == "" {
		envFile, required = ".env", false
	}
	if err := godotenv.Load(envFile); err != nil {
		if required || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("apply %s_* environment: %w", EnvPrefix, err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readYAML(path string, required bool, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks cfg against its struct tags.
//
// Failures wrap ErrInvalidConfig and name every offending field.
func Validate(cfg Config) error {
	err := getValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// WriteDefault writes DefaultConfig to path as YAML.
//
// Parent directories are created. An existing file is left untouched
// and reported as fs.ErrExist.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("write default config %s: %w", path, fs.ErrExist)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
