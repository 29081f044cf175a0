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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *CommandError
		want string
	}{
		{"with wrapped", NewCommandError("path", ExitUsage, errors.New("bad topic")), "path (exit 2): bad topic"},
		{"bare", NewCommandError("serve", ExitError, nil), "serve (exit 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestCommandError_Unwrap(t *testing.T) {
	err := NewCommandError("path", ExitNoPath, fmt.Errorf("%w from A to B", errNoPath))
	assert.ErrorIs(t, err, errNoPath)
}

func TestWrapCommandError(t *testing.T) {
	assert.Nil(t, WrapCommandError(nil, "path", ExitError))

	inner := NewCommandError("path", ExitUsage, errors.New("x"))
	wrapped := fmt.Errorf("outer: %w", inner)
	assert.Same(t, wrapped, WrapCommandError(wrapped, "stats", ExitError), "no double wrap")

	plain := errors.New("plain")
	var cmdErr *CommandError
	assert.True(t, errors.As(WrapCommandError(plain, "stats", ExitError), &cmdErr))
	assert.Equal(t, "stats", cmdErr.Command)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("boom"), ExitError},
		{"usage", NewCommandError("path", ExitUsage, nil), ExitUsage},
		{"wrapped no path", fmt.Errorf("run: %w", NewCommandError("path", ExitNoPath, errNoPath)), ExitNoPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
