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
)

// Process exit codes.
const (
	// ExitOK covers success, including a search that found no path.
	ExitOK = 0

	// ExitError covers load, I/O and internal failures.
	ExitError = 1

	// ExitUsage covers bad arguments, bad configuration and unresolved topics.
	ExitUsage = 2

	// ExitNoPath is returned with --fail-if-empty when no path exists.
	ExitNoPath = 3
)

// errNoPath marks a search that found no path under --fail-if-empty.
var errNoPath = errors.New("no path")

// errEmptyDataset marks a dataset that loaded without articles.
var errEmptyDataset = errors.New("dataset has no articles")

// CommandError is a command failure carrying a process exit code.
//
// # Example
//
//	err := NewCommandError("path", ExitUsage, fmt.Errorf("topic %q not resolved", q))
//	fmt.Println(err.Error()) // "path (exit 2): topic \"Zebar\" not resolved"
type CommandError struct {
	// Command is the subcommand that failed.
	Command string

	// ExitCode is the process exit code.
	ExitCode int

	// Wrapped is the underlying error.
	Wrapped error
}

// Error returns a formatted error message.
func (e *CommandError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s (exit %d): %v", e.Command, e.ExitCode, e.Wrapped)
	}
	return fmt.Sprintf("%s (exit %d)", e.Command, e.ExitCode)
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Wrapped
}

// NewCommandError creates a CommandError.
func NewCommandError(cmd string, exitCode int, wrapped error) *CommandError {
	return &CommandError{
		Command:  cmd,
		ExitCode: exitCode,
		Wrapped:  wrapped,
	}
}

// WrapCommandError wraps err into a CommandError if it isn't already one.
//
// Returns nil for a nil err.
func WrapCommandError(err error, cmd string, exitCode int) error {
	if err == nil {
		return nil
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return err
	}
	return NewCommandError(cmd, exitCode, err)
}

// ExitCode maps an error returned by a command to a process exit code.
//
// Errors without a CommandError in their chain map to ExitError.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	return ExitError
}
