// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package dataset loads the Wikispeedia article and link tables.
//
// Both tables are tab-separated. Lines starting with '#' and blank lines
// are skipped. Every title is URL-decoded and underscores become spaces,
// so "%C3%81ed%C3%A1n_mac_Gabr%C3%A1in" decodes to "Áedán mac Gabráin".
//
// A Source abstracts where the tables live: a local directory or a
// Cloud Storage prefix. Load decodes both tables concurrently and returns
// a Dataset ready for graph construction.
package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRow indicates a row with too few columns or an undecodable title.
	ErrMalformedRow = errors.New("malformed row")

	// ErrUnsupportedSource indicates a data location scheme that cannot be read.
	ErrUnsupportedSource = errors.New("unsupported dataset source")
)

// RowError reports a bad row together with its location.
type RowError struct {
	File string
	Line int
	Err  error
}

// Error implements error.
func (e *RowError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *RowError) Unwrap() error {
	return e.Err
}
