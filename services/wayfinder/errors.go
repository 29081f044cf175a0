// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package wayfinder

import (
	"errors"
	"fmt"

	"github.com/AleutianAI/wayfinder/services/wayfinder/resolve"
)

// Sentinel errors for the wayfinder query service.
var (
	// ErrNotReady indicates no graph has been installed yet.
	ErrNotReady = errors.New("graph not loaded")

	// ErrNodeNotFound indicates a topic name matched no node exactly.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEmptyQuery indicates a blank topic name.
	ErrEmptyQuery = errors.New("empty query")
)

// NodeNotFoundError reports a topic that matched no node exactly.
//
// Suggestions holds the ranked short list for the input, possibly empty.
type NodeNotFoundError struct {
	Input       string
	Suggestions []resolve.Candidate
}

func (e *NodeNotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("%v: %q", ErrNodeNotFound, e.Input)
	}
	return fmt.Sprintf("%v: %q (closest: %q)", ErrNodeNotFound, e.Input, e.Suggestions[0].ID)
}

func (e *NodeNotFoundError) Unwrap() error {
	return ErrNodeNotFound
}
