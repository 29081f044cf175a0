// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package resolve maps free-text queries onto known node identifiers.
//
// A Resolver ranks every identifier by Levenshtein distance to the query.
// An exact match resolves immediately. Anything else produces a bounded
// short list that an external Chooser disambiguates, with one extra
// "none of these" option that leaves the query unresolved.
//
// Thread Safety:
//
//	A Resolver is immutable after New and safe for concurrent use.
package resolve

import "errors"

// ErrInvalidSelection indicates a selection index outside the offered range.
//
// The caller is expected to ask again.
var ErrInvalidSelection = errors.New("invalid selection")
