// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package resolve

// Distance returns the Levenshtein edit distance between a and b.
//
// # Description
//
// Counts the minimum number of single-rune insertions, deletions and
// substitutions that turn a into b. Comparison is case-sensitive and
// rune-based, so "Á" and "A" differ by one edit.
//
// # Examples
//
//	Distance("Untied States", "United States") // 2
//	Distance("kitten", "sitting")              // 3
func Distance(a, b string) int {
	return distanceRunes([]rune(a), []rune(b))
}

func distanceRunes(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Keep a as the shorter input so the rows stay small.
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j
		for i := 1; i <= len(a); i++ {
			if a[i-1] == b[j-1] {
				curr[i] = prev[i-1]
				continue
			}
			curr[i] = 1 + min(prev[i-1], prev[i], curr[i-1])
		}
		prev, curr = curr, prev
	}

	return prev[len(a)]
}
