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
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// DecodeTitle turns a raw table cell into a display title.
//
// Percent escapes are decoded as in a URL query, then every underscore
// becomes a space.
func DecodeTitle(raw string) (string, error) {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("%w: decode %q: %v", ErrMalformedRow, raw, err)
	}
	return strings.ReplaceAll(decoded, "_", " "), nil
}

func newTSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	return cr
}

// eachRow calls fn for every data row of a table with at least minCols columns.
func eachRow(r io.Reader, file string, minCols int, fn func(row []string) error) error {
	cr := newTSVReader(r)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return &RowError{File: file, Line: perr.Line, Err: fmt.Errorf("%w: %v", ErrMalformedRow, perr.Err)}
			}
			return fmt.Errorf("read %s: %w", file, err)
		}

		line, _ := cr.FieldPos(0)
		if len(row) < minCols || row[0] == "" {
			return &RowError{
				File: file,
				Line: line,
				Err:  fmt.Errorf("%w: want %d columns, got %d", ErrMalformedRow, minCols, len(row)),
			}
		}
		if err := fn(row); err != nil {
			return &RowError{File: file, Line: line, Err: err}
		}
	}
}

// ParseArticles decodes the first column of every row.
func ParseArticles(r io.Reader, file string) ([]string, error) {
	var articles []string
	err := eachRow(r, file, 1, func(row []string) error {
		title, err := DecodeTitle(row[0])
		if err != nil {
			return err
		}
		articles = append(articles, title)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// ParseLinks decodes (source, target) from the first two columns of every row.
func ParseLinks(r io.Reader, file string) ([]Link, error) {
	var links []Link
	err := eachRow(r, file, 2, func(row []string) error {
		source, err := DecodeTitle(row[0])
		if err != nil {
			return err
		}
		target, err := DecodeTitle(row[1])
		if err != nil {
			return err
		}
		links = append(links, Link{Source: source, Target: target})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}
