//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Copyright (C) 2025 Aaron Mathis aaron.mathis@gmail.com
//
// This file is part of Leadset.
//
// Leadset is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Leadset is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Leadset. If not, see https://www.gnu.org/licenses/.

package transform

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/aaronlmathis/leadset/core"
)

// Package transform provides reusable, composable record transformations for leadset pipelines.
// All functions return core.Transformer implementations.

// AddField creates a transformer that adds a new field with a computed value to each record.
// The value is computed by the provided function, which receives the current record.
func AddField(field string, fn func(core.Record) interface{}) core.Transformer {
	return core.TransformFunc(func(ctx context.Context, record core.Record) (core.Record, error) {
		result := record.Clone()
		result[field] = fn(record)
		return result, nil
	})
}

// CollapseWhitespace creates a transformer that replaces every run of whitespace
// in the given string fields with a single space and trims both ends.
// A listed field holding a non-string value is an error.
func CollapseWhitespace(fields ...string) core.Transformer {
	return core.TransformFunc(func(ctx context.Context, record core.Record) (core.Record, error) {
		result := record.Clone()

		for _, field := range fields {
			value, exists := record[field]
			if !exists || value == nil {
				continue
			}
			str, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("field %s: cannot collapse whitespace in %T", field, value)
			}
			result[field] = Collapse(str)
		}

		return result, nil
	})
}

// Collapse applies the CollapseWhitespace rule to a single string.
func Collapse(s string) string {
	return strings.Join(strings.FieldsFunc(s, IsSpace), " ")
}

// TrimSpace removes leading and trailing IsSpace runes.
func TrimSpace(s string) string {
	return strings.TrimFunc(s, IsSpace)
}

// IsSpace reports whether r is whitespace in scraped lead text: the Unicode
// space separators (Zs), tab, line feed, vertical tab, form feed, carriage
// return, U+2028, U+2029 and the byte order mark U+FEFF.
// NEL (U+0085) is not whitespace here, unlike unicode.IsSpace.
func IsSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\ufeff':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}
