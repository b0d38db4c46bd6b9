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

package aggregate

import (
	"context"
	"regexp"

	"github.com/aaronlmathis/leadset/core"
)

// DefaultTag is counted for texts that carry no bracketed tag.
const DefaultTag = "UNKNOWN"

var tagPattern = regexp.MustCompile(`\[([^\]]+)\]`)

// TagCount is the number of records seen with one tag.
type TagCount struct {
	Tag   string
	Count int
}

// TagCounter counts records by the first bracketed tag found in a string field,
// remembering the order in which tags were first seen.
type TagCounter struct {
	Field  string
	order  []string
	counts map[string]int
}

// NewTagCounter creates a TagCounter over field.
func NewTagCounter(field string) *TagCounter {
	return &TagCounter{Field: field, counts: make(map[string]int)}
}

// Add implements Aggregator
func (t *TagCounter) Add(ctx context.Context, record core.Record) error {
	text, _ := record[t.Field].(string)
	tag := ExtractTag(text)
	if _, seen := t.counts[tag]; !seen {
		t.order = append(t.order, tag)
	}
	t.counts[tag]++
	return nil
}

// Tags returns the counts in first-seen order.
func (t *TagCounter) Tags() []TagCount {
	out := make([]TagCount, 0, len(t.order))
	for _, tag := range t.order {
		out = append(out, TagCount{Tag: tag, Count: t.counts[tag]})
	}
	return out
}

// Reset implements Aggregator
func (t *TagCounter) Reset() {
	t.order = nil
	t.counts = make(map[string]int)
}

// ExtractTag returns the contents of the first [...] group in text, or DefaultTag.
func ExtractTag(text string) string {
	if m := tagPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return DefaultTag
}
