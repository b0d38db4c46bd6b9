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

// Package lead turns exported lead documents into single-label text
// classification examples.
//
// A lead is reduced to one line of text tagged with its upper-cased platform,
// e.g. "[REDDIT] Need an editor for my channel". Which fields make up the text
// depends on the platform; see Rule.
package lead

import (
	"errors"
	"fmt"

	"github.com/aaronlmathis/leadset/core"
)

// Field names read from exported lead documents.
const (
	FieldPlatform = "platform"
	FieldTitle    = "title"
	FieldContent  = "content"
)

// ErrShape is returned when a lead field holds a value of the wrong type.
var ErrShape = errors.New("unexpected field type")

// Lead is the part of an exported document the dataset is built from.
// A nil field was absent from the document or held null.
type Lead struct {
	Platform *string
	Title    *string
	Content  *string
}

// FromRecord extracts a Lead from a decoded document. Other fields are ignored.
func FromRecord(record core.Record) (Lead, error) {
	var (
		l   Lead
		err error
	)
	if l.Platform, err = optionalString(record, FieldPlatform); err != nil {
		return Lead{}, err
	}
	if l.Title, err = optionalString(record, FieldTitle); err != nil {
		return Lead{}, err
	}
	if l.Content, err = optionalString(record, FieldContent); err != nil {
		return Lead{}, err
	}
	return l, nil
}

func optionalString(record core.Record, field string) (*string, error) {
	value, ok := record[field]
	if !ok || value == nil {
		return nil, nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, want string", ErrShape, field, value)
	}
	return &s, nil
}

// deref renders a missing field as the empty string.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
