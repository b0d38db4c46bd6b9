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

	"github.com/aaronlmathis/leadset/core"
)

// Sampler keeps the values of a string field from the first Limit records.
type Sampler struct {
	Field   string
	Limit   int
	samples []string
}

// NewSampler creates a Sampler over field.
func NewSampler(field string, limit int) *Sampler {
	return &Sampler{Field: field, Limit: limit}
}

// Add implements Aggregator
func (s *Sampler) Add(ctx context.Context, record core.Record) error {
	if len(s.samples) >= s.Limit {
		return nil
	}
	text, _ := record[s.Field].(string)
	s.samples = append(s.samples, text)
	return nil
}

// Samples returns a copy of the collected values in input order.
func (s *Sampler) Samples() []string {
	return append([]string(nil), s.samples...)
}

// Reset implements Aggregator
func (s *Sampler) Reset() {
	s.samples = nil
}
