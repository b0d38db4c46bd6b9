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

package lead

import (
	"context"

	"github.com/aaronlmathis/leadset/core"
	"github.com/aaronlmathis/leadset/filter"
	"github.com/aaronlmathis/leadset/transform"
)

// Keys of the records flowing between the dataset pipeline stages.
const (
	FieldText  = "text"
	FieldLabel = "label"
	FieldTag   = "tag"
)

// Assemble maps a lead document to a record holding its platform tag and raw text.
func Assemble() core.Transformer {
	return core.TransformFunc(func(ctx context.Context, record core.Record) (core.Record, error) {
		l, err := FromRecord(record)
		if err != nil {
			return nil, err
		}
		tag := ResolvePlatform(l.Platform)
		return core.Record{
			FieldTag:  tag,
			FieldText: RuleFor(tag)(tag, l),
		}, nil
	})
}

// Normalize collapses whitespace in the assembled text.
func Normalize() core.Transformer {
	return transform.CollapseWhitespace(FieldText)
}

// Label marks every record as a positive example.
func Label() core.Transformer {
	return transform.AddField(FieldLabel, func(core.Record) interface{} {
		return PositiveLabel
	})
}

// SufficientContent drops records whose text is no more than the platform tag.
func SufficientContent() core.Filter {
	return filter.And(
		filter.NotNull(FieldText),
		filter.Custom(func(record core.Record) bool {
			text, _ := record[FieldText].(string)
			tag, _ := record[FieldTag].(string)
			return Sufficient(text, tag)
		}),
	)
}
