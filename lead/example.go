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
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aaronlmathis/leadset/transform"
)

// PositiveLabel is the label of every example; the dataset only holds positives.
const PositiveLabel = 1

// Example is one training example.
type Example struct {
	Text  string `json:"text"`
	Label int    `json:"label"`
}

// ResolvePlatform upper-cases the platform with full Unicode case mapping
// ("ß" becomes "SS"), or returns PlatformUnknown when it is missing or empty.
func ResolvePlatform(platform *string) string {
	if platform == nil || *platform == "" {
		return PlatformUnknown
	}
	return cases.Upper(language.Und).String(*platform)
}

// Sufficient reports whether normalised text carries content beyond its
// "[TAG] " prefix. Lengths are counted in runes.
func Sufficient(text, tag string) bool {
	return utf8.RuneCountInString(text) > utf8.RuneCountInString(tag)+3
}

// Build turns a lead into an example. ok is false when the lead has too little
// text to be useful.
func Build(l Lead) (ex Example, ok bool) {
	tag := ResolvePlatform(l.Platform)
	text := transform.Collapse(RuleFor(tag)(tag, l))
	if !Sufficient(text, tag) {
		return Example{}, false
	}
	return Example{Text: text, Label: PositiveLabel}, true
}
