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

import "github.com/aaronlmathis/leadset/transform"

// Platform tags known to the rule table. Any other upper-cased platform value
// is kept as its own tag and handled by ContentFirst.
const (
	PlatformReddit   = "REDDIT"
	PlatformLinkedIn = "LINKEDIN"
	PlatformTwitter  = "TWITTER"
	PlatformX        = "X"
	PlatformUnknown  = "UNKNOWN"
)

// Rule assembles the raw, not yet normalised text of a lead whose platform
// resolved to tag.
type Rule func(tag string, l Lead) string

var rules = map[string]Rule{
	PlatformReddit:   TitleAndContent,
	PlatformLinkedIn: ContentFirst,
	PlatformTwitter:  ContentFirst,
	PlatformX:        ContentFirst,
}

// RuleFor returns the rule registered for tag, or ContentFirst.
func RuleFor(tag string) Rule {
	if rule, ok := rules[tag]; ok {
		return rule
	}
	return ContentFirst
}

// TitleAndContent writes the title followed by the content. Blank content is
// left out. Reddit posts carry their subject in the title.
func TitleAndContent(tag string, l Lead) string {
	if l.Content != nil && transform.TrimSpace(*l.Content) != "" {
		return "[" + tag + "] " + deref(l.Title) + " " + *l.Content
	}
	return "[" + tag + "] " + deref(l.Title)
}

// ContentFirst writes the content, falling back to the title when the content
// is missing or empty, and to nothing when both are.
func ContentFirst(tag string, l Lead) string {
	body := ""
	switch {
	case l.Content != nil && *l.Content != "":
		body = *l.Content
	case l.Title != nil && *l.Title != "":
		body = *l.Title
	}
	return "[" + tag + "] " + body
}
