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

// Package report prints the operator summary of a dataset build.
package report

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/aaronlmathis/leadset/aggregate"
)

// SampleWidth is the number of runes of a sample shown before it is cut.
const SampleWidth = 100

// Summary describes one dataset build.
type Summary struct {
	Input       int64
	Transformed int64
	Skipped     int64
	Failed      int64
	OutputPath  string
	Samples     []string
	Platforms   []aggregate.TagCount
}

// Write prints s to w in the layout operators expect.
func Write(w io.Writer, s Summary) error {
	p := &printer{w: w}

	p.printf("Found %d leads to process\n", s.Input)
	p.printf("Successfully transformed %d leads\n", s.Transformed)
	if s.Skipped > 0 || s.Failed > 0 {
		p.printf("Skipped %d leads with insufficient text, %d with errors\n", s.Skipped, s.Failed)
	}
	if s.OutputPath != "" {
		p.printf("Created %s with %d entries\n", s.OutputPath, s.Transformed)
	}

	p.printf("\nSample entries:\n")
	for i, text := range s.Samples {
		p.printf("%d. %s\n", i+1, Truncate(text, SampleWidth))
	}

	p.printf("\nPlatform distribution:\n")
	for _, tc := range s.Platforms {
		p.printf("%s: %d leads\n", tc.Tag, tc.Count)
	}

	return p.err
}

// Truncate cuts text to width runes and appends "..." when anything was cut.
func Truncate(text string, width int) string {
	if utf8.RuneCountInString(text) <= width {
		return text
	}
	runes := []rune(text)
	return string(runes[:width]) + "..."
}

// printer stops writing after the first error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
