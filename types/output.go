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

package types

import (
	"fmt"

	"github.com/aaronlmathis/leadset/core"
	"github.com/aaronlmathis/leadset/writers"
)

// OutputFormat represents a supported sink format.
type OutputFormat int

const (
	// FormatJSONArray is a single pretty-printed JSON array.
	FormatJSONArray OutputFormat = iota
	// FormatJSONLines is one compact JSON object per line.
	FormatJSONLines
)

func (f OutputFormat) String() string {
	switch f {
	case FormatJSONArray:
		return "json"
	case FormatJSONLines:
		return "jsonl"
	default:
		return fmt.Sprintf("OutputFormat(%d)", int(f))
	}
}

// FileLocation writes output to a local filesystem path. The file is replaced
// atomically when the sink closes, and left untouched when the sink is aborted.
type FileLocation struct {
	Path string
	// Fields fixes the keys and their order for FormatJSONLines.
	Fields []string
}

// NewSink instantiates a writer for the file location.
func (f FileLocation) NewSink(format OutputFormat) (core.DataSink, error) {
	if f.Path == "" {
		return nil, fmt.Errorf("file location requires a path")
	}

	switch format {
	case FormatJSONArray:
		file, err := writers.CreateAtomic(f.Path)
		if err != nil {
			return nil, err
		}
		return writers.NewJSONArrayWriter(file), nil
	case FormatJSONLines:
		file, err := writers.CreateAtomic(f.Path)
		if err != nil {
			return nil, err
		}
		return writers.NewJSONLinesWriter(file, writers.WithFields(f.Fields...)), nil
	default:
		return nil, fmt.Errorf("unsupported format %s for FileLocation", format)
	}
}
