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

package writers

import (
	"bufio"
	"context"
	"io"

	"github.com/aaronlmathis/leadset/core"
)

// JSONArrayWriter implements DataSink for a single pretty-printed JSON array,
// laid out like JSON.stringify(records, null, 2). Object keys are sorted.
type JSONArrayWriter struct {
	writer  *bufio.Writer
	closer  io.Closer
	indent  string
	records int64
}

// NewJSONArrayWriter creates a writer that indents nested values by two spaces.
func NewJSONArrayWriter(w io.WriteCloser) *JSONArrayWriter {
	return &JSONArrayWriter{
		writer: bufio.NewWriter(w),
		closer: w,
		indent: "  ",
	}
}

// Write implements the DataSink interface
func (j *JSONArrayWriter) Write(ctx context.Context, record core.Record) error {
	data, err := marshalJSON(map[string]interface{}(record), j.indent)
	if err != nil {
		return &JSONWriterError{Op: "marshal", Err: err}
	}

	sep := ",\n"
	if j.records == 0 {
		sep = "[\n"
	}
	if _, err := j.writer.WriteString(sep + j.indent); err != nil {
		return &JSONWriterError{Op: "write", Err: err}
	}
	if _, err := j.writer.Write(data); err != nil {
		return &JSONWriterError{Op: "write", Err: err}
	}

	j.records++
	return nil
}

// Flush implements the DataSink interface
func (j *JSONArrayWriter) Flush() error {
	if err := j.writer.Flush(); err != nil {
		return &JSONWriterError{Op: "flush", Err: err}
	}
	return nil
}

// Close terminates the array and closes the underlying writer.
func (j *JSONArrayWriter) Close() error {
	tail := "\n]"
	if j.records == 0 {
		tail = "[]"
	}
	if _, err := j.writer.WriteString(tail); err != nil {
		return &JSONWriterError{Op: "write", Err: err}
	}
	if err := j.Flush(); err != nil {
		return err
	}
	if j.closer != nil {
		if err := j.closer.Close(); err != nil {
			return &JSONWriterError{Op: "close", Err: err}
		}
	}
	return nil
}

// Abort implements core.Aborter when the underlying writer can discard its output.
func (j *JSONArrayWriter) Abort() error {
	return abortCloser(j.closer)
}
