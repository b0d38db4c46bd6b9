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
	"fmt"
	"io"

	"github.com/aaronlmathis/leadset/core"
)

// JSONWriterError wraps JSON write errors with context.
type JSONWriterError struct {
	Op  string
	Err error
}

func (e *JSONWriterError) Error() string {
	return fmt.Sprintf("json writer %s: %v", e.Op, e.Err)
}

func (e *JSONWriterError) Unwrap() error {
	return e.Err
}

// JSONLinesOptions configures JSON Lines output.
type JSONLinesOptions struct {
	Fields []string // Keys to write, in order; empty writes every key sorted
}

// WriterOptionJSONLines is a functional option.
type WriterOptionJSONLines func(*JSONLinesOptions)

// WithFields restricts output to the given keys and fixes their order.
func WithFields(fields ...string) WriterOptionJSONLines {
	return func(opts *JSONLinesOptions) {
		opts.Fields = append([]string(nil), fields...)
	}
}

// JSONLinesWriter implements DataSink for JSON Lines files: one compact object
// per line, lines separated by a single '\n' and no newline after the last.
type JSONLinesWriter struct {
	writer  *bufio.Writer
	closer  io.Closer
	options JSONLinesOptions
	lines   int64
}

// NewJSONLinesWriter creates a new JSON Lines writer
func NewJSONLinesWriter(w io.WriteCloser, opts ...WriterOptionJSONLines) *JSONLinesWriter {
	var options JSONLinesOptions
	for _, opt := range opts {
		opt(&options)
	}

	return &JSONLinesWriter{
		writer:  bufio.NewWriter(w),
		closer:  w,
		options: options,
	}
}

// Write implements the DataSink interface
func (j *JSONLinesWriter) Write(ctx context.Context, record core.Record) error {
	fields := j.options.Fields
	if len(fields) == 0 {
		fields = sortedKeys(record)
	}

	data, err := marshalOrdered(record, fields)
	if err != nil {
		return &JSONWriterError{Op: "marshal", Err: err}
	}

	if j.lines > 0 {
		if err := j.writer.WriteByte('\n'); err != nil {
			return &JSONWriterError{Op: "write", Err: err}
		}
	}
	if _, err := j.writer.Write(data); err != nil {
		return &JSONWriterError{Op: "write", Err: err}
	}
	j.lines++
	return nil
}

// Flush implements the DataSink interface
func (j *JSONLinesWriter) Flush() error {
	if err := j.writer.Flush(); err != nil {
		return &JSONWriterError{Op: "flush", Err: err}
	}
	return nil
}

// Close implements the DataSink interface
func (j *JSONLinesWriter) Close() error {
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
func (j *JSONLinesWriter) Abort() error {
	return abortCloser(j.closer)
}

func abortCloser(c io.Closer) error {
	if aborter, ok := c.(core.Aborter); ok {
		return aborter.Abort()
	}
	if c != nil {
		return c.Close()
	}
	return nil
}
