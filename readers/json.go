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

package readers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aaronlmathis/leadset/core"
)

// JSONReaderError reports a failure that leaves the input unreadable.
type JSONReaderError struct {
	Op  string // "open", "decode" or "close"
	Err error
}

func (e *JSONReaderError) Error() string {
	return fmt.Sprintf("json reader %s: %v", e.Op, e.Err)
}

func (e *JSONReaderError) Unwrap() error {
	return e.Err
}

// ElementError reports an array element that is valid JSON but not an object.
// The reader stays usable after returning it.
type ElementError struct {
	Index int    // 1-based position in the array
	Kind  string // JSON kind of the offending value
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("element %d is a JSON %s, expected an object", e.Index, e.Kind)
}

// RecordLevel implements core.RecordLevel.
func (e *ElementError) RecordLevel() bool { return true }

// JSONArrayReader implements DataSource for a file holding a single JSON array of objects.
// Elements are decoded one at a time, so the array is never held in memory as a whole.
type JSONArrayReader struct {
	decoder *json.Decoder
	closer  io.Closer
	started bool
	done    bool
	index   int
	err     error // first fatal error, returned by every later Read
}

// NewJSONArrayReader creates a new reader over a JSON array document
func NewJSONArrayReader(r io.ReadCloser) *JSONArrayReader {
	return &JSONArrayReader{
		decoder: json.NewDecoder(bufio.NewReader(r)),
		closer:  r,
	}
}

// Read implements the DataSource interface.
// Syntax errors and a top-level value that is not an array are returned as
// *JSONReaderError, and keep being returned by later calls. A non-object
// element is returned as *ElementError and the next call moves past it.
func (j *JSONArrayReader) Read(ctx context.Context) (core.Record, error) {
	if j.err != nil {
		return nil, j.err
	}
	if j.done {
		return nil, io.EOF
	}

	record, err := j.next()
	if err != nil && err != io.EOF && !core.IsRecordLevel(err) {
		j.err = err
	}
	return record, err
}

func (j *JSONArrayReader) next() (core.Record, error) {
	if !j.started {
		if err := j.expectDelim('['); err != nil {
			return nil, &JSONReaderError{Op: "open", Err: err}
		}
		j.started = true
	}

	if !j.decoder.More() {
		if err := j.expectDelim(']'); err != nil {
			return nil, &JSONReaderError{Op: "decode", Err: err}
		}
		if _, err := j.decoder.Token(); err != io.EOF {
			return nil, &JSONReaderError{Op: "decode", Err: fmt.Errorf("unexpected data after JSON array")}
		}
		j.done = true
		return nil, io.EOF
	}

	var value interface{}
	if err := j.decoder.Decode(&value); err != nil {
		return nil, &JSONReaderError{Op: "decode", Err: noEOF(err)}
	}
	j.index++

	obj, ok := value.(map[string]interface{})
	if !ok {
		return nil, &ElementError{Index: j.index, Kind: jsonKind(value)}
	}

	return core.Record(obj), nil
}

// Close implements the DataSource interface
func (j *JSONArrayReader) Close() error {
	if j.closer != nil {
		if err := j.closer.Close(); err != nil {
			return &JSONReaderError{Op: "close", Err: err}
		}
	}
	return nil
}

func (j *JSONArrayReader) expectDelim(want json.Delim) error {
	tok, err := j.decoder.Token()
	if err != nil {
		return noEOF(err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return fmt.Errorf("expected %q, found %v", want, tok)
	}
	return nil
}

// noEOF keeps a truncated document from looking like a clean end of input.
func noEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

func jsonKind(value interface{}) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []interface{}:
		return "array"
	default:
		return fmt.Sprintf("%T", value)
	}
}
