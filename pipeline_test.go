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

package leadset

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aaronlmathis/leadset/core"
	"github.com/aaronlmathis/leadset/readers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceSource serves records from memory; errs injects an error at an index.
type sliceSource struct {
	records []core.Record
	errs    map[int]error
	next    int
	closed  bool
}

func (s *sliceSource) Read(ctx context.Context) (core.Record, error) {
	if s.next >= len(s.records) {
		return nil, io.EOF
	}
	i := s.next
	s.next++
	if err, ok := s.errs[i]; ok {
		return nil, err
	}
	return s.records[i], nil
}

func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}

// memorySink collects written records
type memorySink struct {
	records  []core.Record
	failOn   int
	flushed  bool
	closed   bool
	aborted  bool
	failNext error
}

func (m *memorySink) Write(ctx context.Context, record core.Record) error {
	if m.failNext != nil && len(m.records) == m.failOn {
		return m.failNext
	}
	m.records = append(m.records, record)
	return nil
}

func (m *memorySink) Flush() error {
	m.flushed = true
	return nil
}

func (m *memorySink) Close() error {
	m.closed = true
	return nil
}

func (m *memorySink) Abort() error {
	m.aborted = true
	return nil
}

type countingObserver struct {
	seen   []core.Record
	resets int
}

func (c *countingObserver) Add(ctx context.Context, record core.Record) error {
	c.seen = append(c.seen, record)
	return nil
}

func (c *countingObserver) Reset() {
	c.resets++
	c.seen = nil
}

var errBoom = errors.New("boom")

// badElement is a source error that only affects the record being read
type badElement struct{}

func (badElement) Error() string     { return "bad element" }
func (badElement) RecordLevel() bool { return true }

func upperName(ctx context.Context, r core.Record) (core.Record, error) {
	name, ok := r["name"].(string)
	if !ok {
		return nil, errBoom
	}
	out := r.Clone()
	out["name"] = name + "!"
	return out, nil
}

// TestPipeline_Execute tests transform, filter and write in order
func TestPipeline_Execute(t *testing.T) {
	source := &sliceSource{records: []core.Record{
		{"name": "a", "keep": true},
		{"name": "b", "keep": false},
		{"name": "c", "keep": true},
	}}
	sink := &memorySink{}
	observer := &countingObserver{}

	var skipped []int
	p, err := NewPipeline().
		From(source).
		Transform(core.TransformFunc(upperName)).
		Filter(core.FilterFunc(func(ctx context.Context, r core.Record) (bool, error) {
			return r["keep"].(bool), nil
		})).
		To(sink).
		OnSkip(func(ctx context.Context, position int, record core.Record) {
			skipped = append(skipped, position)
		}).
		Observe(observer).
		Build()
	require.NoError(t, err)

	require.NoError(t, p.Execute(context.Background()))

	require.Len(t, sink.records, 2)
	assert.Equal(t, "a!", sink.records[0]["name"])
	assert.Equal(t, "c!", sink.records[1]["name"])
	assert.Equal(t, []int{2}, skipped)
	assert.Len(t, observer.seen, 2)
	assert.Equal(t, 1, observer.resets)

	assert.True(t, source.closed)
	assert.True(t, sink.flushed)
	assert.True(t, sink.closed)
	assert.False(t, sink.aborted)

	assert.Equal(t, PipelineStats{RecordsRead: 3, RecordsWritten: 2, RecordsSkipped: 1}, p.Stats())
}

// TestPipeline_FailFast tests that the first error stops the run and aborts the sink
func TestPipeline_FailFast(t *testing.T) {
	source := &sliceSource{records: []core.Record{{"name": "a"}, {"name": 1}, {"name": "c"}}}
	sink := &memorySink{}

	p, err := NewPipeline().From(source).Transform(core.TransformFunc(upperName)).To(sink).Build()
	require.NoError(t, err)

	err = p.Execute(context.Background())
	require.Error(t, err)

	var recErr *core.RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, 2, recErr.Position)
	assert.ErrorIs(t, err, errBoom)

	assert.True(t, sink.aborted)
	assert.False(t, sink.closed)
	assert.True(t, source.closed)
}

// TestPipeline_SkipErrors tests per-record error absorption and counting
func TestPipeline_SkipErrors(t *testing.T) {
	source := &sliceSource{
		records: []core.Record{{"name": "a"}, {"name": 1}, nil, {"name": "d"}},
		errs:    map[int]error{2: badElement{}},
	}
	sink := &memorySink{}

	var positions []int
	p, err := NewPipeline().
		From(source).
		Transform(core.TransformFunc(upperName)).
		To(sink).
		WithErrorStrategy(core.SkipErrors).
		WithErrorHandler(core.ErrorHandlerFunc(func(ctx context.Context, record core.Record, err error) error {
			var recErr *core.RecordError
			require.ErrorAs(t, err, &recErr)
			positions = append(positions, recErr.Position)
			return nil
		})).
		Build()
	require.NoError(t, err)

	require.NoError(t, p.Execute(context.Background()))

	assert.Equal(t, []int{2, 3}, positions)
	assert.Len(t, sink.records, 2)

	stats := p.Stats()
	assert.Equal(t, int64(4), stats.RecordsRead)
	assert.Equal(t, int64(2), stats.RecordsWritten)
	assert.Equal(t, int64(2), stats.RecordsFailed)
	assert.Equal(t, stats.RecordsRead, stats.RecordsWritten+stats.RecordsSkipped+stats.RecordsFailed)
}

// TestPipeline_HandlerStops tests that a handler can escalate an error
func TestPipeline_HandlerStops(t *testing.T) {
	source := &sliceSource{records: []core.Record{{"name": 1}}}
	sink := &memorySink{}
	fatal := errors.New("fatal")

	p, err := NewPipeline().
		From(source).
		Transform(core.TransformFunc(upperName)).
		To(sink).
		WithErrorStrategy(core.SkipErrors).
		WithErrorHandler(core.ErrorHandlerFunc(func(ctx context.Context, record core.Record, err error) error {
			return fatal
		})).
		Build()
	require.NoError(t, err)

	assert.ErrorIs(t, p.Execute(context.Background()), fatal)
	assert.True(t, sink.aborted)
}

// TestPipeline_SinkWriteError tests write failures under FailFast
func TestPipeline_SinkWriteError(t *testing.T) {
	source := &sliceSource{records: []core.Record{{"name": "a"}, {"name": "b"}}}
	sink := &memorySink{failOn: 1, failNext: io.ErrShortWrite}

	p, err := NewPipeline().From(source).To(sink).Build()
	require.NoError(t, err)

	err = p.Execute(context.Background())
	assert.ErrorIs(t, err, io.ErrShortWrite)
	assert.True(t, sink.aborted)
}

// TestPipeline_EmptyTransform tests that emptied records count as skipped
func TestPipeline_EmptyTransform(t *testing.T) {
	source := &sliceSource{records: []core.Record{{"name": "a"}, {}}}
	sink := &memorySink{}

	var skipped []int
	p, err := NewPipeline().
		From(source).
		Transform(core.TransformFunc(func(ctx context.Context, r core.Record) (core.Record, error) { return r, nil })).
		To(sink).
		OnSkip(func(ctx context.Context, position int, record core.Record) {
			skipped = append(skipped, position)
		}).
		Build()
	require.NoError(t, err)

	require.NoError(t, p.Execute(context.Background()))
	assert.Equal(t, []int{2}, skipped)
	assert.Equal(t, int64(1), p.Stats().RecordsSkipped)
}

// TestPipeline_Cancelled tests context cancellation
func TestPipeline_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &memorySink{}
	p, err := NewPipeline().From(&sliceSource{records: []core.Record{{"a": 1}}}).To(sink).Build()
	require.NoError(t, err)

	assert.ErrorIs(t, p.Execute(ctx), context.Canceled)
	assert.True(t, sink.aborted)
	assert.Empty(t, sink.records)
}

// TestPipelineBuilder_Validation tests required components
func TestPipelineBuilder_Validation(t *testing.T) {
	_, err := NewPipeline().To(&memorySink{}).Build()
	assert.Error(t, err)

	_, err = NewPipeline().From(&sliceSource{}).Build()
	assert.Error(t, err)
}

// TestPipeline_SourceErrorStopsSkipErrors tests that a source error that is not
// record-level ends the run even when errors are skipped
func TestPipeline_SourceErrorStopsSkipErrors(t *testing.T) {
	source := readers.NewJSONArrayReader(io.NopCloser(strings.NewReader(`[{"a": 1}, {bad`)))
	sink := &memorySink{}

	handled := 0
	p, err := NewPipeline().
		From(source).
		To(sink).
		WithErrorStrategy(core.SkipErrors).
		WithErrorHandler(core.ErrorHandlerFunc(func(ctx context.Context, record core.Record, err error) error {
			handled++
			return nil
		})).
		Build()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err = p.Execute(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)

	var readerErr *readers.JSONReaderError
	require.ErrorAs(t, err, &readerErr)
	assert.Equal(t, "decode", readerErr.Op)

	var recErr *core.RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, 2, recErr.Position)

	assert.Zero(t, handled)
	assert.True(t, sink.aborted)
	assert.Equal(t, PipelineStats{RecordsRead: 2, RecordsWritten: 1, RecordsFailed: 1}, p.Stats())
}

// TestPipeline_SourceErrorNoHandler tests SkipErrors without a handler on a broken source
func TestPipeline_SourceErrorNoHandler(t *testing.T) {
	source := &sliceSource{
		records: []core.Record{{"name": "a"}, nil, {"name": "c"}},
		errs:    map[int]error{1: errBoom},
	}
	sink := &memorySink{}

	p, err := NewPipeline().From(source).To(sink).WithErrorStrategy(core.SkipErrors).Build()
	require.NoError(t, err)

	assert.ErrorIs(t, p.Execute(context.Background()), errBoom)
	assert.Len(t, sink.records, 1)
	assert.True(t, sink.aborted)
}
