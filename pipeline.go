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
	"fmt"
	"io"

	"github.com/aaronlmathis/leadset/aggregate"
	"github.com/aaronlmathis/leadset/core"
)

// Package leadset provides the record pipeline behind the leadset tools: one
// exports a MongoDB collection to a JSON array file, the other turns that file
// into a JSON Lines text-classification dataset.
//
// Core Concepts:
//   - DataSource: Interface for reading records (MongoDB collection, JSON array file).
//   - DataSink: Interface for writing records (JSON array file, JSON Lines file).
//   - Transformer: Interface for transforming records.
//   - Filter: Interface for dropping records that should not reach the sink.
//   - Pipeline: record-by-record processing with per-record error routing.
//
// Example usage:
//
//   pipeline, err := leadset.NewPipeline().
//       From(reader).
//       Transform(lead.Assemble()).
//       Transform(lead.Normalize()).
//       Filter(lead.SufficientContent()).
//       To(writer).
//       WithErrorStrategy(core.SkipErrors).
//       Build()
//   if err != nil { log.Fatal(err) }
//   if err := pipeline.Execute(context.Background()); err != nil { log.Fatal(err) }

// SkipHandler is called for every record a filter rejects or a transformer empties.
// position is the 1-based input position of the record.
type SkipHandler func(ctx context.Context, position int, record core.Record)

// PipelineStats counts what happened to the records of one Execute call.
// RecordsRead always equals RecordsWritten + RecordsSkipped + RecordsFailed
// once Execute returns nil.
type PipelineStats struct {
	RecordsRead    int64
	RecordsWritten int64
	RecordsSkipped int64
	RecordsFailed  int64
}

// PipelineBuilder provides a fluent API for constructing transformation pipelines.
// Use NewPipeline() to create a new builder, then chain From, Transform, Filter, To, and configuration methods.
type PipelineBuilder struct {
	pipeline *Pipeline
}

// NewPipeline creates a new PipelineBuilder for constructing an ETL pipeline.
func NewPipeline() *PipelineBuilder {
	return &PipelineBuilder{
		pipeline: &Pipeline{
			transformers: make([]core.Transformer, 0),
			filters:      make([]core.Filter, 0),
			strategy:     core.FailFast,
		},
	}
}

// From sets the DataSource for the pipeline.
func (pb *PipelineBuilder) From(source core.DataSource) *PipelineBuilder {
	pb.pipeline.source = source
	return pb
}

// Transform adds a Transformer to the pipeline.
// Transformers run in the order they were added.
func (pb *PipelineBuilder) Transform(transformer core.Transformer) *PipelineBuilder {
	pb.pipeline.transformers = append(pb.pipeline.transformers, transformer)
	return pb
}

// Filter adds a Filter to the pipeline. Filters run after all transformers.
func (pb *PipelineBuilder) Filter(filter core.Filter) *PipelineBuilder {
	pb.pipeline.filters = append(pb.pipeline.filters, filter)
	return pb
}

// To sets the DataSink for the pipeline.
func (pb *PipelineBuilder) To(sink core.DataSink) *PipelineBuilder {
	pb.pipeline.sink = sink
	return pb
}

// WithErrorStrategy sets the error handling strategy for the pipeline.
func (pb *PipelineBuilder) WithErrorStrategy(strategy core.ErrorStrategy) *PipelineBuilder {
	pb.pipeline.strategy = strategy
	return pb
}

// WithErrorHandler sets a custom error handler for the pipeline.
// The handler only runs under SkipErrors and receives errors wrapped in *core.RecordError.
func (pb *PipelineBuilder) WithErrorHandler(handler core.ErrorHandler) *PipelineBuilder {
	pb.pipeline.errorHandler = handler
	return pb
}

// OnSkip registers a callback for records that are dropped without error.
func (pb *PipelineBuilder) OnSkip(handler SkipHandler) *PipelineBuilder {
	pb.pipeline.onSkip = handler
	return pb
}

// Observe registers an Aggregator that sees every written record.
// Aggregators are reset at the start of each Execute call.
func (pb *PipelineBuilder) Observe(agg aggregate.Aggregator) *PipelineBuilder {
	pb.pipeline.observers = append(pb.pipeline.observers, agg)
	return pb
}

// Build validates and constructs the Pipeline from the builder.
func (pb *PipelineBuilder) Build() (*Pipeline, error) {
	if pb.pipeline.source == nil {
		return nil, fmt.Errorf("pipeline requires a data source")
	}
	if pb.pipeline.sink == nil {
		return nil, fmt.Errorf("pipeline requires a data sink")
	}
	return pb.pipeline, nil
}

// Pipeline represents a data processing pipeline for streaming ETL operations.
//
// Use Execute to process all records from the DataSource through transformations and filters, writing to the DataSink.
type Pipeline struct {
	transformers []core.Transformer
	filters      []core.Filter
	observers    []aggregate.Aggregator
	source       core.DataSource
	sink         core.DataSink
	strategy     core.ErrorStrategy
	errorHandler core.ErrorHandler
	onSkip       SkipHandler
	stats        PipelineStats
}

// Execute runs the pipeline, processing all records from source to sink.
//
// The source is always closed. On success the sink is flushed and closed; on
// failure a sink implementing core.Aborter is aborted instead, so nothing
// half-written is committed.
func (p *Pipeline) Execute(ctx context.Context) (err error) {
	p.stats = PipelineStats{}
	for _, observer := range p.observers {
		observer.Reset()
	}

	defer func() {
		p.source.Close()
		err = p.finish(err)
	}()

	position := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		record, err := p.source.Read(ctx)
		if err == io.EOF {
			break
		}
		position++
		p.stats.RecordsRead++
		if err != nil {
			// Only record-level source errors leave the source readable.
			if !core.IsRecordLevel(err) {
				p.stats.RecordsFailed++
				return &core.RecordError{Position: position, Err: err}
			}
			if err := p.handleError(ctx, position, record, err); err != nil {
				return err
			}
			continue
		}

		// Apply transformations
		transformedRecord, err := p.applyTransformations(ctx, record)
		if err != nil {
			if err := p.handleError(ctx, position, record, err); err != nil {
				return err
			}
			continue
		}

		// Empty transformed records are dropped
		if len(transformedRecord) == 0 {
			p.skip(ctx, position, record)
			continue
		}

		// Apply filters
		shouldInclude, err := p.applyFilters(ctx, transformedRecord)
		if err != nil {
			if err := p.handleError(ctx, position, record, err); err != nil {
				return err
			}
			continue
		}
		if !shouldInclude {
			p.skip(ctx, position, record)
			continue
		}

		// Write to sink
		if err := p.sink.Write(ctx, transformedRecord); err != nil {
			if err := p.handleError(ctx, position, transformedRecord, err); err != nil {
				return err
			}
			continue
		}
		p.stats.RecordsWritten++

		for _, observer := range p.observers {
			if err := observer.Add(ctx, transformedRecord); err != nil {
				return fmt.Errorf("observer failed on record %d: %w", position, err)
			}
		}
	}

	return nil
}

// Stats returns the counters of the last Execute call.
func (p *Pipeline) Stats() PipelineStats {
	return p.stats
}

// finish commits or discards the sink depending on the outcome of the run.
func (p *Pipeline) finish(runErr error) error {
	if runErr != nil {
		if aborter, ok := p.sink.(core.Aborter); ok {
			aborter.Abort()
		} else {
			p.sink.Close()
		}
		return runErr
	}

	if err := p.sink.Flush(); err != nil {
		if aborter, ok := p.sink.(core.Aborter); ok {
			aborter.Abort()
		}
		return fmt.Errorf("failed to flush sink: %w", err)
	}
	if err := p.sink.Close(); err != nil {
		return fmt.Errorf("failed to close sink: %w", err)
	}
	return nil
}

func (p *Pipeline) skip(ctx context.Context, position int, record core.Record) {
	p.stats.RecordsSkipped++
	if p.onSkip != nil {
		p.onSkip(ctx, position, record)
	}
}

// applyFilters applies all configured filters to a record.
func (p *Pipeline) applyFilters(ctx context.Context, record core.Record) (bool, error) {
	for _, filter := range p.filters {
		include, err := filter.ShouldInclude(ctx, record)
		if err != nil {
			return false, err
		}
		if !include {
			return false, nil
		}
	}
	return true, nil
}

// applyTransformations applies all configured transformers to a record in sequence.
func (p *Pipeline) applyTransformations(ctx context.Context, record core.Record) (core.Record, error) {
	current := record
	for _, transformer := range p.transformers {
		transformed, err := transformer.Transform(ctx, current)
		if err != nil {
			return nil, err
		}
		current = transformed
	}
	return current, nil
}

// handleError handles errors according to the pipeline's error strategy and handler.
// Returns an error if processing should stop, or nil to continue.
func (p *Pipeline) handleError(ctx context.Context, position int, record core.Record, err error) error {
	wrapped := &core.RecordError{Position: position, Err: err}

	switch p.strategy {
	case core.FailFast:
		return wrapped
	case core.SkipErrors:
		if p.errorHandler != nil {
			if err := p.errorHandler.HandleError(ctx, record, wrapped); err != nil {
				return err
			}
		}
		p.stats.RecordsFailed++
		return nil
	default:
		return wrapped
	}
}
