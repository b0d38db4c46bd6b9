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

// Package dataset builds the JSON Lines training set from an exported lead file.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/aaronlmathis/leadset"
	"github.com/aaronlmathis/leadset/aggregate"
	"github.com/aaronlmathis/leadset/core"
	"github.com/aaronlmathis/leadset/lead"
	"github.com/aaronlmathis/leadset/readers"
	"github.com/aaronlmathis/leadset/report"
	"github.com/aaronlmathis/leadset/types"
)

// SampleSize is the number of example texts kept for the summary.
const SampleSize = 5

// Options configures a build.
type Options struct {
	InputPath  string
	OutputPath string
	Logger     *zap.Logger
}

// Build reads the lead array at opts.InputPath, writes one example per usable
// lead to opts.OutputPath and returns the summary of the run.
//
// Leads that fail to convert are logged with their 1-based position and
// skipped. An unreadable or malformed input file, or a failed write, aborts the
// build and leaves any existing output file untouched.
func Build(ctx context.Context, opts Options) (report.Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Info("reading leads", zap.String("path", opts.InputPath))
	file, err := os.Open(opts.InputPath)
	if err != nil {
		return report.Summary{}, fmt.Errorf("failed to open leads: %w", err)
	}
	source := readers.NewJSONArrayReader(file)

	sink, err := types.FileLocation{
		Path:   opts.OutputPath,
		Fields: []string{lead.FieldText, lead.FieldLabel},
	}.NewSink(types.FormatJSONLines)
	if err != nil {
		source.Close()
		return report.Summary{}, err
	}

	tags := aggregate.NewTagCounter(lead.FieldText)
	samples := aggregate.NewSampler(lead.FieldText, SampleSize)

	pipeline, err := leadset.NewPipeline().
		From(source).
		Transform(lead.Assemble()).
		Transform(lead.Normalize()).
		Transform(lead.Label()).
		Filter(lead.SufficientContent()).
		To(sink).
		WithErrorStrategy(core.SkipErrors).
		WithErrorHandler(recordErrorHandler(logger)).
		OnSkip(func(ctx context.Context, position int, record core.Record) {
			logger.Warn("skipping lead: insufficient text content", zap.Int("position", position))
		}).
		Observe(tags).
		Observe(samples).
		Build()
	if err != nil {
		source.Close()
		if aborter, ok := sink.(core.Aborter); ok {
			aborter.Abort()
		}
		return report.Summary{}, err
	}

	if err := pipeline.Execute(ctx); err != nil {
		return report.Summary{}, fmt.Errorf("build dataset from %s: %w", opts.InputPath, err)
	}

	stats := pipeline.Stats()
	logger.Info("dataset written",
		zap.String("path", opts.OutputPath),
		zap.Int64("read", stats.RecordsRead),
		zap.Int64("written", stats.RecordsWritten),
		zap.Int64("skipped", stats.RecordsSkipped),
		zap.Int64("failed", stats.RecordsFailed))

	return report.Summary{
		Input:       stats.RecordsRead,
		Transformed: stats.RecordsWritten,
		Skipped:     stats.RecordsSkipped,
		Failed:      stats.RecordsFailed,
		OutputPath:  opts.OutputPath,
		Samples:     samples.Samples(),
		Platforms:   tags.Tags(),
	}, nil
}

// recordErrorHandler logs and absorbs errors confined to one lead. Everything
// else stops the build.
func recordErrorHandler(logger *zap.Logger) core.ErrorHandler {
	return core.ErrorHandlerFunc(func(ctx context.Context, record core.Record, err error) error {
		if !IsRecordLevel(err) {
			return err
		}
		position := 0
		var recErr *core.RecordError
		if errors.As(err, &recErr) {
			position = recErr.Position
		}
		logger.Error("error processing lead", zap.Int("position", position), zap.Error(err))
		return nil
	})
}

// IsRecordLevel reports whether err only affects the record it was raised for.
func IsRecordLevel(err error) bool {
	return errors.Is(err, lead.ErrShape) || core.IsRecordLevel(err)
}
