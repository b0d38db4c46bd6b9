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

// Package extract exports a MongoDB collection to a JSON array file.
package extract

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aaronlmathis/leadset"
	"github.com/aaronlmathis/leadset/config"
	"github.com/aaronlmathis/leadset/core"
	"github.com/aaronlmathis/leadset/readers"
	"github.com/aaronlmathis/leadset/types"
)

// Run exports every document of the configured collection to cfg.ExportPath
// and returns the number of documents written. The client is disconnected on
// every path.
func Run(ctx context.Context, cfg config.Config, logger *zap.Logger) (int64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	reader, err := readers.NewMongoReader(
		readers.WithMongoURI(cfg.MongoURI),
		readers.WithMongoDB(cfg.Database),
		readers.WithMongoCollection(cfg.Collection),
		readers.WithMongoTimeout(cfg.Timeout),
	)
	if err != nil {
		return 0, err
	}

	logger.Info("connecting to MongoDB",
		zap.String("database", cfg.Database),
		zap.String("collection", cfg.Collection),
		zap.Duration("timeout", cfg.Timeout))
	if err := reader.Connect(ctx); err != nil {
		reader.Close()
		return 0, err
	}

	n, err := Export(ctx, reader, cfg.ExportPath, logger)
	if err != nil {
		return 0, err
	}

	stats := reader.Stats()
	logger.Debug("mongo reader stats",
		zap.Int64("documents", stats.Documents),
		zap.Duration("read_time", stats.ReadTime))
	return n, nil
}

// Export copies every record of source into a JSON array file at path.
// source is closed before Export returns. The file at path is only replaced
// when the whole export succeeds.
func Export(ctx context.Context, source core.DataSource, path string, logger *zap.Logger) (int64, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	sink, err := types.FileLocation{Path: path}.NewSink(types.FormatJSONArray)
	if err != nil {
		source.Close()
		return 0, err
	}

	pipeline, err := leadset.NewPipeline().
		From(source).
		To(sink).
		WithErrorStrategy(core.FailFast).
		Build()
	if err != nil {
		source.Close()
		if aborter, ok := sink.(core.Aborter); ok {
			aborter.Abort()
		}
		return 0, err
	}

	logger.Info("exporting documents", zap.String("path", path))
	if err := pipeline.Execute(ctx); err != nil {
		return 0, fmt.Errorf("export to %s: %w", path, err)
	}

	return pipeline.Stats().RecordsWritten, nil
}
