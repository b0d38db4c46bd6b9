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

// Command leads-dataset converts leads.json into leads.jsonl, one
// {"text", "label"} training example per line, and prints a summary.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/aaronlmathis/leadset/config"
	"github.com/aaronlmathis/leadset/dataset"
	"github.com/aaronlmathis/leadset/report"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	summary, err := dataset.Build(ctx, dataset.Options{
		InputPath:  cfg.ExportPath,
		OutputPath: cfg.DatasetPath,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("dataset build failed", zap.Error(err))
	}

	if err := report.Write(os.Stdout, summary); err != nil {
		logger.Fatal("failed to print summary", zap.Error(err))
	}
}
