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

// Package config resolves the settings of the leadset tools. Only the MongoDB
// connection URI comes from the environment; everything else is fixed.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// EnvMongoURI names the variable holding the MongoDB connection string.
const EnvMongoURI = "MONGODB_URI"

const (
	DefaultDatabase    = "edithunt"
	DefaultCollection  = "leads"
	DefaultExportPath  = "leads.json"
	DefaultDatasetPath = "leads.jsonl"
	DefaultEnvFile     = ".env"

	// DefaultTimeout bounds connecting to and disconnecting from MongoDB.
	DefaultTimeout = 30 * time.Second
)

var (
	// ErrMissingURI is returned by Validate when no connection URI is configured.
	ErrMissingURI = errors.New(EnvMongoURI + " is not set")
	// ErrInvalidTimeout is returned by Validate for a zero or negative Timeout.
	ErrInvalidTimeout = errors.New("mongo timeout must be positive")
)

// Config holds the settings shared by both tools.
type Config struct {
	MongoURI    string
	Database    string
	Collection  string
	ExportPath  string
	DatasetPath string
	Timeout     time.Duration
}

// Load reads .env from the working directory, if present, and then the process
// environment. Variables already set in the environment win over .env.
func Load() (Config, error) {
	return LoadFile(DefaultEnvFile)
}

// LoadFile is Load with an explicit env file path.
func LoadFile(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	return Config{
		MongoURI:    os.Getenv(EnvMongoURI),
		Database:    DefaultDatabase,
		Collection:  DefaultCollection,
		ExportPath:  DefaultExportPath,
		DatasetPath: DefaultDatasetPath,
		Timeout:     DefaultTimeout,
	}, nil
}

// Validate reports settings the exporter cannot run without.
func (c Config) Validate() error {
	if c.MongoURI == "" {
		return ErrMissingURI
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}
