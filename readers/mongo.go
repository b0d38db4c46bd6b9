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
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aaronlmathis/leadset/core"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// This file holds the MongoDB source used by the exporter. It runs a single
// unfiltered, unsorted find over one collection, so documents arrive in the
// order the server yields them.

// isoMillis is the layout JavaScript's Date.prototype.toJSON produces.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

const (
	defaultMongoTimeout = 30 * time.Second
	cursorBatchSize     = 1000
)

// MongoReaderError provides structured error information for MongoDB reader operations
type MongoReaderError struct {
	Op         string // "validate", "connect", "ping", "find", "cursor", "decode" or "close"
	Collection string
	Err        error
}

func (e *MongoReaderError) Error() string {
	if e.Collection != "" {
		return fmt.Sprintf("mongo reader %s [%s]: %v", e.Op, e.Collection, e.Err)
	}
	return fmt.Sprintf("mongo reader %s: %v", e.Op, e.Err)
}

func (e *MongoReaderError) Unwrap() error {
	return e.Err
}

// MongoReaderStats describes one export.
type MongoReaderStats struct {
	Documents int64         // documents returned by Read
	ReadTime  time.Duration // time spent inside Read, including the find
}

// MongoReaderOptions configures the MongoDB reader
type MongoReaderOptions struct {
	URI        string
	Database   string
	Collection string
	// Timeout bounds server selection, connecting, the ping and the disconnect.
	Timeout time.Duration
}

// ReaderOptionMongo is a functional option for MongoReaderOptions
type ReaderOptionMongo func(*MongoReaderOptions)

func WithMongoURI(uri string) ReaderOptionMongo {
	return func(opts *MongoReaderOptions) {
		opts.URI = uri
	}
}

func WithMongoDB(database string) ReaderOptionMongo {
	return func(opts *MongoReaderOptions) {
		opts.Database = database
	}
}

func WithMongoCollection(collection string) ReaderOptionMongo {
	return func(opts *MongoReaderOptions) {
		opts.Collection = collection
	}
}

// WithMongoTimeout overrides the 30 second default.
func WithMongoTimeout(timeout time.Duration) ReaderOptionMongo {
	return func(opts *MongoReaderOptions) {
		opts.Timeout = timeout
	}
}

// MongoReader implements core.DataSource over every document of one collection.
type MongoReader struct {
	opts   MongoReaderOptions
	client *mongo.Client
	cursor *mongo.Cursor
	stats  MongoReaderStats
}

// NewMongoReader validates the options. No connection is made until Connect
// or the first Read.
func NewMongoReader(opts ...ReaderOptionMongo) (*MongoReader, error) {
	cfg := MongoReaderOptions{Timeout: defaultMongoTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	var missing string
	switch {
	case cfg.URI == "":
		missing = "connection URI"
	case cfg.Database == "":
		missing = "database name"
	case cfg.Collection == "":
		missing = "collection name"
	}
	if missing != "" {
		return nil, &MongoReaderError{Op: "validate", Err: fmt.Errorf("%s is required", missing)}
	}
	if cfg.Timeout <= 0 {
		return nil, &MongoReaderError{Op: "validate", Err: fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)}
	}

	return &MongoReader{opts: cfg}, nil
}

// Connect opens the client and pings the server, so a bad URI or an
// unreachable server fails here rather than on the first Read.
func (mr *MongoReader) Connect(ctx context.Context) error {
	if mr.client != nil {
		return nil
	}

	client, err := mongo.Connect(ctx, mr.clientOptions())
	if err != nil {
		return &MongoReaderError{Op: "connect", Err: err}
	}

	pingCtx, cancel := context.WithTimeout(ctx, mr.opts.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		mr.disconnect(client)
		return &MongoReaderError{Op: "ping", Err: err}
	}

	mr.client = client
	return nil
}

func (mr *MongoReader) clientOptions() *options.ClientOptions {
	return options.Client().
		ApplyURI(mr.opts.URI).
		SetConnectTimeout(mr.opts.Timeout).
		SetServerSelectionTimeout(mr.opts.Timeout)
}

// Read implements the core.DataSource interface. Every error it returns is
// fatal for the export.
func (mr *MongoReader) Read(ctx context.Context) (core.Record, error) {
	start := time.Now()
	defer func() { mr.stats.ReadTime += time.Since(start) }()

	if mr.cursor == nil {
		if err := mr.Connect(ctx); err != nil {
			return nil, err
		}
		coll := mr.client.Database(mr.opts.Database).Collection(mr.opts.Collection)
		cursor, err := coll.Find(ctx, bson.D{}, options.Find().SetBatchSize(cursorBatchSize))
		if err != nil {
			return nil, mr.fail("find", err)
		}
		mr.cursor = cursor
	}

	if !mr.cursor.Next(ctx) {
		if err := mr.cursor.Err(); err != nil {
			return nil, mr.fail("cursor", err)
		}
		return nil, io.EOF
	}

	var doc bson.M
	if err := mr.cursor.Decode(&doc); err != nil {
		return nil, mr.fail("decode", err)
	}

	mr.stats.Documents++
	return documentRecord(doc), nil
}

// Close implements the core.DataSource interface. It is safe to call more than
// once and before Connect.
func (mr *MongoReader) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mr.opts.Timeout)
	defer cancel()

	var errs []error
	if mr.cursor != nil {
		if err := mr.cursor.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("cursor: %w", err))
		}
		mr.cursor = nil
	}
	if mr.client != nil {
		if err := mr.client.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("disconnect: %w", err))
		}
		mr.client = nil
	}

	if err := errors.Join(errs...); err != nil {
		return mr.fail("close", err)
	}
	return nil
}

// Stats returns counters for the reads made so far.
func (mr *MongoReader) Stats() MongoReaderStats {
	return mr.stats
}

func (mr *MongoReader) fail(op string, err error) error {
	return &MongoReaderError{Op: op, Collection: mr.opts.Collection, Err: err}
}

func (mr *MongoReader) disconnect(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), mr.opts.Timeout)
	defer cancel()
	client.Disconnect(ctx)
}

// documentRecord converts a decoded document into plain JSON values. Store
// types with no JSON form are written as strings.
func documentRecord(doc bson.M) core.Record {
	record := make(core.Record, len(doc))
	for key, value := range doc {
		record[key] = jsonValue(value)
	}
	return record
}

func jsonValue(value interface{}) interface{} {
	switch v := value.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case primitive.DateTime:
		return v.Time().UTC().Format(isoMillis)
	case primitive.Timestamp:
		return time.Unix(int64(v.T), 0).UTC().Format(isoMillis)
	case primitive.Decimal128:
		return v.String()
	case primitive.Regex:
		return v.Pattern
	case primitive.Null, primitive.Undefined:
		return nil
	case bson.M:
		return map[string]interface{}(documentRecord(v))
	case bson.D:
		out := make(map[string]interface{}, len(v))
		for _, elem := range v {
			out[elem.Key] = jsonValue(elem.Value)
		}
		return out
	case bson.A:
		out := make([]interface{}, len(v))
		for i, elem := range v {
			out[i] = jsonValue(elem)
		}
		return out
	default:
		return v
	}
}
