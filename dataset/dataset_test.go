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

package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aaronlmathis/leadset/aggregate"
	"github.com/aaronlmathis/leadset/lead"
)

type fixture struct {
	dir    string
	input  string
	output string
}

func newFixture(t *testing.T, input string) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:    dir,
		input:  filepath.Join(dir, "leads.json"),
		output: filepath.Join(dir, "leads.jsonl"),
	}
	require.NoError(t, os.WriteFile(f.input, []byte(input), 0o644))
	return f
}

func (f fixture) options(logger *zap.Logger) Options {
	return Options{InputPath: f.input, OutputPath: f.output, Logger: logger}
}

func (f fixture) readOutput(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(f.output)
	require.NoError(t, err)
	return string(data)
}

// TestBuild_Scenarios tests the documented input/output pairs
func TestBuild_Scenarios(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "reddit",
			input: `[{"platform":"Reddit","title":"Hello","content":"World  now"}]`,
			want:  `{"text":"[REDDIT] Hello World now","label":1}`,
		},
		{
			name:  "linkedin",
			input: `[{"platform":"LinkedIn","content":"  Great   opportunity  "}]`,
			want:  `{"text":"[LINKEDIN] Great opportunity","label":1}`,
		},
		{
			name:  "twitter without text",
			input: `[{"platform":"Twitter"}]`,
			want:  ``,
		},
		{
			name:  "missing platform",
			input: `[{"_id":"65f0c1","title":"Editor wanted","createdAt":"2024-01-01T00:00:00.000Z"}]`,
			want:  `{"text":"[UNKNOWN] Editor wanted","label":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.input)
			_, err := Build(context.Background(), f.options(nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.readOutput(t))
		})
	}
}

// TestBuild_Mixed tests ordering, counting and per-record failures
func TestBuild_Mixed(t *testing.T) {
	f := newFixture(t, `[
  {"platform": "Reddit", "title": "Need an editor", "content": ""},
  {"platform": "Twitter"},
  null,
  {"platform": 5, "content": "typed wrong"},
  {"platform": "LinkedIn", "content": "Hiring <video> editors & more"},
  {"platform": "reddit", "title": "Second", "content": "post"}
]`)

	obsCore, logs := observer.New(zapcore.DebugLevel)
	summary, err := Build(context.Background(), f.options(zap.New(obsCore)))
	require.NoError(t, err)

	assert.Equal(t,
		`{"text":"[REDDIT] Need an editor","label":1}`+"\n"+
			`{"text":"[LINKEDIN] Hiring <video> editors & more","label":1}`+"\n"+
			`{"text":"[REDDIT] Second post","label":1}`,
		f.readOutput(t))

	assert.Equal(t, int64(6), summary.Input)
	assert.Equal(t, int64(3), summary.Transformed)
	assert.Equal(t, int64(1), summary.Skipped)
	assert.Equal(t, int64(2), summary.Failed)
	assert.Equal(t, summary.Input, summary.Transformed+summary.Skipped+summary.Failed)

	assert.Equal(t, []string{
		"[REDDIT] Need an editor",
		"[LINKEDIN] Hiring <video> editors & more",
		"[REDDIT] Second post",
	}, summary.Samples)
	assert.Equal(t, []aggregate.TagCount{
		{Tag: "REDDIT", Count: 2},
		{Tag: "LINKEDIN", Count: 1},
	}, summary.Platforms)

	skips := logs.FilterMessage("skipping lead: insufficient text content").All()
	require.Len(t, skips, 1)
	assert.Equal(t, int64(2), skips[0].ContextMap()["position"])

	failures := logs.FilterMessage("error processing lead").All()
	require.Len(t, failures, 2)
	assert.Equal(t, int64(3), failures[0].ContextMap()["position"])
	assert.Equal(t, int64(4), failures[1].ContextMap()["position"])
}

// TestBuild_SampleLimit tests that only the first five texts are sampled
func TestBuild_SampleLimit(t *testing.T) {
	f := newFixture(t, `[
  {"platform":"x","content":"one"},{"platform":"x","content":"two"},
  {"platform":"x","content":"three"},{"platform":"x","content":"four"},
  {"platform":"x","content":"five"},{"platform":"x","content":"six"}
]`)

	summary, err := Build(context.Background(), f.options(nil))
	require.NoError(t, err)
	assert.Len(t, summary.Samples, SampleSize)
	assert.Equal(t, "[X] one", summary.Samples[0])
	assert.Equal(t, []aggregate.TagCount{{Tag: lead.PlatformX, Count: 6}}, summary.Platforms)
}

// TestBuild_Idempotent tests that repeated runs produce identical files
func TestBuild_Idempotent(t *testing.T) {
	f := newFixture(t, `[
  {"platform":"Reddit","title":"A","content":"b"},
  {"platform":"LinkedIn","content":"c\n\nd","extra":{"nested":true}},
  {"content":"e"}
]`)

	_, err := Build(context.Background(), f.options(nil))
	require.NoError(t, err)
	first := f.readOutput(t)

	_, err = Build(context.Background(), f.options(nil))
	require.NoError(t, err)
	assert.Equal(t, first, f.readOutput(t))
}

// TestBuild_EmptyInput tests an empty lead array
func TestBuild_EmptyInput(t *testing.T) {
	f := newFixture(t, `[]`)

	summary, err := Build(context.Background(), f.options(nil))
	require.NoError(t, err)
	assert.Equal(t, "", f.readOutput(t))
	assert.Zero(t, summary.Input)
	assert.Empty(t, summary.Samples)
	assert.Empty(t, summary.Platforms)
}

// TestBuild_Fatal tests that fatal input errors keep the previous output
func TestBuild_Fatal(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `[{"platform": "Reddit", "title": "x"},`},
		{"not an array", `{"platform": "Reddit"}`},
		{"empty file", ``},
		{"syntax error after skipped element", `[1, {"platform": "x", "content": "fine text"}, {bad`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.input)
			require.NoError(t, os.WriteFile(f.output, []byte("previous"), 0o644))

			_, err := Build(context.Background(), f.options(nil))
			require.Error(t, err)
			assert.False(t, IsRecordLevel(err))

			assert.Equal(t, "previous", f.readOutput(t))
			entries, err := os.ReadDir(f.dir)
			require.NoError(t, err)
			assert.Len(t, entries, 2, "no temporary files may be left behind")
		})
	}
}

// TestBuild_MissingInput tests a missing input file
func TestBuild_MissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := Build(context.Background(), Options{
		InputPath:  filepath.Join(dir, "leads.json"),
		OutputPath: filepath.Join(dir, "leads.jsonl"),
	})
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "leads.jsonl"))
	assert.True(t, os.IsNotExist(statErr))
}
