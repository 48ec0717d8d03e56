// Copyright 2025 Telearchive Media, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telearchive/news-video-search/internal/config"
	"github.com/telearchive/news-video-search/internal/core/model"
)

// fakeClassifier returns a canned label per sample.
type fakeClassifier struct {
	label string
	err   error
	calls int
}

func (f *fakeClassifier) Classify(context.Context, string, []string, string) (string, error) {
	f.calls++
	return f.label, f.err
}

func tagConfig(t *testing.T) config.Tagging {
	t.Helper()
	return config.Tagging{
		OutputFile:       filepath.Join(t.TempDir(), "generated_tags.json"),
		ChunksPerVideo:   3,
		FallbackCategory: "General",
		EmptyStoreLabel:  "Uncategorized",
	}
}

func TestGenerateTagsWritesFile(t *testing.T) {
	cfg := tagConfig(t)
	classifier := &fakeClassifier{label: "Politics, Economy"}
	svc := &TagService{
		Store:      &fakeStore{results: []model.SearchResult{result("a speech about the budget")}},
		Classifier: classifier,
		Config:     cfg,
	}

	tags, err := svc.GenerateTags(context.Background(), []string{"summit.mp4"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"summit.mp4": "Politics, Economy"}, tags)

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var onDisk map[string]string
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, tags, onDisk)
}

func TestGenerateTagsUncategorizedWithoutContent(t *testing.T) {
	classifier := &fakeClassifier{label: "Sports"}
	svc := &TagService{
		Store:      &fakeStore{},
		Classifier: classifier,
		Config:     tagConfig(t),
	}

	tags, err := svc.GenerateTags(context.Background(), []string{"empty.mp4"})
	require.NoError(t, err)
	assert.Equal(t, "Uncategorized", tags["empty.mp4"])
	assert.Zero(t, classifier.calls)
}

func TestGenerateTagsFallsBackOnClassifierError(t *testing.T) {
	classifier := &fakeClassifier{err: errors.New("model unavailable")}
	svc := &TagService{
		Store:      &fakeStore{results: []model.SearchResult{result("some content")}},
		Classifier: classifier,
		Config:     tagConfig(t),
	}

	tags, err := svc.GenerateTags(context.Background(), []string{"video.mp4"})
	require.NoError(t, err)
	assert.Equal(t, "General", tags["video.mp4"])
}

func TestGenerateTagsOverwritesPreviousRun(t *testing.T) {
	cfg := tagConfig(t)
	require.NoError(t, os.WriteFile(cfg.OutputFile, []byte(`{"stale.mp4": "Weather"}`), 0o644))

	svc := &TagService{
		Store:      &fakeStore{results: []model.SearchResult{result("match highlights")}},
		Classifier: &fakeClassifier{label: "Sports"},
		Config:     cfg,
	}
	_, err := svc.GenerateTags(context.Background(), []string{"match.mp4"})
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var onDisk map[string]string
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, map[string]string{"match.mp4": "Sports"}, onDisk)
}
