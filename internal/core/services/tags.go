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

// This file implements the offline topic-tagging job. It samples each
// indexed video's stored content, asks the classifier for taxonomy labels,
// and writes a flat filename-to-tags JSON file the frontend reads directly.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/telearchive/news-video-search/internal/config"
	"github.com/telearchive/news-video-search/internal/core/perception"
	"github.com/telearchive/news-video-search/internal/store"
)

// Taxonomy is the fixed label set of the news archive.
var Taxonomy = []string{
	"Politics",
	"Conflict/War",
	"Sports",
	"Economy",
	"Technology",
	"Weather",
	"Health",
	"Entertainment",
}

// Label used for a video that has no indexed content to classify.
const UncategorizedLabel = "Uncategorized"

// TagService generates topic tags for indexed videos.
type TagService struct {
	Store      store.VectorStore
	Classifier perception.Classifier
	Config     config.Tagging
}

// GenerateTags classifies every filename and writes the tags file,
// overwriting any previous run. A classification failure falls back to the
// configured fallback category rather than failing the job.
func (s *TagService) GenerateTags(ctx context.Context, filenames []string) (map[string]string, error) {
	chunksPerVideo := s.Config.ChunksPerVideo
	if chunksPerVideo <= 0 {
		chunksPerVideo = 3
	}
	fallback := s.Config.FallbackCategory
	if fallback == "" {
		fallback = "General"
	}
	emptyLabel := s.Config.EmptyStoreLabel
	if emptyLabel == "" {
		emptyLabel = UncategorizedLabel
	}

	tags := make(map[string]string, len(filenames))
	for _, filename := range filenames {
		results, err := s.Store.GetByFilename(ctx, filename, chunksPerVideo)
		if err != nil {
			slog.Error("could not load content for tagging", "file", filename, "error", err)
			tags[filename] = emptyLabel
			continue
		}
		if len(results) == 0 {
			slog.Info("no indexed content, tagging as uncategorized", "file", filename)
			tags[filename] = emptyLabel
			continue
		}

		contents := make([]string, 0, len(results))
		for _, r := range results {
			contents = append(contents, r.Content)
		}
		labels, err := s.Classifier.Classify(ctx, strings.Join(contents, " "), Taxonomy, fallback)
		if err != nil || labels == "" {
			slog.Warn("classification failed, using fallback", "file", filename, "error", err)
			labels = fallback
		}
		slog.Info("assigned tags", "file", filename, "tags", labels)
		tags[filename] = labels
	}

	if err := s.writeTagsFile(tags); err != nil {
		return tags, err
	}
	return tags, nil
}

// writeTagsFile persists the flat filename-to-tags map as indented JSON.
func (s *TagService) writeTagsFile(tags map[string]string) error {
	outputFile := s.Config.OutputFile
	if outputFile == "" {
		outputFile = "generated_tags.json"
	}
	data, err := json.MarshalIndent(tags, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}
	if err := os.WriteFile(outputFile, data, 0o644); err != nil {
		return fmt.Errorf("writing tags file %s: %w", outputFile, err)
	}
	slog.Info("tags written", "file", outputFile, "videos", len(tags))
	return nil
}
