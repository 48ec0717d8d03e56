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

// This file tests the SearchService against the in-memory vector store.
package services_test

import (
	"context"
	"testing"

	"github.com/zeebo/assert"

	"github.com/telearchive/news-video-search/internal/core/model"
	"github.com/telearchive/news-video-search/internal/core/services"
	"github.com/telearchive/news-video-search/internal/store"
)

// keywordEmbedder maps text onto a tiny fixed vocabulary so similarity
// rankings are deterministic.
type keywordEmbedder struct{}

func (keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, 2)
	for i, word := range []string{"election", "storm"} {
		if containsWord(text, word) {
			vec[i] = 1
		}
	}
	return vec, nil
}

func containsWord(text, word string) bool {
	for i := 0; i+len(word) <= len(text); i++ {
		if text[i:i+len(word)] == word {
			return true
		}
	}
	return false
}

func seedRecord(t *testing.T, s *store.MemoryStore, videoID, filename, audio string, start, end float64) {
	t.Helper()
	rec := &model.WindowRecord{
		VideoID:   videoID,
		Filename:  filename,
		Start:     start,
		End:       end,
		Caption:   model.InitialSceneCaption,
		AudioText: audio,
	}
	embedding, err := keywordEmbedder{}.Embed(context.Background(), rec.FusedText())
	assert.NoError(t, err)
	rec.Embedding = embedding
	assert.NoError(t, s.Commit(context.Background(), rec))
}

func TestSearchServiceRanksByRelevance(t *testing.T) {
	ctx := context.Background()
	memStore := store.NewMemoryStore(keywordEmbedder{})
	seedRecord(t, memStore, "aaaa1111", "politics.mp4", "the election results are in", 0, 20)
	seedRecord(t, memStore, "bbbb2222", "weather.mp4", "a storm is moving up the coast", 0, 20)

	searchService := &services.SearchService{Store: memStore}

	results, err := searchService.FindWindows(ctx, "who won the election", 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(results))
	assert.Equal(t, "aaaa1111_0.00_20.00", results[0].Identity)
	assert.Equal(t, "politics.mp4", results[0].Metadata["filename"])
}

func TestSearchServiceDefaultsCount(t *testing.T) {
	ctx := context.Background()
	memStore := store.NewMemoryStore(keywordEmbedder{})
	seedRecord(t, memStore, "aaaa1111", "politics.mp4", "the election results are in", 0, 20)
	seedRecord(t, memStore, "bbbb2222", "weather.mp4", "a storm is moving up the coast", 0, 20)

	searchService := &services.SearchService{Store: memStore}

	results, err := searchService.FindWindows(ctx, "storm", 0)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(results))
	assert.Equal(t, "bbbb2222_0.00_20.00", results[0].Identity)
}
