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

package store

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/telearchive/news-video-search/internal/core/model"
	"github.com/telearchive/news-video-search/internal/core/perception"
)

// MemoryStore is an in-process VectorStore used by tests and local
// experiments. It ranks by cosine similarity over the record embeddings.
type MemoryStore struct {
	mu       sync.RWMutex
	records  map[string]*model.WindowRecord
	embedder perception.Embedder
}

// NewMemoryStore creates an empty in-memory store. The embedder is used for
// query text only; records carry their own embeddings.
func NewMemoryStore(embedder perception.Embedder) *MemoryStore {
	return &MemoryStore{records: make(map[string]*model.WindowRecord), embedder: embedder}
}

// Commit stores a copy of the record keyed by identity, replacing any
// previous version.
func (s *MemoryStore) Commit(_ context.Context, rec *model.WindowRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *rec
	s.records[rec.Identity()] = &clone
	return nil
}

// Query embeds the text and ranks all stored records by cosine similarity.
func (s *MemoryStore) Query(ctx context.Context, text string, k int) ([]model.SearchResult, error) {
	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.SearchResult, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, toResult(rec, cosine(embedding, rec.Embedding)))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// GetByFilename returns the stored records of one source file in temporal
// order.
func (s *MemoryStore) GetByFilename(_ context.Context, filename string, limit int) ([]model.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := make([]*model.WindowRecord, 0)
	for _, rec := range s.records {
		if rec.Filename == filename {
			matches = append(matches, rec)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Start < matches[j].Start })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]model.SearchResult, 0, len(matches))
	for _, rec := range matches {
		out = append(out, toResult(rec, 0))
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() {}

// Get returns the stored record for an identity, for test assertions.
func (s *MemoryStore) Get(identity string) (*model.WindowRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[identity]
	return rec, ok
}

func toResult(rec *model.WindowRecord, score float64) model.SearchResult {
	return model.SearchResult{
		Identity: rec.Identity(),
		Content:  rec.FusedText(),
		Metadata: rec.Metadata(),
		Score:    score,
	}
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
