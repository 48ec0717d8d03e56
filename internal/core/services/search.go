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

// Package services contains the query-side business logic: semantic search
// over the indexed window records, grounded answer synthesis, and the
// offline topic-tagging job.
package services

import (
	"context"
	"fmt"

	"github.com/telearchive/news-video-search/internal/core/model"
	"github.com/telearchive/news-video-search/internal/store"
)

// DefaultSearchCount is the number of records returned when the caller does
// not specify one.
const DefaultSearchCount = 5

// SearchService answers semantic search requests against the vector store.
type SearchService struct {
	Store store.VectorStore
}

// FindWindows returns the count most relevant window records for the query
// text, ranked by similarity.
func (s *SearchService) FindWindows(ctx context.Context, query string, count int) ([]model.SearchResult, error) {
	if count <= 0 {
		count = DefaultSearchCount
	}
	results, err := s.Store.Query(ctx, query, count)
	if err != nil {
		return nil, fmt.Errorf("searching windows: %w", err)
	}
	return results, nil
}
