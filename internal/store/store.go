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

// Package store provides the retrieval-store backends for composite window
// records and the resilient indexer that commits records with bounded retry.
// Two production backends are available, PostgreSQL with pgvector and
// BigQuery, plus an in-memory store for tests. All writes are idempotent on
// the record identity: committing the same identity twice replaces the
// stored row.
package store

import (
	"context"

	"github.com/telearchive/news-video-search/internal/core/model"
)

// VectorStore is the persistence contract of the pipeline. Commit must be
// idempotent on the record's Identity. Query ranks stored records against
// free text; the store owns query-side embedding so callers never handle
// vectors. GetByFilename returns stored records for one source file in
// temporal order.
type VectorStore interface {
	Commit(ctx context.Context, rec *model.WindowRecord) error
	Query(ctx context.Context, text string, k int) ([]model.SearchResult, error)
	GetByFilename(ctx context.Context, filename string, limit int) ([]model.SearchResult, error)
	Count(ctx context.Context) (int64, error)
	Close()
}
