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
	"fmt"

	"cloud.google.com/go/bigquery"

	"github.com/telearchive/news-video-search/internal/config"
	"github.com/telearchive/news-video-search/internal/core/perception"
)

// New opens the vector store selected by the application configuration.
// "pgvector" is the default driver; "bigquery" targets an existing dataset.
func New(ctx context.Context, cfg *config.Config, embedder perception.Embedder) (VectorStore, error) {
	switch cfg.Application.StoreDriver {
	case "", "pgvector":
		return NewPgVectorStore(ctx, cfg.PgVector, embedder)
	case "bigquery":
		client, err := bigquery.NewClient(ctx, cfg.Application.GoogleProjectID)
		if err != nil {
			return nil, fmt.Errorf("creating BigQuery client: %w", err)
		}
		return NewBigQueryStore(client, cfg.BigQueryDataSource, embedder), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Application.StoreDriver)
	}
}
