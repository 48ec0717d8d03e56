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

// This file implements the alternate VectorStore backend on BigQuery. It
// suits deployments that already keep their media archive in BigQuery and
// want retrieval co-located with it.
package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/telearchive/news-video-search/internal/config"
	"github.com/telearchive/news-video-search/internal/core/model"
	"github.com/telearchive/news-video-search/internal/core/perception"
)

// BigQueryStore persists window records in a BigQuery table and searches
// them with VECTOR_SEARCH.
type BigQueryStore struct {
	client   *bigquery.Client
	embedder perception.Embedder
	dataset  string
	table    string
}

// bqWindowRow mirrors one row of the embedding table for iterator scanning.
type bqWindowRow struct {
	ID            string  `bigquery:"id"`
	VideoID       string  `bigquery:"video_id"`
	Filename      string  `bigquery:"filename"`
	StartTime     float64 `bigquery:"start_time"`
	EndTime       float64 `bigquery:"end_time"`
	Content       string  `bigquery:"content"`
	People        string  `bigquery:"people"`
	Organizations string  `bigquery:"organizations"`
	Locations     string  `bigquery:"locations"`
	Score         float64 `bigquery:"score"`
}

// NewBigQueryStore creates a store over an existing BigQuery dataset and
// table. The table is expected to be provisioned out of band with the
// columns named in queries.go.
func NewBigQueryStore(client *bigquery.Client, cfg config.BigQueryDataSource, embedder perception.Embedder) *BigQueryStore {
	return &BigQueryStore{
		client:   client,
		embedder: embedder,
		dataset:  cfg.DatasetName,
		table:    cfg.EmbeddingTable,
	}
}

// fqTable returns the backtick-quoted fully qualified table name.
func (s *BigQueryStore) fqTable() string {
	fq := strings.Replace(s.client.Dataset(s.dataset).Table(s.table).FullyQualifiedName(), ":", ".", -1)
	return "`" + fq + "`"
}

// Commit upserts the record by identity with a MERGE statement.
func (s *BigQueryStore) Commit(ctx context.Context, rec *model.WindowRecord) error {
	embedding := make([]float64, 0, len(rec.Embedding))
	for _, v := range rec.Embedding {
		embedding = append(embedding, float64(v))
	}
	q := s.client.Query(fmt.Sprintf(QryMergeWindow, s.fqTable()))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "id", Value: rec.Identity()},
		{Name: "video_id", Value: rec.VideoID},
		{Name: "filename", Value: rec.Filename},
		{Name: "start_time", Value: rec.Start},
		{Name: "end_time", Value: rec.End},
		{Name: "content", Value: rec.FusedText()},
		{Name: "people", Value: strings.Join(rec.Entities.People, ", ")},
		{Name: "organizations", Value: strings.Join(rec.Entities.Organizations, ", ")},
		{Name: "locations", Value: strings.Join(rec.Entities.Locations, ", ")},
		{Name: "embedding", Value: embedding},
	}
	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("running merge for %s: %w", rec.Identity(), err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for merge of %s: %w", rec.Identity(), err)
	}
	if status.Err() != nil {
		return fmt.Errorf("merge of %s failed: %w", rec.Identity(), status.Err())
	}
	return nil
}

// Query embeds the text and performs a VECTOR_SEARCH for the k nearest
// records. BigQuery expects the query vector inlined as a comma-separated
// float list.
func (s *BigQueryStore) Query(ctx context.Context, text string, k int) ([]model.SearchResult, error) {
	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	stringArray := make([]string, 0, len(embedding))
	for _, f := range embedding {
		stringArray = append(stringArray, strconv.FormatFloat(float64(f), 'f', -1, 64))
	}
	queryText := fmt.Sprintf(QryWindowKnn, s.fqTable(), strings.Join(stringArray, ","), k)
	return s.readResults(ctx, s.client.Query(queryText))
}

// GetByFilename returns stored records for one source file in temporal
// order.
func (s *BigQueryStore) GetByFilename(ctx context.Context, filename string, limit int) ([]model.SearchResult, error) {
	q := s.client.Query(fmt.Sprintf(QryByFilename, s.fqTable(), limit))
	q.Parameters = []bigquery.QueryParameter{{Name: "filename", Value: filename}}
	return s.readResults(ctx, q)
}

// Count returns the number of stored records.
func (s *BigQueryStore) Count(ctx context.Context) (int64, error) {
	itr, err := s.client.Query(fmt.Sprintf(QryCount, s.fqTable())).Read(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading count: %w", err)
	}
	var row struct {
		Total int64 `bigquery:"total"`
	}
	if err := itr.Next(&row); err != nil {
		return 0, fmt.Errorf("scanning count: %w", err)
	}
	return row.Total, nil
}

// Close releases the BigQuery client.
func (s *BigQueryStore) Close() {
	_ = s.client.Close()
}

func (s *BigQueryStore) readResults(ctx context.Context, q *bigquery.Query) ([]model.SearchResult, error) {
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read from BigQuery: %w", err)
	}
	out := make([]model.SearchResult, 0)
	for {
		var row bqWindowRow
		err := itr.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate results: %w", err)
		}
		out = append(out, model.SearchResult{
			Identity: row.ID,
			Content:  row.Content,
			Score:    row.Score,
			Metadata: map[string]string{
				"filename":      row.Filename,
				"people":        row.People,
				"organizations": row.Organizations,
				"locations":     row.Locations,
				"video_id":      row.VideoID,
				"start_time":    fmt.Sprintf("%g", row.StartTime),
				"end_time":      fmt.Sprintf("%g", row.EndTime),
			},
		})
	}
	return out, nil
}
