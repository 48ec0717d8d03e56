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

// This file implements the default VectorStore backend on PostgreSQL with
// the pgvector extension. Records are upserted by identity and queried with
// cosine distance.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/telearchive/news-video-search/internal/config"
	"github.com/telearchive/news-video-search/internal/core/model"
	"github.com/telearchive/news-video-search/internal/core/perception"
)

const pgSchema = `
CREATE EXTENSION IF NOT EXISTS vector;
CREATE TABLE IF NOT EXISTS %s (
	id            TEXT PRIMARY KEY,
	video_id      TEXT NOT NULL,
	filename      TEXT NOT NULL,
	start_time    DOUBLE PRECISION NOT NULL,
	end_time      DOUBLE PRECISION NOT NULL,
	content       TEXT NOT NULL,
	people        TEXT NOT NULL DEFAULT '',
	organizations TEXT NOT NULL DEFAULT '',
	locations     TEXT NOT NULL DEFAULT '',
	embedding     vector(%d)
);`

const pgUpsert = `
INSERT INTO %s (id, video_id, filename, start_time, end_time, content, people, organizations, locations, embedding)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
	video_id = EXCLUDED.video_id,
	filename = EXCLUDED.filename,
	start_time = EXCLUDED.start_time,
	end_time = EXCLUDED.end_time,
	content = EXCLUDED.content,
	people = EXCLUDED.people,
	organizations = EXCLUDED.organizations,
	locations = EXCLUDED.locations,
	embedding = EXCLUDED.embedding`

const pgQuery = `
SELECT id, video_id, filename, start_time, end_time, content, people, organizations, locations,
	1 - (embedding <=> $1) AS similarity
FROM %s
ORDER BY embedding <=> $1
LIMIT $2`

const pgByFilename = `
SELECT id, video_id, filename, start_time, end_time, content, people, organizations, locations, 0.0
FROM %s
WHERE filename = $1
ORDER BY start_time
LIMIT $2`

// PgVectorStore persists window records in PostgreSQL using pgvector for
// similarity search. Query text is embedded with the injected Embedder.
type PgVectorStore struct {
	pool     *pgxpool.Pool
	embedder perception.Embedder
	table    string
}

// NewPgVectorStore connects to PostgreSQL, ensures the schema exists, and
// returns the store.
func NewPgVectorStore(ctx context.Context, cfg config.PgVector, embedder perception.Embedder) (*PgVectorStore, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	dims := cfg.Dimensions
	if dims <= 0 {
		dims = 1536
	}
	if _, err := pool.Exec(ctx, fmt.Sprintf(pgSchema, cfg.Table, dims)); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &PgVectorStore{pool: pool, embedder: embedder, table: cfg.Table}, nil
}

// Commit upserts the record by identity.
func (s *PgVectorStore) Commit(ctx context.Context, rec *model.WindowRecord) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(pgUpsert, s.table),
		rec.Identity(),
		rec.VideoID,
		rec.Filename,
		rec.Start,
		rec.End,
		rec.FusedText(),
		joinEntities(rec.Entities.People),
		joinEntities(rec.Entities.Organizations),
		joinEntities(rec.Entities.Locations),
		pgvector.NewVector(rec.Embedding),
	)
	if err != nil {
		return fmt.Errorf("upserting %s: %w", rec.Identity(), err)
	}
	return nil
}

// Query embeds the text and returns the k nearest records by cosine
// distance.
func (s *PgVectorStore) Query(ctx context.Context, text string, k int) ([]model.SearchResult, error) {
	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, fmt.Sprintf(pgQuery, s.table), pgvector.NewVector(embedding), k)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}
	defer rows.Close()
	return scanResults(rows)
}

// GetByFilename returns stored records for one source file in temporal
// order.
func (s *PgVectorStore) GetByFilename(ctx context.Context, filename string, limit int) ([]model.SearchResult, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(pgByFilename, s.table), filename, limit)
	if err != nil {
		return nil, fmt.Errorf("filename query: %w", err)
	}
	defer rows.Close()
	return scanResults(rows)
}

// Count returns the number of stored records.
func (s *PgVectorStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return count, nil
}

// Close releases the connection pool.
func (s *PgVectorStore) Close() {
	s.pool.Close()
}

type pgRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanResults(rows pgRows) ([]model.SearchResult, error) {
	out := make([]model.SearchResult, 0)
	for rows.Next() {
		var (
			id, videoID, filename, content  string
			people, organizations, location string
			start, end, score               float64
		)
		if err := rows.Scan(&id, &videoID, &filename, &start, &end, &content,
			&people, &organizations, &location, &score); err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}
		out = append(out, model.SearchResult{
			Identity: id,
			Content:  content,
			Score:    score,
			Metadata: map[string]string{
				"filename":      filename,
				"people":        people,
				"organizations": organizations,
				"locations":     location,
				"video_id":      videoID,
				"start_time":    fmt.Sprintf("%g", start),
				"end_time":      fmt.Sprintf("%g", end),
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating result rows: %w", err)
	}
	return out, nil
}

func joinEntities(in []string) string {
	return strings.Join(in, ", ")
}
