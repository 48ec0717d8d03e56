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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telearchive/news-video-search/internal/core/model"
)

// flakyStore wraps a MemoryStore and fails the first n commits.
type flakyStore struct {
	*MemoryStore
	failures int
	commits  int
}

func (f *flakyStore) Commit(ctx context.Context, rec *model.WindowRecord) error {
	f.commits++
	if f.commits <= f.failures {
		return errors.New("connection reset")
	}
	return f.MemoryStore.Commit(ctx, rec)
}

// fakeEmbedder returns a fixed-direction vector derived from text length so
// tests are deterministic without any model calls.
type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text)), 1, 0}, nil
}

// flakyEmbedder fails the first n embedding calls.
type flakyEmbedder struct {
	failures int
	calls    int
}

func (f *flakyEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("embedding api timeout")
	}
	return fakeEmbedder{}.Embed(ctx, text)
}

func testPolicy(attempts int) RetryPolicy {
	return RetryPolicy{Attempts: attempts, Backoff: 2 * time.Second, Sleep: func(time.Duration) {}}
}

func testRecord(videoID string, start, end float64) *model.WindowRecord {
	return &model.WindowRecord{
		VideoID:   videoID,
		Filename:  videoID + ".mp4",
		Start:     start,
		End:       end,
		Caption:   "a reporter in a studio",
		AudioText: "good evening",
		Embedding: []float32{1, 0, 0},
	}
}

func TestIndexSucceedsAfterTransientFailures(t *testing.T) {
	backing := &flakyStore{MemoryStore: NewMemoryStore(fakeEmbedder{}), failures: 2}
	indexer := NewResilientIndexer(backing, fakeEmbedder{}, testPolicy(3))

	err := indexer.Index(context.Background(), testRecord("abc12345", 0, 20))
	require.NoError(t, err)
	assert.Equal(t, 3, backing.commits)

	rec, ok := backing.Get("abc12345_0.00_20.00")
	require.True(t, ok)
	assert.Equal(t, "abc12345.mp4", rec.Filename)
}

func TestIndexGivesUpAfterBoundedAttempts(t *testing.T) {
	backing := &flakyStore{MemoryStore: NewMemoryStore(fakeEmbedder{}), failures: 10}
	indexer := NewResilientIndexer(backing, fakeEmbedder{}, testPolicy(3))

	err := indexer.Index(context.Background(), testRecord("abc12345", 0, 20))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrPersistence)
	assert.Equal(t, 3, backing.commits)
}

func TestIndexRetriesUseFixedBackoff(t *testing.T) {
	var waits []time.Duration
	backing := &flakyStore{MemoryStore: NewMemoryStore(fakeEmbedder{}), failures: 2}
	policy := RetryPolicy{
		Attempts: 3,
		Backoff:  2 * time.Second,
		Sleep:    func(d time.Duration) { waits = append(waits, d) },
	}
	indexer := NewResilientIndexer(backing, fakeEmbedder{}, policy)

	require.NoError(t, indexer.Index(context.Background(), testRecord("abc12345", 0, 20)))
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, waits)
}

func TestIndexRetriesTransientEmbeddingFailure(t *testing.T) {
	backing := NewMemoryStore(fakeEmbedder{})
	embedder := &flakyEmbedder{failures: 2}
	indexer := NewResilientIndexer(backing, embedder, testPolicy(3))

	rec := testRecord("abc12345", 0, 20)
	rec.Embedding = nil
	require.NoError(t, indexer.Index(context.Background(), rec))

	// Two embedding hiccups burn two attempts; the third embeds and commits.
	assert.Equal(t, 3, embedder.calls)
	stored, ok := backing.Get("abc12345_0.00_20.00")
	require.True(t, ok)
	assert.NotEmpty(t, stored.Embedding)
}

func TestIndexGivesUpWhenEmbeddingKeepsFailing(t *testing.T) {
	backing := NewMemoryStore(fakeEmbedder{})
	embedder := &flakyEmbedder{failures: 10}
	indexer := NewResilientIndexer(backing, embedder, testPolicy(3))

	rec := testRecord("abc12345", 0, 20)
	rec.Embedding = nil
	err := indexer.Index(context.Background(), rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrPersistence)
	assert.Equal(t, 3, embedder.calls)

	count, countErr := backing.Count(context.Background())
	require.NoError(t, countErr)
	assert.Zero(t, count)
}

func TestCommitIsIdempotentByIdentity(t *testing.T) {
	backing := NewMemoryStore(fakeEmbedder{})
	indexer := NewResilientIndexer(backing, fakeEmbedder{}, testPolicy(3))
	ctx := context.Background()

	first := testRecord("abc12345", 0, 20)
	require.NoError(t, indexer.Index(ctx, first))

	// Reprocessing the same window with different content converges to a
	// single stored record.
	second := testRecord("abc12345", 0, 20)
	second.Caption = "a press conference"
	require.NoError(t, indexer.Index(ctx, second))

	count, err := backing.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	rec, ok := backing.Get(second.Identity())
	require.True(t, ok)
	assert.Equal(t, "a press conference", rec.Caption)
}

func TestMemoryStoreQueryRanksBySimilarity(t *testing.T) {
	backing := NewMemoryStore(fakeEmbedder{})
	ctx := context.Background()

	aligned := testRecord("vid00001", 0, 20)
	aligned.Embedding = []float32{10, 1, 0}
	orthogonal := testRecord("vid00002", 0, 20)
	orthogonal.Embedding = []float32{0, 0, 1}
	require.NoError(t, backing.Commit(ctx, aligned))
	require.NoError(t, backing.Commit(ctx, orthogonal))

	results, err := backing.Query(ctx, "press conference", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, aligned.Identity(), results[0].Identity)
}
