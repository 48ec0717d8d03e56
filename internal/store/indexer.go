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
	"log/slog"
	"time"

	"github.com/telearchive/news-video-search/internal/core/model"
	"github.com/telearchive/news-video-search/internal/core/perception"
)

// RetryPolicy bounds the persistence attempts of the indexer. Sleep is
// injectable so tests run without real delays.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
	Sleep    func(time.Duration)
}

// DefaultRetryPolicy is three attempts with a fixed two-second pause.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Backoff: 2 * time.Second, Sleep: time.Sleep}
}

// ResilientIndexer commits window records to a VectorStore with bounded
// retry. Embedding the fused text is part of the retried commit, so a
// transient embedding failure cannot drop a record any more than a transient
// store failure can. A record that still fails after the last attempt is
// reported as a persistence failure for that record alone; the caller keeps
// going with the rest of the batch.
type ResilientIndexer struct {
	store    VectorStore
	embedder perception.Embedder
	policy   RetryPolicy
}

// NewResilientIndexer creates an indexer over the given store. A zero
// attempts count falls back to the default policy.
func NewResilientIndexer(store VectorStore, embedder perception.Embedder, policy RetryPolicy) *ResilientIndexer {
	if policy.Attempts <= 0 {
		policy = DefaultRetryPolicy()
	}
	if policy.Sleep == nil {
		policy.Sleep = time.Sleep
	}
	return &ResilientIndexer{store: store, embedder: embedder, policy: policy}
}

// Index embeds the record's fused text and commits it, retrying transient
// failures of either step with a fixed backoff. The commit is idempotent, so
// a retry after an ambiguous failure cannot duplicate data.
func (i *ResilientIndexer) Index(ctx context.Context, rec *model.WindowRecord) error {
	var lastErr error
	for attempt := 1; attempt <= i.policy.Attempts; attempt++ {
		lastErr = i.embedAndCommit(ctx, rec)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			break
		}
		if attempt < i.policy.Attempts {
			slog.Warn("record commit failed, retrying",
				"identity", rec.Identity(),
				"attempt", attempt,
				"error", lastErr)
			i.policy.Sleep(i.policy.Backoff)
		}
	}
	return fmt.Errorf("%w: committing %s after %d attempts: %v",
		model.ErrPersistence, rec.Identity(), i.policy.Attempts, lastErr)
}

// embedAndCommit fills in the record's embedding if it does not carry one
// yet, then writes it to the store. An embedding obtained on an earlier
// attempt is reused rather than recomputed.
func (i *ResilientIndexer) embedAndCommit(ctx context.Context, rec *model.WindowRecord) error {
	if len(rec.Embedding) == 0 {
		embedding, err := i.embedder.Embed(ctx, rec.FusedText())
		if err != nil {
			return fmt.Errorf("embedding %s: %w", rec.Identity(), err)
		}
		rec.Embedding = embedding
	}
	return i.store.Commit(ctx, rec)
}
