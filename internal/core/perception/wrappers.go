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

// This file implements a quota-aware decorator around the OpenAI client.
// Hosted model APIs enforce per-minute request quotas; the decorator makes
// every caller pass through a shared rate limiter before the request goes
// out, so a busy ingestion run degrades to waiting instead of erroring.
package perception

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// QuotaAwareClient wraps an OpenAI client with a token-bucket rate limiter.
// Only the API surface the pipeline uses is exposed; each method blocks until
// the limiter grants a slot or the context is cancelled.
type QuotaAwareClient struct {
	client  *openai.Client
	limiter *rate.Limiter
}

// NewQuotaAwareClient creates a QuotaAwareClient allowing at most
// requestsPerMinute calls per minute. A non-positive quota means unlimited,
// which is what tests and local fakes want.
func NewQuotaAwareClient(client *openai.Client, requestsPerMinute int) *QuotaAwareClient {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute)
	}
	return &QuotaAwareClient{client: client, limiter: limiter}
}

// CreateChatCompletion forwards to the underlying client after acquiring a
// rate-limit slot.
func (q *QuotaAwareClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if err := q.limiter.Wait(ctx); err != nil {
		return openai.ChatCompletionResponse{}, err
	}
	return q.client.CreateChatCompletion(ctx, req)
}

// CreateTranscription forwards to the underlying client after acquiring a
// rate-limit slot.
func (q *QuotaAwareClient) CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	if err := q.limiter.Wait(ctx); err != nil {
		return openai.AudioResponse{}, err
	}
	return q.client.CreateTranscription(ctx, req)
}

// CreateEmbeddings forwards to the underlying client after acquiring a
// rate-limit slot.
func (q *QuotaAwareClient) CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequest) (openai.EmbeddingResponse, error) {
	if err := q.limiter.Wait(ctx); err != nil {
		return openai.EmbeddingResponse{}, err
	}
	return q.client.CreateEmbeddings(ctx, req)
}
