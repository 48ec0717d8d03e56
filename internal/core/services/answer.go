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

package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/telearchive/news-video-search/internal/core/model"
	"github.com/telearchive/news-video-search/internal/core/perception"
	"github.com/telearchive/news-video-search/internal/store"
)

// Fixed degraded responses of the answer path. They are returned to the
// caller as normal answers; synthesis never raises past this service.
const (
	NoContextAnswer    = "I could not find enough information in the videos to answer that."
	AnswerFailure      = "An error occurred while generating the answer."
	EmptyAnswerFailure = "Error generating response."
)

// AnswerRetrievalCount is how many records are retrieved as grounding
// context for one question.
const AnswerRetrievalCount = 3

// Answer is the response of one question: the synthesized text plus the
// records it was grounded on.
type Answer struct {
	Text    string               `json:"answer"`
	Sources []model.SearchResult `json:"sources"`
}

// AnswerService retrieves context for a question and synthesizes a grounded
// answer. Failures on this path degrade to fixed answer strings; asking a
// question never returns an error to the caller.
type AnswerService struct {
	Store     store.VectorStore
	Generator perception.AnswerGenerator
}

// Ask retrieves the most relevant window records and asks the language model
// to answer strictly from them. With no retrieved context the fixed
// insufficient-information answer is returned without a model call.
func (s *AnswerService) Ask(ctx context.Context, query string) Answer {
	results, err := s.Store.Query(ctx, query, AnswerRetrievalCount)
	if err != nil {
		slog.Error("context retrieval failed", "query", query, "error", err)
		return Answer{Text: AnswerFailure, Sources: []model.SearchResult{}}
	}
	if len(results) == 0 {
		return Answer{Text: NoContextAnswer, Sources: []model.SearchResult{}}
	}

	var contextBlock strings.Builder
	for _, r := range results {
		contextBlock.WriteString("- ")
		contextBlock.WriteString(r.Content)
		contextBlock.WriteString("\n")
	}

	text, err := s.Generator.GenerateGroundedAnswer(ctx, query, contextBlock.String())
	if err != nil {
		slog.Error("answer synthesis failed", "query", query,
			"error", model.ErrSynthesisFailure, "cause", err)
		return Answer{Text: AnswerFailure, Sources: results}
	}
	if text == "" {
		slog.Error("answer synthesis returned empty text", "query", query,
			"error", model.ErrSynthesisFailure)
		return Answer{Text: EmptyAnswerFailure, Sources: results}
	}
	return Answer{Text: text, Sources: results}
}
