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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telearchive/news-video-search/internal/core/model"
)

// fakeStore serves canned query results.
type fakeStore struct {
	results []model.SearchResult
	err     error
}

func (f *fakeStore) Commit(context.Context, *model.WindowRecord) error { return nil }
func (f *fakeStore) Query(context.Context, string, int) ([]model.SearchResult, error) {
	return f.results, f.err
}
func (f *fakeStore) GetByFilename(context.Context, string, int) ([]model.SearchResult, error) {
	return f.results, f.err
}
func (f *fakeStore) Count(context.Context) (int64, error) { return int64(len(f.results)), f.err }
func (f *fakeStore) Close()                               {}

// fakeGenerator records the prompt it received and returns a canned answer.
type fakeGenerator struct {
	calls        int
	contextBlock string
	answer       string
	err          error
}

func (f *fakeGenerator) GenerateGroundedAnswer(_ context.Context, _ string, contextBlock string) (string, error) {
	f.calls++
	f.contextBlock = contextBlock
	return f.answer, f.err
}

func result(content string) model.SearchResult {
	return model.SearchResult{Identity: "vid_0.00_20.00", Content: content}
}

func TestAskWithEmptyStoreSkipsGenerator(t *testing.T) {
	generator := &fakeGenerator{answer: "should never be returned"}
	svc := &AnswerService{Store: &fakeStore{}, Generator: generator}

	answer := svc.Ask(context.Background(), "who spoke at the summit?")

	assert.Equal(t, NoContextAnswer, answer.Text)
	assert.Empty(t, answer.Sources)
	assert.Zero(t, generator.calls, "the model must not be called without context")
}

func TestAskBuildsBulletedContext(t *testing.T) {
	generator := &fakeGenerator{answer: "The chancellor spoke in Berlin."}
	svc := &AnswerService{
		Store: &fakeStore{results: []model.SearchResult{
			result("first snippet"),
			result("second snippet"),
		}},
		Generator: generator,
	}

	answer := svc.Ask(context.Background(), "who spoke?")

	require.Equal(t, 1, generator.calls)
	assert.Equal(t, "- first snippet\n- second snippet\n", generator.contextBlock)
	assert.Equal(t, "The chancellor spoke in Berlin.", answer.Text)
	assert.Len(t, answer.Sources, 2)
}

func TestAskDegradesOnGeneratorError(t *testing.T) {
	generator := &fakeGenerator{err: errors.New("rate limited")}
	svc := &AnswerService{
		Store:     &fakeStore{results: []model.SearchResult{result("snippet")}},
		Generator: generator,
	}

	answer := svc.Ask(context.Background(), "what happened?")
	assert.Equal(t, AnswerFailure, answer.Text)
}

func TestAskDegradesOnEmptyGeneration(t *testing.T) {
	generator := &fakeGenerator{answer: ""}
	svc := &AnswerService{
		Store:     &fakeStore{results: []model.SearchResult{result("snippet")}},
		Generator: generator,
	}

	answer := svc.Ask(context.Background(), "what happened?")
	assert.Equal(t, EmptyAnswerFailure, answer.Text)
}

func TestAskDegradesOnRetrievalError(t *testing.T) {
	generator := &fakeGenerator{answer: "unused"}
	svc := &AnswerService{
		Store:     &fakeStore{err: errors.New("connection refused")},
		Generator: generator,
	}

	answer := svc.Ask(context.Background(), "what happened?")
	assert.Equal(t, AnswerFailure, answer.Text)
	assert.Zero(t, generator.calls)
}
