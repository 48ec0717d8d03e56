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

// Package perception defines the external model collaborators of the
// pipeline and their OpenAI-backed implementations. Each collaborator covers
// one signal: speech, visual scenes, on-screen text, named entities,
// embeddings, and grounded answers. The pipeline depends only on the
// interfaces so tests can substitute deterministic fakes.
package perception

import (
	"context"
	"image"

	"github.com/telearchive/news-video-search/internal/core/model"
)

// DegradedCaption stands in for a scene description when the vision call
// fails. The window is still indexed with its other signals.
const DegradedCaption = "Error analyzing image."

// Transcriber converts an audio file into a time-stamped transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (model.Transcript, error)
}

// SceneDescriber produces a textual description of a video frame and reads
// the text visible on it. Both operations go to the same vision model, so
// they share one interface and one rate budget.
type SceneDescriber interface {
	Describe(ctx context.Context, frame image.Image) (string, error)
	ReadText(ctx context.Context, frame image.Image) (string, error)
}

// EntityExtractor recognizes named entities in transcript text.
type EntityExtractor interface {
	Entities(ctx context.Context, text string) (model.EntitySet, error)
}

// Embedder converts text into a dense vector for similarity search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// AnswerGenerator produces an answer to a question constrained to the
// provided context block.
type AnswerGenerator interface {
	GenerateGroundedAnswer(ctx context.Context, query string, contextBlock string) (string, error)
}

// Classifier labels a content sample with tags from a fixed taxonomy.
type Classifier interface {
	Classify(ctx context.Context, sample string, taxonomy []string, fallback string) (string, error)
}

// Collaborators bundles every model dependency of the pipeline for
// dependency injection into workflows and services.
type Collaborators struct {
	Transcriber     Transcriber
	SceneDescriber  SceneDescriber
	EntityExtractor EntityExtractor
	Embedder        Embedder
	AnswerGenerator AnswerGenerator
	Classifier      Classifier
}
