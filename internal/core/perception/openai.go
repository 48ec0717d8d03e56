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

// This file contains the OpenAI-backed implementations of the collaborator
// interfaces. Each implementation gets its own quota-aware client so a
// chatty role (captioning) cannot starve a sparse one (transcription).
package perception

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/telearchive/news-video-search/internal/config"
	"github.com/telearchive/news-video-search/internal/core/model"
)

// Model role names used as keys into the [models] configuration table.
const (
	RoleTranscriber = "transcriber"
	RoleVision      = "vision"
	RoleExtractor   = "extractor"
	RoleAnswerer    = "answerer"
	RoleEmbedder    = "embedder"
	RoleClassifier  = "classifier"
)

// Fallback model names used when a role is missing from configuration.
var defaultModels = map[string]string{
	RoleTranscriber: openai.Whisper1,
	RoleVision:      openai.GPT4o,
	RoleExtractor:   openai.GPT4oMini,
	RoleAnswerer:    openai.GPT4o,
	RoleEmbedder:    string(openai.SmallEmbedding3),
	RoleClassifier:  openai.GPT4o,
}

// NewOpenAICollaborators wires every collaborator interface to the given
// OpenAI client using the per-role model settings in cfg.Models.
func NewOpenAICollaborators(client *openai.Client, cfg *config.Config) *Collaborators {
	return &Collaborators{
		Transcriber:     NewWhisperTranscriber(client, modelFor(cfg, RoleTranscriber)),
		SceneDescriber:  NewVisionAnalyst(client, modelFor(cfg, RoleVision)),
		EntityExtractor: NewChatEntityExtractor(client, modelFor(cfg, RoleExtractor)),
		Embedder:        NewOpenAIEmbedder(client, modelFor(cfg, RoleEmbedder)),
		AnswerGenerator: NewChatAnswerGenerator(client, modelFor(cfg, RoleAnswerer)),
		Classifier:      NewChatClassifier(client, modelFor(cfg, RoleClassifier)),
	}
}

func modelFor(cfg *config.Config, role string) config.OpenAIModel {
	m, ok := cfg.Models[role]
	if !ok {
		m = config.OpenAIModel{}
	}
	if m.Model == "" {
		m.Model = defaultModels[role]
	}
	return m
}

// WhisperTranscriber implements Transcriber with the OpenAI audio
// transcription endpoint, requesting segment-level timestamps.
type WhisperTranscriber struct {
	client *QuotaAwareClient
	model  string
}

func NewWhisperTranscriber(client *openai.Client, m config.OpenAIModel) *WhisperTranscriber {
	return &WhisperTranscriber{
		client: NewQuotaAwareClient(client, m.MaxRequestsPerMinute),
		model:  m.Model,
	}
}

// Transcribe sends the audio file for recognition and returns the
// time-stamped segments. The verbose JSON response format is required to get
// per-segment timing.
func (w *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string) (model.Transcript, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: transcription of %s: %v", model.ErrCollaboratorFailure, audioPath, err)
	}
	out := make(model.Transcript, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		out = append(out, model.TranscriptSegment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}
	return out, nil
}

// VisionAnalyst implements SceneDescriber with a multimodal chat model. The
// same model answers both the caption and the OCR prompt; the two calls share
// one rate budget.
type VisionAnalyst struct {
	client    *QuotaAwareClient
	model     string
	maxTokens int
}

func NewVisionAnalyst(client *openai.Client, m config.OpenAIModel) *VisionAnalyst {
	maxTokens := m.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 100
	}
	return &VisionAnalyst{
		client:    NewQuotaAwareClient(client, m.MaxRequestsPerMinute),
		model:     m.Model,
		maxTokens: maxTokens,
	}
}

// Describe returns a search-oriented caption for the frame.
func (v *VisionAnalyst) Describe(ctx context.Context, frame image.Image) (string, error) {
	return v.ask(ctx, frame, ScenePrompt)
}

// ReadText returns the text visible on the frame, or an empty string when
// the frame carries none.
func (v *VisionAnalyst) ReadText(ctx context.Context, frame image.Image) (string, error) {
	return v.ask(ctx, frame, OCRPrompt)
}

func (v *VisionAnalyst) ask(ctx context.Context, frame image.Image, prompt string) (string, error) {
	dataURL, err := encodeFrame(frame)
	if err != nil {
		return "", fmt.Errorf("%w: encoding frame: %v", model.ErrCollaboratorFailure, err)
	}
	resp, err := v.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     v.model,
		MaxTokens: v.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: vision request: %v", model.ErrCollaboratorFailure, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: vision request returned no choices", model.ErrCollaboratorFailure)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// encodeFrame converts an image into a JPEG data URL for the vision API.
func encodeFrame(frame image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: 85}); err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ChatEntityExtractor implements EntityExtractor by asking a chat model for
// a strict JSON entity object, guided by a few-shot example.
type ChatEntityExtractor struct {
	client *QuotaAwareClient
	model  string
}

func NewChatEntityExtractor(client *openai.Client, m config.OpenAIModel) *ChatEntityExtractor {
	return &ChatEntityExtractor{
		client: NewQuotaAwareClient(client, m.MaxRequestsPerMinute),
		model:  m.Model,
	}
}

// Entities extracts people, organizations, and locations from transcript
// text. Empty input short-circuits to an empty set without a model call.
func (e *ChatEntityExtractor) Entities(ctx context.Context, text string) (model.EntitySet, error) {
	if strings.TrimSpace(text) == "" {
		return model.EntitySet{}, nil
	}
	example, _ := json.Marshal(model.GetExampleEntitySet())
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0.0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(EntitySystemPrompt, string(example))},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return model.EntitySet{}, fmt.Errorf("%w: entity extraction: %v", model.ErrCollaboratorFailure, err)
	}
	if len(resp.Choices) == 0 {
		return model.EntitySet{}, fmt.Errorf("%w: entity extraction returned no choices", model.ErrCollaboratorFailure)
	}
	var set model.EntitySet
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &set); err != nil {
		return model.EntitySet{}, fmt.Errorf("%w: parsing entity response: %v", model.ErrCollaboratorFailure, err)
	}
	return model.EntitySet{
		People:        dedupe(set.People),
		Organizations: dedupe(set.Organizations),
		Locations:     dedupe(set.Locations),
	}, nil
}

// dedupe removes exact duplicates while preserving first-seen order.
func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// OpenAIEmbedder implements Embedder with the embeddings endpoint.
type OpenAIEmbedder struct {
	client *QuotaAwareClient
	model  openai.EmbeddingModel
}

func NewOpenAIEmbedder(client *openai.Client, m config.OpenAIModel) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		client: NewQuotaAwareClient(client, m.MaxRequestsPerMinute),
		model:  openai.EmbeddingModel(m.Model),
	}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: e.model,
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: embedding: %v", model.ErrCollaboratorFailure, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: embedding returned no vectors", model.ErrCollaboratorFailure)
	}
	return resp.Data[0].Embedding, nil
}

// ChatAnswerGenerator implements AnswerGenerator with a single low
// temperature chat completion. There is no retry on this path; a failed or
// empty response is the caller's problem to degrade.
type ChatAnswerGenerator struct {
	client      *QuotaAwareClient
	model       string
	temperature float32
}

func NewChatAnswerGenerator(client *openai.Client, m config.OpenAIModel) *ChatAnswerGenerator {
	temperature := m.Temperature
	if temperature == 0 {
		temperature = 0.3
	}
	return &ChatAnswerGenerator{
		client:      NewQuotaAwareClient(client, m.MaxRequestsPerMinute),
		model:       m.Model,
		temperature: temperature,
	}
}

func (g *ChatAnswerGenerator) GenerateGroundedAnswer(ctx context.Context, query string, contextBlock string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: AnswerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(AnswerUserPrompt, contextBlock, query)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: answer generation: %v", model.ErrCollaboratorFailure, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: answer generation returned no choices", model.ErrCollaboratorFailure)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ChatClassifier implements Classifier with a zero-temperature chat
// completion over the tagging prompt.
type ChatClassifier struct {
	client *QuotaAwareClient
	model  string
}

func NewChatClassifier(client *openai.Client, m config.OpenAIModel) *ChatClassifier {
	return &ChatClassifier{
		client: NewQuotaAwareClient(client, m.MaxRequestsPerMinute),
		model:  m.Model,
	}
}

// Classify labels the sample with up to two taxonomy tags. Long samples are
// truncated so the prompt stays within a predictable budget.
func (c *ChatClassifier) Classify(ctx context.Context, sample string, taxonomy []string, fallback string) (string, error) {
	if len(sample) > 1000 {
		sample = sample[:1000]
	}
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(TagPrompt, strings.Join(taxonomy, ", "), fallback, sample),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: classification: %v", model.ErrCollaboratorFailure, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: classification returned no choices", model.ErrCollaboratorFailure)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
