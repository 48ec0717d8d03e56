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

// Package main is the topic tagging job. It classifies every indexed video
// against the fixed news taxonomy and writes the result to a flat JSON file
// served by the query server.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/telearchive/news-video-search/internal/config"
	"github.com/telearchive/news-video-search/internal/core/perception"
	"github.com/telearchive/news-video-search/internal/core/services"
	"github.com/telearchive/news-video-search/internal/core/workflow"
	"github.com/telearchive/news-video-search/internal/store"
	"github.com/telearchive/news-video-search/internal/telemetry"
)

func main() {
	telemetry.SetupLogging()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if os.Getenv(config.EnvConfigFilePrefix) == "" {
		_ = os.Setenv(config.EnvConfigFilePrefix, "configs")
	}
	if os.Getenv(config.EnvConfigRuntime) == "" {
		_ = os.Setenv(config.EnvConfigRuntime, "local")
	}
	cfg := config.NewConfig()
	config.LoadConfig(cfg)

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY is not set")
	}
	client := openai.NewClient(apiKey)
	collaborators := perception.NewOpenAICollaborators(client, cfg)

	vectorStore, err := store.New(ctx, cfg, collaborators.Embedder)
	if err != nil {
		log.Fatalf("failed to open vector store: %v", err)
	}
	defer vectorStore.Close()

	videos, err := workflow.ScanVideos(cfg.Application.MediaDir)
	if err != nil {
		slog.Error("failed to scan media directory", "dir", cfg.Application.MediaDir, "error", err)
		log.Fatal(err)
	}
	filenames := make([]string, 0, len(videos))
	for _, v := range videos {
		filenames = append(filenames, v.Filename)
	}
	if len(filenames) == 0 {
		slog.Info("no videos found", "dir", cfg.Application.MediaDir)
		return
	}

	tagService := &services.TagService{
		Store:      vectorStore,
		Classifier: collaborators.Classifier,
		Config:     cfg.Tagging,
	}
	tags, err := tagService.GenerateTags(ctx, filenames)
	if err != nil {
		log.Fatalf("failed to generate tags: %v", err)
	}
	slog.Info("tags written", "file", cfg.Tagging.OutputFile, "videos", len(tags))
}
