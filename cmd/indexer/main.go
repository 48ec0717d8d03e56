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

// Package main is the batch indexing job. It scans the configured media
// directory for video files and runs each through the full indexing chain:
// probe, audio extraction, transcription, sliding-window fusion, and
// persistence into the vector store. Videos that fail are skipped with a
// logged reason; the batch always runs to completion.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/telearchive/news-video-search/internal/config"
	"github.com/telearchive/news-video-search/internal/core/media"
	"github.com/telearchive/news-video-search/internal/core/perception"
	"github.com/telearchive/news-video-search/internal/core/workflow"
	"github.com/telearchive/news-video-search/internal/store"
	"github.com/telearchive/news-video-search/internal/telemetry"
)

func main() {
	telemetry.SetupLogging()
	slog.Info("Logging initialized")

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

	shutdownTelemetry, err := telemetry.SetupOpenTelemetry(ctx, cfg)
	if err != nil {
		slog.Error("Failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	slog.Info("Tracing initialized")

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

	policy := store.DefaultRetryPolicy()
	if cfg.Pipeline.IndexAttempts > 0 {
		policy.Attempts = cfg.Pipeline.IndexAttempts
	}
	if cfg.Pipeline.IndexBackoffMs > 0 {
		policy.Backoff = time.Duration(cfg.Pipeline.IndexBackoffMs) * time.Millisecond
	}
	indexer := store.NewResilientIndexer(vectorStore, collaborators.Embedder, policy)

	pipeline := workflow.NewMediaIndexWorkflow(
		cfg,
		media.NewProber(""),
		media.NewExtractor(""),
		collaborators,
		indexer)

	videos, err := workflow.ScanVideos(cfg.Application.MediaDir)
	if err != nil {
		slog.Error("failed to scan media directory", "dir", cfg.Application.MediaDir, "error", err)
		log.Fatal(err)
	}
	if len(videos) == 0 {
		slog.Info("no videos found", "dir", cfg.Application.MediaDir)
		return
	}
	slog.Info("starting batch", "videos", len(videos), "workers", cfg.Pipeline.ThreadPoolSize)

	runner := workflow.NewBatchRunner(pipeline, cfg.Pipeline.ThreadPoolSize)
	report := runner.Run(ctx, videos)

	slog.Info("batch complete",
		"processed", report.Processed,
		"skipped", report.Skipped,
		"records_indexed", report.RecordsIndexed)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Error("Telemetry Shutdown Failed", "error", err)
	}
}
