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

// This file implements the batch runner: it scans a directory for video
// files, assigns each a stable short ID, and drives the per-video workflow
// across a worker pool. One video's failure never stops the batch.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/telearchive/news-video-search/internal/core/commands"
	"github.com/telearchive/news-video-search/internal/core/cor"
	"github.com/telearchive/news-video-search/internal/core/model"
)

// BatchReport summarizes one ingestion run.
type BatchReport struct {
	Processed      int // Videos fully processed.
	Skipped        int // Videos skipped because of a video-level failure.
	RecordsIndexed int // Window records committed across all videos.
}

// BatchRunner fans a directory of videos out over a pool of workers, each
// running the indexing workflow.
type BatchRunner struct {
	workflow *MediaIndexWorkflow
	workers  int
}

// NewBatchRunner creates a runner with the given pool size. A non-positive
// size runs a single worker.
func NewBatchRunner(workflow *MediaIndexWorkflow, workers int) *BatchRunner {
	if workers <= 0 {
		workers = 1
	}
	return &BatchRunner{workflow: workflow, workers: workers}
}

// ScanVideos lists the video files in a directory, identified by content
// sniffing rather than extension. Each gets a fresh 8-character ID.
func ScanVideos(dir string) ([]*model.Video, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading media directory %s: %w", dir, err)
	}
	videos := make([]*model.Video, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !isVideoFile(path) {
			continue
		}
		videos = append(videos, &model.Video{
			ID:       uuid.NewString()[:8],
			Path:     path,
			Filename: entry.Name(),
		})
	}
	return videos, nil
}

// isVideoFile sniffs the file header with the filetype matcher.
func isVideoFile(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer func() { _ = file.Close() }()
	head := make([]byte, 261)
	n, err := file.Read(head)
	if err != nil || n == 0 {
		return false
	}
	return filetype.IsVideo(head[:n])
}

// Run processes every video in the slice and returns the batch report. Each
// video gets its own chain context so temp files are cleaned up per video.
func (b *BatchRunner) Run(ctx context.Context, videos []*model.Video) *BatchReport {
	report := &BatchReport{}
	var mu sync.Mutex
	var wg sync.WaitGroup
	queue := make(chan *model.Video)

	for i := 0; i < b.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for video := range queue {
				indexed, err := b.processOne(ctx, video)
				mu.Lock()
				if err != nil {
					report.Skipped++
				} else {
					report.Processed++
					report.RecordsIndexed += indexed
				}
				mu.Unlock()
			}
		}()
	}

	for _, video := range videos {
		queue <- video
	}
	close(queue)
	wg.Wait()
	return report
}

// processOne runs the workflow for a single video and interprets the chain
// outcome.
func (b *BatchRunner) processOne(ctx context.Context, video *model.Video) (int, error) {
	slog.Info("processing video", "file", video.Filename, "video_id", video.ID)

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(ctx)
	chainCtx.Add(cor.CtxIn, video)
	defer chainCtx.Close()

	b.workflow.Execute(chainCtx)

	if chainCtx.HasErrors() {
		for command, err := range chainCtx.GetErrors() {
			slog.Error("video skipped", "file", video.Filename, "command", command, "error", err)
		}
		return 0, fmt.Errorf("indexing %s failed", video.Filename)
	}

	indexed, _ := chainCtx.Get(commands.IndexedParamName).(int)
	return indexed, nil
}
