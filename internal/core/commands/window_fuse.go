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

// This file implements the heart of the pipeline: walking the sliding
// windows of a video and fusing the three perception signals of each window
// into one composite record.
//
// Logic flow per window:
//  1. Extract the keyframe at the window midpoint. A window without a
//     keyframe is still indexed: its visual and on-screen-text sections stay
//     empty and the scene state carries through unchanged.
//  2. Compare the keyframe against the previous one. Only a changed scene
//     earns a fresh caption; an unchanged scene reuses the previous one,
//     saving a vision call on static footage. The comparison baseline
//     advances every window in either case.
//  3. Always read on-screen text, which changes faster than scenes do.
//  4. Slice the transcript to the window and extract named entities from it.
//
// A failure inside a window degrades that window's section only; the walk
// continues with the next one. Embedding happens later, inside the indexer's
// retried commit.
package commands

import (
	"log/slog"

	"github.com/telearchive/news-video-search/internal/config"
	"github.com/telearchive/news-video-search/internal/core/cor"
	"github.com/telearchive/news-video-search/internal/core/media"
	"github.com/telearchive/news-video-search/internal/core/model"
	"github.com/telearchive/news-video-search/internal/core/perception"
)

// WindowFuseCommand turns a probed video and its transcript into composite
// window records.
type WindowFuseCommand struct {
	cor.BaseCommand
	frames    media.FrameSource
	describer perception.SceneDescriber
	entities  perception.EntityExtractor
	pipeline  config.Pipeline
}

// NewWindowFuseCommand creates the command with its collaborator set and
// segmentation tunables.
func NewWindowFuseCommand(
	name string,
	frames media.FrameSource,
	describer perception.SceneDescriber,
	entities perception.EntityExtractor,
	pipeline config.Pipeline) *WindowFuseCommand {
	return &WindowFuseCommand{
		BaseCommand: *cor.NewBaseCommand(name),
		frames:      frames,
		describer:   describer,
		entities:    entities,
		pipeline:    pipeline,
	}
}

// Execute walks the video's windows and emits the fused records.
func (c *WindowFuseCommand) Execute(context cor.Context) {
	video := context.Get(VideoParamName).(*model.Video)
	transcript := context.Get(c.GetInputParam()).(model.Transcript)
	ctx := context.GetContext()

	windows := media.SlidingWindows(video.Duration,
		c.pipeline.WindowSeconds, c.pipeline.StepSeconds, c.pipeline.MinWindowSeconds)

	state := model.NewSceneState()
	records := make([]*model.WindowRecord, 0, len(windows))

	for _, w := range windows {
		caption := ""
		ocrText := ""

		midpoint := (w.Start + w.End) / 2
		frame, err := c.frames.Frame(ctx, video.Path, midpoint)
		if err != nil {
			// The window keeps its audio signal; only the two visual
			// sections go empty. The scene baseline is untouched so the
			// next window compares against the last real keyframe.
			slog.Warn("keyframe extraction failed, degrading window",
				"file", video.Filename, "start", w.Start, "end", w.End, "error", err)
		} else {
			caption = state.PreviousCaption
			if media.SceneChanged(state.PreviousFrame, frame, c.pipeline.SceneThreshold) {
				caption, err = c.describer.Describe(ctx, frame)
				if err != nil {
					slog.Warn("caption failed, degrading window",
						"file", video.Filename, "start", w.Start, "error", err)
					caption = perception.DegradedCaption
				}
			}
			// The baseline advances whether or not the scene changed, so
			// drift is measured window to window, not since the last cut.
			state.PreviousFrame = frame
			state.PreviousCaption = caption

			ocrText, err = c.describer.ReadText(ctx, frame)
			if err != nil {
				slog.Warn("on-screen text read failed, degrading window",
					"file", video.Filename, "start", w.Start, "error", err)
				ocrText = ""
			}
		}

		audioText := transcript.TextBetween(w.Start, w.End)
		entities, err := c.entities.Entities(ctx, audioText)
		if err != nil {
			slog.Warn("entity extraction failed, degrading window",
				"file", video.Filename, "start", w.Start, "error", err)
			entities = model.EntitySet{}
		}

		records = append(records, &model.WindowRecord{
			VideoID:   video.ID,
			Filename:  video.Filename,
			Start:     w.Start,
			End:       w.End,
			Caption:   caption,
			OCRText:   ocrText,
			AudioText: audioText,
			Entities:  entities,
		})
	}

	slog.Info("fused windows", "file", video.Filename,
		"windows", len(windows), "records", len(records))
	c.GetSuccessCounter().Add(ctx, 1)
	context.Add(RecordsParamName, records)
	context.Add(cor.CtxOut, records)
}
