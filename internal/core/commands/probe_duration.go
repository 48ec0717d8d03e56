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

package commands

import (
	"log/slog"

	"github.com/telearchive/news-video-search/internal/core/cor"
	"github.com/telearchive/news-video-search/internal/core/media"
	"github.com/telearchive/news-video-search/internal/core/model"
)

// ProbeDurationCommand measures the video's duration with ffprobe and stores
// it on the Video object. An unreadable file fails the whole chain for this
// video; the batch runner moves on to the next file.
type ProbeDurationCommand struct {
	cor.BaseCommand
	prober *media.Prober
}

// NewProbeDurationCommand creates the command with the given prober.
func NewProbeDurationCommand(name string, prober *media.Prober) *ProbeDurationCommand {
	return &ProbeDurationCommand{BaseCommand: *cor.NewBaseCommand(name), prober: prober}
}

// Execute probes the file and annotates the Video with its duration.
func (c *ProbeDurationCommand) Execute(context cor.Context) {
	video := context.Get(c.GetInputParam()).(*model.Video)

	duration, err := c.prober.Duration(context.GetContext(), video.Path)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}
	video.Duration = duration
	slog.Info("probed video", "file", video.Filename, "duration_seconds", duration)

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(VideoParamName, video)
	context.Add(cor.CtxOut, video)
}
