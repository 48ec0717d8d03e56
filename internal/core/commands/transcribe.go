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
	"fmt"
	"log/slog"
	"os"

	"github.com/telearchive/news-video-search/internal/core/cor"
	"github.com/telearchive/news-video-search/internal/core/model"
	"github.com/telearchive/news-video-search/internal/core/perception"
)

// TranscribeCommand sends the extracted audio for speech recognition. A
// video whose audio yields no transcript at all carries no speech signal to
// fuse, so the chain stops here and the batch runner skips the video.
type TranscribeCommand struct {
	cor.BaseCommand
	transcriber perception.Transcriber
}

// NewTranscribeCommand creates the command with the given transcriber.
func NewTranscribeCommand(name string, transcriber perception.Transcriber) *TranscribeCommand {
	return &TranscribeCommand{BaseCommand: *cor.NewBaseCommand(name), transcriber: transcriber}
}

// Execute transcribes the audio file and removes it immediately afterwards;
// the transcript is the only output the rest of the chain needs.
func (c *TranscribeCommand) Execute(context cor.Context) {
	audioPath := context.Get(c.GetInputParam()).(string)
	video := context.Get(VideoParamName).(*model.Video)

	transcript, err := c.transcriber.Transcribe(context.GetContext(), audioPath)

	// The audio file has served its purpose once the transcription call
	// returns. A failed deletion is a warning, not an error.
	if rmErr := os.Remove(audioPath); rmErr != nil && !os.IsNotExist(rmErr) {
		slog.Warn("could not delete temp audio file", "file", audioPath, "error", rmErr)
	}

	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}
	if len(transcript) == 0 {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("no speech recognized in %s, skipping video", video.Filename))
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(TranscriptParamName, transcript)
	context.Add(cor.CtxOut, transcript)
}
