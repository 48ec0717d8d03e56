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
	"github.com/telearchive/news-video-search/internal/core/cor"
	"github.com/telearchive/news-video-search/internal/core/media"
	"github.com/telearchive/news-video-search/internal/core/model"
)

// AudioExtractCommand pulls the audio track out of the video into a
// temporary WAV file for speech recognition. The file is registered with the
// context so it is removed when the chain's context closes, even if a later
// step fails.
type AudioExtractCommand struct {
	cor.BaseCommand
	extractor *media.Extractor
}

// NewAudioExtractCommand creates the command with the given extractor.
func NewAudioExtractCommand(name string, extractor *media.Extractor) *AudioExtractCommand {
	return &AudioExtractCommand{BaseCommand: *cor.NewBaseCommand(name), extractor: extractor}
}

// Execute extracts the audio and passes its path to the next command.
func (c *AudioExtractCommand) Execute(context cor.Context) {
	video := context.Get(c.GetInputParam()).(*model.Video)

	audioPath, err := c.extractor.Audio(context.GetContext(), video.Path)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.AddTempFile(audioPath)
	context.Add(AudioPathParamName, audioPath)
	context.Add(cor.CtxOut, audioPath)
}
