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

// Package workflow combines individual commands into the high-level
// pipelines of the application. This file implements the per-video indexing
// workflow.
package workflow

import (
	"github.com/telearchive/news-video-search/internal/config"
	"github.com/telearchive/news-video-search/internal/core/commands"
	"github.com/telearchive/news-video-search/internal/core/cor"
	"github.com/telearchive/news-video-search/internal/core/media"
	"github.com/telearchive/news-video-search/internal/core/perception"
	"github.com/telearchive/news-video-search/internal/store"
)

// MediaIndexWorkflow turns one video file into indexed window records. It is
// a chain of commands: probe the container, extract the audio, transcribe,
// fuse the windows, and commit the records. Any command error stops the
// chain for this video; the batch runner logs it and moves to the next file.
type MediaIndexWorkflow struct {
	cor.BaseCommand
	cfg           *config.Config
	prober        *media.Prober
	extractor     *media.Extractor
	collaborators *perception.Collaborators
	indexer       *store.ResilientIndexer
	chain         cor.Chain
}

// Execute runs the underlying command chain.
func (m *MediaIndexWorkflow) Execute(context cor.Context) {
	m.chain.Execute(context)
}

// initializeChain builds the command sequence. The chain's CtxIn must hold
// the *model.Video to process.
func (m *MediaIndexWorkflow) initializeChain() {
	out := cor.NewBaseChain(m.GetName())

	// Step 1: Measure the video. An unreadable container fails fast here,
	// before any model spend.
	out.AddCommand(commands.NewProbeDurationCommand("probe-duration", m.prober))

	// Step 2: Pull the audio track into a temporary WAV file.
	out.AddCommand(commands.NewAudioExtractCommand("extract-audio", m.extractor))

	// Step 3: Transcribe the audio. A video with no recognizable speech is
	// skipped entirely.
	out.AddCommand(commands.NewTranscribeCommand("transcribe-audio", m.collaborators.Transcriber))

	// Step 4: Walk the sliding windows and fuse the transcript, scene
	// caption, and on-screen text of each into a composite record.
	out.AddCommand(commands.NewWindowFuseCommand("fuse-windows",
		m.extractor,
		m.collaborators.SceneDescriber,
		m.collaborators.EntityExtractor,
		m.cfg.Pipeline))

	// Step 5: Embed and commit the records with bounded retry.
	out.AddCommand(commands.NewIndexRecordsCommand("index-records", m.indexer))

	m.chain = out
}

// NewMediaIndexWorkflow constructs the per-video pipeline with its tool and
// collaborator dependencies.
func NewMediaIndexWorkflow(
	cfg *config.Config,
	prober *media.Prober,
	extractor *media.Extractor,
	collaborators *perception.Collaborators,
	indexer *store.ResilientIndexer) *MediaIndexWorkflow {
	pipeline := &MediaIndexWorkflow{
		BaseCommand:   *cor.NewBaseCommand("media-index-pipeline"),
		cfg:           cfg,
		prober:        prober,
		extractor:     extractor,
		collaborators: collaborators,
		indexer:       indexer,
	}
	pipeline.initializeChain()
	return pipeline
}
