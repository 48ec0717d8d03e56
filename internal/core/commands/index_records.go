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
	"github.com/telearchive/news-video-search/internal/core/model"
	"github.com/telearchive/news-video-search/internal/store"
)

// IndexRecordsCommand commits the fused records through the resilient
// indexer. A record that exhausts its retries is logged and dropped; it
// never stops the remaining records of the video.
type IndexRecordsCommand struct {
	cor.BaseCommand
	indexer *store.ResilientIndexer
}

// NewIndexRecordsCommand creates the command over the given indexer.
func NewIndexRecordsCommand(name string, indexer *store.ResilientIndexer) *IndexRecordsCommand {
	return &IndexRecordsCommand{BaseCommand: *cor.NewBaseCommand(name), indexer: indexer}
}

// Execute indexes every record and reports the committed count.
func (c *IndexRecordsCommand) Execute(context cor.Context) {
	records := context.Get(c.GetInputParam()).([]*model.WindowRecord)
	ctx := context.GetContext()

	indexed := 0
	for _, rec := range records {
		if err := c.indexer.Index(ctx, rec); err != nil {
			c.GetErrorCounter().Add(ctx, 1)
			slog.Error("record dropped after persistence retries",
				"identity", rec.Identity(), "error", err)
			continue
		}
		indexed++
	}

	slog.Info("indexed records", "committed", indexed, "dropped", len(records)-indexed)
	c.GetSuccessCounter().Add(ctx, 1)
	context.Add(IndexedParamName, indexed)
	context.Add(cor.CtxOut, indexed)
}
