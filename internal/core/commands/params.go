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

// Package commands provides the concrete workflow steps of the indexing
// pipeline. Each command is an atomic unit of work that reads its input from
// the shared chain context, performs one transformation, and writes its
// output back for the next command.
package commands

// Named context keys shared between commands in the indexing chain. The
// general CtxIn/CtxOut slots carry the primary value between neighbors;
// these keys expose values needed by non-adjacent steps.
const (
	VideoParamName      = "__video__"
	AudioPathParamName  = "__audio_path__"
	TranscriptParamName = "__transcript__"
	RecordsParamName    = "__records__"
	IndexedParamName    = "__indexed_count__"
)
