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

// This file defines the sentinel errors for the pipeline's failure
// categories. Callers classify failures with errors.Is and decide the blast
// radius from the category: a window-level failure degrades one record, a
// video-level failure skips the video, and a batch keeps going past any
// single video.
package model

import "errors"

var (
	// ErrUnreadableMedia indicates a source file could not be opened or probed
	// as a video. The whole video is skipped.
	ErrUnreadableMedia = errors.New("unreadable media")

	// ErrCollaboratorFailure indicates an external model call (transcription,
	// captioning, OCR, entity extraction, embedding) failed after any retries.
	ErrCollaboratorFailure = errors.New("collaborator failure")

	// ErrPersistence indicates the vector store rejected a write after all
	// persistence attempts were exhausted.
	ErrPersistence = errors.New("persistence failure")

	// ErrSynthesisFailure indicates answer generation failed or produced an
	// empty response.
	ErrSynthesisFailure = errors.New("synthesis failure")
)
