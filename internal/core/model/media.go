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

// Package model defines the core data structures for the application: the
// in-memory shapes a video passes through on its way from a file on disk to
// a set of composite records in the vector store, plus the records returned
// by searches. Most of these objects are transient containers passed between
// commands in a workflow chain; only WindowRecord is persisted.
package model

import (
	"fmt"
	"image"
	"strings"
)

// InitialSceneCaption seeds the visual context carried across windows before
// the first keyframe has been described.
const InitialSceneCaption = "No visual context available."

// Video identifies a single source file admitted into the pipeline.
type Video struct {
	ID       string  // Short unique ID assigned at intake, stable for the run.
	Path     string  // Absolute or working-directory-relative path to the file.
	Filename string  // Base name of the file, carried into record metadata.
	Duration float64 // Total duration in seconds, derived from the container.
}

// TranscriptSegment is one time-stamped span of recognized speech.
type TranscriptSegment struct {
	Start float64 `json:"start"` // Segment start in seconds from the beginning of the video.
	End   float64 `json:"end"`   // Segment end in seconds.
	Text  string  `json:"text"`  // The recognized speech for the span.
}

// Transcript is the full ordered list of speech segments for one video.
type Transcript []TranscriptSegment

// TextBetween concatenates the text of every segment that overlaps the half
// open interval [start, end). A segment overlaps when it starts before the
// window ends and ends after the window starts, so a segment that merely
// touches a boundary is excluded.
func (t Transcript) TextBetween(start, end float64) string {
	parts := make([]string, 0)
	for _, seg := range t {
		if seg.Start < end && seg.End > start {
			parts = append(parts, strings.TrimSpace(seg.Text))
		}
	}
	return strings.Join(parts, " ")
}

// Window is one span of the sliding temporal segmentation.
type Window struct {
	Start float64 // Window start in seconds, rounded to centiseconds.
	End   float64 // Window end in seconds, clipped to the video duration.
}

// SceneState carries visual context from one window to the next. The caption
// is reused verbatim when the scene has not changed enough to justify another
// model call, and the frame is the comparison baseline for the next window.
type SceneState struct {
	PreviousCaption string
	PreviousFrame   image.Image
}

// NewSceneState returns the state used before any keyframe has been seen.
func NewSceneState() *SceneState {
	return &SceneState{PreviousCaption: InitialSceneCaption}
}

// EntitySet holds named entities recognized in a window's speech, each list
// deduplicated in first-seen order.
type EntitySet struct {
	People        []string `json:"people"`
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
}

// WindowRecord is the composite unit persisted to the vector store: one
// analysis window with its three fused perception signals, its entities, and
// its embedding.
type WindowRecord struct {
	VideoID   string
	Filename  string
	Start     float64
	End       float64
	Caption   string    // The visual scene description for the window.
	OCRText   string    // Text read off the frame (banners, chyrons).
	AudioText string    // Speech recognized inside the window.
	Entities  EntitySet
	Embedding []float32
}

// Identity returns the deterministic store key for the record. Reprocessing
// the same window of the same video yields the same identity, so commits
// overwrite instead of duplicating.
func (r *WindowRecord) Identity() string {
	return fmt.Sprintf("%s_%.2f_%.2f", r.VideoID, r.Start, r.End)
}

// FusedText assembles the text body indexed for retrieval. The three labeled
// sections are always present in this order, even when a signal produced
// nothing for the window.
func (r *WindowRecord) FusedText() string {
	return fmt.Sprintf("[Visual Scene]: %s [On-Screen Text]: %s [Audio Transcript]: %s",
		r.Caption, r.OCRText, r.AudioText)
}

// Metadata returns the flat key-value map stored alongside the fused text.
// Entity lists are serialized as comma-separated strings.
func (r *WindowRecord) Metadata() map[string]string {
	return map[string]string{
		"filename":      r.Filename,
		"people":        strings.Join(r.Entities.People, ", "),
		"organizations": strings.Join(r.Entities.Organizations, ", "),
		"locations":     strings.Join(r.Entities.Locations, ", "),
		"video_id":      r.VideoID,
		"start_time":    fmt.Sprintf("%g", r.Start),
		"end_time":      fmt.Sprintf("%g", r.End),
	}
}

// SearchResult is one ranked hit returned by a vector store query.
type SearchResult struct {
	Identity string            `json:"id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
	Score    float64           `json:"score"`
}
