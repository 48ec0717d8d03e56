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

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleRecord() *WindowRecord {
	return &WindowRecord{
		VideoID:   "abcd1234",
		Filename:  "summit.mp4",
		Start:     10,
		End:       30,
		Caption:   "a podium at the UN",
		OCRText:   "CLIMATE SUMMIT",
		AudioText: "delegates arrived this morning",
		Entities: EntitySet{
			People:        []string{"Antonio Guterres"},
			Organizations: []string{"UN", "IPCC"},
			Locations:     []string{"Geneva"},
		},
	}
}

func TestIdentityIsDeterministic(t *testing.T) {
	rec := sampleRecord()
	assert.Equal(t, "abcd1234_10.00_30.00", rec.Identity())

	// A different fused body does not change the identity, so reprocessing
	// overwrites instead of duplicating.
	other := sampleRecord()
	other.Caption = "something else entirely"
	assert.Equal(t, rec.Identity(), other.Identity())
}

func TestFusedTextKeepsAllSections(t *testing.T) {
	rec := sampleRecord()
	assert.Equal(t,
		"[Visual Scene]: a podium at the UN [On-Screen Text]: CLIMATE SUMMIT [Audio Transcript]: delegates arrived this morning",
		rec.FusedText())

	// Empty signals keep their labeled sections rather than dropping them.
	empty := &WindowRecord{VideoID: "abcd1234"}
	assert.Equal(t, "[Visual Scene]:  [On-Screen Text]:  [Audio Transcript]: ", empty.FusedText())
}

func TestMetadataSerializesEntityLists(t *testing.T) {
	md := sampleRecord().Metadata()
	assert.Equal(t, "summit.mp4", md["filename"])
	assert.Equal(t, "Antonio Guterres", md["people"])
	assert.Equal(t, "UN, IPCC", md["organizations"])
	assert.Equal(t, "Geneva", md["locations"])
	assert.Equal(t, "abcd1234", md["video_id"])
	assert.Equal(t, "10", md["start_time"])
	assert.Equal(t, "30", md["end_time"])
}

func TestTextBetweenUsesOpenIntervals(t *testing.T) {
	transcript := Transcript{
		{Start: 0, End: 5, Text: "one"},
		{Start: 5, End: 10, Text: "two"},
		{Start: 4, End: 6, Text: "three"},
	}

	// A segment ending exactly at the window start is excluded, as is one
	// starting exactly at the window end.
	assert.Equal(t, "two three", transcript.TextBetween(5, 10))
	assert.Equal(t, "one three", transcript.TextBetween(0, 5))
	assert.Equal(t, "", transcript.TextBetween(10, 20))
}

func TestNewSceneStateSeedsInitialCaption(t *testing.T) {
	state := NewSceneState()
	assert.Equal(t, "No visual context available.", state.PreviousCaption)
	assert.Nil(t, state.PreviousFrame)
}
