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

package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/telearchive/news-video-search/internal/core/model"
)

func TestSlidingWindowsOverlap(t *testing.T) {
	// The walk stops at the first window whose end reaches the duration, so
	// [30,45] is the last one; no further clipped window starts at 40.
	windows := SlidingWindows(45.0, 20.0, 10.0, 1.0)
	assert.Equal(t, []model.Window{
		{Start: 0, End: 20},
		{Start: 10, End: 30},
		{Start: 20, End: 40},
		{Start: 30, End: 45},
	}, windows)
}

func TestSlidingWindowsClipsTail(t *testing.T) {
	windows := SlidingWindows(25.0, 20.0, 10.0, 1.0)
	assert.Equal(t, []model.Window{
		{Start: 0, End: 20},
		{Start: 10, End: 25},
	}, windows)
}

func TestSlidingWindowsShortVideo(t *testing.T) {
	// A video shorter than one window still gets a single clipped window.
	windows := SlidingWindows(7.5, 20.0, 10.0, 1.0)
	assert.Equal(t, []model.Window{{Start: 0, End: 7.5}}, windows)
}

func TestSlidingWindowsDiscardsSubSecondTail(t *testing.T) {
	// With a non-overlapping stride, 20.5s leaves a 0.5s tail at start=20,
	// below the 1s floor, so it is dropped.
	windows := SlidingWindows(20.5, 20.0, 20.0, 1.0)
	assert.Equal(t, []model.Window{
		{Start: 0, End: 20},
	}, windows)
}

func TestSlidingWindowsExactMultiple(t *testing.T) {
	// The very first window already lands exactly on the duration, so the
	// walk stops there; no trailing window starts at 10.
	windows := SlidingWindows(20.0, 20.0, 10.0, 1.0)
	assert.Equal(t, []model.Window{
		{Start: 0, End: 20},
	}, windows)
}

func TestSlidingWindowsZeroDuration(t *testing.T) {
	assert.Empty(t, SlidingWindows(0, 20.0, 10.0, 1.0))
	assert.Empty(t, SlidingWindows(-3, 20.0, 10.0, 1.0))
}

func TestSlidingWindowsRoundsBoundaries(t *testing.T) {
	windows := SlidingWindows(30.333333, 20.0, 10.0, 1.0)
	assert.Equal(t, []model.Window{
		{Start: 0, End: 20},
		{Start: 10, End: 30},
		{Start: 20, End: 30.33},
	}, windows)
}
