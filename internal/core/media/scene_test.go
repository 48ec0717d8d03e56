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
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func solidFrame(c color.Color, w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestFrameDifferenceIdenticalFrames(t *testing.T) {
	a := solidFrame(color.RGBA{R: 120, G: 120, B: 120, A: 255}, 320, 180)
	b := solidFrame(color.RGBA{R: 120, G: 120, B: 120, A: 255}, 320, 180)
	assert.Zero(t, FrameDifference(a, b))
}

func TestFrameDifferenceHardCut(t *testing.T) {
	black := solidFrame(color.RGBA{A: 255}, 320, 180)
	white := solidFrame(color.RGBA{R: 255, G: 255, B: 255, A: 255}, 320, 180)
	// A black-to-white cut is the maximum possible difference, 255^2.
	assert.InDelta(t, 65025.0, FrameDifference(black, white), 1.0)
}

func TestFrameDifferenceIgnoresResolution(t *testing.T) {
	// The same content at different resolutions compares as near identical
	// because both sides are reduced to 64x64 thumbnails first.
	a := solidFrame(color.RGBA{R: 40, G: 90, B: 200, A: 255}, 1280, 720)
	b := solidFrame(color.RGBA{R: 40, G: 90, B: 200, A: 255}, 320, 180)
	assert.Less(t, FrameDifference(a, b), 1.0)
}

func TestSceneChangedThreshold(t *testing.T) {
	dark := solidFrame(color.RGBA{R: 10, G: 10, B: 10, A: 255}, 64, 64)
	slightlyLighter := solidFrame(color.RGBA{R: 14, G: 14, B: 14, A: 255}, 64, 64)
	bright := solidFrame(color.RGBA{R: 200, G: 200, B: 200, A: 255}, 64, 64)

	assert.False(t, SceneChanged(dark, slightlyLighter, DefaultSceneThreshold))
	assert.True(t, SceneChanged(dark, bright, DefaultSceneThreshold))
}

func TestSceneChangedNilPrevious(t *testing.T) {
	frame := solidFrame(color.RGBA{R: 50, G: 50, B: 50, A: 255}, 64, 64)
	assert.True(t, SceneChanged(nil, frame, DefaultSceneThreshold))
}
