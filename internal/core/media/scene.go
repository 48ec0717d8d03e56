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

	"golang.org/x/image/draw"
)

// The scene comparison operates on small grayscale thumbnails so the measure
// is cheap and insensitive to resolution.
const sceneThumbSize = 64

// DefaultSceneThreshold is the mean-squared-error above which two frames are
// considered different scenes.
const DefaultSceneThreshold = 50.0

// FrameDifference returns the mean squared error between two frames after
// both are downscaled to 64x64 grayscale. Identical frames score 0; a hard
// cut typically scores well into the hundreds.
func FrameDifference(a, b image.Image) float64 {
	ga := thumbnail(a)
	gb := thumbnail(b)
	var sum float64
	for i := range ga.Pix {
		d := float64(ga.Pix[i]) - float64(gb.Pix[i])
		sum += d * d
	}
	return sum / float64(len(ga.Pix))
}

// SceneChanged reports whether the difference between the previous and
// current frames exceeds the threshold. A nil previous frame always counts
// as a scene change so the first keyframe of a video is described.
func SceneChanged(previous, current image.Image, threshold float64) bool {
	if previous == nil {
		return true
	}
	return FrameDifference(previous, current) > threshold
}

func thumbnail(img image.Image) *image.Gray {
	gray := image.NewGray(image.Rect(0, 0, sceneThumbSize, sceneThumbSize))
	draw.ApproxBiLinear.Scale(gray, gray.Bounds(), img, img.Bounds(), draw.Src, nil)
	return gray
}
