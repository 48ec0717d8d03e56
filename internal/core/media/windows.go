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
	"math"

	"github.com/telearchive/news-video-search/internal/core/model"
)

// SlidingWindows computes the analysis windows for a video of the given
// duration. Windows start at zero and advance by step; each window spans
// windowSeconds but is clipped at the video's end. A clipped tail shorter
// than minSeconds is discarded. Overlap between consecutive windows is
// expected whenever step is smaller than the window size. Boundaries are
// rounded to two decimal places so identities stay stable across runs.
func SlidingWindows(duration, windowSeconds, step, minSeconds float64) []model.Window {
	windows := make([]model.Window, 0)
	if duration <= 0 || windowSeconds <= 0 || step <= 0 {
		return windows
	}
	for start := 0.0; start < duration; start += step {
		end := math.Min(start+windowSeconds, duration)
		if end-start >= minSeconds {
			windows = append(windows, model.Window{
				Start: round2(start),
				End:   round2(end),
			})
		}
		if end == duration {
			break
		}
	}
	return windows
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
