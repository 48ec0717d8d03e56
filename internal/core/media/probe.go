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

// Package media wraps the ffmpeg and ffprobe command-line tools and provides
// the pure temporal and visual computations of the pipeline: container
// probing, sliding-window segmentation, keyframe and audio extraction, and
// the scene-change measure.
package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/telearchive/news-video-search/internal/core/model"
)

// Prober measures video files with ffprobe.
type Prober struct {
	commandPath string // Path to the ffprobe executable.
}

// NewProber creates a Prober using the given ffprobe executable path.
func NewProber(commandPath string) *Prober {
	if commandPath == "" {
		commandPath = "ffprobe"
	}
	return &Prober{commandPath: commandPath}
}

// Duration returns the video duration in seconds, computed as frame count
// divided by frame rate. A stream that reports a non-positive frame rate
// yields 0.0 without error. A file ffprobe cannot read is reported as
// unreadable media.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, p.commandPath,
		"-v", "error",
		"-select_streams", "v:0",
		"-count_packets",
		"-show_entries", "stream=r_frame_rate,nb_read_packets",
		"-of", "csv=p=0",
		path)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("%w: ffprobe failed for %s: %v", model.ErrUnreadableMedia, path, err)
	}

	fields := strings.Split(strings.TrimSpace(out.String()), ",")
	if len(fields) < 2 {
		return 0, fmt.Errorf("%w: ffprobe returned no video stream for %s", model.ErrUnreadableMedia, path)
	}

	fps, err := parseFrameRate(fields[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrUnreadableMedia, err)
	}
	frames, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad frame count %q", model.ErrUnreadableMedia, fields[1])
	}
	if fps <= 0 {
		return 0.0, nil
	}
	return frames / fps, nil
}

// parseFrameRate parses ffprobe's rational frame rate (e.g. "30000/1001").
func parseFrameRate(in string) (float64, error) {
	in = strings.TrimSpace(in)
	num, den, found := strings.Cut(in, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("bad frame rate %q", in)
	}
	if !found {
		return n, nil
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil {
		return 0, fmt.Errorf("bad frame rate %q", in)
	}
	if d == 0 {
		return 0, nil
	}
	return n / d, nil
}
