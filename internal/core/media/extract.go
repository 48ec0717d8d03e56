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
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strconv"

	"github.com/telearchive/news-video-search/internal/core/model"
)

const (
	audioTempPrefix = "nvs-audio-"
	frameTempPrefix = "nvs-frame-"
)

// FrameSource yields a single decoded frame near a timestamp. Extractor is
// the ffmpeg-backed implementation; tests substitute synthetic frames.
type FrameSource interface {
	Frame(ctx context.Context, path string, seconds float64) (image.Image, error)
}

// Extractor pulls keyframes and audio tracks out of video files with ffmpeg.
type Extractor struct {
	commandPath string // Path to the ffmpeg executable.
}

// NewExtractor creates an Extractor using the given ffmpeg executable path.
func NewExtractor(commandPath string) *Extractor {
	if commandPath == "" {
		commandPath = "ffmpeg"
	}
	return &Extractor{commandPath: commandPath}
}

// Frame decodes the single frame nearest the given timestamp. The frame is
// emitted as PNG on ffmpeg's stdout so nothing touches the filesystem.
func (e *Extractor) Frame(ctx context.Context, path string, seconds float64) (image.Image, error) {
	cmd := exec.CommandContext(ctx, e.commandPath,
		"-hide_banner",
		"-loglevel", "error",
		"-ss", strconv.FormatFloat(seconds, 'f', 3, 64),
		"-i", path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"pipe:1")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: frame extraction at %.3fs failed for %s: %v",
			model.ErrUnreadableMedia, seconds, path, err)
	}
	if out.Len() == 0 {
		// Seeking past the end of the stream produces no output frame.
		return nil, fmt.Errorf("%w: no frame at %.3fs in %s", model.ErrUnreadableMedia, seconds, path)
	}
	img, err := png.Decode(&out)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding frame at %.3fs in %s: %v",
			model.ErrUnreadableMedia, seconds, path, err)
	}
	return img, nil
}

// Audio extracts the full audio track to a temporary 16 kHz mono WAV file
// suitable for speech recognition and returns its path. The caller owns the
// file and should register it for cleanup.
func (e *Extractor) Audio(ctx context.Context, path string) (string, error) {
	tempFile, err := os.CreateTemp("", audioTempPrefix+"*.wav")
	if err != nil {
		return "", fmt.Errorf("could not create temp audio file: %w", err)
	}
	_ = tempFile.Close()

	cmd := exec.CommandContext(ctx, e.commandPath,
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", path,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		tempFile.Name())
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		_ = os.Remove(tempFile.Name())
		return "", fmt.Errorf("%w: audio extraction failed for %s: %v", model.ErrUnreadableMedia, path, err)
	}
	return tempFile.Name(), nil
}
