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

package commands

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telearchive/news-video-search/internal/config"
	"github.com/telearchive/news-video-search/internal/core/cor"
	"github.com/telearchive/news-video-search/internal/core/model"
	"github.com/telearchive/news-video-search/internal/core/perception"
)

// fakeFrames serves synthetic frames keyed by extraction order. Frames
// default to a single solid color so consecutive windows look like the same
// scene unless a test configures a cut.
type fakeFrames struct {
	colors []uint8
	calls  int
	err    error
}

func (f *fakeFrames) Frame(context.Context, string, float64) (image.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	shade := uint8(128)
	if f.calls < len(f.colors) {
		shade = f.colors[f.calls]
	} else if len(f.colors) > 0 {
		shade = f.colors[len(f.colors)-1]
	}
	f.calls++
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: shade, G: shade, B: shade, A: 255})
		}
	}
	return img, nil
}

// fakeDescriber counts caption and OCR calls separately.
type fakeDescriber struct {
	captions    int
	reads       int
	captionErr  error
	captionText string
	ocrText     string
}

func (f *fakeDescriber) Describe(context.Context, image.Image) (string, error) {
	f.captions++
	if f.captionErr != nil {
		return "", f.captionErr
	}
	return fmt.Sprintf("%s %d", f.captionText, f.captions), nil
}

func (f *fakeDescriber) ReadText(context.Context, image.Image) (string, error) {
	f.reads++
	return f.ocrText, nil
}

type fakeEntities struct{}

func (fakeEntities) Entities(_ context.Context, text string) (model.EntitySet, error) {
	if text == "" {
		return model.EntitySet{}, nil
	}
	return model.EntitySet{People: []string{"Anchor"}}, nil
}

func testPipeline() config.Pipeline {
	return config.Pipeline{
		WindowSeconds:    20,
		StepSeconds:      10,
		MinWindowSeconds: 1,
		SceneThreshold:   50.0,
	}
}

func runFuse(t *testing.T, video *model.Video, transcript model.Transcript,
	frames *fakeFrames, describer *fakeDescriber) []*model.WindowRecord {
	t.Helper()
	cmd := NewWindowFuseCommand("fuse-windows", frames, describer, fakeEntities{}, testPipeline())

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(context.Background())
	chainCtx.Add(VideoParamName, video)
	chainCtx.Add(cor.CtxIn, transcript)

	cmd.Execute(chainCtx)
	require.False(t, chainCtx.HasErrors())
	return chainCtx.Get(RecordsParamName).([]*model.WindowRecord)
}

func testVideo(duration float64) *model.Video {
	return &model.Video{ID: "abcd1234", Path: "/media/summit.mp4", Filename: "summit.mp4", Duration: duration}
}

func TestFuseReusesCaptionForStaticScenes(t *testing.T) {
	frames := &fakeFrames{}
	describer := &fakeDescriber{captionText: "a studio desk", ocrText: "BREAKING"}
	transcript := model.Transcript{{Start: 0, End: 45, Text: "good evening"}}

	records := runFuse(t, testVideo(45), transcript, frames, describer)

	// 45s at 20/10 yields four windows, the last clipped to [30,45].
	// Identical frames mean only the very first window pays for a caption;
	// the rest reuse it.
	require.Len(t, records, 4)
	assert.Equal(t, 1, describer.captions)
	for _, rec := range records {
		assert.Equal(t, "a studio desk 1", rec.Caption)
	}
	// On-screen text is read on every window regardless of the scene gate.
	assert.Equal(t, 4, describer.reads)
}

func TestFuseRecaptionsOnSceneCut(t *testing.T) {
	// Window midpoints walk forward; a hard cut between the second and
	// third keyframe forces exactly one extra caption.
	frames := &fakeFrames{colors: []uint8{20, 20, 230, 230}}
	describer := &fakeDescriber{captionText: "scene", ocrText: ""}
	transcript := model.Transcript{{Start: 0, End: 45, Text: "now to the weather"}}

	records := runFuse(t, testVideo(45), transcript, frames, describer)

	require.Len(t, records, 4)
	assert.Equal(t, 2, describer.captions)
	assert.Equal(t, "scene 1", records[0].Caption)
	assert.Equal(t, "scene 1", records[1].Caption)
	assert.Equal(t, "scene 2", records[2].Caption)
	assert.Equal(t, "scene 2", records[3].Caption)
}

func TestFuseTranscriptAlignmentIsBoundaryExclusive(t *testing.T) {
	frames := &fakeFrames{}
	describer := &fakeDescriber{captionText: "desk", ocrText: ""}
	// The first segment ends exactly where window two begins; it must not
	// bleed into it. The second straddles the boundary and lands in both.
	transcript := model.Transcript{
		{Start: 0, End: 10, Text: "segment one"},
		{Start: 9, End: 12, Text: "segment two"},
		{Start: 30, End: 31, Text: "segment three"},
	}

	records := runFuse(t, testVideo(25), transcript, frames, describer)

	require.Len(t, records, 2)
	assert.Equal(t, model.Window{Start: 0, End: 20}, model.Window{Start: records[0].Start, End: records[0].End})
	assert.Equal(t, "segment one segment two", records[0].AudioText)
	// Window [10, 25): "segment one" touches the start boundary only and is
	// excluded; "segment three" is past the end.
	assert.Equal(t, "segment two", records[1].AudioText)
}

func TestFuseDegradesCaptionOnVisionError(t *testing.T) {
	frames := &fakeFrames{}
	describer := &fakeDescriber{captionErr: errors.New("vision quota exceeded"), ocrText: "TICKER"}
	transcript := model.Transcript{{Start: 0, End: 20, Text: "hello"}}

	records := runFuse(t, testVideo(20), transcript, frames, describer)

	require.NotEmpty(t, records)
	assert.Equal(t, perception.DegradedCaption, records[0].Caption)
	// The degraded window still carries its other two signals.
	assert.Equal(t, "TICKER", records[0].OCRText)
	assert.Equal(t, "hello", records[0].AudioText)
}

func TestFuseIndexesWindowWithoutKeyframe(t *testing.T) {
	frames := &fakeFrames{err: errors.New("seek past end")}
	describer := &fakeDescriber{captionText: "desk", ocrText: "TICKER"}
	transcript := model.Transcript{{Start: 0, End: 20, Text: "important speech"}}

	records := runFuse(t, testVideo(20), transcript, frames, describer)

	// A window without a keyframe is still indexed; only its two visual
	// sections are empty, and no vision calls are spent on it.
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Caption)
	assert.Empty(t, records[0].OCRText)
	assert.Equal(t, "important speech", records[0].AudioText)
	assert.Zero(t, describer.captions)
	assert.Zero(t, describer.reads)
}

func TestFuseSceneStateSurvivesMissingKeyframe(t *testing.T) {
	// The second keyframe fails; the third matches the first, so the scene
	// gate must still compare against the first and skip a recaption.
	frames := &fakeFrames{colors: []uint8{20, 20, 20}}
	failing := &droppingFrames{inner: frames, failCall: 2}
	describer := &fakeDescriber{captionText: "scene", ocrText: ""}
	transcript := model.Transcript{{Start: 0, End: 40, Text: "steady shot"}}

	cmd := NewWindowFuseCommand("fuse-windows", failing, describer, fakeEntities{}, testPipeline())
	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(context.Background())
	chainCtx.Add(VideoParamName, testVideo(40))
	chainCtx.Add(cor.CtxIn, transcript)
	cmd.Execute(chainCtx)
	require.False(t, chainCtx.HasErrors())

	records := chainCtx.Get(RecordsParamName).([]*model.WindowRecord)
	require.Len(t, records, 3)
	assert.Equal(t, 1, describer.captions)
	assert.Equal(t, "scene 1", records[0].Caption)
	assert.Empty(t, records[1].Caption)
	assert.Equal(t, "scene 1", records[2].Caption)
}

// droppingFrames fails exactly one extraction by call order.
type droppingFrames struct {
	inner    *fakeFrames
	failCall int
	calls    int
}

func (d *droppingFrames) Frame(ctx context.Context, path string, seconds float64) (image.Image, error) {
	d.calls++
	if d.calls == d.failCall {
		return nil, errors.New("decoder stall")
	}
	return d.inner.Frame(ctx, path, seconds)
}
