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

package workflow_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/telearchive/news-video-search/internal/core/workflow"
)

const tName = "github.com/telearchive/news-video-search/internal/core/workflow"

var logger = otelslog.NewLogger(tName)

func TestMain(m *testing.M) {
	logger.Info("completed test setup")
	os.Exit(m.Run())
}

// mp4Header is the smallest byte sequence the content sniffer recognizes as
// an MP4 file: a 24-byte ftyp box with the isom brand.
var mp4Header = []byte{
	0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
	'i', 's', 'o', 'm', 0x00, 0x00, 0x02, 0x00,
	'i', 's', 'o', 'm', 'i', 's', 'o', '2',
}

func TestScanVideosFiltersByContent(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broadcast.mp4"), mp4Header, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a video"), 0o644))
	// Extension lies; content wins.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fake.mp4"), []byte("plain text"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	videos, err := workflow.ScanVideos(dir)
	require.NoError(t, err)

	require.Len(t, videos, 1)
	assert.Equal(t, "broadcast.mp4", videos[0].Filename)
	assert.Equal(t, filepath.Join(dir, "broadcast.mp4"), videos[0].Path)
	assert.Len(t, videos[0].ID, 8)
}

func TestScanVideosAssignsUniqueIDs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.mp4"), mp4Header, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.mp4"), mp4Header, 0o644))

	videos, err := workflow.ScanVideos(dir)
	require.NoError(t, err)

	require.Len(t, videos, 2)
	assert.NotEqual(t, videos[0].ID, videos[1].ID)
}

func TestScanVideosMissingDirectory(t *testing.T) {
	_, err := workflow.ScanVideos(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
