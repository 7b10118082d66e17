package imageio

import (
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 10), B: 128, A: 255})
		}
	}
	return img
}

func TestSaveWritesAndOverwrites(t *testing.T) {
	sw := NewSnapshotWriter(testLogger())
	path := filepath.Join(t.TempDir(), "frame.png")

	require.NoError(t, sw.Save(testImage(), path))
	first, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, first.Size())

	// Saving again must overwrite, not fail.
	require.NoError(t, sw.Save(testImage(), path))
}

func TestSaveRejectsUnsupportedFormat(t *testing.T) {
	sw := NewSnapshotWriter(testLogger())
	err := sw.Save(testImage(), filepath.Join(t.TempDir(), "frame.webp"))
	assert.Error(t, err)
}

func TestSaveRejectsNilImage(t *testing.T) {
	sw := NewSnapshotWriter(testLogger())
	assert.Error(t, sw.Save(nil, "frame.png"))
}
