package render

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thermal-viewer/internal/thermal"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func gradientField(w, h int) *thermal.Field {
	f := thermal.NewField(w, h)
	for i := range f.Pix {
		f.Pix[i] = float32(i)
	}
	return f
}

func TestRenderConstantFieldIsUniform(t *testing.T) {
	f := thermal.NewField(64, 48)
	for i := range f.Pix {
		f.Pix[i] = 25.0
	}

	c := NewColorizer(testLogger())
	mat, err := c.Render(f, 25.0, 25.0, MapOrDefault("iron"), OrientUp, 1)
	require.NoError(t, err)
	defer mat.Close()

	require.False(t, mat.Empty())
	want := MapOrDefault("iron").At(0)
	data := mat.ToBytes()
	require.Equal(t, 64*48*3, len(data))
	for i := 0; i < len(data); i += 3 {
		assert.Equal(t, want.B, data[i])
		assert.Equal(t, want.G, data[i+1])
		assert.Equal(t, want.R, data[i+2])
		if t.Failed() {
			break
		}
	}
}

func TestRenderDimensions(t *testing.T) {
	f := gradientField(64, 48)
	c := NewColorizer(testLogger())

	cases := []struct {
		orient Orientation
		scale  int
		wantW  int
		wantH  int
	}{
		{OrientUp, 1, 64, 48},
		{OrientUp, 3, 192, 144},
		{OrientRight, 2, 96, 128},
		{OrientLeftMirrored, 2, 96, 128},
		{OrientDown, 1, 64, 48},
	}
	for _, tc := range cases {
		mat, err := c.Render(f, 0, float32(64*48-1), MapOrDefault("white-hot"), tc.orient, tc.scale)
		require.NoError(t, err, tc.orient.String())
		assert.Equal(t, tc.wantW, mat.Cols(), tc.orient.String())
		assert.Equal(t, tc.wantH, mat.Rows(), tc.orient.String())
		mat.Close()
	}
}

func TestRenderMirrorFlipsHotColumn(t *testing.T) {
	// One hot column at the left edge; mirroring must move it right.
	f := thermal.NewField(32, 16)
	for y := 0; y < 16; y++ {
		f.Pix[y*32] = 100.0
	}

	c := NewColorizer(testLogger())
	plain, err := c.Render(f, 0, 100, MapOrDefault("white-hot"), OrientUp, 1)
	require.NoError(t, err)
	defer plain.Close()
	mirrored, err := c.Render(f, 0, 100, MapOrDefault("white-hot"), OrientUpMirrored, 1)
	require.NoError(t, err)
	defer mirrored.Close()

	pb := plain.ToBytes()
	mb := mirrored.ToBytes()
	// Blue channel of (0,0) vs (31,0).
	assert.Equal(t, uint8(255), pb[0])
	assert.Equal(t, uint8(255), mb[31*3])
	assert.NotEqual(t, uint8(255), mb[0])
}
