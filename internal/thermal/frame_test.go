package thermal

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildRaw assembles a full raw buffer (preview half + data half) whose
// data region is filled by fill(x, y).
func buildRaw(t *testing.T, stride int, fill func(x, y int) uint16) RawFrame {
	t.Helper()
	data := make([]byte, (DataStartRow+FrameHeight)*stride)
	for y := 0; y < FrameHeight; y++ {
		row := data[(DataStartRow+y)*stride:]
		for x := 0; x < FrameWidth; x++ {
			binary.BigEndian.PutUint16(row[2*x:], fill(x, y))
		}
	}
	return RawFrame{Data: data, BytesPerRow: stride}
}

func TestDecodeCalibration(t *testing.T) {
	raw := buildRaw(t, 2*FrameWidth, func(x, y int) uint16 {
		return uint16(y*FrameWidth+x) % 0x4000
	})

	f, err := NewDecoder().Decode(raw)
	require.NoError(t, err)
	require.Equal(t, FrameWidth*FrameHeight, len(f.Pix))

	for i, got := range f.Pix {
		v := uint16(i) % 0x4000
		want := float32(float64(v)/64.0 - 273.2)
		if got != want {
			t.Fatalf("pixel %d: got %v, want %v", i, got, want)
		}
	}
}

func TestDecodeUniform25C(t *testing.T) {
	// Exactly 25.0 degrees in sensor fixed point.
	raw25 := uint16(math.Round((25.0 + 273.2) * 64))
	raw := buildRaw(t, 2*FrameWidth, func(x, y int) uint16 { return raw25 })

	f, err := NewDecoder().Decode(raw)
	require.NoError(t, err)
	for _, v := range f.Pix {
		assert.InDelta(t, 25.0, float64(v), 0.01)
	}
}

func TestDecodeRespectsStride(t *testing.T) {
	// Wider rows than the data region; trailing bytes must be ignored.
	stride := 2*FrameWidth + 8
	raw := buildRaw(t, stride, func(x, y int) uint16 { return uint16(x) })

	f, err := NewDecoder().Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, Calibrate(7), f.At(7, 50))
	assert.Equal(t, Calibrate(255), f.At(255, 191))
}

func TestDecodeIncompleteBuffer(t *testing.T) {
	raw := buildRaw(t, 2*FrameWidth, func(x, y int) uint16 { return 0 })
	raw.Data = raw.Data[:len(raw.Data)-100]

	_, err := NewDecoder().Decode(raw)
	require.ErrorIs(t, err, ErrIncompleteFrame)
}

func TestDecodeShortStride(t *testing.T) {
	_, err := NewDecoder().Decode(RawFrame{Data: make([]byte, 1<<20), BytesPerRow: FrameWidth})
	require.ErrorIs(t, err, ErrIncompleteFrame)
}
