// Raw sensor frame decoding and radiometric calibration.
package thermal

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Sensor geometry. The sensor multiplexes a preview half and a data half
// into one tall raw image; only the data half carries fixed-point
// temperature samples.
const (
	FrameWidth   = 256
	FrameHeight  = 192
	DataStartRow = 192
)

// ErrIncompleteFrame reports a raw buffer too short to contain the full
// temperature-data region. Callers drop the frame and continue.
var ErrIncompleteFrame = errors.New("thermal: incomplete raw frame")

// RawFrame is one untrusted buffer delivered by the capture source.
// Data holds big-endian 16-bit samples, BytesPerRow is the row stride.
type RawFrame struct {
	Data        []byte
	BytesPerRow int
}

// Field is a calibrated temperature field: Width*Height Celsius values,
// row-major. A Field is never mutated after the decoder (or averager)
// produced it.
type Field struct {
	Width  int
	Height int
	Pix    []float32
}

// NewField allocates a zeroed field.
func NewField(width, height int) *Field {
	return &Field{Width: width, Height: height, Pix: make([]float32, width*height)}
}

// At returns the value at (x, y). No bounds checking beyond the slice's own.
func (f *Field) At(x, y int) float32 {
	return f.Pix[y*f.Width+x]
}

// Decoder extracts the data half of a raw buffer and calibrates it to
// Celsius. Samples are 1/64-unit Kelvin-scaled with a -273.2 offset.
type Decoder struct {
	Width    int
	Height   int
	StartRow int
}

// NewDecoder returns a decoder for the default sensor geometry.
func NewDecoder() *Decoder {
	return &Decoder{Width: FrameWidth, Height: FrameHeight, StartRow: DataStartRow}
}

// Decode converts the raw buffer into a fresh Field. It validates the
// buffer extent before touching it and returns ErrIncompleteFrame when
// the data region is not fully present. Values are not clamped; absurd
// readings pass through for downstream policy to handle.
func (d *Decoder) Decode(raw RawFrame) (*Field, error) {
	rowBytes := 2 * d.Width
	if raw.BytesPerRow < rowBytes {
		return nil, fmt.Errorf("%w: stride %d below row size %d", ErrIncompleteFrame, raw.BytesPerRow, rowBytes)
	}
	need := (d.StartRow+d.Height-1)*raw.BytesPerRow + rowBytes
	if len(raw.Data) < need {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrIncompleteFrame, len(raw.Data), need)
	}

	f := NewField(d.Width, d.Height)
	for y := 0; y < d.Height; y++ {
		row := raw.Data[(d.StartRow+y)*raw.BytesPerRow:]
		base := y * d.Width
		for x := 0; x < d.Width; x++ {
			v := binary.BigEndian.Uint16(row[2*x:])
			f.Pix[base+x] = Calibrate(v)
		}
	}
	return f, nil
}

// Calibrate converts one raw fixed-point sample to Celsius.
func Calibrate(raw uint16) float32 {
	return float32(float64(raw)/64.0 - 273.2)
}
