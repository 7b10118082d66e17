package render

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"thermal-viewer/internal/thermal"
)

// Colorizer turns a temperature field into a false-color BGR raster:
// normalize to [0,255], map through the anchor-color curve, orient, then
// upsample with Lanczos4 so small sensor resolutions don't block up.
type Colorizer struct {
	logger *logrus.Logger
}

// NewColorizer returns a colorizer logging through logger.
func NewColorizer(logger *logrus.Logger) *Colorizer {
	return &Colorizer{logger: logger}
}

// Render produces the orientation-adjusted, upscaled raster. The caller
// owns the returned Mat and must Close it. min/max define the intensity
// range; a constant frame degenerates to a range floor of 1.0 instead of
// dividing by zero.
func (c *Colorizer) Render(f *thermal.Field, minV, maxV float32, cmap *ColorMap, orient Orientation, scale int) (gocv.Mat, error) {
	if scale < 1 {
		scale = 1
	}

	span := float64(maxV - minV)
	if span < 1.0 {
		// Constant or near-constant frame; the floor keeps the
		// normalization from dividing by zero.
		c.logger.WithFields(logrus.Fields{"min": minV, "max": maxV}).Debug("clamping degenerate intensity range")
		span = 1.0
	}

	// OpenCV rasters are BGR byte order.
	bgr := make([]byte, f.Width*f.Height*3)
	for i, v := range f.Pix {
		norm := 255.0 * float64(v-minV) / span
		if norm < 0 {
			norm = 0
		} else if norm > 255 {
			norm = 255
		}
		px := cmap.At(uint8(norm))
		bgr[3*i] = px.B
		bgr[3*i+1] = px.G
		bgr[3*i+2] = px.R
	}

	base, err := gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8UC3, bgr)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("colorize: building raster: %w", err)
	}

	oriented, err := ApplyOrientation(base, orient)
	base.Close()
	if err != nil {
		return gocv.NewMat(), err
	}

	if scale == 1 {
		return oriented, nil
	}

	target := image.Point{X: oriented.Cols() * scale, Y: oriented.Rows() * scale}
	scaled := gocv.NewMat()
	if err := gocv.Resize(oriented, &scaled, target, 0, 0, gocv.InterpolationLanczos4); err != nil {
		oriented.Close()
		scaled.Close()
		return gocv.NewMat(), fmt.Errorf("colorize: upscaling to %dx%d: %w", target.X, target.Y, err)
	}
	oriented.Close()

	if scaled.Empty() {
		scaled.Close()
		return gocv.NewMat(), fmt.Errorf("colorize: upscaling returned empty result")
	}
	return scaled, nil
}

// ApplyOrientation rotates and mirrors a raster according to the shared
// orientation rules. The caller owns the returned Mat.
func ApplyOrientation(src gocv.Mat, orient Orientation) (gocv.Mat, error) {
	current := src.Clone()

	var code gocv.RotateFlag
	rotated := true
	switch orient.QuarterTurns() {
	case 1:
		code = gocv.Rotate90Clockwise
	case 2:
		code = gocv.Rotate180Clockwise
	case 3:
		code = gocv.Rotate90CounterClockwise
	default:
		rotated = false
	}
	if rotated {
		dst := gocv.NewMat()
		if err := gocv.Rotate(current, &dst, code); err != nil {
			current.Close()
			dst.Close()
			return gocv.NewMat(), fmt.Errorf("colorize: rotating raster: %w", err)
		}
		current.Close()
		current = dst
	}

	if orient.Mirrored() {
		dst := gocv.NewMat()
		// Flip code 1 is a horizontal flip.
		if err := gocv.Flip(current, &dst, 1); err != nil {
			current.Close()
			dst.Close()
			return gocv.NewMat(), fmt.Errorf("colorize: mirroring raster: %w", err)
		}
		current.Close()
		current = dst
	}

	return current, nil
}
