package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"thermal-viewer/internal/metrics"
)

// OverlayMode selects which temperature labels are drawn. Point mode and
// grid mode are mutually exclusive.
type OverlayMode int

const (
	// OverlayPoint draws the center temperature in white and the
	// maximum temperature in red at the hot pixel's position.
	OverlayPoint OverlayMode = iota
	// OverlayGrid draws one label per grid sample.
	OverlayGrid
	// OverlayNone leaves the raster untouched.
	OverlayNone
)

// ParseOverlayMode resolves a configuration string.
func ParseOverlayMode(s string) (OverlayMode, error) {
	switch s {
	case "point":
		return OverlayPoint, nil
	case "grid":
		return OverlayGrid, nil
	case "none":
		return OverlayNone, nil
	}
	return OverlayPoint, fmt.Errorf("render: unknown overlay mode %q", s)
}

// Grid labels below this are warm-up garbage, not readings.
const gridSanityFloor = -50.0

var (
	overlayWhite = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	overlayRed   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// Overlay composites temperature text onto an already-oriented raster.
// Sample positions are remapped through the shared orientation rules
// before conversion to raster pixels; because the raster itself was
// rotated and mirrored first, glyphs always read upright.
type Overlay struct {
	font      gocv.HersheyFont
	fontScale float64
	thickness int
}

// NewOverlay returns an overlay renderer with the default type style.
func NewOverlay() *Overlay {
	return &Overlay{font: gocv.FontHersheyPlain, fontScale: 1.0, thickness: 1}
}

// Draw renders the labels for the selected mode onto raster.
func (o *Overlay) Draw(raster *gocv.Mat, mode OverlayMode, stats *metrics.Statistics, orient Orientation, unit Unit) error {
	switch mode {
	case OverlayPoint:
		return o.drawPoint(raster, stats, orient, unit)
	case OverlayGrid:
		return o.drawGrid(raster, stats, orient, unit)
	default:
		return nil
	}
}

func (o *Overlay) drawPoint(raster *gocv.Mat, stats *metrics.Statistics, orient Orientation, unit Unit) error {
	if err := o.label(raster, float64(stats.Center), 0.5, 0.5, orient, unit, overlayWhite); err != nil {
		return err
	}
	return o.label(raster, float64(stats.Max), stats.MaxX, stats.MaxY, orient, unit, overlayRed)
}

func (o *Overlay) drawGrid(raster *gocv.Mat, stats *metrics.Statistics, orient Orientation, unit Unit) error {
	for _, row := range stats.Grid {
		for _, sample := range row {
			v := float64(sample.Value)
			if math.IsNaN(v) || v < gridSanityFloor {
				continue
			}
			if err := o.label(raster, v, sample.X, sample.Y, orient, unit, overlayWhite); err != nil {
				return err
			}
		}
	}
	return nil
}

// label draws one temperature string anchored near the normalized
// sensor-space position (nx, ny), clamped so the glyph box stays inside
// the raster.
func (o *Overlay) label(raster *gocv.Mat, celsius, nx, ny float64, orient Orientation, unit Unit, c color.RGBA) error {
	dx, dy := orient.MapNorm(nx, ny)
	text := unit.FormatTemp(celsius)
	size := gocv.GetTextSize(text, o.font, o.fontScale, o.thickness)

	// PutText anchors at the baseline-left corner.
	x := int(dx*float64(raster.Cols())) - size.X/2
	y := int(dy*float64(raster.Rows())) + size.Y/2
	x = clampInt(x, 0, raster.Cols()-size.X)
	y = clampInt(y, size.Y, raster.Rows()-1)

	if err := gocv.PutText(raster, text, image.Point{X: x, Y: y}, o.font, o.fontScale, c, o.thickness); err != nil {
		return fmt.Errorf("overlay: drawing label: %w", err)
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
