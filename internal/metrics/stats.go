// Per-frame statistics for calibrated temperature fields.
package metrics

import (
	"math"

	"thermal-viewer/internal/thermal"
)

// DefaultHistogramBins is the fixed bin count spanning [min, max].
const DefaultHistogramBins = 50

// HistogramPoint is one bin: the temperature at the bin's lower edge and
// the number of pixels that fell into it.
type HistogramPoint struct {
	Temperature float64
	Count       int
}

// GridSample is one sampled pixel with its normalized position in [0,1).
type GridSample struct {
	Value float32
	X     float64
	Y     float64
}

// Statistics summarizes one field. Never mutated after construction.
type Statistics struct {
	Min     float32
	Max     float32
	Average float32
	Center  float32

	// Normalized location of the maximum.
	MaxX float64
	MaxY float64

	Histogram []HistogramPoint
	Grid      [][]GridSample
}

// Calculator computes Statistics from a field. The grid density is the
// configured N of the N-by-N overlay sample request; the engine samples
// an (N-1)-by-(N-1) interior grid.
type Calculator struct {
	Bins int
}

// NewCalculator returns a calculator with the default histogram size.
func NewCalculator() *Calculator {
	return &Calculator{Bins: DefaultHistogramBins}
}

// Compute runs a full scan of the field. density selects the grid size;
// densities below 3 disable the grid.
func (c *Calculator) Compute(f *thermal.Field, density int) *Statistics {
	s := &Statistics{}
	if len(f.Pix) == 0 {
		return s
	}

	minV, maxV := f.Pix[0], f.Pix[0]
	maxIdx := 0
	sum := 0.0
	for i, v := range f.Pix {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
			maxIdx = i
		}
		sum += float64(v)
	}
	s.Min = minV
	s.Max = maxV
	s.Average = float32(sum / float64(len(f.Pix)))
	s.MaxX = float64(maxIdx%f.Width) / float64(f.Width)
	s.MaxY = float64(maxIdx/f.Width) / float64(f.Height)
	s.Center = f.Pix[f.Width*(f.Height/2)+f.Width/2]

	s.Histogram = c.histogram(f, minV, maxV)
	if density >= 3 {
		s.Grid = sampleGrid(f, density)
	}
	return s
}

// histogram buckets every pixel into Bins bins spanning [min, max]. A
// constant frame has zero bin width; the histogram is empty then rather
// than risking a divide by zero.
func (c *Calculator) histogram(f *thermal.Field, minV, maxV float32) []HistogramPoint {
	bins := c.Bins
	if bins < 2 {
		bins = DefaultHistogramBins
	}
	binWidth := float64(maxV-minV) / float64(bins-1)
	if binWidth == 0 {
		return nil
	}

	counts := make([]int, bins)
	for _, v := range f.Pix {
		idx := int(float64(v-minV) / binWidth)
		if idx < 0 {
			idx = 0
		} else if idx > bins-1 {
			// The value exactly at max lands here.
			idx = bins - 1
		}
		counts[idx]++
	}

	out := make([]HistogramPoint, bins)
	for i, n := range counts {
		out[i] = HistogramPoint{Temperature: float64(i)*binWidth + float64(minV), Count: n}
	}
	return out
}

// sampleGrid reads a (density-1)x(density-1) interior grid of source
// pixels using integer step sizes, recording each sample's value and
// normalized position.
func sampleGrid(f *thermal.Field, density int) [][]GridSample {
	rows := density - 1
	cols := density - 1
	stepX := (f.Width - 1) / (cols - 1)
	stepY := (f.Height - 1) / (rows - 1)

	grid := make([][]GridSample, rows)
	for r := 0; r < rows; r++ {
		grid[r] = make([]GridSample, cols)
		for col := 0; col < cols; col++ {
			x := clampInt(int(math.Round(float64(stepX)*float64(col)+float64(stepX)/2)), 0, f.Width-1)
			y := clampInt(int(math.Round(float64(stepY)*float64(r)+float64(stepY)/2)), 0, f.Height-1)
			grid[r][col] = GridSample{
				Value: f.At(x, y),
				X:     float64(x) / float64(f.Width),
				Y:     float64(y) / float64(f.Height),
			}
		}
	}
	return grid
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
