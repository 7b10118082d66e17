package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thermal-viewer/internal/thermal"
)

func uniformField(w, h int, v float32) *thermal.Field {
	f := thermal.NewField(w, h)
	for i := range f.Pix {
		f.Pix[i] = v
	}
	return f
}

func TestComputeUniformFrame(t *testing.T) {
	f := uniformField(thermal.FrameWidth, thermal.FrameHeight, 25.0)
	s := NewCalculator().Compute(f, 0)

	assert.Equal(t, float32(25.0), s.Min)
	assert.Equal(t, float32(25.0), s.Max)
	assert.Equal(t, float32(25.0), s.Center)
	assert.InDelta(t, 25.0, float64(s.Average), 1e-4)
	// Degenerate constant frame: empty histogram, no divide by zero.
	assert.Empty(t, s.Histogram)
}

func TestComputeMaxPosition(t *testing.T) {
	f := uniformField(256, 192, 20.0)
	f.Pix[10*256+20] = 80.0

	s := NewCalculator().Compute(f, 0)
	assert.Equal(t, float32(80.0), s.Max)
	assert.Equal(t, 20.0/256.0, s.MaxX)
	assert.Equal(t, 10.0/192.0, s.MaxY)
}

func TestComputeCenterPixel(t *testing.T) {
	f := uniformField(256, 192, 0)
	f.Pix[256*(192/2)+256/2] = 42.0

	s := NewCalculator().Compute(f, 0)
	assert.Equal(t, float32(42.0), s.Center)
}

func TestHistogramCountsSumToPixels(t *testing.T) {
	f := thermal.NewField(256, 192)
	for i := range f.Pix {
		f.Pix[i] = -10.0 + float32(i%500)*0.1
	}

	s := NewCalculator().Compute(f, 0)
	require.Len(t, s.Histogram, DefaultHistogramBins)

	total := 0
	for _, p := range s.Histogram {
		total += p.Count
	}
	assert.Equal(t, 256*192, total)

	// Bin centers start at min and advance by binWidth.
	binWidth := float64(s.Max-s.Min) / float64(DefaultHistogramBins-1)
	assert.InDelta(t, float64(s.Min), s.Histogram[0].Temperature, 1e-6)
	assert.InDelta(t, float64(s.Min)+binWidth, s.Histogram[1].Temperature, 1e-6)
}

func TestHistogramMaxValueClampedIntoLastBin(t *testing.T) {
	f := thermal.NewField(4, 2)
	copy(f.Pix, []float32{0, 1, 2, 3, 4, 5, 6, 100})

	c := &Calculator{Bins: 10}
	s := c.Compute(f, 0)
	require.Len(t, s.Histogram, 10)
	assert.Equal(t, 1, s.Histogram[9].Count)
}

func TestGridSamplesMatchSourcePixels(t *testing.T) {
	f := thermal.NewField(256, 192)
	for i := range f.Pix {
		f.Pix[i] = float32(i)
	}

	for _, density := range []int{4, 8, 16} {
		s := NewCalculator().Compute(f, density)
		require.Len(t, s.Grid, density-1)
		for _, row := range s.Grid {
			require.Len(t, row, density-1)
			for _, g := range row {
				assert.GreaterOrEqual(t, g.X, 0.0)
				assert.Less(t, g.X, 1.0)
				assert.GreaterOrEqual(t, g.Y, 0.0)
				assert.Less(t, g.Y, 1.0)

				x := int(g.X * 256)
				y := int(g.Y * 192)
				assert.Equal(t, f.At(x, y), g.Value)
			}
		}
	}
}

func TestGridDisabledForLowDensity(t *testing.T) {
	f := uniformField(8, 8, 1)
	s := NewCalculator().Compute(f, 0)
	assert.Nil(t, s.Grid)
}
