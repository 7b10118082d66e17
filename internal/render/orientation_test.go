package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrientationSize(t *testing.T) {
	w, h := OrientUp.Size(256, 192)
	assert.Equal(t, 256, w)
	assert.Equal(t, 192, h)

	w, h = OrientRight.Size(256, 192)
	assert.Equal(t, 192, w)
	assert.Equal(t, 256, h)

	w, h = OrientLeftMirrored.Size(256, 192)
	assert.Equal(t, 192, w)
	assert.Equal(t, 256, h)

	w, h = OrientDownMirrored.Size(256, 192)
	assert.Equal(t, 256, w)
	assert.Equal(t, 192, h)
}

func TestOrientationMapNorm(t *testing.T) {
	// A point near the top-left of the sensor.
	x, y := 0.25, 0.125

	cases := []struct {
		orient Orientation
		wantX  float64
		wantY  float64
	}{
		{OrientUp, 0.25, 0.125},
		{OrientRight, 0.875, 0.25},
		{OrientDown, 0.75, 0.875},
		{OrientLeft, 0.125, 0.75},
		{OrientUpMirrored, 0.75, 0.125},
		{OrientRightMirrored, 0.125, 0.25},
		{OrientDownMirrored, 0.25, 0.875},
		{OrientLeftMirrored, 0.875, 0.75},
	}
	for _, tc := range cases {
		gotX, gotY := tc.orient.MapNorm(x, y)
		assert.InDelta(t, tc.wantX, gotX, 1e-9, tc.orient.String())
		assert.InDelta(t, tc.wantY, gotY, 1e-9, tc.orient.String())
	}
}

func TestOrientationCenterIsFixedPoint(t *testing.T) {
	for o := OrientUp; o <= OrientLeftMirrored; o++ {
		x, y := o.MapNorm(0.5, 0.5)
		assert.InDelta(t, 0.5, x, 1e-9)
		assert.InDelta(t, 0.5, y, 1e-9)
	}
}

func TestParseOrientationRoundTrip(t *testing.T) {
	for o := OrientUp; o <= OrientLeftMirrored; o++ {
		parsed, err := ParseOrientation(o.String())
		require.NoError(t, err)
		assert.Equal(t, o, parsed)
	}

	_, err := ParseOrientation("sideways")
	assert.Error(t, err)
}
