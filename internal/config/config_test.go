package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thermal-viewer/internal/render"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	want := Default()
	want.ColorMap = "rainbow"
	want.Orientation = "right-mirrored"
	want.GridDensity = 16
	want.OverlayMode = "grid"
	want.Unit = "fahrenheit"
	want.Averaging = AveragingSettings{Enabled: true, Window: 6}
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, render.OrientRightMirrored, got.ResolvedOrientation())
	assert.Equal(t, render.OverlayGrid, got.ResolvedOverlayMode())
	assert.Equal(t, render.UnitFahrenheit, got.ResolvedUnit())
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("color_map: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestNormalizeSnapsBadValues(t *testing.T) {
	s := Settings{
		ColorMap:    "plasma-deluxe",
		Orientation: "diagonal",
		GridDensity: 7,
		OverlayMode: "sparkles",
		Unit:        "kelvin",
		Upscale:     100,
		Averaging:   AveragingSettings{Window: 0},
		Video:       VideoSettings{FPS: -1},
	}
	s.Normalize()

	def := Default()
	assert.Equal(t, def, s)
}

func TestNormalizeKeepsValidValues(t *testing.T) {
	s := Default()
	s.GridDensity = 4
	s.Upscale = 2
	s.Normalize()
	assert.Equal(t, 4, s.GridDensity)
	assert.Equal(t, 2, s.Upscale)
}
