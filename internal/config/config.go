// Explicit pipeline configuration: a yaml-backed Settings struct handed
// to the pipeline at construction and update time, never ambient global
// state.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"thermal-viewer/internal/render"
)

// AveragingSettings controls the temporal frame averager.
type AveragingSettings struct {
	Enabled bool `yaml:"enabled"`
	Window  int  `yaml:"window"`
}

// VideoSettings controls the recording profile.
type VideoSettings struct {
	FPS int `yaml:"fps"`
}

// Settings is everything a pipeline run needs resolved up front.
type Settings struct {
	ColorMap    string            `yaml:"color_map"`
	Orientation string            `yaml:"orientation"`
	GridDensity int               `yaml:"grid_density"`
	OverlayMode string            `yaml:"overlay_mode"`
	Unit        string            `yaml:"unit"`
	Upscale     int               `yaml:"upscale"`
	Averaging   AveragingSettings `yaml:"averaging"`
	Video       VideoSettings     `yaml:"video"`
}

// The supported grid densities. Unknown values snap to the default.
var gridDensities = map[int]bool{4: true, 8: true, 16: true}

// Default returns the settings used when no file is present.
func Default() Settings {
	return Settings{
		ColorMap:    render.DefaultColorMap,
		Orientation: render.OrientUp.String(),
		GridDensity: 8,
		OverlayMode: "point",
		Unit:        "celsius",
		Upscale:     4,
		Averaging:   AveragingSettings{Enabled: false, Window: 4},
		Video:       VideoSettings{FPS: 25},
	}
}

// Load reads and validates a settings file. A missing file yields the
// defaults without error; a malformed one is an error.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("config: reading %s: %w", path, err)
	}

	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("config: parsing %s: %w", path, err)
	}
	s.Normalize()
	return s, nil
}

// Save writes the settings file, overwriting any existing one.
func Save(path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("config: encoding settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

// Normalize snaps out-of-range values back to defaults so a hand-edited
// file can't wedge the pipeline.
func (s *Settings) Normalize() {
	def := Default()

	if _, ok := render.MapByName(s.ColorMap); !ok {
		s.ColorMap = def.ColorMap
	}
	if _, err := render.ParseOrientation(s.Orientation); err != nil {
		s.Orientation = def.Orientation
	}
	if !gridDensities[s.GridDensity] {
		s.GridDensity = def.GridDensity
	}
	if _, err := render.ParseOverlayMode(s.OverlayMode); err != nil {
		s.OverlayMode = def.OverlayMode
	}
	if _, err := render.ParseUnit(s.Unit); err != nil {
		s.Unit = def.Unit
	}
	if s.Upscale < 1 || s.Upscale > 8 {
		s.Upscale = def.Upscale
	}
	if s.Averaging.Window < 1 {
		s.Averaging.Window = def.Averaging.Window
	}
	if s.Video.FPS < 1 || s.Video.FPS > 60 {
		s.Video.FPS = def.Video.FPS
	}
}

// ResolvedOrientation returns the parsed orientation.
func (s Settings) ResolvedOrientation() render.Orientation {
	o, _ := render.ParseOrientation(s.Orientation)
	return o
}

// ResolvedOverlayMode returns the parsed overlay mode.
func (s Settings) ResolvedOverlayMode() render.OverlayMode {
	m, _ := render.ParseOverlayMode(s.OverlayMode)
	return m
}

// ResolvedUnit returns the parsed display unit.
func (s Settings) ResolvedUnit() render.Unit {
	u, _ := render.ParseUnit(s.Unit)
	return u
}
