// False-color rendering of calibrated temperature fields.
package render

import (
	"image/color"
	"sort"
)

// ColorMap maps normalized intensity [0, 255] to a color through
// piecewise-linear interpolation between anchor colors placed uniformly
// across the domain. Maps are immutable; the catalog below is the only
// constructor path.
type ColorMap struct {
	Name    string
	anchors []color.RGBA
	lut     [256]color.RGBA
}

// At returns the color for one normalized intensity level.
func (m *ColorMap) At(level uint8) color.RGBA {
	return m.lut[level]
}

// Anchors returns a copy of the anchor list.
func (m *ColorMap) Anchors() []color.RGBA {
	out := make([]color.RGBA, len(m.anchors))
	copy(out, m.anchors)
	return out
}

func newColorMap(name string, anchors ...color.RGBA) *ColorMap {
	if len(anchors) < 2 {
		panic("render: color map needs at least two anchors")
	}
	m := &ColorMap{Name: name, anchors: anchors}
	n := len(anchors)
	for i := 0; i < 256; i++ {
		pos := float64(i) / 255.0 * float64(n-1)
		lo := int(pos)
		if lo >= n-1 {
			lo = n - 2
		}
		frac := pos - float64(lo)
		a, b := anchors[lo], anchors[lo+1]
		m.lut[i] = color.RGBA{
			R: lerp8(a.R, b.R, frac),
			G: lerp8(a.G, b.G, frac),
			B: lerp8(a.B, b.B, frac),
			A: 255,
		}
	}
	return m
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Fixed catalog of anchor tables. Selection is external configuration;
// the pipeline never mutates these.
var catalog = map[string]*ColorMap{
	"white-hot": newColorMap("white-hot",
		rgb(0, 0, 0), rgb(255, 255, 255)),
	"black-hot": newColorMap("black-hot",
		rgb(255, 255, 255), rgb(0, 0, 0)),
	"iron": newColorMap("iron",
		rgb(0, 0, 0), rgb(32, 0, 108), rgb(132, 0, 160), rgb(212, 56, 68),
		rgb(252, 140, 8), rgb(252, 220, 60), rgb(255, 255, 255)),
	"rainbow": newColorMap("rainbow",
		rgb(0, 0, 0), rgb(16, 0, 128), rgb(0, 128, 255), rgb(0, 220, 80),
		rgb(255, 255, 0), rgb(255, 96, 0), rgb(255, 0, 0), rgb(255, 255, 255)),
	"arctic": newColorMap("arctic",
		rgb(12, 16, 44), rgb(32, 72, 148), rgb(84, 164, 220),
		rgb(208, 240, 252), rgb(255, 255, 255)),
	"lava": newColorMap("lava",
		rgb(8, 0, 16), rgb(96, 0, 24), rgb(200, 32, 0),
		rgb(255, 140, 0), rgb(255, 236, 160)),
}

// DefaultColorMap is used when configuration names an unknown map.
const DefaultColorMap = "iron"

// MapByName looks up a catalog entry.
func MapByName(name string) (*ColorMap, bool) {
	m, ok := catalog[name]
	return m, ok
}

// MapOrDefault resolves name, falling back to the default map.
func MapOrDefault(name string) *ColorMap {
	if m, ok := catalog[name]; ok {
		return m
	}
	return catalog[DefaultColorMap]
}

// MapNames lists the catalog in stable order.
func MapNames() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
