package render

import "fmt"

// Orientation is one of the 8 display orientations: four quarter-turn
// rotations, each optionally mirrored. It carries the dimension-swap and
// coordinate-remap rules used by every consumer that converts between
// sensor space and display space, so the logic lives in exactly one
// place.
type Orientation int

const (
	OrientUp Orientation = iota
	OrientRight
	OrientDown
	OrientLeft
	OrientUpMirrored
	OrientRightMirrored
	OrientDownMirrored
	OrientLeftMirrored
)

var orientationNames = map[Orientation]string{
	OrientUp:            "up",
	OrientRight:         "right",
	OrientDown:          "down",
	OrientLeft:          "left",
	OrientUpMirrored:    "up-mirrored",
	OrientRightMirrored: "right-mirrored",
	OrientDownMirrored:  "down-mirrored",
	OrientLeftMirrored:  "left-mirrored",
}

func (o Orientation) String() string {
	if s, ok := orientationNames[o]; ok {
		return s
	}
	return fmt.Sprintf("orientation(%d)", int(o))
}

// ParseOrientation resolves a configuration string.
func ParseOrientation(s string) (Orientation, error) {
	for o, name := range orientationNames {
		if name == s {
			return o, nil
		}
	}
	return OrientUp, fmt.Errorf("render: unknown orientation %q", s)
}

// QuarterTurns returns the number of clockwise quarter turns.
func (o Orientation) QuarterTurns() int {
	return int(o) % 4
}

// Mirrored reports whether the orientation includes a horizontal flip.
func (o Orientation) Mirrored() bool {
	return o >= OrientUpMirrored
}

// SwapsDimensions reports whether width and height trade places.
func (o Orientation) SwapsDimensions() bool {
	t := o.QuarterTurns()
	return t == 1 || t == 3
}

// Size maps sensor dimensions to display dimensions.
func (o Orientation) Size(width, height int) (int, int) {
	if o.SwapsDimensions() {
		return height, width
	}
	return width, height
}

// MapNorm remaps a normalized sensor-space coordinate into normalized
// display space: the rotation first, then the mirror's horizontal flip.
func (o Orientation) MapNorm(x, y float64) (float64, float64) {
	var mx, my float64
	switch o.QuarterTurns() {
	case 0:
		mx, my = x, y
	case 1:
		mx, my = 1-y, x
	case 2:
		mx, my = 1-x, 1-y
	default:
		mx, my = y, 1-x
	}
	if o.Mirrored() {
		mx = 1 - mx
	}
	return mx, my
}
