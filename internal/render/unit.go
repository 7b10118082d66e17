package render

import "fmt"

// Unit selects the display scale for overlay labels. The pipeline's
// fields stay Celsius; conversion happens only at formatting time.
type Unit int

const (
	UnitCelsius Unit = iota
	UnitFahrenheit
)

// ParseUnit resolves a configuration string.
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "celsius", "c":
		return UnitCelsius, nil
	case "fahrenheit", "f":
		return UnitFahrenheit, nil
	}
	return UnitCelsius, fmt.Errorf("render: unknown temperature unit %q", s)
}

// Convert maps a Celsius value into the unit's scale.
func (u Unit) Convert(celsius float64) float64 {
	if u == UnitFahrenheit {
		return celsius*9.0/5.0 + 32.0
	}
	return celsius
}

// Suffix is the label suffix drawn after the numeric value.
func (u Unit) Suffix() string {
	if u == UnitFahrenheit {
		return "F"
	}
	return "C"
}

// FormatTemp renders one overlay label.
func (u Unit) FormatTemp(celsius float64) string {
	return fmt.Sprintf("%.1f%s", u.Convert(celsius), u.Suffix())
}
