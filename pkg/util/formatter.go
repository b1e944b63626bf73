package util

import (
	"fmt"
	"math"
)

var siFactors = []struct {
	floor  float64
	scale  float64
	prefix string
}{
	{1, 1, ""},
	{1e-3, 1e3, "m"},
	{1e-6, 1e6, "u"},
	{1e-9, 1e9, "n"},
	{1e-12, 1e12, "p"},
}

// FormatValueFactor renders a value in engineering notation with the
// given unit, e.g. 0.0047 "F" -> "4.700 mF".
func FormatValueFactor(value float64, unit string) string {
	abs := math.Abs(value)
	for _, f := range siFactors {
		if abs >= f.floor {
			return fmt.Sprintf("%.3f %s%s", value*f.scale, f.prefix, unit)
		}
	}
	return fmt.Sprintf("%.3e %s", value, unit)
}

// FormatFrequency renders a frequency with a Hz/kHz/MHz scale.
func FormatFrequency(freq float64) string {
	switch {
	case freq >= 1e6:
		return fmt.Sprintf("%7.3f MHz", freq/1e6)
	case freq >= 1e3:
		return fmt.Sprintf("%7.3f kHz", freq/1e3)
	default:
		return fmt.Sprintf("%7.3f Hz ", freq)
	}
}
