// Package color converts between the bulb's native color representations
// and the ones exposed to callers.
//
// The read path reports a stored RGB triple as HSL, while the write path
// builds RGB from HSV with the value fixed at 100%. The two models differ, so
// reading back a color that was just written does not always yield the same
// hue and saturation.
package color

import (
	"math"
)

// RGB holds channel intensities in [0,1].
type RGB struct {
	R, G, B float64
}

// HSL holds hue in degrees [0,360) and saturation/lightness in percent.
type HSL struct {
	H, S, L float64
}

// RGBFromBytes builds an RGB from 8-bit channels, clamping each to 0..255.
func RGBFromBytes(r, g, b int) RGB {
	return RGB{
		R: float64(clampInt(r, 0, 255)) / 255,
		G: float64(clampInt(g, 0, 255)) / 255,
		B: float64(clampInt(b, 0, 255)) / 255,
	}
}

// Bytes scales the channels to 0..255 with rounding.
func (c RGB) Bytes() (r, g, b uint8) {
	return toByte(c.R), toByte(c.G), toByte(c.B)
}

// RGBFromHSV converts hue (degrees), saturation and value (percent) to RGB.
// Non-finite hue and saturation fall back to 0, a non-finite value to 100.
func RGBFromHSV(hue, saturation, value float64) RGB {
	h := NormalizeHue(hue)
	s := clampPercent(saturation, 0) / 100
	v := clampPercent(value, 100) / 100

	if s == 0 {
		return RGB{v, v, v}
	}

	h /= 60
	sector := math.Floor(h)
	f := h - sector
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	switch int(sector) {
	case 0:
		return RGB{v, t, p}
	case 1:
		return RGB{q, v, p}
	case 2:
		return RGB{p, v, t}
	case 3:
		return RGB{p, q, v}
	case 4:
		return RGB{t, p, v}
	default:
		return RGB{v, p, q}
	}
}

// HSLFromRGB converts RGB to HSL. Achromatic input has hue 0.
func HSLFromRGB(c RGB) HSL {
	r, g, b := clampUnit(c.R), clampUnit(c.G), clampUnit(c.B)

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	l := (maxC + minC) / 2
	d := maxC - minC

	if d == 0 {
		return HSL{H: 0, S: 0, L: l * 100}
	}

	var s float64
	if l > 0.5 {
		s = d / (2 - maxC - minC)
	} else {
		s = d / (maxC + minC)
	}

	var h float64
	switch maxC {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}

	return HSL{H: NormalizeHue(h * 60), S: s * 100, L: l * 100}
}

// NormalizeHue maps any finite angle into [0,360). Non-finite input yields 0.
func NormalizeHue(hue float64) float64 {
	if math.IsNaN(hue) || math.IsInf(hue, 0) {
		return 0
	}

	h := math.Mod(hue, 360)
	if h < 0 {
		h += 360
	}
	// A tiny negative angle rounds up to exactly 360 above.
	if h >= 360 {
		h = 0
	}

	return h
}

func clampPercent(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}

	return math.Max(0, math.Min(100, v))
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}

	return math.Max(0, math.Min(1, v))
}

func clampInt(value, minValue, maxValue int) int {
	if value < minValue {
		return minValue
	}
	if value > maxValue {
		return maxValue
	}

	return value
}

func toByte(v float64) uint8 {
	return uint8(math.Round(clampUnit(v) * 255))
}
