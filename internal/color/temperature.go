package color

import "math"

// Device and caller ranges for color temperature. The caller value is a
// mired-like unit tied to Kelvin by a linear formula around kelvinPivot,
// not by the physical 1e6/K relation. The device accepts commands in this
// form, so the formula stays as is.
const (
	MinKelvin = 1700
	MaxKelvin = 6500
	MinMired  = 140
	MaxMired  = 500

	kelvinPivot = 640
	kelvinScale = 10
)

// ToDeviceKelvin converts a caller temperature value to device Kelvin.
func ToDeviceKelvin(callerValue int) int {
	return clampInt((kelvinPivot-callerValue)*kelvinScale, MinKelvin, MaxKelvin)
}

// FromDeviceKelvin converts device Kelvin to the caller temperature value.
func FromDeviceKelvin(kelvin int) int {
	raw := int(math.Round(float64(kelvinPivot-kelvin) / kelvinScale))
	return clampInt(raw, MinMired, MaxMired)
}
