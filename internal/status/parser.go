// Package status extracts bulb state from the free-text reports printed by
// the device command line tool.
package status

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"codeberg.org/mutker/bulbctl/internal/color"
)

const (
	manufacturer = "Xiaomi"

	powerOnMarker   = "Power: True"
	flowingOnMarker = "Color flowing mode: True"
)

var (
	temperaturePattern = regexp.MustCompile(`Temperature: (\d+)`)
	brightnessPattern  = regexp.MustCompile(`Brightness: (\d+)`)
	rgbPattern         = regexp.MustCompile(`RGB: \((\d+), (\d+), (\d+)\)`)

	modelPattern    = regexp.MustCompile(`(?m)^\s*Model: (.*)$`)
	hardwarePattern = regexp.MustCompile(`(?m)^\s*Hardware version: (.*)$`)
	firmwarePattern = regexp.MustCompile(`(?m)^\s*Firmware version: (.*)$`)
)

// Parse builds a DeviceState from a raw status report. Every field is
// extracted on its own; a missing or unreadable field keeps its default.
func Parse(raw string) DeviceState {
	state := DefaultState()

	state.On = strings.Contains(raw, powerOnMarker)
	state.Rainbow = strings.Contains(raw, flowingOnMarker)

	if k, ok := matchInt(temperaturePattern, raw); ok && k != 0 {
		state.Temperature = clamp(k, color.MinKelvin, color.MaxKelvin)
	}

	if b, ok := matchInt(brightnessPattern, raw); ok {
		state.Brightness = clamp(b, 0, 100)
	}

	if m := rgbPattern.FindStringSubmatch(raw); m != nil {
		if hue, sat, ok := parseRGB(m[1:]); ok {
			state.Hue = hue
			state.Saturation = sat
		}
	}

	return state
}

// ParseInfo reads the model and version lines of an info report.
func ParseInfo(raw string) Info {
	return Info{
		Manufacturer:    manufacturer,
		Model:           matchString(modelPattern, raw),
		HardwareVersion: matchString(hardwarePattern, raw),
		FirmwareVersion: matchString(firmwarePattern, raw),
	}
}

func parseRGB(channels []string) (hue, saturation int, ok bool) {
	var rgb [3]int
	for i, c := range channels {
		v, err := strconv.Atoi(c)
		if err != nil {
			return 0, 0, false
		}
		rgb[i] = v
	}

	hsl := color.HSLFromRGB(color.RGBFromBytes(rgb[0], rgb[1], rgb[2]))

	h := math.Round(hsl.H)
	if math.IsNaN(h) || math.IsInf(h, 0) {
		h = 0
	}

	return int(h) % 360, clamp(int(math.Round(hsl.S)), 0, 100), true
}

func matchInt(re *regexp.Regexp, raw string) (int, bool) {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}

	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}

	return v, true
}

func matchString(re *regexp.Regexp, raw string) string {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}

	return strings.TrimSpace(m[1])
}

func clamp(value, minValue, maxValue int) int {
	if value < minValue {
		return minValue
	}
	if value > maxValue {
		return maxValue
	}

	return value
}
