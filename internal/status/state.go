package status

// Defaults reported for fields a status report does not contain.
const (
	DefaultHue        = 360
	DefaultSaturation = 0
	DefaultBrightness = 100
	// DefaultTemperature marks the color temperature as unknown.
	DefaultTemperature = 0
)

// DeviceState is a snapshot of the bulb as last reported or commanded.
type DeviceState struct {
	On         bool `json:"on" yaml:"on"`
	Rainbow    bool `json:"rainbow" yaml:"rainbow"`
	Hue        int  `json:"hue" yaml:"hue"`
	Saturation int  `json:"saturation" yaml:"saturation"`
	Brightness int  `json:"brightness" yaml:"brightness"`
	// Temperature is in device Kelvin, 0 when unknown.
	Temperature int `json:"temperature_kelvin" yaml:"temperature_kelvin"`
}

// DefaultState returns the state assumed before the device has been queried.
func DefaultState() DeviceState {
	return DeviceState{
		Hue:         DefaultHue,
		Saturation:  DefaultSaturation,
		Brightness:  DefaultBrightness,
		Temperature: DefaultTemperature,
	}
}

// Info describes the device as reported by the info command.
type Info struct {
	Manufacturer    string `json:"manufacturer" yaml:"manufacturer"`
	Model           string `json:"model" yaml:"model"`
	HardwareVersion string `json:"hardware_version,omitempty" yaml:"hardware_version,omitempty"`
	FirmwareVersion string `json:"firmware_version,omitempty" yaml:"firmware_version,omitempty"`
}
