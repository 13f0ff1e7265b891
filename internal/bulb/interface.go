package bulb

import (
	"context"
	"time"

	"codeberg.org/mutker/bulbctl/internal/status"
)

// Device is the command channel to one physical bulb. Implementations block
// until the device answers or fails; they report failures coded
// errors.ErrDeviceUnreachable.
type Device interface {
	FetchStatus(ctx context.Context) (string, error)
	SendCommand(ctx context.Context, command string) (string, error)
}

// Controller is the read/write surface a host integration binds to.
type Controller interface {
	State(ctx context.Context) (status.DeviceState, error)
	Info(ctx context.Context) (status.Info, error)
	ColorTemperature(ctx context.Context) (int, error)

	SetPower(ctx context.Context, on bool) error
	SetHue(ctx context.Context, hue float64) error
	SetSaturation(ctx context.Context, saturation float64) error
	SetBrightness(ctx context.Context, brightness int) error
	SetColorTemperature(ctx context.Context, callerValue int) error
	SetRainbow(ctx context.Context, on bool) error
}

// Clock returns the current time.
type Clock func() time.Time
