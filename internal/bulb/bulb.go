// Package bulb exposes the state and controls of a single smart bulb on top
// of its text command channel.
package bulb

import (
	"context"
	"fmt"
	"math"
	"time"

	"codeberg.org/mutker/bulbctl/internal/color"
	"codeberg.org/mutker/bulbctl/internal/errors"
	"codeberg.org/mutker/bulbctl/internal/logger"
	"codeberg.org/mutker/bulbctl/internal/status"
)

// Device commands understood by the command line tool.
const (
	cmdPowerOn    = "on"
	cmdPowerOff   = "off"
	cmdInfo       = "info"
	cmdSetRGB     = "set_rgb"
	cmdBrightness = "set_brightness"
	cmdColorTemp  = "set_color_temp"

	// flowSceneCommand starts the device's built-in color flow with a fixed
	// five step sequence, repeating forever.
	flowSceneCommand = `raw_command set_scene '["cf", 0, 0, ` +
		`"1000,1,1047627,80,2000,1,1032444,100,1000,1,16519104,80,2000,1,16711696,100,2000,1,1047746,40"]'`

	// staticCallerTemperature is the caller value used when leaving flow mode.
	staticCallerTemperature = 0
)

// Bulb controls one device. Reads go through a rate limited Cache; every
// setter issues exactly one command and updates the cache once the command
// has succeeded.
type Bulb struct {
	device Device
	cache  *Cache
	log    logger.Logger
}

var _ Controller = (*Bulb)(nil)

type options struct {
	rateLimit time.Duration
	clock     Clock
	log       logger.Logger
}

// Option configures a Bulb.
type Option func(*options)

// WithRateLimit overrides DefaultRateLimit.
func WithRateLimit(d time.Duration) Option {
	return func(o *options) {
		o.rateLimit = d
	}
}

// WithClock overrides the time source used for rate limiting.
func WithClock(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithLogger sets the logger used for command tracing.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// New returns a Bulb driving device.
func New(device Device, opts ...Option) *Bulb {
	o := options{rateLimit: DefaultRateLimit, clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.New("bulb")
	}

	return &Bulb{
		device: device,
		cache:  NewCache(device.FetchStatus, o.rateLimit, o.clock),
		log:    o.log,
	}
}

// State returns the current state, fetching it when the cache is stale.
func (b *Bulb) State(ctx context.Context) (status.DeviceState, error) {
	state, err := b.cache.Get(ctx)
	if err != nil {
		return status.DeviceState{}, err
	}

	b.log.Debug().
		Bool("on", state.On).
		Bool("rainbow", state.Rainbow).
		Int("hue", state.Hue).
		Int("saturation", state.Saturation).
		Int("brightness", state.Brightness).
		Int("temperature", state.Temperature).
		Msg("Device state")

	return state, nil
}

// Cached returns the last known state without contacting the device.
func (b *Bulb) Cached() status.DeviceState {
	return b.cache.Peek()
}

// Info queries the device model and versions.
func (b *Bulb) Info(ctx context.Context) (status.Info, error) {
	raw, err := b.device.SendCommand(ctx, cmdInfo)
	if err != nil {
		return status.Info{}, err
	}

	return status.ParseInfo(raw), nil
}

// ColorTemperature returns the current color temperature as a caller value.
func (b *Bulb) ColorTemperature(ctx context.Context) (int, error) {
	state, err := b.State(ctx)
	if err != nil {
		return 0, err
	}

	return color.FromDeviceKelvin(state.Temperature), nil
}

func (b *Bulb) SetPower(ctx context.Context, on bool) error {
	b.log.Debug().Bool("on", on).Msg("setPower")

	cmd := cmdPowerOff
	if on {
		cmd = cmdPowerOn
	}

	if err := b.send(ctx, cmd); err != nil {
		return err
	}

	b.cache.Update(func(s *status.DeviceState) {
		s.On = on
	})

	return nil
}

// SetHue sets the hue in degrees, keeping the current saturation.
func (b *Bulb) SetHue(ctx context.Context, hue float64) error {
	h := normalizeHue(hue)
	current, err := b.cache.Get(ctx)
	if err != nil {
		return err
	}
	saturation := float64(current.Saturation)
	b.log.Debug().Float64("requested", hue).Int("hue", h).Float64("saturation", saturation).Msg("setHue")

	if err := b.sendRGB(ctx, float64(h), saturation); err != nil {
		return err
	}

	b.cache.Update(func(s *status.DeviceState) {
		s.Hue = h
	})

	return nil
}

// SetSaturation sets the saturation in percent, keeping the current hue.
func (b *Bulb) SetSaturation(ctx context.Context, saturation float64) error {
	sat := clampPercent(saturation, 0)
	current, err := b.cache.Get(ctx)
	if err != nil {
		return err
	}
	hue := float64(current.Hue)
	b.log.Debug().Float64("requested", saturation).Int("saturation", sat).Float64("hue", hue).Msg("setSaturation")

	if err := b.sendRGB(ctx, hue, float64(sat)); err != nil {
		return err
	}

	b.cache.Update(func(s *status.DeviceState) {
		s.Saturation = sat
	})

	return nil
}

func (b *Bulb) SetBrightness(ctx context.Context, brightness int) error {
	level := clampInt(brightness, 0, 100)
	b.log.Debug().Int("requested", brightness).Int("brightness", level).Msg("setBrightness")

	if err := b.send(ctx, fmt.Sprintf("%s %d", cmdBrightness, level)); err != nil {
		return err
	}

	b.cache.Update(func(s *status.DeviceState) {
		s.Brightness = level
	})

	return nil
}

// SetColorTemperature sets the color temperature from a caller value.
func (b *Bulb) SetColorTemperature(ctx context.Context, callerValue int) error {
	kelvin := color.ToDeviceKelvin(callerValue)
	b.log.Debug().Int("value", callerValue).Int("kelvin", kelvin).Msg("setTemperature")

	if err := b.send(ctx, fmt.Sprintf("%s %d", cmdColorTemp, kelvin)); err != nil {
		return err
	}

	b.cache.Update(func(s *status.DeviceState) {
		s.Temperature = kelvin
	})

	return nil
}

// SetRainbow starts the color flow program, or stops it by returning the
// bulb to static white.
func (b *Bulb) SetRainbow(ctx context.Context, on bool) error {
	b.log.Debug().Bool("rainbow", on).Msg("setRainbow")

	if on {
		if err := b.send(ctx, flowSceneCommand); err != nil {
			return err
		}
		b.cache.Update(func(s *status.DeviceState) {
			s.Rainbow = true
		})
		return nil
	}

	kelvin := color.ToDeviceKelvin(staticCallerTemperature)
	if err := b.send(ctx, fmt.Sprintf("%s %d", cmdColorTemp, kelvin)); err != nil {
		return err
	}

	b.cache.Update(func(s *status.DeviceState) {
		s.Rainbow = false
		s.Temperature = kelvin
	})

	return nil
}

func (b *Bulb) sendRGB(ctx context.Context, hue, saturation float64) error {
	r, g, bl := color.RGBFromHSV(hue, saturation, 100).Bytes()
	return b.send(ctx, fmt.Sprintf("%s %d %d %d", cmdSetRGB, r, g, bl))
}

func (b *Bulb) send(ctx context.Context, command string) error {
	if _, err := b.device.SendCommand(ctx, command); err != nil {
		if appErr, ok := err.(errors.Error); ok {
			b.log.ErrorWithCode(appErr).Str("command", command).Msg("Command failed")
		} else {
			b.log.Error().Err(err).Str("command", command).Msg("Command failed")
		}
		return err
	}

	return nil
}

func normalizeHue(hue float64) int {
	return int(math.Round(color.NormalizeHue(hue))) % 360
}

func clampPercent(v float64, fallback int) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}

	return int(math.Round(math.Max(0, math.Min(100, v))))
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
