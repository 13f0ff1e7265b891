package main

import (
	"context"
	"math"
	"strconv"

	"codeberg.org/mutker/bulbctl/internal/bulb"
	"codeberg.org/mutker/bulbctl/internal/errors"
)

const (
	cmdStatus      = "status"
	cmdInfo        = "info"
	cmdOn          = "on"
	cmdOff         = "off"
	cmdHue         = "hue"
	cmdSaturation  = "saturation"
	cmdBrightness  = "brightness"
	cmdTemperature = "temperature"
	cmdRainbow     = "rainbow"
	cmdMonitor     = "monitor"
	cmdHistory     = "history"

	defaultHistoryLimit = 20
	maxIntArgument      = 1e9
)

// command is a parsed command line.
type command struct {
	name   string
	number float64
	on     bool
	limit  int
}

func parseCommand(args []string) (command, error) {
	errFactory := errors.New()

	if len(args) == 0 {
		return command{}, errFactory.WithMessage(errors.ErrUnknownUsage, "no command given")
	}

	cmd := command{name: args[0]}
	rest := args[1:]

	switch cmd.name {
	case cmdStatus, cmdInfo, cmdOn, cmdOff, cmdMonitor:
		if len(rest) != 0 {
			return command{}, errFactory.WithData(errors.ErrInvalidCommand, cmd.name+" takes no arguments")
		}
	case cmdHue, cmdSaturation, cmdBrightness, cmdTemperature:
		if len(rest) != 1 {
			return command{}, errFactory.WithData(errors.ErrInvalidCommand, cmd.name+" takes one number")
		}
		n, err := strconv.ParseFloat(rest[0], 64)
		if err != nil {
			return command{}, errFactory.WithData(errors.ErrInvalidCommand, cmd.name+": not a number: "+rest[0])
		}
		if (cmd.name == cmdBrightness || cmd.name == cmdTemperature) &&
			(math.IsNaN(n) || math.Abs(n) > maxIntArgument) {
			return command{}, errFactory.WithData(errors.ErrInvalidCommand, cmd.name+": out of range: "+rest[0])
		}
		cmd.number = n
	case cmdRainbow:
		if len(rest) != 1 || (rest[0] != cmdOn && rest[0] != cmdOff) {
			return command{}, errFactory.WithData(errors.ErrInvalidCommand, "rainbow takes on or off")
		}
		cmd.on = rest[0] == cmdOn
	case cmdHistory:
		cmd.limit = defaultHistoryLimit
		if len(rest) > 1 {
			return command{}, errFactory.WithData(errors.ErrInvalidCommand, "history takes at most one count")
		}
		if len(rest) == 1 {
			n, err := strconv.Atoi(rest[0])
			if err != nil || n <= 0 {
				return command{}, errFactory.WithData(errors.ErrInvalidCommand, "history count must be a positive integer")
			}
			cmd.limit = n
		}
	default:
		return command{}, errFactory.WithData(errors.ErrUnknownUsage, cmd.name)
	}

	return cmd, nil
}

// execute runs a one-shot command against ctrl.
func execute(ctx context.Context, name string, ctrl bulb.Controller, cmd command, out *printer) error {
	switch cmd.name {
	case cmdStatus:
		state, err := ctrl.State(ctx)
		if err != nil {
			return err
		}
		return out.status(newStatusView(name, state))
	case cmdInfo:
		info, err := ctrl.Info(ctx)
		if err != nil {
			return err
		}
		return out.info(info)
	case cmdOn, cmdOff:
		return ctrl.SetPower(ctx, cmd.name == cmdOn)
	case cmdHue:
		return ctrl.SetHue(ctx, cmd.number)
	case cmdSaturation:
		return ctrl.SetSaturation(ctx, cmd.number)
	case cmdBrightness:
		return ctrl.SetBrightness(ctx, int(math.Round(cmd.number)))
	case cmdTemperature:
		return ctrl.SetColorTemperature(ctx, int(math.Round(cmd.number)))
	case cmdRainbow:
		return ctrl.SetRainbow(ctx, cmd.on)
	default:
		return errors.New().WithData(errors.ErrUnknownUsage, cmd.name)
	}
}
