package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"codeberg.org/mutker/bulbctl/internal/color"
	"codeberg.org/mutker/bulbctl/internal/config"
	"codeberg.org/mutker/bulbctl/internal/errors"
	"codeberg.org/mutker/bulbctl/internal/metrics"
	"codeberg.org/mutker/bulbctl/internal/status"
	"gopkg.in/yaml.v3"
)

// statusView is the printed form of a status query.
type statusView struct {
	status.DeviceState `yaml:",inline"`

	Name string `json:"name" yaml:"name"`

	// ColorTemperature is the caller-facing value, 140-500.
	ColorTemperature int `json:"color_temperature" yaml:"color_temperature"`
}

func newStatusView(name string, state status.DeviceState) statusView {
	return statusView{
		Name:             name,
		DeviceState:      state,
		ColorTemperature: color.FromDeviceKelvin(state.Temperature),
	}
}

type historyEntry struct {
	Timestamp string             `json:"timestamp" yaml:"timestamp"`
	Device    string             `json:"device" yaml:"device"`
	Reachable bool               `json:"reachable" yaml:"reachable"`
	State     status.DeviceState `json:"state" yaml:"state"`
}

type printer struct {
	w      io.Writer
	format config.OutputFormat
}

func newPrinter(w io.Writer, format config.OutputFormat) *printer {
	return &printer{w: w, format: format}
}

func (p *printer) status(v statusView) error {
	return p.write(v, func(w io.Writer) {
		fmt.Fprintf(w, "Name:\t%s\n", v.Name)
		fmt.Fprintf(w, "Power:\t%s\n", onOff(v.On))
		fmt.Fprintf(w, "Rainbow:\t%s\n", onOff(v.Rainbow))
		fmt.Fprintf(w, "Hue:\t%d\n", v.Hue)
		fmt.Fprintf(w, "Saturation:\t%d%%\n", v.Saturation)
		fmt.Fprintf(w, "Brightness:\t%d%%\n", v.Brightness)
		fmt.Fprintf(w, "Temperature:\t%d (%s)\n", v.ColorTemperature, kelvin(v.Temperature))
	})
}

func (p *printer) info(info status.Info) error {
	return p.write(info, func(w io.Writer) {
		fmt.Fprintf(w, "Manufacturer:\t%s\n", info.Manufacturer)
		fmt.Fprintf(w, "Model:\t%s\n", info.Model)
		fmt.Fprintf(w, "Hardware:\t%s\n", info.HardwareVersion)
		fmt.Fprintf(w, "Firmware:\t%s\n", info.FirmwareVersion)
	})
}

func (p *printer) history(snapshots []metrics.StateSnapshot) error {
	entries := make([]historyEntry, 0, len(snapshots))
	for _, s := range snapshots {
		entries = append(entries, historyEntry{
			Timestamp: s.Timestamp.Local().Format(time.RFC3339),
			Device:    s.Device,
			Reachable: s.Reachable,
			State:     s.State,
		})
	}

	return p.write(entries, func(w io.Writer) {
		fmt.Fprintln(w, "TIME\tDEVICE\tREACHABLE\tPOWER\tHUE\tSAT\tBRI\tKELVIN")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%d\t%d\t%d\t%s\n",
				e.Timestamp, e.Device, e.Reachable, onOff(e.State.On),
				e.State.Hue, e.State.Saturation, e.State.Brightness, kelvin(e.State.Temperature))
		}
	})
}

func (p *printer) write(v any, text func(io.Writer)) error {
	errFactory := errors.New()

	switch p.format {
	case config.OutputJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return errFactory.Wrap(errors.ErrWriteOutput, err)
		}
	case config.OutputYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errFactory.Wrap(errors.ErrWriteOutput, err)
		}
		if err := enc.Close(); err != nil {
			return errFactory.Wrap(errors.ErrWriteOutput, err)
		}
	default:
		tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
		text(tw)
		if err := tw.Flush(); err != nil {
			return errFactory.Wrap(errors.ErrWriteOutput, err)
		}
	}

	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func kelvin(k int) string {
	if k == 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dK", k)
}
