package main

import (
	"context"
	"time"

	"codeberg.org/mutker/bulbctl/internal/config"
	"codeberg.org/mutker/bulbctl/internal/errors"
	"codeberg.org/mutker/bulbctl/internal/logger"
	"codeberg.org/mutker/bulbctl/internal/metrics"
	"codeberg.org/mutker/bulbctl/internal/pid"
	"codeberg.org/mutker/bulbctl/internal/publish"
	"codeberg.org/mutker/bulbctl/internal/status"
)

type stateSource interface {
	State(ctx context.Context) (status.DeviceState, error)
	Cached() status.DeviceState
}

type statePublisher interface {
	Publish(device string, reachable bool, state status.DeviceState, ts time.Time) (bool, error)
}

type monitor struct {
	name      string
	source    stateSource
	collector metrics.MetricsCollector
	publisher statePublisher
	log       logger.Logger
	now       func() time.Time
	interval  time.Duration
}

func runMonitor(ctx context.Context, cfg *config.Config, source stateSource) error {
	log := logger.New("monitor").With("device", cfg.Name)

	pidFile := pid.New(cfg.PIDDir, cfg.Name)
	if err := pidFile.Write(); err != nil {
		return err
	}
	defer func() {
		if err := pidFile.Remove(); err != nil {
			log.Warn().Err(err).Msg("Failed to remove PID file")
		}
	}()

	collector, err := metrics.NewService(metricsConfig(cfg), logger.New("metrics"))
	if err != nil {
		return err
	}
	defer func() {
		if err := collector.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close metrics")
		}
	}()

	m := &monitor{
		name:      cfg.Name,
		source:    source,
		collector: collector,
		log:       log,
		now:       time.Now,
		interval:  time.Duration(cfg.Interval) * time.Second,
	}

	if cfg.MQTT.Enabled {
		p, err := publish.Connect(publishConfig(cfg), logger.New("publish"))
		if err != nil {
			return err
		}
		defer p.Close()
		m.publisher = p
	}

	return m.run(ctx)
}

func (m *monitor) run(ctx context.Context) error {
	if m.interval <= 0 {
		return errors.New().WithData(errors.ErrInvalidInterval, m.interval)
	}

	m.log.Info().Dur("interval", m.interval).Msg("Monitor mode activated")

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			m.log.Info().Msg("Received termination signal")
			return nil
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

// poll takes one observation. Failures are logged and recorded as an
// unreachable snapshot carrying the last known state.
func (m *monitor) poll(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	ts := m.now()

	snapshot := m.observe(ctx, ts)

	if err := m.collector.Record(ctx, snapshot); err != nil {
		m.log.Error().Err(err).Msg("Failed to record state")
	}

	if m.publisher != nil {
		if _, err := m.publisher.Publish(m.name, snapshot.Reachable, snapshot.State, ts); err != nil {
			m.log.Error().Err(err).Msg("Failed to publish state")
		}
	}
}

func (m *monitor) observe(ctx context.Context, ts time.Time) *metrics.StateSnapshot {
	state, err := m.source.State(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("Device unreachable")
		return metrics.UnreachableSnapshot(ts, m.name, m.source.Cached())
	}

	m.log.Info().
		Bool("on", state.On).
		Bool("rainbow", state.Rainbow).
		Int("hue", state.Hue).
		Int("saturation", state.Saturation).
		Int("brightness", state.Brightness).
		Int("kelvin", state.Temperature).
		Msg("State")

	return metrics.NewSnapshot(ts, m.name, state)
}
