package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/bulbctl/internal/bulb"
	"codeberg.org/mutker/bulbctl/internal/config"
	"codeberg.org/mutker/bulbctl/internal/logger"
	"codeberg.org/mutker/bulbctl/internal/metrics"
	"codeberg.org/mutker/bulbctl/internal/miio"
	"codeberg.org/mutker/bulbctl/internal/publish"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(args)
	if err == config.ErrHelp {
		printUsage(stdout)
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}

	if err := logger.Init(cfg.LogLevel, logger.IsService()); err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	logger.Debug().Str("name", cfg.Name).Str("ip", cfg.IP).Msg("Config loaded")

	cmd, err := parseCommand(cfg.Args)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n\n", err)
		printUsage(stderr)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := dispatch(ctx, cfg, cmd, stdout); err != nil {
		logger.Error().Err(err).Str("command", cmd.name).Msg("Command failed")
		fmt.Fprintf(stderr, "%s: %v\n", cmd.name, err)
		return 1
	}

	return 0
}

func dispatch(ctx context.Context, cfg *config.Config, cmd command, stdout io.Writer) error {
	out := newPrinter(stdout, config.OutputFormat(cfg.Output))

	if cmd.name == cmdHistory {
		return runHistory(ctx, cfg, cmd, out)
	}

	client, err := miio.NewClient(miioConfig(cfg), logger.New("miio"))
	if err != nil {
		return err
	}

	b := bulb.New(client,
		bulb.WithRateLimit(cfg.RateLimit),
		bulb.WithLogger(logger.New("bulb").With("device", cfg.Name)),
	)

	if cmd.name == cmdMonitor {
		return runMonitor(ctx, cfg, b)
	}

	return execute(ctx, cfg.Name, b, cmd, out)
}

func runHistory(ctx context.Context, cfg *config.Config, cmd command, out *printer) error {
	mcfg := metricsConfig(cfg)
	mcfg.Enabled = true

	collector, err := metrics.NewService(mcfg, logger.New("metrics"))
	if err != nil {
		return err
	}
	defer collector.Close()

	snapshots, err := collector.Recent(ctx, cfg.Name, cmd.limit)
	if err != nil {
		return err
	}

	return out.history(snapshots)
}

func miioConfig(cfg *config.Config) miio.Config {
	return miio.Config{
		Binary:  cfg.Binary,
		IP:      cfg.IP,
		Token:   cfg.Token,
		Timeout: cfg.Timeout,
	}
}

func metricsConfig(cfg *config.Config) metrics.Config {
	return metrics.Config{
		DBPath:       cfg.Metrics.DBPath,
		Enabled:      cfg.Metrics.Enabled,
		BatchSize:    cfg.Metrics.BatchSize,
		BatchTimeout: cfg.Metrics.BatchTimeout,
	}
}

func publishConfig(cfg *config.Config) publish.Config {
	return publish.Config{
		Enabled:     cfg.MQTT.Enabled,
		Broker:      cfg.MQTT.Broker,
		ClientID:    cfg.MQTT.ClientID,
		Username:    cfg.MQTT.Username,
		Password:    cfg.MQTT.Password,
		TopicPrefix: cfg.MQTT.TopicPrefix,
		QoS:         cfg.MQTT.QoS,
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bulbctl [flags] <command> [arg]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  status                 Show the current state")
	fmt.Fprintln(w, "  info                   Show device model and firmware")
	fmt.Fprintln(w, "  on | off               Switch the bulb on or off")
	fmt.Fprintln(w, "  hue <degrees>          Set the hue (0-360)")
	fmt.Fprintln(w, "  saturation <percent>   Set the saturation (0-100)")
	fmt.Fprintln(w, "  brightness <percent>   Set the brightness (0-100)")
	fmt.Fprintln(w, "  temperature <value>    Set the color temperature (140-500)")
	fmt.Fprintln(w, "  rainbow on|off         Start or stop the color flow")
	fmt.Fprintln(w, "  monitor                Poll the bulb until interrupted")
	fmt.Fprintln(w, "  history [count]        Show recorded states")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, config.Usage())
}
