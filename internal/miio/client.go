// Package miio drives a Yeelight bulb through the python-miio command line
// tool and returns its text output.
package miio

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"codeberg.org/mutker/bulbctl/internal/bulb"
	"codeberg.org/mutker/bulbctl/internal/errors"
	"codeberg.org/mutker/bulbctl/internal/logger"
	"github.com/mattn/go-shellwords"
)

const (
	deviceType    = "yeelight"
	statusCommand = "status"
)

// Runner executes a binary and returns its standard output and error.
type Runner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// Client runs one command line invocation per device command.
type Client struct {
	cfg    Config
	run    Runner
	logger logger.Logger
}

var _ bulb.Device = (*Client)(nil)

// NewClient validates cfg and returns a Client that executes commands with
// os/exec.
func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	return NewClientWithRunner(cfg, log, execRunner)
}

// NewClientWithRunner is NewClient with a custom process runner.
func NewClientWithRunner(cfg Config, log logger.Logger, run Runner) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	if log == nil {
		log = logger.New("miio")
	}

	return &Client{
		cfg:    cfg,
		run:    run,
		logger: log.With("ip", cfg.IP),
	}, nil
}

// FetchStatus returns the raw status report.
func (c *Client) FetchStatus(ctx context.Context) (string, error) {
	return c.SendCommand(ctx, statusCommand)
}

// SendCommand runs command against the device and returns its output.
// Every failure is coded errors.ErrDeviceUnreachable.
func (c *Client) SendCommand(ctx context.Context, command string) (string, error) {
	errFactory := errors.New()

	words, err := SplitCommand(command)
	if err != nil {
		return "", errFactory.Wrap(errors.ErrDeviceUnreachable, err)
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	args := append([]string{deviceType, "--ip", c.cfg.IP, "--token", c.cfg.Token}, words...)

	c.logger.Debug().Str("command", command).Msg("Sending command")

	stdout, stderr, err := c.run(ctx, c.cfg.Binary, args...)
	if err != nil {
		return "", errFactory.Wrap(errors.ErrDeviceUnreachable, c.classify(ctx, command, stderr, err))
	}

	return string(stdout), nil
}

func (c *Client) classify(ctx context.Context, command string, stderr []byte, err error) error {
	errFactory := errors.New()
	detail := strings.TrimSpace(string(stderr))

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return errFactory.WithData(ErrCommandTimeout, c.cfg.Timeout.String())
	case errors.Is(err, exec.ErrNotFound):
		return errFactory.WithData(ErrBinaryNotFound, c.cfg.Binary)
	case detail != "":
		c.logger.Debug().Str("command", command).Str("stderr", detail).Msg("Command failed")
		return errFactory.Wrap(ErrCommandFailed, err).WithData(detail)
	default:
		return errFactory.Wrap(ErrCommandFailed, err)
	}
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	return stdout.Bytes(), stderr.Bytes(), err
}

// SplitCommand splits a command string into words with shell quoting rules.
// No variable or backtick expansion is done.
func SplitCommand(command string) ([]string, error) {
	errFactory := errors.New()

	words, err := shellwords.Parse(command)
	if err != nil {
		return nil, errFactory.Wrap(ErrUnbalancedQuote, err).WithData(command)
	}
	if len(words) == 0 {
		return nil, errFactory.New(ErrEmptyCommand)
	}

	return words, nil
}
