package miio

import (
	"encoding/hex"
	"net"
	"time"

	"codeberg.org/mutker/bulbctl/internal/errors"
)

const (
	DefaultBinary  = "miiocli"
	DefaultTimeout = 10 * time.Second

	tokenLength = 32
)

type Config struct {
	Binary  string
	IP      string
	Token   string
	Timeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Binary:  DefaultBinary,
		Timeout: DefaultTimeout,
	}
}

// Validate checks the device address and token before any command runs.
func (c Config) Validate() error {
	errFactory := errors.New()

	if net.ParseIP(c.IP) == nil {
		return errFactory.WithData(errors.ErrInvalidAddress, c.IP)
	}

	if len(c.Token) != tokenLength {
		return errFactory.WithData(errors.ErrInvalidToken, "token must be 32 hex characters")
	}
	if _, err := hex.DecodeString(c.Token); err != nil {
		return errFactory.Wrap(errors.ErrInvalidToken, err)
	}

	if c.Timeout < 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "timeout must not be negative")
	}

	return nil
}
