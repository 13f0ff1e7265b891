package miio

import "codeberg.org/mutker/bulbctl/internal/errors"

const (
	ErrEmptyCommand    = errors.ErrorCode("miio_empty_command")
	ErrUnbalancedQuote = errors.ErrorCode("miio_unbalanced_quote")
	ErrBinaryNotFound  = errors.ErrorCode("miio_binary_not_found")
	ErrCommandFailed   = errors.ErrorCode("miio_command_failed")
	ErrCommandTimeout  = errors.ErrorCode("miio_command_timeout")
)
