package errors_test

import (
	"fmt"
	"testing"

	"codeberg.org/mutker/bulbctl/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	errFactory := errors.New()

	err := errFactory.New(errors.ErrDeviceUnreachable)
	assert.Equal(t, "Device unreachable", err.Error())

	wrapped := errFactory.Wrap(errors.ErrDeviceUnreachable, fmt.Errorf("exit status 1"))
	assert.Equal(t, "Device unreachable: exit status 1", wrapped.Error())

	withData := errFactory.WithData(errors.ErrInvalidArgument, "hue out of range")
	assert.Equal(t, "Invalid argument provided: hue out of range", withData.Error())

	custom := errFactory.WithMessage(errors.ErrInternal, "boom")
	assert.Equal(t, "boom", custom.Error())
}

func TestUnknownCodeFallsBackToCode(t *testing.T) {
	err := errors.New().New(errors.ErrorCode("something_odd"))
	assert.Equal(t, "something_odd", err.Error())
}

func TestWithMessageDoesNotMutate(t *testing.T) {
	base := errors.New().New(errors.ErrTimeout)
	derived := base.WithMessage("took too long")

	assert.Equal(t, "Operation timed out", base.Error())
	assert.Equal(t, "took too long", derived.Error())
	assert.Equal(t, errors.ErrTimeout, derived.Code())
}

func TestIsMatchesCode(t *testing.T) {
	errFactory := errors.New()
	cause := fmt.Errorf("no route to host")
	err := fmt.Errorf("status: %w", errFactory.Wrap(errors.ErrDeviceUnreachable, cause))

	assert.True(t, errors.Is(err, errFactory.New(errors.ErrDeviceUnreachable)))
	assert.False(t, errors.Is(err, errFactory.New(errors.ErrTimeout)))
	assert.True(t, errors.Is(err, cause))
}

func TestHasCode(t *testing.T) {
	errFactory := errors.New()
	inner := errFactory.New(errors.ErrTimeout)
	outer := errFactory.Wrap(errors.ErrDeviceUnreachable, inner)

	assert.True(t, errors.HasCode(outer, errors.ErrDeviceUnreachable))
	assert.True(t, errors.HasCode(outer, errors.ErrTimeout))
	assert.False(t, errors.HasCode(outer, errors.ErrInternal))
	assert.False(t, errors.HasCode(fmt.Errorf("plain"), errors.ErrInternal))
	assert.False(t, errors.HasCode(nil, errors.ErrInternal))
}

func TestAsExposesData(t *testing.T) {
	err := fmt.Errorf("ctx: %w", errors.New().WithData(errors.ErrInvalidCommand, "empty"))

	var appErr errors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, errors.ErrInvalidCommand, appErr.Code())
	assert.Equal(t, "empty", appErr.GetData())
}
