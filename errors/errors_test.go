package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("simple error", func(t *testing.T) {
		err := New(ERR_NOT_FOUND, "command not found")

		require.NotNil(t, err)
		assert.Equal(t, ERR_NOT_FOUND, err.Code())
		assert.Equal(t, "command not found", err.Message())
		assert.Nil(t, err.WrappedErr())
	})

	t.Run("formatted message", func(t *testing.T) {
		err := New(ERR_INVALID_ARGUMENT, "bad param %q at index %d", "verbose", 1)

		assert.Equal(t, `bad param "verbose" at index 1`, err.Message())
	})

	t.Run("wraps trailing error", func(t *testing.T) {
		inner := fmt.Errorf("disk on fire")
		err := New(ERR_PROCESSING, "handler failed", inner)

		require.NotNil(t, err.WrappedErr())
		assert.Contains(t, err.Error(), "disk on fire")
	})

	t.Run("invalid code falls back to unknown", func(t *testing.T) {
		err := New(ERR(9999), "whatever")

		assert.Equal(t, ERR_UNKNOWN, err.Code())
	})
}

func TestIs(t *testing.T) {
	t.Run("matches on code", func(t *testing.T) {
		err := NewTimerDriverMissingError("no driver for runlater")

		require.True(t, Is(err, ErrTimerDriverMissing))
		require.False(t, Is(err, ErrTimerDriverConflict))
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		inner := NewConfigurationError("bad settings")
		outer := New(ERR_SERVICE_ERROR, "init failed", inner)

		require.True(t, outer.Is(ErrConfiguration))
		require.True(t, outer.Is(ErrServiceError))
	})
}

func TestAs(t *testing.T) {
	inner := NewRegistrationRejectedError("duplicate command name")
	wrapped := New(ERR_SERVICE_ERROR, "register builtins", inner)

	var e *Error
	require.True(t, As(wrapped, &e))
	assert.Equal(t, ERR_SERVICE_ERROR, e.Code())
}

func TestUnwrap(t *testing.T) {
	inner := NewNotFoundError("missing")
	outer := New(ERR_PROCESSING, "lookup", inner)

	unwrapped := Unwrap(outer)
	require.NotNil(t, unwrapped)
	assert.Contains(t, unwrapped.Error(), "missing")
}

func TestNilReceiver(t *testing.T) {
	var err *Error

	assert.Equal(t, "<nil>", err.Error())
	assert.Equal(t, ERR_UNKNOWN, err.Code())
	assert.Equal(t, "", err.Message())
	assert.False(t, err.Is(ErrUnknown))
	assert.Nil(t, err.Unwrap())
}

func TestErrString(t *testing.T) {
	assert.Equal(t, "ERR_TIMER_DRIVER_MISSING", ERR_TIMER_DRIVER_MISSING.String())
	assert.Equal(t, "ERR_UNKNOWN", ERR(12345).String())
}
