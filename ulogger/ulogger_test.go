package ulogger

import (
	"bytes"
	"testing"

	"github.com/ordishs/gocore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToZerolog(t *testing.T) {
	logger := New("test")

	_, ok := logger.(*ZLoggerWrapper)
	require.True(t, ok)
}

func TestNewGoCoreLogger(t *testing.T) {
	logger := New("test", WithLoggerType("gocore"))

	_, ok := logger.(*GoCoreLogger)
	require.True(t, ok)
}

func TestZeroLoggerLevels(t *testing.T) {
	var buf bytes.Buffer

	logger := NewZeroLogger("test", WithWriter(&buf), WithLevel("DEBUG"))
	assert.Equal(t, int(gocore.DEBUG), logger.LogLevel())

	logger.SetLogLevel("ERROR")
	assert.Equal(t, int(gocore.ERROR), logger.LogLevel())

	logger.SetLogLevel("bogus")
	assert.Equal(t, int(gocore.INFO), logger.LogLevel())
}

func TestZeroLoggerWrites(t *testing.T) {
	var buf bytes.Buffer

	logger := NewZeroLogger("test", WithWriter(&buf), WithLevel("DEBUG"))
	logger.Infof("hello %s", "world")

	assert.Contains(t, buf.String(), "hello world")
}

func TestDuplicateKeepsService(t *testing.T) {
	var buf bytes.Buffer

	logger := NewZeroLogger("test", WithWriter(&buf), WithLevel("INFO"))
	dup := logger.Duplicate(WithLevel("DEBUG"))

	require.NotNil(t, dup)
	assert.Equal(t, int(gocore.DEBUG), dup.LogLevel())
}
