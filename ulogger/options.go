package ulogger

import (
	"io"
	"os"
)

type Options struct {
	writer     io.Writer
	logLevel   string
	loggerType string
	skip       int
}

type Option func(*Options)

func DefaultOptions() *Options {
	return &Options{
		writer:     os.Stdout,
		logLevel:   "INFO",
		loggerType: "zerolog",
	}
}

// WithWriter overrides the destination the logger writes to.
func WithWriter(w io.Writer) Option {
	return func(o *Options) {
		o.writer = w
	}
}

// WithLevel sets the minimum log level (DEBUG, INFO, WARN, ERROR, FATAL).
func WithLevel(level string) Option {
	return func(o *Options) {
		o.logLevel = level
	}
}

// WithLoggerType selects the backend ("zerolog" or "gocore").
func WithLoggerType(loggerType string) Option {
	return func(o *Options) {
		o.loggerType = loggerType
	}
}

// WithSkipFrame adjusts the caller frame skip count for wrappers.
func WithSkipFrame(skip int) Option {
	return func(o *Options) {
		o.skip = skip
	}
}
