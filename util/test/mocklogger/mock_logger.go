// Package mocklogger provides a call-counting ulogger.Logger for tests.
package mocklogger

import (
	"sync"

	"github.com/pivx-labs/pivxd/ulogger"
)

// MockLogger is a mock implementation of ulogger.Logger for testing purposes,
// providing call tracking and thread-safe operation.
type MockLogger struct {
	mu    sync.Mutex
	calls map[string]int
}

// NewTestLogger creates a new instance of MockLogger.
func NewTestLogger() *MockLogger {
	return &MockLogger{
		calls: make(map[string]int),
	}
}

// LogLevel returns the current log level (always 0 for mock).
func (l *MockLogger) LogLevel() int {
	return 0
}

// SetLogLevel sets the log level (no-op for mock).
func (l *MockLogger) SetLogLevel(_ string) {
	// ignore
}

// New creates a new MockLogger instance with the specified service name.
func (l *MockLogger) New(_ string, _ ...ulogger.Option) ulogger.Logger {
	return &MockLogger{
		calls: make(map[string]int, 1),
	}
}

// Duplicate returns a duplicate of the logger instance.
func (l *MockLogger) Duplicate(_ ...ulogger.Option) ulogger.Logger {
	return l
}

// Debugf records a debug level log call.
func (l *MockLogger) Debugf(_ string, _ ...interface{}) {
	l.recordCall("Debugf")
}

// Infof records an info level log call.
func (l *MockLogger) Infof(_ string, _ ...interface{}) {
	l.recordCall("Infof")
}

// Warnf records a warning level log call.
func (l *MockLogger) Warnf(_ string, _ ...interface{}) {
	l.recordCall("Warnf")
}

// Errorf records an error level log call.
func (l *MockLogger) Errorf(_ string, _ ...interface{}) {
	l.recordCall("Errorf")
}

// Fatalf records a fatal level log call.
func (l *MockLogger) Fatalf(_ string, _ ...interface{}) {
	l.recordCall("Fatalf")
}

// CallCount returns how many times the named method was invoked.
func (l *MockLogger) CallCount(methodName string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.calls[methodName]
}

// recordCall is an internal helper that thread-safely tracks method calls.
func (l *MockLogger) recordCall(methodName string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls[methodName]++
}
