package rpc

import (
	"sync"
	"time"

	"github.com/pivx-labs/pivxd/errors"
)

// TimerHandle represents one scheduled callback. Stopping the handle cancels
// the pending callback if it has not fired yet.
type TimerHandle interface {
	Stop()
}

// TimerDriver is the scheduling backend the dispatcher uses for deferred
// callbacks. The embedding application supplies a concrete driver so the RPC
// layer runs identically with or without a full network event loop present.
type TimerDriver interface {
	// Name returns a diagnostic identifier for the backend.
	Name() string

	// NewTimer schedules callback to run once after delay and returns the
	// handle that cancels it.
	NewTimer(callback func(), delay time.Duration) TimerHandle
}

// timerRegistry holds the single registered driver and the named timers
// created through it. Scheduling under an existing name stops the old handle
// and creates the new one under the lock, so at most one callback per name is
// pending at any instant.
type timerRegistry struct {
	mu     sync.Mutex
	driver TimerDriver
	timers map[string]TimerHandle
}

func newTimerRegistry() *timerRegistry {
	return &timerRegistry{
		timers: make(map[string]TimerHandle),
	}
}

// registerDriver installs the scheduling backend. Exactly one driver may be
// registered at a time, a second registration is a configuration error.
func (r *timerRegistry) registerDriver(driver TimerDriver) error {
	if driver == nil {
		return errors.NewConfigurationError("timer driver must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.driver != nil {
		return errors.NewTimerDriverConflictError("timer driver %s is already registered, cannot register %s", r.driver.Name(), driver.Name())
	}

	r.driver = driver

	return nil
}

// unregisterDriver removes the given driver. Drivers are matched by name so a
// stale unregister from another backend cannot clear the active one.
func (r *timerRegistry) unregisterDriver(driver TimerDriver) {
	if driver == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.driver != nil && r.driver.Name() == driver.Name() {
		r.driver = nil
	}
}

func (r *timerRegistry) driverName() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.driver == nil {
		return ""
	}

	return r.driver.Name()
}

// runLater schedules callback to run once after delay under the given name.
// Any callback previously scheduled under the same name is cancelled first.
func (r *timerRegistry) runLater(name string, callback func(), delay time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.driver == nil {
		return errors.NewTimerDriverMissingError("no timer driver registered, cannot schedule %s", name)
	}

	if old, ok := r.timers[name]; ok {
		old.Stop()
	}

	r.timers[name] = r.driver.NewTimer(callback, delay)

	return nil
}

// stopAll cancels every pending named timer. Called on server shutdown.
func (r *timerRegistry) stopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, handle := range r.timers {
		handle.Stop()
		delete(r.timers, name)
	}
}

func (r *timerRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.timers)
}

// AfterFuncDriver is the default TimerDriver, backed by the runtime timer
// wheel via time.AfterFunc. It is used when the embedding application does
// not bring its own event loop.
type AfterFuncDriver struct{}

func (AfterFuncDriver) Name() string { return "standard" }

func (AfterFuncDriver) NewTimer(callback func(), delay time.Duration) TimerHandle {
	return afterFuncHandle{timer: time.AfterFunc(delay, callback)}
}

type afterFuncHandle struct {
	timer *time.Timer
}

func (h afterFuncHandle) Stop() {
	h.timer.Stop()
}
