package rpc

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pivx-labs/pivxd/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualDriver collects scheduled callbacks so tests can fire them
// deterministically.
type manualDriver struct {
	mu       sync.Mutex
	handles  []*manualHandle
	nameFunc func() string
}

func (d *manualDriver) Name() string {
	if d.nameFunc != nil {
		return d.nameFunc()
	}

	return "manual"
}

func (d *manualDriver) NewTimer(callback func(), delay time.Duration) TimerHandle {
	d.mu.Lock()
	defer d.mu.Unlock()

	h := &manualHandle{callback: callback, delay: delay}
	d.handles = append(d.handles, h)

	return h
}

// fireAll runs every pending callback that has not been stopped.
func (d *manualDriver) fireAll() {
	d.mu.Lock()
	handles := d.handles
	d.handles = nil
	d.mu.Unlock()

	for _, h := range handles {
		h.fire()
	}
}

type manualHandle struct {
	mu       sync.Mutex
	callback func()
	delay    time.Duration
	stopped  bool
}

func (h *manualHandle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stopped = true
}

func (h *manualHandle) fire() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.stopped {
		h.callback()
	}
}

func TestTimerDriverRegistration(t *testing.T) {
	t.Run("second driver is a configuration error", func(t *testing.T) {
		s := newTestServer(t)

		require.NoError(t, s.RegisterTimerDriver(&manualDriver{}))
		assert.Equal(t, "manual", s.TimerDriverName())

		err := s.RegisterTimerDriver(AfterFuncDriver{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrTimerDriverConflict))

		// The original driver stays in place.
		assert.Equal(t, "manual", s.TimerDriverName())
	})

	t.Run("unregister then register again", func(t *testing.T) {
		s := newTestServer(t)

		driver := &manualDriver{}
		require.NoError(t, s.RegisterTimerDriver(driver))

		s.UnregisterTimerDriver(driver)
		assert.Equal(t, "", s.TimerDriverName())

		require.NoError(t, s.RegisterTimerDriver(AfterFuncDriver{}))
		assert.Equal(t, "standard", s.TimerDriverName())
	})

	t.Run("unregister by a different driver is ignored", func(t *testing.T) {
		s := newTestServer(t)

		require.NoError(t, s.RegisterTimerDriver(&manualDriver{}))
		s.UnregisterTimerDriver(AfterFuncDriver{})

		assert.Equal(t, "manual", s.TimerDriverName())
	})

	t.Run("nil driver rejected", func(t *testing.T) {
		s := newTestServer(t)
		require.Error(t, s.RegisterTimerDriver(nil))
	})
}

func TestRunLater(t *testing.T) {
	t.Run("no driver registered", func(t *testing.T) {
		s := newTestServer(t)

		err := s.RunLater("x", func() {}, time.Second)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrTimerDriverMissing))
	})

	t.Run("scheduling under an existing name replaces the old callback", func(t *testing.T) {
		s := newTestServer(t)

		driver := &manualDriver{}
		require.NoError(t, s.RegisterTimerDriver(driver))

		var cb1Calls, cb2Calls int32

		require.NoError(t, s.RunLater("x", func() { atomic.AddInt32(&cb1Calls, 1) }, 5*time.Second))
		require.NoError(t, s.RunLater("x", func() { atomic.AddInt32(&cb2Calls, 1) }, 5*time.Second))

		// Only one handle named x is live.
		assert.Equal(t, 1, s.timers.size())

		driver.fireAll()

		assert.Equal(t, int32(0), atomic.LoadInt32(&cb1Calls))
		assert.Equal(t, int32(1), atomic.LoadInt32(&cb2Calls))
	})

	t.Run("different names do not interfere", func(t *testing.T) {
		s := newTestServer(t)

		driver := &manualDriver{}
		require.NoError(t, s.RegisterTimerDriver(driver))

		var aCalls, bCalls int32
		require.NoError(t, s.RunLater("a", func() { atomic.AddInt32(&aCalls, 1) }, time.Second))
		require.NoError(t, s.RunLater("b", func() { atomic.AddInt32(&bCalls, 1) }, time.Second))

		driver.fireAll()

		assert.Equal(t, int32(1), atomic.LoadInt32(&aCalls))
		assert.Equal(t, int32(1), atomic.LoadInt32(&bCalls))
	})

	t.Run("stop cancels pending timers", func(t *testing.T) {
		s := newTestServer(t)

		driver := &manualDriver{}
		require.NoError(t, s.RegisterTimerDriver(driver))

		var calls int32
		require.NoError(t, s.RunLater("x", func() { atomic.AddInt32(&calls, 1) }, time.Second))

		require.NoError(t, s.Stop(context.Background()))

		driver.fireAll()

		assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
		assert.Equal(t, 0, s.timers.size())
	})
}

func TestAfterFuncDriver(t *testing.T) {
	driver := AfterFuncDriver{}
	assert.Equal(t, "standard", driver.Name())

	fired := make(chan struct{})
	handle := driver.NewTimer(func() { close(fired) }, time.Millisecond)
	require.NotNil(t, handle)

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire in time")
	}

	// Stopping an already fired timer is harmless.
	handle.Stop()
}
