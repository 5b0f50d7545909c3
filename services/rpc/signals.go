package rpc

import "sync"

// StartedFunc is called once when the dispatcher transitions to running.
type StartedFunc func()

// StoppedFunc is called once when the dispatcher shuts down.
type StoppedFunc func()

// PreCommandFunc is called before a handler runs, with the resolved
// descriptor of the command about to execute.
type PreCommandFunc func(cmd *Command)

// PostCommandFunc is called after a handler returns. It fires regardless of
// the handler's outcome, err is nil on success, so subscribers can audit
// failures as well as successes.
type PostCommandFunc func(cmd *Command, err error)

// signalRegistry holds the lifecycle subscriber lists. Subscribers fire
// synchronously and in attachment order: a slow subscriber delays command
// completion, a deliberate simplicity over throughput tradeoff.
type signalRegistry struct {
	mu          sync.RWMutex
	started     []StartedFunc
	stopped     []StoppedFunc
	preCommand  []PreCommandFunc
	postCommand []PostCommandFunc
}

func newSignalRegistry() *signalRegistry {
	return &signalRegistry{}
}

func (r *signalRegistry) onStarted(fn StartedFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.started = append(r.started, fn)
}

func (r *signalRegistry) onStopped(fn StoppedFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopped = append(r.stopped, fn)
}

func (r *signalRegistry) onPreCommand(fn PreCommandFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.preCommand = append(r.preCommand, fn)
}

func (r *signalRegistry) onPostCommand(fn PostCommandFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.postCommand = append(r.postCommand, fn)
}

func (r *signalRegistry) fireStarted() {
	r.mu.RLock()
	subscribers := r.started
	r.mu.RUnlock()

	for _, fn := range subscribers {
		fn()
	}
}

func (r *signalRegistry) fireStopped() {
	r.mu.RLock()
	subscribers := r.stopped
	r.mu.RUnlock()

	for _, fn := range subscribers {
		fn()
	}
}

func (r *signalRegistry) firePreCommand(cmd *Command) {
	r.mu.RLock()
	subscribers := r.preCommand
	r.mu.RUnlock()

	for _, fn := range subscribers {
		fn(cmd)
	}
}

func (r *signalRegistry) firePostCommand(cmd *Command, err error) {
	r.mu.RLock()
	subscribers := r.postCommand
	r.mu.RUnlock()

	for _, fn := range subscribers {
		fn(cmd, err)
	}
}
