package rpc

import (
	"context"
	"sync"

	"github.com/looplab/fsm"
)

const (
	warmupStateWarmingUp = "warmingup"
	warmupStateReady     = "ready"

	warmupEventFinish = "finish"
)

// warmupGate is the readiness state machine consulted before every dispatch.
// It starts in the warming up state and transitions to ready exactly once.
// The status message may be updated repeatedly while warming up to reflect
// startup progress. Reads always observe a consistent state and message pair.
type warmupGate struct {
	mu      sync.RWMutex
	machine *fsm.FSM
	status  string
}

func newWarmupGate(initialStatus string) *warmupGate {
	return &warmupGate{
		machine: fsm.NewFSM(
			warmupStateWarmingUp,
			fsm.Events{
				{
					Name: warmupEventFinish,
					Src:  []string{warmupStateWarmingUp},
					Dst:  warmupStateReady,
				},
			},
			fsm.Callbacks{},
		),
		status: initialStatus,
	}
}

// setStatus updates the progress message. It has no effect once the gate is
// open, the message can never be observed again after that.
func (g *warmupGate) setStatus(message string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.machine.Current() != warmupStateWarmingUp {
		return
	}

	g.status = message
}

// finish performs the one way transition to ready. Calling it again is a
// no-op, the gate never reopens.
func (g *warmupGate) finish() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.machine.Current() == warmupStateReady {
		return
	}

	// The transition cannot fail from the warming up state.
	_ = g.machine.Event(context.Background(), warmupEventFinish)
}

// state reports whether the gate is still warming up together with the
// current status message.
func (g *warmupGate) state() (inWarmup bool, status string) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.machine.Current() == warmupStateWarmingUp, g.status
}
