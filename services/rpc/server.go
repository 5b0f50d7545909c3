// Package rpc implements the command dispatch core of the pivxd JSON-RPC
// server: a registry mapping method names to handlers, the execute path with
// its warmup and safe mode gating, lifecycle signals fired around each
// command, a pluggable timer driver for deferred callbacks, and a batch
// executor with per request error isolation. The HTTP transport lives outside
// this package, the dispatcher works on already parsed JSON values.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/kpango/fastime"
	"github.com/pivx-labs/pivxd/errors"
	"github.com/pivx-labs/pivxd/services/rpc/rpcjson"
	"github.com/pivx-labs/pivxd/settings"
	"github.com/pivx-labs/pivxd/ulogger"
	"github.com/pivx-labs/pivxd/util/tracing"
	"go.uber.org/atomic"
)

// API version constants for the JSON-RPC API served by pivxd.
const (
	jsonrpcSemverString = "1.0.0"
	jsonrpcSemverMajor  = 1
	jsonrpcSemverMinor  = 0
	jsonrpcSemverPatch  = 0
)

// helpCacheAllKey is the help cache key for the full command listing.
const helpCacheAllKey = "*"

// RPCServer is the command dispatcher. Commands are registered before Start,
// after which the table freezes and the server handles concurrent Execute
// calls against the read only table.
type RPCServer struct {
	logger   ulogger.Logger
	settings *settings.Settings

	table   *commandTable
	warmup  *warmupGate
	timers  *timerRegistry
	signals *signalRegistry

	helpCache *ttlcache.Cache[string, string]

	// safeModeCheck is owned by the embedding node. When it reports true,
	// only commands marked SafeModeOK may execute.
	safeModeCheck func() bool

	asyncQueue AsyncQueue

	started     atomic.Int32
	shutdown    atomic.Int32
	interrupted atomic.Bool

	// startedAt is written once in Start and read by handlers under
	// concurrent Execute, so it must be atomic.
	startedAt atomic.Time

	quit                   chan struct{}
	requestProcessShutdown chan struct{}
}

// Option configures an RPCServer at construction time.
type Option func(*RPCServer)

// WithSafeModeCheck supplies the external safe mode flag consulted by
// Execute. Without it the static rpc_safeMode setting is used.
func WithSafeModeCheck(check func() bool) Option {
	return func(s *RPCServer) {
		s.safeModeCheck = check
	}
}

// WithAsyncQueue supplies the queue used by ExecuteAsync. Without it async
// execution is unavailable.
func WithAsyncQueue(queue AsyncQueue) Option {
	return func(s *RPCServer) {
		s.asyncQueue = queue
	}
}

// NewServer creates the dispatcher. The command table is open for
// registration until Start is called.
func NewServer(logger ulogger.Logger, tSettings *settings.Settings, opts ...Option) (*RPCServer, error) {
	if tSettings == nil {
		return nil, errors.NewConfigurationError("settings must not be nil")
	}

	s := &RPCServer{
		logger:                 logger,
		settings:               tSettings,
		table:                  newCommandTable(),
		warmup:                 newWarmupGate(tSettings.RPC.InitialWarmupStatus),
		timers:                 newTimerRegistry(),
		signals:                newSignalRegistry(),
		quit:                   make(chan struct{}),
		requestProcessShutdown: make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.safeModeCheck == nil {
		safeMode := tSettings.RPC.SafeMode
		s.safeModeCheck = func() bool { return safeMode }
	}

	return s, nil
}

// Init prepares the server for use: metrics, the help cache and the built in
// control commands. It does not freeze the command table, subsystems keep
// registering their commands between Init and Start.
func (s *RPCServer) Init(_ context.Context) error {
	initPrometheusMetrics()

	ttl := s.settings.RPC.HelpCacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	s.helpCache = ttlcache.New[string, string](
		ttlcache.WithTTL[string, string](ttl),
	)
	go s.helpCache.Start()

	if err := s.registerBuiltins(); err != nil {
		return err
	}

	return nil
}

// Start freezes the command table, fires the started signal and blocks until
// the context is cancelled or Stop is called. readyCh is closed once the
// server accepts calls.
func (s *RPCServer) Start(ctx context.Context, readyCh chan<- struct{}) error {
	if s.started.Add(1) != 1 {
		s.logger.Infof("[RPCServer] already started")
		close(readyCh)

		return nil
	}

	s.table.freeze()
	s.startedAt.Store(fastime.Now())

	s.logger.Infof("[RPCServer] started with %d commands", s.table.size())

	s.signals.fireStarted()

	close(readyCh)

	select {
	case <-ctx.Done():
	case <-s.quit:
	}

	return nil
}

// Stop shuts the dispatcher down: pending named timers are cancelled, the
// help cache stops and the stopped signal fires. Safe to call more than once.
func (s *RPCServer) Stop(_ context.Context) error {
	if s.shutdown.Add(1) != 1 {
		s.logger.Infof("[RPCServer] already shut down")

		return nil
	}

	s.logger.Infof("[RPCServer] shutting down")

	s.timers.stopAll()

	if s.helpCache != nil {
		s.helpCache.Stop()
	}

	s.signals.fireStopped()

	close(s.quit)

	return nil
}

// Health reports service health. Liveness always passes, readiness fails
// while the node is still warming up.
func (s *RPCServer) Health(_ context.Context, checkLiveness bool) (int, string, error) {
	if checkLiveness {
		return http.StatusOK, "OK", nil
	}

	if inWarmup, status := s.warmup.state(); inWarmup {
		return http.StatusServiceUnavailable, fmt.Sprintf("warming up: %s", status), nil
	}

	if !s.IsRunning() {
		return http.StatusServiceUnavailable, "not running", nil
	}

	return http.StatusOK, "OK", nil
}

// IsRunning reports whether the server has started and not yet shut down.
func (s *RPCServer) IsRunning() bool {
	return s.started.Load() > 0 && s.shutdown.Load() == 0
}

// RegisterCommand adds a command descriptor. It fails once the server has
// started or when the name is already taken, leaving the table unchanged.
func (s *RPCServer) RegisterCommand(cmd *Command) error {
	return s.table.register(cmd)
}

// Lookup returns the descriptor registered under name.
func (s *RPCServer) Lookup(name string) (*Command, bool) {
	return s.table.lookup(name)
}

// Execute dispatches a single call. The ordering here is deliberate: the
// shutdown and warmup gates come first, then name resolution, then the safe
// mode check before any hook fires, so a refused command produces no side
// effects at all, not even observability ones. Post command hooks fire
// regardless of the handler's outcome, carrying the error.
func (s *RPCServer) Execute(ctx context.Context, method string, params json.RawMessage) (interface{}, error) {
	ctx, span := tracing.Start(ctx, "rpc.Execute")
	defer span.End()

	start := fastime.Now()
	defer func() {
		prometheusExecute.Observe(float64(time.Since(start).Milliseconds()))
	}()

	if s.shutdown.Load() != 0 || s.interrupted.Load() {
		return nil, rpcjson.NewRPCError(rpcjson.ErrRPCMisc, "server is shutting down")
	}

	if inWarmup, status := s.warmup.state(); inWarmup {
		prometheusWarmupRejects.Inc()

		return nil, rpcjson.NewRPCError(rpcjson.ErrRPCInWarmup, status)
	}

	cmd, ok := s.table.lookup(method)
	if !ok {
		return nil, rpcjson.ErrRPCMethodNotFound
	}

	if s.safeModeCheck() && !cmd.SafeModeOK {
		return nil, rpcjson.NewRPCError(rpcjson.ErrRPCForbiddenBySafeMode, fmt.Sprintf("%s is not allowed in safe mode", method))
	}

	s.signals.firePreCommand(cmd)

	result, err := s.invokeHandler(ctx, cmd, params)

	s.signals.firePostCommand(cmd, err)

	return result, err
}

// invokeHandler runs the handler with panic isolation. A panicking handler
// must never take the server down, it surfaces as an internal RPC error.
func (s *RPCServer) invokeHandler(ctx context.Context, cmd *Command, params json.RawMessage) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = s.internalRPCError(fmt.Sprintf("handler panic: %v", r), cmd.Name)
		}
	}()

	return cmd.Handler(ctx, params, false)
}

// Help returns usage text. With an empty name it returns the full listing,
// commands grouped by category in registration order. With a name it invokes
// the handler itself in help query mode so the handler stays the single
// source of truth for its own usage. Results are cached until the table can
// no longer change them, bounded by the configured TTL.
func (s *RPCServer) Help(ctx context.Context, name string) (string, error) {
	start := fastime.Now()
	defer func() {
		prometheusHandleHelp.Observe(float64(time.Since(start).Milliseconds()))
	}()

	key := name
	if key == "" {
		key = helpCacheAllKey
	}

	if s.helpCache != nil {
		if item := s.helpCache.Get(key); item != nil {
			return item.Value(), nil
		}
	}

	var text string

	if name == "" {
		text = s.buildHelpListing(ctx)
	} else {
		cmd, ok := s.table.lookup(name)
		if !ok {
			return fmt.Sprintf("help: unknown command: %s", name), nil
		}

		usage, err := cmd.Handler(ctx, nil, true)
		if err != nil {
			return "", err
		}

		var ok2 bool
		if text, ok2 = usage.(string); !ok2 {
			return "", s.internalRPCError(fmt.Sprintf("help text for %s is not a string", name), "Help")
		}
	}

	// Only cache once the table is frozen, earlier listings could go stale.
	if s.helpCache != nil && s.table.isFrozen() {
		s.helpCache.Set(key, text, ttlcache.DefaultTTL)
	}

	return text, nil
}

// buildHelpListing renders the grouped one line summaries of every command.
// Commands in the reserved hidden category are omitted.
func (s *RPCServer) buildHelpListing(ctx context.Context) string {
	categories, grouped := s.table.byCategory()

	var out strings.Builder

	for _, category := range categories {
		if category == "hidden" {
			continue
		}

		fmt.Fprintf(&out, "== %s ==\n", category)

		for _, cmd := range grouped[category] {
			usage, err := cmd.Handler(ctx, nil, true)
			if err != nil {
				s.logger.Warnf("[RPCServer] help query for %s failed: %v", cmd.Name, err)
				continue
			}

			line, _ := usage.(string)
			out.WriteString(firstLine(line))
			out.WriteByte('\n')
		}

		out.WriteByte('\n')
	}

	return out.String()
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}

	return text
}

// SetWarmupStatus updates the startup progress message returned to clients
// while the node is warming up.
func (s *RPCServer) SetWarmupStatus(message string) {
	s.warmup.setStatus(message)
	s.logger.Debugf("[RPCServer] warmup status: %s", message)
}

// MarkWarmupFinished opens the gate for dispatch. The transition is one way
// and calling it again is a no-op.
func (s *RPCServer) MarkWarmupFinished() {
	s.warmup.finish()
	s.logger.Infof("[RPCServer] warmup finished")
}

// WarmupState reports whether the node is warming up and the current status.
func (s *RPCServer) WarmupState() (inWarmup bool, status string) {
	return s.warmup.state()
}

// RegisterTimerDriver installs the scheduling backend used by RunLater.
// Exactly one driver may be registered at a time.
func (s *RPCServer) RegisterTimerDriver(driver TimerDriver) error {
	if err := s.timers.registerDriver(driver); err != nil {
		return err
	}

	s.logger.Infof("[RPCServer] timer driver registered: %s", driver.Name())

	return nil
}

// UnregisterTimerDriver removes the given scheduling backend.
func (s *RPCServer) UnregisterTimerDriver(driver TimerDriver) {
	s.timers.unregisterDriver(driver)
}

// TimerDriverName returns the diagnostic name of the registered driver, or
// the empty string when none is registered.
func (s *RPCServer) TimerDriverName() string {
	return s.timers.driverName()
}

// RunLater schedules callback to run once after delay, replacing any pending
// callback previously scheduled under the same name.
func (s *RPCServer) RunLater(name string, callback func(), delay time.Duration) error {
	return s.timers.runLater(name, callback, delay)
}

// OnStarted attaches a subscriber fired once when the dispatcher starts.
func (s *RPCServer) OnStarted(fn StartedFunc) { s.signals.onStarted(fn) }

// OnStopped attaches a subscriber fired once when the dispatcher stops.
func (s *RPCServer) OnStopped(fn StoppedFunc) { s.signals.onStopped(fn) }

// OnPreCommand attaches a subscriber fired before each handler runs.
func (s *RPCServer) OnPreCommand(fn PreCommandFunc) { s.signals.onPreCommand(fn) }

// OnPostCommand attaches a subscriber fired after each handler returns.
func (s *RPCServer) OnPostCommand(fn PostCommandFunc) { s.signals.onPostCommand(fn) }

// RequestedProcessShutdown returns the channel signalled when a client asks
// the whole process to shut down via the stop command.
func (s *RPCServer) RequestedProcessShutdown() <-chan struct{} {
	return s.requestProcessShutdown
}

// Interrupt refuses all further dispatch without running the stop sequence.
// Used during process shutdown so in-flight teardown never races new calls.
// The started and stopped signals are unaffected.
func (s *RPCServer) Interrupt() {
	if s.interrupted.CompareAndSwap(false, true) {
		s.logger.Infof("[RPCServer] interrupted, refusing further calls")
	}
}

// AsyncQueue returns the configured async execution queue, or nil when none
// was supplied.
func (s *RPCServer) AsyncQueue() AsyncQueue {
	return s.asyncQueue
}

// internalRPCError logs the error and returns the sanitized internal error
// sent to the client.
func (s *RPCServer) internalRPCError(errStr, context string) *rpcjson.RPCError {
	logStr := errStr
	if context != "" {
		logStr = context + ": " + errStr
	}

	s.logger.Errorf("[RPCServer] %s", logStr)

	return rpcjson.NewRPCError(rpcjson.ErrRPCInternal.Code, errStr)
}
