// Package servicemanager coordinates the lifecycle of the node's services:
// ordered startup, readiness signalling, OS-signal handling and reverse-order
// graceful shutdown.
package servicemanager

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pivx-labs/pivxd/errors"
	"github.com/pivx-labs/pivxd/ulogger"
	"golang.org/x/sync/errgroup"
)

// Service is the contract every managed service implements.
type Service interface {
	// Init prepares the service. It is called in registration order before
	// any service is started.
	Init(ctx context.Context) error

	// Start runs the service until ctx is done. The service must close
	// readyCh once it is able to do useful work.
	Start(ctx context.Context, readyCh chan<- struct{}) error

	// Stop shuts the service down gracefully.
	Stop(ctx context.Context) error

	// Health reports liveness (checkLiveness true) or readiness.
	Health(ctx context.Context, checkLiveness bool) (int, string, error)
}

type serviceWrapper struct {
	name     string
	instance Service
	index    int
	readyCh  chan struct{}
}

// ServiceManager manages the lifecycle of multiple services, providing
// coordinated startup, shutdown and signal handling.
type ServiceManager struct {
	services              []serviceWrapper
	dependencyChannelsMux sync.Mutex
	dependencyChannels    []chan bool
	logger                ulogger.Logger
	Ctx                   context.Context
	cancelFunc            context.CancelFunc
	g                     *errgroup.Group
}

// NewServiceManager creates a new service manager with the provided context and
// logger. SIGINT and SIGTERM trigger a graceful shutdown.
func NewServiceManager(ctx context.Context, logger ulogger.Logger) *ServiceManager {
	ctx, cancelFunc := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)

	sm := &ServiceManager{
		services:   make([]serviceWrapper, 0),
		logger:     logger,
		Ctx:        ctx,
		cancelFunc: cancelFunc,
		g:          g,
	}

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

		<-sigs
		sm.logger.Infof("received shutdown signal, stopping services...")
		sm.cancelFunc()
	}()

	return sm
}

// AddService initializes the service and starts it in a goroutine. Services
// start sequentially in registration order, each waiting for the previous one.
func (sm *ServiceManager) AddService(name string, service Service) error {
	sm.dependencyChannelsMux.Lock()
	sm.dependencyChannels = append(sm.dependencyChannels, make(chan bool))

	sw := serviceWrapper{
		name:     name,
		instance: service,
		index:    len(sm.dependencyChannels) - 1,
		readyCh:  make(chan struct{}, 1),
	}

	sm.dependencyChannelsMux.Unlock()

	sm.services = append(sm.services, sw)

	sm.logger.Infof("initializing service %s...", name)

	if err := service.Init(sm.Ctx); err != nil {
		return err
	}

	sm.logger.Infof("starting service %s...", name)

	sm.g.Go(func() error {
		ctx := sm.Ctx

		if sw.index > 0 {
			sm.dependencyChannelsMux.Lock()
			channel := sm.dependencyChannels[sw.index-1]
			sm.dependencyChannelsMux.Unlock()

			if err := sm.waitForPreviousServiceToStart(sw, channel); err != nil {
				return err
			}
		}

		sm.dependencyChannelsMux.Lock()
		close(sm.dependencyChannels[sw.index])
		sm.dependencyChannelsMux.Unlock()

		if err := service.Start(ctx, sw.readyCh); err != nil {
			sm.logger.Errorf("error from service start %s: %v", name, err)
			return err
		}

		return nil
	})

	return nil
}

// WaitForServiceToBeReady blocks until all registered services signal they are ready.
func (sm *ServiceManager) WaitForServiceToBeReady() {
	var wg sync.WaitGroup

	for _, service := range sm.services {
		wg.Add(1)

		go func(s serviceWrapper) {
			defer wg.Done()
			<-s.readyCh
			sm.logger.Infof("service %s is ready", s.name)
		}(service)
	}

	wg.Wait()
}

// waitForPreviousServiceToStart waits for the previous service in the chain to
// signal it has started, with a timeout to avoid blocking forever.
func (sm *ServiceManager) waitForPreviousServiceToStart(sw serviceWrapper, channel chan bool) error {
	timer := time.NewTimer(5 * time.Second)
	defer timer.Stop()

	select {
	case <-channel:
		return nil
	case <-timer.C:
		return errors.NewServiceError("%s (index %d) timed out waiting for previous service to start", sw.name, sw.index)
	}
}

// ForceShutdown triggers an immediate shutdown of all services.
func (sm *ServiceManager) ForceShutdown() {
	sm.cancelFunc()
}

// Wait blocks until all services complete or one errors, then stops the rest
// in reverse registration order.
func (sm *ServiceManager) Wait() error {
	err := sm.g.Wait()
	if err != nil {
		sm.logger.Errorf("received error: %v", err)
	}

	for i := len(sm.services) - 1; i >= 0; i-- {
		service := sm.services[i]

		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)

		sm.logger.Infof("stopping service %s...", service.name)

		if stopErr := service.instance.Stop(stopCtx); stopErr != nil {
			sm.logger.Warnf("[%s] failed to stop service: %v", service.name, stopErr)
		} else {
			sm.logger.Infof("[%s] service stopped gracefully", service.name)
		}

		stopCancel()
	}

	sm.logger.Infof("all services stopped")

	return err
}
