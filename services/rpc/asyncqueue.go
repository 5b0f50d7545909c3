package rpc

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pivx-labs/pivxd/errors"
	"github.com/pivx-labs/pivxd/services/rpc/rpcjson"
)

// AsyncJob is one deferred command execution handed to the async queue. The
// ID correlates the eventual result with the submitting client.
type AsyncJob struct {
	ID     uuid.UUID
	Method string
	Params json.RawMessage
}

// AsyncQueue is the collaborator that executes commands off the request
// path. The dispatcher only enqueues, the queue's worker pool mechanics are
// its own concern.
type AsyncQueue interface {
	Enqueue(ctx context.Context, job AsyncJob) error
	Len() int
}

// ExecuteAsync submits a command for deferred execution and returns the job
// id the client can use to correlate the result. It fails when no async
// queue was configured.
func (s *RPCServer) ExecuteAsync(ctx context.Context, method string, params json.RawMessage) (uuid.UUID, error) {
	if s.asyncQueue == nil {
		return uuid.Nil, errors.NewServiceUnavailableError("no async queue configured")
	}

	if _, ok := s.table.lookup(method); !ok {
		return uuid.Nil, rpcjson.ErrRPCMethodNotFound
	}

	job := AsyncJob{
		ID:     uuid.New(),
		Method: method,
		Params: params,
	}

	if err := s.asyncQueue.Enqueue(ctx, job); err != nil {
		return uuid.Nil, errors.NewProcessingError("failed to enqueue %s", method, err)
	}

	s.logger.Debugf("[RPCServer] queued async job %s for %s", job.ID, method)

	return job.ID, nil
}
