package rpc

import (
	"context"
	"encoding/json"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/kpango/fastime"
	"github.com/pivx-labs/pivxd/errors"
	"github.com/pivx-labs/pivxd/services/rpc/rpcjson"
)

var jsonx = jsoniter.ConfigCompatibleWithStandardLibrary

// toRPCError converts any handler error into the structured error object
// sent to the client. Errors that are not already RPC errors surface as
// internal errors so no internal detail structure leaks onto the wire.
func toRPCError(err error) *rpcjson.RPCError {
	if err == nil {
		return nil
	}

	var rpcErr *rpcjson.RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	return rpcjson.NewRPCError(rpcjson.ErrRPCInternal.Code, err.Error())
}

// newResponse builds the response for one request, marshalling the result
// and tagging the response with the originating request id.
func (s *RPCServer) newResponse(id interface{}, result interface{}, err error) *rpcjson.Response {
	if err != nil {
		resp, _ := rpcjson.NewResponse(id, nil, toRPCError(err))
		return resp
	}

	marshalled, merr := jsonx.Marshal(result)
	if merr != nil {
		resp, _ := rpcjson.NewResponse(id, nil, s.internalRPCError(merr.Error(), "failed to marshal result"))
		return resp
	}

	resp, rerr := rpcjson.NewResponse(id, marshalled, nil)
	if rerr != nil {
		resp, _ = rpcjson.NewResponse(nil, nil, s.internalRPCError(rerr.Error(), "failed to build response"))
	}

	return resp
}

// ExecRequest parses and executes one raw JSON-RPC request. It always
// returns a response, every failure mode is converted into a structured
// error tagged with the request id when one could be parsed.
func (s *RPCServer) ExecRequest(ctx context.Context, raw json.RawMessage) *rpcjson.Response {
	req, err := rpcjson.ParseRequest(raw)
	if err != nil {
		return s.newResponse(nil, nil, err)
	}

	result, err := s.Execute(ctx, req.Method, req.Params)

	return s.newResponse(req.ID, result, err)
}

// ExecBatch executes a sequence of raw requests and returns one response per
// request in input order. A failure in one request never affects the others.
func (s *RPCServer) ExecBatch(ctx context.Context, requests []json.RawMessage) []*rpcjson.Response {
	start := fastime.Now()
	defer func() {
		prometheusExecuteBatch.Observe(float64(time.Since(start).Milliseconds()))
	}()

	prometheusBatchSize.Observe(float64(len(requests)))

	responses := make([]*rpcjson.Response, len(requests))
	for i, raw := range requests {
		responses[i] = s.ExecRequest(ctx, raw)
	}

	return responses
}

// ExecBatchJSON takes the raw bytes of a JSON-RPC call, single object or
// top level array, and returns the marshalled response or response array.
func (s *RPCServer) ExecBatchJSON(ctx context.Context, raw []byte) ([]byte, error) {
	if isBatch(raw) {
		var requests []json.RawMessage
		if err := json.Unmarshal(raw, &requests); err != nil {
			resp := s.newResponse(nil, nil, rpcjson.NewRPCError(rpcjson.ErrRPCParse.Code, err.Error()))
			return jsonx.Marshal(resp)
		}

		if len(requests) == 0 {
			resp := s.newResponse(nil, nil, rpcjson.NewRPCError(rpcjson.ErrRPCInvalidRequest.Code, "empty batch"))
			return jsonx.Marshal(resp)
		}

		return jsonx.Marshal(s.ExecBatch(ctx, requests))
	}

	return jsonx.Marshal(s.ExecRequest(ctx, raw))
}

// isBatch reports whether the raw JSON value is a top level array.
func isBatch(raw []byte) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '[':
			return true
		default:
			return false
		}
	}

	return false
}
