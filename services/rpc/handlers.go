package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kpango/fastime"
	"github.com/pivx-labs/pivxd/services/rpc/rpcjson"
)

// registerBuiltins adds the control commands every pivxd node serves. They
// are registered during Init, before any external subsystem runs, so a
// subsystem trying to reuse one of these names fails loudly at startup.
func (s *RPCServer) registerBuiltins() error {
	builtins := []*Command{
		{Category: "control", Name: "help", Handler: s.handleHelp, SafeModeOK: true},
		{Category: "control", Name: "stop", Handler: s.handleStop, SafeModeOK: true},
		{Category: "control", Name: "uptime", Handler: s.handleUptime, SafeModeOK: true},
		{Category: "control", Name: "version", Handler: s.handleVersion, SafeModeOK: true},
	}

	for _, cmd := range builtins {
		if err := s.table.register(cmd); err != nil {
			return err
		}
	}

	return nil
}

// stringParams decodes a params value of the form ["a", "b"] into its
// elements. A missing or null params value decodes to nil.
func stringParams(params json.RawMessage) ([]string, error) {
	if len(params) == 0 {
		return nil, nil
	}

	var args []string
	if err := json.Unmarshal(params, &args); err != nil {
		return nil, rpcjson.NewRPCError(rpcjson.ErrRPCInvalidParams.Code, fmt.Sprintf("Failed to parse params: %v", err))
	}

	return args, nil
}

func (s *RPCServer) handleHelp(ctx context.Context, params json.RawMessage, helpRequested bool) (interface{}, error) {
	if helpRequested {
		return "help ( \"command\" )\nList all commands, or get help for a specified command.", nil
	}

	args, err := stringParams(params)
	if err != nil {
		return nil, err
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	return s.Help(ctx, name)
}

func (s *RPCServer) handleStop(_ context.Context, _ json.RawMessage, helpRequested bool) (interface{}, error) {
	if helpRequested {
		return "stop\nStop pivxd server.", nil
	}

	select {
	case s.requestProcessShutdown <- struct{}{}:
	default:
	}

	return "pivxd stopping.", nil
}

func (s *RPCServer) handleUptime(_ context.Context, _ json.RawMessage, helpRequested bool) (interface{}, error) {
	if helpRequested {
		return "uptime\nReturns the total uptime of the server in seconds.", nil
	}

	startedAt := s.startedAt.Load()
	if startedAt.IsZero() {
		return int64(0), nil
	}

	return int64(fastime.Now().Sub(startedAt) / time.Second), nil
}

func (s *RPCServer) handleVersion(_ context.Context, _ json.RawMessage, helpRequested bool) (interface{}, error) {
	if helpRequested {
		return "version\nReturns the JSON-RPC API version.", nil
	}

	return map[string]rpcjson.VersionResult{
		"pivxdjsonrpcapi": {
			VersionString: jsonrpcSemverString,
			Major:         jsonrpcSemverMajor,
			Minor:         jsonrpcSemverMinor,
			Patch:         jsonrpcSemverPatch,
		},
	}, nil
}
