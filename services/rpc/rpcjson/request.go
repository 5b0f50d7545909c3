package rpcjson

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Request is a parsed JSON-RPC request. Params is kept as raw JSON (an array
// or an object); decoding and validating the individual parameters is the
// responsibility of the command handler, not the dispatcher.
type Request struct {
	Jsonrpc string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      interface{}     `json:"id"`
}

// IsValidIDType checks that the ID field (which can go in any of the JSON-RPC
// requests, responses, or notifications) is valid. JSON-RPC 1.0 allows any
// valid JSON type. JSON-RPC 2.0 (which pivxd follows for ids) only allows
// string, number, or null.
func IsValidIDType(id interface{}) bool {
	switch id.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		string,
		nil:
		return true
	default:
		return false
	}
}

// ParseRequest decodes a single JSON-RPC request from a raw JSON value. A
// request whose shape is malformed fails here, at parse time, never at
// dispatch time: the method must be a non-empty string, the id (when present)
// a string, number or null, and params (when present) an array or object.
func ParseRequest(raw json.RawMessage) (*Request, error) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, NewRPCError(ErrRPCParse.Code, fmt.Sprintf("Failed to parse request: %v", err))
	}

	if req.Method == "" {
		return nil, NewRPCError(ErrRPCInvalidRequest.Code, "Invalid request: missing method")
	}

	if req.ID != nil && !IsValidIDType(req.ID) {
		return nil, NewRPCError(ErrRPCInvalidRequest.Code, "Invalid request: id must be a string, number or null")
	}

	if len(req.Params) > 0 {
		switch firstToken(req.Params) {
		case '[', '{':
		case 'n': // null
		default:
			return nil, NewRPCError(ErrRPCInvalidRequest.Code, "Invalid request: params must be an array or object")
		}
	}

	return &req, nil
}

// firstToken returns the first non-whitespace byte of raw JSON, or 0 when the
// value is all whitespace.
func firstToken(raw json.RawMessage) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}

	return trimmed[0]
}
