package rpcjson

import (
	"encoding/json"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var jsonx = jsoniter.ConfigCompatibleWithStandardLibrary

// Response is the general form of a JSON-RPC response. The type of the
// Result field varies from one command to the next, so it is implemented as
// an interface. The ID field has to be a pointer to allow for a nil value
// when empty.
type Response struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
	ID     *interface{}    `json:"id"`
}

// NewResponse returns a new JSON-RPC response object given the provided id,
// marshalled result, and RPC error. This function is only provided in case
// the caller wants to construct raw responses for some reason. An
// unmarshallable id returns an error.
func NewResponse(id interface{}, marshalledResult []byte, rpcErr *RPCError) (*Response, error) {
	if !IsValidIDType(id) {
		return nil, fmt.Errorf("the id of type '%T' is invalid", id)
	}

	pid := &id

	return &Response{
		Result: marshalledResult,
		Error:  rpcErr,
		ID:     pid,
	}, nil
}

// MarshalResponse marshals the passed id, result, and RPCError to a JSON-RPC
// response byte slice that is suitable for transmission to a JSON-RPC client.
func MarshalResponse(id interface{}, result interface{}, rpcErr *RPCError) ([]byte, error) {
	marshalledResult, err := jsonx.Marshal(result)
	if err != nil {
		return nil, err
	}

	response, err := NewResponse(id, marshalledResult, rpcErr)
	if err != nil {
		return nil, err
	}

	return jsonx.Marshal(&response)
}

// VersionResult models objects included in the version response. In the
// actual result, these objects are keyed by the program or API name.
type VersionResult struct {
	VersionString string `json:"versionstring"`
	Major         uint32 `json:"major"`
	Minor         uint32 `json:"minor"`
	Patch         uint32 `json:"patch"`
}
