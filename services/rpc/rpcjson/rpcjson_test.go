package rpcjson

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	t.Run("valid request with array params", func(t *testing.T) {
		req, err := ParseRequest([]byte(`{"jsonrpc":"1.0","method":"getinfo","params":[],"id":1}`))
		require.NoError(t, err)
		assert.Equal(t, "getinfo", req.Method)
		assert.Equal(t, float64(1), req.ID)
	})

	t.Run("valid request with object params", func(t *testing.T) {
		req, err := ParseRequest([]byte(`{"method":"help","params":{"command":"stop"},"id":"abc"}`))
		require.NoError(t, err)
		assert.Equal(t, "help", req.Method)
		assert.Equal(t, "abc", req.ID)
	})

	t.Run("null params accepted", func(t *testing.T) {
		req, err := ParseRequest([]byte(`{"method":"uptime","params":null,"id":7}`))
		require.NoError(t, err)
		assert.Equal(t, "uptime", req.Method)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ParseRequest([]byte(`{"method":`))
		require.Error(t, err)

		var rpcErr *RPCError
		require.ErrorAs(t, err, &rpcErr)
		assert.Equal(t, ErrRPCParse.Code, rpcErr.Code)
	})

	t.Run("missing method", func(t *testing.T) {
		_, err := ParseRequest([]byte(`{"params":[],"id":1}`))
		require.Error(t, err)

		var rpcErr *RPCError
		require.ErrorAs(t, err, &rpcErr)
		assert.Equal(t, ErrRPCInvalidRequest.Code, rpcErr.Code)
	})

	t.Run("bad id type", func(t *testing.T) {
		_, err := ParseRequest([]byte(`{"method":"getinfo","id":{"a":1}}`))
		require.Error(t, err)

		var rpcErr *RPCError
		require.ErrorAs(t, err, &rpcErr)
		assert.Equal(t, ErrRPCInvalidRequest.Code, rpcErr.Code)
	})

	t.Run("scalar params rejected", func(t *testing.T) {
		_, err := ParseRequest([]byte(`{"method":"getinfo","params":5,"id":1}`))
		require.Error(t, err)

		var rpcErr *RPCError
		require.ErrorAs(t, err, &rpcErr)
		assert.Equal(t, ErrRPCInvalidRequest.Code, rpcErr.Code)
	})
}

func TestIsValidIDType(t *testing.T) {
	assert.True(t, IsValidIDType(1))
	assert.True(t, IsValidIDType(uint64(2)))
	assert.True(t, IsValidIDType(3.5))
	assert.True(t, IsValidIDType("id"))
	assert.True(t, IsValidIDType(nil))

	assert.False(t, IsValidIDType([]string{"x"}))
	assert.False(t, IsValidIDType(map[string]int{"x": 1}))
	assert.False(t, IsValidIDType(true))
}

func TestMarshalResponse(t *testing.T) {
	t.Run("result", func(t *testing.T) {
		b, err := MarshalResponse(1, "pong", nil)
		require.NoError(t, err)
		assert.JSONEq(t, `{"result":"pong","error":null,"id":1}`, string(b))
	})

	t.Run("error", func(t *testing.T) {
		b, err := MarshalResponse("q", nil, NewRPCError(ErrRPCInWarmup, "warming up"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"result":null,"error":{"code":-28,"message":"warming up"},"id":"q"}`, string(b))
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := MarshalResponse([]int{1}, nil, nil)
		require.Error(t, err)
	})
}

func TestNewResponseRoundTrip(t *testing.T) {
	resp, err := NewResponse(int64(5), []byte(`{"version":"1.0.0"}`), nil)
	require.NoError(t, err)

	b, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded Response
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.NotNil(t, decoded.ID)
	assert.Equal(t, float64(5), *decoded.ID)
	assert.Nil(t, decoded.Error)
}

func TestRPCErrorError(t *testing.T) {
	err := NewRPCError(ErrRPCMisc, "boom")
	assert.Equal(t, "-1: boom", err.Error())
}
