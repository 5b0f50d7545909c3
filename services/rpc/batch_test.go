package rpc

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pivx-labs/pivxd/services/rpc/rpcjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRequest(t *testing.T) {
	t.Run("success response tagged with the request id", func(t *testing.T) {
		s := newTestServer(t)
		require.NoError(t, s.RegisterCommand(&Command{Category: "blockchain", Name: "getblockcount", Handler: echoHandler(100)}))

		resp := s.ExecRequest(context.Background(), []byte(`{"method":"getblockcount","params":[],"id":7}`))
		require.NotNil(t, resp)
		require.Nil(t, resp.Error)
		require.NotNil(t, resp.ID)
		assert.Equal(t, float64(7), *resp.ID)
		assert.JSONEq(t, `100`, string(resp.Result))
	})

	t.Run("parse failure yields a response with a nil id", func(t *testing.T) {
		s := newTestServer(t)

		resp := s.ExecRequest(context.Background(), []byte(`{"method":`))
		require.NotNil(t, resp)
		require.NotNil(t, resp.Error)
		assert.Equal(t, rpcjson.ErrRPCParse.Code, resp.Error.Code)
	})

	t.Run("handler error carried in the error field", func(t *testing.T) {
		s := newTestServer(t)

		resp := s.ExecRequest(context.Background(), []byte(`{"method":"nosuchmethod","id":3}`))
		require.NotNil(t, resp)
		require.NotNil(t, resp.Error)
		assert.Equal(t, rpcjson.ErrRPCMethodNotFound.Code, resp.Error.Code)
		require.NotNil(t, resp.ID)
		assert.Equal(t, float64(3), *resp.ID)
	})

	t.Run("non RPC handler errors become internal errors", func(t *testing.T) {
		s := newTestServer(t)

		require.NoError(t, s.RegisterCommand(&Command{
			Category: "blockchain",
			Name:     "failing",
			Handler: func(_ context.Context, _ json.RawMessage, _ bool) (interface{}, error) {
				return nil, assert.AnError
			},
		}))

		resp := s.ExecRequest(context.Background(), []byte(`{"method":"failing","id":1}`))
		require.NotNil(t, resp.Error)
		assert.Equal(t, rpcjson.ErrRPCInternal.Code, resp.Error.Code)
	})
}

func TestExecBatch(t *testing.T) {
	t.Run("one response per request in input order with error isolation", func(t *testing.T) {
		s := newTestServer(t)
		require.NoError(t, s.RegisterCommand(&Command{Category: "blockchain", Name: "getblockcount", Handler: echoHandler(100)}))
		require.NoError(t, s.RegisterCommand(&Command{Category: "blockchain", Name: "getbestblockhash", Handler: echoHandler("00aa")}))

		responses := s.ExecBatch(context.Background(), []json.RawMessage{
			[]byte(`{"method":"getblockcount","id":1}`),
			[]byte(`{"method":"nosuchmethod","id":2}`),
			[]byte(`{"method":"getbestblockhash","id":3}`),
		})

		require.Len(t, responses, 3)

		require.Nil(t, responses[0].Error)
		assert.JSONEq(t, `100`, string(responses[0].Result))
		assert.Equal(t, float64(1), *responses[0].ID)

		require.NotNil(t, responses[1].Error)
		assert.Equal(t, rpcjson.ErrRPCMethodNotFound.Code, responses[1].Error.Code)
		assert.Equal(t, float64(2), *responses[1].ID)

		require.Nil(t, responses[2].Error)
		assert.JSONEq(t, `"00aa"`, string(responses[2].Result))
		assert.Equal(t, float64(3), *responses[2].ID)
	})

	t.Run("empty batch", func(t *testing.T) {
		s := newTestServer(t)

		responses := s.ExecBatch(context.Background(), nil)
		assert.Empty(t, responses)
	})
}

func TestExecBatchJSON(t *testing.T) {
	t.Run("single object", func(t *testing.T) {
		s := newTestServer(t)
		require.NoError(t, s.RegisterCommand(&Command{Category: "blockchain", Name: "getblockcount", Handler: echoHandler(100)}))

		out, err := s.ExecBatchJSON(context.Background(), []byte(`{"method":"getblockcount","id":1}`))
		require.NoError(t, err)
		assert.JSONEq(t, `{"result":100,"error":null,"id":1}`, string(out))
	})

	t.Run("array form returns an array in request order", func(t *testing.T) {
		s := newTestServer(t)
		require.NoError(t, s.RegisterCommand(&Command{Category: "blockchain", Name: "getblockcount", Handler: echoHandler(100)}))

		out, err := s.ExecBatchJSON(context.Background(), []byte(`[{"method":"getblockcount","id":1},{"method":"missing","id":2}]`))
		require.NoError(t, err)

		var responses []rpcjson.Response
		require.NoError(t, json.Unmarshal(out, &responses))
		require.Len(t, responses, 2)
		assert.Nil(t, responses[0].Error)
		require.NotNil(t, responses[1].Error)
		assert.Equal(t, rpcjson.ErrRPCMethodNotFound.Code, responses[1].Error.Code)
	})

	t.Run("empty batch is an invalid request", func(t *testing.T) {
		s := newTestServer(t)

		out, err := s.ExecBatchJSON(context.Background(), []byte(`  [ ] `))
		require.NoError(t, err)

		var resp rpcjson.Response
		require.NoError(t, json.Unmarshal(out, &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, rpcjson.ErrRPCInvalidRequest.Code, resp.Error.Code)
	})

	t.Run("malformed batch json", func(t *testing.T) {
		s := newTestServer(t)

		out, err := s.ExecBatchJSON(context.Background(), []byte(`[{"method":`))
		require.NoError(t, err)

		var resp rpcjson.Response
		require.NoError(t, json.Unmarshal(out, &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, rpcjson.ErrRPCParse.Code, resp.Error.Code)
	})
}

func TestIsBatch(t *testing.T) {
	assert.True(t, isBatch([]byte(`[]`)))
	assert.True(t, isBatch([]byte("\n\t [{}]")))
	assert.False(t, isBatch([]byte(`{}`)))
	assert.False(t, isBatch([]byte(``)))
}
