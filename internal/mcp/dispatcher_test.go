package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakacore/info-agent-mcp/internal/config"
	"github.com/wakacore/info-agent-mcp/internal/info"
	"github.com/wakacore/info-agent-mcp/pkg/types"
)

var testMeta = Meta{
	Name:        "info-agent",
	Description: "test instance",
	Version:     "2.0.0",
}

// catalogueDispatcher builds a dispatcher over the real tool catalogue.
// Only the local calculate tool is ever executed; the others just need to
// be listed.
func catalogueDispatcher(t *testing.T) *Dispatcher {
	t.Helper()

	registry := NewRegistry()
	client := info.NewClient(&config.Config{HTTPTimeout: time.Second})
	for _, tool := range info.All(client) {
		err := registry.Register(&ToolDefinition{
			Name:        tool.Name(),
			Description: tool.Description(),
			InputSchema: tool.Schema(),
			Handler:     tool.Execute,
		})
		require.NoError(t, err)
	}
	return NewDispatcher(registry, testMeta)
}

func dispatch(t *testing.T, d *Dispatcher, body string) (*types.JSONRPCResponse, int) {
	t.Helper()
	resp, status := d.Dispatch(context.Background(), []byte(body))
	require.NotNil(t, resp)
	assert.Equal(t, "2.0", resp.JSONRPC)
	return resp, status
}

func TestDispatchToolsList(t *testing.T) {
	d := catalogueDispatcher(t)

	resp, status := dispatch(t, d, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, resp.Error)
	assert.EqualValues(t, 1, resp.ID)

	result, ok := resp.Result.(types.ListToolsResult)
	require.True(t, ok)
	require.Len(t, result.Tools, 6)

	names := make(map[string]bool)
	for _, tool := range result.Tools {
		names[tool.Name] = true
	}
	assert.True(t, names["get_weather_forecast"])
	assert.True(t, names["calculate"])
}

func TestDispatchToolsListIdempotent(t *testing.T) {
	d := catalogueDispatcher(t)

	first, _ := dispatch(t, d, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	second, _ := dispatch(t, d, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}

func TestDispatchCalculate(t *testing.T) {
	d := catalogueDispatcher(t)

	resp, status := dispatch(t, d,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"calculate","arguments":{"expression":"2 + 2"}}}`)
	assert.Equal(t, http.StatusOK, status)
	require.Nil(t, resp.Error)
	assert.EqualValues(t, 2, resp.ID)

	result, ok := resp.Result.(*types.CallToolResult)
	require.True(t, ok)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &decoded))
	assert.EqualValues(t, 4, decoded["result"])
}

func TestDispatchUnknownTool(t *testing.T) {
	d := catalogueDispatcher(t)

	resp, status := dispatch(t, d,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"unknown_tool","arguments":{}}}`)
	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMethodNotFound, resp.Error.Code)
	assert.Equal(t, "Tool not found: unknown_tool", resp.Error.Message)
	assert.EqualValues(t, 3, resp.ID)
}

func TestDispatchParseError(t *testing.T) {
	d := catalogueDispatcher(t)

	for name, body := range map[string]string{
		"empty":   "",
		"garbage": "{not json",
	} {
		t.Run(name, func(t *testing.T) {
			resp, status := d.Dispatch(context.Background(), []byte(body))
			assert.Equal(t, http.StatusBadRequest, status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, CodeParseError, resp.Error.Code)
			assert.Equal(t, "Parse error", resp.Error.Message)
			assert.Nil(t, resp.ID)
		})
	}
}

func TestDispatchUnknownMethod(t *testing.T) {
	d := catalogueDispatcher(t)

	resp, status := dispatch(t, d, `{"jsonrpc":"2.0","id":4,"method":"frobnicate"}`)
	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMethodNotFound, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "frobnicate")
	assert.EqualValues(t, 4, resp.ID)
}

func TestDispatchInitialize(t *testing.T) {
	d := catalogueDispatcher(t)

	resp, status := dispatch(t, d, `{"jsonrpc":"2.0","id":7,"method":"initialize"}`)
	assert.Equal(t, http.StatusOK, status)
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(types.InitializeResult)
	require.True(t, ok)
	assert.Equal(t, "2024-11-05", result.ProtocolVersion)
	assert.Equal(t, "info-agent", result.ServerInfo.Name)
	assert.Equal(t, "2.0.0", result.ServerInfo.Version)
	assert.False(t, result.Capabilities.Tools.ListChanged)
}

func TestDispatchInitializeIdempotent(t *testing.T) {
	d := catalogueDispatcher(t)

	first, _ := dispatch(t, d, `{"jsonrpc":"2.0","id":7,"method":"initialize"}`)
	second, _ := dispatch(t, d, `{"jsonrpc":"2.0","id":7,"method":"initialize"}`)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}

func TestDispatchToolFailure(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(&ToolDefinition{
		Name:        "broken",
		InputSchema: types.Schema{Type: "object"},
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			return nil, assert.AnError
		},
	}))
	d := NewDispatcher(registry, testMeta)

	resp, status := dispatch(t, d,
		`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"broken"}}`)
	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInternalError, resp.Error.Code)
	assert.EqualValues(t, 5, resp.ID)
}

func TestDispatchMissingRequiredArgument(t *testing.T) {
	d := catalogueDispatcher(t)

	// calculate declares expression as required; the invoker enforces
	// presence before the handler runs.
	resp, status := dispatch(t, d,
		`{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"calculate","arguments":{}}}`)
	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInternalError, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "expression")
}

func TestDispatchIDEcho(t *testing.T) {
	d := catalogueDispatcher(t)

	t.Run("string id", func(t *testing.T) {
		resp, _ := dispatch(t, d, `{"jsonrpc":"2.0","id":"abc-123","method":"tools/list"}`)
		assert.Equal(t, "abc-123", resp.ID)
	})

	t.Run("null id", func(t *testing.T) {
		resp, _ := dispatch(t, d, `{"jsonrpc":"2.0","id":null,"method":"tools/list"}`)
		assert.Nil(t, resp.ID)
	})
}
