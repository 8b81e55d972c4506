package mcp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakacore/info-agent-mcp/pkg/types"
)

func testMux(t *testing.T) *http.ServeMux {
	t.Helper()
	return NewHandler(catalogueDispatcher(t)).Routes()
}

func TestHandlerMCPRoute(t *testing.T) {
	mux := testMux(t)

	t.Run("tools/list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/mcp",
			strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var resp types.JSONRPCResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.EqualValues(t, 1, resp.ID)
		assert.Nil(t, resp.Error)
	})

	t.Run("empty body is a parse error with status 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp types.JSONRPCResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, CodeParseError, resp.Error.Code)
		assert.Nil(t, resp.ID)
	})

	t.Run("GET is not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("OPTIONS preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/mcp", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestHandlerHealth(t *testing.T) {
	mux := testMux(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp types.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "info-agent", resp.Server)
	assert.Equal(t, "2.0.0", resp.Version)
	assert.Equal(t, 6, resp.ToolsCount)
}

func TestHandlerTools(t *testing.T) {
	mux := testMux(t)

	req := httptest.NewRequest(http.MethodGet, "/tools", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp types.ToolsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 6, resp.Count)
	require.Len(t, resp.Tools, 6)
	assert.Equal(t, "get_weather_forecast", resp.Tools[0].Name)
	assert.NotEmpty(t, resp.Tools[0].Description)
}

func TestHandlerIndex(t *testing.T) {
	mux := testMux(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp types.IndexResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "info-agent", resp.Name)
	assert.Equal(t, "/mcp (POST)", resp.Endpoints["mcp"])
	assert.Equal(t, "/health", resp.Endpoints["health"])
	assert.Equal(t, "/tools", resp.Endpoints["tools"])
	assert.Equal(t, 6, resp.ToolsCount)
}

func TestHandlerIndexUnknownPath(t *testing.T) {
	mux := testMux(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
