package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/wakacore/info-agent-mcp/pkg/types"
)

const protocolVersion = "2024-11-05"

// Meta identifies the server in initialize results and REST views.
type Meta struct {
	Name        string
	Description string
	Version     string
}

// Dispatcher routes one JSON-RPC envelope at a time. It keeps no per-request
// state, so Dispatch is a pure function of (body, registry) and may be called
// from any number of goroutines.
type Dispatcher struct {
	registry *Registry
	invoker  *Invoker
	meta     Meta
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry, meta Meta) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		invoker:  NewInvoker(),
		meta:     meta,
	}
}

// Dispatch parses body, routes by method, and returns the response envelope
// along with the HTTP status the transport should use. The parse-error path
// is the only one carried on a non-200 status; every other outcome, error
// envelopes included, is HTTP 200.
func (d *Dispatcher) Dispatch(ctx context.Context, body []byte) (*types.JSONRPCResponse, int) {
	var req types.JSONRPCRequest
	if len(body) == 0 || json.Unmarshal(body, &req) != nil {
		return errorResponse(nil, CodeParseError, "Parse error"), http.StatusBadRequest
	}

	switch req.Method {
	case "initialize":
		return d.handleInitialize(req), http.StatusOK
	case "tools/list":
		return d.handleListTools(req), http.StatusOK
	case "tools/call":
		return d.handleCallTool(ctx, req), http.StatusOK
	default:
		return errorResponse(req.ID, CodeMethodNotFound,
			fmt.Sprintf("Method not found: %s", req.Method)), http.StatusOK
	}
}

func (d *Dispatcher) handleInitialize(req types.JSONRPCRequest) *types.JSONRPCResponse {
	return successResponse(req.ID, types.InitializeResult{
		ProtocolVersion: protocolVersion,
		ServerInfo: types.ServerInfo{
			Name:    d.meta.Name,
			Version: d.meta.Version,
		},
		Capabilities: types.Capabilities{
			Tools: types.ToolCapabilities{ListChanged: false},
		},
	})
}

func (d *Dispatcher) handleListTools(req types.JSONRPCRequest) *types.JSONRPCResponse {
	tools := make([]types.Tool, 0, d.registry.Len())
	for def := range d.registry.Tools() {
		tools = append(tools, types.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		})
	}

	return successResponse(req.ID, types.ListToolsResult{Tools: tools})
}

func (d *Dispatcher) handleCallTool(ctx context.Context, req types.JSONRPCRequest) *types.JSONRPCResponse {
	var params types.CallToolParams
	if paramBytes, err := json.Marshal(req.Params); err == nil {
		// Malformed params leave Name empty and fall into the not-found path.
		_ = json.Unmarshal(paramBytes, &params)
	}

	def, err := d.registry.Lookup(params.Name)
	if err != nil {
		return errorResponse(req.ID, CodeMethodNotFound,
			fmt.Sprintf("Tool not found: %s", params.Name))
	}

	args, _ := params.Arguments.(map[string]interface{})
	if args == nil {
		args = make(map[string]interface{})
	}

	result, err := d.invoker.Invoke(ctx, def, args)
	if err != nil {
		log.Warn("tool call failed", "tool", params.Name, "err", err)
		return errorResponse(req.ID, CodeInternalError, err.Error())
	}

	return successResponse(req.ID, result)
}

// Meta returns the server identity the dispatcher was built with.
func (d *Dispatcher) Meta() Meta {
	return d.meta
}

// Registry exposes the underlying registry for the REST views.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

func successResponse(id, result interface{}) *types.JSONRPCResponse {
	return &types.JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
}

func errorResponse(id interface{}, code int, message string) *types.JSONRPCResponse {
	return &types.JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &types.RPCError{
			Code:    code,
			Message: message,
		},
	}
}
