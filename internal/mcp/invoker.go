package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wakacore/info-agent-mcp/pkg/types"
)

// Invoker binds tools/call arguments to a tool definition and executes the
// handler. It holds no state of its own, so a single instance can serve
// arbitrarily many concurrent requests.
type Invoker struct{}

// NewInvoker creates an Invoker.
func NewInvoker() *Invoker {
	return &Invoker{}
}

// Invoke checks required parameters, runs the handler, and wraps the outcome.
//
// Parameters listed in the schema's required set must be present in args;
// extra keys the schema does not declare pass through to the handler
// untouched (the schema is advisory for the calling agent, not a server-side
// gate on extras). The handler's return value is rendered once as a JSON
// string and embedded in a single text content block, which is the protocol's
// content convention: the result is JSON *inside* the JSON envelope.
func (i *Invoker) Invoke(ctx context.Context, def *ToolDefinition, args map[string]interface{}) (*types.CallToolResult, error) {
	if args == nil {
		args = make(map[string]interface{})
	}

	var missing []string
	for _, req := range def.InputSchema.Required {
		if _, ok := args[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return nil, &InvalidArgumentsError{Tool: def.Name, Missing: missing}
	}

	value, err := def.Handler(ctx, args)
	if err != nil {
		return nil, &ToolExecutionError{Tool: def.Name, Err: err}
	}

	text, err := json.Marshal(value)
	if err != nil {
		return nil, &ToolExecutionError{
			Tool: def.Name,
			Err:  fmt.Errorf("failed to serialize tool result: %w", err),
		}
	}

	return &types.CallToolResult{
		Content: []types.Content{{
			Type: "text",
			Text: string(text),
		}},
	}, nil
}
