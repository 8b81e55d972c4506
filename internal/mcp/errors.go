package mcp

import (
	"errors"
	"fmt"
	"strings"
)

// JSON-RPC error codes used by the dispatcher.
const (
	CodeParseError     = -32700
	CodeMethodNotFound = -32601
	CodeInternalError  = -32603
)

var (
	// ErrDuplicateTool is returned when registering a tool name twice.
	ErrDuplicateTool = errors.New("tool already registered")
	// ErrToolNotFound is returned when looking up an unregistered tool.
	ErrToolNotFound = errors.New("tool not found")
)

// InvalidArgumentsError reports required parameters missing from a tools/call.
type InvalidArgumentsError struct {
	Tool    string
	Missing []string
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments for tool %q: missing required parameters: %s",
		e.Tool, strings.Join(e.Missing, ", "))
}

// ToolExecutionError wraps a failure raised by a tool handler. Only the
// handler's message crosses the protocol boundary, never internal state.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return e.Err.Error()
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Err
}
