package mcp

import (
	"context"
	"fmt"
	"iter"
	"sync"

	"github.com/wakacore/info-agent-mcp/pkg/types"
)

// HandlerFunc is the call contract of a tool collaborator: a synchronous
// function from an argument map to a JSON-serializable value, failing with an
// error whose message is safe to surface to the caller.
type HandlerFunc func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// ToolDefinition describes one registered tool.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema types.Schema
	Handler     HandlerFunc
}

// Registry stores tool definitions keyed by name. It is populated once during
// startup and read-only afterwards, so concurrent dispatch calls need no
// coordination beyond the internal lock taken during registration.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*ToolDefinition
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]*ToolDefinition),
	}
}

// Register adds a tool definition. Returns an error wrapping ErrDuplicateTool
// if the name is taken, or a validation error for a malformed definition.
func (r *Registry) Register(def *ToolDefinition) error {
	if err := validateDefinition(def); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, def.Name)
	}

	r.tools[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

// Lookup returns the definition for name, or an error wrapping ErrToolNotFound.
func (r *Registry) Lookup(name string) (*ToolDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, exists := r.tools[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return def, nil
}

// Tools yields all definitions in registration order. The sequence is
// restartable; ranging over it never mutates the registry.
func (r *Registry) Tools() iter.Seq[*ToolDefinition] {
	return func(yield func(*ToolDefinition) bool) {
		r.mu.RLock()
		defer r.mu.RUnlock()

		for _, name := range r.order {
			if !yield(r.tools[name]) {
				return
			}
		}
	}
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

func validateDefinition(def *ToolDefinition) error {
	if def == nil {
		return fmt.Errorf("tool definition is nil")
	}
	if def.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if def.Handler == nil {
		return fmt.Errorf("tool %q has no handler", def.Name)
	}
	// required must name declared properties
	for _, req := range def.InputSchema.Required {
		if _, ok := def.InputSchema.Properties[req]; !ok {
			return fmt.Errorf("tool %q requires undeclared parameter %q", def.Name, req)
		}
	}
	return nil
}
