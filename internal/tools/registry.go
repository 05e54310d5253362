package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/retroryan/durable-ai-agent/internal/toolerrors"
)

// registered pairs a Definition with the Executor that serves it.
type registered struct {
	def Definition
	exec Executor
}

// Registry is a central, name-keyed collection of tools, mirroring the
// original ToolRegistry: register once at startup, then look up and execute
// by name for the lifetime of the process.
type Registry struct {
	tools map[string]registered
	set   string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]registered)}
}

// Register adds a tool definition and its executor. It returns an error if
// the name is already registered, mirroring the original's ValueError on
// duplicate registration.
func (r *Registry) Register(def Definition, exec Executor) error {
	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("tools: tool %q is already registered", def.Name)
	}
	r.tools[def.Name] = registered{def: def, exec: exec}
	return nil
}

// Get returns the definition for name and whether it was found.
func (r *Registry) Get(name string) (Definition, bool) {
	reg, ok := r.tools[name]
	return reg.def, ok
}

// Names returns all registered tool names in a stable, sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns all registered definitions in Names order, used to
// build the tool-enumeration section of the reasoning prompt.
func (r *Registry) Definitions() []Definition {
	names := r.Names()
	defs := make([]Definition, len(names))
	for i, name := range names {
		defs[i] = r.tools[name].def
	}
	return defs
}

// Execute validates args against the named tool's schema and, if valid,
// calls its Executor. An unknown tool name returns a *toolerrors.UnknownTool
// so callers can distinguish it from execution failures.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	reg, ok := r.tools[name]
	if !ok {
		return "", &toolerrors.UnknownTool{Name: name}
	}
	if err := reg.def.ValidateArgs(args); err != nil {
		return "", toolerrors.NewWithCause("invalid tool arguments", err)
	}
	result, err := reg.exec.Execute(ctx, args)
	if err != nil {
		// An invariant violation is returned as is so callers can errors.As
		// into it; other executor failures are wrapped into a ToolError chain.
		var invariant *toolerrors.InvariantViolation
		if errors.As(err, &invariant) {
			return "", invariant
		}
		return "", toolerrors.NewWithCause(fmt.Sprintf("tool %q failed", name), err)
	}
	return result, nil
}

// SetToolSetName records the name of the tool set currently loaded into this
// registry.
func (r *Registry) SetToolSetName(name string) { r.set = name }

// ToolSetName returns the name of the tool set loaded into this registry, or
// "" if none was set.
func (r *Registry) ToolSetName() string { return r.set }
