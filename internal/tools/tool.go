// Package tools defines the tool registry the agentic sub-workflow consults
// to enumerate available actions and validate/execute tool calls. A tool may
// be backed by local Go code or by a remote MCP server; the registry hides
// that distinction behind a single Definition/Execute surface.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Definition describes one tool's identity, documentation, and argument
// schema. Name must be unique within a registry and, per the original
// implementation's BaseTool.NAME constraint, a valid identifier
// ([a-zA-Z_][a-zA-Z0-9_]*).
type Definition struct {
	// Name is the unique, identifier-safe tool name (e.g. "get_weather").
	Name string
	// Module groups related tools for documentation/prompt formatting (e.g.
	// "agriculture", "ecommerce").
	Module string
	// Description is the one-line summary surfaced to the reasoning prompt.
	Description string
	// ArgsSchema is the compiled JSON Schema used to validate ToolArgs before
	// Execute is called.
	ArgsSchema *jsonschema.Schema
	// IsMCP marks a tool routed through an MCP client rather than executed
	// in-process.
	IsMCP bool
	// MCPServer names the MCP server definition (see mcpclient.ServerConfig)
	// this tool is hosted on. Empty when IsMCP is false.
	MCPServer string
}

// Executor runs a validated tool call and returns its observation text. The
// context carries the per-turn deadline and tracing span.
type Executor interface {
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(ctx context.Context, args map[string]any) (string, error)

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, args map[string]any) (string, error) {
	return f(ctx, args)
}

// CompileSchema compiles a JSON Schema document (as raw JSON bytes) for use
// as a Definition.ArgsSchema. A nil/empty schemaJSON compiles to a schema
// that accepts any object, mirroring tools with no required arguments.
func CompileSchema(name string, schemaJSON []byte) (*jsonschema.Schema, error) {
	var doc any = map[string]any{}
	if len(schemaJSON) > 0 {
		if err := json.Unmarshal(schemaJSON, &doc); err != nil {
			return nil, fmt.Errorf("tools: unmarshal schema for %s: %w", name, err)
		}
	}
	c := jsonschema.NewCompiler()
	resourceID := name + ".schema.json"
	if err := c.AddResource(resourceID, doc); err != nil {
		return nil, fmt.Errorf("tools: add schema resource for %s: %w", name, err)
	}
	schema, err := c.Compile(resourceID)
	if err != nil {
		return nil, fmt.Errorf("tools: compile schema for %s: %w", name, err)
	}
	return schema, nil
}

// ValidateArgs checks args against def's schema, returning a descriptive
// error on mismatch. A nil schema passes everything.
func (d *Definition) ValidateArgs(args map[string]any) error {
	if d.ArgsSchema == nil {
		return nil
	}
	// jsonschema validates against decoded JSON values (map[string]any with
	// float64 numbers), so round-trip through JSON rather than passing args
	// as-is; this also catches types the schema compiler cannot otherwise see.
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("tools: marshal args for %s: %w", d.Name, err)
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("tools: unmarshal args for %s: %w", d.Name, err)
	}
	if err := d.ArgsSchema.Validate(decoded); err != nil {
		return fmt.Errorf("tools: invalid arguments for %s: %w", d.Name, err)
	}
	return nil
}
