package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/retroryan/durable-ai-agent/internal/toolerrors"
)

// Manifest is the YAML shape an operator can drop on disk to declare a tool
// set without a rebuild, additive to the compiled-in RegisterToolSet
// constructors. Pointed at by the TOOL_SET env var when it names a ".yaml"
// file rather than a registered tool set name.
type Manifest struct {
	Name  string            `yaml:"name"`
	Tools []ManifestToolDef `yaml:"tools"`
}

// ManifestToolDef is one tool entry in a Manifest.
type ManifestToolDef struct {
	Name        string `yaml:"name"`
	Module      string `yaml:"module"`
	Description string `yaml:"description"`
	// ArgsSchema is an inline JSON Schema document; stored as a generic map
	// so it can be re-marshaled to JSON for CompileSchema.
	ArgsSchema map[string]any `yaml:"args_schema"`
	IsMCP      bool           `yaml:"is_mcp"`
	MCPServer  string         `yaml:"mcp_server"`
}

// LoadManifest parses a tool-set manifest file from path.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("tools: read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("tools: parse manifest %s: %w", path, err)
	}
	return m, nil
}

// NewRegistryFromManifest builds a Registry from a parsed Manifest. The
// tool-execution activity normally dispatches MCP tools directly through the
// MCP client, never through Registry.Execute; calling Execute on one
// directly is only permitted under mock mode (where it returns a stub
// result for local testing), matching the documented mock/MCP invariant.
// Outside mock mode that call is an invariant violation reported via
// toolerrors.InvariantViolation. A non-MCP manifest tool has no in-process
// implementation available at this layer (concrete domain tool bodies are
// built by compiled-in Builders, not manifests), so its Executor always
// returns an error describing that, unless mock is true, in which case it
// echoes its arguments back as a synthetic observation.
func NewRegistryFromManifest(m Manifest, mock bool) (*Registry, error) {
	reg := NewRegistry()
	for _, def := range m.Tools {
		// A tool without args_schema passes nil, not the JSON "null" a nil map
		// marshals to, so CompileSchema yields its accept-anything schema.
		var schemaJSON []byte
		if def.ArgsSchema != nil {
			raw, err := json.Marshal(def.ArgsSchema)
			if err != nil {
				return nil, fmt.Errorf("tools: marshal args_schema for %s: %w", def.Name, err)
			}
			schemaJSON = raw
		}
		schema, err := CompileSchema(def.Name, schemaJSON)
		if err != nil {
			return nil, err
		}
		definition := Definition{
			Name:        def.Name,
			Module:      def.Module,
			Description: def.Description,
			ArgsSchema:  schema,
			IsMCP:       def.IsMCP,
			MCPServer:   def.MCPServer,
		}
		if err := reg.Register(definition, manifestExecutor(def, mock)); err != nil {
			return nil, err
		}
	}
	reg.SetToolSetName(m.Name)
	return reg, nil
}

func manifestExecutor(def ManifestToolDef, mock bool) Executor {
	if def.IsMCP {
		if mock {
			return ExecutorFunc(func(ctx context.Context, args map[string]any) (string, error) {
				return fmt.Sprintf("mock result for %s: %v", def.Name, args), nil
			})
		}
		return ExecutorFunc(func(ctx context.Context, args map[string]any) (string, error) {
			return "", &toolerrors.InvariantViolation{
				Detail: fmt.Sprintf("manifest MCP tool %s must be dispatched via the MCP client, not Registry.Execute, outside mock mode", def.Name),
			}
		})
	}
	if mock {
		return ExecutorFunc(func(ctx context.Context, args map[string]any) (string, error) {
			return fmt.Sprintf("mock result for %s: %v", def.Name, args), nil
		})
	}
	return ExecutorFunc(func(ctx context.Context, args map[string]any) (string, error) {
		return "", fmt.Errorf("tools: manifest tool %s has no live executor wired", def.Name)
	})
}
