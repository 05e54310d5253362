package tools

import (
	"fmt"
	"strings"
)

// Builder constructs and registers every tool belonging to one named set
// (e.g. "agriculture", "ecommerce", "events") into reg. mock selects between
// mock and live Executors where a tool supports both, matching the original
// tool set factories' mock_results flag.
type Builder func(reg *Registry, mock bool) error

// builders holds every known tool set by name, populated by each domain
// package's init() via RegisterToolSet. Kept package-private so tool sets can only
// be added at compile time, mirroring the original's static TOOL_SET_MAP.
var builders = make(map[string]Builder)

// RegisterToolSet makes a tool set available to NewRegistryForToolSet under
// name. Intended to be called from an init() function in a package that
// defines a domain's tools.
func RegisterToolSet(name string, build Builder) {
	if _, exists := builders[name]; exists {
		panic(fmt.Sprintf("tools: tool set %q already registered", name))
	}
	builders[name] = build
}

// NewRegistryForToolSet builds a Registry populated with every tool in the
// named set, mirroring create_tool_set_registry. mock controls whether
// registered tools execute against mocked or live backends.
func NewRegistryForToolSet(name string, mock bool) (*Registry, error) {
	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("tools: unknown tool set %q", name)
	}
	reg := NewRegistry()
	if err := build(reg, mock); err != nil {
		return nil, fmt.Errorf("tools: build tool set %q: %w", name, err)
	}
	reg.SetToolSetName(name)
	return reg, nil
}

// NewRegistryForToolSetOrManifest builds a Registry for name: a name ending
// in ".yaml" or ".yml" is loaded as a Manifest from disk; anything else is
// resolved through the compiled-in Builder registry via
// NewRegistryForToolSet. This lets an operator swap in a manifest-declared
// tool set via TOOL_SET without a rebuild, per the original's
// create_tool_set_registry plus the manifest-file addition.
func NewRegistryForToolSetOrManifest(name string, mock bool) (*Registry, error) {
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		manifest, err := LoadManifest(name)
		if err != nil {
			return nil, err
		}
		return NewRegistryFromManifest(manifest, mock)
	}
	return NewRegistryForToolSet(name, mock)
}

// KnownToolSets returns the names of every tool set registered via
// RegisterToolSet, for diagnostics and config validation.
func KnownToolSets() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	return names
}
