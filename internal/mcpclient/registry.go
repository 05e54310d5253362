package mcpclient

import "fmt"

// ServerRegistry resolves tool names to the MCP server that hosts them, so
// the tool-execution activity can dispatch execute_tool(server, tool_name,
// args, ...) without each tool definition repeating its server's connection
// details.
type ServerRegistry struct {
	servers  map[string]ServerConfig
	byTool   map[string]string // tool name -> server name
	useProxy bool
}

// NewServerRegistry returns an empty ServerRegistry. useProxy configures
// WireToolName to apply the mounting-proxy tool-naming convention, matching
// the MCP_USE_PROXY deployment setting.
func NewServerRegistry(useProxy bool) *ServerRegistry {
	return &ServerRegistry{
		servers:  make(map[string]ServerConfig),
		byTool:   make(map[string]string),
		useProxy: useProxy,
	}
}

// AddServer registers server and the tool names it hosts.
func (r *ServerRegistry) AddServer(server ServerConfig, toolNames ...string) {
	r.servers[server.Name] = server
	for _, name := range toolNames {
		r.byTool[name] = server.Name
	}
}

// ResolveToolName returns the ServerConfig hosting toolName.
func (r *ServerRegistry) ResolveToolName(toolName string) (ServerConfig, error) {
	serverName, ok := r.byTool[toolName]
	if !ok {
		return ServerConfig{}, fmt.Errorf("mcpclient: no server registered for tool %q", toolName)
	}
	server, ok := r.servers[serverName]
	if !ok {
		return ServerConfig{}, fmt.Errorf("mcpclient: server %q not registered", serverName)
	}
	return server, nil
}

// Server returns the named server's configuration.
func (r *ServerRegistry) Server(name string) (ServerConfig, bool) {
	server, ok := r.servers[name]
	return server, ok
}

// WireToolName resolves toolName to its hosting server and the wire-level
// tool name ExecuteTool should be called with, applying the registry's
// proxy-naming convention via the package-level ResolveToolName.
func (r *ServerRegistry) WireToolName(toolName string) (ServerConfig, string, error) {
	server, err := r.ResolveToolName(toolName)
	if err != nil {
		return ServerConfig{}, "", err
	}
	return server, ResolveToolName(r.useProxy, server.Name, toolName), nil
}
