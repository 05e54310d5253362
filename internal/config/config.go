// Package config loads the environment-variable configuration table (C7,
// §6) that wires together the Temporal connection, the LLM binding, MCP
// routing, and tool-set selection. Defaults mirror
// original_source/shared/config.py where the distilled variable table is
// silent on a value.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is the fully-resolved process configuration, read once at startup.
type Config struct {
	Temporal Temporal
	Worker   Worker
	LLM      LLM
	MCP      MCP
	Tools    Tools
}

// Temporal holds the connection settings for the workflow engine.
type Temporal struct {
	HostPort  string
	Namespace string
}

// Worker holds the fixed task queue name workers register against.
type Worker struct {
	TaskQueue string
}

// LLM holds the model binding settings; APIKey is resolved from
// "<Provider>_API_KEY" (e.g. ANTHROPIC_API_KEY) once Provider is known.
type LLM struct {
	Provider    string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	APIKey      string
}

// MCPServer is one per-service MCP routing entry, keyed by service name
// (e.g. "weather" -> MCP_WEATHER_SERVER_HOST/PORT/URL).
type MCPServer struct {
	Host string
	Port string
	URL  string
}

// MCP holds the MCP routing configuration.
type MCP struct {
	URL      string
	UseProxy bool
	Servers  map[string]MCPServer
}

// Tools holds tool-set selection settings.
type Tools struct {
	Mock bool
	Set  string
}

// mcpServiceNames enumerates the per-service MCP_<SERVICE>_SERVER_* env
// groups this deployment expects; original_source/mcp_servers lists these
// as the concrete domain services fronted by MCP.
var mcpServiceNames = []string{"weather", "events", "commerce"}

// Load reads the full §6 environment variable table, applying defaults
// where the table is silent.
func Load() (*Config, error) {
	provider := envOr("LLM_PROVIDER", "anthropic")

	cfg := &Config{
		Temporal: Temporal{
			HostPort:  envOr("TEMPORAL_HOST", "localhost:7233"),
			Namespace: envOr("TEMPORAL_NAMESPACE", "default"),
		},
		Worker: Worker{
			TaskQueue: envOr("WORKER_TASK_QUEUE", "durable-ai-agent-tasks"),
		},
		LLM: LLM{
			Provider:    provider,
			Model:       envOr("LLM_MODEL", envOr(strings.ToUpper(provider)+"_MODEL", "claude-sonnet-4-5")),
			BaseURL:     os.Getenv("LLM_BASE_URL"),
			Temperature: envFloatOr("LLM_TEMPERATURE", 0.7),
			MaxTokens:   envIntOr("LLM_MAX_TOKENS", 4096),
			APIKey:      os.Getenv(strings.ToUpper(provider) + "_API_KEY"),
		},
		MCP: MCP{
			URL:      envOr("MCP_URL", "http://localhost:8000"),
			UseProxy: envBoolOr("MCP_USE_PROXY", false),
			Servers:  loadMCPServers(),
		},
		Tools: Tools{
			Mock: envBoolOr("TOOLS_MOCK", false),
			Set:  envOr("TOOL_SET", "default"),
		},
	}

	if cfg.LLM.APIKey == "" && !cfg.Tools.Mock {
		return nil, fmt.Errorf("config: %s_API_KEY is required unless TOOLS_MOCK=true", strings.ToUpper(provider))
	}

	return cfg, nil
}

func loadMCPServers() map[string]MCPServer {
	servers := make(map[string]MCPServer, len(mcpServiceNames))
	for _, name := range mcpServiceNames {
		prefix := "MCP_" + strings.ToUpper(name) + "_SERVER_"
		server := MCPServer{
			Host: os.Getenv(prefix + "HOST"),
			Port: os.Getenv(prefix + "PORT"),
			URL:  os.Getenv(prefix + "URL"),
		}
		if server.Host != "" || server.Port != "" || server.URL != "" {
			servers[name] = server
		}
	}
	return servers
}

func envOr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOr(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func envFloatOr(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func envBoolOr(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}
