package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		orig, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, orig)
			}
		})
	}
}

func TestLoad_DefaultsAndMockBypassesAPIKeyRequirement(t *testing.T) {
	clearEnv(t, "TEMPORAL_HOST", "TEMPORAL_NAMESPACE", "WORKER_TASK_QUEUE", "LLM_MODEL", "ANTHROPIC_API_KEY", "TOOLS_MOCK")
	os.Setenv("TOOLS_MOCK", "true")
	t.Cleanup(func() { os.Unsetenv("TOOLS_MOCK") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "localhost:7233", cfg.Temporal.HostPort)
	assert.Equal(t, "default", cfg.Temporal.Namespace)
	assert.Equal(t, "durable-ai-agent-tasks", cfg.Worker.TaskQueue)
	assert.True(t, cfg.Tools.Mock)
}

func TestLoad_RequiresAPIKeyWhenNotMocked(t *testing.T) {
	clearEnv(t, "ANTHROPIC_API_KEY", "TOOLS_MOCK")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_ReadsPerServiceMCPRouting(t *testing.T) {
	clearEnv(t, "TOOLS_MOCK", "ANTHROPIC_API_KEY", "MCP_WEATHER_SERVER_HOST", "MCP_WEATHER_SERVER_PORT")
	os.Setenv("TOOLS_MOCK", "true")
	os.Setenv("MCP_WEATHER_SERVER_HOST", "weather.internal")
	os.Setenv("MCP_WEATHER_SERVER_PORT", "9000")
	t.Cleanup(func() {
		os.Unsetenv("TOOLS_MOCK")
		os.Unsetenv("MCP_WEATHER_SERVER_HOST")
		os.Unsetenv("MCP_WEATHER_SERVER_PORT")
	})

	cfg, err := Load()
	require.NoError(t, err)
	server, ok := cfg.MCP.Servers["weather"]
	require.True(t, ok)
	assert.Equal(t, "weather.internal", server.Host)
	assert.Equal(t, "9000", server.Port)
}
