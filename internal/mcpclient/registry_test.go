package mcpclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerRegistry_ResolveToolName(t *testing.T) {
	t.Parallel()

	reg := NewServerRegistry(false)
	reg.AddServer(ServerConfig{Name: "agriculture", Transport: TransportStdio, Command: "agriculture-mcp"}, "get_weather_forecast", "get_historical_weather")

	server, err := reg.ResolveToolName("get_weather_forecast")
	require.NoError(t, err)
	assert.Equal(t, "agriculture", server.Name)

	_, err = reg.ResolveToolName("unknown_tool")
	require.Error(t, err)
}

func TestServerRegistry_WireToolName(t *testing.T) {
	t.Parallel()

	direct := NewServerRegistry(false)
	direct.AddServer(ServerConfig{Name: "agriculture", Transport: TransportStdio, Command: "agriculture-mcp"}, "get_weather_forecast")
	server, wireName, err := direct.WireToolName("get_weather_forecast")
	require.NoError(t, err)
	assert.Equal(t, "agriculture", server.Name)
	assert.Equal(t, "get_weather_forecast", wireName)

	proxied := NewServerRegistry(true)
	proxied.AddServer(ServerConfig{Name: "agriculture", Transport: TransportStdio, Command: "agriculture-mcp"}, "get_weather_forecast")
	server, wireName, err = proxied.WireToolName("get_weather_forecast")
	require.NoError(t, err)
	assert.Equal(t, "agriculture", server.Name)
	assert.Equal(t, "agriculture_get_weather_forecast", wireName)

	_, _, err = proxied.WireToolName("unknown_tool")
	require.Error(t, err)
}
