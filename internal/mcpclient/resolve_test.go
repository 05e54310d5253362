package mcpclient

import "testing"

func TestResolveToolName(t *testing.T) {
	t.Parallel()

	if got := ResolveToolName(false, "agriculture", "get_weather_forecast"); got != "get_weather_forecast" {
		t.Errorf("useProxy=false: got %q, want bare tool name", got)
	}
	if got := ResolveToolName(true, "agriculture", "get_weather_forecast"); got != "agriculture_get_weather_forecast" {
		t.Errorf("useProxy=true: got %q, want mounted name", got)
	}
}
