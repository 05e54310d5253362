package mcpclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRepairPrompt(t *testing.T) {
	t.Parallel()

	prompt := BuildRepairPrompt("get_weather_forecast", "missing required field 'latitude'", `{"latitude":40.7,"longitude":-74.0}`, `{"required":["latitude","longitude"]}`)

	assert.Contains(t, prompt, "Operation: get_weather_forecast")
	assert.Contains(t, prompt, "Schema: {\"required\":[\"latitude\",\"longitude\"]}")
	assert.Contains(t, prompt, "Error: missing required field 'latitude'")
	assert.Contains(t, prompt, `Example params: {"latitude":40.7,"longitude":-74.0}`)
}

func TestBuildRepairPrompt_NoSchema(t *testing.T) {
	t.Parallel()

	prompt := BuildRepairPrompt("op", "bad args", "{}", "")
	assert.NotContains(t, prompt, "Schema:")
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	assert.False(t, isRetryable(&invalidParamsError{message: "bad args"}))
	assert.True(t, isRetryable(assert.AnError))
}

func TestBackoffFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1e9, float64(backoffFor(1)))
	assert.Equal(t, 2e9, float64(backoffFor(2)))
	assert.LessOrEqual(t, float64(backoffFor(10)), 10e9)
}
