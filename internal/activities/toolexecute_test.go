package activities

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retroryan/durable-ai-agent/internal/mcpclient"
	"github.com/retroryan/durable-ai-agent/internal/model"
	"github.com/retroryan/durable-ai-agent/internal/tools"
)

// fakeMCPClient lets tests control the outcome of ExecuteTool without
// dialing a real MCP server.
type fakeMCPClient struct {
	result   string
	err      error
	lastName string
}

func (f *fakeMCPClient) ListTools(context.Context, mcpclient.ServerConfig) ([]mcpclient.ToolDescriptor, error) {
	return nil, nil
}

func (f *fakeMCPClient) GetResource(context.Context, mcpclient.ServerConfig, string) (string, error) {
	return "", nil
}

func (f *fakeMCPClient) ExecuteTool(_ context.Context, _ mcpclient.ServerConfig, name string, _ map[string]any, _ time.Duration, _ int, _ func(string)) (string, error) {
	f.lastName = name
	return f.result, f.err
}

func TestToolExecute_UnknownToolWritesObservation(t *testing.T) {
	t.Parallel()

	reg := tools.NewRegistry()
	a := &ToolActivities{Registry: reg}

	var traj model.Trajectory
	traj.Append(model.TrajectoryStep{ToolName: "frobnicate"})

	env := newTestEnv(t)
	env.RegisterActivity(a.ToolExecute)
	val, err := env.ExecuteActivity(a.ToolExecute, ToolExecutionRequest{ToolName: "frobnicate", Trajectory: traj, StepIndex: 0})
	require.NoError(t, err)

	var result ToolExecutionResult
	require.NoError(t, val.Get(&result))
	assert.False(t, result.Success)
	last, ok := result.Trajectory.Last()
	require.True(t, ok)
	assert.Equal(t, "Error: Unknown tool frobnicate", last.Observation)
}

func TestToolExecute_InvalidArgsWritesObservationWithoutRetry(t *testing.T) {
	t.Parallel()

	schema, err := tools.CompileSchema("get_weather", []byte(`{"type":"object","required":["city"],"properties":{"city":{"type":"string"}}}`))
	require.NoError(t, err)

	reg := tools.NewRegistry()
	require.NoError(t, reg.Register(tools.Definition{Name: "get_weather", ArgsSchema: schema}, tools.ExecutorFunc(func(context.Context, map[string]any) (string, error) {
		return "sunny", nil
	})))
	a := &ToolActivities{Registry: reg}

	var traj model.Trajectory
	traj.Append(model.TrajectoryStep{ToolName: "get_weather"})

	env := newTestEnv(t)
	env.RegisterActivity(a.ToolExecute)
	val, err := env.ExecuteActivity(a.ToolExecute, ToolExecutionRequest{ToolName: "get_weather", ToolArgs: map[string]any{}, Trajectory: traj, StepIndex: 0})
	require.NoError(t, err)

	var result ToolExecutionResult
	require.NoError(t, val.Get(&result))
	assert.False(t, result.Success)
	last, ok := result.Trajectory.Last()
	require.True(t, ok)
	assert.Contains(t, last.Observation, "Error:")
}

func TestToolExecute_MCPInvalidParamsReturnsRepairPromptAsObservation(t *testing.T) {
	t.Parallel()

	schema, err := tools.CompileSchema("get_forecast", []byte(`{"type":"object"}`))
	require.NoError(t, err)

	reg := tools.NewRegistry()
	require.NoError(t, reg.Register(tools.Definition{Name: "get_forecast", ArgsSchema: schema, IsMCP: true, MCPServer: "weather"}, nil))

	servers := mcpclient.NewServerRegistry(false)
	servers.AddServer(mcpclient.ServerConfig{Name: "weather", Transport: mcpclient.TransportHTTP}, "get_forecast")

	repairErr := &mcpclient.RetryableError{Prompt: "Redo the operation now with valid parameters."}
	a := &ToolActivities{Registry: reg, MCP: &fakeMCPClient{err: repairErr}, Servers: servers}

	var traj model.Trajectory
	traj.Append(model.TrajectoryStep{ToolName: "get_forecast"})

	env := newTestEnv(t)
	env.RegisterActivity(a.ToolExecute)
	val, err := env.ExecuteActivity(a.ToolExecute, ToolExecutionRequest{ToolName: "get_forecast", ToolArgs: map[string]any{}, Trajectory: traj, StepIndex: 0})
	require.NoError(t, err)

	var result ToolExecutionResult
	require.NoError(t, val.Get(&result))
	assert.False(t, result.Success)
	last, ok := result.Trajectory.Last()
	require.True(t, ok)
	assert.Equal(t, repairErr.Prompt, last.Observation)
}

func TestToolExecute_MCPSuccessUsesWireToolName(t *testing.T) {
	t.Parallel()

	reg := tools.NewRegistry()
	require.NoError(t, reg.Register(tools.Definition{Name: "get_forecast", IsMCP: true, MCPServer: "weather"}, nil))

	servers := mcpclient.NewServerRegistry(true)
	servers.AddServer(mcpclient.ServerConfig{Name: "weather", Transport: mcpclient.TransportHTTP}, "get_forecast")

	fake := &fakeMCPClient{result: "sunny"}
	a := &ToolActivities{Registry: reg, MCP: fake, Servers: servers}

	var traj model.Trajectory
	traj.Append(model.TrajectoryStep{ToolName: "get_forecast"})

	env := newTestEnv(t)
	env.RegisterActivity(a.ToolExecute)
	val, err := env.ExecuteActivity(a.ToolExecute, ToolExecutionRequest{ToolName: "get_forecast", ToolArgs: map[string]any{}, Trajectory: traj, StepIndex: 0})
	require.NoError(t, err)

	var result ToolExecutionResult
	require.NoError(t, val.Get(&result))
	assert.True(t, result.Success)
	last, ok := result.Trajectory.Last()
	require.True(t, ok)
	assert.Equal(t, "sunny", last.Observation)
	assert.Equal(t, "weather_get_forecast", fake.lastName)
}

func TestToolExecute_LocalToolSuccess(t *testing.T) {
	t.Parallel()

	reg := tools.NewRegistry()
	require.NoError(t, reg.Register(tools.Definition{Name: "get_weather"}, tools.ExecutorFunc(func(context.Context, map[string]any) (string, error) {
		return "sunny and 72F", nil
	})))
	a := &ToolActivities{Registry: reg}

	var traj model.Trajectory
	traj.Append(model.TrajectoryStep{ToolName: "get_weather"})

	env := newTestEnv(t)
	env.RegisterActivity(a.ToolExecute)
	val, err := env.ExecuteActivity(a.ToolExecute, ToolExecutionRequest{ToolName: "get_weather", ToolArgs: map[string]any{}, Trajectory: traj, StepIndex: 0})
	require.NoError(t, err)

	var result ToolExecutionResult
	require.NoError(t, val.Get(&result))
	assert.True(t, result.Success)
	last, ok := result.Trajectory.Last()
	require.True(t, ok)
	assert.Equal(t, "sunny and 72F", last.Observation)
}
