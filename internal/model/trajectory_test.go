package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrajectory_AppendAndSetObservation(t *testing.T) {
	t.Parallel()

	var traj Trajectory
	idx := traj.Append(TrajectoryStep{
		Thought:  "I should check the weather",
		ToolName: "get_weather",
		ToolArgs: map[string]any{"location": "Seattle"},
	})
	require.Equal(t, 0, idx)

	traj.SetObservation(idx, "72F and sunny")

	last, ok := traj.Last()
	require.True(t, ok)
	assert.Equal(t, "72F and sunny", last.Observation)
	assert.Equal(t, 1, traj.Len())
}

func TestTrajectory_FlatKeysMatchesIterationConvention(t *testing.T) {
	t.Parallel()

	var traj Trajectory
	traj.Append(TrajectoryStep{Thought: "t0", ToolName: "get_weather", ToolArgs: map[string]any{"location": "Ames"}})
	traj.SetObservation(0, "obs0")
	traj.Append(TrajectoryStep{Error: "boom"})

	flat := traj.FlatKeys()
	assert.Equal(t, "t0", flat["thought_0"])
	assert.Equal(t, "get_weather", flat["tool_name_0"])
	assert.Equal(t, "obs0", flat["observation_0"])
	assert.Equal(t, "boom", flat["error_1"])
	_, hasThought1 := flat["thought_1"]
	assert.False(t, hasThought1)
}
