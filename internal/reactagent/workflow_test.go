package reactagent

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"github.com/retroryan/durable-ai-agent/internal/activities"
	"github.com/retroryan/durable-ai-agent/internal/model"
)

func TestAgenticSubWorkflow_SingleTurnFinishOnFirstStep(t *testing.T) {
	suite := &testsuite.WorkflowTestSuite{}
	env := suite.NewTestWorkflowEnvironment()

	env.OnActivity(ActivityReactStep, mock.Anything, mock.Anything).Return(
		func(_ interface{}, _ activities.ReactStepInput) (activities.ReactStepResult, error) {
			var traj model.Trajectory
			traj.Append(model.TrajectoryStep{Thought: "done", ToolName: "finish", ToolArgs: map[string]any{}})
			return activities.ReactStepResult{Trajectory: traj, ToolName: "finish", ToolArgs: map[string]any{}}, nil
		})
	env.OnActivity(ActivityExtractFinal, mock.Anything, mock.Anything).Return(activities.ExtractFinalResult{Answer: "Hello."}, nil)

	env.ExecuteWorkflow(AgenticSubWorkflow, Input{UserMessage: "hi", QueryCount: 1})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result Result
	require.NoError(t, env.GetWorkflowResult(&result))
	require.Equal(t, "Hello.", result.Message)
	require.Equal(t, 0, result.ToolUseCount)
	require.Equal(t, 1, result.Trajectory.Len())
}

func TestAgenticSubWorkflow_OneToolCallThenFinish(t *testing.T) {
	suite := &testsuite.WorkflowTestSuite{}
	env := suite.NewTestWorkflowEnvironment()

	env.OnActivity(ActivityReactStep, mock.Anything, mock.MatchedBy(func(in activities.ReactStepInput) bool {
		return in.Trajectory.Len() == 0
	})).Return(func(_ interface{}, in activities.ReactStepInput) (activities.ReactStepResult, error) {
		traj := in.Trajectory
		traj.Append(model.TrajectoryStep{Thought: "need weather", ToolName: "get_weather", ToolArgs: map[string]any{"city": "Ames"}})
		return activities.ReactStepResult{Trajectory: traj, ToolName: "get_weather", ToolArgs: map[string]any{"city": "Ames"}}, nil
	}).Once()
	env.OnActivity(ActivityReactStep, mock.Anything, mock.MatchedBy(func(in activities.ReactStepInput) bool {
		return in.Trajectory.Len() == 1
	})).Return(func(_ interface{}, in activities.ReactStepInput) (activities.ReactStepResult, error) {
		traj := in.Trajectory
		traj.Append(model.TrajectoryStep{Thought: "done", ToolName: "finish", ToolArgs: map[string]any{}})
		return activities.ReactStepResult{Trajectory: traj, ToolName: "finish", ToolArgs: map[string]any{}}, nil
	}).Once()
	env.OnActivity(ActivityToolExecute, mock.Anything, mock.Anything).Return(
		func(_ interface{}, req activities.ToolExecutionRequest) (activities.ToolExecutionResult, error) {
			traj := req.Trajectory
			traj.SetObservation(req.StepIndex, "Forecast: sunny")
			return activities.ToolExecutionResult{Success: true, Trajectory: traj}, nil
		})
	env.OnActivity(ActivityExtractFinal, mock.Anything, mock.Anything).Return(activities.ExtractFinalResult{Answer: "It will be sunny."}, nil)

	env.ExecuteWorkflow(AgenticSubWorkflow, Input{UserMessage: "weather?"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result Result
	require.NoError(t, env.GetWorkflowResult(&result))
	require.Equal(t, "It will be sunny.", result.Message)
	require.Equal(t, 1, result.ToolUseCount)
}

func TestAgenticSubWorkflow_IterationOverflow(t *testing.T) {
	suite := &testsuite.WorkflowTestSuite{}
	env := suite.NewTestWorkflowEnvironment()

	env.OnActivity(ActivityReactStep, mock.Anything, mock.Anything).Return(
		func(_ interface{}, in activities.ReactStepInput) (activities.ReactStepResult, error) {
			traj := in.Trajectory
			traj.Append(model.TrajectoryStep{Thought: "again", ToolName: "get_weather", ToolArgs: map[string]any{}})
			return activities.ReactStepResult{Trajectory: traj, ToolName: "get_weather", ToolArgs: map[string]any{}}, nil
		})
	env.OnActivity(ActivityToolExecute, mock.Anything, mock.Anything).Return(
		func(_ interface{}, req activities.ToolExecutionRequest) (activities.ToolExecutionResult, error) {
			traj := req.Trajectory
			traj.SetObservation(req.StepIndex, "still looking")
			return activities.ToolExecutionResult{Success: true, Trajectory: traj}, nil
		})
	env.OnActivity(ActivityExtractFinal, mock.Anything, mock.Anything).Return(activities.ExtractFinalResult{Answer: "Gave up after 5 tries."}, nil)

	env.ExecuteWorkflow(AgenticSubWorkflow, Input{UserMessage: "weather?"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result Result
	require.NoError(t, env.GetWorkflowResult(&result))
	require.Equal(t, 5, result.ToolUseCount)
	require.Equal(t, 5, result.Trajectory.Len())
}
