// Package reactagent implements the per-turn agentic sub-workflow (C4): a
// durable ReAct loop that alternates reasoning, tool execution, and
// observation until the reasoning activity emits a "finish" action or the
// iteration cap is reached, then synthesizes a single user-facing answer.
//
// It is started as a Temporal child workflow from the conversation workflow
// (C5), one child per user turn.
package reactagent

import (
	"fmt"
	"strings"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/retroryan/durable-ai-agent/internal/activities"
	"github.com/retroryan/durable-ai-agent/internal/model"
)

// Activity names, matching the worker registration table in §6.
const (
	ActivityReactStep    = "react_step"
	ActivityToolExecute  = "tool_execute"
	ActivityExtractFinal = "extract_final"
)

const maxIterations = 5

// turnState names the per-turn state machine's states purely for replay-safe
// logging; it never changes control flow.
type turnState string

const (
	stateReasoning  turnState = "Reasoning"
	stateActing     turnState = "Acting"
	stateObserving  turnState = "Observing"
	stateExtracting turnState = "Extracting"
	stateDone       turnState = "Done"
)

// Input carries the arguments for one agent turn.
type Input struct {
	UserMessage string
	UserName    string
	QueryCount  int
}

// Result is what the sub-workflow returns to its parent conversation
// workflow: the user-visible message plus bookkeeping the parent surfaces
// through its query handlers.
type Result struct {
	Message      string
	ToolUseCount int
	QueryCount   int
	Trajectory   model.Trajectory
}

var activityOptions = workflow.ActivityOptions{
	StartToCloseTimeout: 30 * time.Second,
	RetryPolicy: &temporal.RetryPolicy{
		InitialInterval:    time.Second,
		MaximumInterval:    10 * time.Second,
		BackoffCoefficient: 2.0,
		MaximumAttempts:    3,
	},
}

// AgenticSubWorkflow runs one ReAct turn: Reasoning -> Acting -> Observing,
// looping back to Reasoning until the agent picks "finish" or the iteration
// cap is hit, then Extracting a final answer before going Done.
func AgenticSubWorkflow(ctx workflow.Context, input Input) (Result, error) {
	logger := workflow.GetLogger(ctx)
	ctx = workflow.WithActivityOptions(ctx, activityOptions)

	var trajectory model.Trajectory
	var toolsUsed []string
	iteration := 1

	logState := func(s turnState) {
		logger.Debug("agentic turn state transition", "state", string(s), "iteration", iteration)
	}

	for {
		logState(stateReasoning)
		var stepResult activities.ReactStepResult
		err := workflow.ExecuteActivity(ctx, ActivityReactStep, activities.ReactStepInput{
			UserQuery:  input.UserMessage,
			Iteration:  iteration,
			Trajectory: trajectory,
			UserName:   input.UserName,
		}).Get(ctx, &stepResult)
		if err != nil {
			// Exhausted retries on a transient reasoning failure: stop the
			// loop here and let extraction run over whatever trajectory we
			// have, rather than failing the whole turn.
			logger.Warn("react step failed after retries, stopping loop", "error", err)
			break
		}
		trajectory = stepResult.Trajectory

		if stepResult.ToolName == "finish" {
			if last, ok := trajectory.Last(); ok && last.Observation == "" {
				trajectory.SetObservation(trajectory.Len()-1, "Completed.")
			}
			break
		}

		logState(stateActing)
		stepIndex := trajectory.Len() - 1
		var toolResult activities.ToolExecutionResult
		err = workflow.ExecuteActivity(ctx, ActivityToolExecute, activities.ToolExecutionRequest{
			ToolName:   stepResult.ToolName,
			ToolArgs:   stepResult.ToolArgs,
			Trajectory: trajectory,
			StepIndex:  stepIndex,
		}).Get(ctx, &toolResult)
		if err != nil {
			// Transient failure survived the activity's own retry policy:
			// per the propagation rule, convert it into a final observation
			// for this step instead of failing the turn.
			logger.Warn("tool execute failed after retries, recording as observation", "tool_name", stepResult.ToolName, "error", err)
			trajectory.SetObservation(stepIndex, fmt.Sprintf("Error: %s", err))
		} else {
			trajectory = toolResult.Trajectory
		}
		logState(stateObserving)

		toolsUsed = append(toolsUsed, stepResult.ToolName)
		iteration++
		if iteration > maxIterations {
			logger.Warn("agentic turn hit iteration cap", "max_iterations", maxIterations)
			break
		}
	}

	logState(stateExtracting)
	var final activities.ExtractFinalResult
	if err := workflow.ExecuteActivity(ctx, ActivityExtractFinal, activities.ExtractFinalInput{
		Trajectory: trajectory,
		UserQuery:  input.UserMessage,
		UserName:   input.UserName,
	}).Get(ctx, &final); err != nil {
		final = activities.ExtractFinalResult{Error: err.Error()}
	}

	message := composeMessage(final, trajectory)
	logState(stateDone)

	return Result{
		Message:      message,
		ToolUseCount: len(toolsUsed),
		QueryCount:   input.QueryCount,
		Trajectory:   trajectory,
	}, nil
}

// composeMessage picks the user-visible string for this turn: a successful
// extraction answer wins, otherwise the most recent non-error, non-Completed
// observation, otherwise "No result found" — overridden by an
// "Error: {detail}" message if extraction itself failed.
func composeMessage(final activities.ExtractFinalResult, traj model.Trajectory) string {
	if final.Error != "" {
		return fmt.Sprintf("Error: %s", final.Error)
	}
	if final.Answer != "" {
		return final.Answer
	}
	for i := traj.Len() - 1; i >= 0; i-- {
		step := traj.Steps[i]
		if step.Observation == "" || step.Observation == "Completed." {
			continue
		}
		if strings.HasPrefix(step.Observation, "Error:") {
			continue
		}
		return step.Observation
	}
	return "No result found"
}
