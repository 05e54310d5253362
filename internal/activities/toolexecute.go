package activities

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"

	"github.com/retroryan/durable-ai-agent/internal/mcpclient"
	"github.com/retroryan/durable-ai-agent/internal/model"
	"github.com/retroryan/durable-ai-agent/internal/telemetry"
	"github.com/retroryan/durable-ai-agent/internal/toolerrors"
	"github.com/retroryan/durable-ai-agent/internal/tools"
)

// ToolExecutionRequest carries the arguments for one tool invocation.
type ToolExecutionRequest struct {
	ToolName      string
	ToolArgs      map[string]any
	Trajectory    model.Trajectory
	StepIndex     int
	CurrentTurnID string
}

// ToolExecutionResult reports the outcome of a tool invocation. Success is
// false for unknown-tool, invalid-argument and invalid-parameter failures;
// Error carries the human-readable cause in those cases, and Trajectory has
// its StepIndex observation filled in so the agentic loop can keep reasoning
// about the failure on the next iteration. A transient execution failure is
// instead returned as the activity's error, with a zero result.
type ToolExecutionResult struct {
	Success    bool
	Trajectory model.Trajectory
	Error      string
}

// ToolActivities bundles the registry and MCP client the tool-execution
// activity dispatches against. Metrics and Tracer default to no-ops when
// left nil, so tests and lightweight callers don't need to wire telemetry.
type ToolActivities struct {
	Registry *tools.Registry
	MCP      mcpclient.Client
	Servers  *mcpclient.ServerRegistry
	Metrics  telemetry.Metrics
	Tracer   telemetry.Tracer
}

func (a *ToolActivities) metrics() telemetry.Metrics {
	if a.Metrics == nil {
		return telemetry.NewNoopMetrics()
	}
	return a.Metrics
}

func (a *ToolActivities) tracer() telemetry.Tracer {
	if a.Tracer == nil {
		return telemetry.NewNoopTracer()
	}
	return a.Tracer
}

// ToolExecute looks up ToolName in the registry and runs it, routing MCP
// tools through the MCP client with the {"request": ...} argument envelope
// and local tools through the registry's in-process executor. The resulting
// text (an "Error: ..." string for an unknown tool or invalid arguments, the
// repair prompt for invalid MCP parameters) is written to the trajectory's
// StepIndex observation; transient tool errors are returned, not swallowed, so the
// engine's activity retry policy applies before the caller gives up and
// treats the failure as a final observation.
func (a *ToolActivities) ToolExecute(ctx context.Context, req ToolExecutionRequest) (ToolExecutionResult, error) {
	logger := activity.GetLogger(ctx)
	traj := req.Trajectory

	ctx, span := a.tracer().Start(ctx, "tool_execute")
	span.AddEvent("dispatch", "tool_name", req.ToolName)
	defer span.End()

	def, ok := a.Registry.Get(req.ToolName)
	if !ok {
		logger.Warn("tool execute: unknown tool", "tool_name", req.ToolName)
		a.metrics().IncCounter("tool_execute.unknown_tool", 1, "tool_name", req.ToolName)
		msg := fmt.Sprintf("Error: Unknown tool %s", req.ToolName)
		traj.SetObservation(req.StepIndex, msg)
		return ToolExecutionResult{Success: false, Trajectory: traj, Error: (&toolerrors.UnknownTool{Name: req.ToolName}).Error()}, nil
	}

	// Argument validation is deterministic: a retry would fail identically,
	// so record it as an observation and let the ReAct loop recover on its
	// next iteration instead of asking the engine to retry this activity.
	if err := def.ValidateArgs(req.ToolArgs); err != nil {
		logger.Warn("tool execute: invalid arguments", "tool_name", req.ToolName, "error", err)
		a.metrics().IncCounter("tool_execute.invalid_args", 1, "tool_name", req.ToolName)
		msg := fmt.Sprintf("Error: %s", err)
		traj.SetObservation(req.StepIndex, msg)
		return ToolExecutionResult{Success: false, Trajectory: traj, Error: err.Error()}, nil
	}

	var observation string
	var err error
	if def.IsMCP {
		observation, err = a.executeMCP(ctx, def, req.ToolArgs)
	} else {
		observation, err = a.Registry.Execute(ctx, req.ToolName, req.ToolArgs)
	}
	if err != nil {
		// An invalid-params failure is deterministic, like a schema
		// validation failure: retrying the same arguments would fail
		// identically, so its repair prompt is handed straight back as the
		// observation for the ReAct loop to reason over on the next
		// iteration, rather than spent on the engine's activity retries.
		var retryable *mcpclient.RetryableError
		if errors.As(err, &retryable) {
			logger.Warn("tool execute: invalid params, returning repair prompt", "tool_name", req.ToolName)
			a.metrics().IncCounter("tool_execute.invalid_args", 1, "tool_name", req.ToolName)
			traj.SetObservation(req.StepIndex, retryable.Prompt)
			return ToolExecutionResult{Success: false, Trajectory: traj, Error: retryable.Prompt}, nil
		}
		// Transient failure: propagate so the engine's activity retry policy
		// applies. Only once those retries are exhausted does the calling
		// sub-workflow convert this into a final "Error: ..." observation
		// and move on, per the activity-error-becomes-observation rule.
		a.metrics().IncCounter("tool_execute.failure", 1, "tool_name", req.ToolName)
		span.RecordError(err)
		return ToolExecutionResult{}, err
	}

	a.metrics().IncCounter("tool_execute.success", 1, "tool_name", req.ToolName)
	traj.SetObservation(req.StepIndex, observation)
	return ToolExecutionResult{Success: true, Trajectory: traj}, nil
}

func (a *ToolActivities) executeMCP(ctx context.Context, def tools.Definition, args map[string]any) (string, error) {
	if a.Servers == nil || a.MCP == nil {
		return "", errors.New("activities: no MCP client configured")
	}
	logger := activity.GetLogger(ctx)
	server, wireName, err := a.Servers.WireToolName(def.Name)
	if err != nil {
		return "", err
	}
	// MCP tools expect a single-key envelope wrapping the typed request.
	envelope := map[string]any{"request": args}
	onProgress := func(message string) {
		logger.Info("mcp tool progress", "tool_name", def.Name, "message", message)
	}
	return a.MCP.ExecuteTool(ctx, server, wireName, envelope, 0, 0, onProgress)
}
