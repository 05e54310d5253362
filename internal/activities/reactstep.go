// Package activities implements the three durable units the agentic
// sub-workflow calls: ReactStep, ToolExecute, and ExtractFinal. Each is
// registered with the Temporal worker under the names the task queue
// contract documents (react_step, tool_execute, extract_final) and is
// deterministic given its inputs, matching the engine's retry/idempotence
// guarantees.
package activities

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.temporal.io/sdk/activity"

	"github.com/retroryan/durable-ai-agent/internal/llm"
	"github.com/retroryan/durable-ai-agent/internal/model"
	"github.com/retroryan/durable-ai-agent/internal/tools"
)

// ReactStepInput carries the arguments for one reasoning call.
type ReactStepInput struct {
	UserQuery  string
	Iteration  int
	Trajectory model.Trajectory
	UserName   string
}

// ReactStepResult is the outcome of one reasoning call: either a next action
// (ToolName/ToolArgs) to perform, or ToolName == "finish" when the agent is
// done, possibly because reasoning itself failed to parse.
type ReactStepResult struct {
	Trajectory model.Trajectory
	ToolName   string
	ToolArgs   map[string]any
}

// reactStepCompletion is the JSON shape the reasoning prompt asks the LLM to
// emit: a thought, the chosen tool, and that tool's arguments.
type reactStepCompletion struct {
	Thought  string         `json:"thought"`
	ToolName string         `json:"tool_name"`
	ToolArgs map[string]any `json:"tool_args"`
}

// ReactActivities bundles the registry and LLM client the reasoning and
// extraction activities depend on. A single instance is registered with the
// worker; Temporal dispatches concurrent activity executions against its
// methods, so registry/llm.Client implementations must be safe for
// concurrent use.
type ReactActivities struct {
	Registry *tools.Registry
	LLM      llm.Client
}

// ReactStep calls the LLM with the enumerated tool list, the user query, and
// a formatted projection of the trajectory so far, then parses the response
// into a (thought, tool_name, tool_args) triple. A response that fails to
// parse records an error_{iteration-1} slot and forces tool_name to
// "finish", matching the documented parse-failure recovery path.
func (a *ReactActivities) ReactStep(ctx context.Context, input ReactStepInput) (ReactStepResult, error) {
	logger := activity.GetLogger(ctx)

	logger.Debug("react step", "user_name", displayName(input.UserName), "iteration", input.Iteration)

	prompt := buildReasoningPrompt(a.Registry, input.UserQuery, input.Trajectory)
	resp, err := a.LLM.Complete(ctx, llm.Request{
		System: reasoningSystemPrompt,
		User:   prompt,
	})
	if err != nil {
		return ReactStepResult{}, fmt.Errorf("activities: react step llm call: %w", err)
	}

	completion, parseErr := parseReactCompletion(resp.Text)
	traj := input.Trajectory
	if parseErr != nil {
		logger.Warn("react step parse failure, forcing finish", "user_name", displayName(input.UserName), "iteration", input.Iteration, "error", parseErr)
		traj.Append(model.TrajectoryStep{Error: parseErr.Error()})
		return ReactStepResult{Trajectory: traj, ToolName: "finish", ToolArgs: map[string]any{}}, nil
	}

	if completion.ToolName != "finish" {
		if _, known := a.Registry.Get(completion.ToolName); !known {
			logger.Warn("react step selected unknown tool", "tool_name", completion.ToolName)
		}
	}

	traj.Append(model.TrajectoryStep{
		Thought:  completion.Thought,
		ToolName: completion.ToolName,
		ToolArgs: completion.ToolArgs,
	})

	return ReactStepResult{
		Trajectory: traj,
		ToolName:   completion.ToolName,
		ToolArgs:   completion.ToolArgs,
	}, nil
}

const reasoningSystemPrompt = `You are an agent reasoning step in a ReAct loop. Given the user's request, the tools available, and the steps taken so far, decide on exactly one next action.

Respond with a single JSON object and nothing else:
{"thought": "<your reasoning>", "tool_name": "<a tool name or \"finish\">", "tool_args": {<arguments for that tool>}}

Choose "finish" with empty tool_args once you have enough information to answer the user.`

func buildReasoningPrompt(reg *tools.Registry, userQuery string, traj model.Trajectory) string {
	var b strings.Builder
	b.WriteString("Available tools:\n")
	for _, def := range reg.Definitions() {
		fmt.Fprintf(&b, "- %s: %s\n", def.Name, def.Description)
	}
	b.WriteString("- finish: call when you have a final answer\n\n")

	fmt.Fprintf(&b, "User query: %s\n\n", userQuery)

	if traj.Len() > 0 {
		b.WriteString("Trajectory so far:\n")
		flat, err := json.Marshal(traj.FlatKeys())
		if err == nil {
			b.Write(flat)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func parseReactCompletion(text string) (reactStepCompletion, error) {
	jsonText := extractJSONObject(text)
	if jsonText == "" {
		return reactStepCompletion{}, fmt.Errorf("no JSON object found in response")
	}
	var completion reactStepCompletion
	if err := json.Unmarshal([]byte(jsonText), &completion); err != nil {
		return reactStepCompletion{}, fmt.Errorf("decode reasoning response: %w", err)
	}
	if completion.ToolName == "" {
		return reactStepCompletion{}, fmt.Errorf("reasoning response missing tool_name")
	}
	if completion.ToolArgs == nil {
		completion.ToolArgs = map[string]any{}
	}
	return completion, nil
}

// extractJSONObject returns the first top-level {...} substring in text, so
// a response wrapped in prose or a markdown fence still parses.
func extractJSONObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
