// Package conversation implements the long-lived conversation workflow
// (C5): one instance per workflow_id, owning a ConversationState and a
// queue of pending user prompts, spawning one agentic sub-workflow (C4)
// child per turn.
package conversation

import (
	"fmt"
	"sort"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/retroryan/durable-ai-agent/internal/activities"
	"github.com/retroryan/durable-ai-agent/internal/model"
	"github.com/retroryan/durable-ai-agent/internal/reactagent"
)

// extractActivityOptions mirrors the activity options the agentic
// sub-workflow applies to its own ExtractFinal call (see
// reactagent.activityOptions); summary extraction is just another call to
// the same durable activity, so it keeps the same timeout/retry budget.
var extractActivityOptions = workflow.ActivityOptions{
	StartToCloseTimeout: 30 * time.Second,
	RetryPolicy: &temporal.RetryPolicy{
		InitialInterval:    time.Second,
		MaximumInterval:    10 * time.Second,
		BackoffCoefficient: 2.0,
		MaximumAttempts:    3,
	},
}

// Signal names, matching the channel names external callers signal.
const (
	SignalPrompt         = "prompt"
	SignalEndChat        = "end_chat"
	SignalRequestSummary = "request_summary"
)

// Query names, matching the query handlers external callers invoke.
const (
	QueryState           = "state"
	QueryStatus          = "status"
	QueryHistory         = "history"
	QueryTrajectories    = "trajectories"
	QueryWorkflowDetails = "workflow_details"
)

// maxRetainedTrajectories bounds how many per-turn trajectories the
// "trajectories" query can return; older ones are dropped once a turn
// completes and the newest is appended.
const maxRetainedTrajectories = 10

// historyTrimLimit is the aggressive per-append trim §4.5 describes,
// distinct from (and tighter than) model.MaxMessages/TrimToMessages, which
// is the hard ceiling enforced inside ConversationState.AddMessage itself.
const historyTrimLimit = 100

// Input starts a conversation workflow: the first user message is treated
// as if it arrived via the prompt signal.
type Input struct {
	InitialMessage string
	UserName       string
}

// Result is returned when the workflow finishes (after end_chat drains the
// queue).
type Result struct {
	Status           string
	InteractionCount int
}

// StateView answers the "state" query.
type StateView struct {
	Status              string
	LastResponse        string
	ConversationHistory []model.Message
}

// WorkflowDetails answers the "workflow_details" query.
type WorkflowDetails struct {
	Status           string
	MessageCount     int
	InteractionCount int
	ToolsUsed        []string
	ExecutionTime    float64
	TrajectoryKeys   []string
}

const (
	statusRunning   = "running"
	statusCompleted = "completed"
)

// ConversationWorkflow is the durable, long-lived per-session workflow.
func ConversationWorkflow(ctx workflow.Context, input Input) (Result, error) {
	logger := workflow.GetLogger(ctx)
	startTime := workflow.Now(ctx)

	conv := model.NewConversationState()
	status := statusRunning
	lastResponse := ""
	shouldEnd := false
	var trajectories []model.Trajectory
	var queue []string
	nextMessageID := 0
	turnCount := 0

	newMessageID := func() string {
		nextMessageID++
		return fmt.Sprintf("msg-%d", nextMessageID)
	}

	promptCh := workflow.GetSignalChannel(ctx, SignalPrompt)
	endCh := workflow.GetSignalChannel(ctx, SignalEndChat)
	summaryCh := workflow.GetSignalChannel(ctx, SignalRequestSummary)

	workflow.Go(ctx, func(gctx workflow.Context) {
		for {
			var msg string
			promptCh.Receive(gctx, &msg)
			queue = append(queue, msg)
		}
	})
	workflow.Go(ctx, func(gctx workflow.Context) {
		for {
			endCh.Receive(gctx, nil)
			shouldEnd = true
		}
	})
	workflow.Go(ctx, func(gctx workflow.Context) {
		for {
			summaryCh.Receive(gctx, nil)
			conv.RequestSummary()
		}
	})

	if err := workflow.SetQueryHandler(ctx, QueryState, func() (StateView, error) {
		return StateView{Status: status, LastResponse: lastResponse, ConversationHistory: conv.Messages}, nil
	}); err != nil {
		return Result{}, err
	}
	if err := workflow.SetQueryHandler(ctx, QueryStatus, func() (string, error) {
		return status, nil
	}); err != nil {
		return Result{}, err
	}
	if err := workflow.SetQueryHandler(ctx, QueryHistory, func() ([]model.Message, error) {
		return conv.Messages, nil
	}); err != nil {
		return Result{}, err
	}
	if err := workflow.SetQueryHandler(ctx, QueryTrajectories, func() ([]model.Trajectory, error) {
		return trajectories, nil
	}); err != nil {
		return Result{}, err
	}
	if err := workflow.SetQueryHandler(ctx, QueryWorkflowDetails, func() (WorkflowDetails, error) {
		return WorkflowDetails{
			Status:           status,
			MessageCount:     len(conv.Messages),
			InteractionCount: conv.InteractionCount,
			ToolsUsed:        conv.ToolsUsed,
			ExecutionTime:    workflow.Now(ctx).Sub(startTime).Seconds(),
			TrajectoryKeys:   latestTrajectoryKeys(trajectories),
		}, nil
	}); err != nil {
		return Result{}, err
	}

	queue = append(queue, input.InitialMessage)

	for {
		awaitErr := workflow.Await(ctx, func() bool { return len(queue) > 0 || shouldEnd })
		if awaitErr != nil {
			return Result{}, awaitErr
		}
		if len(queue) == 0 && shouldEnd {
			break
		}

		text := queue[0]
		queue = queue[1:]

		kind := classifyMessage(text)
		if kind == messageKindSummaryRequest {
			conv.RequestSummary()
		}

		now := workflow.Now(ctx)
		if userMsg, msgErr := model.NewMessage(newMessageID(), model.RoleUser, text, now, map[string]any{"kind": string(kind)}); msgErr != nil {
			logger.Warn("dropping malformed prompt message", "error", msgErr)
		} else {
			conv.AddMessage(userMsg)
			trimHistory(conv)
		}

		turnCount++
		var turnResult reactagent.Result
		err := workflow.ExecuteChildWorkflow(ctx, reactagent.AgenticSubWorkflow, reactagent.Input{
			UserMessage: text,
			UserName:    input.UserName,
			QueryCount:  turnCount,
		}).Get(ctx, &turnResult)
		if err != nil {
			logger.Error("agentic sub-workflow failed", "error", err)
			turnResult = reactagent.Result{Message: fmt.Sprintf("Error: %s", err)}
		}

		lastResponse = turnResult.Message
		if agentMsg, msgErr := model.NewMessage(newMessageID(), model.RoleAgent, turnResult.Message, workflow.Now(ctx), nil); msgErr != nil {
			logger.Warn("dropping malformed agent response message", "error", msgErr)
		} else {
			conv.AddMessage(agentMsg)
			trimHistory(conv)
		}

		for _, name := range usedToolNames(turnResult.Trajectory) {
			conv.RecordToolUse(name)
		}
		trajectories = appendTrajectory(trajectories, turnResult.Trajectory)

		if conv.SummaryRequested {
			var final activities.ExtractFinalResult
			summaryErr := workflow.ExecuteActivity(
				workflow.WithActivityOptions(ctx, extractActivityOptions),
				reactagent.ActivityExtractFinal,
				activities.ExtractFinalInput{Trajectory: historyTrajectory(conv), UserQuery: text, UserName: input.UserName},
			).Get(ctx, &final)
			if summaryErr != nil {
				logger.Warn("summary extraction failed", "error", summaryErr)
			} else {
				conv.Summarize(final.Answer)
			}
		}
	}

	status = statusCompleted
	return Result{Status: status, InteractionCount: conv.InteractionCount}, nil
}

func trimHistory(conv *model.ConversationState) {
	if len(conv.Messages) > historyTrimLimit {
		conv.Messages = append([]model.Message(nil), conv.Messages[len(conv.Messages)-historyTrimLimit:]...)
	}
}

func appendTrajectory(trajectories []model.Trajectory, t model.Trajectory) []model.Trajectory {
	trajectories = append(trajectories, t)
	if len(trajectories) > maxRetainedTrajectories {
		trajectories = trajectories[len(trajectories)-maxRetainedTrajectories:]
	}
	return trajectories
}

func usedToolNames(t model.Trajectory) []string {
	var names []string
	for _, step := range t.Steps {
		if step.ToolName != "" && step.ToolName != "finish" {
			names = append(names, step.ToolName)
		}
	}
	return names
}

func latestTrajectoryKeys(trajectories []model.Trajectory) []string {
	if len(trajectories) == 0 {
		return nil
	}
	flat := trajectories[len(trajectories)-1].FlatKeys()
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// historyTrajectory projects the accumulated message history into a
// Trajectory shape so the shared ExtractFinal activity (built for per-turn
// trajectories) can also synthesize a whole-conversation summary: each
// message becomes one step's thought/observation pair.
func historyTrajectory(conv *model.ConversationState) model.Trajectory {
	var traj model.Trajectory
	for _, msg := range conv.Messages {
		step := model.TrajectoryStep{}
		if msg.Role == model.RoleUser {
			step.Thought = msg.Content
		} else {
			step.Observation = msg.Content
		}
		traj.Append(step)
	}
	return traj
}
