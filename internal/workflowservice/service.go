// Package workflowservice is the thin client-facing layer (C6): a stateless
// wrapper around a Temporal client.Client that starts or signals a
// conversation workflow per message and relays its queries, matching
// original_source/api/services/workflow_service.py's responsibilities one
// for one.
package workflowservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"

	"github.com/retroryan/durable-ai-agent/internal/conversation"
	"github.com/retroryan/durable-ai-agent/internal/model"
)

// WorkflowState is the external projection returned by process_message and
// get_state, matching §3's WorkflowState glossary entry.
type WorkflowState struct {
	WorkflowID   string
	Status       string
	QueryCount   int
	LastResponse string
}

// Service wraps a Temporal client and the fixed task queue conversation
// workflows run on.
type Service struct {
	Client    client.Client
	TaskQueue string
}

// New returns a Service bound to c and taskQueue.
func New(c client.Client, taskQueue string) *Service {
	return &Service{Client: c, TaskQueue: taskQueue}
}

// NewWorkflowID produces a fresh conversation workflow id in the
// "durable-agent-{uuid}" shape §4.6 documents.
func NewWorkflowID() string {
	return fmt.Sprintf("durable-agent-%s", uuid.NewString())
}

// ProcessMessage signals workflowID with text if it is already running,
// otherwise starts a new conversation workflow and sends text as its
// initial prompt. workflowID is generated via NewWorkflowID when empty.
func (s *Service) ProcessMessage(ctx context.Context, text, workflowID, userName string) (WorkflowState, error) {
	if workflowID == "" {
		workflowID = NewWorkflowID()
	}

	running, err := s.isRunning(ctx, workflowID)
	if err != nil {
		return WorkflowState{}, err
	}

	if running {
		if err := s.Client.SignalWorkflow(ctx, workflowID, "", conversation.SignalPrompt, text); err != nil {
			return WorkflowState{}, fmt.Errorf("workflowservice: signal prompt: %w", err)
		}
	} else {
		_, err := s.Client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
			ID:        workflowID,
			TaskQueue: s.TaskQueue,
		}, conversation.ConversationWorkflow, conversation.Input{InitialMessage: text, UserName: userName})
		if err != nil {
			return WorkflowState{}, fmt.Errorf("workflowservice: start workflow: %w", err)
		}
	}

	state, err := s.GetState(ctx, workflowID)
	if err != nil {
		return WorkflowState{}, err
	}
	state.WorkflowID = workflowID
	if !running {
		state.Status = "started"
	}
	return state, nil
}

// GetState queries the workflow's current state.
func (s *Service) GetState(ctx context.Context, workflowID string) (WorkflowState, error) {
	var view conversation.StateView
	if err := s.query(ctx, workflowID, conversation.QueryState, &view); err != nil {
		return WorkflowState{}, err
	}
	return WorkflowState{WorkflowID: workflowID, Status: view.Status, LastResponse: view.LastResponse}, nil
}

// GetHistory queries the workflow's message log.
func (s *Service) GetHistory(ctx context.Context, workflowID string) ([]model.Message, error) {
	var messages []model.Message
	if err := s.query(ctx, workflowID, conversation.QueryHistory, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// GetTrajectories queries the per-turn trajectories retained by the
// workflow.
func (s *Service) GetTrajectories(ctx context.Context, workflowID string) ([]model.Trajectory, error) {
	var trajectories []model.Trajectory
	if err := s.query(ctx, workflowID, conversation.QueryTrajectories, &trajectories); err != nil {
		return nil, err
	}
	return trajectories, nil
}

// GetTools queries the workflow's tools_used list via workflow_details,
// matching original_source's get_ai_workflow_tools.
func (s *Service) GetTools(ctx context.Context, workflowID string) ([]string, error) {
	var details conversation.WorkflowDetails
	if err := s.query(ctx, workflowID, conversation.QueryWorkflowDetails, &details); err != nil {
		return nil, err
	}
	return details.ToolsUsed, nil
}

// GetWorkflowDetails queries the full workflow_details projection.
func (s *Service) GetWorkflowDetails(ctx context.Context, workflowID string) (conversation.WorkflowDetails, error) {
	var details conversation.WorkflowDetails
	if err := s.query(ctx, workflowID, conversation.QueryWorkflowDetails, &details); err != nil {
		return conversation.WorkflowDetails{}, err
	}
	return details, nil
}

// End signals end_chat and waits for the workflow to finish draining its
// queue and return its final result.
func (s *Service) End(ctx context.Context, workflowID string) (conversation.Result, error) {
	if err := s.Client.SignalWorkflow(ctx, workflowID, "", conversation.SignalEndChat, nil); err != nil {
		return conversation.Result{}, fmt.Errorf("workflowservice: signal end_chat: %w", err)
	}
	var result conversation.Result
	if err := s.Client.GetWorkflow(ctx, workflowID, "").Get(ctx, &result); err != nil {
		return conversation.Result{}, fmt.Errorf("workflowservice: await result: %w", err)
	}
	return result, nil
}

// Healthcheck pings the Temporal client's underlying connection, giving the
// external HTTP façade (§6's GET /health) something to call without this
// package implementing the façade itself.
func (s *Service) Healthcheck(ctx context.Context) error {
	if s.Client == nil {
		return errors.New("workflowservice: no temporal client configured")
	}
	_, err := s.Client.CheckHealth(ctx, &client.CheckHealthRequest{})
	return err
}

func (s *Service) isRunning(ctx context.Context, workflowID string) (bool, error) {
	resp, err := s.Client.DescribeWorkflowExecution(ctx, workflowID, "")
	if err != nil {
		// NotFound is the expected case for a brand-new conversation.
		return false, nil
	}
	info := resp.GetWorkflowExecutionInfo()
	return info != nil && info.GetStatus() == enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING, nil
}

func (s *Service) query(ctx context.Context, workflowID, queryType string, out any) error {
	value, err := s.Client.QueryWorkflow(ctx, workflowID, "", queryType)
	if err != nil {
		return fmt.Errorf("workflowservice: query %s: %w", queryType, err)
	}
	if err := value.Get(out); err != nil {
		return fmt.Errorf("workflowservice: decode %s result: %w", queryType, err)
	}
	return nil
}
