package activities

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.temporal.io/sdk/activity"

	"github.com/retroryan/durable-ai-agent/internal/llm"
	"github.com/retroryan/durable-ai-agent/internal/model"
)

// ExtractFinalInput carries the arguments for the final synthesis call.
type ExtractFinalInput struct {
	Trajectory model.Trajectory
	UserQuery  string
	UserName   string
}

// ExtractFinalResult carries the synthesized answer, or an Error when the
// LLM call itself failed.
type ExtractFinalResult struct {
	Answer    string
	Reasoning string
	Error     string
}

const extractionSystemPrompt = `You are synthesizing a final answer to the user's request from the steps an
agent already took. Respond with a single JSON object and nothing else:
{"answer": "<final answer text>", "reasoning": "<brief rationale, optional>"}`

// ExtractFinal calls the LLM once with the whole trajectory flattened plus
// the original query, synthesizing the user-facing answer.
func (a *ReactActivities) ExtractFinal(ctx context.Context, input ExtractFinalInput) (ExtractFinalResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Debug("extract final", "user_name", displayName(input.UserName))

	prompt := buildExtractionPrompt(input.UserQuery, input.UserName, input.Trajectory)
	resp, err := a.LLM.Complete(ctx, llm.Request{
		System: extractionSystemPrompt,
		User:   prompt,
	})
	if err != nil {
		return ExtractFinalResult{Error: err.Error()}, nil
	}

	jsonText := extractJSONObject(resp.Text)
	if jsonText == "" {
		// Not every extraction response need be JSON-wrapped; fall back to
		// treating the raw text as the answer.
		return ExtractFinalResult{Answer: strings.TrimSpace(resp.Text)}, nil
	}
	var decoded struct {
		Answer    string `json:"answer"`
		Reasoning string `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(jsonText), &decoded); err != nil {
		return ExtractFinalResult{Answer: strings.TrimSpace(resp.Text)}, nil
	}
	return ExtractFinalResult{Answer: decoded.Answer, Reasoning: decoded.Reasoning}, nil
}

func buildExtractionPrompt(userQuery, userName string, traj model.Trajectory) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User: %s\n", displayName(userName))
	fmt.Fprintf(&b, "User query: %s\n\n", userQuery)
	b.WriteString("Trajectory:\n")
	flat, err := json.Marshal(traj.FlatKeys())
	if err == nil {
		b.Write(flat)
	}
	return b.String()
}
