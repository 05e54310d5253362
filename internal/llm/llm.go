// Package llm defines the minimal text-in/text-out oracle the reasoning and
// extraction activities call. The LLM provider itself is treated as an
// external collaborator; this package only commits to one interface and one
// concrete binding so the rest of the orchestrator has something concrete to
// depend on.
package llm

import "context"

// Request is one completion call: a system prompt (the domain reasoning or
// extraction instructions) and a user prompt (the formatted trajectory plus
// query). Kept flat rather than a full chat-message list since every call
// site here is single-turn from the LLM's perspective -- the trajectory
// projection carries prior turns as text, not as replayed messages.
type Request struct {
	System      string
	User        string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Response is the raw text returned by the oracle. Callers are responsible
// for parsing it into the structured shape their activity expects (a
// thought/tool_name/tool_args triple for reasoning, a plain answer for
// extraction).
type Response struct {
	Text string
}

// Client is the black-box oracle activities call into. Implementations must
// be safe for concurrent use; the conversation and sub-workflows may invoke
// several activities concurrently across turns.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
