package model

// ConversationState is the durable state owned by a conversation workflow.
// It mirrors the original's ConversationState model field-for-field, except
// trajectory: the current turn's trajectory lives on the agentic sub-workflow
// (see reactagent), not here, since it is scoped to a single turn rather than
// the whole conversation.
type ConversationState struct {
	Messages         []Message      `json:"messages"`
	ToolsUsed        []string       `json:"tools_used"`
	UserContext      map[string]any `json:"user_context"`
	Summary          string         `json:"summary,omitempty"`
	InteractionCount int            `json:"interaction_count"`
	SummaryRequested bool           `json:"summary_requested"`
}

// NewConversationState returns an empty ConversationState ready to accept
// messages.
func NewConversationState() *ConversationState {
	return &ConversationState{
		UserContext: make(map[string]any),
	}
}

// AddMessage appends msg to the history, bumps InteractionCount, and trims
// the log once it exceeds MaxMessages. Per the data model invariant, the log
// never exceeds MaxMessages entries; once it does, only the most recent
// TrimToMessages are kept.
func (c *ConversationState) AddMessage(msg Message) {
	c.Messages = append(c.Messages, msg)
	c.InteractionCount++
	if len(c.Messages) > MaxMessages {
		c.Messages = append([]Message(nil), c.Messages[len(c.Messages)-TrimToMessages:]...)
	}
}

// RecordToolUse appends name to ToolsUsed if it is not already present.
func (c *ConversationState) RecordToolUse(name string) {
	for _, used := range c.ToolsUsed {
		if used == name {
			return
		}
	}
	c.ToolsUsed = append(c.ToolsUsed, name)
}

// Summarize sets the conversation summary and clears the pending-summary
// flag set by RequestSummary.
func (c *ConversationState) Summarize(summary string) {
	c.Summary = summary
	c.SummaryRequested = false
}

// RequestSummary marks that a summary has been asked for but not yet
// produced. The conversation workflow checks this flag to decide whether to
// run the summarization path on its next loop iteration.
func (c *ConversationState) RequestSummary() {
	c.SummaryRequested = true
}
