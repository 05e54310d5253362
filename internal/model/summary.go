package model

// ConversationSummary reports aggregate statistics over a conversation,
// returned by the workflow service's summary query.
type ConversationSummary struct {
	TotalMessages int      `json:"total_messages"`
	UserMessages  int      `json:"user_messages"`
	AgentMessages int      `json:"agent_messages"`
	ToolsUsed     []string `json:"tools_used"`
	// DurationSeconds is the span between the first and last message, or
	// zero if there are fewer than two messages.
	DurationSeconds float64 `json:"duration_seconds"`
}

// SummaryStats computes a ConversationSummary from the current state.
func (c *ConversationState) SummaryStats() ConversationSummary {
	s := ConversationSummary{
		TotalMessages: len(c.Messages),
		ToolsUsed:     c.ToolsUsed,
	}
	for _, m := range c.Messages {
		switch m.Role {
		case RoleUser:
			s.UserMessages++
		case RoleAgent:
			s.AgentMessages++
		}
	}
	if n := len(c.Messages); n >= 2 {
		first := c.Messages[0].Timestamp
		last := c.Messages[n-1].Timestamp
		if last.After(first) {
			s.DurationSeconds = last.Sub(first).Seconds()
		}
	}
	return s
}
