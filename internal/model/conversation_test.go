package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationState_AddMessageTrimsAtCeiling(t *testing.T) {
	t.Parallel()

	c := NewConversationState()
	base := time.Now()
	for i := 0; i < MaxMessages+50; i++ {
		msg, err := NewMessage("m", RoleUser, "hello", base.Add(time.Duration(i)*time.Second), nil)
		require.NoError(t, err)
		c.AddMessage(msg)
	}

	// The trim fires on add number MaxMessages+1; the 49 adds after it are kept.
	assert.Len(t, c.Messages, TrimToMessages+49)
	assert.Equal(t, MaxMessages+50, c.InteractionCount)
}

func TestConversationState_RecordToolUseDeduplicates(t *testing.T) {
	t.Parallel()

	c := NewConversationState()
	c.RecordToolUse("get_weather")
	c.RecordToolUse("get_weather")
	c.RecordToolUse("get_forecast")

	assert.Equal(t, []string{"get_weather", "get_forecast"}, c.ToolsUsed)
}

func TestConversationState_SummaryLifecycle(t *testing.T) {
	t.Parallel()

	c := NewConversationState()
	c.RequestSummary()
	assert.True(t, c.SummaryRequested)

	c.Summarize("a short summary")
	assert.Equal(t, "a short summary", c.Summary)
	assert.False(t, c.SummaryRequested)
}

func TestConversationState_SummaryStats(t *testing.T) {
	t.Parallel()

	c := NewConversationState()
	base := time.Now()
	u1, _ := NewMessage("1", RoleUser, "hi", base, nil)
	a1, _ := NewMessage("2", RoleAgent, "hello", base.Add(5*time.Second), nil)
	c.AddMessage(u1)
	c.AddMessage(a1)
	c.RecordToolUse("get_weather")

	stats := c.SummaryStats()
	assert.Equal(t, 2, stats.TotalMessages)
	assert.Equal(t, 1, stats.UserMessages)
	assert.Equal(t, 1, stats.AgentMessages)
	assert.Equal(t, []string{"get_weather"}, stats.ToolsUsed)
	assert.InDelta(t, 5.0, stats.DurationSeconds, 0.001)
}
