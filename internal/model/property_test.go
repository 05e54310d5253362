package model

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestTrajectoryAppendIsContiguousProperty validates the universal
// invariant that trajectory step indices 0..N-1 stay contiguous no matter
// how many steps get appended.
func TestTrajectoryAppendIsContiguousProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("appending N steps yields exactly N contiguous indices", prop.ForAll(
		func(thoughts []string) bool {
			var traj Trajectory
			for i, th := range thoughts {
				idx := traj.Append(TrajectoryStep{Thought: th})
				if idx != i {
					return false
				}
			}
			return traj.Len() == len(thoughts)
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}

// TestConversationStateNeverExceedsMaxMessagesProperty validates the
// universal invariant len(messages) <= MaxMessages for any sequence of
// AddMessage calls.
func TestConversationStateNeverExceedsMaxMessagesProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("message log never exceeds MaxMessages", prop.ForAll(
		func(n int) bool {
			conv := NewConversationState()
			base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			for i := 0; i < n; i++ {
				msg, err := NewMessage("m", RoleUser, "hello", base.Add(time.Duration(i)*time.Second), nil)
				if err != nil {
					return false
				}
				conv.AddMessage(msg)
				if len(conv.Messages) > MaxMessages {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 1500),
	))

	properties.TestingRun(t)
}

// TestMessageContentLengthInvariantProperty validates that any content
// accepted by NewMessage satisfies 1 <= len(content) <= MaxContentLength.
func TestMessageContentLengthInvariantProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("accepted content length always falls within bounds", prop.ForAll(
		func(content string) bool {
			err := validateContent(content)
			if err != nil {
				return len(content) < MinContentLength || len(content) > MaxContentLength
			}
			return len(content) >= MinContentLength && len(content) <= MaxContentLength
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
