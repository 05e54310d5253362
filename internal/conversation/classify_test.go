package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyMessage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		content string
		want    messageKind
	}{
		{"### maintenance window starting", messageKindSystemNotification},
		{"yes", messageKindToolConfirmation},
		{"Confirm", messageKindToolConfirmation},
		{"can you summarize this conversation?", messageKindSummaryRequest},
		{"what's the weather in Ames?", messageKindUserQuery},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, classifyMessage(tc.content), tc.content)
	}
}
