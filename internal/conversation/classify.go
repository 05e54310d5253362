package conversation

import "strings"

// messageKind tags an incoming prompt for observability/routing hints. Per
// §4.5 this is advisory only: it never blocks or rejects a message. The
// conversation workflow records it in the message metadata and, for
// messageKindSummaryRequest, also requests a summary.
type messageKind string

const (
	messageKindSystemNotification messageKind = "system_notification"
	messageKindToolConfirmation   messageKind = "tool_confirmation"
	messageKindSummaryRequest     messageKind = "summary_request"
	messageKindUserQuery          messageKind = "user_query"
)

var toolConfirmationWords = map[string]bool{
	"yes":     true,
	"confirm": true,
	"proceed": true,
	"ok":      true,
}

// classifyMessage is a pure function: same input always yields the same
// kind, so it is safe to call directly from workflow code.
func classifyMessage(content string) messageKind {
	lower := strings.ToLower(strings.TrimSpace(content))
	switch {
	case strings.HasPrefix(lower, "###"):
		return messageKindSystemNotification
	case toolConfirmationWords[lower]:
		return messageKindToolConfirmation
	case strings.Contains(lower, "summary") || strings.Contains(lower, "summarize"):
		return messageKindSummaryRequest
	default:
		return messageKindUserQuery
	}
}
