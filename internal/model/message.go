// Package model defines the data types shared by the conversation workflow,
// the agentic sub-workflow, and the activities that operate on them: the
// message log, the conversation state, and the per-turn trajectory. These
// types are the payloads that cross workflow/activity boundaries and must
// therefore serialize cleanly through the workflow engine's data converter.
package model

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Role identifies who authored a Message.
type Role string

const (
	RoleUser   Role = "user"
	RoleAgent  Role = "agent"
	RoleSystem Role = "system"
)

// MaxContentLength and MinContentLength bound Message.Content per the data
// model invariant: 1..50000 characters.
const (
	MinContentLength = 1
	MaxContentLength = 50000
)

// MaxMessages is the hard ceiling on ConversationState.Messages. Once
// exceeded, the oldest messages are dropped down to TrimToMessages.
const MaxMessages = 1000

// TrimToMessages is the number of most recent messages kept after a trim.
const TrimToMessages = 100

// Message is an immutable entry in a conversation's history.
type Message struct {
	ID        string         `json:"id"`
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewMessage constructs a Message, validating the invariants in §3 of the
// spec (content length, role). Both id and at are supplied by the caller
// (typically workflow.SideEffect and workflow.Now()) so construction stays
// deterministic when called from workflow code.
func NewMessage(id string, role Role, content string, at time.Time, metadata map[string]any) (Message, error) {
	if err := validateRole(role); err != nil {
		return Message{}, err
	}
	if err := validateContent(content); err != nil {
		return Message{}, err
	}
	return Message{
		ID:        id,
		Role:      role,
		Content:   content,
		Timestamp: at,
		Metadata:  metadata,
	}, nil
}

func validateRole(role Role) error {
	switch role {
	case RoleUser, RoleAgent, RoleSystem:
		return nil
	default:
		return fmt.Errorf("model: invalid message role %q", role)
	}
}

func validateContent(content string) error {
	n := utf8.RuneCountInString(content)
	if n < MinContentLength || n > MaxContentLength {
		return fmt.Errorf("model: message content length %d out of bounds [%d, %d]", n, MinContentLength, MaxContentLength)
	}
	return nil
}
