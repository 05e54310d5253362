package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage_ValidatesRole(t *testing.T) {
	t.Parallel()

	_, err := NewMessage("m1", Role("bogus"), "hello", time.Now(), nil)
	require.Error(t, err)
}

func TestNewMessage_ValidatesContentBounds(t *testing.T) {
	t.Parallel()

	_, err := NewMessage("m1", RoleUser, "", time.Now(), nil)
	require.Error(t, err)

	tooLong := make([]byte, MaxContentLength+1)
	_, err = NewMessage("m1", RoleUser, string(tooLong), time.Now(), nil)
	require.Error(t, err)
}

func TestNewMessage_OK(t *testing.T) {
	t.Parallel()

	now := time.Now()
	msg, err := NewMessage("m1", RoleAgent, "hi there", now, map[string]any{"k": "v"})
	require.NoError(t, err)
	assert.Equal(t, "m1", msg.ID)
	assert.Equal(t, RoleAgent, msg.Role)
	assert.Equal(t, "hi there", msg.Content)
	assert.Equal(t, now, msg.Timestamp)
	assert.Equal(t, "v", msg.Metadata["k"])
}
