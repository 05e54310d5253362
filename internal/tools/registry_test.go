package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoToolDefinition(t *testing.T) Definition {
	t.Helper()
	schema, err := CompileSchema("echo", []byte(`{
		"type": "object",
		"properties": {"text": {"type": "string"}},
		"required": ["text"]
	}`))
	require.NoError(t, err)
	return Definition{Name: "echo", Module: "demo", Description: "echoes its input", ArgsSchema: schema}
}

func TestRegistry_RegisterAndExecute(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	def := echoToolDefinition(t)
	err := reg.Register(def, ExecutorFunc(func(_ context.Context, args map[string]any) (string, error) {
		return "echo: " + args["text"].(string), nil
	}))
	require.NoError(t, err)

	out, err := reg.Execute(context.Background(), "echo", map[string]any{"text": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", out)
}

func TestRegistry_RegisterDuplicateFails(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	def := echoToolDefinition(t)
	require.NoError(t, reg.Register(def, ExecutorFunc(func(context.Context, map[string]any) (string, error) { return "", nil })))

	err := reg.Register(def, ExecutorFunc(func(context.Context, map[string]any) (string, error) { return "", nil }))
	require.Error(t, err)
}

func TestRegistry_ExecuteUnknownToolReturnsUnknownTool(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	_, err := reg.Execute(context.Background(), "missing", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestRegistry_ExecuteRejectsInvalidArgs(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	def := echoToolDefinition(t)
	require.NoError(t, reg.Register(def, ExecutorFunc(func(context.Context, map[string]any) (string, error) { return "ok", nil })))

	_, err := reg.Execute(context.Background(), "echo", map[string]any{})
	require.Error(t, err)
}

func TestRegistry_DefinitionsAreSorted(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Register(Definition{Name: "zz"}, ExecutorFunc(func(context.Context, map[string]any) (string, error) { return "", nil })))
	require.NoError(t, reg.Register(Definition{Name: "aa"}, ExecutorFunc(func(context.Context, map[string]any) (string, error) { return "", nil })))

	names := reg.Names()
	assert.Equal(t, []string{"aa", "zz"}, names)
}
