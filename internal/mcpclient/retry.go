package mcpclient

import (
	"errors"
	"fmt"
)

// invalidParamsError marks an MCP tools/call failure the server attributed to
// malformed arguments, as opposed to a transient transport failure.
type invalidParamsError struct {
	message string
}

func (e *invalidParamsError) Error() string { return e.message }

// RetryableError carries a repair prompt for LLM-driven correction, adapted
// from the generated-client convention of wrapping invalid-parameter
// failures into a structured retry payload rather than a bare error string.
type RetryableError struct {
	Prompt string
	Cause  error
}

func (e *RetryableError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause == nil {
		return e.Prompt
	}
	return fmt.Sprintf("%s: %v", e.Prompt, e.Cause)
}

func (e *RetryableError) Unwrap() error { return e.Cause }

// promptTemplate mirrors the generated clients' canonical repair-prompt
// format: concise and deterministic so the LLM response can be parsed back
// into corrected arguments.
const promptTemplate = `
Operation: %s
%sError: %s
Redo the operation now with valid parameters.
Use only valid schema fields and ensure required fields and types/enums are valid.
Example params: %s`

// BuildRepairPrompt constructs the text handed back to the reasoning step so
// it can retry tool_name with corrected tool_args. schema is an optional
// compact JSON Schema excerpt; exampleJSON is a minimal valid params example.
func BuildRepairPrompt(op, errMsg, exampleJSON, schema string) string {
	schemaPart := ""
	if schema != "" {
		schemaPart = "Schema: " + schema + "\n"
	}
	return fmt.Sprintf(promptTemplate, op, schemaPart, errMsg, exampleJSON)
}

// isRetryable reports whether err represents a transient transport failure
// that ExecuteTool should retry, as opposed to an invalid-parameters failure
// a retry cannot fix without different arguments.
func isRetryable(err error) bool {
	var invalid *invalidParamsError
	return !errors.As(err, &invalid)
}
