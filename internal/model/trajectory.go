package model

import "strconv"

// TrajectoryStep is one reason/act/observe cycle within a single turn's
// agentic loop. The original implementation keyed a flat dict by iteration
// index (thought_0, tool_name_0, tool_args_0, observation_0, error_0); this
// reimplementation keeps the same per-iteration fields but as an ordered
// slice rather than a dynamic dict, so Go callers get compile-time field
// access instead of string-keyed lookups.
type TrajectoryStep struct {
	// Thought is the reasoning text produced before choosing a tool.
	Thought string `json:"thought,omitempty"`
	// ToolName is the action chosen for this step, or "finish" when the
	// agent is done iterating.
	ToolName string `json:"tool_name,omitempty"`
	// ToolArgs holds the arguments passed to ToolName.
	ToolArgs map[string]any `json:"tool_args,omitempty"`
	// Observation is the result reported back after executing ToolName.
	Observation string `json:"observation,omitempty"`
	// Error is set instead of Thought/ToolName when reasoning itself failed.
	// The step itself carries no ToolName; the ReactStep result that records
	// it forces the next action to "finish".
	Error string `json:"error,omitempty"`
}

// Trajectory is the ordered sequence of steps accumulated over a turn's
// iterations. Index i corresponds to iteration i+1 (current_iteration-1 in
// the original's indexing convention).
type Trajectory struct {
	Steps []TrajectoryStep `json:"steps"`
}

// Append adds a step to the end of the trajectory and returns its index.
func (t *Trajectory) Append(step TrajectoryStep) int {
	t.Steps = append(t.Steps, step)
	return len(t.Steps) - 1
}

// Len reports the number of steps recorded so far.
func (t *Trajectory) Len() int {
	return len(t.Steps)
}

// Last returns the most recently appended step and true, or a zero value and
// false if the trajectory is empty.
func (t *Trajectory) Last() (TrajectoryStep, bool) {
	if len(t.Steps) == 0 {
		return TrajectoryStep{}, false
	}
	return t.Steps[len(t.Steps)-1], true
}

// SetObservation records the tool result for the step at idx. Callers use
// this to fill in the observation after the step's thought/tool_name/args
// were already appended, mirroring the original's two-phase write of
// trajectory[f"tool_name_{idx}"] followed later by
// trajectory[f"observation_{idx}"].
func (t *Trajectory) SetObservation(idx int, observation string) {
	if idx < 0 || idx >= len(t.Steps) {
		return
	}
	t.Steps[idx].Observation = observation
}

// FlatKeys renders the trajectory back into the flat, iteration-indexed
// string map the original reasoning prompt format expects
// (thought_0, tool_name_0, tool_args_0, observation_0, error_0, ...). This is
// the one place the dynamic-dict shape is reconstructed, confined to the
// LLM-prompt serialization boundary rather than threaded through the rest of
// the code as a map.
func (t *Trajectory) FlatKeys() map[string]any {
	flat := make(map[string]any, len(t.Steps)*4)
	for i, step := range t.Steps {
		if step.Error != "" {
			flat[keyFor("error", i)] = step.Error
			continue
		}
		if step.Thought != "" {
			flat[keyFor("thought", i)] = step.Thought
		}
		if step.ToolName != "" {
			flat[keyFor("tool_name", i)] = step.ToolName
		}
		if step.ToolArgs != nil {
			flat[keyFor("tool_args", i)] = step.ToolArgs
		}
		if step.Observation != "" {
			flat[keyFor("observation", i)] = step.Observation
		}
	}
	return flat
}

func keyFor(field string, idx int) string {
	return field + "_" + strconv.Itoa(idx)
}
