package entities

import (
	"encoding/json"
	"fmt"
)

// ActionResult is the uniform outcome of a browser provider operation
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Succeeded - builds a successful result
func Succeeded(format string, args ...interface{}) ActionResult {
	return ActionResult{Success: true, Message: fmt.Sprintf(format, args...)}
}

// Failed - builds a failed result
func Failed(format string, args ...interface{}) ActionResult {
	return ActionResult{Success: false, Message: fmt.Sprintf(format, args...)}
}

// ClickOptions configures a single provider click
type ClickOptions struct {
	Force   bool    `json:"force,omitempty"`
	DelayMs float64 `json:"delay,omitempty"`
	// TimeoutMs bounds the provider's own actionability wait; zero means provider default
	TimeoutMs float64 `json:"timeout,omitempty"`
}

// EvalResult carries the JSON-serializable value returned by a script evaluation
type EvalResult struct {
	ActionResult
	Value interface{} `json:"value,omitempty"`
}

// Decode - converts the evaluated value into a typed structure
func (r EvalResult) Decode(out interface{}) error {
	data, err := json.Marshal(r.Value)
	if err != nil {
		return fmt.Errorf("failed to encode script result: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unexpected script result shape: %w", err)
	}
	return nil
}

// QueryResult lists elements matching a selector
type QueryResult struct {
	ActionResult
	Elements []ElementSummary `json:"elements"`
}

// InspectResult is the provider's detailed view of one element
type InspectResult struct {
	ActionResult
	Found   bool               `json:"found"`
	Element *ElementDescriptor `json:"element,omitempty"`
}

// ScreenshotResult reports where a screenshot was written
type ScreenshotResult struct {
	ActionResult
	Path string `json:"path,omitempty"`
}

// AttemptResult is produced once per core resolution call and never mutated
type AttemptResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	StrategyUsed string `json:"strategy"`
}
