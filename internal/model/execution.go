// Package model defines the data structures used throughout the application.
package model

// ExecutionRequest is one validated submission from the playground.
type ExecutionRequest struct {
	Code  string `json:"code"`
	Stdin string `json:"stdin"`
	// StripInputPrompts removes literal input() prompts from the output
	// instead of putting them on their own line.
	StripInputPrompts bool `json:"strip_input_prompts"`
}

// ExecutionOutcome is what the student sees after a run.
//
// Output is always present (possibly empty) and capped; Error is empty
// when OK. Both can be non-empty when a program printed something and then
// crashed.
type ExecutionOutcome struct {
	OK     bool   `json:"ok"`
	Output string `json:"output"`
	Error  string `json:"error"`
}
