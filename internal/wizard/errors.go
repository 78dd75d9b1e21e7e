package wizard

import "fmt"

// GuardError reports a missing precondition caught before any collaborator
// call is made. Guard failures never change session state.
type GuardError struct {
	Requirement string
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("precondition not met: %s", e.Requirement)
}

// PipelineError represents a run-level analysis failure: zero successful
// interviews, or a failed synthesis call.
type PipelineError struct {
	Message string
	Cause   error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("analysis failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("analysis failed: %s", e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}
