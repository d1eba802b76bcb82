package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors reported by hosts and adapters.
var (
	// ErrEntityNotFound is returned when the host has no entity with the given name.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrModeRejected is returned when the host refuses a mode transition.
	ErrModeRejected = errors.New("mode change rejected")

	// ErrStageRejected is returned when the host refuses a stage or its parameters.
	ErrStageRejected = errors.New("stage rejected")

	// ErrTransformRejected is returned when the host refuses a transform normalization.
	ErrTransformRejected = errors.New("transform rejected")

	// ErrUnknownWorkflow is returned for an identifier outside the registered set.
	ErrUnknownWorkflow = errors.New("unknown workflow")

	// ErrInvalidSnapshot is returned when a selection violates snapshot invariants.
	ErrInvalidSnapshot = errors.New("invalid selection snapshot")
)

// ErrorCode categorizes assistant failures.
type ErrorCode string

const (
	CodeNone ErrorCode = ""

	// Pre-execution codes: raised before any mutation.
	CodeCommandNotRecognized ErrorCode = "COMMAND_NOT_RECOGNIZED"
	CodeNoSelection          ErrorCode = "NO_SELECTION"
	CodeWrongObjectCount     ErrorCode = "WRONG_OBJECT_COUNT"
	CodeWrongObjectTypes     ErrorCode = "WRONG_OBJECT_TYPES"
	CodeWrongMode            ErrorCode = "WRONG_MODE"

	// Mid-execution codes: earlier steps may already have mutated the scene.
	CodePrerequisiteFailure ErrorCode = "PREREQUISITE_FAILURE"
	CodeExecutionFailure    ErrorCode = "EXECUTION_FAILURE"
)

// PreExecution reports whether the code is raised before any mutation.
func (c ErrorCode) PreExecution() bool {
	switch c {
	case CodeCommandNotRecognized, CodeNoSelection, CodeWrongObjectCount, CodeWrongObjectTypes, CodeWrongMode:
		return true
	}
	return false
}

// Error is a coded assistant failure.
type Error struct {
	Code     ErrorCode
	Workflow WorkflowID
	Step     string
	Entity   string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf extracts the ErrorCode of err, or CodeNone.
func CodeOf(err error) ErrorCode {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeNone
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
