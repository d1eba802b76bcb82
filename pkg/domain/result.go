package domain

import "time"

// ValidationResult is the verdict of the context validator.
// Valid is true exactly when Code is CodeNone.
type ValidationResult struct {
	Valid   bool
	Code    ErrorCode
	Message string
}

// Passed returns a valid result.
func Passed() ValidationResult {
	return ValidationResult{Valid: true, Code: CodeNone}
}

// Failed returns an invalid result with the given code and message.
func Failed(code ErrorCode, message string) ValidationResult {
	return ValidationResult{Valid: false, Code: code, Message: message}
}

// Err converts a failed result into a *Error. It returns nil for a valid result.
func (v ValidationResult) Err(workflow WorkflowID) error {
	if v.Valid {
		return nil
	}
	return &Error{Code: v.Code, Workflow: workflow, Message: v.Message}
}

// ExecutionStatus is the terminal status of one executor run.
type ExecutionStatus string

const (
	ExecSuccess   ExecutionStatus = "success"
	ExecCancelled ExecutionStatus = "cancelled"
	ExecError     ExecutionStatus = "error"
)

// ExecutionResult is produced once per executor run.
type ExecutionResult struct {
	Status   ExecutionStatus
	Workflow WorkflowID
	Message  string
	Affected []string // entity names touched, in first-touch order
	Stages   []string // stage names actually inserted
	Phase    Phase    // last phase reached (PhaseCompleted or PhaseFailed)
	Elapsed  time.Duration
	Err      error
}

// Succeeded reports whether the run completed.
func (r ExecutionResult) Succeeded() bool { return r.Status == ExecSuccess }

// OutcomeStatus is what the host sees for one invocation.
type OutcomeStatus string

const (
	OutcomeCompleted OutcomeStatus = "completed"
	OutcomeCancelled OutcomeStatus = "cancelled"
)

// Level is the severity of a user-facing report.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Outcome is the single result of an orchestrated invocation.
type Outcome struct {
	InvocationID string
	Status       OutcomeStatus
	Level        Level
	Message      string
	Code         ErrorCode
	Command      Command
	Validation   ValidationResult
	Execution    *ExecutionResult // nil when execution was never admitted
}
