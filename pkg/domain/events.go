package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventCommandResolved EventType = "command_resolved"
	EventValidated       EventType = "validated"
	EventPhase           EventType = "phase"
	EventStepApplied     EventType = "step_applied"
	EventWorkflowDone    EventType = "workflow_done"
	EventBudgetExceeded  EventType = "budget_exceeded"
	EventInvocationDone  EventType = "invocation_done"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp    time.Time `json:"timestamp"`
	Type         EventType `json:"type"`
	InvocationID string    `json:"invocation_id"`
}

// CommandEvent reports interpretation of the raw text.
type CommandEvent struct {
	EventBase
	Command Command `json:"command"`
}

// ValidationEvent reports the validator verdict.
type ValidationEvent struct {
	EventBase
	Workflow WorkflowID       `json:"workflow"`
	Result   ValidationResult `json:"result"`
}

// StepEvent reports a phase transition or an applied step.
type StepEvent struct {
	EventBase
	Workflow WorkflowID `json:"workflow"`
	Phase    Phase      `json:"phase"`
	Step     string     `json:"step,omitempty"`
	Kind     StepKind   `json:"kind,omitempty"`
	Entity   string     `json:"entity,omitempty"`
}

// WorkflowEvent reports the end of an executor run.
type WorkflowEvent struct {
	EventBase
	Result ExecutionResult `json:"result"`
}

// BudgetEvent reports a soft performance budget overrun.
type BudgetEvent struct {
	EventBase
	Stage   string        `json:"stage"`
	Budget  time.Duration `json:"budget"`
	Elapsed time.Duration `json:"elapsed"`
}

// InvocationEvent reports the outcome handed to the host.
type InvocationEvent struct {
	EventBase
	Outcome Outcome       `json:"outcome"`
	Elapsed time.Duration `json:"elapsed"`
}

// LifecycleHooks defines callbacks for engine observability. Nil hooks are skipped.
type LifecycleHooks struct {
	OnCommandResolved func(context.Context, *CommandEvent)
	OnValidated       func(context.Context, *ValidationEvent)
	OnPhase           func(context.Context, *StepEvent)
	OnStepApplied     func(context.Context, *StepEvent)
	OnWorkflowDone    func(context.Context, *WorkflowEvent)
	OnBudgetExceeded  func(context.Context, *BudgetEvent)
	OnInvocationDone  func(context.Context, *InvocationEvent)
}

// Merge returns hooks that call h first, then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnCommandResolved: chain(h.OnCommandResolved, other.OnCommandResolved),
		OnValidated:       chain(h.OnValidated, other.OnValidated),
		OnPhase:           chain(h.OnPhase, other.OnPhase),
		OnStepApplied:     chain(h.OnStepApplied, other.OnStepApplied),
		OnWorkflowDone:    chain(h.OnWorkflowDone, other.OnWorkflowDone),
		OnBudgetExceeded:  chain(h.OnBudgetExceeded, other.OnBudgetExceeded),
		OnInvocationDone:  chain(h.OnInvocationDone, other.OnInvocationDone),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
