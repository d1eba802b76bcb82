package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/modassist/internal/logging"
	"github.com/aretw0/modassist/internal/validator"
	"github.com/aretw0/modassist/pkg/domain"
	"github.com/aretw0/modassist/pkg/ports"
	"github.com/aretw0/modassist/pkg/registry"
)

// Executor runs workflow procedures against the scene. It is the only component
// that mutates the scene.
type Executor struct {
	reg      *registry.Registry
	scene    ports.SceneGraph
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	rollback RollbackPolicy
	cp       ports.Checkpointer
	now      func() time.Time
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithExecutorLogger sets the executor's structured logger.
func WithExecutorLogger(logger *slog.Logger) ExecutorOption {
	return func(x *Executor) {
		if logger != nil {
			x.logger = logger
		}
	}
}

// WithExecutorHooks registers lifecycle hooks for phases, steps and completion.
func WithExecutorHooks(hooks domain.LifecycleHooks) ExecutorOption {
	return func(x *Executor) {
		x.hooks = hooks
	}
}

// WithExecutorRollback selects the rollback policy. RollbackCompensate requires a
// scene implementing ports.Checkpointer.
func WithExecutorRollback(p RollbackPolicy) ExecutorOption {
	return func(x *Executor) {
		x.rollback = p
	}
}

func withExecutorClock(now func() time.Time) ExecutorOption {
	return func(x *Executor) {
		if now != nil {
			x.now = now
		}
	}
}

// NewExecutor creates an executor for the workflows of reg over scene.
func NewExecutor(reg *registry.Registry, scene ports.SceneGraph, opts ...ExecutorOption) (*Executor, error) {
	x := &Executor{
		reg:      reg,
		scene:    scene,
		logger:   logging.NewNop(),
		rollback: RollbackHost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(x)
	}

	switch x.rollback {
	case RollbackHost:
	case RollbackCompensate:
		cp, ok := scene.(ports.Checkpointer)
		if !ok {
			return nil, fmt.Errorf("rollback policy %q needs a scene that supports checkpoints", x.rollback)
		}
		x.cp = cp
	default:
		return nil, fmt.Errorf("unknown rollback policy %q", x.rollback)
	}
	return x, nil
}

// run is the state of one execution.
type run struct {
	invocation string
	workflow   domain.WorkflowID
	phase      domain.Phase
	start      time.Time
	affected   []string
	touched    map[string]bool
	stages     []string
	journal    *journal
}

func (r *run) affect(name string) {
	if name == "" || r.touched[name] {
		return
	}
	r.touched[name] = true
	r.affected = append(r.affected, name)
}

// Execute runs the procedure of workflow against snap.
//
// The variant is re-derived from snap and the full requirement is re-checked, so a
// selection the validator would reject never reaches the scene. Steps run strictly in
// procedure order and the first failing step ends the run.
func (x *Executor) Execute(ctx context.Context, workflow domain.WorkflowID, snap domain.SelectionSnapshot) domain.ExecutionResult {
	r := &run{
		invocation: InvocationID(ctx),
		workflow:   workflow,
		phase:      domain.PhasePreparing,
		start:      x.now(),
		touched:    make(map[string]bool),
	}
	var cp ports.Checkpointer
	if x.rollback == RollbackCompensate {
		cp = x.cp
	}
	r.journal = newJournal(cp, x.logger)
	x.enter(ctx, r, domain.PhasePreparing)

	def, ok := x.reg.Lookup(workflow)
	if !ok {
		return x.refuse(ctx, r, &domain.Error{
			Code:     domain.CodeExecutionFailure,
			Workflow: workflow,
			Message:  fmt.Sprintf("unknown workflow %s", workflow),
			Err:      domain.ErrUnknownWorkflow,
		})
	}
	if res := validator.Check(def, snap); !res.Valid {
		return x.refuse(ctx, r, &domain.Error{
			Code:     domain.CodeExecutionFailure,
			Workflow: workflow,
			Message:  "selection was not admitted",
			Err:      res.Err(workflow),
		})
	}
	variant, _ := def.Match(snap)
	bindings, err := registry.Bind(variant, snap)
	if err != nil {
		return x.refuse(ctx, r, &domain.Error{
			Code:     domain.CodeExecutionFailure,
			Workflow: workflow,
			Message:  "could not bind the selection",
			Err:      err,
		})
	}

	for _, step := range variant.Procedure {
		if p := step.Phase(); p != r.phase {
			x.enter(ctx, r, p)
		}
		if err := x.apply(ctx, r, step, bindings); err != nil {
			return x.fail(ctx, r, err)
		}
	}

	x.enter(ctx, r, domain.PhaseCompleted)
	return x.finish(ctx, r, domain.ExecSuccess, summarize(variant.Summary, bindings), nil)
}

// apply dispatches one step to the scene.
func (x *Executor) apply(ctx context.Context, r *run, step domain.ProcedureStep, b registry.Bindings) *domain.Error {
	subject := b.Name(step.Subject)
	reference := b.Name(step.Reference)

	code := domain.CodeExecutionFailure
	if step.Kind == domain.StepPrerequisite {
		code = domain.CodePrerequisiteFailure
	}
	failure := func(message string, err error) *domain.Error {
		return &domain.Error{
			Code:     code,
			Workflow: r.workflow,
			Step:     step.Label(),
			Entity:   subject,
			Message:  message,
			Err:      err,
		}
	}

	if err := r.journal.touch(ctx, subject); err != nil {
		return failure(fmt.Sprintf("could not checkpoint %s", subject), err)
	}

	attrs := []any{"workflow", r.workflow, "step", step.Label(), "entity", subject}
	switch {
	case step.Kind == domain.StepStage:
		if step.Stage == nil {
			return failure("stage step without a stage", domain.ErrStageRejected)
		}
		spec := *step.Stage
		if step.Reference != domain.RoleNone {
			spec = spec.WithReference(reference)
		}
		if err := x.scene.InsertStage(ctx, subject, spec); err != nil {
			return failure(fmt.Sprintf("could not insert %s stage on %s", spec.Name, subject), err)
		}
		r.stages = append(r.stages, spec.Name)

	case step.Action == domain.ActionNormalizeScale:
		if err := x.scene.NormalizeScale(ctx, subject); err != nil {
			return failure(fmt.Sprintf("could not normalize scale on %s", subject), err)
		}

	case step.Action == domain.ActionAlignOrigin:
		if err := x.scene.AlignOrigin(ctx, subject, reference); err != nil {
			return failure(fmt.Sprintf("could not align origin of %s to %s", subject, reference), err)
		}

	case step.Action == domain.ActionDeleteHalfSpace:
		var deleted int
		err := withEditMode(ctx, x.scene, subject, func() error {
			if _, err := x.scene.SelectPoints(ctx, subject, step.Region); err != nil {
				return err
			}
			n, err := x.scene.DeleteSelectedPoints(ctx, subject)
			deleted = n
			return err
		})
		if err != nil {
			return failure(fmt.Sprintf("could not delete %s geometry on %s", step.Region, subject), err)
		}
		attrs = append(attrs, "deleted", deleted)

	case step.Action == domain.ActionShadeSmooth:
		if err := x.scene.SetShading(ctx, subject, domain.ShadingSmooth); err != nil {
			return failure(fmt.Sprintf("could not shade %s smooth", subject), err)
		}

	default:
		return failure(fmt.Sprintf("unsupported step %q", step.Label()), nil)
	}

	r.affect(subject)
	x.logger.DebugContext(ctx, "step applied", attrs...)
	if x.hooks.OnStepApplied != nil {
		x.hooks.OnStepApplied(ctx, &domain.StepEvent{
			EventBase: x.event(r, domain.EventStepApplied),
			Workflow:  r.workflow,
			Phase:     r.phase,
			Step:      step.Label(),
			Kind:      step.Kind,
			Entity:    subject,
		})
	}
	return nil
}

func (x *Executor) enter(ctx context.Context, r *run, p domain.Phase) {
	r.phase = p
	x.logger.DebugContext(ctx, "phase", "workflow", r.workflow, "phase", p)
	if x.hooks.OnPhase != nil {
		x.hooks.OnPhase(ctx, &domain.StepEvent{
			EventBase: x.event(r, domain.EventPhase),
			Workflow:  r.workflow,
			Phase:     p,
		})
	}
}

// refuse ends a run that never reached the scene.
func (x *Executor) refuse(ctx context.Context, r *run, de *domain.Error) domain.ExecutionResult {
	x.enter(ctx, r, domain.PhaseFailed)
	return x.finish(ctx, r, domain.ExecCancelled, describe(de), de)
}

// fail ends a run after a step failed, unwinding the compensation journal if one was kept.
func (x *Executor) fail(ctx context.Context, r *run, de *domain.Error) domain.ExecutionResult {
	x.enter(ctx, r, domain.PhaseFailed)
	x.logger.ErrorContext(ctx, "step failed",
		"workflow", r.workflow, "step", de.Step, "entity", de.Entity, "code", de.Code, "err", de.Err)

	message := describe(de)
	var err error = de
	if r.journal.Len() > 0 {
		if uerr := r.journal.unwind(ctx); uerr != nil {
			err = fmt.Errorf("%w; rollback incomplete: %w", de, uerr)
			message += " (rollback incomplete)"
		} else {
			message += " (changes rolled back)"
		}
	}
	return x.finish(ctx, r, domain.ExecError, message, err)
}

func (x *Executor) finish(ctx context.Context, r *run, status domain.ExecutionStatus, message string, err error) domain.ExecutionResult {
	res := domain.ExecutionResult{
		Status:   status,
		Workflow: r.workflow,
		Message:  message,
		Affected: r.affected,
		Stages:   r.stages,
		Phase:    r.phase,
		Elapsed:  x.now().Sub(r.start),
		Err:      err,
	}
	x.logger.InfoContext(ctx, "workflow finished",
		"workflow", r.workflow, "status", status, "phase", r.phase, "elapsed", res.Elapsed)
	if x.hooks.OnWorkflowDone != nil {
		x.hooks.OnWorkflowDone(ctx, &domain.WorkflowEvent{
			EventBase: x.event(r, domain.EventWorkflowDone),
			Result:    res,
		})
	}
	return res
}

func (x *Executor) event(r *run, t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: x.now(), Type: t, InvocationID: r.invocation}
}

// describe renders a failure for the user, e.g. "could not normalize scale on Cube: transform rejected".
func describe(de *domain.Error) string {
	if de.Err == nil {
		return de.Message
	}
	return fmt.Sprintf("%s: %v", de.Message, de.Err)
}

// summarize fills role placeholders such as {target} in a success message.
func summarize(summary string, b registry.Bindings) string {
	pairs := make([]string, 0, 2*len(b))
	for role, e := range b {
		pairs = append(pairs, "{"+string(role)+"}", e.Name)
	}
	return strings.NewReplacer(pairs...).Replace(summary)
}
