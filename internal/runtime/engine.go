package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/aretw0/modassist/internal/interpreter"
	"github.com/aretw0/modassist/internal/logging"
	"github.com/aretw0/modassist/internal/validator"
	"github.com/aretw0/modassist/pkg/domain"
	"github.com/aretw0/modassist/pkg/ports"
	"github.com/aretw0/modassist/pkg/registry"
)

// MsgEmptyCommand is reported when the command text is blank or too short to match.
const MsgEmptyCommand = "Please enter a command"

// Engine orchestrates one invocation: interpret, capture, validate, execute, report.
// It is not safe for concurrent use; hosts serialize invocations.
type Engine struct {
	reg         *registry.Registry
	scene       ports.SceneGraph
	interpreter *interpreter.Interpreter
	validator   *validator.Validator
	executor    *Executor
	reporter    ports.Reporter
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	budgets     Budgets
	rollback    RollbackPolicy
	newID       func() string
	now         func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger shared by the engine and its executor.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithReporter sets the host feedback channel.
func WithReporter(r ports.Reporter) EngineOption {
	return func(e *Engine) {
		if r != nil {
			e.reporter = r
		}
	}
}

// WithRollbackPolicy selects how failed executions are reverted.
func WithRollbackPolicy(p RollbackPolicy) EngineOption {
	return func(e *Engine) {
		e.rollback = p
	}
}

// WithBudgets overrides the soft time budgets.
func WithBudgets(b Budgets) EngineOption {
	return func(e *Engine) {
		e.budgets = b
	}
}

// WithIDGenerator replaces the invocation ID source.
func WithIDGenerator(gen func() string) EngineOption {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// WithClock replaces the time source used for budgets and event timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine wires the pipeline over reg and scene.
func NewEngine(reg *registry.Registry, scene ports.SceneGraph, opts ...EngineOption) (*Engine, error) {
	if reg == nil {
		return nil, errors.New("registry is required")
	}
	if scene == nil {
		return nil, errors.New("scene is required")
	}

	e := &Engine{
		reg:         reg,
		scene:       scene,
		interpreter: interpreter.New(reg),
		validator:   validator.New(reg),
		reporter:    ports.NopReporter,
		logger:      logging.NewNop(),
		budgets:     DefaultBudgets(),
		rollback:    RollbackHost,
		newID:       uuid.NewString,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	x, err := NewExecutor(reg, scene,
		WithExecutorLogger(e.logger),
		WithExecutorHooks(e.hooks),
		WithExecutorRollback(e.rollback),
		withExecutorClock(e.now),
	)
	if err != nil {
		return nil, err
	}
	e.executor = x
	return e, nil
}

// Registry returns the workflow table the engine resolves against.
func (e *Engine) Registry() *registry.Registry { return e.reg }

// Selection captures the current selection without running anything.
func (e *Engine) Selection(ctx context.Context) (domain.SelectionSnapshot, error) {
	return Capture(ctx, e.scene)
}

// admission is what the pre-execution stages hand to the executor.
type admission struct {
	cmd  domain.Command
	def  registry.Definition
	snap domain.SelectionSnapshot
	res  domain.ValidationResult
}

// Invoke runs one command end to end. It always returns an outcome, reports it to the
// host exactly once and never panics on host failures.
func (e *Engine) Invoke(ctx context.Context, text string) (out domain.Outcome) {
	start := e.now()
	id := e.newID()
	ctx = WithInvocationID(ctx, id)

	defer func() {
		if p := recover(); p != nil {
			e.logger.ErrorContext(ctx, "invocation panicked", "invocation", id, "panic", p)
			out = cancelled(id, out.Command, domain.CodeExecutionFailure, fmt.Sprintf("Internal error: %v", p))
		}
		elapsed := e.now().Sub(start)
		e.checkBudget(ctx, id, StageTotal, elapsed)
		if e.hooks.OnInvocationDone != nil {
			e.hooks.OnInvocationDone(ctx, &domain.InvocationEvent{
				EventBase: e.event(id, domain.EventInvocationDone),
				Outcome:   out,
				Elapsed:   elapsed,
			})
		}
		e.reporter.Report(out.Level, out.Message)
	}()

	adm, rejected, ok := e.admit(ctx, id, text)
	if !ok {
		return rejected
	}

	res := e.execute(ctx, id, adm)
	out = domain.Outcome{
		InvocationID: id,
		Command:      adm.cmd,
		Validation:   adm.res,
		Execution:    &res,
		Message:      res.Message,
	}
	if res.Succeeded() {
		out.Status = domain.OutcomeCompleted
		out.Level = domain.LevelInfo
		return out
	}

	out.Status = domain.OutcomeCancelled
	out.Level = domain.LevelError
	out.Code = domain.CodeOf(res.Err)
	if out.Code == domain.CodeNone {
		out.Code = domain.CodeExecutionFailure
	}
	return out
}

// Check runs interpretation and validation only. It never mutates the scene and
// never reports to the host.
func (e *Engine) Check(ctx context.Context, text string) domain.Outcome {
	id := e.newID()
	ctx = WithInvocationID(ctx, id)

	adm, rejected, ok := e.admit(ctx, id, text)
	if !ok {
		return rejected
	}
	return domain.Outcome{
		InvocationID: id,
		Status:       domain.OutcomeCompleted,
		Level:        domain.LevelInfo,
		Message:      fmt.Sprintf("%s can run on %s", adm.def.Title, adm.snap.Summary()),
		Command:      adm.cmd,
		Validation:   adm.res,
	}
}

// admit interprets text, captures the selection and validates it. When the invocation
// cannot proceed it returns the cancelled outcome and false.
func (e *Engine) admit(ctx context.Context, id, text string) (admission, domain.Outcome, bool) {
	logger := e.logger.With("invocation", id)

	text, err := interpreter.Sanitize(text)
	if err != nil {
		logger.InfoContext(ctx, "command rejected", "err", err)
		return admission{}, cancelled(id, domain.Command{}, domain.CodeCommandNotRecognized, fmt.Sprintf("Command rejected: %v", err)), false
	}
	logger.DebugContext(ctx, "invocation started", "text", text)

	if utf8.RuneCountInString(interpreter.Normalize(text)) < interpreter.MinCommandLength {
		return admission{}, cancelled(id, domain.Command{Raw: text}, domain.CodeCommandNotRecognized, MsgEmptyCommand), false
	}

	t := e.now()
	cmd := e.interpreter.Resolve(text)
	e.checkBudget(ctx, id, StageInterpret, e.now().Sub(t))
	logger.DebugContext(ctx, "command resolved", "workflow", cmd.Workflow, "keyword", cmd.Keyword)
	if e.hooks.OnCommandResolved != nil {
		e.hooks.OnCommandResolved(ctx, &domain.CommandEvent{
			EventBase: e.event(id, domain.EventCommandResolved),
			Command:   cmd,
		})
	}
	if !cmd.Recognized() {
		logger.InfoContext(ctx, "command not recognized", "text", text)
		return admission{}, cancelled(id, cmd, domain.CodeCommandNotRecognized, interpreter.HelpMessage(e.reg)), false
	}

	snap, err := Capture(ctx, e.scene)
	if err != nil {
		logger.ErrorContext(ctx, "selection capture failed", "err", err)
		return admission{}, cancelled(id, cmd, domain.CodeExecutionFailure, fmt.Sprintf("Could not read the selection: %v", err)), false
	}

	t = e.now()
	res := e.validator.Validate(cmd.Workflow, snap)
	e.checkBudget(ctx, id, StageValidate, e.now().Sub(t))
	if e.hooks.OnValidated != nil {
		e.hooks.OnValidated(ctx, &domain.ValidationEvent{
			EventBase: e.event(id, domain.EventValidated),
			Workflow:  cmd.Workflow,
			Result:    res,
		})
	}
	if !res.Valid {
		logger.InfoContext(ctx, "validation failed", "workflow", cmd.Workflow, "code", res.Code, "selection", snap.Summary())
		out := cancelled(id, cmd, res.Code, res.Message)
		out.Validation = res
		return admission{}, out, false
	}

	def, _ := e.reg.Lookup(cmd.Workflow)
	return admission{cmd: cmd, def: def, snap: snap, res: res}, domain.Outcome{}, true
}

// execute runs the admitted workflow inside one host undo group.
func (e *Engine) execute(ctx context.Context, id string, adm admission) domain.ExecutionResult {
	if rec, ok := e.scene.(ports.UndoRecorder); ok {
		rec.BeginUndoGroup(adm.def.Title)
		defer rec.EndUndoGroup()
	}

	t := e.now()
	res := e.executor.Execute(ctx, adm.cmd.Workflow, adm.snap)
	e.checkBudget(ctx, id, StageExecute, e.now().Sub(t))
	return res
}

func (e *Engine) event(id string, t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: e.now(), Type: t, InvocationID: id}
}

func cancelled(id string, cmd domain.Command, code domain.ErrorCode, message string) domain.Outcome {
	return domain.Outcome{
		InvocationID: id,
		Status:       domain.OutcomeCancelled,
		Level:        domain.LevelError,
		Message:      message,
		Code:         code,
		Command:      cmd,
	}
}
