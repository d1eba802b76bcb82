package runtime_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/modassist/internal/runtime"
	"github.com/aretw0/modassist/pkg/adapters/memory"
	"github.com/aretw0/modassist/pkg/domain"
	"github.com/aretw0/modassist/pkg/ports"
	"github.com/aretw0/modassist/pkg/registry"
)

type report struct {
	Level   domain.Level
	Message string
}

type recorder struct{ reports []report }

func (r *recorder) Report(level domain.Level, message string) {
	r.reports = append(r.reports, report{level, message})
}

func newEngine(t *testing.T, s ports.SceneGraph, opts ...runtime.EngineOption) (*runtime.Engine, *recorder) {
	t.Helper()
	rec := &recorder{}
	n := 0
	opts = append([]runtime.EngineOption{
		runtime.WithReporter(rec),
		runtime.WithIDGenerator(func() string { n++; return fmt.Sprintf("inv-%d", n) }),
	}, opts...)
	e, err := runtime.NewEngine(registry.Default(), s, opts...)
	require.NoError(t, err)
	return e, rec
}

func TestInvoke_Completed(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "", "planeA")
	e, rec := newEngine(t, s)

	out := e.Invoke(context.Background(), "Add some THICKNESS please")

	assert.Equal(t, domain.OutcomeCompleted, out.Status)
	assert.Equal(t, domain.LevelInfo, out.Level)
	assert.Equal(t, "inv-1", out.InvocationID)
	assert.Equal(t, domain.Solidify, out.Command.Workflow)
	assert.Equal(t, "thickness", out.Command.Keyword)
	assert.True(t, out.Validation.Valid)
	require.NotNil(t, out.Execution)
	assert.Equal(t, []string{"Solidify"}, out.Execution.Stages)
	assert.Equal(t, []report{{domain.LevelInfo, out.Message}}, rec.reports)
	assert.Equal(t, []string{"Solidify"}, s.UndoLabels(), "one undo entry named after the workflow")
}

func TestInvoke_Cancelled(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		active   string
		selected []string
		code     domain.ErrorCode
		message  string
	}{
		{
			name:    "blank",
			text:    "   ",
			code:    domain.CodeCommandNotRecognized,
			message: "Please enter a command",
		},
		{
			name:    "too short",
			text:    " ab ",
			code:    domain.CodeCommandNotRecognized,
			message: "Please enter a command",
		},
		{
			name:    "invalid utf8",
			text:    "mirror \xff",
			code:    domain.CodeCommandNotRecognized,
			message: "Command rejected: command contains invalid UTF-8 sequences",
		},
		{
			name:    "unrecognized",
			text:    "make it pretty",
			code:    domain.CodeCommandNotRecognized,
			message: "Command not understood. Try: 'make array', 'hard-surface', 'mirror', 'curve deform', 'solidify', or 'shrinkwrap'",
		},
		{
			name:    "nothing selected",
			text:    "mirror",
			code:    domain.CodeNoSelection,
			message: "Please select an object first",
		},
		{
			name:     "wrong types",
			text:     "symmetrize",
			active:   "meshA",
			selected: []string{"meshA", "lightB"},
			code:     domain.CodeWrongObjectTypes,
			message:  "This command requires a mesh object to be selected",
		},
		{
			name:     "wrong count",
			text:     "shrinkwrap",
			active:   "meshA",
			selected: []string{"meshA"},
			code:     domain.CodeWrongObjectCount,
			message:  "This command requires 2 selected object(s), but 1 are selected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := studio(t)
			selectIn(t, s, tt.active, tt.selected...)
			before := s.File()
			e, rec := newEngine(t, s)

			out := e.Invoke(context.Background(), tt.text)

			assert.Equal(t, domain.OutcomeCancelled, out.Status)
			assert.Equal(t, domain.LevelError, out.Level)
			assert.Equal(t, tt.code, out.Code)
			assert.Equal(t, tt.message, out.Message)
			assert.Nil(t, out.Execution, "execution must not be admitted")
			assert.Equal(t, []report{{domain.LevelError, tt.message}}, rec.reports)
			assert.Equal(t, before, s.File(), "pre-execution failures have no side effects")
			assert.Empty(t, s.UndoLabels())
		})
	}
}

func TestInvoke_WrongModeNamesBothModes(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "meshA", "meshA")
	require.NoError(t, s.SetMode(context.Background(), "meshA", domain.ModeEdit))
	e, _ := newEngine(t, s)

	out := e.Invoke(context.Background(), "hard surface")

	assert.Equal(t, domain.CodeWrongMode, out.Code)
	assert.Equal(t, "This command must be run in object mode (currently in edit mode)", out.Message)
}

// A failed multi-step workflow under the host policy is reverted by a single undo.
func TestInvoke_FailureRevertedBySingleUndo(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "meshA", "meshA", "curveB")
	require.NoError(t, s.LockScale("curveB", true))
	before := s.File()
	e, rec := newEngine(t, s)

	out := e.Invoke(context.Background(), "curve deform")

	assert.Equal(t, domain.OutcomeCancelled, out.Status)
	assert.Equal(t, domain.CodePrerequisiteFailure, out.Code)
	require.NotNil(t, out.Execution)
	assert.Equal(t, []string{"meshA"}, out.Execution.Affected)
	require.Len(t, rec.reports, 1)
	assert.Equal(t, domain.LevelError, rec.reports[0].Level)

	assert.NotEqual(t, before, s.File(), "the first normalization was applied")
	assert.Equal(t, []string{"Curve Deform"}, s.UndoLabels())

	_, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, before, s.File())
}

func TestInvoke_CompensatePolicy(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "meshA", "meshA", "curveB")
	require.NoError(t, s.LockScale("curveB", true))
	before := s.File()
	e, _ := newEngine(t, s, runtime.WithRollbackPolicy(runtime.RollbackCompensate))

	out := e.Invoke(context.Background(), "deform along the path")

	assert.Equal(t, domain.OutcomeCancelled, out.Status)
	assert.Contains(t, out.Message, "(changes rolled back)")
	assert.Equal(t, before, s.File())
}

func TestInvoke_SuccessUndoneAsOneAction(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "meshA", "meshA")
	before := s.File()
	e, _ := newEngine(t, s)

	out := e.Invoke(context.Background(), "mirror")
	require.Equal(t, domain.OutcomeCompleted, out.Status, out.Message)

	assert.Equal(t, []string{"Symmetrize"}, s.UndoLabels())
	_, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, before, s.File())
}

func TestInvoke_CaptureFailure(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "meshA", "meshA")
	e, rec := newEngine(t, brokenReader{s})

	out := e.Invoke(context.Background(), "solidify")

	assert.Equal(t, domain.OutcomeCancelled, out.Status)
	assert.Equal(t, domain.CodeExecutionFailure, out.Code)
	assert.Contains(t, out.Message, "Could not read the selection")
	assert.Len(t, rec.reports, 1)
}

func TestInvoke_PanicBecomesCancelledOutcome(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "planeA", "planeA")
	e, rec := newEngine(t, panickyScene{s})

	out := e.Invoke(context.Background(), "solidify")

	assert.Equal(t, domain.OutcomeCancelled, out.Status)
	assert.Equal(t, domain.CodeExecutionFailure, out.Code)
	assert.Equal(t, "Internal error: host crashed", out.Message)
	assert.Len(t, rec.reports, 1)

	_, ok := s.Undo()
	assert.False(t, ok, "the undo group was closed and stayed empty")
}

func TestInvoke_Hooks(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "", "planeA")

	var events []domain.EventType
	record := func(t domain.EventType) { events = append(events, t) }
	e, _ := newEngine(t, s, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnCommandResolved: func(_ context.Context, ev *domain.CommandEvent) { record(ev.Type) },
		OnValidated:       func(_ context.Context, ev *domain.ValidationEvent) { record(ev.Type) },
		OnWorkflowDone:    func(_ context.Context, ev *domain.WorkflowEvent) { record(ev.Type) },
		OnInvocationDone:  func(_ context.Context, ev *domain.InvocationEvent) { record(ev.Type) },
	}))

	e.Invoke(context.Background(), "solidify")

	assert.Equal(t, []domain.EventType{
		domain.EventCommandResolved,
		domain.EventValidated,
		domain.EventWorkflowDone,
		domain.EventInvocationDone,
	}, events)
}

func TestInvoke_BudgetsAreSoft(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "", "planeA")

	clock := time.Unix(0, 0)
	tick := func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	var stages []string
	e, _ := newEngine(t, s,
		runtime.WithClock(tick),
		runtime.WithLifecycleHooks(domain.LifecycleHooks{
			OnBudgetExceeded: func(_ context.Context, ev *domain.BudgetEvent) {
				stages = append(stages, ev.Stage)
				assert.Greater(t, ev.Elapsed, ev.Budget)
			},
		}),
	)

	out := e.Invoke(context.Background(), "solidify")

	assert.Equal(t, domain.OutcomeCompleted, out.Status, "overruns never stop a workflow")
	assert.Equal(t, []string{"interpret", "validate", "execute", "total"}, stages)
}

func TestInvoke_ZeroBudgetsAreNotChecked(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "", "planeA")

	clock := time.Unix(0, 0)
	called := false
	e, _ := newEngine(t, s,
		runtime.WithBudgets(runtime.Budgets{}),
		runtime.WithClock(func() time.Time { clock = clock.Add(time.Hour); return clock }),
		runtime.WithLifecycleHooks(domain.LifecycleHooks{
			OnBudgetExceeded: func(context.Context, *domain.BudgetEvent) { called = true },
		}),
	)

	e.Invoke(context.Background(), "solidify")
	assert.False(t, called)
}

func TestCheck_DoesNotMutateOrReport(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "meshA", "meshA", "curveB")
	before := s.File()
	e, rec := newEngine(t, s)

	out := e.Check(context.Background(), "curve deform")

	assert.Equal(t, domain.OutcomeCompleted, out.Status)
	assert.Equal(t, "Curve Deform can run on 2 selected (1 curve, 1 mesh), object mode", out.Message)
	assert.Nil(t, out.Execution)
	assert.Empty(t, rec.reports)
	assert.Equal(t, before, s.File())

	out = e.Check(context.Background(), "shrinkwrap")
	assert.Equal(t, domain.CodeWrongObjectTypes, out.Code)
}

func TestInvoke_ScenarioCreateArray(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "meshB", "meshB")
	e, _ := newEngine(t, s)

	out := e.Invoke(context.Background(), "create an array")
	assert.Equal(t, domain.SmartArray, out.Command.Workflow)
	assert.Equal(t, domain.OutcomeCompleted, out.Status, out.Message)
}

func TestNewEngine_Errors(t *testing.T) {
	s := studio(t)

	_, err := runtime.NewEngine(nil, s)
	assert.Error(t, err)

	_, err = runtime.NewEngine(registry.Default(), nil)
	assert.Error(t, err)

	_, err = runtime.NewEngine(registry.Default(), sceneOnly{s}, runtime.WithRollbackPolicy(runtime.RollbackCompensate))
	assert.Error(t, err)
}

type brokenReader struct{ *memory.Scene }

func (brokenReader) Selection(context.Context) (domain.SelectionState, error) {
	return domain.SelectionState{}, errors.New("host is busy")
}

type panickyScene struct{ *memory.Scene }

func (panickyScene) InsertStage(context.Context, string, domain.StageSpec) error {
	panic("host crashed")
}
