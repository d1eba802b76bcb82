package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/modassist/internal/runtime"
	"github.com/aretw0/modassist/pkg/adapters/memory"
	"github.com/aretw0/modassist/pkg/domain"
	"github.com/aretw0/modassist/pkg/ports"
)

func TestExecute_SolidifyInsertsOneStage(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "", "planeA")
	ctx := context.Background()

	res := newExecutor(t, s).Execute(ctx, domain.Solidify, capture(t, s))

	require.True(t, res.Succeeded(), res.Message)
	assert.Equal(t, "Solidify modifier added (thickness: 0.0100m, even offset enabled)", res.Message)
	assert.Equal(t, []string{"Solidify"}, res.Stages)
	assert.Equal(t, []string{"planeA"}, res.Affected)
	assert.Equal(t, domain.PhaseCompleted, res.Phase)

	stack, err := s.Stack(ctx, "planeA")
	require.NoError(t, err)
	require.Len(t, stack, 1)
	assert.Equal(t, domain.StageSolidify, stack[0].Type)
	assert.Equal(t, 0.01, stack[0].Params["thickness"])
	assert.Equal(t, true, stack[0].Params["even_offset"])
}

func TestExecute_CurveDeform(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "meshA", "meshA", "curveB")
	ctx := context.Background()

	res := newExecutor(t, s).Execute(ctx, domain.CurveDeform, capture(t, s))
	require.True(t, res.Succeeded(), res.Message)
	assert.Equal(t, []string{"meshA", "curveB"}, res.Affected)

	meshA, err := s.Entity(ctx, "meshA")
	require.NoError(t, err)
	curveB, err := s.Entity(ctx, "curveB")
	require.NoError(t, err)
	assert.Equal(t, curveB.Location, meshA.Location, "origin should coincide with the curve's")
	assert.Equal(t, domain.Vec3{1, 1, 1}, meshA.Scale)
	assert.Equal(t, domain.Vec3{1, 1, 1}, curveB.Scale)

	// The whole mesh lands on the curve: scale is baked in, then the object moves.
	points, err := s.Points(ctx, "meshA")
	require.NoError(t, err)
	require.Len(t, points, 4)
	assert.Equal(t, domain.Vec3{2, 0, 0}, points[1])
	world := domain.Vec3{
		meshA.Location[0] + points[1][0],
		meshA.Location[1] + points[1][1],
		meshA.Location[2] + points[1][2],
	}
	assert.Equal(t, domain.Vec3{2, 3, 0}, world)

	stack, err := s.Stack(ctx, "meshA")
	require.NoError(t, err)
	require.Len(t, stack, 1)
	assert.Equal(t, domain.StageCurve, stack[0].Type)
	assert.Equal(t, "curveB", stack[0].Params["object"])
}

func TestExecute_HardSurfaceOrder(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "meshB", "meshB")
	ctx := context.Background()

	var phases []string
	x := newExecutor(t, s, runtime.WithExecutorHooks(domain.LifecycleHooks{
		OnPhase: func(_ context.Context, e *domain.StepEvent) { phases = append(phases, e.Phase.String()) },
	}))

	res := x.Execute(ctx, domain.HardSurface, capture(t, s))
	require.True(t, res.Succeeded(), res.Message)

	stack, err := s.Stack(ctx, "meshB")
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"Bevel", "Subdivision"}, stageNames(stack)); diff != "" {
		t.Errorf("stack order mismatch (-want +got):\n%s", diff)
	}

	meshB, err := s.Entity(ctx, "meshB")
	require.NoError(t, err)
	assert.Equal(t, domain.ShadingSmooth, meshB.Shading)

	want := []string{"preparing", "inserting_stages", "applying_post_actions", "completed"}
	if diff := cmp.Diff(want, phases); diff != "" {
		t.Errorf("phase sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute_Symmetrize(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "meshA", "meshA")
	ctx := context.Background()

	var phases []string
	x := newExecutor(t, s, runtime.WithExecutorHooks(domain.LifecycleHooks{
		OnPhase: func(_ context.Context, e *domain.StepEvent) { phases = append(phases, e.Phase.String()) },
	}))

	res := x.Execute(ctx, domain.Symmetrize, capture(t, s))
	require.True(t, res.Succeeded(), res.Message)
	assert.Equal(t, "Symmetrize applied on X-axis (scale applied, positive X deleted)", res.Message)

	points, err := s.Points(ctx, "meshA")
	require.NoError(t, err)
	assert.Equal(t, []domain.Vec3{{-2, 0, 0}, {0, 2, 0}}, points, "scale baked, strictly positive X removed, plane kept")

	mode, err := s.Mode(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeObject, mode, "prior mode restored")

	want := []string{"preparing", "applying_prerequisites", "inserting_stages", "editing_geometry", "completed"}
	if diff := cmp.Diff(want, phases); diff != "" {
		t.Errorf("phase sequence mismatch (-want +got):\n%s", diff)
	}
}

// Running symmetrize again removes no further geometry but still adds a stage.
func TestExecute_SymmetrizeIsNotIdempotent(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "meshA", "meshA")
	ctx := context.Background()
	x := newExecutor(t, s)

	first := x.Execute(ctx, domain.Symmetrize, capture(t, s))
	require.True(t, first.Succeeded(), first.Message)
	before, err := s.Points(ctx, "meshA")
	require.NoError(t, err)

	second := x.Execute(ctx, domain.Symmetrize, capture(t, s))
	require.True(t, second.Succeeded(), second.Message)

	after, err := s.Points(ctx, "meshA")
	require.NoError(t, err)
	assert.Equal(t, before, after, "no positive-side geometry remains to delete")

	stack, err := s.Stack(ctx, "meshA")
	require.NoError(t, err)
	assert.Equal(t, []string{"Mirror", "Mirror"}, stageNames(stack))
}

func TestExecute_ShrinkwrapUsesActiveAsSource(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "meshB", "meshA", "meshB")
	ctx := context.Background()

	res := newExecutor(t, s).Execute(ctx, domain.Shrinkwrap, capture(t, s))
	require.True(t, res.Succeeded(), res.Message)
	assert.Equal(t, "Shrinkwrap modifier added (target: meshA)", res.Message)

	stack, err := s.Stack(ctx, "meshB")
	require.NoError(t, err)
	require.Len(t, stack, 1)
	assert.Equal(t, "meshA", stack[0].Params["target"])

	untouched, err := s.Stack(ctx, "meshA")
	require.NoError(t, err)
	assert.Empty(t, untouched)
}

func TestExecute_ArrayVariants(t *testing.T) {
	ctx := context.Background()

	t.Run("relative offset", func(t *testing.T) {
		s := studio(t)
		selectIn(t, s, "", "meshB")
		res := newExecutor(t, s).Execute(ctx, domain.SmartArray, capture(t, s))
		require.True(t, res.Succeeded(), res.Message)
		assert.Equal(t, "Array modifier added with 5 copies on X-axis (offset 1.0)", res.Message)

		stack, err := s.Stack(ctx, "meshB")
		require.NoError(t, err)
		require.Len(t, stack, 1)
		assert.Equal(t, 5, stack[0].Params["count"])
		assert.Equal(t, true, stack[0].Params["relative_offset"])
	})

	t.Run("empty as offset control", func(t *testing.T) {
		s := studio(t)
		selectIn(t, s, "emptyC", "emptyC", "meshB")
		res := newExecutor(t, s).Execute(ctx, domain.SmartArray, capture(t, s))
		require.True(t, res.Succeeded(), res.Message)
		assert.Equal(t, "Array modifier added with empty object control (emptyC)", res.Message)

		stack, err := s.Stack(ctx, "meshB")
		require.NoError(t, err)
		require.Len(t, stack, 1)
		assert.Equal(t, "emptyC", stack[0].Params["offset_object"])
		assert.Equal(t, false, stack[0].Params["relative_offset"])
	})
}

func TestExecute_RefusesUnvalidatedSelection(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		workflow domain.WorkflowID
		active   string
		selected []string
	}{
		{"wrong kinds", domain.Symmetrize, "meshA", []string{"meshA", "lightB"}},
		{"wrong count", domain.Shrinkwrap, "meshA", []string{"meshA"}},
		{"nothing selected", domain.Solidify, "", nil},
		{"unknown workflow", domain.Unrecognized, "meshA", []string{"meshA"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := studio(t)
			selectIn(t, s, tt.active, tt.selected...)
			before := s.File()

			res := newExecutor(t, s).Execute(ctx, tt.workflow, capture(t, s))

			assert.Equal(t, domain.ExecCancelled, res.Status)
			assert.Equal(t, domain.PhaseFailed, res.Phase)
			assert.True(t, domain.IsCode(res.Err, domain.CodeExecutionFailure))
			assert.Empty(t, res.Affected)
			assert.Equal(t, before, s.File(), "scene must be untouched")
		})
	}
}

func TestExecute_PrerequisiteFailure(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "meshA", "meshA", "curveB")
	require.NoError(t, s.LockScale("meshA", true))
	ctx := context.Background()

	res := newExecutor(t, s).Execute(ctx, domain.CurveDeform, capture(t, s))

	assert.Equal(t, domain.ExecError, res.Status)
	assert.Equal(t, domain.PhaseFailed, res.Phase)
	assert.Contains(t, res.Message, "could not normalize scale on meshA")

	var de *domain.Error
	require.True(t, errors.As(res.Err, &de))
	assert.Equal(t, domain.CodePrerequisiteFailure, de.Code)
	assert.Equal(t, "normalize_scale", de.Step)
	assert.Equal(t, "meshA", de.Entity)
	assert.ErrorIs(t, res.Err, domain.ErrTransformRejected)

	stack, err := s.Stack(ctx, "meshA")
	require.NoError(t, err)
	assert.Empty(t, stack, "no stage after a failed prerequisite")
}

func TestExecute_StageRejected(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "meshB", "meshB")
	boom := errors.New("modifier limit reached")
	s.Fail(memory.OpInsertStage, "meshB", boom)

	res := newExecutor(t, s).Execute(context.Background(), domain.HardSurface, capture(t, s))

	assert.Equal(t, domain.ExecError, res.Status)
	assert.True(t, domain.IsCode(res.Err, domain.CodeExecutionFailure))
	assert.Equal(t, "could not insert Bevel stage on meshB: insert_stage meshB: modifier limit reached", res.Message)
	assert.Empty(t, res.Stages)
}

func TestExecute_EditModeRestoredAfterGeometryFailure(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "meshA", "meshA")
	s.Fail(memory.OpDeletePoints, "meshA", errors.New("mesh is locked"))
	ctx := context.Background()

	res := newExecutor(t, s).Execute(ctx, domain.Symmetrize, capture(t, s))

	require.Equal(t, domain.ExecError, res.Status)
	assert.True(t, domain.IsCode(res.Err, domain.CodeExecutionFailure))
	assert.Contains(t, res.Message, "could not delete +x geometry on meshA")

	mode, err := s.Mode(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeObject, mode)

	// Earlier steps stay applied under the host policy.
	stack, err := s.Stack(ctx, "meshA")
	require.NoError(t, err)
	assert.Equal(t, []string{"Mirror"}, stageNames(stack))
}

func TestExecute_EditModeEntryFailure(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "meshA", "meshA")
	s.Fail(memory.OpSetMode, "meshA", domain.ErrModeRejected)

	res := newExecutor(t, s).Execute(context.Background(), domain.Symmetrize, capture(t, s))

	assert.True(t, domain.IsCode(res.Err, domain.CodeExecutionFailure))
	assert.ErrorIs(t, res.Err, domain.ErrModeRejected)
}

func TestExecute_CompensateRestoresScene(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "meshA", "meshA", "curveB")
	require.NoError(t, s.LockScale("curveB", true))
	before := s.File()
	ctx := context.Background()

	x := newExecutor(t, s, runtime.WithExecutorRollback(runtime.RollbackCompensate))
	res := x.Execute(ctx, domain.CurveDeform, capture(t, s))

	require.Equal(t, domain.ExecError, res.Status)
	assert.True(t, domain.IsCode(res.Err, domain.CodePrerequisiteFailure))
	assert.Contains(t, res.Message, "could not normalize scale on curveB")
	assert.Contains(t, res.Message, "(changes rolled back)")
	assert.Equal(t, before, s.File(), "meshA's normalized scale must be reverted")
}

func TestExecute_HostPolicyLeavesPartialChanges(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "meshA", "meshA", "curveB")
	require.NoError(t, s.LockScale("curveB", true))
	ctx := context.Background()

	res := newExecutor(t, s).Execute(ctx, domain.CurveDeform, capture(t, s))
	require.Equal(t, domain.ExecError, res.Status)
	assert.NotContains(t, res.Message, "rolled back")

	meshA, err := s.Entity(ctx, "meshA")
	require.NoError(t, err)
	assert.Equal(t, domain.Vec3{1, 1, 1}, meshA.Scale)
}

func TestExecute_CheckpointFailureFailsStep(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "meshA", "meshA", "curveB")
	s.Fail(memory.OpCheckpoint, "curveB", errors.New("checkpoint store full"))
	ctx := context.Background()

	x := newExecutor(t, s, runtime.WithExecutorRollback(runtime.RollbackCompensate))
	res := x.Execute(ctx, domain.CurveDeform, capture(t, s))

	require.Equal(t, domain.ExecError, res.Status)
	assert.Contains(t, res.Message, "could not checkpoint curveB")
	assert.Contains(t, res.Message, "(changes rolled back)")

	meshA, err := s.Entity(ctx, "meshA")
	require.NoError(t, err)
	assert.Equal(t, domain.Vec3{2, 2, 2}, meshA.Scale)
}

type sceneOnly struct{ ports.SceneGraph }

func TestNewExecutor_CompensateNeedsCheckpoints(t *testing.T) {
	s := studio(t)
	_, err := runtime.NewExecutor(nil, struct{ *memory.Scene }{s}, runtime.WithExecutorRollback(runtime.RollbackCompensate))
	assert.NoError(t, err, "an embedded scene still exposes Checkpoint")

	_, err = runtime.NewExecutor(nil, sceneOnly{s}, runtime.WithExecutorRollback(runtime.RollbackCompensate))
	assert.Error(t, err)

	_, err = runtime.NewExecutor(nil, s, runtime.WithExecutorRollback("later"))
	assert.Error(t, err)
}

func TestExecute_StepHooks(t *testing.T) {
	s := studio(t)
	selectIn(t, s, "meshA", "meshA", "curveB")
	ctx := runtime.WithInvocationID(context.Background(), "inv-1")

	var steps []domain.StepEvent
	var done *domain.WorkflowEvent
	x := newExecutor(t, s, runtime.WithExecutorHooks(domain.LifecycleHooks{
		OnStepApplied:  func(_ context.Context, e *domain.StepEvent) { steps = append(steps, *e) },
		OnWorkflowDone: func(_ context.Context, e *domain.WorkflowEvent) { done = e },
	}))

	res := x.Execute(ctx, domain.CurveDeform, capture(t, s))
	require.True(t, res.Succeeded(), res.Message)

	type step struct{ Label, Entity string }
	var got []step
	for _, e := range steps {
		assert.Equal(t, "inv-1", e.InvocationID)
		got = append(got, step{e.Step, e.Entity})
	}
	want := []step{
		{"normalize_scale", "meshA"},
		{"normalize_scale", "curveB"},
		{"align_origin", "meshA"},
		{"insert Curve stage", "meshA"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("applied steps mismatch (-want +got):\n%s", diff)
	}
	require.NotNil(t, done)
	assert.Equal(t, domain.ExecSuccess, done.Result.Status)
}
