package observability_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/modassist/internal/runtime"
	"github.com/aretw0/modassist/pkg/adapters/memory"
	"github.com/aretw0/modassist/pkg/domain"
	"github.com/aretw0/modassist/pkg/observability"
	"github.com/aretw0/modassist/pkg/ports"
	"github.com/aretw0/modassist/pkg/registry"
)

func newScene(t *testing.T) *memory.Scene {
	t.Helper()
	s, err := memory.New(ports.Seed{
		Entities: []ports.SeedEntity{
			{Entity: domain.Entity{Name: "plane", Kind: domain.KindMesh}, Points: []domain.Vec3{{-1, 0, 0}, {1, 0, 0}}},
			{Entity: domain.Entity{Name: "lamp", Kind: domain.KindLight}},
		},
	})
	require.NoError(t, err)
	return s
}

func TestMetrics_FedByEngine(t *testing.T) {
	s := newScene(t)
	m := observability.NewMetrics()
	e, err := runtime.NewEngine(registry.Default(), s, runtime.WithLifecycleHooks(m.Hooks()))
	require.NoError(t, err)

	out := e.Invoke(context.Background(), "mirror")
	require.Equal(t, domain.OutcomeCancelled, out.Status)

	require.NoError(t, s.Select("plane", "plane"))
	out = e.Invoke(context.Background(), "solidify")
	require.Equal(t, domain.OutcomeCompleted, out.Status, out.Message)

	e.Invoke(context.Background(), "do a barrel roll")

	var buf bytes.Buffer
	require.NoError(t, m.Write(&buf))
	text := buf.String()

	assert.Contains(t, text, `modassist_invocations_total{status="cancelled",workflow="symmetrize"} 1`)
	assert.Contains(t, text, `modassist_invocations_total{status="completed",workflow="solidify"} 1`)
	assert.Contains(t, text, `modassist_invocations_total{status="cancelled",workflow="unrecognized"} 1`)
	assert.Contains(t, text, `modassist_validation_failures_total{code="NO_SELECTION",workflow="symmetrize"} 1`)
	assert.Contains(t, text, `modassist_steps_total{kind="stage",workflow="solidify"} 1`)
	assert.Contains(t, text, `modassist_execution_duration_seconds_count{workflow="solidify"} 1`)
}

func TestMetrics_BudgetExceeded(t *testing.T) {
	m := observability.NewMetrics()
	hooks := m.Hooks()
	hooks.OnBudgetExceeded(context.Background(), &domain.BudgetEvent{Stage: "execute", Budget: time.Millisecond, Elapsed: time.Second})
	hooks.OnBudgetExceeded(context.Background(), &domain.BudgetEvent{Stage: "execute"})

	n, err := testutil.GatherAndCount(m.Registry(), "modassist_budget_exceeded_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "one series per stage")

	var buf bytes.Buffer
	require.NoError(t, m.Write(&buf))
	assert.Contains(t, buf.String(), `modassist_budget_exceeded_total{stage="execute"} 2`)
}

func TestMetrics_ValidOutcomesAreNotFailures(t *testing.T) {
	m := observability.NewMetrics()
	m.Hooks().OnValidated(context.Background(), &domain.ValidationEvent{Workflow: domain.Solidify, Result: domain.Passed()})

	n, err := testutil.GatherAndCount(m.Registry(), "modassist_validation_failures_total")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMetrics_Handler(t *testing.T) {
	m := observability.NewMetrics()
	m.Hooks().OnBudgetExceeded(context.Background(), &domain.BudgetEvent{Stage: "total"})

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `modassist_budget_exceeded_total{stage="total"} 1`)
}
