package observability

import (
	"context"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"

	"github.com/aretw0/modassist/pkg/domain"
)

const namespace = "modassist"

// Metrics collects invocation, validation, step and budget counters.
type Metrics struct {
	registry    *prometheus.Registry
	invocations *prometheus.CounterVec
	validations *prometheus.CounterVec
	steps       *prometheus.CounterVec
	budgets     *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invocations_total",
				Help:      "Invocations by resolved workflow and outcome status.",
			},
			[]string{"workflow", "status"},
		),
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_failures_total",
				Help:      "Selections rejected by the validator.",
			},
			[]string{"workflow", "code"},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "steps_total",
				Help:      "Procedure steps applied to the scene.",
			},
			[]string{"workflow", "kind"},
		),
		budgets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "budget_exceeded_total",
				Help:      "Soft time budget overruns by stage.",
			},
			[]string{"stage"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "execution_duration_seconds",
				Help:      "Executor run time per workflow.",
				Buckets:   []float64{.005, .01, .025, .05, .1, .2, .35, .5, 1},
			},
			[]string{"workflow"},
		),
	}
	m.registry.MustRegister(m.invocations, m.validations, m.steps, m.budgets, m.duration)
	return m
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnValidated: func(_ context.Context, ev *domain.ValidationEvent) {
			if !ev.Result.Valid {
				m.validations.WithLabelValues(ev.Workflow.String(), string(ev.Result.Code)).Inc()
			}
		},
		OnStepApplied: func(_ context.Context, ev *domain.StepEvent) {
			m.steps.WithLabelValues(ev.Workflow.String(), string(ev.Kind)).Inc()
		},
		OnWorkflowDone: func(_ context.Context, ev *domain.WorkflowEvent) {
			m.duration.WithLabelValues(ev.Result.Workflow.String()).Observe(ev.Result.Elapsed.Seconds())
		},
		OnBudgetExceeded: func(_ context.Context, ev *domain.BudgetEvent) {
			m.budgets.WithLabelValues(ev.Stage).Inc()
		},
		OnInvocationDone: func(_ context.Context, ev *domain.InvocationEvent) {
			out := ev.Outcome
			m.invocations.WithLabelValues(out.Command.Workflow.String(), string(out.Status)).Inc()
		},
	}
}

// Registry exposes the underlying registry for custom exporters.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Write dumps every metric family in text format.
func (m *Metrics) Write(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
