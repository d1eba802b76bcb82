package runtime

import (
	"context"
	"time"

	"github.com/aretw0/modassist/pkg/domain"
)

// Budget stage names, as reported in logs, events and metrics.
const (
	StageInterpret = "interpret"
	StageValidate  = "validate"
	StageExecute   = "execute"
	StageTotal     = "total"
)

// Budgets are soft time targets. Overruns are logged and reported through
// OnBudgetExceeded; nothing is ever interrupted. A zero budget is not checked.
type Budgets struct {
	Interpret time.Duration `yaml:"interpret" mapstructure:"interpret"`
	Validate  time.Duration `yaml:"validate" mapstructure:"validate"`
	Execute   time.Duration `yaml:"execute" mapstructure:"execute"`
	Total     time.Duration `yaml:"total" mapstructure:"total"`
}

// DefaultBudgets returns the design targets of the assistant.
func DefaultBudgets() Budgets {
	return Budgets{
		Interpret: 10 * time.Millisecond,
		Validate:  20 * time.Millisecond,
		Execute:   200 * time.Millisecond,
		Total:     350 * time.Millisecond,
	}
}

func (b Budgets) limit(stage string) time.Duration {
	switch stage {
	case StageInterpret:
		return b.Interpret
	case StageValidate:
		return b.Validate
	case StageExecute:
		return b.Execute
	case StageTotal:
		return b.Total
	}
	return 0
}

// checkBudget compares elapsed against the stage budget and reports an overrun.
func (e *Engine) checkBudget(ctx context.Context, invocation, stage string, elapsed time.Duration) {
	limit := e.budgets.limit(stage)
	if limit <= 0 || elapsed <= limit {
		return
	}
	e.logger.WarnContext(ctx, "budget exceeded",
		"invocation", invocation, "stage", stage, "budget", limit, "elapsed", elapsed)
	if e.hooks.OnBudgetExceeded != nil {
		e.hooks.OnBudgetExceeded(ctx, &domain.BudgetEvent{
			EventBase: domain.EventBase{
				Timestamp:    e.now(),
				Type:         domain.EventBudgetExceeded,
				InvocationID: invocation,
			},
			Stage:   stage,
			Budget:  limit,
			Elapsed: elapsed,
		})
	}
}
