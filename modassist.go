package modassist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/modassist/internal/config"
	"github.com/aretw0/modassist/internal/interpreter"
	"github.com/aretw0/modassist/internal/presentation/tui"
	"github.com/aretw0/modassist/internal/runtime"
	"github.com/aretw0/modassist/pkg/domain"
	"github.com/aretw0/modassist/pkg/ports"
	"github.com/aretw0/modassist/pkg/registry"
)

// Assistant is the high-level entry point of the library.
// It wraps the internal runtime and provides a simplified API for hosts.
type Assistant struct {
	runtime     *runtime.Engine
	scene       ports.SceneGraph
	reg         *registry.Registry
	defaults    *registry.Defaults
	runtimeOpts []runtime.EngineOption
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	cfgErr      error
}

// Option defines a functional option for configuring the Assistant.
type Option func(*Assistant)

// WithLifecycleHooks registers observability hooks. Repeated calls accumulate.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Assistant) {
		a.hooks = a.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) {
		a.logger = logger
	}
}

// WithReporter sets the host status-message channel.
func WithReporter(r ports.Reporter) Option {
	return func(a *Assistant) {
		a.runtimeOpts = append(a.runtimeOpts, runtime.WithReporter(r))
	}
}

// WithDefaults overrides the workflow parameters baked into the procedures.
func WithDefaults(d registry.Defaults) Option {
	return func(a *Assistant) {
		a.defaults = &d
	}
}

// WithRollbackPolicy selects how failed executions are reverted.
func WithRollbackPolicy(p runtime.RollbackPolicy) Option {
	return func(a *Assistant) {
		a.runtimeOpts = append(a.runtimeOpts, runtime.WithRollbackPolicy(p))
	}
}

// WithBudgets overrides the soft time budgets.
func WithBudgets(b runtime.Budgets) Option {
	return func(a *Assistant) {
		a.runtimeOpts = append(a.runtimeOpts, runtime.WithBudgets(b))
	}
}

// WithConfig applies a loaded preferences file: defaults, rollback policy and budgets.
func WithConfig(cfg config.Config) Option {
	return func(a *Assistant) {
		if err := cfg.Validate(); err != nil {
			a.cfgErr = fmt.Errorf("invalid config: %w", err)
			return
		}
		policy, _ := runtime.ParseRollbackPolicy(cfg.Rollback)
		d := cfg.Defaults
		a.defaults = &d
		a.runtimeOpts = append(a.runtimeOpts,
			runtime.WithRollbackPolicy(policy),
			runtime.WithBudgets(cfg.Budgets),
		)
	}
}

// New initializes an Assistant over the given scene.
func New(scene ports.SceneGraph, opts ...Option) (*Assistant, error) {
	if scene == nil {
		return nil, fmt.Errorf("scene is required")
	}
	a := &Assistant{scene: scene}
	for _, opt := range opts {
		opt(a)
	}
	if a.cfgErr != nil {
		return nil, a.cfgErr
	}

	a.reg = registry.Default()
	if a.defaults != nil {
		reg, err := registry.New(*a.defaults)
		if err != nil {
			return nil, fmt.Errorf("failed to build workflow registry: %w", err)
		}
		a.reg = reg
	}

	rtOpts := append([]runtime.EngineOption{
		runtime.WithLogger(a.logger),
		runtime.WithLifecycleHooks(a.hooks),
	}, a.runtimeOpts...)

	eng, err := runtime.NewEngine(a.reg, scene, rtOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}
	a.runtime = eng
	return a, nil
}

// Invoke runs one command against the current selection and reports the outcome.
func (a *Assistant) Invoke(ctx context.Context, text string) domain.Outcome {
	return a.runtime.Invoke(ctx, text)
}

// Check interprets and validates a command without touching the scene.
func (a *Assistant) Check(ctx context.Context, text string) domain.Outcome {
	return a.runtime.Check(ctx, text)
}

// Selection captures the current selection.
func (a *Assistant) Selection(ctx context.Context) (domain.SelectionSnapshot, error) {
	return a.runtime.Selection(ctx)
}

// Workflows returns the registered workflow definitions in resolution order.
func (a *Assistant) Workflows() []registry.Definition {
	return a.reg.Definitions()
}

// Lookup returns one workflow definition by its snake_case name.
func (a *Assistant) Lookup(name string) (registry.Definition, error) {
	id, err := domain.ParseWorkflowID(name)
	if err != nil {
		return registry.Definition{}, err
	}
	def, _ := a.reg.Lookup(id)
	return def, nil
}

// Help returns the one-line feedback shown for unrecognized commands.
func (a *Assistant) Help() string {
	return interpreter.HelpMessage(a.reg)
}

// Guide returns the command reference as markdown.
func (a *Assistant) Guide() string {
	return tui.CommandsMarkdown(a.reg.Definitions())
}

// Scene returns the scene the assistant operates on.
func (a *Assistant) Scene() ports.SceneGraph {
	return a.scene
}
