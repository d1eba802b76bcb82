package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/modassist"
	"github.com/aretw0/modassist/internal/config"
	"github.com/aretw0/modassist/internal/presentation/tui"
	"github.com/aretw0/modassist/pkg/adapters/memory"
	"github.com/aretw0/modassist/pkg/domain"
	"github.com/aretw0/modassist/pkg/observability"
	"github.com/aretw0/modassist/pkg/ports"
)

// env is everything a CLI command needs after startup.
type env struct {
	ctx       context.Context
	cfg       config.Config
	logger    *slog.Logger
	scene     *memory.Scene
	assistant *modassist.Assistant
	metrics   *observability.Metrics
	styler    tui.Styler
}

// loadConfig reads the config file and applies --set and --log-level on top.
func loadConfig(opts RunOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return cfg, err
	}
	overrides, err := config.ParseOverrides(opts.Overrides)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyOverrides(overrides); err != nil {
		return cfg, fmt.Errorf("invalid --set: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.Debug {
		cfg.LogLevel = "debug"
	}
	if opts.Metrics {
		cfg.ShowMetrics = true
	}
	return cfg, cfg.Validate()
}

// createAssistant initializes the scene and the assistant with standard CLI conventions.
func createAssistant(opts RunOptions) (*env, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	logger := createLogger(opts.stderr(), cfg)

	scene, err := loadScene(opts.ScenePath)
	if err != nil {
		return nil, err
	}

	e := &env{
		ctx:    context.Background(),
		cfg:    cfg,
		logger: logger,
		scene:  scene,
		styler: tui.NewStyler(opts.stdout()),
	}

	hooks := domain.LifecycleHooks{}
	if opts.Debug {
		hooks = hooks.Merge(createDebugHooks(logger))
	}
	if cfg.ShowMetrics {
		e.metrics = observability.NewMetrics()
		hooks = hooks.Merge(e.metrics.Hooks())
	}

	e.assistant, err = modassist.New(scene,
		modassist.WithConfig(cfg),
		modassist.WithLogger(logger),
		modassist.WithLifecycleHooks(hooks),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing assistant: %w", err)
	}
	return e, nil
}

func loadScene(path string) (*memory.Scene, error) {
	if path == "" {
		return memory.New(ports.Seed{})
	}
	scene, err := memory.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}
	return scene, nil
}

// finish saves the scene and prints metrics as requested.
func (e *env) finish(opts RunOptions) error {
	if opts.OutPath != "" {
		if err := saveScene(e.scene, opts.OutPath, opts); err != nil {
			return err
		}
	}
	if e.metrics != nil {
		if err := e.metrics.Write(opts.stdout()); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

func saveScene(scene *memory.Scene, path string, opts RunOptions) error {
	if path == "-" {
		return scene.Save(opts.stdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to save scene: %w", err)
	}
	if err := scene.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
