package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/modassist/pkg/domain"
)

// ErrCommandCancelled is returned when at least one command did not complete.
// The CLI maps it to a non-zero exit status.
var ErrCommandCancelled = errors.New("command cancelled")

// RunOptions contains all the configuration shared by the CLI commands.
type RunOptions struct {
	ConfigPath string
	Overrides  []string // key=value pairs from --set
	LogLevel   string   // overrides the config file when set
	ScenePath  string   // YAML scene fixture; empty means an empty scene
	OutPath    string   // where to save the scene afterwards; "-" is stdout
	Headless   bool
	Debug      bool
	Metrics    bool
	Watch      bool

	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

func (o RunOptions) stdin() io.Reader {
	if o.In != nil {
		return o.In
	}
	return os.Stdin
}

func (o RunOptions) stdout() io.Writer {
	if o.Out != nil {
		return o.Out
	}
	return os.Stdout
}

func (o RunOptions) stderr() io.Writer {
	if o.ErrOut != nil {
		return o.ErrOut
	}
	return os.Stderr
}

// RunCommands invokes each command in order against the loaded scene, then saves the
// scene and prints metrics when requested.
func RunCommands(opts RunOptions, commands []string) error {
	env, err := createAssistant(opts)
	if err != nil {
		return err
	}

	sigCtx := NewSignalContext(env.ctx)
	defer sigCtx.Cancel()

	out := opts.stdout()
	failed := 0
	for _, text := range commands {
		if sigCtx.Err() != nil {
			break
		}
		o := env.assistant.Invoke(sigCtx, text)
		fmt.Fprintln(out, env.styler.Status(o.Level, o.Message))
		if o.Status != domain.OutcomeCompleted {
			failed++
		}
	}

	if err := env.finish(opts); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrCommandCancelled, failed, len(commands))
	}
	return handleExecutionError(sigCtx.Err())
}

// RunCheck reports whether a command would run on the scene without running it.
func RunCheck(opts RunOptions, text string) error {
	env, err := createAssistant(opts)
	if err != nil {
		return err
	}
	o := env.assistant.Check(env.ctx, text)
	fmt.Fprintln(opts.stdout(), env.styler.Status(o.Level, o.Message))
	if o.Status != domain.OutcomeCompleted {
		return ErrCommandCancelled
	}
	return nil
}
