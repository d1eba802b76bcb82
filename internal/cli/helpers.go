package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/term"

	"github.com/aretw0/modassist/internal/config"
	"github.com/aretw0/modassist/internal/logging"
	"github.com/aretw0/modassist/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger on w (normally stderr, to keep
// stdout for status lines). Config validation has already checked the level.
func createLogger(w io.Writer, cfg config.Config) *slog.Logger {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return logging.NewWithWriter(w, level, cfg.LogFormat)
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCommandResolved: func(ctx context.Context, e *domain.CommandEvent) {
			logger.DebugContext(ctx, "Command", "invocation", e.InvocationID, "workflow", e.Command.Workflow, "keyword", e.Command.Keyword)
		},
		OnValidated: func(ctx context.Context, e *domain.ValidationEvent) {
			logger.DebugContext(ctx, "Validated", "invocation", e.InvocationID, "valid", e.Result.Valid, "code", e.Result.Code)
		},
		OnPhase: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "Enter Phase", "invocation", e.InvocationID, "phase", e.Phase)
		},
		OnStepApplied: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "Step", "invocation", e.InvocationID, "step", e.Step, "entity", e.Entity)
		},
		OnInvocationDone: func(ctx context.Context, e *domain.InvocationEvent) {
			logger.DebugContext(ctx, "Done", "invocation", e.InvocationID, "status", e.Outcome.Status, "elapsed", e.Elapsed)
		},
	}
}

// isTerminal reports whether v is an *os.File attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the column count of w, or 0 when it is not a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}

func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}
