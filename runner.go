package modassist

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/modassist/pkg/domain"
	"github.com/aretw0/modassist/pkg/ports"
)

// Runner drives an interactive command loop over the provided IO.
// This allows for easy testing and integration with different frontends (CLI, TUI, etc).
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
	Status   StatusFormatter
}

// ContentRenderer transforms markdown before it is written, e.g. into ANSI.
type ContentRenderer func(string) (string, error)

// StatusFormatter formats one outcome line.
type StatusFormatter func(level domain.Level, message string) string

// selector is implemented by scenes that let the user change the selection.
type selector interface {
	Select(active string, names ...string) error
}

// NewRunner creates a Runner. Input and Output must be set before Run.
func NewRunner() *Runner {
	return &Runner{}
}

// Run reads one command per line until EOF, "quit" or "exit".
// Besides workflow commands it understands help, selection, select, check, undo and redo.
func (r *Runner) Run(ctx context.Context, a *Assistant) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lineReader := bufio.NewReader(r.Input)

	if !r.Headless {
		fmt.Fprintln(r.Output, "--- modassist shell (type 'help' for commands) ---")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !r.Headless {
			fmt.Fprint(r.Output, "> ")
		}
		text, err := lineReader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("input error: %w", err)
		}
		eof := errors.Is(err, io.EOF)

		input := strings.TrimSpace(text)
		if input == "exit" || input == "quit" {
			if !r.Headless {
				fmt.Fprintln(r.Output, "Bye!")
			}
			return nil
		}
		if input != "" {
			r.dispatch(ctx, a, input)
		}
		if eof {
			return nil
		}
	}
}

func (r *Runner) dispatch(ctx context.Context, a *Assistant, input string) {
	verb, rest, _ := strings.Cut(input, " ")
	verb = strings.ToLower(verb)
	rest = strings.TrimSpace(rest)

	switch verb {
	case "help", "?":
		r.content(a.Guide())
	case "selection":
		snap, err := a.Selection(ctx)
		if err != nil {
			r.status(domain.LevelError, err.Error())
			return
		}
		r.status(domain.LevelInfo, "Selected: "+snap.Summary())
	case "select":
		s, ok := a.Scene().(selector)
		if !ok {
			r.status(domain.LevelError, "This scene does not support selection changes")
			return
		}
		names := strings.Fields(rest)
		active := ""
		if len(names) > 0 {
			active = names[0]
		}
		if err := s.Select(active, names...); err != nil {
			r.status(domain.LevelError, err.Error())
			return
		}
		r.status(domain.LevelInfo, fmt.Sprintf("Selected %d object(s)", len(names)))
	case "check":
		out := a.Check(ctx, rest)
		r.status(out.Level, out.Message)
	case "undo", "redo":
		h, ok := a.Scene().(ports.History)
		if !ok {
			r.status(domain.LevelError, "This scene has no undo history")
			return
		}
		step := h.Undo
		if verb == "redo" {
			step = h.Redo
		}
		label, ok := step()
		if !ok {
			r.status(domain.LevelError, "Nothing to "+verb)
			return
		}
		r.status(domain.LevelInfo, fmt.Sprintf("%s: %s", strings.ToUpper(verb[:1])+verb[1:], label))
	default:
		out := a.Invoke(ctx, input)
		r.status(out.Level, out.Message)
	}
}

func (r *Runner) content(markdown string) {
	output := markdown
	if r.Renderer != nil {
		if rendered, err := r.Renderer(markdown); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(r.Output, strings.TrimSpace(output))
}

func (r *Runner) status(level domain.Level, message string) {
	line := fmt.Sprintf("[%s] %s", level, message)
	if r.Status != nil {
		line = r.Status(level, message)
	}
	fmt.Fprintln(r.Output, line)
}
