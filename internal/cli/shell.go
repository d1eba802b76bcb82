package cli

import (
	"fmt"

	"github.com/aretw0/modassist"
	"github.com/aretw0/modassist/internal/presentation/graph"
	"github.com/aretw0/modassist/internal/presentation/tui"
	"github.com/aretw0/modassist/pkg/registry"
)

// RunShell starts the interactive command loop. Input that is not a terminal switches
// to headless mode: no banner, no prompt and plain markdown.
func RunShell(opts RunOptions) error {
	env, err := createAssistant(opts)
	if err != nil {
		return err
	}

	in, out := opts.stdin(), opts.stdout()
	headless := opts.Headless || !isTerminal(in)

	sigCtx := NewSignalContext(env.ctx)
	defer sigCtx.Cancel()

	if opts.Watch {
		if opts.ScenePath == "" {
			return fmt.Errorf("--watch requires --scene")
		}
		sw, err := NewSceneWatcher(opts.ScenePath, env.scene, env.logger, func(err error) {
			if err == nil && !headless {
				printSystemMessage(out, "Scene reloaded from '%s'.", opts.ScenePath)
			}
		})
		if err != nil {
			return err
		}
		sw.Start(sigCtx)
		defer sw.Stop()
		if !headless {
			printSystemMessage(out, "Watching '%s' for changes.", opts.ScenePath)
		}
	}

	r := modassist.NewRunner()
	r.Input = in
	r.Output = out
	r.Headless = headless
	r.Status = env.styler.Status
	if !headless {
		r.Renderer = tui.NewRenderer(terminalWidth(out))
	}

	runErr := r.Run(sigCtx, env.assistant)
	if err := env.finish(opts); err != nil {
		return err
	}
	if sigCtx.Signal() != nil && !headless {
		fmt.Fprintln(out)
		printSystemMessage(out, "Interrupted.")
	}
	return handleExecutionError(runErr)
}

// PrintCommands writes the command reference, rendered for terminals.
func PrintCommands(opts RunOptions) error {
	env, err := createAssistant(opts)
	if err != nil {
		return err
	}
	md := env.assistant.Guide()
	out := opts.stdout()
	if isTerminal(out) {
		if rendered, err := tui.NewRenderer(terminalWidth(out))(md); err == nil {
			md = rendered
		}
	}
	_, err = fmt.Fprint(out, md)
	return err
}

// PrintGraph writes a Mermaid diagram of one workflow, or of all of them.
func PrintGraph(opts RunOptions, workflow string) error {
	env, err := createAssistant(opts)
	if err != nil {
		return err
	}
	defs := env.assistant.Workflows()
	if workflow != "" {
		def, err := env.assistant.Lookup(workflow)
		if err != nil {
			return err
		}
		defs = []registry.Definition{def}
	}
	out := opts.stdout()
	for i, def := range defs {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprint(out, graph.GenerateMermaid(def, nil))
	}
	return nil
}
