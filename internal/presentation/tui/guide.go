package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/modassist/pkg/registry"
)

// CommandsMarkdown renders the workflow table as markdown, one row per variant.
func CommandsMarkdown(defs []registry.Definition) string {
	var sb strings.Builder
	sb.WriteString("# Commands\n\n")
	sb.WriteString("| Workflow | Try | Keywords | Selection |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, def := range defs {
		for i, v := range def.Variants {
			title, example, keywords := "", "", ""
			if i == 0 {
				title = def.Title
				example = "`" + def.Example + "`"
				keywords = strings.Join(def.Keywords, ", ")
			}
			req := v.Requirement.Describe
			if v.Requirement.Mode != "" {
				req += fmt.Sprintf(" (%s mode)", v.Requirement.Mode)
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", title, example, keywords, req))
		}
	}
	sb.WriteString("\nType `undo` or `redo` to step through history, `quit` to leave.\n")
	return sb.String()
}
