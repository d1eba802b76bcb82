package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/modassist/pkg/domain"
	"github.com/aretw0/modassist/pkg/registry"
)

// Overlay marks how far an execution got through one variant.
type Overlay struct {
	Variant int
	Applied int  // number of leading steps applied
	Failed  bool // the step after the applied ones failed
}

// GenerateMermaid produces a Mermaid flowchart for a workflow definition.
// Each variant is a branch from the workflow node, labelled with its requirement.
// Step shapes follow the step kind:
// - Prerequisite: [/Parallelogram/]
// - Stage: [[Subroutine]]
// - Geometry: {{Hexagon}}
// - Post action: (Rounded)
func GenerateMermaid(def registry.Definition, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	root := sanitizeMermaidID(def.ID.String())
	sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", root, escape(def.Title)))

	for vi, v := range def.Variants {
		prev := root
		arrow := fmt.Sprintf("-- \"%s\" -->", escape(requirementLabel(v.Requirement)))
		for si, step := range v.Procedure {
			id := fmt.Sprintf("%s_v%d_s%d", root, vi, si)
			opener, closer := shape(step.Kind)
			sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, escape(stepLabel(step)), closer))
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", prev, arrow, id))
			prev, arrow = id, "-->"
		}
		done := fmt.Sprintf("%s_v%d_done", root, vi)
		sb.WriteString(fmt.Sprintf("    %s([\"%s\"])\n", done, escape(v.Summary)))
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", prev, arrow, done))
	}

	if overlay != nil && overlay.Variant >= 0 && overlay.Variant < len(def.Variants) {
		steps := def.Variants[overlay.Variant].Procedure
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef applied fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#b71c1c,stroke-width:4px,color:#000;\n")
		for si := 0; si < overlay.Applied && si < len(steps); si++ {
			sb.WriteString(fmt.Sprintf("    class %s_v%d_s%d applied;\n", root, overlay.Variant, si))
		}
		if overlay.Failed && overlay.Applied < len(steps) {
			sb.WriteString(fmt.Sprintf("    class %s_v%d_s%d failed;\n", root, overlay.Variant, overlay.Applied))
		}
	}

	return sb.String()
}

func shape(kind domain.StepKind) (string, string) {
	switch kind {
	case domain.StepPrerequisite:
		return "[/", "/]"
	case domain.StepStage:
		return "[[", "]]"
	case domain.StepGeometry:
		return "{{", "}}"
	case domain.StepPostAction:
		return "(", ")"
	}
	return "[", "]"
}

func stepLabel(s domain.ProcedureStep) string {
	label := s.Label()
	switch {
	case s.Kind == domain.StepGeometry:
		label += " " + s.Region.String()
	case s.Reference != domain.RoleNone:
		label += fmt.Sprintf(" (%s → %s)", s.Subject, s.Reference)
	case s.Subject != domain.RoleNone:
		label += fmt.Sprintf(" (%s)", s.Subject)
	}
	return label
}

func requirementLabel(r domain.WorkflowRequirement) string {
	label := r.Kinds.String()
	if r.Mode != "" {
		label += ", " + string(r.Mode) + " mode"
	}
	if r.NeedsActive {
		label += ", active set"
	}
	return label
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
