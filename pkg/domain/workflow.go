package domain

import "fmt"

// WorkflowID identifies one registered procedure. The zero value is Unrecognized.
type WorkflowID int

const (
	Unrecognized WorkflowID = iota
	SmartArray
	HardSurface
	Symmetrize
	CurveDeform
	Solidify
	Shrinkwrap
)

var workflowNames = map[WorkflowID]string{
	Unrecognized: "unrecognized",
	SmartArray:   "smart_array",
	HardSurface:  "hard_surface",
	Symmetrize:   "symmetrize",
	CurveDeform:  "curve_deform",
	Solidify:     "solidify",
	Shrinkwrap:   "shrinkwrap",
}

// Workflows lists every recognized workflow in declaration order.
func Workflows() []WorkflowID {
	return []WorkflowID{SmartArray, HardSurface, Symmetrize, CurveDeform, Solidify, Shrinkwrap}
}

func (w WorkflowID) String() string {
	if name, ok := workflowNames[w]; ok {
		return name
	}
	return fmt.Sprintf("workflow(%d)", int(w))
}

// Recognized reports whether w is one of the registered workflows.
func (w WorkflowID) Recognized() bool {
	return w > Unrecognized && w <= Shrinkwrap
}

// ParseWorkflowID maps a snake_case name back to its WorkflowID.
func ParseWorkflowID(name string) (WorkflowID, error) {
	for id, n := range workflowNames {
		if n == name && id != Unrecognized {
			return id, nil
		}
	}
	return Unrecognized, fmt.Errorf("%w: %q", ErrUnknownWorkflow, name)
}

// Command is one resolved user request. It is immutable after resolution.
type Command struct {
	Raw      string
	Workflow WorkflowID
	Keyword  string // the keyword that matched, empty when Unrecognized
}

// Recognized reports whether the command resolved to a workflow.
func (c Command) Recognized() bool { return c.Workflow.Recognized() }
