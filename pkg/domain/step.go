package domain

import "fmt"

// StepKind categorizes a procedure step. Steps of a procedure must appear in phase order.
type StepKind string

const (
	StepPrerequisite StepKind = "prerequisite"
	StepStage        StepKind = "stage"
	StepGeometry     StepKind = "geometry"
	StepPostAction   StepKind = "post_action"
)

// Action names the concrete operation of a non-stage step.
type Action string

const (
	ActionNormalizeScale  Action = "normalize_scale"
	ActionAlignOrigin     Action = "align_origin"
	ActionDeleteHalfSpace Action = "delete_half_space"
	ActionShadeSmooth     Action = "shade_smooth"
)

// Role names a participant of a workflow, bound from the snapshot at execution time.
type Role string

const (
	RoleNone      Role = ""
	RolePrimary   Role = "primary"   // the mesh being configured
	RoleAuxiliary Role = "auxiliary" // the empty used as an offset control
	RoleCurve     Role = "curve"     // the curve a mesh follows
	RoleSource    Role = "source"    // the active mesh of a pair
	RoleTarget    Role = "target"    // the non-active mesh of a pair
)

// StageType is the host-independent type of a stack stage.
type StageType string

const (
	StageArray      StageType = "array"
	StageBevel      StageType = "bevel"
	StageSubsurf    StageType = "subsurf"
	StageMirror     StageType = "mirror"
	StageCurve      StageType = "curve"
	StageSolidify   StageType = "solidify"
	StageShrinkwrap StageType = "shrinkwrap"
)

// AppendPosition inserts a stage at the end of the stack.
const AppendPosition = -1

// StageSpec describes one stage insertion.
type StageSpec struct {
	Name     string
	Type     StageType
	Params   map[string]any
	RefParam string // parameter that receives the Reference entity name, if any
	Position int    // stack index, or AppendPosition
}

// WithReference returns a copy of s with RefParam bound to the given entity name.
func (s StageSpec) WithReference(name string) StageSpec {
	out := s
	out.Params = make(map[string]any, len(s.Params)+1)
	for k, v := range s.Params {
		out.Params[k] = v
	}
	if s.RefParam != "" {
		out.Params[s.RefParam] = name
	}
	return out
}

// Side selects one half of the space split by an axis-aligned plane through the origin.
type Side int

const (
	SidePositive Side = 1
	SideNegative Side = -1
)

// HalfSpace is the set of points whose Axis component lies strictly on Side of zero.
type HalfSpace struct {
	Axis Axis
	Side Side
}

// Contains reports whether p lies in the half space.
func (h HalfSpace) Contains(p Vec3) bool {
	v := p[h.Axis]
	if h.Side == SidePositive {
		return v > 0
	}
	return v < 0
}

func (h HalfSpace) String() string {
	if h.Side == SidePositive {
		return "+" + h.Axis.String()
	}
	return "-" + h.Axis.String()
}

// Shading is the surface shading flag a post-action can assign.
type Shading string

const (
	ShadingFlat   Shading = "flat"
	ShadingSmooth Shading = "smooth"
)

// ProcedureStep is one ordered step of a workflow procedure.
type ProcedureStep struct {
	Kind      StepKind
	Action    Action
	Subject   Role
	Reference Role
	Stage     *StageSpec
	Region    HalfSpace
}

// Label renders the step for logs and failure messages.
func (s ProcedureStep) Label() string {
	if s.Kind == StepStage && s.Stage != nil {
		return fmt.Sprintf("insert %s stage", s.Stage.Name)
	}
	return string(s.Action)
}

// Phase returns the executor phase this step belongs to.
func (s ProcedureStep) Phase() Phase {
	switch s.Kind {
	case StepPrerequisite:
		return PhasePrerequisites
	case StepStage:
		return PhaseStages
	case StepGeometry:
		return PhaseGeometry
	case StepPostAction:
		return PhasePostActions
	default:
		return PhaseFailed
	}
}

// Phase is a state of the executor's per-invocation state machine.
type Phase int

const (
	PhasePreparing Phase = iota
	PhasePrerequisites
	PhaseStages
	PhaseGeometry
	PhasePostActions
	PhaseCompleted
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhasePreparing:
		return "preparing"
	case PhasePrerequisites:
		return "applying_prerequisites"
	case PhaseStages:
		return "inserting_stages"
	case PhaseGeometry:
		return "editing_geometry"
	case PhasePostActions:
		return "applying_post_actions"
	case PhaseCompleted:
		return "completed"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// WorkflowRequirement is the structural precondition of one workflow variant.
type WorkflowRequirement struct {
	Count       int
	Kinds       KindSet
	Mode        Mode
	NeedsActive bool
	// Describe names the required configuration in messages, e.g. "a mesh and a curve".
	Describe string
}
