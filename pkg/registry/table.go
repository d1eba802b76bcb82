package registry

import (
	"fmt"

	"github.com/aretw0/modassist/pkg/domain"
)

var (
	oneMesh = domain.WorkflowRequirement{
		Count:    1,
		Kinds:    domain.KindSet{domain.KindMesh: 1},
		Mode:     domain.ModeObject,
		Describe: "a mesh object to be selected",
	}
	meshAndEmpty = domain.WorkflowRequirement{
		Count:    2,
		Kinds:    domain.KindSet{domain.KindMesh: 1, domain.KindEmpty: 1},
		Mode:     domain.ModeObject,
		Describe: "two selected objects: a mesh and an empty",
	}
	meshAndCurve = domain.WorkflowRequirement{
		Count:    2,
		Kinds:    domain.KindSet{domain.KindMesh: 1, domain.KindCurve: 1},
		Mode:     domain.ModeObject,
		Describe: "two selected objects: a mesh and a curve",
	}
	twoMeshes = domain.WorkflowRequirement{
		Count:       2,
		Kinds:       domain.KindSet{domain.KindMesh: 2},
		Mode:        domain.ModeObject,
		NeedsActive: true,
		Describe:    "two mesh objects to be selected",
	}
)

func stage(subject domain.Role, spec domain.StageSpec) domain.ProcedureStep {
	spec.Position = domain.AppendPosition
	return domain.ProcedureStep{Kind: domain.StepStage, Subject: subject, Stage: &spec}
}

func refStage(subject, reference domain.Role, spec domain.StageSpec) domain.ProcedureStep {
	step := stage(subject, spec)
	step.Reference = reference
	return step
}

// table builds the ordered workflow definitions with d baked into the procedures.
func table(d Defaults) []Definition {
	return []Definition{
		{
			ID:       domain.SmartArray,
			Title:    "Smart Array",
			Example:  "make array",
			Keywords: []string{"create array", "make 5", "array", "duplicate", "copies"},
			Variants: []Variant{
				{
					Requirement: oneMesh,
					Procedure: []domain.ProcedureStep{
						stage(domain.RolePrimary, domain.StageSpec{
							Name: "Array",
							Type: domain.StageArray,
							Params: map[string]any{
								"count":                    d.ArrayCount,
								"relative_offset":          true,
								"relative_offset_displace": []float64{d.ArrayOffsetX, 0, 0},
							},
						}),
					},
					Summary: fmt.Sprintf("Array modifier added with %d copies on X-axis (offset %.1f)", d.ArrayCount, d.ArrayOffsetX),
				},
				{
					Requirement: meshAndEmpty,
					Procedure: []domain.ProcedureStep{
						refStage(domain.RolePrimary, domain.RoleAuxiliary, domain.StageSpec{
							Name: "Array",
							Type: domain.StageArray,
							Params: map[string]any{
								"relative_offset": false,
								"object_offset":   true,
							},
							RefParam: "offset_object",
						}),
					},
					Summary: "Array modifier added with empty object control ({auxiliary})",
				},
			},
		},
		{
			ID:       domain.HardSurface,
			Title:    "Hard-Surface SubD",
			Example:  "hard-surface",
			Keywords: []string{"hard-surface", "hard surface", "subdivision", "subd", "bevel"},
			Variants: []Variant{{
				Requirement: oneMesh,
				Procedure: []domain.ProcedureStep{
					// Bevel must precede subdivision in the stack.
					stage(domain.RolePrimary, domain.StageSpec{
						Name:   "Bevel",
						Type:   domain.StageBevel,
						Params: map[string]any{"limit_method": "angle", "segments": d.BevelSegments},
					}),
					stage(domain.RolePrimary, domain.StageSpec{
						Name:   "Subdivision",
						Type:   domain.StageSubsurf,
						Params: map[string]any{"levels": d.SubdivisionLevels},
					}),
					{Kind: domain.StepPostAction, Action: domain.ActionShadeSmooth, Subject: domain.RolePrimary},
				},
				Summary: "Hard-surface setup applied (Bevel + Subdivision + Smooth)",
			}},
		},
		{
			ID:       domain.Symmetrize,
			Title:    "Symmetrize",
			Example:  "mirror",
			Keywords: []string{"symmetrize", "symmetric", "mirror", "sym"},
			Variants: []Variant{{
				Requirement: oneMesh,
				Procedure: []domain.ProcedureStep{
					{Kind: domain.StepPrerequisite, Action: domain.ActionNormalizeScale, Subject: domain.RolePrimary},
					stage(domain.RolePrimary, domain.StageSpec{
						Name:   "Mirror",
						Type:   domain.StageMirror,
						Params: map[string]any{"axis": "x", "bisect": true, "clip": true},
					}),
					{
						Kind:    domain.StepGeometry,
						Action:  domain.ActionDeleteHalfSpace,
						Subject: domain.RolePrimary,
						Region:  domain.HalfSpace{Axis: domain.AxisX, Side: domain.SidePositive},
					},
				},
				Summary: "Symmetrize applied on X-axis (scale applied, positive X deleted)",
			}},
		},
		{
			ID:       domain.CurveDeform,
			Title:    "Curve Deform",
			Example:  "curve deform",
			Keywords: []string{"curve deform", "deform", "follow", "path", "bend"},
			Variants: []Variant{{
				Requirement: meshAndCurve,
				Procedure: []domain.ProcedureStep{
					{Kind: domain.StepPrerequisite, Action: domain.ActionNormalizeScale, Subject: domain.RolePrimary},
					{Kind: domain.StepPrerequisite, Action: domain.ActionNormalizeScale, Subject: domain.RoleCurve},
					{Kind: domain.StepPrerequisite, Action: domain.ActionAlignOrigin, Subject: domain.RolePrimary, Reference: domain.RoleCurve},
					refStage(domain.RolePrimary, domain.RoleCurve, domain.StageSpec{
						Name:     "Curve",
						Type:     domain.StageCurve,
						Params:   map[string]any{},
						RefParam: "object",
					}),
				},
				Summary: "Curve deform applied (scales applied, origins aligned)",
			}},
		},
		{
			ID:       domain.Solidify,
			Title:    "Solidify",
			Example:  "solidify",
			Keywords: []string{"solidify", "thickness", "thicken", "solid"},
			Variants: []Variant{{
				Requirement: oneMesh,
				Procedure: []domain.ProcedureStep{
					stage(domain.RolePrimary, domain.StageSpec{
						Name:   "Solidify",
						Type:   domain.StageSolidify,
						Params: map[string]any{"thickness": d.SolidifyThickness, "even_offset": true},
					}),
				},
				Summary: fmt.Sprintf("Solidify modifier added (thickness: %.4fm, even offset enabled)", d.SolidifyThickness),
			}},
		},
		{
			ID:       domain.Shrinkwrap,
			Title:    "Shrinkwrap",
			Example:  "shrinkwrap",
			Keywords: []string{"shrinkwrap", "conform", "wrap"},
			Variants: []Variant{{
				Requirement: twoMeshes,
				Procedure: []domain.ProcedureStep{
					refStage(domain.RoleSource, domain.RoleTarget, domain.StageSpec{
						Name:     "Shrinkwrap",
						Type:     domain.StageShrinkwrap,
						Params:   map[string]any{"wrap_method": "nearest_surface_point"},
						RefParam: "target",
					}),
				},
				Summary: "Shrinkwrap modifier added (target: {target})",
			}},
		},
	}
}
