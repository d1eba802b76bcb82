package schema

import (
	"fmt"

	"github.com/aretw0/modassist/pkg/domain"
)

// StageSchemas declares the parameters each stage type accepts.
var StageSchemas = map[domain.StageType]Schema{
	domain.StageArray: {
		"count":                    Opt(IntRange(1, 1000)),
		"relative_offset":          Req(Bool()),
		"relative_offset_displace": Opt(Vector()),
		"object_offset":            Opt(Bool()),
		"offset_object":            Opt(Ref()),
	},
	domain.StageBevel: {
		"limit_method": Req(Enum("none", "angle", "weight")),
		"segments":     Req(IntRange(1, 100)),
	},
	domain.StageSubsurf: {
		"levels": Req(IntRange(0, 6)),
	},
	domain.StageMirror: {
		"axis":   Req(Enum("x", "y", "z")),
		"bisect": Req(Bool()),
		"clip":   Opt(Bool()),
	},
	domain.StageCurve: {
		"object": Req(Ref()),
	},
	domain.StageSolidify: {
		"thickness":   Req(FloatRange(0.0001, 10)),
		"even_offset": Req(Bool()),
	},
	domain.StageShrinkwrap: {
		"target":      Req(Ref()),
		"wrap_method": Req(Enum("nearest_surface_point", "project", "nearest_vertex", "target_project")),
	},
}

// ValidateStage checks a fully bound stage spec against its type's schema.
func ValidateStage(spec domain.StageSpec) error {
	s, ok := StageSchemas[spec.Type]
	if !ok {
		return fmt.Errorf("unknown stage type %q", spec.Type)
	}
	if spec.Name == "" {
		return fmt.Errorf("stage of type %q has no name", spec.Type)
	}
	return Validate(s, spec.Params)
}
