package registry

import (
	"errors"
	"fmt"

	"github.com/aretw0/modassist/pkg/schema"
)

// Defaults are the user-tunable parameters baked into procedures when the registry is built.
type Defaults struct {
	ArrayCount        int     `yaml:"array_count" mapstructure:"array_count"`
	ArrayOffsetX      float64 `yaml:"array_offset_x" mapstructure:"array_offset_x"`
	BevelSegments     int     `yaml:"bevel_segments" mapstructure:"bevel_segments"`
	SubdivisionLevels int     `yaml:"subdivision_levels" mapstructure:"subdivision_levels"`
	SolidifyThickness float64 `yaml:"solidify_thickness" mapstructure:"solidify_thickness"`
}

// DefaultDefaults returns the stock parameter set.
func DefaultDefaults() Defaults {
	return Defaults{
		ArrayCount:        5,
		ArrayOffsetX:      1.0,
		BevelSegments:     3,
		SubdivisionLevels: 2,
		SolidifyThickness: 0.01,
	}
}

var defaultsSchema = schema.Schema{
	"array_count":        schema.Req(schema.IntRange(1, 1000)),
	"array_offset_x":     schema.Req(schema.FloatRange(-100, 100)),
	"bevel_segments":     schema.Req(schema.IntRange(1, 100)),
	"subdivision_levels": schema.Req(schema.IntRange(0, 6)),
	"solidify_thickness": schema.Req(schema.FloatRange(0.0001, 10)),
}

// Validate checks every default against its allowed range.
func (d Defaults) Validate() error {
	err := schema.Validate(defaultsSchema, map[string]any{
		"array_count":        d.ArrayCount,
		"array_offset_x":     d.ArrayOffsetX,
		"bevel_segments":     d.BevelSegments,
		"subdivision_levels": d.SubdivisionLevels,
		"solidify_thickness": d.SolidifyThickness,
	})
	if err != nil {
		return fmt.Errorf("invalid workflow defaults: %w", errors.Join(schema.ValidationErrors(err)...))
	}
	return nil
}
