package ports

import (
	"context"

	"github.com/aretw0/modassist/pkg/domain"
)

// SceneReader is the read side of the host scene graph.
type SceneReader interface {
	// Selection returns the names of the selected entities in selection order,
	// the active entity (empty if none) and the current interaction mode.
	Selection(ctx context.Context) (domain.SelectionState, error)

	// Entity returns the read model of a named entity.
	// It returns an error wrapping domain.ErrEntityNotFound for unknown names.
	Entity(ctx context.Context, name string) (domain.Entity, error)

	// Mode returns the current interaction mode.
	Mode(ctx context.Context) (domain.Mode, error)

	// Stack returns the entity's stage stack, first stage first.
	Stack(ctx context.Context, name string) ([]domain.StageSpec, error)

	// Points returns the entity's point geometry in local space.
	Points(ctx context.Context, name string) ([]domain.Vec3, error)
}

// SceneWriter is the mutating side of the host scene graph.
type SceneWriter interface {
	// NormalizeScale applies the accumulated scale to the geometry and resets it to 1.
	// Hosts wrap refusals with domain.ErrTransformRejected.
	NormalizeScale(ctx context.Context, name string) error

	// AlignOrigin moves the entity onto the reference entity's origin. Local
	// geometry travels with it.
	AlignOrigin(ctx context.Context, name, reference string) error

	// InsertStage inserts a stage into the entity's stack at stage.Position.
	// Hosts wrap parameter rejections with domain.ErrStageRejected.
	InsertStage(ctx context.Context, name string, stage domain.StageSpec) error

	// SetMode switches the interaction mode with name as the edited entity.
	// Hosts wrap refusals with domain.ErrModeRejected.
	SetMode(ctx context.Context, name string, mode domain.Mode) error

	// SelectPoints selects exactly the points of the edited entity lying in region.
	SelectPoints(ctx context.Context, name string, region domain.HalfSpace) (int, error)

	// DeleteSelectedPoints deletes the selected points of the edited entity.
	DeleteSelectedPoints(ctx context.Context, name string) (int, error)

	// SetShading assigns the shading flag of the entity's surfaces.
	SetShading(ctx context.Context, name string, shading domain.Shading) error
}

// SceneGraph is the full capability set the assistant depends on.
type SceneGraph interface {
	SceneReader
	SceneWriter
}

// SeedEntity describes one entity a contract test asks an adapter to create.
type SeedEntity struct {
	domain.Entity
	Points []domain.Vec3
}

// Seed is the initial scene handed to a SceneGraph factory.
type Seed struct {
	Entities []SeedEntity
	Selected []string
	Active   string
	Mode     domain.Mode
}
