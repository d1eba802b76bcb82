package ports

import (
	"context"
	"testing"

	"github.com/aretw0/modassist/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SceneFactory builds a fresh SceneGraph holding the given seed.
type SceneFactory func(t *testing.T, seed Seed) SceneGraph

// contractSeed is a small scene: a scaled cube straddling the X plane, a curve and an empty.
func contractSeed() Seed {
	return Seed{
		Entities: []SeedEntity{
			{
				Entity: domain.Entity{Name: "Cube", Kind: domain.KindMesh, Scale: domain.Vec3{2, 2, 2}, Location: domain.Vec3{1, 0, 0}},
				Points: []domain.Vec3{{-1, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0.5, -1, 0}},
			},
			{
				Entity: domain.Entity{Name: "Path", Kind: domain.KindCurve, Scale: domain.Vec3{1, 1, 1}, Location: domain.Vec3{0, 3, 0}},
			},
			{
				Entity: domain.Entity{Name: "Handle", Kind: domain.KindEmpty, Scale: domain.Vec3{1, 1, 1}},
			},
		},
		Selected: []string{"Cube", "Path"},
		Active:   "Cube",
		Mode:     domain.ModeObject,
	}
}

// RunSceneGraphContract runs a suite of tests to verify that a SceneGraph implementation
// adheres to the defined interface contract.
func RunSceneGraphContract(t *testing.T, factory SceneFactory) {
	ctx := context.Background()

	t.Run("Selection", func(t *testing.T) {
		scene := factory(t, contractSeed())

		sel, err := scene.Selection(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Cube", "Path"}, sel.Selected)
		assert.Equal(t, "Cube", sel.Active)
		assert.Equal(t, domain.ModeObject, sel.Mode)
	})

	t.Run("Entity Not Found", func(t *testing.T) {
		scene := factory(t, contractSeed())

		_, err := scene.Entity(ctx, "Ghost")
		assert.ErrorIs(t, err, domain.ErrEntityNotFound)
	})

	t.Run("Normalize Scale", func(t *testing.T) {
		scene := factory(t, contractSeed())

		require.NoError(t, scene.NormalizeScale(ctx, "Cube"))

		cube, err := scene.Entity(ctx, "Cube")
		require.NoError(t, err)
		assert.Equal(t, domain.Vec3{1, 1, 1}, cube.Scale)

		points, err := scene.Points(ctx, "Cube")
		require.NoError(t, err)
		assert.Equal(t, domain.Vec3{-2, 0, 0}, points[0], "scale should be baked into geometry")
	})

	t.Run("Align Origin", func(t *testing.T) {
		scene := factory(t, contractSeed())

		require.NoError(t, scene.AlignOrigin(ctx, "Cube", "Path"))

		cube, err := scene.Entity(ctx, "Cube")
		require.NoError(t, err)
		assert.Equal(t, domain.Vec3{0, 3, 0}, cube.Location)

		points, err := scene.Points(ctx, "Cube")
		require.NoError(t, err)
		assert.Equal(t, domain.Vec3{-1, 0, 0}, points[0], "local geometry should move with the object")
	})

	t.Run("Insert Stage Order", func(t *testing.T) {
		scene := factory(t, contractSeed())

		bevel := domain.StageSpec{Name: "Bevel", Type: domain.StageBevel, Position: domain.AppendPosition,
			Params: map[string]any{"limit_method": "angle", "segments": 3}}
		subsurf := domain.StageSpec{Name: "Subdivision", Type: domain.StageSubsurf, Position: domain.AppendPosition,
			Params: map[string]any{"levels": 2}}
		front := domain.StageSpec{Name: "Mirror", Type: domain.StageMirror, Position: 0,
			Params: map[string]any{"axis": "x", "bisect": true}}

		require.NoError(t, scene.InsertStage(ctx, "Cube", bevel))
		require.NoError(t, scene.InsertStage(ctx, "Cube", subsurf))
		require.NoError(t, scene.InsertStage(ctx, "Cube", front))

		stack, err := scene.Stack(ctx, "Cube")
		require.NoError(t, err)
		require.Len(t, stack, 3)
		assert.Equal(t, "Mirror", stack[0].Name)
		assert.Equal(t, "Bevel", stack[1].Name)
		assert.Equal(t, "Subdivision", stack[2].Name)
	})

	t.Run("Insert Stage Rejected", func(t *testing.T) {
		scene := factory(t, contractSeed())

		bad := domain.StageSpec{Name: "Subdivision", Type: domain.StageSubsurf, Position: domain.AppendPosition,
			Params: map[string]any{"levels": 42}}

		err := scene.InsertStage(ctx, "Cube", bad)
		assert.ErrorIs(t, err, domain.ErrStageRejected)

		stack, err := scene.Stack(ctx, "Cube")
		require.NoError(t, err)
		assert.Empty(t, stack, "a rejected stage must not be inserted")
	})

	t.Run("Edit Mode Geometry", func(t *testing.T) {
		scene := factory(t, contractSeed())
		right := domain.HalfSpace{Axis: domain.AxisX, Side: domain.SidePositive}

		_, err := scene.SelectPoints(ctx, "Cube", right)
		assert.Error(t, err, "point selection requires edit mode")

		require.NoError(t, scene.SetMode(ctx, "Cube", domain.ModeEdit))
		mode, err := scene.Mode(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.ModeEdit, mode)

		n, err := scene.SelectPoints(ctx, "Cube", right)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = scene.DeleteSelectedPoints(ctx, "Cube")
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		require.NoError(t, scene.SetMode(ctx, "Cube", domain.ModeObject))

		points, err := scene.Points(ctx, "Cube")
		require.NoError(t, err)
		assert.Len(t, points, 2)
		for _, p := range points {
			assert.False(t, right.Contains(p), "point %v should have been deleted", p)
		}
	})

	t.Run("Edit Mode Rejected For Non Mesh", func(t *testing.T) {
		scene := factory(t, contractSeed())

		err := scene.SetMode(ctx, "Handle", domain.ModeEdit)
		assert.ErrorIs(t, err, domain.ErrModeRejected)
	})

	t.Run("Shading", func(t *testing.T) {
		scene := factory(t, contractSeed())

		require.NoError(t, scene.SetShading(ctx, "Cube", domain.ShadingSmooth))

		cube, err := scene.Entity(ctx, "Cube")
		require.NoError(t, err)
		assert.Equal(t, domain.ShadingSmooth, cube.Shading)
	})
}
