package runtime_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/modassist/internal/runtime"
	"github.com/aretw0/modassist/pkg/adapters/memory"
	"github.com/aretw0/modassist/pkg/domain"
	"github.com/aretw0/modassist/pkg/ports"
	"github.com/aretw0/modassist/pkg/registry"
)

func mesh(name string, scale float64, loc domain.Vec3, points ...domain.Vec3) ports.SeedEntity {
	return ports.SeedEntity{
		Entity: domain.Entity{Name: name, Kind: domain.KindMesh, Location: loc, Scale: domain.Vec3{scale, scale, scale}},
		Points: points,
	}
}

func curve(name string, scale float64, loc domain.Vec3) ports.SeedEntity {
	return ports.SeedEntity{
		Entity: domain.Entity{Name: name, Kind: domain.KindCurve, Location: loc, Scale: domain.Vec3{scale, scale, scale}},
	}
}

func other(name string, kind domain.Kind) ports.SeedEntity {
	return ports.SeedEntity{Entity: domain.Entity{Name: name, Kind: kind}}
}

// studio is the default test scene. Nothing is selected.
func studio(t *testing.T) *memory.Scene {
	t.Helper()
	s, err := memory.New(ports.Seed{
		Entities: []ports.SeedEntity{
			mesh("meshA", 2, domain.Vec3{1, 0, 0}, domain.Vec3{-1, 0, 0}, domain.Vec3{1, 0, 0}, domain.Vec3{0, 1, 0}, domain.Vec3{0.5, 0.5, 0}),
			mesh("meshB", 1, domain.Vec3{0, 0, 2}, domain.Vec3{0, 0, 0}),
			mesh("planeA", 1, domain.Vec3{}, domain.Vec3{-1, -1, 0}, domain.Vec3{1, 1, 0}),
			curve("curveB", 1.5, domain.Vec3{0, 3, 0}),
			other("emptyC", domain.KindEmpty),
			other("lightB", domain.KindLight),
		},
	})
	require.NoError(t, err)
	return s
}

func selectIn(t *testing.T, s *memory.Scene, active string, names ...string) {
	t.Helper()
	require.NoError(t, s.Select(active, names...))
}

func capture(t *testing.T, s ports.SceneReader) domain.SelectionSnapshot {
	t.Helper()
	snap, err := runtime.Capture(context.Background(), s)
	require.NoError(t, err)
	return snap
}

func newExecutor(t *testing.T, s ports.SceneGraph, opts ...runtime.ExecutorOption) *runtime.Executor {
	t.Helper()
	x, err := runtime.NewExecutor(registry.Default(), s, opts...)
	require.NoError(t, err)
	return x
}

func stageNames(stack []domain.StageSpec) []string {
	names := make([]string, len(stack))
	for i, st := range stack {
		names[i] = st.Name
	}
	return names
}
