package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/modassist/pkg/domain"
	"github.com/aretw0/modassist/pkg/ports"
)

// Capture reads the live selection once and freezes it into a snapshot.
// Hosts may report an active entity that is not selected; such an entity is
// treated as absent so the snapshot invariants hold.
func Capture(ctx context.Context, scene ports.SceneReader) (domain.SelectionSnapshot, error) {
	state, err := scene.Selection(ctx)
	if err != nil {
		return domain.SelectionSnapshot{}, fmt.Errorf("read selection: %w", err)
	}

	entities := make([]domain.Entity, 0, len(state.Selected))
	active := ""
	for _, name := range state.Selected {
		e, err := scene.Entity(ctx, name)
		if err != nil {
			return domain.SelectionSnapshot{}, fmt.Errorf("read entity %s: %w", name, err)
		}
		entities = append(entities, e)
		if name == state.Active {
			active = name
		}
	}

	return domain.NewSelectionSnapshot(entities, active, state.Mode)
}
