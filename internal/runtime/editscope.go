package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/modassist/pkg/domain"
	"github.com/aretw0/modassist/pkg/ports"
)

// editScope is a held edit-mode acquisition on one entity.
type editScope struct {
	scene    ports.SceneGraph
	entity   string
	prior    domain.Mode
	released bool
}

// acquireEdit remembers the current mode and enters edit mode on name.
func acquireEdit(ctx context.Context, scene ports.SceneGraph, name string) (*editScope, error) {
	prior, err := scene.Mode(ctx)
	if err != nil {
		return nil, fmt.Errorf("read mode: %w", err)
	}
	if err := scene.SetMode(ctx, name, domain.ModeEdit); err != nil {
		return nil, fmt.Errorf("enter edit mode: %w", err)
	}
	return &editScope{scene: scene, entity: name, prior: prior}, nil
}

// Release restores the mode held before acquisition. It is safe to call twice.
func (s *editScope) Release(ctx context.Context) error {
	if s.released {
		return nil
	}
	s.released = true
	if err := s.scene.SetMode(ctx, s.entity, s.prior); err != nil {
		return fmt.Errorf("restore %s mode: %w", s.prior, err)
	}
	return nil
}

// withEditMode runs fn with name in edit mode and restores the prior mode on every
// exit path. A restore failure is joined into the returned error.
func withEditMode(ctx context.Context, scene ports.SceneGraph, name string, fn func() error) (err error) {
	scope, err := acquireEdit(ctx, scene, name)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, scope.Release(ctx))
	}()
	return fn()
}
