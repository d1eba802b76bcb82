package registry

import (
	"fmt"

	"github.com/aretw0/modassist/pkg/domain"
)

// Bindings maps each role of a procedure to the entity playing it.
type Bindings map[domain.Role]domain.Entity

// Name returns the entity name bound to role, or "" when unbound.
func (b Bindings) Name(role domain.Role) string {
	return b[role].Name
}

// Bind resolves every role used by v's procedure from the snapshot alone.
func Bind(v Variant, snap domain.SelectionSnapshot) (Bindings, error) {
	b := make(Bindings)
	for _, step := range v.Procedure {
		for _, role := range []domain.Role{step.Subject, step.Reference} {
			if role == domain.RoleNone {
				continue
			}
			if _, done := b[role]; done {
				continue
			}
			e, err := bindRole(role, snap)
			if err != nil {
				return nil, err
			}
			b[role] = e
		}
	}
	return b, nil
}

func bindRole(role domain.Role, snap domain.SelectionSnapshot) (domain.Entity, error) {
	var (
		e  domain.Entity
		ok bool
	)
	switch role {
	case domain.RolePrimary:
		e, ok = snap.FirstOfKind(domain.KindMesh)
	case domain.RoleAuxiliary:
		e, ok = snap.FirstOfKind(domain.KindEmpty)
	case domain.RoleCurve:
		e, ok = snap.FirstOfKind(domain.KindCurve)
	case domain.RoleSource:
		e, ok = snap.Active()
		ok = ok && e.Kind == domain.KindMesh
	case domain.RoleTarget:
		active, hasActive := snap.Active()
		if hasActive {
			e, ok = snap.FirstOfKind(domain.KindMesh, active.Name)
		}
	default:
		return domain.Entity{}, fmt.Errorf("unknown role %q", role)
	}
	if !ok {
		return domain.Entity{}, fmt.Errorf("could not identify the %s object in the selection", role)
	}
	return e, nil
}
