package domain

import "fmt"

// SelectionState is what the host reports about its current selection.
// It names entities only; the snapshot resolves them.
type SelectionState struct {
	Selected []string
	Active   string
	Mode     Mode
}

// SelectionSnapshot is an immutable capture of the selection taken once per invocation.
// The active entity, if any, is always a member of the selected list and the kind
// multiset always reflects the selected list exactly.
type SelectionSnapshot struct {
	selected []Entity
	active   int // index into selected plus one, 0 when absent
	mode     Mode
	kinds    KindSet
}

// NewSelectionSnapshot builds a snapshot and enforces its invariants.
// An empty active name means there is no active entity.
func NewSelectionSnapshot(selected []Entity, active string, mode Mode) (SelectionSnapshot, error) {
	snap := SelectionSnapshot{
		selected: make([]Entity, len(selected)),
		mode:     mode,
	}
	copy(snap.selected, selected)

	seen := make(map[string]struct{}, len(selected))
	for i, e := range selected {
		if e.Name == "" {
			return SelectionSnapshot{}, fmt.Errorf("%w: entity %d has no name", ErrInvalidSnapshot, i)
		}
		if _, dup := seen[e.Name]; dup {
			return SelectionSnapshot{}, fmt.Errorf("%w: entity %q selected twice", ErrInvalidSnapshot, e.Name)
		}
		seen[e.Name] = struct{}{}
		if e.Name == active {
			snap.active = i + 1
		}
	}
	if active != "" && snap.active == 0 {
		return SelectionSnapshot{}, fmt.Errorf("%w: active entity %q is not selected", ErrInvalidSnapshot, active)
	}

	snap.kinds = KindsOf(snap.selected)
	return snap, nil
}

// Selected returns a copy of the selected entities in selection order.
func (s SelectionSnapshot) Selected() []Entity {
	out := make([]Entity, len(s.selected))
	copy(out, s.selected)
	return out
}

// Len returns the number of selected entities.
func (s SelectionSnapshot) Len() int { return len(s.selected) }

// Empty reports whether nothing is selected.
func (s SelectionSnapshot) Empty() bool { return len(s.selected) == 0 }

// Active returns the active entity, if one is set.
func (s SelectionSnapshot) Active() (Entity, bool) {
	if s.active <= 0 || s.active > len(s.selected) {
		return Entity{}, false
	}
	return s.selected[s.active-1], true
}

// Mode returns the interaction mode at capture time.
func (s SelectionSnapshot) Mode() Mode { return s.mode }

// Kinds returns a copy of the kind multiset.
func (s SelectionSnapshot) Kinds() KindSet { return s.kinds.Clone() }

// FirstOfKind returns the first selected entity of kind k, skipping excluded names.
func (s SelectionSnapshot) FirstOfKind(k Kind, exclude ...string) (Entity, bool) {
outer:
	for _, e := range s.selected {
		if e.Kind != k {
			continue
		}
		for _, x := range exclude {
			if e.Name == x {
				continue outer
			}
		}
		return e, true
	}
	return Entity{}, false
}

// Summary renders a short human description, e.g. "2 selected (1 curve, 1 mesh), object mode".
func (s SelectionSnapshot) Summary() string {
	if s.Empty() {
		return fmt.Sprintf("nothing selected, %s mode", s.mode)
	}
	return fmt.Sprintf("%d selected (%s), %s mode", len(s.selected), s.kinds, s.mode)
}
