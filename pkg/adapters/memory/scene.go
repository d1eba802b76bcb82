package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/modassist/pkg/domain"
	"github.com/aretw0/modassist/pkg/ports"
	"github.com/aretw0/modassist/pkg/schema"
)

// Op names a scene operation for fault injection.
type Op string

const (
	OpNormalizeScale Op = "normalize_scale"
	OpAlignOrigin    Op = "align_origin"
	OpInsertStage    Op = "insert_stage"
	OpSetMode        Op = "set_mode"
	OpSelectPoints   Op = "select_points"
	OpDeletePoints   Op = "delete_points"
	OpSetShading     Op = "set_shading"
	OpCheckpoint     Op = "checkpoint"
)

type object struct {
	entity      domain.Entity
	points      []domain.Vec3
	marked      []bool // point selection, meaningful while the object is edited
	stack       []domain.StageSpec
	scaleLocked bool
}

func (o *object) clone() *object {
	c := &object{
		entity:      o.entity,
		points:      append([]domain.Vec3(nil), o.points...),
		marked:      append([]bool(nil), o.marked...),
		stack:       make([]domain.StageSpec, len(o.stack)),
		scaleLocked: o.scaleLocked,
	}
	for i, st := range o.stack {
		c.stack[i] = copyStage(st)
	}
	return c
}

func copyStage(st domain.StageSpec) domain.StageSpec {
	out := st
	out.Params = make(map[string]any, len(st.Params))
	for k, v := range st.Params {
		out.Params[k] = v
	}
	return out
}

// state is everything an undo step restores.
type state struct {
	objects  map[string]*object
	order    []string
	selected []string
	active   string
	mode     domain.Mode
	editing  string
}

func (s state) clone() state {
	c := state{
		objects:  make(map[string]*object, len(s.objects)),
		order:    append([]string(nil), s.order...),
		selected: append([]string(nil), s.selected...),
		active:   s.active,
		mode:     s.mode,
		editing:  s.editing,
	}
	for name, o := range s.objects {
		c.objects[name] = o.clone()
	}
	return c
}

type fault struct {
	op     Op
	entity string
}

// Scene is an in-memory host scene graph. It implements ports.SceneGraph,
// ports.UndoRecorder and ports.Checkpointer. Safe for concurrent use.
type Scene struct {
	mu      sync.RWMutex
	st      state
	history history
	faults  map[fault]error
}

var (
	_ ports.SceneGraph   = (*Scene)(nil)
	_ ports.UndoRecorder = (*Scene)(nil)
	_ ports.Checkpointer = (*Scene)(nil)
)

// New creates a scene holding seed. Entities without a scale get a unit scale and
// entities without shading are flat.
func New(seed ports.Seed) (*Scene, error) {
	st := state{
		objects: make(map[string]*object, len(seed.Entities)),
		active:  seed.Active,
		mode:    seed.Mode,
	}
	if st.mode == "" {
		st.mode = domain.ModeObject
	}

	for _, se := range seed.Entities {
		if se.Name == "" {
			return nil, fmt.Errorf("entity without a name")
		}
		if _, dup := st.objects[se.Name]; dup {
			return nil, fmt.Errorf("duplicate entity %q", se.Name)
		}
		e := se.Entity
		if e.Scale == (domain.Vec3{}) {
			e.Scale = domain.Vec3{1, 1, 1}
		}
		if e.Shading == "" {
			e.Shading = domain.ShadingFlat
		}
		st.objects[e.Name] = &object{
			entity: e,
			points: append([]domain.Vec3(nil), se.Points...),
		}
		st.order = append(st.order, e.Name)
	}

	for _, name := range seed.Selected {
		if _, ok := st.objects[name]; !ok {
			return nil, fmt.Errorf("%w: selected %s", domain.ErrEntityNotFound, name)
		}
		st.selected = append(st.selected, name)
	}
	if st.active != "" {
		if _, ok := st.objects[st.active]; !ok {
			return nil, fmt.Errorf("%w: active %s", domain.ErrEntityNotFound, st.active)
		}
	}

	return &Scene{st: st, faults: make(map[fault]error)}, nil
}

// Fail makes op return err for entity, or for every entity when entity is empty.
// A nil err removes the fault.
func (s *Scene) Fail(op Op, entity string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := fault{op: op, entity: entity}
	if err == nil {
		delete(s.faults, k)
		return
	}
	s.faults[k] = err
}

func (s *Scene) injected(op Op, entity string) error {
	if err, ok := s.faults[fault{op: op, entity: entity}]; ok {
		return fmt.Errorf("%s %s: %w", op, entity, err)
	}
	if err, ok := s.faults[fault{op: op}]; ok {
		return fmt.Errorf("%s %s: %w", op, entity, err)
	}
	return nil
}

// LockScale makes NormalizeScale on name fail with domain.ErrTransformRejected.
func (s *Scene) LockScale(name string, locked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.lookup(name)
	if err != nil {
		return err
	}
	o.scaleLocked = locked
	return nil
}

// Select replaces the selection. An empty active name clears the active entity.
func (s *Scene) Select(active string, names ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range append([]string{active}, names...) {
		if n == "" {
			continue
		}
		if _, err := s.lookup(n); err != nil {
			return err
		}
	}
	s.st.selected = append([]string(nil), names...)
	s.st.active = active
	return nil
}

// Entities returns every entity in creation order.
func (s *Scene) Entities() []domain.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Entity, 0, len(s.st.order))
	for _, name := range s.st.order {
		out = append(out, s.st.objects[name].entity)
	}
	return out
}

func (s *Scene) lookup(name string) (*object, error) {
	o, ok := s.st.objects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntityNotFound, name)
	}
	return o, nil
}

// --- ports.SceneReader ---

func (s *Scene) Selection(ctx context.Context) (domain.SelectionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.SelectionState{
		Selected: append([]string(nil), s.st.selected...),
		Active:   s.st.active,
		Mode:     s.st.mode,
	}, nil
}

func (s *Scene) Entity(ctx context.Context, name string) (domain.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, err := s.lookup(name)
	if err != nil {
		return domain.Entity{}, err
	}
	return o.entity, nil
}

func (s *Scene) Mode(ctx context.Context) (domain.Mode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.mode, nil
}

func (s *Scene) Stack(ctx context.Context, name string) ([]domain.StageSpec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	out := make([]domain.StageSpec, len(o.stack))
	for i, st := range o.stack {
		out[i] = copyStage(st)
	}
	return out, nil
}

func (s *Scene) Points(ctx context.Context, name string) ([]domain.Vec3, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	return append([]domain.Vec3(nil), o.points...), nil
}

// --- ports.SceneWriter ---

func (s *Scene) NormalizeScale(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.lookup(name)
	if err != nil {
		return err
	}
	if err := s.injected(OpNormalizeScale, name); err != nil {
		return err
	}
	if o.scaleLocked {
		return fmt.Errorf("%w: %s has a locked scale", domain.ErrTransformRejected, name)
	}

	s.history.record("Apply Scale", s.st)
	sc := o.entity.Scale
	for i, p := range o.points {
		o.points[i] = domain.Vec3{p[0] * sc[0], p[1] * sc[1], p[2] * sc[2]}
	}
	o.entity.Scale = domain.Vec3{1, 1, 1}
	return nil
}

// AlignOrigin moves name onto the origin of reference. Local geometry is left
// untouched, so the whole object travels with its origin.
func (s *Scene) AlignOrigin(ctx context.Context, name, reference string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.lookup(name)
	if err != nil {
		return err
	}
	ref, err := s.lookup(reference)
	if err != nil {
		return err
	}
	if err := s.injected(OpAlignOrigin, name); err != nil {
		return err
	}

	s.history.record("Set Origin", s.st)
	o.entity.Location = ref.entity.Location
	return nil
}

func (s *Scene) InsertStage(ctx context.Context, name string, stage domain.StageSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.lookup(name)
	if err != nil {
		return err
	}
	if err := s.injected(OpInsertStage, name); err != nil {
		return err
	}
	if err := s.admitStage(o, stage); err != nil {
		return err
	}

	s.history.record("Add Modifier", s.st)
	o.stack = insertAt(o.stack, copyStage(stage))
	return nil
}

// admitStage applies the host's stage rules: mesh and curve objects only, parameters
// matching the stage schema, references naming existing entities, a valid position.
func (s *Scene) admitStage(o *object, stage domain.StageSpec) error {
	name := o.entity.Name
	if k := o.entity.Kind; k != domain.KindMesh && k != domain.KindCurve {
		return fmt.Errorf("%w: %s object %s cannot hold stages", domain.ErrStageRejected, k, name)
	}
	if err := schema.ValidateStage(stage); err != nil {
		return fmt.Errorf("%w: %s on %s: %v", domain.ErrStageRejected, stage.Name, name, err)
	}
	if stage.RefParam != "" {
		ref, _ := stage.Params[stage.RefParam].(string)
		if _, ok := s.st.objects[ref]; !ok {
			return fmt.Errorf("%w: %s on %s references unknown entity %q", domain.ErrStageRejected, stage.Name, name, ref)
		}
		if ref == name {
			return fmt.Errorf("%w: %s on %s references itself", domain.ErrStageRejected, stage.Name, name)
		}
	}
	if stage.Position != domain.AppendPosition && (stage.Position < 0 || stage.Position > len(o.stack)) {
		return fmt.Errorf("%w: %s on %s: position %d outside stack of %d", domain.ErrStageRejected, stage.Name, name, stage.Position, len(o.stack))
	}
	return nil
}

func insertAt(stack []domain.StageSpec, stage domain.StageSpec) []domain.StageSpec {
	if stage.Position == domain.AppendPosition || stage.Position >= len(stack) {
		return append(stack, stage)
	}
	stack = append(stack, domain.StageSpec{})
	copy(stack[stage.Position+1:], stack[stage.Position:])
	stack[stage.Position] = stage
	return stack
}

// SetMode switches the interaction mode. Edit mode is available to meshes and curves,
// sculpt mode to meshes only. Pose mode needs an armature, which this scene never has.
func (s *Scene) SetMode(ctx context.Context, name string, mode domain.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.lookup(name)
	if err != nil {
		return err
	}
	if err := s.injected(OpSetMode, name); err != nil {
		return err
	}

	kind := o.entity.Kind
	switch mode {
	case domain.ModeObject:
	case domain.ModeEdit:
		if kind != domain.KindMesh && kind != domain.KindCurve {
			return fmt.Errorf("%w: %s object %s has no editable geometry", domain.ErrModeRejected, kind, name)
		}
	case domain.ModeSculpt:
		if kind != domain.KindMesh {
			return fmt.Errorf("%w: %s object %s cannot be sculpted", domain.ErrModeRejected, kind, name)
		}
	default:
		return fmt.Errorf("%w: %s mode is not available for %s", domain.ErrModeRejected, mode, name)
	}

	s.history.record("Toggle Mode", s.st)
	if prev, ok := s.st.objects[s.st.editing]; ok {
		prev.marked = nil
	}
	s.st.mode = mode
	s.st.editing = ""
	if mode != domain.ModeObject {
		s.st.editing = name
		o.marked = make([]bool, len(o.points))
	}
	return nil
}

func (s *Scene) edited(name string) (*object, error) {
	o, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	if s.st.mode != domain.ModeEdit || s.st.editing != name {
		return nil, fmt.Errorf("%w: %s is not in edit mode", domain.ErrModeRejected, name)
	}
	return o, nil
}

func (s *Scene) SelectPoints(ctx context.Context, name string, region domain.HalfSpace) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.edited(name)
	if err != nil {
		return 0, err
	}
	if err := s.injected(OpSelectPoints, name); err != nil {
		return 0, err
	}

	s.history.record("Select", s.st)
	n := 0
	o.marked = make([]bool, len(o.points))
	for i, p := range o.points {
		if region.Contains(p) {
			o.marked[i] = true
			n++
		}
	}
	return n, nil
}

func (s *Scene) DeleteSelectedPoints(ctx context.Context, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.edited(name)
	if err != nil {
		return 0, err
	}
	if err := s.injected(OpDeletePoints, name); err != nil {
		return 0, err
	}

	s.history.record("Delete", s.st)
	kept := o.points[:0]
	deleted := 0
	for i, p := range o.points {
		if i < len(o.marked) && o.marked[i] {
			deleted++
			continue
		}
		kept = append(kept, p)
	}
	o.points = kept
	o.marked = make([]bool, len(kept))
	return deleted, nil
}

func (s *Scene) SetShading(ctx context.Context, name string, shading domain.Shading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.lookup(name)
	if err != nil {
		return err
	}
	if err := s.injected(OpSetShading, name); err != nil {
		return err
	}
	if o.entity.Kind != domain.KindMesh {
		return fmt.Errorf("%s object %s has no surfaces to shade", o.entity.Kind, name)
	}

	s.history.record("Shade "+string(shading), s.st)
	o.entity.Shading = shading
	return nil
}

// --- ports.Checkpointer ---

// Checkpoint captures name as it is now. The returned Restore puts it back,
// replacing whatever happened to the entity since.
func (s *Scene) Checkpoint(ctx context.Context, name string) (ports.Restore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	if err := s.injected(OpCheckpoint, name); err != nil {
		return nil, err
	}

	saved := o.clone()
	return func(ctx context.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.st.objects[name]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrEntityNotFound, name)
		}
		s.st.objects[name] = saved.clone()
		return nil
	}, nil
}
