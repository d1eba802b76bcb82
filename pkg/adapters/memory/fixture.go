package memory

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/modassist/pkg/domain"
	"github.com/aretw0/modassist/pkg/ports"
	"github.com/aretw0/modassist/pkg/schema"
)

// File is the YAML form of a scene.
//
//	mode: object
//	active: Cube
//	selected: [Cube]
//	entities:
//	  - name: Cube
//	    kind: mesh
//	    scale: 2            # shorthand for [2, 2, 2]
//	    points: [[-1, 0, 0], [1, 0, 0]]
//	    stack:
//	      - {name: Bevel, type: bevel, params: {limit_method: angle, segments: 3}}
type File struct {
	Mode     domain.Mode  `yaml:"mode" mapstructure:"mode"`
	Active   string       `yaml:"active,omitempty" mapstructure:"active"`
	Selected []string     `yaml:"selected" mapstructure:"selected"`
	Entities []EntityFile `yaml:"entities" mapstructure:"entities"`
}

// EntityFile is one entity of a scene file.
type EntityFile struct {
	domain.Entity `yaml:",inline" mapstructure:",squash"`
	Points        []domain.Vec3 `yaml:"points,omitempty" mapstructure:"points"`
	Stack         []StageFile   `yaml:"stack,omitempty" mapstructure:"stack"`
	ScaleLocked   bool          `yaml:"scale_locked,omitempty" mapstructure:"scale_locked"`
}

// StageFile is one stack stage of a scene file.
type StageFile struct {
	Name   string           `yaml:"name" mapstructure:"name"`
	Type   domain.StageType `yaml:"type" mapstructure:"type"`
	Params map[string]any   `yaml:"params,omitempty" mapstructure:"params"`
}

var vec3Type = reflect.TypeOf(domain.Vec3{})

// uniformVec3Hook lets a single number stand for a vector with three equal components.
func uniformVec3Hook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != vec3Type {
		return data, nil
	}
	switch v := data.(type) {
	case int:
		f := float64(v)
		return domain.Vec3{f, f, f}, nil
	case float64:
		return domain.Vec3{v, v, v}, nil
	}
	return data, nil
}

// Decode reads a scene file. Unknown keys are rejected.
func Decode(r io.Reader) (File, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return File{}, nil
		}
		return File{}, fmt.Errorf("parse scene: %w", err)
	}

	var f File
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       uniformVec3Hook,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &f,
	})
	if err != nil {
		return File{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return File{}, fmt.Errorf("decode scene: %w", err)
	}
	for i := range f.Entities {
		f.Entities[i].Kind = domain.ParseKind(string(f.Entities[i].Kind))
	}
	return f, nil
}

// Load builds a scene from a scene file.
func Load(r io.Reader) (*Scene, error) {
	f, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return FromFile(f)
}

// LoadFile builds a scene from the scene file at path.
func LoadFile(path string) (*Scene, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	s, err := Load(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// FromFile builds a scene from a decoded scene file. Stages listed in the file are
// checked against their schemas but are not recorded in the undo log.
func FromFile(f File) (*Scene, error) {
	seed := ports.Seed{
		Selected: f.Selected,
		Active:   f.Active,
		Mode:     f.Mode,
	}
	for _, ef := range f.Entities {
		seed.Entities = append(seed.Entities, ports.SeedEntity{Entity: ef.Entity, Points: ef.Points})
	}
	s, err := New(seed)
	if err != nil {
		return nil, err
	}

	for _, ef := range f.Entities {
		o := s.st.objects[ef.Name]
		o.scaleLocked = ef.ScaleLocked
		for _, sf := range ef.Stack {
			st := domain.StageSpec{Name: sf.Name, Type: sf.Type, Params: sf.Params, Position: domain.AppendPosition}
			if st.Params == nil {
				st.Params = map[string]any{}
			}
			if err := schema.ValidateStage(st); err != nil {
				return nil, fmt.Errorf("entity %s: stage %s: %w", ef.Name, sf.Name, err)
			}
			o.stack = append(o.stack, st)
		}
	}
	return s, nil
}

// Reset replaces the whole scene with f and clears the undo log. Injected faults are kept.
func (s *Scene) Reset(f File) error {
	fresh, err := FromFile(f)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.history.depth > 0 {
		return errors.New("cannot reset inside an undo group")
	}
	s.st = fresh.st
	s.history = history{}
	return nil
}

// File returns the scene in its file form.
func (s *Scene) File() File {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f := File{
		Mode:     s.st.mode,
		Active:   s.st.active,
		Selected: append([]string(nil), s.st.selected...),
	}
	for _, name := range s.st.order {
		o := s.st.objects[name]
		ef := EntityFile{
			Entity:      o.entity,
			Points:      append([]domain.Vec3(nil), o.points...),
			ScaleLocked: o.scaleLocked,
		}
		for _, st := range o.stack {
			ef.Stack = append(ef.Stack, StageFile{Name: st.Name, Type: st.Type, Params: copyStage(st).Params})
		}
		f.Entities = append(f.Entities, ef)
	}
	return f
}

// Save writes the scene as YAML.
func (s *Scene) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s.File()); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return enc.Close()
}
