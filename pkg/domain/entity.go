package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Kind is the coarse type tag of an entity used for structural matching.
type Kind string

const (
	KindMesh   Kind = "mesh"
	KindCurve  Kind = "curve"
	KindEmpty  Kind = "empty" // auxiliary control entity
	KindLight  Kind = "light"
	KindCamera Kind = "camera"
	KindOther  Kind = "other"
)

// ParseKind maps a host type name (e.g. "MESH", "curve") to a Kind.
// Unknown names map to KindOther.
func ParseKind(s string) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindMesh:
		return KindMesh
	case KindCurve:
		return KindCurve
	case KindEmpty:
		return KindEmpty
	case KindLight:
		return KindLight
	case KindCamera:
		return KindCamera
	default:
		return KindOther
	}
}

// Mode is the host's current interaction mode.
type Mode string

const (
	ModeObject Mode = "object"
	ModeEdit   Mode = "edit"
	ModeSculpt Mode = "sculpt"
	ModePose   Mode = "pose"
)

// Vec3 is a point or direction in scene space.
type Vec3 [3]float64

// Axis selects one component of a Vec3.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// Entity is the read model of a scene object.
type Entity struct {
	Name     string  `yaml:"name" json:"name" mapstructure:"name"`
	Kind     Kind    `yaml:"kind" json:"kind" mapstructure:"kind"`
	Location Vec3    `yaml:"location" json:"location" mapstructure:"location"`
	Scale    Vec3    `yaml:"scale" json:"scale" mapstructure:"scale"`
	Shading  Shading `yaml:"shading" json:"shading" mapstructure:"shading"`
}

// KindSet is a multiset of entity kinds.
type KindSet map[Kind]int

// KindsOf derives the multiset of kinds of the given entities.
func KindsOf(entities []Entity) KindSet {
	ks := make(KindSet, len(entities))
	for _, e := range entities {
		ks[e.Kind]++
	}
	return ks
}

// Count returns the total number of members.
func (ks KindSet) Count() int {
	n := 0
	for _, c := range ks {
		n += c
	}
	return n
}

// Equal reports whether both multisets hold exactly the same members.
func (ks KindSet) Equal(other KindSet) bool {
	for k, c := range ks {
		if c != 0 && other[k] != c {
			return false
		}
	}
	for k, c := range other {
		if c != 0 && ks[k] != c {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (ks KindSet) Clone() KindSet {
	out := make(KindSet, len(ks))
	for k, c := range ks {
		if c != 0 {
			out[k] = c
		}
	}
	return out
}

// String renders the multiset deterministically, e.g. "1 curve, 1 mesh".
func (ks KindSet) String() string {
	kinds := make([]string, 0, len(ks))
	for k, c := range ks {
		if c > 0 {
			kinds = append(kinds, string(k))
		}
	}
	sort.Strings(kinds)
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%d %s", ks[Kind(k)], k)
	}
	return strings.Join(parts, ", ")
}
