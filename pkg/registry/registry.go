package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/modassist/pkg/domain"
	"github.com/aretw0/modassist/pkg/schema"
)

// Variant pairs one structural requirement with the procedure run when it is met.
type Variant struct {
	Requirement domain.WorkflowRequirement
	Procedure   []domain.ProcedureStep
	// Summary is the success message. Role placeholders such as {target} are
	// replaced with the bound entity names.
	Summary string
}

// Definition is one registered workflow.
type Definition struct {
	ID       domain.WorkflowID
	Title    string
	Example  string
	Keywords []string
	Variants []Variant
}

// Candidates returns the variants requiring exactly n selected entities, in declaration order.
func (d Definition) Candidates(n int) []Variant {
	var out []Variant
	for _, v := range d.Variants {
		if v.Requirement.Count == n {
			out = append(out, v)
		}
	}
	return out
}

// Counts returns the distinct selection sizes the workflow accepts, in declaration order.
func (d Definition) Counts() []int {
	var counts []int
	seen := make(map[int]bool)
	for _, v := range d.Variants {
		if !seen[v.Requirement.Count] {
			seen[v.Requirement.Count] = true
			counts = append(counts, v.Requirement.Count)
		}
	}
	return counts
}

// Match returns the variant whose count and kind multiset equal the snapshot's.
// Mode and active-entity requirements are left to the validator.
func (d Definition) Match(snap domain.SelectionSnapshot) (Variant, bool) {
	kinds := snap.Kinds()
	for _, v := range d.Candidates(snap.Len()) {
		if v.Requirement.Kinds.Equal(kinds) {
			return v, true
		}
	}
	return Variant{}, false
}

// Registry is the immutable, ordered workflow table.
type Registry struct {
	defs     []Definition
	index    map[domain.WorkflowID]int
	defaults Defaults
}

// New builds the registry with the given defaults and runs Check on the result.
func New(d Defaults) (*Registry, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	r := &Registry{
		defs:     table(d),
		index:    make(map[domain.WorkflowID]int),
		defaults: d,
	}
	for i, def := range r.defs {
		r.index[def.ID] = i
	}
	if err := r.Check(); err != nil {
		return nil, fmt.Errorf("workflow table is inconsistent: %w", err)
	}
	return r, nil
}

// Default returns the registry built from DefaultDefaults.
func Default() *Registry {
	r, err := New(DefaultDefaults())
	if err != nil {
		panic(err)
	}
	return r
}

// Defaults returns the parameters the registry was built with.
func (r *Registry) Defaults() Defaults { return r.defaults }

// Lookup returns the definition of a workflow.
func (r *Registry) Lookup(id domain.WorkflowID) (Definition, bool) {
	i, ok := r.index[id]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i], true
}

// Definitions returns the workflows in declaration order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Examples returns one example phrase per workflow, in declaration order.
func (r *Registry) Examples() []string {
	out := make([]string, len(r.defs))
	for i, d := range r.defs {
		out[i] = d.Example
	}
	return out
}

// Check verifies the invariants the interpreter, validator and executor rely on.
func (r *Registry) Check() error {
	var errs []error
	for i, def := range r.defs {
		if len(def.Keywords) == 0 {
			errs = append(errs, fmt.Errorf("%s: no keywords", def.ID))
		}
		errs = append(errs, checkShadowing(r.defs[:i], def)...)
		errs = append(errs, checkVariants(def)...)
	}
	return errors.Join(errs...)
}

func checkShadowing(earlier []Definition, def Definition) []error {
	var errs []error
	for _, kw := range def.Keywords {
		for _, prev := range earlier {
			for _, pk := range prev.Keywords {
				if strings.Contains(kw, pk) {
					errs = append(errs, fmt.Errorf("%s: keyword %q is shadowed by %q of %s", def.ID, kw, pk, prev.ID))
				}
			}
		}
	}
	return errs
}

func checkVariants(def Definition) []error {
	var errs []error
	for i, v := range def.Variants {
		for _, other := range def.Variants[:i] {
			if other.Requirement.Count == v.Requirement.Count && other.Requirement.Kinds.Equal(v.Requirement.Kinds) {
				errs = append(errs, fmt.Errorf("%s: variants %d and an earlier one are indistinguishable", def.ID, i))
			}
		}
		if v.Requirement.Kinds.Count() != v.Requirement.Count {
			errs = append(errs, fmt.Errorf("%s: variant %d kind set does not match its count", def.ID, i))
		}

		// Bind against a synthetic selection that satisfies the requirement.
		snap, err := exemplar(v.Requirement)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: variant %d: %w", def.ID, i, err))
			continue
		}
		if _, err := Bind(v, snap); err != nil {
			errs = append(errs, fmt.Errorf("%s: variant %d: %w", def.ID, i, err))
		}

		last := domain.PhasePreparing
		for j, step := range v.Procedure {
			phase := step.Phase()
			if phase == domain.PhaseFailed {
				errs = append(errs, fmt.Errorf("%s: step %d has unknown kind %q", def.ID, j, step.Kind))
				continue
			}
			if phase < last {
				errs = append(errs, fmt.Errorf("%s: step %d (%s) runs after a later phase", def.ID, j, step.Label()))
			}
			last = phase
			if step.Kind == domain.StepStage {
				if step.Stage == nil {
					errs = append(errs, fmt.Errorf("%s: step %d has no stage", def.ID, j))
					continue
				}
				if err := schema.ValidateStage(step.Stage.WithReference("ref")); err != nil {
					errs = append(errs, fmt.Errorf("%s: stage %s: %w", def.ID, step.Stage.Name, err))
				}
			}
		}
	}
	return errs
}

// exemplar builds a snapshot that satisfies req, with the first entity active.
func exemplar(req domain.WorkflowRequirement) (domain.SelectionSnapshot, error) {
	var entities []domain.Entity
	for _, k := range []domain.Kind{domain.KindMesh, domain.KindCurve, domain.KindEmpty, domain.KindLight, domain.KindCamera, domain.KindOther} {
		for n := 0; n < req.Kinds[k]; n++ {
			entities = append(entities, domain.Entity{Name: fmt.Sprintf("%s.%03d", k, n), Kind: k})
		}
	}
	active := ""
	if len(entities) > 0 {
		active = entities[0].Name
	}
	return domain.NewSelectionSnapshot(entities, active, req.Mode)
}
