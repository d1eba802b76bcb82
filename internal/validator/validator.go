// Package validator checks a selection snapshot against a workflow's requirements.
//
// Checks run in a fixed order and stop at the first failure: selection present,
// selection size, kind configuration, interaction mode, active entity. Entities of a
// kind the workflow never uses are a kind failure whatever the selection size.
// When a workflow has several variants, the size and kinds of the selection pick
// the variant whose requirement is applied. Validation never touches the scene.
package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/modassist/pkg/domain"
	"github.com/aretw0/modassist/pkg/registry"
)

// Messages shown to the user. Counts and modes are filled in at validation time.
const (
	MsgNoSelection     = "Please select an object first"
	MsgWrongCount      = "This command requires %s selected object(s), but %d are selected"
	MsgWrongTypes      = "This command requires %s"
	MsgWrongMode       = "This command must be run in %s mode (currently in %s mode)"
	MsgNoActive        = "Please ensure one of the selected objects is active"
	MsgUnknownWorkflow = "Unknown workflow: %s"
)

// Validator evaluates registry requirements.
type Validator struct {
	reg *registry.Registry
}

// New creates a validator over reg.
func New(reg *registry.Registry) *Validator {
	return &Validator{reg: reg}
}

// Validate returns the verdict for workflow against snap.
func (v *Validator) Validate(workflow domain.WorkflowID, snap domain.SelectionSnapshot) domain.ValidationResult {
	def, ok := v.reg.Lookup(workflow)
	if !ok {
		return domain.Failed(domain.CodeCommandNotRecognized, fmt.Sprintf(MsgUnknownWorkflow, workflow))
	}
	return Check(def, snap)
}

// Check applies def's requirements to snap.
func Check(def registry.Definition, snap domain.SelectionSnapshot) domain.ValidationResult {
	if snap.Empty() {
		return domain.Failed(domain.CodeNoSelection, MsgNoSelection)
	}

	if n := eligible(def, snap.Kinds()); n < snap.Len() {
		describe := def.Variants[0].Requirement.Describe
		if c := def.Candidates(n); len(c) > 0 {
			describe = c[0].Requirement.Describe
		}
		return domain.Failed(domain.CodeWrongObjectTypes, fmt.Sprintf(MsgWrongTypes, describe))
	}

	candidates := def.Candidates(snap.Len())
	if len(candidates) == 0 {
		return domain.Failed(domain.CodeWrongObjectCount,
			fmt.Sprintf(MsgWrongCount, joinCounts(def.Counts()), snap.Len()))
	}

	req, ok := refine(candidates, snap.Kinds())
	if !ok {
		return domain.Failed(domain.CodeWrongObjectTypes, fmt.Sprintf(MsgWrongTypes, candidates[0].Requirement.Describe))
	}

	if req.Mode != "" && snap.Mode() != req.Mode {
		return domain.Failed(domain.CodeWrongMode, fmt.Sprintf(MsgWrongMode, req.Mode, snap.Mode()))
	}

	if req.NeedsActive {
		if _, hasActive := snap.Active(); !hasActive {
			return domain.Failed(domain.CodeWrongObjectTypes, MsgNoActive)
		}
	}

	return domain.Passed()
}

// refine picks the requirement whose kind multiset matches among same-size variants.
func refine(candidates []registry.Variant, kinds domain.KindSet) (domain.WorkflowRequirement, bool) {
	for _, c := range candidates {
		if c.Requirement.Kinds.Equal(kinds) {
			return c.Requirement, true
		}
	}
	return domain.WorkflowRequirement{}, false
}

// eligible counts the selected entities whose kind some variant of def accepts.
func eligible(def registry.Definition, kinds domain.KindSet) int {
	n := 0
	for k, c := range kinds {
		for _, v := range def.Variants {
			if v.Requirement.Kinds[k] > 0 {
				n += c
				break
			}
		}
	}
	return n
}

func joinCounts(counts []int) string {
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprint(c)
	}
	return strings.Join(parts, " or ")
}
