// Package interpreter maps free text to a workflow identifier.
//
// Matching is deterministic keyword containment over the registry's ordered table:
// the first workflow (in declaration order) owning a keyword (in list order) that is
// a substring of the normalized input wins.
package interpreter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/aretw0/modassist/pkg/domain"
	"github.com/aretw0/modassist/pkg/registry"
)

// MinCommandLength is the shortest normalized input that is matched at all.
const MinCommandLength = 3

// Interpreter resolves commands against a registry. It holds no mutable state.
type Interpreter struct {
	reg *registry.Registry
}

// New creates an interpreter over reg.
func New(reg *registry.Registry) *Interpreter {
	return &Interpreter{reg: reg}
}

// Normalize folds text into the form keywords are matched against:
// NFKC-normalized, trimmed and lower-cased.
func Normalize(text string) string {
	s := norm.NFKC.String(text)
	s = strings.TrimSpace(s)
	return cases.Lower(language.Und).String(s)
}

// Resolve returns the command for text. Inputs without a keyword, or shorter than
// MinCommandLength after normalization, resolve to domain.Unrecognized.
func (i *Interpreter) Resolve(text string) domain.Command {
	cmd := domain.Command{Raw: text, Workflow: domain.Unrecognized}

	normalized := Normalize(text)
	if utf8.RuneCountInString(normalized) < MinCommandLength {
		return cmd
	}

	for _, def := range i.reg.Definitions() {
		for _, kw := range def.Keywords {
			if strings.Contains(normalized, kw) {
				cmd.Workflow = def.ID
				cmd.Keyword = kw
				return cmd
			}
		}
	}
	return cmd
}

// HelpMessage is the feedback for an unrecognized command. It lists one example
// phrase per workflow.
func HelpMessage(reg *registry.Registry) string {
	examples := reg.Examples()
	quoted := make([]string, len(examples))
	for i, e := range examples {
		quoted[i] = fmt.Sprintf("'%s'", e)
	}
	var list string
	switch len(quoted) {
	case 0:
		return "Command not understood"
	case 1:
		list = quoted[0]
	default:
		list = strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
	}
	return "Command not understood. Try: " + list
}
