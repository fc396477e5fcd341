// Package kb holds the weighted first-order knowledge base: clauses over
// signed atoms with per-formula weights, the input to grounding.
package kb

import (
	"fmt"
	"strings"

	"github.com/statrel/mln/pkg/mln/internalerr"
	"github.com/statrel/mln/pkg/mln/logic"
)

// Literal is a possibly negated atomic formula.
type Literal struct {
	Atom    logic.Atom
	Negated bool
}

// Pos returns a positive literal over the atom.
func Pos(a logic.Atom) Literal { return Literal{Atom: a} }

// Neg returns a negated literal over the atom.
func Neg(a logic.Atom) Literal { return Literal{Atom: a, Negated: true} }

func (l Literal) String() string {
	if l.Negated {
		return "!" + l.Atom.String()
	}
	return l.Atom.String()
}

// Formula is a weighted first-order clause. Hard formulas express logical
// necessity: their ground clauses take the network-wide hard weight and are
// never learned. Inverted marks a formula whose learned weight applies with
// flipped sign to the clauses it emits (the normal form for a
// negative-weight source formula); the grounder records it as a negative
// dependency frequency.
type Formula struct {
	Clause   []Literal
	Weight   float64
	Hard     bool
	Inverted bool
}

func (f Formula) String() string {
	parts := make([]string, len(f.Clause))
	for i, l := range f.Clause {
		parts[i] = l.String()
	}
	head := fmt.Sprintf("%g", f.Weight)
	if f.Hard {
		head = "hard"
	}
	return head + " " + strings.Join(parts, " v ")
}

// Variables returns the distinct variables over the whole clause, in first
// occurrence order.
func (f Formula) Variables() []logic.Variable {
	var out []logic.Variable
	seen := make(map[logic.Variable]struct{})
	for _, l := range f.Clause {
		for _, v := range l.Atom.Variables() {
			if _, dup := seen[v]; !dup {
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
	}
	return out
}

// KB is an ordered, append-only list of formulas. Formula indices are
// stable and are the indices used by dependency maps and weight vectors.
type KB struct {
	formulas []Formula
}

// New creates an empty knowledge base.
func New() *KB {
	return &KB{}
}

// Add appends a formula and returns its index. A formula with an empty
// clause is rejected.
func (k *KB) Add(f Formula) (int, error) {
	if len(f.Clause) == 0 {
		return 0, fmt.Errorf("empty clause: %w", internalerr.ErrInvalidInput)
	}
	k.formulas = append(k.formulas, f)
	return len(k.formulas) - 1, nil
}

// Len returns the number of formulas.
func (k *KB) Len() int { return len(k.formulas) }

// Formula returns the formula at index i.
func (k *KB) Formula(i int) Formula { return k.formulas[i] }

// Formulas returns a copy of the formula list in index order.
func (k *KB) Formulas() []Formula {
	out := make([]Formula, len(k.formulas))
	copy(out, k.formulas)
	return out
}

// Weights returns the current per-formula weight vector, indexed by
// formula index.
func (k *KB) Weights() []float64 {
	out := make([]float64, len(k.formulas))
	for i, f := range k.formulas {
		out[i] = f.Weight
	}
	return out
}

// HardFlags returns the per-formula hard flags, indexed by formula index.
func (k *KB) HardFlags() []bool {
	out := make([]bool, len(k.formulas))
	for i, f := range k.formulas {
		out[i] = f.Hard
	}
	return out
}

// SetWeight updates the learned weight of the formula at index i.
func (k *KB) SetWeight(i int, w float64) {
	k.formulas[i].Weight = w
}
