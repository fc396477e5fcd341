// Package network holds the grounded Markov Random Field: dense id-indexed
// ground atoms and weighted ground clauses, the literal-occurrence indices
// that make local search tractable, and the weight reconstruction pass that
// refreshes clause weights from learned per-formula weights.
package network

// NoAtomID is the sentinel ground-atom id meaning "no atom".
const NoAtomID = 0

// NoConstraintID is the sentinel constraint id meaning "no constraint".
const NoConstraintID = -1

// GroundAtom is one fully instantiated boolean predicate occurrence. The
// zero value is the "no atom" sentinel.
type GroundAtom struct {
	ID   int
	Text string
}

// None reports whether the atom is the "no atom" sentinel.
func (a GroundAtom) None() bool { return a.ID == NoAtomID }

// Constraint is a ground clause: a disjunction of signed ground-atom
// references. A literal's absolute value is the referenced atom id; its
// sign is the polarity. Only Weight mutates after network construction.
type Constraint struct {
	ID     int
	Lits   []int
	Weight float64
	Hard   bool
}

// NoConstraint is the "no constraint" sentinel returned by lookups on
// unknown ids. Callers must check for it before use.
var NoConstraint = &Constraint{ID: NoConstraintID}

// None reports whether the constraint is the "no constraint" sentinel.
func (c *Constraint) None() bool { return c == nil || c.ID == NoConstraintID }

// Satisfied reports whether the clause holds under the given truth
// assignment, indexed by atom id.
func (c *Constraint) Satisfied(state []bool) bool {
	for _, lit := range c.Lits {
		if lit > 0 && state[lit] {
			return true
		}
		if lit < 0 && !state[-lit] {
			return true
		}
	}
	return false
}
