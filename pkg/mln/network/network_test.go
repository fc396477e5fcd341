package network

import "testing"

func buildTestNetwork(deps DependencyMap) *Network {
	atoms := []GroundAtom{
		{ID: 1, Text: "Cancer(Anna)"},
		{ID: 2, Text: "Smokes(Anna)"},
		{ID: 3, Text: "Friends(Anna,Bob)"},
	}
	constraints := []*Constraint{
		{ID: 1, Lits: []int{-2, 1}, Weight: 1.5},
		{ID: 2, Lits: []int{-3, -2, 1}, Weight: 1.1},
		{ID: 3, Lits: []int{2}, Weight: 0.5},
	}
	return New(atoms, constraints, 100, 1, 1, deps)
}

func TestLiteralIndexCompleteness(t *testing.T) {
	net := buildTestNetwork(nil)

	for _, c := range net.Constraints() {
		for _, lit := range c.Lits {
			atomID := lit
			if atomID < 0 {
				atomID = -atomID
			}
			idx := net.Pos(atomID)
			opposite := net.Neg(atomID)
			if lit < 0 {
				idx, opposite = opposite, idx
			}
			if !containsConstraint(idx, c) {
				t.Errorf("constraint %d missing from index for literal %d", c.ID, lit)
			}
			if containsConstraint(opposite, c) && !hasLiteral(c, -lit) {
				t.Errorf("constraint %d in opposite-sign index for literal %d", c.ID, lit)
			}
		}
	}

	// every atom appearing in a constraint has a non-empty index entry
	for id := 1; id <= net.NumAtoms(); id++ {
		if len(net.Pos(id))+len(net.Neg(id)) == 0 {
			t.Errorf("atom %d appears in no index", id)
		}
	}
}

func containsConstraint(list []*Constraint, c *Constraint) bool {
	for _, x := range list {
		if x == c {
			return true
		}
	}
	return false
}

func hasLiteral(c *Constraint, lit int) bool {
	for _, l := range c.Lits {
		if l == lit {
			return true
		}
	}
	return false
}

func TestNetworkMetadata(t *testing.T) {
	net := buildTestNetwork(nil)

	if net.NumAtoms() != 3 || net.NumConstraints() != 3 {
		t.Errorf("unexpected sizes: %d atoms, %d constraints", net.NumAtoms(), net.NumConstraints())
	}
	if net.MaxClauseWidth() != 3 {
		t.Errorf("expected max clause width 3, got %d", net.MaxClauseWidth())
	}
	if net.WeightHard() != 100 {
		t.Errorf("expected hard weight 100, got %g", net.WeightHard())
	}
	start, end := net.QueryAtomRange()
	if start != 1 || end != 1 {
		t.Errorf("expected query range [1,1], got [%d,%d]", start, end)
	}
}

func TestFetchAtomSentinel(t *testing.T) {
	net := buildTestNetwork(nil)

	if a := net.FetchAtom(-2); a.ID != 2 || a.Text != "Smokes(Anna)" {
		t.Errorf("negative literal should resolve by absolute value, got %+v", a)
	}
	for _, lit := range []int{0, 4, -99} {
		if a := net.FetchAtom(lit); !a.None() {
			t.Errorf("literal %d: expected the no-atom sentinel, got %+v", lit, a)
		}
	}
}

func TestLookupConstraintSentinel(t *testing.T) {
	net := buildTestNetwork(nil)

	if c := net.LookupConstraint(2); c.None() || c.ID != 2 {
		t.Errorf("expected constraint 2, got %+v", c)
	}
	for _, id := range []int{0, -1, 4} {
		if c := net.LookupConstraint(id); !c.None() || c.ID != NoConstraintID {
			t.Errorf("id %d: expected the no-constraint sentinel, got %+v", id, c)
		}
	}
}

func TestAtomIDLookup(t *testing.T) {
	net := buildTestNetwork(nil)

	if id := net.AtomID("Smokes(Anna)"); id != 2 {
		t.Errorf("expected id 2, got %d", id)
	}
	if id := net.AtomID("Smokes(Bob)"); id != NoAtomID {
		t.Errorf("expected NoAtomID for unknown text, got %d", id)
	}
}

func TestConstraintSatisfied(t *testing.T) {
	c := &Constraint{ID: 1, Lits: []int{-2, 1}}
	tests := []struct {
		state []bool
		want  bool
	}{
		{[]bool{false, true, true}, true},   // positive literal true
		{[]bool{false, false, false}, true}, // negated literal true
		{[]bool{false, false, true}, false}, // both false
	}
	for i, tt := range tests {
		if got := c.Satisfied(tt.state); got != tt.want {
			t.Errorf("case %d: expected %v, got %v", i, tt.want, got)
		}
	}
}
