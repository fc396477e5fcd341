package network

// Network is the grounded Markov Random Field. It exclusively owns its
// atoms and constraints; the literal indices hold references into the
// constraint collection. The structure is immutable after construction;
// only constraint weights mutate (via Reconstruct).
type Network struct {
	buildID     string
	atoms       []GroundAtom  // indexed by id-1
	constraints []*Constraint // indexed by id-1

	// posIndex[a] / negIndex[a] list every constraint containing atom a as
	// a positive / negative literal. Indexed directly by atom id.
	posIndex [][]*Constraint
	negIndex [][]*Constraint

	byText map[string]int

	deps DependencyMap

	weightHard       float64
	queryAtomStartID int
	queryAtomEndID   int
	maxClauseWidth   int
}

// New assembles a network from the grounding pass output. Atom ids must be
// dense in [1, len(atoms)] and constraint ids dense in [1, len(constraints)];
// literal absolute values must be valid atom ids. A single linear pass over
// the constraints builds both literal indices and the maximum clause width.
// deps may be nil, in which case weight reconstruction is unavailable.
func New(atoms []GroundAtom, constraints []*Constraint, weightHard float64, queryAtomStartID, queryAtomEndID int, deps DependencyMap) *Network {
	n := &Network{
		atoms:            atoms,
		constraints:      constraints,
		posIndex:         make([][]*Constraint, len(atoms)+1),
		negIndex:         make([][]*Constraint, len(atoms)+1),
		byText:           make(map[string]int, len(atoms)),
		deps:             deps,
		weightHard:       weightHard,
		queryAtomStartID: queryAtomStartID,
		queryAtomEndID:   queryAtomEndID,
	}
	for _, a := range atoms {
		n.byText[a.Text] = a.ID
	}
	for _, c := range constraints {
		for _, lit := range c.Lits {
			if lit > 0 {
				n.posIndex[lit] = append(n.posIndex[lit], c)
			} else {
				n.negIndex[-lit] = append(n.negIndex[-lit], c)
			}
		}
		if len(c.Lits) > n.maxClauseWidth {
			n.maxClauseWidth = len(c.Lits)
		}
	}
	return n
}

// SetBuildID stamps the network with an identifier for this grounding pass.
func (n *Network) SetBuildID(id string) { n.buildID = id }

// BuildID returns the identifier stamped at grounding time.
func (n *Network) BuildID() string { return n.buildID }

// NumAtoms returns the number of ground atoms.
func (n *Network) NumAtoms() int { return len(n.atoms) }

// NumConstraints returns the number of ground constraints.
func (n *Network) NumConstraints() int { return len(n.constraints) }

// WeightHard returns the network-wide weight assigned to hard constraints.
func (n *Network) WeightHard() float64 { return n.weightHard }

// QueryAtomRange returns the contiguous [start, end] id range of query
// atoms; ids outside the range denote evidence or hidden atoms.
func (n *Network) QueryAtomRange() (start, end int) {
	return n.queryAtomStartID, n.queryAtomEndID
}

// MaxClauseWidth returns the largest literal count over all constraints.
func (n *Network) MaxClauseWidth() int { return n.maxClauseWidth }

// FetchAtom resolves a signed literal to its ground atom by absolute value.
// An id outside the known set yields the "no atom" sentinel.
func (n *Network) FetchAtom(literal int) GroundAtom {
	id := literal
	if id < 0 {
		id = -id
	}
	if id < 1 || id > len(n.atoms) {
		return GroundAtom{}
	}
	return n.atoms[id-1]
}

// AtomID resolves a rendered ground atom to its id, or NoAtomID when the
// text names no atom in the network.
func (n *Network) AtomID(text string) int {
	return n.byText[text]
}

// LookupConstraint resolves a constraint id; an unknown id yields the
// NoConstraint sentinel rather than an error.
func (n *Network) LookupConstraint(id int) *Constraint {
	if id < 1 || id > len(n.constraints) {
		return NoConstraint
	}
	return n.constraints[id-1]
}

// Pos returns every constraint containing atomID as a positive literal.
// The returned slice is the index itself and must not be modified.
func (n *Network) Pos(atomID int) []*Constraint {
	if atomID < 1 || atomID >= len(n.posIndex) {
		return nil
	}
	return n.posIndex[atomID]
}

// Neg returns every constraint containing atomID as a negative literal.
// The returned slice is the index itself and must not be modified.
func (n *Network) Neg(atomID int) []*Constraint {
	if atomID < 1 || atomID >= len(n.negIndex) {
		return nil
	}
	return n.negIndex[atomID]
}

// Constraints returns the constraint collection in id order. Read-only.
func (n *Network) Constraints() []*Constraint { return n.constraints }

// Dependencies returns the attached dependency map, or nil when the network
// was built without dependency tracking.
func (n *Network) Dependencies() DependencyMap { return n.deps }
