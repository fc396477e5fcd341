package network

// DependencyMap records, per constraint id, which source formulas produced
// that ground clause and with what signed multiplicity. A positive
// frequency f means the formula emitted this exact clause f times; a
// negative frequency means the formula's weight applies with inverted sign.
// The map is built once during grounding and only read afterwards.
type DependencyMap map[int]map[int]int

// NewDependencyMap creates an empty dependency map.
func NewDependencyMap() DependencyMap {
	return make(DependencyMap)
}

// Add accumulates freq onto the (constraint, formula) entry.
func (m DependencyMap) Add(constraintID, formulaIndex, freq int) {
	entry, ok := m[constraintID]
	if !ok {
		entry = make(map[int]int)
		m[constraintID] = entry
	}
	entry[formulaIndex] += freq
}

// Lookup returns the formula-index to frequency record for a constraint,
// or nil when the constraint has no recorded producers.
func (m DependencyMap) Lookup(constraintID int) map[int]int {
	return m[constraintID]
}
