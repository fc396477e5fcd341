// Package store persists the system's inputs and outputs: evidence atoms
// (by their textual rendering) and learned per-formula weights. The ground
// network itself is never persisted; it is rebuilt by grounding.
package store

import "context"

// Evidence is one observed ground atom with its truth value.
type Evidence struct {
	Atom  string
	Truth bool
}

// FormulaWeight is a learned weight for one source formula, keyed by the
// formula's KB index.
type FormulaWeight struct {
	Index  int
	Weight float64
	Hard   bool
}

// Store is the persistence interface for evidence and learned weights.
type Store interface {
	Close() error

	// Evidence
	UpsertEvidence(ctx context.Context, e Evidence) error
	ListEvidence(ctx context.Context) ([]Evidence, error)

	// Learned weights
	SaveWeights(ctx context.Context, ws []FormulaWeight) error
	LoadWeights(ctx context.Context) ([]FormulaWeight, error)
}
