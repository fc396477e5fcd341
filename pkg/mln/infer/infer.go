// Package infer defines the interface inference algorithms implement over
// a grounded network. Implementations live in subpackages.
package infer

import (
	"context"

	"github.com/statrel/mln/pkg/mln/network"
)

// Result is a truth assignment over the network's atoms, indexed by atom
// id (index 0 is unused), with the cost the solver attributed to it.
type Result struct {
	State []bool
	Cost  float64
	Flips int
}

// True reports the assignment of the given atom id.
func (r Result) True(atomID int) bool {
	if atomID < 1 || atomID >= len(r.State) {
		return false
	}
	return r.State[atomID]
}

// Solver finds a low-cost truth assignment for a grounded network.
// Evidence atoms (id to fixed truth value) are frozen and never flipped.
type Solver interface {
	Solve(ctx context.Context, net *network.Network, evidence map[int]bool) (Result, error)
}
