package network

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/statrel/mln/pkg/mln/internalerr"
)

// Reconstruct recomputes every constraint's weight from freshly learned
// per-formula weights, using the dependency map recorded at grounding time,
// without re-grounding. For each constraint the soft contributions
// formulaWeights[i] * frequency are summed (a negative frequency inverts
// the contribution's sign); if any contributing formula is flagged hard the
// constraint's weight is the network-wide hard weight and the soft
// contributions are discarded, regardless of iteration order.
//
// The update is in place and idempotent for a fixed input: identities,
// literals and the indices are untouched. A failed pass leaves weights
// undefined; callers recover by re-running reconstruction.
func (n *Network) Reconstruct(formulaWeights []float64, hardFlags []bool) error {
	if n.deps == nil {
		return internalerr.ErrNoDependencyMap
	}
	for _, c := range n.constraints {
		if err := n.reconstructOne(c, formulaWeights, hardFlags); err != nil {
			return err
		}
	}
	return nil
}

// ReconstructParallel is Reconstruct with the constraint id space
// partitioned across workers. Constraints are independent during this pass,
// so no ordering is required between them.
func (n *Network) ReconstructParallel(ctx context.Context, formulaWeights []float64, hardFlags []bool, workers int) error {
	if n.deps == nil {
		return internalerr.ErrNoDependencyMap
	}
	if workers < 1 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	chunk := (len(n.constraints) + workers - 1) / workers
	for lo := 0; lo < len(n.constraints); lo += chunk {
		hi := lo + chunk
		if hi > len(n.constraints) {
			hi = len(n.constraints)
		}
		part := n.constraints[lo:hi]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for _, c := range part {
				if err := n.reconstructOne(c, formulaWeights, hardFlags); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (n *Network) reconstructOne(c *Constraint, formulaWeights []float64, hardFlags []bool) error {
	acc := 0.0
	sawHard := false
	for idx, freq := range n.deps.Lookup(c.ID) {
		if idx < 0 || idx >= len(formulaWeights) || idx >= len(hardFlags) {
			return fmt.Errorf("constraint %d references formula %d outside weight vector: %w", c.ID, idx, internalerr.ErrInvalidInput)
		}
		if hardFlags[idx] {
			sawHard = true
			continue
		}
		acc += formulaWeights[idx] * float64(freq)
	}
	if sawHard {
		c.Weight = n.weightHard
		c.Hard = true
		return nil
	}
	c.Weight = acc
	c.Hard = false
	return nil
}
