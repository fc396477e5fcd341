// Package learn implements perceptron-style weight learning: formula
// weights step toward the training assignment and the network's constraint
// weights are refreshed in place through reconstruction, never by
// re-grounding.
package learn

import (
	"context"

	"go.uber.org/zap"

	"github.com/statrel/mln/pkg/mln/infer"
	"github.com/statrel/mln/pkg/mln/internalerr"
	"github.com/statrel/mln/pkg/mln/kb"
	"github.com/statrel/mln/pkg/mln/network"
)

// Options tunes the trainer.
type Options struct {
	Rate   float64 // learning rate per epoch
	Epochs int
}

// DefaultOptions returns conservative training parameters.
func DefaultOptions() Options {
	return Options{Rate: 0.1, Epochs: 10}
}

// Trainer learns soft-formula weights from a labeled assignment. Hard
// formulas are never updated.
type Trainer struct {
	opts   Options
	solver infer.Solver
	log    *zap.Logger
}

// New creates a trainer; zero-valued options fall back to defaults.
func New(opts Options, solver infer.Solver, log *zap.Logger) *Trainer {
	def := DefaultOptions()
	if opts.Rate <= 0 {
		opts.Rate = def.Rate
	}
	if opts.Epochs <= 0 {
		opts.Epochs = def.Epochs
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Trainer{opts: opts, solver: solver, log: log}
}

// Train runs the perceptron loop: each epoch infers a MAP state under the
// current weights, compares per-formula satisfied counts between the
// training assignment and the inferred one, steps the soft weights by the
// difference, and reconstructs the network's constraint weights. It
// returns the final weight vector, which is also written back to the KB.
//
// truth maps query-atom ids to their labeled values; atoms absent from
// both truth and evidence are taken as false.
func (t *Trainer) Train(ctx context.Context, net *network.Network, kbase *kb.KB, truth, evidence map[int]bool) ([]float64, error) {
	deps := net.Dependencies()
	if deps == nil {
		return nil, internalerr.ErrNoDependencyMap
	}

	truthState := make([]bool, net.NumAtoms()+1)
	for id, v := range evidence {
		if id >= 1 && id < len(truthState) {
			truthState[id] = v
		}
	}
	for id, v := range truth {
		if id >= 1 && id < len(truthState) {
			truthState[id] = v
		}
	}

	weights := kbase.Weights()
	hard := kbase.HardFlags()

	for epoch := 0; epoch < t.opts.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inferred, err := t.solver.Solve(ctx, net, evidence)
		if err != nil {
			return nil, err
		}

		trueCounts := make([]float64, len(weights))
		infCounts := make([]float64, len(weights))
		for _, c := range net.Constraints() {
			satTruth := c.Satisfied(truthState)
			satInf := c.Satisfied(inferred.State)
			if !satTruth && !satInf {
				continue
			}
			for idx, freq := range deps.Lookup(c.ID) {
				if hard[idx] {
					continue
				}
				if satTruth {
					trueCounts[idx] += float64(freq)
				}
				if satInf {
					infCounts[idx] += float64(freq)
				}
			}
		}

		moved := 0.0
		for i := range weights {
			if hard[i] {
				continue
			}
			step := t.opts.Rate * (trueCounts[i] - infCounts[i])
			weights[i] += step
			if step < 0 {
				step = -step
			}
			moved += step
		}
		for i, w := range weights {
			if !hard[i] {
				kbase.SetWeight(i, w)
			}
		}
		if err := net.Reconstruct(weights, hard); err != nil {
			return nil, err
		}
		t.log.Debug("perceptron epoch",
			zap.Int("epoch", epoch),
			zap.Float64("total_step", moved),
			zap.Float64("map_cost", inferred.Cost))
		if moved == 0 {
			break
		}
	}
	return weights, nil
}
