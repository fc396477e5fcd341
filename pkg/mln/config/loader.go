package config

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/statrel/mln/internal/logging"
	"github.com/statrel/mln/pkg/mln/ground"
	"github.com/statrel/mln/pkg/mln/infer"
	"github.com/statrel/mln/pkg/mln/infer/walksat"
	"github.com/statrel/mln/pkg/mln/learn"
	"github.com/statrel/mln/pkg/mln/logic"
	"github.com/statrel/mln/pkg/mln/store"
	"github.com/statrel/mln/pkg/mln/store/memstore"
	"github.com/statrel/mln/pkg/mln/store/sqlite"
)

// Loader constructs the engine's components from a Config.
type Loader struct {
	Config Config
}

// Components holds the constructed collaborators.
type Components struct {
	Logger     *zap.Logger
	Store      store.Store
	Grounder   *ground.Grounder
	Solver     infer.Solver
	Trainer    *learn.Trainer
	QueryPreds []logic.Signature
}

// Load builds every component: a zap logger, the evidence/weights store
// (SQLite when a path is configured, in-memory otherwise), the grounder,
// the MaxWalkSAT solver and the perceptron trainer.
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	comp := &Components{}

	logger, err := logging.New(l.Config.Debug)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	comp.Logger = logger

	if l.Config.StorePath != "" {
		st, err := sqlite.Open(ctx, l.Config.StorePath)
		if err != nil {
			return nil, fmt.Errorf("open store %s: %w", l.Config.StorePath, err)
		}
		comp.Store = st
	} else {
		comp.Store = memstore.New()
	}

	for _, s := range l.Config.QueryPredicates {
		sig, err := logic.ParseSignature(s)
		if err != nil {
			return nil, fmt.Errorf("query predicate %q: %w", s, err)
		}
		comp.QueryPreds = append(comp.QueryPreds, sig)
	}

	comp.Grounder = ground.New(l.Config.WeightHard, logger.Named("ground"))
	comp.Solver = walksat.New(walksat.Options{
		MaxFlips: l.Config.Solver.MaxFlips,
		MaxTries: l.Config.Solver.MaxTries,
		Noise:    l.Config.Solver.Noise,
		Seed:     l.Config.Solver.Seed,
	}, logger.Named("walksat"))
	comp.Trainer = learn.New(learn.Options{
		Rate:   l.Config.Trainer.Rate,
		Epochs: l.Config.Trainer.Epochs,
	}, comp.Solver, logger.Named("learn"))

	return comp, nil
}
