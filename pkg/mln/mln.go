// Package mln compiles weighted first-order knowledge bases into grounded
// Markov Random Fields and keeps the grounded constraint weights in step
// with weight learning.
package mln

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/statrel/mln/pkg/mln/domain"
	"github.com/statrel/mln/pkg/mln/ground"
	"github.com/statrel/mln/pkg/mln/infer"
	"github.com/statrel/mln/pkg/mln/infer/walksat"
	"github.com/statrel/mln/pkg/mln/internalerr"
	"github.com/statrel/mln/pkg/mln/kb"
	"github.com/statrel/mln/pkg/mln/learn"
	"github.com/statrel/mln/pkg/mln/logic"
	"github.com/statrel/mln/pkg/mln/network"
	"github.com/statrel/mln/pkg/mln/store"
	"github.com/statrel/mln/pkg/mln/store/memstore"
)

// Engine is the main facade: domains, knowledge base, grounder, solver and
// trainer behind one API.
type Engine struct {
	domains    *domain.Builder
	kbase      *kb.KB
	grounder   *ground.Grounder
	solver     infer.Solver
	trainer    *learn.Trainer
	st         store.Store
	log        *zap.Logger
	queryPreds []logic.Signature
	entropy    *ulid.MonotonicEntropy

	evidence map[string]bool
	net      *network.Network
}

// Options configures an Engine instance. Zero-valued fields fall back to
// working defaults (in-memory store, MaxWalkSAT, hard weight 1000).
type Options struct {
	WeightHard      float64
	QueryPredicates []logic.Signature
	Solver          infer.Solver
	Trainer         *learn.Trainer
	Store           store.Store
	Logger          *zap.Logger
}

// New creates an Engine with the given dependencies.
func New(opts Options) *Engine {
	if opts.WeightHard <= 0 {
		opts.WeightHard = 1000
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Solver == nil {
		opts.Solver = walksat.New(walksat.DefaultOptions(), opts.Logger.Named("walksat"))
	}
	if opts.Trainer == nil {
		opts.Trainer = learn.New(learn.DefaultOptions(), opts.Solver, opts.Logger.Named("learn"))
	}
	if opts.Store == nil {
		opts.Store = memstore.New()
	}
	return &Engine{
		domains:    domain.NewBuilder(),
		kbase:      kb.New(),
		grounder:   ground.New(opts.WeightHard, opts.Logger.Named("ground")),
		solver:     opts.Solver,
		trainer:    opts.Trainer,
		st:         opts.Store,
		log:        opts.Logger,
		queryPreds: opts.QueryPredicates,
		entropy:    ulid.Monotonic(rand.Reader, 0),
		evidence:   make(map[string]bool),
	}
}

// Close cleanly shuts down the engine's store.
func (e *Engine) Close() error {
	return e.st.Close()
}

// Domains returns the constant-symbol builder feeding the grounder.
func (e *Engine) Domains() *domain.Builder { return e.domains }

// KB returns the knowledge base.
func (e *Engine) KB() *kb.KB { return e.kbase }

// AddFormula appends a formula to the knowledge base and returns its index.
func (e *Engine) AddFormula(f kb.Formula) (int, error) {
	return e.kbase.Add(f)
}

// AddEvidence records one observed ground atom, persists it, and registers
// the atom's constants into their domains so the next grounding pass covers
// them. A non-ground atom is rejected.
func (e *Engine) AddEvidence(ctx context.Context, atom logic.Atom, truth bool) error {
	if !atom.Ground() {
		return fmt.Errorf("evidence atom %s is not ground: %w", atom, internalerr.ErrInvalidInput)
	}
	for _, c := range atom.Constants() {
		if c.Domain != "" {
			e.domains.Insert(c.Domain, c.Symbol)
		}
	}
	text := atom.String()
	if err := e.st.UpsertEvidence(ctx, store.Evidence{Atom: text, Truth: truth}); err != nil {
		return fmt.Errorf("persist evidence: %w", err)
	}
	e.evidence[text] = truth
	return nil
}

// LoadEvidence pulls previously persisted evidence from the store into the
// engine's working set.
func (e *Engine) LoadEvidence(ctx context.Context) error {
	evs, err := e.st.ListEvidence(ctx)
	if err != nil {
		return err
	}
	for _, ev := range evs {
		e.evidence[ev.Atom] = ev.Truth
	}
	return nil
}

// Ground takes a domain snapshot, compiles the knowledge base into a fresh
// network and stamps it with a ULID build id. The network is cached for
// Infer and Train.
func (e *Engine) Ground(ctx context.Context) (*network.Network, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	net, err := e.grounder.Ground(e.kbase, e.domains.Snapshot(), e.queryPreds)
	if err != nil {
		return nil, err
	}
	net.SetBuildID(ulid.MustNew(ulid.Now(), e.entropy).String())
	e.net = net
	return net, nil
}

// Network returns the most recently grounded network, or nil before the
// first Ground call.
func (e *Engine) Network() *network.Network { return e.net }

// Infer runs MAP inference over the current network under the engine's
// evidence.
func (e *Engine) Infer(ctx context.Context) (infer.Result, error) {
	if e.net == nil {
		return infer.Result{}, fmt.Errorf("no grounded network: %w", internalerr.ErrNotFound)
	}
	return e.solver.Solve(ctx, e.net, e.evidenceIDs())
}

// Train learns soft-formula weights from a labeled query-atom assignment
// (atom text to truth), refreshes the network's constraint weights in
// place, and persists the learned weights.
func (e *Engine) Train(ctx context.Context, truth map[string]bool) ([]float64, error) {
	if e.net == nil {
		return nil, fmt.Errorf("no grounded network: %w", internalerr.ErrNotFound)
	}
	labels := make(map[int]bool, len(truth))
	for text, v := range truth {
		if id := e.net.AtomID(text); id != network.NoAtomID {
			labels[id] = v
		}
	}
	weights, err := e.trainer.Train(ctx, e.net, e.kbase, labels, e.evidenceIDs())
	if err != nil {
		return nil, err
	}
	hard := e.kbase.HardFlags()
	saved := make([]store.FormulaWeight, len(weights))
	for i, w := range weights {
		saved[i] = store.FormulaWeight{Index: i, Weight: w, Hard: hard[i]}
	}
	if err := e.st.SaveWeights(ctx, saved); err != nil {
		return nil, fmt.Errorf("persist weights: %w", err)
	}
	return weights, nil
}

// evidenceIDs maps the textual evidence onto the current network's atom
// ids; evidence naming atoms outside the network is ignored.
func (e *Engine) evidenceIDs() map[int]bool {
	out := make(map[int]bool, len(e.evidence))
	for text, truth := range e.evidence {
		if id := e.net.AtomID(text); id != network.NoAtomID {
			out[id] = truth
		}
	}
	return out
}
