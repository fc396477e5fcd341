// Package walksat implements MaxWalkSAT local search over a grounded
// network. All neighbor re-evaluation goes through the network's literal
// occurrence indices: flipping one atom touches only the constraints that
// contain it.
package walksat

import (
	"context"
	"math/rand"

	"go.uber.org/zap"

	"github.com/statrel/mln/pkg/mln/infer"
	"github.com/statrel/mln/pkg/mln/network"
)

// Options tunes the search.
type Options struct {
	MaxFlips int     // flips per try
	MaxTries int     // independent restarts
	Noise    float64 // probability of a random walk move
	Seed     int64   // rng seed; fixed seed gives a deterministic run
}

// DefaultOptions returns the standard MaxWalkSAT parameters.
func DefaultOptions() Options {
	return Options{MaxFlips: 100000, MaxTries: 3, Noise: 0.2, Seed: 1}
}

// Solver is a MaxWalkSAT MAP inference engine.
type Solver struct {
	opts Options
	log  *zap.Logger
}

// New creates a solver; zero-valued options fall back to defaults.
func New(opts Options, log *zap.Logger) *Solver {
	def := DefaultOptions()
	if opts.MaxFlips <= 0 {
		opts.MaxFlips = def.MaxFlips
	}
	if opts.MaxTries <= 0 {
		opts.MaxTries = def.MaxTries
	}
	if opts.Noise <= 0 {
		opts.Noise = def.Noise
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Solver{opts: opts, log: log}
}

// Solve runs up to MaxTries restarts of MaxWalkSAT and returns the best
// assignment found. Evidence atoms are frozen to their given truth values.
func (s *Solver) Solve(ctx context.Context, net *network.Network, evidence map[int]bool) (infer.Result, error) {
	rng := rand.New(rand.NewSource(s.opts.Seed))
	best := infer.Result{Cost: -1}

	for try := 0; try < s.opts.MaxTries; try++ {
		r, err := s.try(ctx, net, evidence, rng)
		if err != nil {
			return infer.Result{}, err
		}
		if best.Cost < 0 || r.Cost < best.Cost {
			best = r
		}
		if best.Cost == 0 {
			break
		}
	}
	s.log.Debug("walksat finished",
		zap.Float64("cost", best.Cost),
		zap.Int("flips", best.Flips))
	return best, nil
}

func (s *Solver) try(ctx context.Context, net *network.Network, evidence map[int]bool, rng *rand.Rand) (infer.Result, error) {
	st := newSearchState(net, evidence, rng)

	best := make([]bool, len(st.state))
	copy(best, st.state)
	bestCost := st.cost

	flips := 0
	for ; flips < s.opts.MaxFlips && st.cost > 0; flips++ {
		if flips%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return infer.Result{}, err
			}
		}
		if len(st.broken) == 0 {
			st.cost = 0
			break
		}
		c := net.LookupConstraint(st.broken[rng.Intn(len(st.broken))])
		atom := s.pickAtom(st, c, rng)
		if atom == network.NoAtomID {
			continue // every atom in the clause is frozen
		}
		st.flip(atom)
		if st.cost < bestCost {
			copy(best, st.state)
			bestCost = st.cost
		}
	}

	return infer.Result{State: best, Cost: bestCost, Flips: flips}, nil
}

// pickAtom chooses the atom of c to flip: a random walk move with
// probability Noise, otherwise the greedy minimum-delta candidate.
func (s *Solver) pickAtom(st *searchState, c *network.Constraint, rng *rand.Rand) int {
	candidates := make([]int, 0, len(c.Lits))
	for _, lit := range c.Lits {
		a := abs(lit)
		if !st.frozen[a] {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		return network.NoAtomID
	}
	if rng.Float64() < s.opts.Noise {
		return candidates[rng.Intn(len(candidates))]
	}
	bestAtom := candidates[0]
	bestDelta := st.deltaCost(bestAtom)
	for _, a := range candidates[1:] {
		if d := st.deltaCost(a); d < bestDelta {
			bestAtom, bestDelta = a, d
		}
	}
	return bestAtom
}

// searchState tracks the assignment, the per-constraint count of true
// literals and the set of cost-bearing ("broken") constraints.
type searchState struct {
	net       *network.Network
	state     []bool
	frozen    []bool
	satCount  []int // true literals per constraint, indexed by constraint id
	broken    []int // ids of constraints currently contributing cost
	brokenPos []int // constraint id -> position in broken, or -1
	cost      float64
}

func newSearchState(net *network.Network, evidence map[int]bool, rng *rand.Rand) *searchState {
	st := &searchState{
		net:       net,
		state:     make([]bool, net.NumAtoms()+1),
		frozen:    make([]bool, net.NumAtoms()+1),
		satCount:  make([]int, net.NumConstraints()+1),
		brokenPos: make([]int, net.NumConstraints()+1),
	}
	for id := 1; id <= net.NumAtoms(); id++ {
		st.state[id] = rng.Intn(2) == 1
	}
	for id, truth := range evidence {
		if id >= 1 && id < len(st.state) {
			st.state[id] = truth
			st.frozen[id] = true
		}
	}
	for i := range st.brokenPos {
		st.brokenPos[i] = -1
	}
	for _, c := range net.Constraints() {
		n := 0
		for _, lit := range c.Lits {
			if litTrue(lit, st.state) {
				n++
			}
		}
		st.satCount[c.ID] = n
		contrib := contribution(c, n)
		st.cost += contrib
		if contrib > 0 {
			st.addBroken(c.ID)
		}
	}
	return st
}

// contribution is the cost a constraint adds at the given true-literal
// count: an unsatisfied positive-weight clause costs its weight, a
// satisfied negative-weight clause costs the weight's magnitude.
func contribution(c *network.Constraint, satCount int) float64 {
	if satCount == 0 {
		if c.Weight > 0 {
			return c.Weight
		}
		return 0
	}
	if c.Weight < 0 {
		return -c.Weight
	}
	return 0
}

// deltaCost computes the cost change of flipping the atom, touching only
// the constraints in the atom's two index slots.
func (st *searchState) deltaCost(atomID int) float64 {
	delta := 0.0
	nowTrue := !st.state[atomID]
	for _, c := range st.net.Pos(atomID) {
		delta += st.constraintDelta(c, nowTrue)
	}
	for _, c := range st.net.Neg(atomID) {
		delta += st.constraintDelta(c, !nowTrue)
	}
	return delta
}

func (st *searchState) constraintDelta(c *network.Constraint, litBecomesTrue bool) float64 {
	before := st.satCount[c.ID]
	after := before + 1
	if !litBecomesTrue {
		after = before - 1
	}
	return contribution(c, after) - contribution(c, before)
}

// flip applies the move and incrementally maintains sat counts, the broken
// set and the running cost.
func (st *searchState) flip(atomID int) {
	nowTrue := !st.state[atomID]
	st.state[atomID] = nowTrue
	for _, c := range st.net.Pos(atomID) {
		st.applyShift(c, nowTrue)
	}
	for _, c := range st.net.Neg(atomID) {
		st.applyShift(c, !nowTrue)
	}
}

func (st *searchState) applyShift(c *network.Constraint, litBecomesTrue bool) {
	before := st.satCount[c.ID]
	after := before + 1
	if !litBecomesTrue {
		after = before - 1
	}
	st.satCount[c.ID] = after
	oldContrib := contribution(c, before)
	newContrib := contribution(c, after)
	st.cost += newContrib - oldContrib
	if oldContrib > 0 && newContrib == 0 {
		st.removeBroken(c.ID)
	} else if oldContrib == 0 && newContrib > 0 {
		st.addBroken(c.ID)
	}
}

func (st *searchState) addBroken(id int) {
	if st.brokenPos[id] >= 0 {
		return
	}
	st.brokenPos[id] = len(st.broken)
	st.broken = append(st.broken, id)
}

func (st *searchState) removeBroken(id int) {
	pos := st.brokenPos[id]
	if pos < 0 {
		return
	}
	last := len(st.broken) - 1
	moved := st.broken[last]
	st.broken[pos] = moved
	st.brokenPos[moved] = pos
	st.broken = st.broken[:last]
	st.brokenPos[id] = -1
}

func litTrue(lit int, state []bool) bool {
	if lit > 0 {
		return state[lit]
	}
	return !state[-lit]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
