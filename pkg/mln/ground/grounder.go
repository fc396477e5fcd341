// Package ground walks a knowledge base over a domain snapshot and emits
// the grounded network: interned ground atoms, merged ground clauses and
// the dependency map that ties each clause back to its source formulas.
package ground

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/statrel/mln/pkg/mln/domain"
	"github.com/statrel/mln/pkg/mln/kb"
	"github.com/statrel/mln/pkg/mln/logic"
	"github.com/statrel/mln/pkg/mln/network"
)

// Grounder compiles a knowledge base into a network.Network.
type Grounder struct {
	weightHard float64
	log        *zap.Logger
}

// New creates a grounder. weightHard is the weight every hard constraint
// takes in the resulting network.
func New(weightHard float64, log *zap.Logger) *Grounder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Grounder{weightHard: weightHard, log: log}
}

// Ground enumerates every variable assignment of every formula over the
// snapshot and assembles the network. Ground atoms of the query predicates
// are interned first so their ids form the contiguous query range starting
// at 1. Duplicate ground clauses are merged into one constraint, each
// production accumulating a signed frequency in the dependency map;
// tautologies are dropped. Constraint weights are derived from the current
// formula weights via the same reconstruction pass learning uses later.
func (g *Grounder) Ground(kbase *kb.KB, snap domain.Snapshot, queryPreds []logic.Signature) (*network.Network, error) {
	start := time.Now()
	in := newInterner()
	query := make(map[logic.Signature]struct{}, len(queryPreds))
	for _, s := range queryPreds {
		query[s] = struct{}{}
	}

	// Pass 1: intern query-predicate groundings so their ids are contiguous
	// from 1.
	for idx := 0; idx < kbase.Len(); idx++ {
		f := kbase.Formula(idx)
		g.forEachGrounding(f, snap, func(lits []groundLit) {
			for _, l := range lits {
				if _, ok := query[l.sig]; ok {
					in.intern(l.text)
				}
			}
		})
	}
	queryEnd := len(in.atoms)

	// Pass 2: intern the remaining atoms and emit constraints.
	deps := network.NewDependencyMap()
	var constraints []*network.Constraint
	byKey := make(map[string]int) // canonical literal key -> constraint id
	for idx := 0; idx < kbase.Len(); idx++ {
		f := kbase.Formula(idx)
		freq := 1
		if f.Inverted {
			freq = -1
		}
		g.forEachGrounding(f, snap, func(lits []groundLit) {
			signed, ok := encode(lits, in)
			if !ok {
				return // tautology
			}
			key := clauseKey(signed)
			cid, seen := byKey[key]
			if !seen {
				cid = len(constraints) + 1
				constraints = append(constraints, &network.Constraint{ID: cid, Lits: signed})
				byKey[key] = cid
			}
			deps.Add(cid, idx, freq)
		})
	}

	net := network.New(in.atoms, constraints, g.weightHard, 1, queryEnd, deps)
	if err := net.Reconstruct(kbase.Weights(), kbase.HardFlags()); err != nil {
		return nil, fmt.Errorf("initial weight pass: %w", err)
	}

	g.log.Info("grounding complete",
		zap.Int("atoms", net.NumAtoms()),
		zap.Int("query_atoms", queryEnd),
		zap.Int("constraints", net.NumConstraints()),
		zap.Int("max_clause_width", net.MaxClauseWidth()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return net, nil
}

// groundLit is one instantiated literal before interning.
type groundLit struct {
	text string
	sig  logic.Signature
	neg  bool
}

// forEachGrounding enumerates the cartesian product of the formula's
// variable domains and yields the instantiated clause for each assignment.
// A variable over an empty or unknown domain yields no groundings.
func (g *Grounder) forEachGrounding(f kb.Formula, snap domain.Snapshot, yield func([]groundLit)) {
	vars := f.Variables()
	symbols := make([][]string, len(vars))
	for i, v := range vars {
		symbols[i] = snap.Symbols(v.Domain)
		if len(symbols[i]) == 0 {
			g.log.Warn("formula skipped: empty domain",
				zap.String("formula", f.String()),
				zap.String("domain", v.Domain))
			return
		}
	}

	asg := make(map[logic.Variable]string, len(vars))
	odometer := make([]int, len(vars))
	for {
		for i, v := range vars {
			asg[v] = symbols[i][odometer[i]]
		}
		lits := make([]groundLit, len(f.Clause))
		for i, l := range f.Clause {
			a := instantiate(l.Atom, asg)
			lits[i] = groundLit{text: a.String(), sig: a.Signature(), neg: l.Negated}
		}
		yield(lits)

		pos := len(odometer) - 1
		for pos >= 0 {
			odometer[pos]++
			if odometer[pos] < len(symbols[pos]) {
				break
			}
			odometer[pos] = 0
			pos--
		}
		if pos < 0 {
			return
		}
	}
}

// instantiate substitutes the assignment into every term of the atom.
func instantiate(a logic.Atom, asg map[logic.Variable]string) logic.Atom {
	terms := a.Terms()
	for i, t := range terms {
		terms[i] = substTerm(t, asg)
	}
	return logic.MustAtom(a.Predicate, terms...)
}

func substTerm(t logic.Term, asg map[logic.Variable]string) logic.Term {
	switch x := t.(type) {
	case logic.Constant:
		return x
	case logic.Variable:
		return logic.Constant{Domain: x.Domain, Symbol: asg[x]}
	case logic.Function:
		args := make([]logic.Term, len(x.Args))
		for i, a := range x.Args {
			args[i] = substTerm(a, asg)
		}
		return logic.Function{Name: x.Name, Args: args, ReturnDomain: x.ReturnDomain}
	default:
		return t
	}
}

// encode interns each literal's atom and produces the signed literal array,
// dropping duplicate literals. It reports ok=false for tautologies, which
// no assignment can falsify.
func encode(lits []groundLit, in *interner) ([]int, bool) {
	signed := make([]int, 0, len(lits))
	seen := make(map[int]struct{}, len(lits))
	for _, l := range lits {
		id := in.intern(l.text)
		v := id
		if l.neg {
			v = -id
		}
		if _, dup := seen[v]; dup {
			continue
		}
		if _, opp := seen[-v]; opp {
			return nil, false
		}
		seen[v] = struct{}{}
		signed = append(signed, v)
	}
	return signed, true
}

// clauseKey is an order-independent canonical key for a literal array.
func clauseKey(lits []int) string {
	sorted := make([]int, len(lits))
	copy(sorted, lits)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, l := range sorted {
		parts[i] = strconv.Itoa(l)
	}
	return strings.Join(parts, " ")
}

// interner assigns dense ids from 1 to distinct ground-atom renderings.
type interner struct {
	ids   map[string]int
	atoms []network.GroundAtom
}

func newInterner() *interner {
	return &interner{ids: make(map[string]int)}
}

func (in *interner) intern(text string) int {
	if id, ok := in.ids[text]; ok {
		return id
	}
	id := len(in.atoms) + 1
	in.ids[text] = id
	in.atoms = append(in.atoms, network.GroundAtom{ID: id, Text: text})
	return id
}
