package walksat

import (
	"context"
	"testing"

	"github.com/statrel/mln/pkg/mln/network"
)

// chainNetwork wires a1 -> a2 -> a3 with an anchor on a1; the unique
// zero-cost assignment sets every atom true.
func chainNetwork() *network.Network {
	atoms := []network.GroundAtom{
		{ID: 1, Text: "A(1)"},
		{ID: 2, Text: "A(2)"},
		{ID: 3, Text: "A(3)"},
	}
	constraints := []*network.Constraint{
		{ID: 1, Lits: []int{1}, Weight: 2},
		{ID: 2, Lits: []int{-1, 2}, Weight: 2},
		{ID: 3, Lits: []int{-2, 3}, Weight: 2},
	}
	return network.New(atoms, constraints, 100, 1, 0, nil)
}

func TestSolveFindsSatisfyingAssignment(t *testing.T) {
	s := New(Options{MaxFlips: 10000, MaxTries: 3, Noise: 0.2, Seed: 7}, nil)
	result, err := s.Solve(context.Background(), chainNetwork(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Cost != 0 {
		t.Fatalf("expected zero cost, got %g", result.Cost)
	}
	for id := 1; id <= 3; id++ {
		if !result.True(id) {
			t.Errorf("atom %d should be true in the satisfying assignment", id)
		}
	}
}

func TestSolveFreezesEvidence(t *testing.T) {
	s := New(Options{MaxFlips: 5000, MaxTries: 2, Noise: 0.2, Seed: 7}, nil)
	evidence := map[int]bool{1: false}

	result, err := s.Solve(context.Background(), chainNetwork(), evidence)
	if err != nil {
		t.Fatal(err)
	}
	if result.True(1) {
		t.Error("evidence atom must keep its fixed value")
	}
	// constraint 1 is unsatisfiable under the evidence
	if result.Cost != 2 {
		t.Errorf("expected residual cost 2, got %g", result.Cost)
	}
}

func TestSolveNegativeWeightAvoidsSatisfaction(t *testing.T) {
	atoms := []network.GroundAtom{{ID: 1, Text: "A(1)"}}
	constraints := []*network.Constraint{
		{ID: 1, Lits: []int{1}, Weight: -3},
	}
	net := network.New(atoms, constraints, 100, 1, 0, nil)

	s := New(Options{MaxFlips: 1000, MaxTries: 2, Noise: 0.2, Seed: 3}, nil)
	result, err := s.Solve(context.Background(), net, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.True(1) {
		t.Error("satisfying a negative-weight clause should be avoided")
	}
	if result.Cost != 0 {
		t.Errorf("expected zero cost with the clause falsified, got %g", result.Cost)
	}
}

func TestSolveDeterministicUnderFixedSeed(t *testing.T) {
	opts := Options{MaxFlips: 2000, MaxTries: 2, Noise: 0.3, Seed: 11}
	a, err := New(opts, nil).Solve(context.Background(), chainNetwork(), nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(opts, nil).Solve(context.Background(), chainNetwork(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.Cost != b.Cost || a.Flips != b.Flips {
		t.Errorf("fixed seed should reproduce the run: %+v vs %+v", a, b)
	}
	for i := range a.State {
		if a.State[i] != b.State[i] {
			t.Errorf("states diverge at atom %d", i)
		}
	}
}

func TestSolveCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// an unsatisfiable network keeps the search running until cancelled
	atoms := []network.GroundAtom{{ID: 1, Text: "A(1)"}}
	constraints := []*network.Constraint{
		{ID: 1, Lits: []int{1}, Weight: 1},
		{ID: 2, Lits: []int{-1}, Weight: 1},
	}
	net := network.New(atoms, constraints, 100, 1, 0, nil)

	s := New(Options{MaxFlips: 1 << 20, MaxTries: 1, Noise: 0.5, Seed: 1}, nil)
	if _, err := s.Solve(ctx, net, nil); err == nil {
		t.Error("expected context cancellation error")
	}
}
