package memstore

import (
	"context"
	"testing"

	"github.com/statrel/mln/pkg/mln/store"
)

func TestEvidenceUpsert(t *testing.T) {
	ctx := context.Background()
	s := New()
	defer s.Close()

	if err := s.UpsertEvidence(ctx, store.Evidence{Atom: "Smokes(Anna)", Truth: true}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertEvidence(ctx, store.Evidence{Atom: "Smokes(Bob)", Truth: false}); err != nil {
		t.Fatal(err)
	}
	// update wins over insert
	if err := s.UpsertEvidence(ctx, store.Evidence{Atom: "Smokes(Anna)", Truth: false}); err != nil {
		t.Fatal(err)
	}

	evs, err := s.ListEvidence(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 2 {
		t.Fatalf("expected 2 evidence atoms, got %d", len(evs))
	}
	if evs[0].Atom != "Smokes(Anna)" || evs[0].Truth {
		t.Errorf("expected updated Smokes(Anna)=false first, got %+v", evs[0])
	}
}

func TestWeightsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()
	defer s.Close()

	in := []store.FormulaWeight{
		{Index: 1, Weight: -0.5},
		{Index: 0, Weight: 1.5},
		{Index: 2, Weight: 0, Hard: true},
	}
	if err := s.SaveWeights(ctx, in); err != nil {
		t.Fatal(err)
	}

	out, err := s.LoadWeights(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 weights, got %d", len(out))
	}
	for i, w := range out {
		if w.Index != i {
			t.Errorf("weights should come back sorted by index, got %d at %d", w.Index, i)
		}
	}
	if out[0].Weight != 1.5 || out[1].Weight != -0.5 || !out[2].Hard {
		t.Errorf("unexpected weights: %+v", out)
	}
}
