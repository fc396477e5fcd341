package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/statrel/mln/pkg/mln/store"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "mln.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEvidencePersistence(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	atoms := []store.Evidence{
		{Atom: "Smokes(Anna)", Truth: true},
		{Atom: "Friends(Anna,Bob)", Truth: true},
		{Atom: "Smokes(Bob)", Truth: false},
	}
	for _, e := range atoms {
		if err := s.UpsertEvidence(ctx, e); err != nil {
			t.Fatal(err)
		}
	}
	// upsert replaces
	if err := s.UpsertEvidence(ctx, store.Evidence{Atom: "Smokes(Anna)", Truth: false}); err != nil {
		t.Fatal(err)
	}

	evs, err := s.ListEvidence(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 3 {
		t.Fatalf("expected 3 evidence atoms, got %d", len(evs))
	}
	for _, e := range evs {
		if e.Atom == "Smokes(Anna)" && e.Truth {
			t.Error("upsert should have flipped Smokes(Anna) to false")
		}
	}
}

func TestWeightsPersistence(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.SaveWeights(ctx, []store.FormulaWeight{
		{Index: 0, Weight: 1.5},
		{Index: 1, Weight: -0.25},
		{Index: 2, Weight: 0, Hard: true},
	}); err != nil {
		t.Fatal(err)
	}
	// second save overwrites
	if err := s.SaveWeights(ctx, []store.FormulaWeight{
		{Index: 1, Weight: 4},
	}); err != nil {
		t.Fatal(err)
	}

	out, err := s.LoadWeights(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 weights, got %d", len(out))
	}
	if out[1].Weight != 4 {
		t.Errorf("expected overwritten weight 4, got %g", out[1].Weight)
	}
	if !out[2].Hard {
		t.Error("hard flag should survive the round trip")
	}
}

func TestEmptyStore(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	evs, err := s.ListEvidence(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 0 {
		t.Errorf("expected no evidence, got %d", len(evs))
	}
	ws, err := s.LoadWeights(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ws) != 0 {
		t.Errorf("expected no weights, got %d", len(ws))
	}
}
