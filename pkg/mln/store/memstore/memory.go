// Package memstore is an in-memory implementation of store.Store for tests
// and short-lived pipelines.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/statrel/mln/pkg/mln/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu       sync.RWMutex
	evidence map[string]bool
	weights  map[int]store.FormulaWeight
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		evidence: make(map[string]bool),
		weights:  make(map[int]store.FormulaWeight),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertEvidence inserts or updates one evidence atom, keyed by its text.
func (s *Store) UpsertEvidence(ctx context.Context, e store.Evidence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evidence[e.Atom] = e.Truth
	return nil
}

// ListEvidence returns all evidence atoms sorted by atom text.
func (s *Store) ListEvidence(ctx context.Context) ([]store.Evidence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.Evidence, 0, len(s.evidence))
	for atom, truth := range s.evidence {
		out = append(out, store.Evidence{Atom: atom, Truth: truth})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Atom < out[j].Atom })
	return out, nil
}

// SaveWeights replaces the stored weight for each given formula index.
func (s *Store) SaveWeights(ctx context.Context, ws []store.FormulaWeight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range ws {
		s.weights[w.Index] = w
	}
	return nil
}

// LoadWeights returns all stored weights sorted by formula index.
func (s *Store) LoadWeights(ctx context.Context) ([]store.FormulaWeight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.FormulaWeight, 0, len(s.weights))
	for _, w := range s.weights {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}
