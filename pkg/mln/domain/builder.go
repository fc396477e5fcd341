// Package domain accumulates named universes of constant symbols and
// produces immutable point-in-time snapshots for the grounding pass.
package domain

import "sync"

// universe is one named domain: insertion-ordered symbols plus a
// membership index for O(1) duplicate checks.
type universe struct {
	order []string
	index map[string]struct{}
}

func (u *universe) insert(symbol string) {
	if _, ok := u.index[symbol]; ok {
		return
	}
	u.index[symbol] = struct{}{}
	u.order = append(u.order, symbol)
}

// Builder accumulates constant symbols per domain. Insertion is idempotent
// and there is no removal, so the builder only ever grows. A single mutex
// serializes writers; snapshots are full copies and remain valid under
// concurrent builder mutation.
type Builder struct {
	mu      sync.RWMutex
	domains map[string]*universe
}

// NewBuilder creates an empty domain builder.
func NewBuilder() *Builder {
	return &Builder{domains: make(map[string]*universe)}
}

// Insert adds symbol to the named domain's working set if absent.
func (b *Builder) Insert(domain, symbol string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.universe(domain).insert(symbol)
}

// InsertAll adds every symbol in the batch; element order does not affect
// the resulting membership.
func (b *Builder) InsertAll(domain string, symbols []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.universe(domain)
	for _, s := range symbols {
		u.insert(s)
	}
}

func (b *Builder) universe(domain string) *universe {
	u, ok := b.domains[domain]
	if !ok {
		u = &universe{index: make(map[string]struct{})}
		b.domains[domain] = u
	}
	return u
}

// Size returns the current number of distinct symbols in the named domain.
func (b *Builder) Size(domain string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if u, ok := b.domains[domain]; ok {
		return len(u.order)
	}
	return 0
}

// Contains reports whether symbol is currently a member of the named domain.
func (b *Builder) Contains(domain, symbol string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if u, ok := b.domains[domain]; ok {
		_, present := u.index[symbol]
		return present
	}
	return false
}

// Snapshot returns an immutable domain map reflecting exactly the builder's
// state at the call. Later insertions never alter a returned snapshot, and
// because the builder only grows, each later snapshot is a superset of
// every earlier one.
func (b *Builder) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	domains := make(map[string]snapshotDomain, len(b.domains))
	for name, u := range b.domains {
		order := make([]string, len(u.order))
		copy(order, u.order)
		index := make(map[string]struct{}, len(u.index))
		for s := range u.index {
			index[s] = struct{}{}
		}
		domains[name] = snapshotDomain{order: order, index: index}
	}
	return Snapshot{domains: domains}
}
