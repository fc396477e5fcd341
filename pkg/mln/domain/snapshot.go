package domain

import "sort"

type snapshotDomain struct {
	order []string
	index map[string]struct{}
}

// Snapshot is a frozen domain map: domain name to symbol set. It is safe
// for concurrent readers and is never mutated after being returned.
type Snapshot struct {
	domains map[string]snapshotDomain
}

// Symbols returns the named domain's symbols in insertion order. The
// returned slice is a copy.
func (s Snapshot) Symbols(domain string) []string {
	d, ok := s.domains[domain]
	if !ok {
		return nil
	}
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Contains reports whether symbol was a member of the named domain when the
// snapshot was taken.
func (s Snapshot) Contains(domain, symbol string) bool {
	d, ok := s.domains[domain]
	if !ok {
		return false
	}
	_, present := d.index[symbol]
	return present
}

// Size returns the number of symbols in the named domain.
func (s Snapshot) Size(domain string) int {
	return len(s.domains[domain].order)
}

// Domains returns the sorted names of all domains in the snapshot.
func (s Snapshot) Domains() []string {
	out := make([]string, 0, len(s.domains))
	for name := range s.domains {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
