package logic

import (
	"fmt"
	"strings"

	"github.com/statrel/mln/pkg/mln/internalerr"
)

// Signature identifies a predicate by name and arity. Two atoms built from
// the same predicate name and same-length term list always compare
// signature-equal.
type Signature struct {
	Name  string
	Arity int
}

func (s Signature) String() string {
	return fmt.Sprintf("%s/%d", s.Name, s.Arity)
}

// ParseSignature parses the "Name/Arity" form produced by Signature.String.
func ParseSignature(s string) (Signature, error) {
	slash := strings.LastIndexByte(s, '/')
	if slash <= 0 {
		return Signature{}, fmt.Errorf("signature %q: %w", s, internalerr.ErrInvalidInput)
	}
	var arity int
	if _, err := fmt.Sscanf(s[slash+1:], "%d", &arity); err != nil || arity < 0 {
		return Signature{}, fmt.Errorf("signature %q: %w", s, internalerr.ErrInvalidInput)
	}
	return Signature{Name: s[:slash], Arity: arity}, nil
}

// Atom is an atomic first-order formula: a predicate applied to an ordered
// list of terms.
type Atom struct {
	Predicate string
	args      []Term
}

// NewAtom builds an atomic formula, rejecting empty predicate names.
func NewAtom(predicate string, terms ...Term) (Atom, error) {
	if predicate == "" {
		return Atom{}, fmt.Errorf("predicate name: %w", internalerr.ErrInvalidInput)
	}
	args := make([]Term, len(terms))
	copy(args, terms)
	return Atom{Predicate: predicate, args: args}, nil
}

// MustAtom is NewAtom that panics on a malformed atom. For statically
// well-formed construction sites such as tests and examples.
func MustAtom(predicate string, terms ...Term) Atom {
	a, err := NewAtom(predicate, terms...)
	if err != nil {
		panic(err)
	}
	return a
}

// Signature returns the (name, arity) pair identifying the predicate.
func (a Atom) Signature() Signature {
	return Signature{Name: a.Predicate, Arity: len(a.args)}
}

// Terms returns the direct ordered argument list (depth 1, not the
// flattened tree).
func (a Atom) Terms() []Term {
	out := make([]Term, len(a.args))
	copy(out, a.args)
	return out
}

// Ground reports whether every term of the atom is ground. A zero-arity
// predicate is trivially ground.
func (a Atom) Ground() bool {
	for _, t := range a.args {
		if !t.Ground() {
			return false
		}
	}
	return true
}

// Variables returns the distinct variables occurring anywhere in the term
// tree, including inside nested function arguments.
func (a Atom) Variables() []Variable {
	var out []Variable
	seen := make(map[Variable]struct{})
	a.walkAll(func(t Term) {
		if v, ok := t.(Variable); ok {
			if _, dup := seen[v]; !dup {
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
	})
	return out
}

// Constants returns the distinct constants occurring anywhere in the term
// tree.
func (a Atom) Constants() []Constant {
	var out []Constant
	seen := make(map[Constant]struct{})
	a.walkAll(func(t Term) {
		if c, ok := t.(Constant); ok {
			if _, dup := seen[c]; !dup {
				seen[c] = struct{}{}
				out = append(out, c)
			}
		}
	})
	return out
}

// Functions returns the distinct function subterms occurring anywhere in
// the term tree, deduplicated by rendered value.
func (a Atom) Functions() []Function {
	var out []Function
	seen := make(map[string]struct{})
	a.walkAll(func(t Term) {
		if f, ok := t.(Function); ok {
			key := f.String()
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				out = append(out, f)
			}
		}
	})
	return out
}

func (a Atom) walkAll(visit func(Term)) {
	for _, t := range a.args {
		walk(t, visit)
	}
}

// String renders the atom as Predicate(term1,term2,...); a zero-arity
// predicate renders as the bare predicate name. The rendering is stable
// and round-trips through ParseAtom.
func (a Atom) String() string {
	if len(a.args) == 0 {
		return a.Predicate
	}
	var b strings.Builder
	b.WriteString(a.Predicate)
	b.WriteByte('(')
	for i, t := range a.args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t.String())
	}
	b.WriteByte(')')
	return b.String()
}
