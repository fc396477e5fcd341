package logic

import (
	"errors"
	"testing"

	"github.com/statrel/mln/pkg/mln/internalerr"
)

func TestGroundAtom(t *testing.T) {
	a := MustAtom("Happens", Constant{Symbol: "Foo"}, Constant{Symbol: "10"})

	if !a.Ground() {
		t.Error("atom over constants should be ground")
	}
	if n := len(a.Variables()); n != 0 {
		t.Errorf("expected 0 variables, got %d", n)
	}
	if n := len(a.Constants()); n != 2 {
		t.Errorf("expected 2 constants, got %d", n)
	}
	if n := len(a.Functions()); n != 0 {
		t.Errorf("expected 0 functions, got %d", n)
	}
}

func TestNonGroundAtom(t *testing.T) {
	a := MustAtom("Happens", Constant{Symbol: "Foo"}, Variable{Name: "t", Domain: "time"})

	if a.Ground() {
		t.Error("atom with a variable should not be ground")
	}
	if n := len(a.Variables()); n != 1 {
		t.Errorf("expected 1 variable, got %d", n)
	}
}

func TestAtomWithFunctionOverVariable(t *testing.T) {
	succ := Function{
		Name:         "succ",
		Args:         []Term{Variable{Name: "t", Domain: "time"}},
		ReturnDomain: "time",
	}
	a := MustAtom("Happens", succ, Constant{Symbol: "10"})

	if a.Ground() {
		t.Error("function over a variable is not ground")
	}
	if n := len(a.Constants()); n != 1 {
		t.Errorf("expected exactly 1 constant, got %d", n)
	}
	if n := len(a.Variables()); n != 1 {
		t.Errorf("expected exactly 1 variable, got %d", n)
	}
	fns := a.Functions()
	if len(fns) != 1 {
		t.Fatalf("expected exactly 1 function term, got %d", len(fns))
	}
	if fns[0].String() != succ.String() {
		t.Errorf("extracted function %q differs from subterm %q", fns[0], succ)
	}
}

func TestZeroArityAtomIsGround(t *testing.T) {
	a := MustAtom("Raining")
	if !a.Ground() {
		t.Error("zero-arity predicate should be trivially ground")
	}
	if a.String() != "Raining" {
		t.Errorf("expected bare predicate rendering, got %q", a.String())
	}
}

func TestSignatureStability(t *testing.T) {
	a := MustAtom("Happens", Constant{Symbol: "Foo"}, Constant{Symbol: "10"})
	b := MustAtom("Happens", Variable{Name: "x", Domain: "d"}, Function{Name: "f", Args: []Term{Constant{Symbol: "1"}}})

	want := Signature{Name: "Happens", Arity: 2}
	if a.Signature() != want {
		t.Errorf("expected %v, got %v", want, a.Signature())
	}
	if a.Signature() != b.Signature() {
		t.Error("signatures should be equal regardless of term contents")
	}
}

func TestVariableDeduplication(t *testing.T) {
	x := Variable{Name: "x", Domain: "person"}
	a := MustAtom("Knows", x, x)
	if n := len(a.Variables()); n != 1 {
		t.Errorf("repeated variable should be deduplicated, got %d", n)
	}
}

func TestTermsReturnsDirectArguments(t *testing.T) {
	inner := Constant{Symbol: "1"}
	f := Function{Name: "succ", Args: []Term{inner}}
	a := MustAtom("At", f)

	terms := a.Terms()
	if len(terms) != 1 {
		t.Fatalf("expected depth-1 list of length 1, got %d", len(terms))
	}
	if _, ok := terms[0].(Function); !ok {
		t.Error("direct argument should be the function, not its flattened contents")
	}
}

func TestNewAtomRejectsEmptyPredicate(t *testing.T) {
	_, err := NewAtom("", Constant{Symbol: "Foo"})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAtomRendering(t *testing.T) {
	a := MustAtom("Happens",
		Function{Name: "succ", Args: []Term{Constant{Symbol: "9"}}},
		Constant{Symbol: "10"})
	if a.String() != "Happens(succ(9),10)" {
		t.Errorf("expected Happens(succ(9),10), got %q", a.String())
	}
}

func TestParseSignature(t *testing.T) {
	sig, err := ParseSignature("Cancer/1")
	if err != nil {
		t.Fatal(err)
	}
	if sig != (Signature{Name: "Cancer", Arity: 1}) {
		t.Errorf("unexpected signature %v", sig)
	}
	if _, err := ParseSignature("Cancer"); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for missing arity, got %v", err)
	}
}
