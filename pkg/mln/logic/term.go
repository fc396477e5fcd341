package logic

import (
	"fmt"
	"strings"

	"github.com/statrel/mln/pkg/mln/internalerr"
)

// Term is the closed sum over the three term shapes: Constant, Variable
// and Function. Consumers match exhaustively on the concrete type.
type Term interface {
	// Ground reports whether the term contains no variables.
	Ground() bool

	// String renders the term in the stable textual form consumed by the
	// parser: constants and variables as bare identifiers, functions as
	// name(arg1,arg2,...).
	String() string

	isTerm()
}

// Constant is a constant symbol drawn from a named domain.
type Constant struct {
	Domain string
	Symbol string
}

// Ground implements Term; a constant is always ground.
func (Constant) Ground() bool { return true }

func (c Constant) String() string { return c.Symbol }

func (Constant) isTerm() {}

// Variable is a typed logical variable ranging over a named domain.
type Variable struct {
	Name   string
	Domain string
}

// Ground implements Term; a variable is never ground.
func (Variable) Ground() bool { return false }

func (v Variable) String() string { return v.Name }

func (Variable) isTerm() {}

// Function is an uninterpreted function application with a return domain.
type Function struct {
	Name         string
	Args         []Term
	ReturnDomain string
}

// NewFunction builds a function term, rejecting empty function names.
func NewFunction(name, returnDomain string, args ...Term) (Function, error) {
	if name == "" {
		return Function{}, fmt.Errorf("function name: %w", internalerr.ErrInvalidInput)
	}
	return Function{Name: name, Args: args, ReturnDomain: returnDomain}, nil
}

// Ground implements Term; a function is ground iff every argument is ground.
func (f Function) Ground() bool {
	for _, a := range f.Args {
		if !a.Ground() {
			return false
		}
	}
	return true
}

func (f Function) String() string {
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteByte('(')
	for i, a := range f.Args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}

func (Function) isTerm() {}

// walk visits t and every subterm of t, entering function arguments.
func walk(t Term, visit func(Term)) {
	visit(t)
	if f, ok := t.(Function); ok {
		for _, a := range f.Args {
			walk(a, visit)
		}
	}
}
