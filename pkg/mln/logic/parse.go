package logic

import (
	"fmt"
	"strings"

	"github.com/statrel/mln/pkg/mln/internalerr"
)

// ParseAtom parses the textual rendering produced by Atom.String back into
// an Atom. Bare identifiers become constants (with an empty domain, since
// the rendering carries no type information) and name(args...) becomes a
// function term; nesting is unlimited. Only ground atoms cross this
// boundary, so the parser never produces variables.
func ParseAtom(s string) (Atom, error) {
	p := &atomParser{input: s}
	p.skipSpace()
	name := p.ident()
	if name == "" {
		return Atom{}, fmt.Errorf("parse atom %q: missing predicate: %w", s, internalerr.ErrInvalidInput)
	}
	var terms []Term
	if p.peek() == '(' {
		var err error
		terms, err = p.termList()
		if err != nil {
			return Atom{}, fmt.Errorf("parse atom %q: %w", s, err)
		}
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return Atom{}, fmt.Errorf("parse atom %q: trailing input at offset %d: %w", s, p.pos, internalerr.ErrInvalidInput)
	}
	return NewAtom(name, terms...)
}

type atomParser struct {
	input string
	pos   int
}

func (p *atomParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *atomParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

// ident consumes a run of identifier characters: anything except the
// structural bytes '(', ')', ',' and whitespace.
func (p *atomParser) ident() string {
	start := p.pos
	for p.pos < len(p.input) && !strings.ContainsRune("(), \t", rune(p.input[p.pos])) {
		p.pos++
	}
	return p.input[start:p.pos]
}

// termList consumes "(t1,t2,...)" including both parentheses.
func (p *atomParser) termList() ([]Term, error) {
	p.pos++ // opening paren
	var terms []Term
	for {
		p.skipSpace()
		t, err := p.term()
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return terms, nil
		default:
			return nil, fmt.Errorf("offset %d: expected ',' or ')': %w", p.pos, internalerr.ErrInvalidInput)
		}
	}
}

func (p *atomParser) term() (Term, error) {
	name := p.ident()
	if name == "" {
		return nil, fmt.Errorf("offset %d: empty term: %w", p.pos, internalerr.ErrInvalidInput)
	}
	if p.peek() != '(' {
		return Constant{Symbol: name}, nil
	}
	args, err := p.termList()
	if err != nil {
		return nil, err
	}
	return Function{Name: name, Args: args}, nil
}
