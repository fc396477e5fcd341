package logic

import (
	"errors"
	"testing"

	"github.com/statrel/mln/pkg/mln/internalerr"
)

func TestConstantIsGround(t *testing.T) {
	c := Constant{Domain: "person", Symbol: "Anna"}
	if !c.Ground() {
		t.Error("constant should be ground")
	}
	if c.String() != "Anna" {
		t.Errorf("expected bare symbol rendering, got %q", c.String())
	}
}

func TestVariableIsNeverGround(t *testing.T) {
	v := Variable{Name: "t", Domain: "time"}
	if v.Ground() {
		t.Error("variable should not be ground")
	}
	if v.String() != "t" {
		t.Errorf("expected bare name rendering, got %q", v.String())
	}
}

func TestFunctionGroundness(t *testing.T) {
	tests := []struct {
		name   string
		args   []Term
		ground bool
	}{
		{"no args", nil, true},
		{"all constants", []Term{Constant{Symbol: "1"}, Constant{Symbol: "2"}}, true},
		{"one variable", []Term{Constant{Symbol: "1"}, Variable{Name: "t", Domain: "time"}}, false},
		{"variable nested in function", []Term{Function{Name: "succ", Args: []Term{Variable{Name: "t", Domain: "time"}}}}, false},
		{"constant nested in function", []Term{Function{Name: "succ", Args: []Term{Constant{Symbol: "1"}}}}, true},
	}
	for _, tt := range tests {
		f := Function{Name: "f", Args: tt.args, ReturnDomain: "time"}
		if f.Ground() != tt.ground {
			t.Errorf("%s: expected ground=%v", tt.name, tt.ground)
		}
	}
}

func TestFunctionRendering(t *testing.T) {
	f := Function{Name: "succ", Args: []Term{
		Function{Name: "succ", Args: []Term{Constant{Symbol: "0"}}},
	}}
	if f.String() != "succ(succ(0))" {
		t.Errorf("expected succ(succ(0)), got %q", f.String())
	}
}

func TestNewFunctionRejectsEmptyName(t *testing.T) {
	_, err := NewFunction("", "time", Constant{Symbol: "1"})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
