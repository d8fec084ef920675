package ir

import "testing"

func TestSimplifyConstantFolding(t *testing.T) {
	e := Add(Mul(I(3), I(4)), I(5))
	got, ok := AsConstInt(e)
	if !ok || got != 17 {
		t.Fatalf("AsConstInt(3*4+5) = %v, %v, want 17, true", got, ok)
	}
}

func TestSimplifyIdentities(t *testing.T) {
	cases := []struct {
		name string
		e    Expr
		want int64
	}{
		{"x+0", Add(V("x"), I(0)), 0},
		{"x*1", Mul(V("x"), I(1)), 0},
		{"x*0", Mul(V("x"), I(0)), 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			simplified := Simplify(c.e)
			if c.name == "x*0" {
				if n, ok := simplified.(IntImm); !ok || n.Value != 0 {
					t.Fatalf("Simplify(x*0) = %v, want IntImm{0}", simplified)
				}
				return
			}
			if v, ok := simplified.(Var); !ok || v.Name != "x" {
				t.Fatalf("Simplify(%s) = %v, want Var{x}", c.name, simplified)
			}
		})
	}
}

func TestSubstitute(t *testing.T) {
	e := Add(V("h.0.min"), V("h.0.max"))
	repl := map[string]Expr{
		"h.0.min": I(10),
		"h.0.max": I(20),
	}
	got, ok := AsConstInt(Substitute(repl, e))
	if !ok || got != 30 {
		t.Fatalf("Substitute+AsConstInt = %v, %v, want 30, true", got, ok)
	}
}

func TestApplyParamEstimatesMissing(t *testing.T) {
	p := NewScalarParam("radius")
	_, err := ApplyParamEstimates(p.Scalar())
	if err == nil {
		t.Fatal("expected an error for a parameter with no estimate")
	}
	if _, ok := err.(*UserError); !ok {
		t.Fatalf("expected *UserError, got %T", err)
	}
}

func TestApplyParamEstimatesResolved(t *testing.T) {
	p := NewScalarParam("radius")
	p.SetEstimate(3)
	e, err := ApplyParamEstimates(p.Scalar())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := AsConstInt(e)
	if !ok || got != 3 {
		t.Fatalf("got %v, %v, want 3, true", got, ok)
	}
}
