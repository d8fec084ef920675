package ir

import "testing"

func TestBoxesRequiredUnionsMultipleCalls(t *testing.T) {
	f := NewFunc("f", "x", "y")
	f.Define(32, Add(V("x"), V("y")))

	x, y := V("x"), V("y")
	h := NewFunc("h", "x", "y")
	h.Define(32, Add(
		f.Call(Sub(x, I(9)), Sub(y, I(9))),
		f.Call(Add(x, I(9)), Add(y, I(9))),
	))

	scope := Scope{
		"x": Interval{Min: I(0), Max: I(999)},
		"y": Interval{Min: I(0), Max: I(999)},
	}
	boxes := BoxesRequired(h.Values(), scope)

	box, ok := boxes[f]
	if !ok {
		t.Fatalf("expected a box for f")
	}
	if len(box.Bounds) != 2 {
		t.Fatalf("expected 2 dims, got %d", len(box.Bounds))
	}
	min0, ok := AsConstInt(box.Bounds[0].Min)
	if !ok || min0 != -9 {
		t.Fatalf("dim0 min = %v, %v, want -9, true", min0, ok)
	}
	max0, ok := AsConstInt(box.Bounds[0].Max)
	if !ok || max0 != 1008 {
		t.Fatalf("dim0 max = %v, %v, want 1008, true", max0, ok)
	}
}

func TestPopulateEnvironmentAndRealizationOrder(t *testing.T) {
	x, y := V("x"), V("y")
	f := NewFunc("f", "x", "y")
	f.Define(32, Add(x, y))
	g := NewFunc("g", "x", "y")
	g.Define(32, Add(f.Call(x, y), I(1)))

	env := PopulateEnvironment(g)
	if len(env) != 2 {
		t.Fatalf("expected 2 funcs in environment, got %d", len(env))
	}

	order := RealizationOrder([]*Func{g}, env)
	if len(order) != 2 || order[0] != "f" || order[1] != "g" {
		t.Fatalf("expected [f g], got %v", order)
	}
}
