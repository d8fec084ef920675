package cost

import (
	"math"
	"testing"

	"github.com/xdestiny110/topdown-autosched/internal/dagbuild"
	"github.com/xdestiny110/topdown-autosched/internal/ir"
	"github.com/xdestiny110/topdown-autosched/internal/machine"
	"github.com/xdestiny110/topdown-autosched/internal/schedule"
)

func pointwiseDAG(t *testing.T) (*dagbuild.DAG, *ir.Func, *ir.Func, *ir.Func) {
	t.Helper()
	x, y := ir.V("x"), ir.V("y")
	f := ir.NewFunc("f", "x", "y")
	f.Define(32, ir.Mul(ir.Add(x, y), ir.Add(x, y)))
	g := ir.NewFunc("g", "x", "y")
	g.Define(32, ir.Add(ir.Mul(f.Call(x, y), ir.I(2)), ir.I(1)))
	h := ir.NewFunc("h", "x", "y")
	h.Define(32, ir.Add(ir.Mul(g.Call(x, y), ir.I(2)), ir.I(1)))
	h.Estimate(0, 0, 100).Estimate(1, 0, 100)

	dag, err := dagbuild.Build([]*ir.Func{h}, machine.Default())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return dag, f, g, h
}

func TestTotalCostPositiveWhenEverythingInlinedIntoOutput(t *testing.T) {
	dag, f, g, h := pointwiseDAG(t)

	root := schedule.NewRoot()
	leaf := root.ComputeHere(dag, h)
	leaf.Inlined[g] = 1
	leaf.Inlined[f] = 1
	root.Children = append(root.Children, leaf)
	root.StoreAt[h] = true

	total := Total(root, dag)
	if total <= 0 {
		t.Fatalf("Total = %v, want > 0", total)
	}
}

func TestTotalCostIncludesMemoryCostPerOutgoingEdge(t *testing.T) {
	dag, f, g, h := pointwiseDAG(t)

	// Realize f at the root (store_at root) instead of inlining it, so
	// its memory cost is charged once per outgoing edge.
	root := schedule.NewRoot()
	hLeaf := root.ComputeHere(dag, h)
	hLeaf.Inlined[g] = 1
	root.Children = append(root.Children, hLeaf)
	root.StoreAt[h] = true

	fLeaf := root.ComputeHere(dag, f)
	root.Children = append(root.Children, fLeaf)
	root.StoreAt[f] = true

	diag := NewDiagnostics()
	total := Evaluate(root, dag, 1, nil, NewState(), diag)
	if total <= 0 {
		t.Fatalf("Evaluate = %v, want > 0", total)
	}
	if _, ok := diag.NodeCosts[f]; !ok {
		t.Errorf("expected a recorded node cost for f")
	}
	if len(dag.OutgoingEdges(f)) != 1 {
		t.Fatalf("expected exactly 1 outgoing edge for f in this pipeline, got %d", len(dag.OutgoingEdges(f)))
	}
	if _, ok := diag.EdgeCosts[dag.OutgoingEdges(f)[0]]; !ok {
		t.Errorf("expected a recorded edge cost for f's single outgoing edge")
	}
}

func TestOvercomputeFactorAtSizeSixteenMatchesExpectedConstant(t *testing.T) {
	f := ir.NewFunc("f", "x", "y")
	f.Define(32, ir.Add(ir.V("x"), ir.V("y")))

	leaf := &schedule.Node{
		Func:      f,
		Innermost: true,
		Tileable:  true,
		Size:      []int{16, 8},
		Inlined:   make(map[*ir.Func]int),
		StoreAt:   make(map[*ir.Func]bool),
	}

	state := NewState()
	Evaluate(leaf, nil, 1, schedule.NewRoot(), state, nil)

	got := state.Overcompute[f]
	want := 1.000625
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("overcompute factor at size[0]=16 = %v, want %v", got, want)
	}
}

func TestOvercomputeFactorIsOneWhenSizeIsAMultipleOfSixteen(t *testing.T) {
	f := ir.NewFunc("f", "x")
	f.Define(32, ir.V("x"))

	leaf := &schedule.Node{
		Func:      f,
		Innermost: true,
		Tileable:  true,
		Size:      []int{32},
		Inlined:   make(map[*ir.Func]int),
		StoreAt:   make(map[*ir.Func]bool),
	}

	state := NewState()
	Evaluate(leaf, nil, 1, schedule.NewRoot(), state, nil)

	got := state.Overcompute[f]
	// No vectorization remainder at size[0]=32, only the fixed
	// per-iteration overhead term survives.
	want := (32.0 + 0.01) / 32.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("overcompute factor at size[0]=32 = %v, want %v", got, want)
	}
}
