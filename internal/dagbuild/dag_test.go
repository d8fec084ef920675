package dagbuild

import (
	"testing"

	"github.com/xdestiny110/topdown-autosched/internal/ir"
	"github.com/xdestiny110/topdown-autosched/internal/machine"
)

func pointwisePipeline() *ir.Func {
	x, y := ir.V("x"), ir.V("y")
	f := ir.NewFunc("f", "x", "y")
	f.Define(32, ir.Mul(ir.Add(x, y), ir.Add(x, y)))
	g := ir.NewFunc("g", "x", "y")
	g.Define(32, ir.Add(ir.Mul(f.Call(x, y), ir.I(2)), ir.I(1)))
	h := ir.NewFunc("h", "x", "y")
	h.Define(32, ir.Add(ir.Mul(g.Call(x, y), ir.I(2)), ir.I(1)))
	h.Estimate(0, 0, 1000).Estimate(1, 0, 1000)
	return h
}

func TestBuildCoversEveryFunc(t *testing.T) {
	h := pointwisePipeline()
	dag, err := Build([]*ir.Func{h}, machine.Default())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(dag.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(dag.Nodes))
	}
	// Reverse realization order: the output comes first.
	if dag.Nodes[0].Func.Name() != "h" {
		t.Fatalf("expected h first (consumer-first order), got %s", dag.Nodes[0].Func.Name())
	}
	if dag.Nodes[len(dag.Nodes)-1].Func.Name() != "f" {
		t.Fatalf("expected f last (earliest producer), got %s", dag.Nodes[len(dag.Nodes)-1].Func.Name())
	}
}

func TestBuildEdgesConnectProducersToConsumers(t *testing.T) {
	h := pointwisePipeline()
	dag, err := Build([]*ir.Func{h}, machine.Default())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(dag.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(dag.Edges))
	}
	for _, e := range dag.Edges {
		if e.Calls != 1 {
			t.Fatalf("expected 1 call per edge in a pointwise pipeline, got %d", e.Calls)
		}
	}
}

func TestBuildMissingEstimateIsUserError(t *testing.T) {
	h := ir.NewFunc("h", "x", "y")
	h.Define(32, ir.Add(ir.V("x"), ir.V("y")))
	// No Estimate() call.

	_, err := Build([]*ir.Func{h}, machine.Default())
	if err == nil {
		t.Fatal("expected an error for a missing bounds estimate")
	}
	if _, ok := err.(*ir.UserError); !ok {
		t.Fatalf("expected *ir.UserError, got %T", err)
	}
}

func TestBuildComputeCostIsPositive(t *testing.T) {
	h := pointwisePipeline()
	dag, err := Build([]*ir.Func{h}, machine.Default())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, n := range dag.Nodes {
		if n.Compute <= 0 {
			t.Errorf("%s: Compute = %v, want > 0", n.Func.Name(), n.Compute)
		}
		if n.ComputeIfInlined < 0 {
			t.Errorf("%s: ComputeIfInlined = %v, want >= 0", n.Func.Name(), n.ComputeIfInlined)
		}
	}
}
