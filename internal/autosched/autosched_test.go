package autosched

import (
	"testing"

	"github.com/xdestiny110/topdown-autosched/internal/config"
	"github.com/xdestiny110/topdown-autosched/internal/ir"
	"github.com/xdestiny110/topdown-autosched/internal/materialize"
)

func pointwisePipeline() []*ir.Func {
	x, y := ir.V("x"), ir.V("y")
	f := ir.NewFunc("f", "x", "y")
	f.Define(32, ir.Mul(ir.Add(x, y), ir.Add(x, y)))
	g := ir.NewFunc("g", "x", "y")
	g.Define(32, ir.Add(ir.Mul(f.Call(x, y), ir.I(2)), ir.I(1)))
	h := ir.NewFunc("h", "x", "y")
	h.Define(32, ir.Add(ir.Mul(g.Call(x, y), ir.I(2)), ir.I(1)))
	h.Estimate(0, 0, 256).Estimate(1, 0, 256)
	return []*ir.Func{h}
}

// stencilChainPipeline builds a chain of 5x5-neighbor-sum stencils,
// whose producers have a genuinely tileable footprint (unlike
// pointwisePipeline's, which only ever get inlined), so the winning
// schedule exercises store_at-and-retile placements end to end.
func stencilChainPipeline() []*ir.Func {
	x, y := ir.V("x"), ir.V("y")

	f0 := ir.NewFunc("f0", "x", "y")
	f0.Define(32, ir.Mul(ir.Mul(
		ir.Add(x, y),
		ir.Add(x, ir.Mul(ir.I(2), y))),
		ir.Add(x, ir.Mul(ir.I(3), y))))

	f1 := ir.NewFunc("f1", "x", "y")
	var e1 ir.Expr = ir.I(0)
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			e1 = ir.Add(e1, f0.Call(ir.Add(x, ir.I(int64(dx))), ir.Add(y, ir.I(int64(dy)))))
		}
	}
	f1.Define(32, e1)

	f2 := ir.NewFunc("f2", "x", "y")
	var e2 ir.Expr = ir.I(0)
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			e2 = ir.Add(e2, f1.Call(ir.Add(x, ir.I(int64(dx))), ir.Add(y, ir.I(int64(dy)))))
		}
	}
	f2.Define(32, e2)
	f2.Estimate(0, 0, 256).Estimate(1, 0, 256)

	return []*ir.Func{f2}
}

func TestGenerateSchedulesTopDownHandlesATileableStencilChain(t *testing.T) {
	cfg := config.Default()
	cfg.BeamSize = 4
	rec := materialize.NewRecorder()

	result, err := GenerateSchedulesTopDown(stencilChainPipeline(), cfg, rec)
	if err != nil {
		t.Fatalf("GenerateSchedulesTopDown: %v", err)
	}
	if result.Cost <= 0 {
		t.Errorf("Cost = %v, want > 0", result.Cost)
	}
	if len(rec.Directives) == 0 {
		t.Fatalf("expected Apply to have issued directives against the backend")
	}
}

func TestGenerateSchedulesTopDownAppliesAScheduleAndReturnsDiagnostics(t *testing.T) {
	cfg := config.Default()
	cfg.BeamSize = 4
	rec := materialize.NewRecorder()

	result, err := GenerateSchedulesTopDown(pointwisePipeline(), cfg, rec)
	if err != nil {
		t.Fatalf("GenerateSchedulesTopDown: %v", err)
	}
	if result.Cost <= 0 {
		t.Errorf("Cost = %v, want > 0", result.Cost)
	}
	if len(dagOutputFuncs(result)) == 0 {
		t.Fatalf("expected at least one DAG node")
	}
	if len(rec.Directives) == 0 {
		t.Fatalf("expected Apply to have issued directives against the backend")
	}
	if result.Diagnostics == nil {
		t.Fatalf("expected non-nil diagnostics")
	}
}

func dagOutputFuncs(r *Result) []*ir.Func {
	fs := make([]*ir.Func, len(r.DAG.Nodes))
	for i, n := range r.DAG.Nodes {
		fs[i] = n.Func
	}
	return fs
}

func TestGenerateSchedulesTopDownPropagatesBuildErrors(t *testing.T) {
	h := ir.NewFunc("h", "x")
	h.Define(32, ir.V("x"))
	// No Estimate() call: Build should fail with a UserError.

	cfg := config.Default()
	_, err := GenerateSchedulesTopDown([]*ir.Func{h}, cfg, materialize.NewRecorder())
	if err == nil {
		t.Fatal("expected an error for a missing bounds estimate")
	}
}
