// Package autosched wires together DAG construction, beam search, and
// schedule materialization into the single entry point a caller needs.
package autosched

import (
	"fmt"

	"github.com/xdestiny110/topdown-autosched/internal/beam"
	"github.com/xdestiny110/topdown-autosched/internal/config"
	"github.com/xdestiny110/topdown-autosched/internal/cost"
	"github.com/xdestiny110/topdown-autosched/internal/dagbuild"
	"github.com/xdestiny110/topdown-autosched/internal/ir"
	"github.com/xdestiny110/topdown-autosched/internal/logx"
	"github.com/xdestiny110/topdown-autosched/internal/materialize"
	"github.com/xdestiny110/topdown-autosched/internal/schedule"
)

// Result carries a completed schedule's diagnostics alongside the DAG
// it was computed from, so a caller can inspect per-func cost
// breakdowns after GenerateSchedulesTopDown returns.
type Result struct {
	DAG         *dagbuild.DAG
	Tree        *schedule.Node
	Cost        float64
	Diagnostics *cost.Diagnostics
}

// GenerateSchedulesTopDown builds the function DAG for outputs, runs
// the beam search configured by cfg, and applies the winning schedule
// to backend. It returns the chosen schedule's diagnostics for
// reporting. This mirrors the reference scheduler's single public
// entry point, generate_schedules_top_down.
func GenerateSchedulesTopDown(outputs []*ir.Func, cfg config.Config, backend materialize.Backend) (*Result, error) {
	dag, err := dagbuild.Build(outputs, cfg.Machine)
	if err != nil {
		return nil, fmt.Errorf("building function DAG: %w", err)
	}

	var best *schedule.Node
	if cfg.TimeLimit > 0 {
		state := beam.SearchWithTimeLimit(dag, cfg.TimeLimit)
		best = state.Root
	} else {
		state := beam.Search(dag, cfg.BeamSize, true)
		best = state.Root
	}

	diag := cost.NewDiagnostics()
	total := cost.Evaluate(best, dag, 1, nil, cost.NewState(), diag)

	logx.Info("autosched", fmt.Sprintf("chosen schedule cost: %.4f", total))
	logx.Debug(best.String())

	materialize.Apply(best, dag, cfg.Machine, backend)

	return &Result{DAG: dag, Tree: best, Cost: total, Diagnostics: diag}, nil
}
