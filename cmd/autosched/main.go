// Command autosched runs the top-down beam-search scheduler against a
// handful of reference pipelines and writes each winning schedule's
// directive log to disk.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xdestiny110/topdown-autosched/internal/autosched"
	"github.com/xdestiny110/topdown-autosched/internal/config"
	"github.com/xdestiny110/topdown-autosched/internal/ir"
	"github.com/xdestiny110/topdown-autosched/internal/logx"
	"github.com/xdestiny110/topdown-autosched/internal/machine"
	"github.com/xdestiny110/topdown-autosched/internal/materialize"
)

type scenario struct {
	name    string
	outputs func() []*ir.Func
	machine machine.Params
}

type result struct {
	name      string
	cost      float64
	directives int
	elapsed   time.Duration
}

func main() {
	outputDir := flag.String("out", "./schedules", "directory to write directive logs to")
	beamSize := flag.Int("beam-size", 0, "override HL_BEAM_SIZE for every scenario (0 = use config/env)")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		logx.Error("autosched", fmt.Sprintf("creating output directory: %v", err))
		os.Exit(1)
	}

	cfg, err := config.Load("autosched.toml")
	if err != nil {
		logx.Error("autosched", err.Error())
		os.Exit(1)
	}
	if *beamSize > 0 {
		cfg.BeamSize = *beamSize
	}

	scenarios := referenceScenarios()

	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("  top-down beam search autoscheduler")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Running %d reference scenarios\n\n", len(scenarios))

	var results []result
	for i, sc := range scenarios {
		fmt.Printf("[%d/%d] %s\n", i+1, len(scenarios), sc.name)
		fmt.Println(strings.Repeat("-", 80))

		start := time.Now()

		scCfg := cfg
		scCfg.Machine = sc.machine

		rec := materialize.NewRecorder()
		res, err := autosched.GenerateSchedulesTopDown(sc.outputs(), scCfg, rec)
		if err != nil {
			logx.Error(sc.name, err.Error())
			continue
		}

		elapsed := time.Since(start)
		outFile := filepath.Join(*outputDir, sc.name+".json")
		if err := rec.WriteJSON(outFile); err != nil {
			logx.Error(sc.name, err.Error())
			continue
		}

		fmt.Printf("  cost: %.4f  directives: %d  time: %v\n\n", res.Cost, len(rec.Directives), elapsed)
		results = append(results, result{name: sc.name, cost: res.Cost, directives: len(rec.Directives), elapsed: elapsed})
	}

	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("  summary")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("%-28s %15s %12s %12s\n", "scenario", "cost", "directives", "time")
	fmt.Println(strings.Repeat("-", 80))
	for _, r := range results {
		fmt.Printf("%-28s %15.4f %12d %12v\n", r.name, r.cost, r.directives, r.elapsed)
	}
	fmt.Println(strings.Repeat("=", 80))
}

// referenceScenarios returns the five reference pipelines this driver
// runs: each exercises a distinct placement
// regime (full fusion, full separation, square tiling, small tiling,
// and a deep chain).
func referenceScenarios() []scenario {
	return []scenario{
		{name: "pointwise-fusion", outputs: PointwisePipeline, machine: machine.Default()},
		{name: "expensive-stencil-separation", outputs: ExpensiveStencilPipeline, machine: machine.Params{Parallelism: 8, LastLevelCacheBytes: 16 * 1024 * 1024, Balance: 1}},
		{name: "isotropic-square-tiling", outputs: IsotropicStencilPipeline, machine: machine.Default()},
		{name: "small-footprint-tiling", outputs: SmallFootprintStencilPipeline, machine: machine.Default()},
		{name: "stencil-chain", outputs: StencilChainPipeline, machine: machine.Default()},
	}
}
