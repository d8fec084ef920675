// Package materialize turns a completed schedule tree into a sequence
// of scheduling directives against an external backend. The backend
// (compute_root, compute_at, store_at, split, vectorize, unroll,
// parallel, fuse, reorder) is treated as a narrow-contract
// collaborator; this package never constructs loop variables or code
// itself, it only decides which directive to issue and in what order.
package materialize

import (
	"math"
	"sort"

	"github.com/xdestiny110/topdown-autosched/internal/dagbuild"
	"github.com/xdestiny110/topdown-autosched/internal/ir"
	"github.com/xdestiny110/topdown-autosched/internal/machine"
	"github.com/xdestiny110/topdown-autosched/internal/schedule"
)

// Backend receives the scheduling directives a materialized tree
// implies. Variable names are per-Func, loop-nest-local strings; a
// real backend would resolve them against its own IR's loop variables.
type Backend interface {
	ComputeRoot(f *ir.Func)
	ComputeAt(f *ir.Func, atFunc *ir.Func, atVar string)
	StoreAt(f *ir.Func, atFunc *ir.Func, atVar string)
	Split(f *ir.Func, v, outer, inner string, factor int)
	Vectorize(f *ir.Func, v string, factor int)
	Unroll(f *ir.Func, v string)
	Parallel(f *ir.Func, v string, taskSize int)
	Fuse(f *ir.Func, inner, outer, fused string)
	Reorder(f *ir.Func, vars []string)
}

// level names a loop position: either the pipeline root, or a named
// variable of some Func's loop nest.
type level struct {
	root bool
	fn   *ir.Func
	v    string
}

func rootLevel() level { return level{root: true} }

// Apply walks a completed schedule tree and issues every directive it
// implies against backend. params.Parallelism bounds how many outer
// dimensions are parallelized and fused together: fusing is only
// attempted once at least one dimension has actually been parallelized.
func Apply(root *schedule.Node, dag *dagbuild.DAG, params machine.Params, backend Backend) {
	varsMap := make(map[*ir.Func][]string)
	apply(root, rootLevel(), dag, params, varsMap, backend, float64(params.Parallelism))

	for _, f := range sortedVarFuncs(varsMap) {
		backend.Reorder(f, varsMap[f])
	}
}

func apply(n *schedule.Node, here level, dag *dagbuild.DAG, params machine.Params, varsMap map[*ir.Func][]string, backend Backend, numCores float64) {
	if n.IsRoot() {
		for _, c := range n.Children {
			backend.ComputeRoot(c.Func)
			apply(c, rootLevel(), dag, params, varsMap, backend, numCores)
		}
		return
	}

	vars := varsMap[n.Func]
	if len(vars) == 0 {
		vars = append([]string(nil), n.Func.Args()...)
	}

	if n.Innermost {
		v := vars[0]
		here = level{fn: n.Func, v: v}

		switch {
		case n.Size[0] >= 16:
			backend.Vectorize(n.Func, v, 16)
		case n.Size[0] >= 8:
			backend.Vectorize(n.Func, v, 8)
		case n.Size[0] >= 4:
			backend.Vectorize(n.Func, v, 4)
		}

		if len(vars) > n.Func.Dimensions() && n.Size[0] <= 32 {
			// Only known safe to unroll once the loop has been tiled at
			// least once, so the inner extent is a compile-time constant.
			backend.Unroll(n.Func, v)
		}

		if numCores > 1 {
			taskSize := float64(n.Size[len(n.Size)-1]) / numCores
			last := vars[n.Func.Dimensions()-1]
			if taskSize > 1 {
				backend.Parallel(n.Func, last, int(math.Ceil(taskSize)))
			} else {
				backend.Parallel(n.Func, last, 1)
			}
		}
	} else {
		bounds := n.GetBounds(dag, n.Func)
		newInner := make([]string, len(bounds.Region))
		for i, iv := range bounds.Region {
			extent := int(iv.Extent())
			old := vars[i]
			outer := old + "o"
			inner := old + "i"
			backend.Split(n.Func, old, outer, inner, extent)
			vars[i] = outer
			newInner[i] = inner
		}

		if numCores > 1 {
			innermostParallelDim := -1
			numParallelDims := 0
			for i := n.Func.Dimensions() - 1; numCores > 1 && i >= 0; i-- {
				backend.Parallel(n.Func, vars[i], 0)
				numParallelDims++
				innermostParallelDim = i
				numCores /= float64(n.Size[i])
			}
			// Fuse the outer parallel dimensions into one loop to
			// minimize nested parallelism, but only once at least one
			// dimension was actually parallelized above.
			for i := 0; i < numParallelDims-1; i++ {
				inner := vars[innermostParallelDim]
				outer := vars[innermostParallelDim+1]
				fused := inner + "_" + outer
				backend.Fuse(n.Func, inner, outer, fused)
				vars[innermostParallelDim] = fused
				vars = append(vars[:innermostParallelDim+1], vars[innermostParallelDim+2:]...)
			}
		}

		here = level{fn: n.Func, v: vars[0]}
		vars = append(append([]string(nil), newInner...), vars...)
	}
	varsMap[n.Func] = vars

	for _, f := range sortedStoreAt(n) {
		backend.StoreAt(f, here.fn, here.v)
	}
	for _, c := range n.Children {
		if c.Func != n.Func {
			backend.ComputeAt(c.Func, here.fn, here.v)
		}
		apply(c, here, dag, params, varsMap, backend, numCores)
	}
}

func sortedStoreAt(n *schedule.Node) []*ir.Func {
	fs := make([]*ir.Func, 0, len(n.StoreAt))
	for f := range n.StoreAt {
		fs = append(fs, f)
	}
	sort.Slice(fs, func(i, j int) bool { return fs[i].Name() < fs[j].Name() })
	return fs
}

func sortedVarFuncs(m map[*ir.Func][]string) []*ir.Func {
	fs := make([]*ir.Func, 0, len(m))
	for f := range m {
		fs = append(fs, f)
	}
	sort.Slice(fs, func(i, j int) bool { return fs[i].Name() < fs[j].Name() })
	return fs
}
