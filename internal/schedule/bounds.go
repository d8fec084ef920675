package schedule

import (
	"strconv"

	"github.com/xdestiny110/topdown-autosched/internal/assert"
	"github.com/xdestiny110/topdown-autosched/internal/dagbuild"
	"github.com/xdestiny110/topdown-autosched/internal/ir"
)

// GetBounds computes (and memoizes, per this tree node) the region of f
// required given this partial schedule.
func (n *Node) GetBounds(dag *dagbuild.DAG, f *ir.Func) *Bounds {
	if cached, ok := n.bounds[f]; ok {
		return cached
	}

	node := dag.NodeOf(f)
	assert.That(node != nil, "GetBounds called for a function not in the DAG: %s", f.Name())

	edges := dag.OutgoingEdges(f)

	var b *Bounds
	if n.IsRoot() && len(edges) == 0 {
		// An output function at the root: bounds come directly from the
		// user's estimates.
		region := make([]IntInterval, f.Dimensions())
		points := int64(1)
		for dim := range region {
			assert.That(f.HasEstimate(dim), "output %s missing estimate for dim %d", f.Name(), dim)
			est := f.EstimateOf(dim)
			region[dim] = IntInterval{Min: est.Min, Max: est.Min + est.Extent - 1}
			points *= est.Extent
		}
		b = &Bounds{
			Region:    region,
			MinPoints: points,
			MinCost:   float64(points) * node.Compute,
		}
	} else {
		region := unionAcrossEdges(n, dag, f, edges)

		pointsIfRealized := int64(1)
		for _, iv := range region {
			pointsIfRealized *= iv.Extent()
		}

		var callsIfInlined int64
		for _, e := range edges {
			consumerBounds := n.GetBounds(dag, e.Consumer.Func)
			callsIfInlined += consumerBounds.MinPoints * int64(e.Calls)
		}

		minPoints := pointsIfRealized
		if callsIfInlined < minPoints {
			minPoints = callsIfInlined
		}

		costRealized := float64(pointsIfRealized) * node.Compute
		costInlined := float64(callsIfInlined) * node.ComputeIfInlined
		minCost := costRealized
		if costInlined < minCost {
			minCost = costInlined
		}

		b = &Bounds{Region: region, MinPoints: minPoints, MinCost: minCost}
	}

	n.bounds[f] = b
	return b
}

// unionAcrossEdges combines every outgoing edge of f into one region: per
// dimension, the min of mins and the min of maxes, after substituting each
// consumer's own (already-resolved) integer bounds into that edge's
// symbolic region.
func unionAcrossEdges(n *Node, dag *dagbuild.DAG, f *ir.Func, edges []*dagbuild.Edge) []IntInterval {
	assert.That(len(edges) > 0, "non-output function %s has no outgoing edges", f.Name())

	var region []IntInterval
	for _, e := range edges {
		consumerBounds := n.GetBounds(dag, e.Consumer.Func)

		repl := make(map[string]ir.Expr, 2*len(consumerBounds.Region))
		for dim, iv := range consumerBounds.Region {
			name := e.Consumer.Func.Name() + "." + strconv.Itoa(dim)
			repl[name+".min"] = ir.IntImm{Value: iv.Min}
			repl[name+".max"] = ir.IntImm{Value: iv.Max}
		}

		edgeRegion := make([]IntInterval, len(e.Bounds))
		for dim, iv := range e.Bounds {
			min, okMin := ir.AsConstInt(ir.Substitute(repl, iv.Min))
			max, okMax := ir.AsConstInt(ir.Substitute(repl, iv.Max))
			assert.That(okMin && okMax, "bounds propagation for %s yielded a non-integer interval", f.Name())
			edgeRegion[dim] = IntInterval{Min: min, Max: max}
		}

		if region == nil {
			region = edgeRegion
			continue
		}
		for dim := range region {
			if edgeRegion[dim].Min < region[dim].Min {
				region[dim].Min = edgeRegion[dim].Min
			}
			if edgeRegion[dim].Max < region[dim].Max {
				region[dim].Max = edgeRegion[dim].Max
			}
		}
	}
	assert.That(region != nil, "bounds region for %s is unexpectedly empty", f.Name())
	return region
}
