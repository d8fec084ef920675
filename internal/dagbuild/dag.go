// Package dagbuild builds the immutable function DAG a pipeline's
// outputs induce.
package dagbuild

import (
	"fmt"
	"math"
	"sort"

	"github.com/xdestiny110/topdown-autosched/internal/ir"
	"github.com/xdestiny110/topdown-autosched/internal/machine"
)

// Node is one pipeline function's entry in the DAG.
type Node struct {
	Func *ir.Func

	// Compute is the cost per output point when this Func is realized.
	Compute float64
	// ComputeIfInlined is the cost per output point when inlined.
	ComputeIfInlined float64
	// Memory is the cost coefficient per cold load.
	Memory float64
	// Region is this Func's symbolic per-dimension interval, named
	// "<func>.<i>.min" / "<func>.<i>.max".
	Region []ir.Interval
}

// Edge is a direct producer -> consumer relation.
type Edge struct {
	Producer, Consumer *Node
	// Bounds[i] is the symbolic interval required of Producer's i-th
	// dimension, expressed in Consumer's region variables.
	Bounds []ir.Interval
	// Calls is the number of times Consumer calls Producer per point.
	Calls int
}

// DAG is the immutable, shared function graph. Nodes are stored in
// reverse realization order: index 0 is an output, later indices are
// earlier producers.
type DAG struct {
	Nodes []*Node
	Edges []*Edge

	outgoing map[*ir.Func][]*Edge
	incoming map[*ir.Func][]*Edge
	byFunc   map[*ir.Func]*Node
}

func (d *DAG) NodeOf(f *ir.Func) *Node        { return d.byFunc[f] }
func (d *DAG) OutgoingEdges(f *ir.Func) []*Edge { return d.outgoing[f] }
func (d *DAG) IncomingEdges(f *ir.Func) []*Edge { return d.incoming[f] }

// Build constructs the DAG from a pipeline's outputs.
func Build(outputs []*ir.Func, params machine.Params) (*DAG, error) {
	env := ir.PopulateEnvironment(outputs...)
	order := ir.RealizationOrder(outputs, env)

	d := &DAG{
		outgoing: make(map[*ir.Func][]*Edge),
		incoming: make(map[*ir.Func][]*Edge),
		byFunc:   make(map[*ir.Func]*Node),
	}

	// pending holds one entry per (consumer, producer) pair with the
	// simplified, param-resolved symbolic box the consumer requires.
	// Producer Nodes may not exist yet (they're visited later in this
	// loop), so edges are created in a second pass.
	type pendingEdge struct {
		consumer *ir.Func
		producer *ir.Func
		bounds   []ir.Interval
		calls    int
	}
	var pending []pendingEdge

	for i := len(order) - 1; i >= 0; i-- {
		consumer := env[order[i]]

		if consumer.IsUpdate() {
			return nil, &ir.UserError{Message: fmt.Sprintf("function %q has an update definition, not yet supported", consumer.Name())}
		}

		node := &Node{Func: consumer}

		scope := make(ir.Scope, consumer.Dimensions())
		region := make([]ir.Interval, consumer.Dimensions())
		for dim, argName := range consumer.Args() {
			minVar := ir.V(consumer.Name() + "." + itoa(dim) + ".min")
			maxVar := ir.V(consumer.Name() + "." + itoa(dim) + ".max")
			iv := ir.Interval{Min: minVar, Max: maxVar}
			scope[argName] = iv
			region[dim] = iv
		}
		node.Region = region

		values := consumer.Values()
		leaves, calls := countLeavesAndCalls(values)
		bytesPerElement := consumer.BytesPerElement()

		node.Compute = float64(leaves) * float64(bytesPerElement)
		inlinedLeaves := leaves - consumer.Dimensions()
		if inlinedLeaves < 0 {
			inlinedLeaves = 0
		}
		node.ComputeIfInlined = float64(inlinedLeaves) * float64(bytesPerElement)
		node.Memory = float64(bytesPerElement) * params.Balance / math.Log(float64(params.LastLevelCacheBytes))

		boxes := ir.BoxesRequired(values, scope)

		var producers []*ir.Func
		for f := range boxes {
			producers = append(producers, f)
		}
		sort.Slice(producers, func(a, b int) bool { return producers[a].Name() < producers[b].Name() })

		for _, f := range producers {
			box := boxes[f]
			bounds := make([]ir.Interval, len(box.Bounds))
			for dim, iv := range box.Bounds {
				minE, err := ir.ApplyParamEstimates(iv.Min)
				if err != nil {
					return nil, err
				}
				maxE, err := ir.ApplyParamEstimates(iv.Max)
				if err != nil {
					return nil, err
				}
				bounds[dim] = ir.Interval{Min: ir.Simplify(minE), Max: ir.Simplify(maxE)}
			}
			pending = append(pending, pendingEdge{
				consumer: consumer,
				producer: f,
				bounds:   bounds,
				calls:    calls[f],
			})
		}

		d.Nodes = append(d.Nodes, node)
		d.byFunc[consumer] = node
	}

	for _, pe := range pending {
		producerNode, ok := d.byFunc[pe.producer]
		if !ok {
			// Not a pipeline function reachable from outputs; skip.
			continue
		}
		consumerNode := d.byFunc[pe.consumer]
		edge := &Edge{
			Producer: producerNode,
			Consumer: consumerNode,
			Bounds:   pe.bounds,
			Calls:    pe.calls,
		}
		d.Edges = append(d.Edges, edge)
		d.outgoing[pe.producer] = append(d.outgoing[pe.producer], edge)
		d.incoming[pe.consumer] = append(d.incoming[pe.consumer], edge)
	}

	for _, n := range d.Nodes {
		if len(d.outgoing[n.Func]) == 0 {
			for dim := range n.Region {
				if !n.Func.HasEstimate(dim) {
					return nil, &ir.UserError{Message: fmt.Sprintf("output %q is missing a bounds estimate for dimension %d", n.Func.Name(), dim)}
				}
			}
		}
	}

	return d, nil
}

// countLeavesAndCalls counts integer/variable leaves plus one addressing
// unit per call argument, and counts per-producer call occurrences.
func countLeavesAndCalls(exprs []ir.Expr) (int, map[*ir.Func]int) {
	calls := make(map[*ir.Func]int)
	var count func(e ir.Expr) int
	count = func(e ir.Expr) int {
		switch v := e.(type) {
		case ir.IntImm, ir.Var:
			return 1
		case ir.BinOp:
			return count(v.X) + count(v.Y)
		case ir.Call:
			if v.Target != nil {
				calls[v.Target]++
			}
			n := len(v.Args)
			for _, a := range v.Args {
				n += count(a)
			}
			return n
		}
		return 0
	}
	total := 0
	for _, e := range exprs {
		total += count(e)
	}
	// The values are themselves the arguments of one synthetic dummy
	// call wrapping the whole tuple; that call's own addressing units
	// count too, one per value, same as any other call's arguments.
	total += len(exprs)
	return total, calls
}

func itoa(i int) string {
	return fmt.Sprintf("%d", i)
}
