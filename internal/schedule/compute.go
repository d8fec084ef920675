package schedule

import (
	"github.com/xdestiny110/topdown-autosched/internal/dagbuild"
	"github.com/xdestiny110/topdown-autosched/internal/ir"
)

// ComputeHere returns a fresh innermost, tileable leaf that computes f,
// sized to the region n requires of it. n is the node f will be placed
// inside (its bounds are the authority on the required region); the
// caller appends the result to whichever tree position it belongs.
func (n *Node) ComputeHere(dag *dagbuild.DAG, f *ir.Func) *Node {
	bounds := n.GetBounds(dag, f)
	node := dag.NodeOf(f)

	leaf := &Node{
		Func:      f,
		Innermost: true,
		Tileable:  true,
		Size:      make([]int, f.Dimensions()),
		Inlined:   make(map[*ir.Func]int),
		StoreAt:   make(map[*ir.Func]bool),
		bounds:    make(map[*ir.Func]*Bounds),
	}
	region := make([]IntInterval, f.Dimensions())
	for i, iv := range bounds.Region {
		leaf.Size[i] = int(iv.Extent())
		region[i] = IntInterval{Min: iv.Min, Max: iv.Min}
	}
	leaf.bounds[f] = &Bounds{Region: region, MinPoints: 1, MinCost: node.Compute}
	return leaf
}

// Calls reports whether f is called anywhere under n: directly by one
// of n's children, or inlined into n itself.
func (n *Node) Calls(f *ir.Func, dag *dagbuild.DAG) bool {
	for _, c := range n.Children {
		if c.Calls(f, dag) {
			return true
		}
	}
	for _, e := range dag.OutgoingEdges(f) {
		if e.Consumer.Func == n.Func {
			return true
		}
		if n.Inlined[e.Consumer.Func] > 0 {
			return true
		}
	}
	return false
}

// Computes reports whether f is computed (directly or inlined)
// anywhere at or below n.
func (n *Node) Computes(f *ir.Func) bool {
	if !n.IsRoot() && n.Func == f {
		return true
	}
	if n.Inlined[f] > 0 {
		return true
	}
	for _, c := range n.Children {
		if c.Computes(f) {
			return true
		}
	}
	return false
}

// InlineFunc returns a copy of the tree rooted at n with f inlined
// everywhere it's called.
func (n *Node) InlineFunc(f *ir.Func, dag *dagbuild.DAG) *Node {
	result := n.Clone()
	if b, ok := n.bounds[n.Func]; ok && !n.IsRoot() {
		result.bounds[n.Func] = b
	}

	for i, c := range n.Children {
		if c.Calls(f, dag) {
			result.Children[i] = c.InlineFunc(f, dag)
		}
	}

	if n.Innermost {
		var calls int
		for _, e := range dag.OutgoingEdges(f) {
			if n.Inlined[e.Consumer.Func] > 0 {
				calls += n.Inlined[e.Consumer.Func] * e.Calls
			}
			if e.Consumer.Func == n.Func {
				calls += e.Calls
			}
		}
		if calls > 0 {
			result.Inlined[f] = calls
		}
	}

	return result
}
