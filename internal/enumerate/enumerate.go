// Package enumerate generates the beam search's children. Given a
// partially scheduled tree and the next function (in reverse
// realization order) that still needs a placement, it returns every
// legal way of placing it: inlined, or realized at some tree
// position, possibly tiled.
package enumerate

import (
	"github.com/xdestiny110/topdown-autosched/internal/assert"
	"github.com/xdestiny110/topdown-autosched/internal/cost"
	"github.com/xdestiny110/topdown-autosched/internal/dagbuild"
	"github.com/xdestiny110/topdown-autosched/internal/ir"
	"github.com/xdestiny110/topdown-autosched/internal/schedule"
)

// State is one node of the beam search: a complete partial schedule,
// its total cost, and how many of the DAG's functions (in reverse
// realization order) it has placed so far.
type State struct {
	Root              *schedule.Node
	Cost              float64
	NumFuncsScheduled int
}

// NewState returns the initial, empty search state.
func NewState() *State {
	return &State{Root: schedule.NewRoot()}
}

// CalculateCost prices the state's tree and subtracts the essential
// (already-committed) compute cost of every function scheduled so far,
// so that states at different search depths remain comparable: a
// state's Cost measures the redundant/remaining work implied by its
// choices, not the total work of the pipeline.
func (s *State) CalculateCost(dag *dagbuild.DAG) {
	s.Cost = cost.Total(s.Root, dag)
	for i := 0; i < s.NumFuncsScheduled; i++ {
		f := dag.Nodes[i].Func
		s.Cost -= s.Root.GetBounds(dag, f).MinCost
	}
}

// GenerateChildren returns every legal next state reachable from s by
// placing the next unscheduled function: inlining (when it has any
// consumer) and every tile-enumerated realization.
func (s *State) GenerateChildren(dag *dagbuild.DAG) []*State {
	assert.That(s.Root.IsRoot(), "GenerateChildren called on a non-root state")

	if s.NumFuncsScheduled == len(dag.Nodes) {
		return nil
	}

	f := dag.Nodes[s.NumFuncsScheduled].Func
	for _, e := range dag.OutgoingEdges(f) {
		assert.That(s.Root.Computes(e.Consumer.Func),
			"partially scheduled tree doesn't compute consumer %s of %s", e.Consumer.Func.Name(), f.Name())
	}

	var children []*State

	if len(dag.OutgoingEdges(f)) > 0 {
		child := &State{
			Root:              s.Root.InlineFunc(f, dag),
			NumFuncsScheduled: s.NumFuncsScheduled + 1,
		}
		child.CalculateCost(dag)
		assert.That(child.Root.Computes(f), "failed to inline %s", f.Name())
		children = append(children, child)
	}

	for _, n := range computeInTiles(s.Root, f, dag, nil, false) {
		child := &State{Root: n, NumFuncsScheduled: s.NumFuncsScheduled + 1}
		child.CalculateCost(dag)
		assert.That(child.Root.Computes(f), "failed to inject realization of %s", f.Name())
		children = append(children, child)
	}

	return children
}

// computeInTiles returns every way of placing f somewhere within the
// subtree rooted at n: directly inside n, or, when n is tileable,
// tiled at n with the computation sited at the outer loop or slid
// further inward, or pushed into the single child of n that already
// calls f. parent is n's enclosing node (nil only when n is the tree
// root, which is never itself tileable). inRealization is true once
// storage has already been sited further out and this call is only
// choosing where to compute, not where to store.
func computeInTiles(n *schedule.Node, f *ir.Func, dag *dagbuild.DAG, parent *schedule.Node, inRealization bool) []*schedule.Node {
	var result []*schedule.Node

	child := -1
	calledByMultiple := false
	for i, c := range n.Children {
		if c.Calls(f, dag) {
			if child != -1 {
				calledByMultiple = true
			}
			child = i
		}
	}

	{
		// Place the computation inside this loop.
		r := n.Clone()
		transplantSelfBounds(r, n, n.Func)
		leaf := r.ComputeHere(dag, f)
		r.Children = append(r.Children, leaf)
		if !inRealization {
			r.StoreAt[f] = true
		}
		result = append(result, r)
	}

	if len(dag.OutgoingEdges(f)) == 0 {
		// Can't tile outputs.
		return result
	}

	if n.Tileable {
		tilings := schedule.GenerateTilings(n.Size, len(n.Size)-1, !inRealization)

		for _, t := range tilings {
			if parent.IsRoot() {
				// Skip root-level tilings with insufficient parallelism,
				// to avoid nested parallel loops.
				total := 1
				for _, s := range t {
					total *= s
				}
				if total < 16 {
					continue
				}
			}

			outer := n.Clone()

			// The inner loop starts out as a 1x1x1... tile that inherits
			// n's former body verbatim: its children, inlining, store_at
			// set, and own bounds cache (including n's single-point
			// self-region, recorded when n was created).
			inner := &schedule.Node{
				Func:      n.Func,
				Innermost: n.Innermost,
				Tileable:  n.Tileable,
				Size:      make([]int, len(n.Size)),
				Children:  outer.Children,
				Inlined:   outer.Inlined,
				StoreAt:   outer.StoreAt,
			}
			inner.InheritBoundsCache(n)
			for i := range inner.Size {
				inner.Size[i] = 1
			}
			outer.Children = nil
			outer.Inlined = make(map[*ir.Func]int)
			outer.StoreAt = make(map[*ir.Func]bool)
			outer.Innermost = false

			if selfBounds, ok := n.PeekBounds(n.Func); ok {
				outerBounds := &schedule.Bounds{
					Region:    append([]schedule.IntInterval(nil), selfBounds.Region...),
					MinPoints: selfBounds.MinPoints,
					MinCost:   selfBounds.MinCost,
				}
				outer.SetBounds(n.Func, outerBounds)
			}

			parentBounds := parent.GetBounds(dag, n.Func)
			for i, factor := range t {
				inner.Size[i] = (outer.Size[i] + factor - 1) / factor
				outer.Size[i] = factor

				min := parentBounds.Region[i].Min
				extent := parentBounds.Region[i].Extent()
				extent = (extent + int64(factor) - 1) / int64(factor)
				if outerBounds, ok := outer.PeekBounds(n.Func); ok {
					outerBounds.Region[i] = schedule.IntInterval{Min: min, Max: min + extent - 1}
				}
			}
			outer.Children = append(outer.Children, inner)

			computeAtHere := outer.Clone()
			transplantSelfBounds(computeAtHere, outer, n.Func)
			leaf := computeAtHere.ComputeHere(dag, f)
			computeAtHere.Children = append(computeAtHere.Children, leaf)
			if !inRealization {
				computeAtHere.StoreAt[f] = true
			}
			result = append(result, computeAtHere)

			if !inRealization {
				storeAtHere := outer.Clone()
				transplantSelfBounds(storeAtHere, outer, n.Func)
				storeAtHere.StoreAt[f] = true

				for _, sub := range computeInTiles(inner, f, dag, storeAtHere, true) {
					// Once a Func is sliding over a loop, it's best not
					// to tile it again: deeper tiling analysis gets
					// confused about the relationship between the two.
					sub.Tileable = false
					replaced := storeAtHere.Clone()
					transplantSelfBounds(replaced, storeAtHere, n.Func)
					replaced.Children[len(replaced.Children)-1] = sub
					result = append(result, replaced)
				}
			}
		}
	}

	if child >= 0 && !calledByMultiple {
		for _, storeHere := range []bool{false, true} {
			if storeHere && (inRealization || n.IsRoot()) {
				// is_root: all parallel loops live at the root level, so
				// storing here would constrain parallelism.
				// in_realization: storage is already sited further out.
				continue
			}
			for _, sub := range computeInTiles(n.Children[child], f, dag, n, storeHere) {
				r := n.Clone()
				transplantSelfBounds(r, n, n.Func)
				if storeHere {
					r.StoreAt[f] = true
				}
				r.Children[child] = sub
				result = append(result, r)
			}
		}
	}

	return result
}

// transplantSelfBounds copies src's memoized bounds for f (if any) into
// dst. Used after Clone, which always starts a node with an empty
// bounds cache, to carry forward the self region a node's own Func
// requires (a single point for a fresh leaf, the tile shape for a tiled
// node): a fact local to that node that the generic bounds resolution
// algorithm has no way to rederive.
func transplantSelfBounds(dst, src *schedule.Node, f *ir.Func) {
	if b, ok := src.PeekBounds(f); ok {
		dst.SetBounds(f, b)
	}
}
