// Package schedule implements the partial-schedule tree and the bounds
// propagator that resolves the region each function requires under it.
package schedule

import (
	"sort"
	"strconv"
	"strings"

	"github.com/xdestiny110/topdown-autosched/internal/ir"
)

// Node is one node of a partial schedule tree: the loop nest under
// construction for one function, or the root sentinel (Func == nil).
//
// Trees are value-typed and structurally shared: a successor schedule
// built by the child enumerator reuses every subtree it did not touch by
// sharing *Node pointers, and only allocates fresh Nodes along the path
// it modified (copy-on-write). No Node is ever mutated after another
// Node's Children slice has come to reference it.
type Node struct {
	Func      *ir.Func
	Innermost bool
	Tileable  bool
	Size      []int
	Children  []*Node

	// Inlined maps a function to its per-point call count, meaningful
	// only when Innermost is true.
	Inlined map[*ir.Func]int
	// StoreAt is the set of functions whose storage is allocated at this
	// loop level.
	StoreAt map[*ir.Func]bool

	bounds map[*ir.Func]*Bounds
}

// Bounds is the memoized result of GetBounds for one function at one
// tree node.
type Bounds struct {
	Region    []IntInterval
	MinPoints int64
	MinCost   float64
}

// IntInterval is a fully-resolved (no free variables) integer range,
// inclusive on both ends.
type IntInterval struct {
	Min, Max int64
}

func (iv IntInterval) Extent() int64 { return iv.Max - iv.Min + 1 }

// NewRoot creates the root sentinel of a schedule tree.
func NewRoot() *Node {
	return &Node{
		Inlined: make(map[*ir.Func]int),
		StoreAt: make(map[*ir.Func]bool),
		bounds:  make(map[*ir.Func]*Bounds),
	}
}

// IsRoot reports whether this node is the root sentinel.
func (n *Node) IsRoot() bool { return n.Func == nil }

// PeekBounds returns f's memoized bounds at n without computing them,
// for callers (the tile decomposer) that need to read or transplant an
// already-resolved cache entry rather than trigger GetBounds' own
// resolution algorithm.
func (n *Node) PeekBounds(f *ir.Func) (*Bounds, bool) {
	b, ok := n.bounds[f]
	return b, ok
}

// SetBounds primes n's memoized bounds for f. Used by the tile
// decomposer: once a loop is split into an outer/inner pair, the
// outer node's region for its own Func no longer matches what the
// generic resolution algorithm would derive (there is no DAG edge
// describing "a node's own tile shape"), so it must be seeded
// directly instead of computed.
func (n *Node) SetBounds(f *ir.Func, b *Bounds) {
	n.bounds[f] = b
}

// InheritBoundsCache gives n a copy of src's whole memoized-bounds map.
// The inner half of a freshly split tile inherits everything src had
// already resolved (its children, inlining and store_at sets came along
// verbatim too), mirroring the reference implementation's std::swap of
// the two nodes' bound caches: the resolved facts follow whichever node
// keeps src's former body, not whichever node keeps src's name. A copy,
// not a shared map, because each tiling candidate must accumulate its
// own bounds independently; the *Bounds values themselves are safe to
// share since they're never mutated after being recorded, except for
// the single freshly-allocated entry the caller primes separately.
func (n *Node) InheritBoundsCache(src *Node) {
	n.bounds = make(map[*ir.Func]*Bounds, len(src.bounds))
	for f, b := range src.bounds {
		n.bounds[f] = b
	}
}

// Clone returns a shallow copy of n suitable as the starting point for a
// copy-on-write modification: its Inlined and StoreAt maps are copied
// (since a successor mutates them independently), its bounds cache
// starts empty, and Children and their subtrees are shared until a
// specific child is itself replaced.
func (n *Node) Clone() *Node {
	c := &Node{
		Func:      n.Func,
		Innermost: n.Innermost,
		Tileable:  n.Tileable,
		Size:      append([]int(nil), n.Size...),
		Children:  append([]*Node(nil), n.Children...),
		Inlined:   make(map[*ir.Func]int, len(n.Inlined)),
		StoreAt:   make(map[*ir.Func]bool, len(n.StoreAt)),
		bounds:    make(map[*ir.Func]*Bounds),
	}
	for f, n := range n.Inlined {
		c.Inlined[f] = n
	}
	for f := range n.StoreAt {
		c.StoreAt[f] = true
	}
	return c
}

// References reports whether f is computed at this single node, either
// as the node's own Func or through its Inlined map; its children are
// not consulted.
func (n *Node) References(f *ir.Func) bool {
	if n.Func == f {
		return true
	}
	return n.Inlined[f] > 0
}

// Walk visits n and every descendant in pre-order. Stop visiting a
// subtree by having visit return false for its root.
func (n *Node) Walk(visit func(*Node) bool) {
	if !visit(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(visit)
	}
}

// sortedFuncs returns the keys of a func-keyed set/map sorted by name,
// for deterministic iteration wherever Go's map order would otherwise
// leak into the search.
func sortedFuncs[V any](m map[*ir.Func]V) []*ir.Func {
	fs := make([]*ir.Func, 0, len(m))
	for f := range m {
		fs = append(fs, f)
	}
	sort.Slice(fs, func(i, j int) bool { return fs[i].Name() < fs[j].Name() })
	return fs
}

func (n *Node) String() string {
	var b strings.Builder
	n.write(&b, 0)
	return b.String()
}

func (n *Node) write(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	name := "root"
	if n.Func != nil {
		name = n.Func.Name()
	}
	b.WriteString(indent + name)
	if n.Innermost {
		b.WriteString(" [innermost]")
	}
	if len(n.Size) > 0 {
		b.WriteString(" size=")
		for i, s := range n.Size {
			if i > 0 {
				b.WriteString("x")
			}
			b.WriteString(strconv.Itoa(s))
		}
	}
	for _, f := range sortedFuncs(n.StoreAt) {
		b.WriteString(" store_at(" + f.Name() + ")")
	}
	for _, f := range sortedFuncs(n.Inlined) {
		b.WriteString(" inline(" + f.Name() + "x" + strconv.Itoa(n.Inlined[f]) + ")")
	}
	b.WriteString("\n")
	for _, c := range n.Children {
		c.write(b, depth+1)
	}
}
