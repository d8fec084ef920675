package main

import (
	"fmt"

	"github.com/xdestiny110/topdown-autosched/internal/ir"
)

// PointwisePipeline: in a purely pointwise pipeline, everything should
// fuse into a single loop nest.
func PointwisePipeline() []*ir.Func {
	x, y := ir.V("x"), ir.V("y")

	f := ir.NewFunc("f", "x", "y")
	f.Define(32, ir.Mul(ir.Add(x, y), ir.Add(x, y)))

	g := ir.NewFunc("g", "x", "y")
	g.Define(32, ir.Add(ir.Mul(f.Call(x, y), ir.I(2)), ir.I(1)))

	h := ir.NewFunc("h", "x", "y")
	h.Define(32, ir.Add(ir.Mul(g.Call(x, y), ir.I(2)), ir.I(1)))
	h.Estimate(0, 0, 1000).Estimate(1, 0, 1000)

	return []*ir.Func{h}
}

// ExpensiveStencilPipeline: huge expensive stencils with cheap memory
// (see the "expensive-stencil-separation" scenario's machine params)
// should see nothing fused; every point costs far more to recompute
// than to store and reload.
func ExpensiveStencilPipeline() []*ir.Func {
	x, y := ir.V("x"), ir.V("y")

	f := ir.NewFunc("f", "x", "y")
	f.Define(32, ir.Mul(ir.Mul(ir.Mul(ir.Mul(
		ir.Add(x, y),
		ir.Add(x, ir.Mul(ir.I(2), y))),
		ir.Add(x, ir.Mul(ir.I(3), y))),
		ir.Add(x, ir.Mul(ir.I(4), y))),
		ir.Add(x, ir.Mul(ir.I(5), y))))

	g := ir.NewFunc("g", "x", "y")
	g.Define(32, sumOfShiftedCalls(f, x, y, 100, 10))

	h := ir.NewFunc("h", "x", "y")
	h.Define(32, sumOfShiftedCalls(g, x, y, 100, 10))
	h.Estimate(0, 0, 1000).Estimate(1, 0, 1000)

	return []*ir.Func{h}
}

// sumOfShiftedCalls builds the sum of n calls to src at
// (x+i*stride, y+i*stride) for i in [0, n).
func sumOfShiftedCalls(src *ir.Func, x, y ir.Expr, n, stride int) ir.Expr {
	var e ir.Expr = ir.I(0)
	for i := 0; i < n; i++ {
		shift := ir.I(int64(i * stride))
		e = ir.Add(e, src.Call(ir.Add(x, shift), ir.Add(y, shift)))
	}
	return e
}

// isotropicStencilFunc is the shared producer for the two tiling
// scenarios below: a three-term polynomial in x and y.
func isotropicStencilFunc() *ir.Func {
	x, y := ir.V("x"), ir.V("y")
	f := ir.NewFunc("f", "x", "y")
	f.Define(32, ir.Mul(ir.Mul(
		ir.Add(x, y),
		ir.Add(x, ir.Mul(ir.I(2), y))),
		ir.Add(x, ir.Mul(ir.I(3), y))))
	return f
}

// IsotropicStencilPipeline: a moderate, isotropic (symmetric in x and
// y) stencil footprint should lead the search toward roughly square
// tiles.
func IsotropicStencilPipeline() []*ir.Func {
	x, y := ir.V("x"), ir.V("y")
	f := isotropicStencilFunc()

	h := ir.NewFunc("h", "x", "y")
	h.Define(32, ir.Add(ir.Add(ir.Add(
		f.Call(ir.Sub(x, ir.I(9)), ir.Sub(y, ir.I(9))),
		f.Call(ir.Add(x, ir.I(9)), ir.Add(y, ir.I(9)))),
		f.Call(ir.Sub(x, ir.I(9)), ir.Add(y, ir.I(9)))),
		f.Call(ir.Add(x, ir.I(9)), ir.Sub(y, ir.I(9)))))
	h.Estimate(0, 0, 2048).Estimate(1, 0, 2048)

	return []*ir.Func{h}
}

// SmallFootprintStencilPipeline: the same producer with a much smaller
// footprint should lead the search toward much smaller tiles than
// IsotropicStencilPipeline.
func SmallFootprintStencilPipeline() []*ir.Func {
	x, y := ir.V("x"), ir.V("y")
	f := isotropicStencilFunc()

	h := ir.NewFunc("h", "x", "y")
	h.Define(32, ir.Add(ir.Add(ir.Add(
		f.Call(x, y),
		f.Call(ir.Add(x, ir.I(1)), ir.Add(y, ir.I(1)))),
		f.Call(x, ir.Add(y, ir.I(1)))),
		f.Call(ir.Add(x, ir.I(1)), y)))
	h.Estimate(0, 0, 2048).Estimate(1, 0, 2048)

	return []*ir.Func{h}
}

// StencilChainPipeline is a deep chain of 5x5-stencil producers, each
// consuming the previous one.
func StencilChainPipeline() []*ir.Func {
	const depth = 8
	x, y := ir.V("x"), ir.V("y")

	funcs := make([]*ir.Func, depth)
	funcs[0] = ir.NewFunc("f0", "x", "y")
	funcs[0].Define(32, ir.Mul(ir.Mul(
		ir.Add(x, y),
		ir.Add(x, ir.Mul(ir.I(2), y))),
		ir.Add(x, ir.Mul(ir.I(3), y))))

	for i := 1; i < depth; i++ {
		prev := funcs[i-1]
		var e ir.Expr = ir.I(0)
		for dy := -2; dy <= 2; dy++ {
			for dx := -2; dx <= 2; dx++ {
				e = ir.Add(e, prev.Call(ir.Add(x, ir.I(int64(dx))), ir.Add(y, ir.I(int64(dy)))))
			}
		}
		funcs[i] = ir.NewFunc(fmt.Sprintf("f%d", i), "x", "y")
		funcs[i].Define(32, e)
	}

	last := funcs[depth-1]
	last.Estimate(0, 0, 2048).Estimate(1, 0, 2048)

	return []*ir.Func{last}
}
