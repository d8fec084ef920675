// Package ir is a narrow stand-in for the host compiler's IR, bounds
// inference, simplifier, and substitution engine, treating all of those
// as external collaborators with narrow contracts; this package
// implements just enough of them to build and schedule real pipelines,
// never a general-purpose compiler front end.
package ir

import "fmt"

// Expr is a node in the minimal arithmetic expression tree used to
// describe a Func's values and a call's arguments.
type Expr interface {
	fmt.Stringer
	isExpr()
}

// IntImm is an integer literal leaf.
type IntImm struct{ Value int64 }

func (IntImm) isExpr() {}
func (v IntImm) String() string { return fmt.Sprintf("%d", v.Value) }

// Var is a named variable reference: a loop argument (x, y, ...), a
// symbolic region bound ("h.0.min"), or a reference into a Param.
type Var struct {
	Name  string
	Param *Param // non-nil if this variable denotes a parameter access
	Field string // "", "min", "extent": which Param accessor to use
	Index int    // dimension index for "min"/"extent" fields
}

func (Var) isExpr()        {}
func (v Var) String() string { return v.Name }

// BinOp is a binary arithmetic or min/max node. Op is one of
// "+", "-", "*", "max", "min".
type BinOp struct {
	Op   string
	X, Y Expr
}

func (BinOp) isExpr() {}
func (b BinOp) String() string {
	if b.Op == "max" || b.Op == "min" {
		return fmt.Sprintf("%s(%s, %s)", b.Op, b.X, b.Y)
	}
	return fmt.Sprintf("(%s %s %s)", b.X, b.Op, b.Y)
}

// Call reads a value at Args from another Func (Target != nil) or from
// an external input image (Target == nil, identified by Input).
type Call struct {
	Target *Func
	Input  string
	Args   []Expr
}

func (Call) isExpr() {}
func (c Call) String() string {
	name := c.Input
	if c.Target != nil {
		name = c.Target.Name()
	}
	return fmt.Sprintf("%s%v", name, c.Args)
}

// Convenience constructors mirroring the arithmetic the reference
// pipelines are built from.
func V(name string) Expr       { return Var{Name: name} }
func I(v int64) Expr           { return IntImm{Value: v} }
func Add(a, b Expr) Expr       { return BinOp{Op: "+", X: a, Y: b} }
func Sub(a, b Expr) Expr       { return BinOp{Op: "-", X: a, Y: b} }
func Mul(a, b Expr) Expr       { return BinOp{Op: "*", X: a, Y: b} }
func MaxE(a, b Expr) Expr      { return BinOp{Op: "max", X: a, Y: b} }
func MinE(a, b Expr) Expr      { return BinOp{Op: "min", X: a, Y: b} }

// walkCalls invokes visit on every Call reachable from e, including
// calls nested inside other calls' arguments.
func walkCalls(e Expr, visit func(Call)) {
	switch v := e.(type) {
	case Call:
		visit(v)
		for _, a := range v.Args {
			walkCalls(a, visit)
		}
	case BinOp:
		walkCalls(v.X, visit)
		walkCalls(v.Y, visit)
	case IntImm, Var:
		// leaves, nothing to recurse into
	}
}
