package ir

// AsConstInt returns the integer value of e if it reduces to a literal.
func AsConstInt(e Expr) (int64, bool) {
	switch v := Simplify(e).(type) {
	case IntImm:
		return v.Value, true
	}
	return 0, false
}

// Simplify performs constant folding and the handful of algebraic
// identities (x+0, x*1, x*0) needed to collapse the affine expressions
// this IR produces down to literals once every variable has been
// resolved.
func Simplify(e Expr) Expr {
	switch v := e.(type) {
	case IntImm, Var:
		return v
	case BinOp:
		x := Simplify(v.X)
		y := Simplify(v.Y)
		xi, xok := x.(IntImm)
		yi, yok := y.(IntImm)
		if xok && yok {
			switch v.Op {
			case "+":
				return IntImm{xi.Value + yi.Value}
			case "-":
				return IntImm{xi.Value - yi.Value}
			case "*":
				return IntImm{xi.Value * yi.Value}
			case "max":
				if xi.Value > yi.Value {
					return xi
				}
				return yi
			case "min":
				if xi.Value < yi.Value {
					return xi
				}
				return yi
			}
		}
		switch v.Op {
		case "+":
			if xok && xi.Value == 0 {
				return y
			}
			if yok && yi.Value == 0 {
				return x
			}
		case "-":
			if yok && yi.Value == 0 {
				return x
			}
		case "*":
			if xok && xi.Value == 1 {
				return y
			}
			if yok && yi.Value == 1 {
				return x
			}
			if (xok && xi.Value == 0) || (yok && yi.Value == 0) {
				return IntImm{0}
			}
		}
		return BinOp{Op: v.Op, X: x, Y: y}
	case Call:
		args := make([]Expr, len(v.Args))
		for i, a := range v.Args {
			args[i] = Simplify(a)
		}
		return Call{Target: v.Target, Input: v.Input, Args: args}
	}
	return e
}

// Substitute replaces every Var whose Name matches a key in repl with
// its mapped expression, used to plug a consumer's concrete integer
// bounds into a producer edge's symbolic region.
func Substitute(repl map[string]Expr, e Expr) Expr {
	switch v := e.(type) {
	case IntImm:
		return v
	case Var:
		if r, ok := repl[v.Name]; ok {
			return r
		}
		return v
	case BinOp:
		return BinOp{Op: v.Op, X: Substitute(repl, v.X), Y: Substitute(repl, v.Y)}
	case Call:
		args := make([]Expr, len(v.Args))
		for i, a := range v.Args {
			args[i] = Substitute(repl, a)
		}
		return Call{Target: v.Target, Input: v.Input, Args: args}
	}
	return e
}

// ApplyParamEstimates resolves every Var tied to a Param into its
// concrete estimate. Returns a UserError if an encountered parameter
// has no estimate.
func ApplyParamEstimates(e Expr) (Expr, error) {
	switch v := e.(type) {
	case IntImm:
		return v, nil
	case Var:
		if v.Param == nil {
			return v, nil
		}
		switch v.Field {
		case "scalar":
			val, ok := v.Param.GetEstimate()
			if !ok {
				return nil, &UserError{Message: "missing estimate for scalar parameter " + v.Param.Name()}
			}
			return IntImm{val}, nil
		case "min":
			val, ok := v.Param.MinConstraintEstimate(v.Index)
			if !ok {
				return nil, &UserError{Message: "missing min-constraint estimate for parameter " + v.Param.Name()}
			}
			return IntImm{val}, nil
		case "extent":
			val, ok := v.Param.ExtentConstraintEstimate(v.Index)
			if !ok {
				return nil, &UserError{Message: "missing extent-constraint estimate for parameter " + v.Param.Name()}
			}
			return IntImm{val}, nil
		}
		return v, nil
	case BinOp:
		x, err := ApplyParamEstimates(v.X)
		if err != nil {
			return nil, err
		}
		y, err := ApplyParamEstimates(v.Y)
		if err != nil {
			return nil, err
		}
		return BinOp{Op: v.Op, X: x, Y: y}, nil
	case Call:
		args := make([]Expr, len(v.Args))
		for i, a := range v.Args {
			r, err := ApplyParamEstimates(a)
			if err != nil {
				return nil, err
			}
			args[i] = r
		}
		return Call{Target: v.Target, Input: v.Input, Args: args}, nil
	}
	return e, nil
}
