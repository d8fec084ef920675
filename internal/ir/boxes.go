package ir

// Box is the symbolic region required of one producer Func, one
// Interval per dimension, in the order the producer is called with.
type Box struct {
	Target *Func
	Bounds []Interval
}

// BoxesRequired walks every expression in exprs and, for every call to a
// pipeline Func (Target != nil), accumulates the union of the required
// region across every call site. This is a genuine union, unlike the
// narrower per-dimension min/min combination the bounds propagator
// performs across different consumers in schedule.GetBounds.
func BoxesRequired(exprs []Expr, scope Scope) map[*Func]*Box {
	boxes := make(map[*Func]*Box)
	for _, e := range exprs {
		walkCalls(e, func(c Call) {
			if c.Target == nil {
				return
			}
			bounds := make([]Interval, len(c.Args))
			for i, a := range c.Args {
				bounds[i] = boundsOf(a, scope)
			}
			box, ok := boxes[c.Target]
			if !ok {
				boxes[c.Target] = &Box{Target: c.Target, Bounds: bounds}
				return
			}
			for i := range bounds {
				box.Bounds[i] = Interval{
					Min: MinE(box.Bounds[i].Min, bounds[i].Min),
					Max: MaxE(box.Bounds[i].Max, bounds[i].Max),
				}
			}
		})
	}
	return boxes
}
