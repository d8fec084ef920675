package ir

// PopulateEnvironment computes the transitive closure of Funcs reachable
// from outputs, keyed by name.
func PopulateEnvironment(outputs ...*Func) map[string]*Func {
	env := make(map[string]*Func)
	var visit func(f *Func)
	visit = func(f *Func) {
		if _, seen := env[f.Name()]; seen {
			return
		}
		env[f.Name()] = f
		for _, v := range f.Values() {
			walkCalls(v, func(c Call) {
				if c.Target != nil {
					visit(c.Target)
				}
			})
		}
	}
	for _, o := range outputs {
		visit(o)
	}
	return env
}

// RealizationOrder returns a topological order (producers before
// consumers) over env restricted to what is reachable from outputs.
func RealizationOrder(outputs []*Func, env map[string]*Func) []string {
	visited := make(map[string]bool)
	var order []string

	var visit func(f *Func)
	visit = func(f *Func) {
		if visited[f.Name()] {
			return
		}
		visited[f.Name()] = true
		for _, v := range f.Values() {
			walkCalls(v, func(c Call) {
				if c.Target != nil {
					visit(c.Target)
				}
			})
		}
		order = append(order, f.Name())
	}

	for _, o := range outputs {
		visit(env[o.Name()])
	}
	return order
}
