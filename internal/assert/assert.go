// Package assert checks internal invariants: conditions that, if
// false, indicate a bug in the scheduler itself rather than a problem
// with the user's pipeline. They panic immediately, with no retry and
// no recovery.
package assert

import "fmt"

// Invariant is the panic value raised by That.
type Invariant struct {
	Message string
}

func (i *Invariant) Error() string { return i.Message }

// That panics with a formatted Invariant if cond is false.
func That(cond bool, format string, args ...any) {
	if !cond {
		panic(&Invariant{Message: fmt.Sprintf(format, args...)})
	}
}
