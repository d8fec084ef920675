// Package beam implements the bounded-width best-first search that
// drives scheduling. A frontier of partial schedules is expanded
// function-by-function; after each round the frontier is trimmed to a
// fixed width, keeping only the cheapest candidates, until one
// candidate has placed every function.
package beam

import (
	"container/heap"
	"time"

	"github.com/xdestiny110/topdown-autosched/internal/assert"
	"github.com/xdestiny110/topdown-autosched/internal/dagbuild"
	"github.com/xdestiny110/topdown-autosched/internal/enumerate"
	"github.com/xdestiny110/topdown-autosched/internal/logx"
)

// item is one entry of the priority frontier: a candidate state plus
// its insertion sequence, used only to break cost ties deterministically
// (earlier-inserted candidates win ties).
type item struct {
	state *enumerate.State
	seq   int64
}

// frontier is a min-heap ordered by (cost, seq).
type frontier []*item

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].state.Cost != f[j].state.Cost {
		return f[i].state.Cost < f[j].state.Cost
	}
	return f[i].seq < f[j].seq
}
func (f frontier) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x any)        { *f = append(*f, x.(*item)) }
func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	it := old[n-1]
	*f = old[:n-1]
	return it
}

// Search runs a single fixed-width beam search to completion and
// returns the lowest-cost complete schedule found. showProgress drives
// a live progress bar, updated every 1024 expansions.
func Search(dag *dagbuild.DAG, beamSize int, showProgress bool) *enumerate.State {
	assert.That(beamSize > 0, "beam size must be positive, got %d", beamSize)

	var progress *logx.Progress
	if showProgress {
		progress = logx.NewProgress(len(dag.Nodes), "beam search")
		defer progress.Stop()
	}

	initial := enumerate.NewState()
	initial.CalculateCost(dag)

	var seq int64
	q := frontier{&item{state: initial, seq: seq}}
	heap.Init(&q)

	var counter uint32

	for {
		if q.Len() > beamSize {
			trimmed := make(frontier, 0, beamSize)
			for i := 0; i < beamSize; i++ {
				trimmed = append(trimmed, heap.Pop(&q).(*item))
			}
			heap.Init(&trimmed)
			q = trimmed
		}

		pending := q
		heap.Init(&pending)
		q = frontier{}

		for pending.Len() > 0 {
			it := heap.Pop(&pending).(*item)
			state := it.state

			if state.NumFuncsScheduled == len(dag.Nodes) {
				return state
			}

			for _, child := range state.GenerateChildren(dag) {
				counter++
				if progress != nil && counter&1023 == 0 {
					progress.SetCurrent(child.NumFuncsScheduled)
				}
				seq++
				heap.Push(&q, &item{state: child, seq: seq})
			}
		}
	}
}

// SearchWithTimeLimit repeatedly doubles the beam width (1, 2, 4, ...),
// re-running Search at each width, for up to half of limit, matching
// the reference scheduler's time-budgeted mode, which reserves the
// other half for materialization and downstream compilation. The
// lowest-cost schedule seen across widths is returned; width 1 is
// always accepted as the initial baseline.
func SearchWithTimeLimit(dag *dagbuild.DAG, limit time.Duration) *enumerate.State {
	start := time.Now()
	var best *enumerate.State

	for beamSize := 1; ; beamSize *= 2 {
		candidate := Search(dag, beamSize, false)
		if best == nil || candidate.Cost < best.Cost {
			best = candidate
		}
		if time.Since(start) > limit/2 {
			break
		}
	}

	return best
}
