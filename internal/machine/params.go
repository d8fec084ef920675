// Package machine carries the machine-parameter triple threaded through
// DAG construction, the cost model, and schedule materialization.
package machine

// Params describes the target machine the schedule search optimizes for.
type Params struct {
	Parallelism         int
	LastLevelCacheBytes int64
	Balance             float64
}

// Default returns the self-test machine params: 8 cores, 16 MiB
// last-level cache, balance 100.
func Default() Params {
	return Params{
		Parallelism:         8,
		LastLevelCacheBytes: 16 * 1024 * 1024,
		Balance:             100,
	}
}
