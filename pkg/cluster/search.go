package cluster

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// NoPartition is the score reported by BestEps when no candidate radius
// splits the values into at least two clusters. Callers should not trust the
// labels in that case and fall back to a simpler grouping.
const NoPartition = -1.0

// Result is the outcome of clustering one axis.
type Result[T Number] struct {
	Eps    T
	Labels []int
	Score  float64
}

// Found reports whether the search produced a usable partition.
func (r Result[T]) Found() bool {
	return r.Score != NoPartition
}

// BestEps runs DBSCAN for every candidate radius and keeps the one with the
// highest silhouette score. Candidates producing fewer than two clusters are
// skipped. Ties go to the earliest candidate in the list. When no candidate
// qualifies the first candidate is returned with score NoPartition.
//
// Candidates are evaluated on a bounded pool of goroutines; the result does
// not depend on the order in which they finish.
func BestEps[T Number](values, candidates []T, minSamples int) Result[T] {
	if len(candidates) == 0 {
		return Result[T]{Score: NoPartition}
	}

	var (
		mu        sync.Mutex
		best      = -1
		bestScore float64
		runs      = make([][]int, len(candidates))
	)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, eps := range candidates {
		g.Go(func() error {
			labels := DBSCAN(values, eps, minSamples)
			runs[i] = labels
			if ClusterCount(labels) < 2 {
				return nil
			}
			score := Silhouette(values, labels)

			mu.Lock()
			defer mu.Unlock()
			if best < 0 || score > bestScore || (score == bestScore && i < best) {
				best = i
				bestScore = score
			}
			return nil
		})
	}
	_ = g.Wait()

	if best < 0 {
		return Result[T]{Eps: candidates[0], Labels: runs[0], Score: NoPartition}
	}
	return Result[T]{Eps: candidates[best], Labels: runs[best], Score: bestScore}
}

// Candidates returns n radii start, start+step, start+2*step, ...
func Candidates[T Number](start, step T, n int) []T {
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, start+T(i)*step)
	}
	return out
}
