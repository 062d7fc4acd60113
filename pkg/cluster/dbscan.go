// Package cluster groups OCR coordinates along a single axis or on the page
// plane. Every function is deterministic for a fixed input order.
package cluster

// Noise is the label given to points that are not density-reachable from
// any core point.
const Noise = -1

// Number is the coordinate type accepted by the clustering functions.
type Number interface {
	~float32 | ~float64
}

// DBSCAN labels each value with a cluster id using density-based clustering
// over a single axis.
//
// Two values are neighbours when their absolute distance is at most eps. A
// value whose neighbourhood (itself included) holds at least minSamples
// values is a core point. Clusters grow from core points through their
// neighbours; border points take the label of the first cluster that
// reaches them. Cluster ids start at 0 and are handed out in the order the
// clusters are discovered while scanning values by index.
func DBSCAN[T Number](values []T, eps T, minSamples int) []int {
	labels := make([]int, len(values))
	if len(values) == 0 {
		return labels
	}
	if minSamples < 1 {
		minSamples = 1
	}

	for i := range labels {
		labels[i] = Noise
	}
	visited := make([]bool, len(values))
	next := 0

	for i := range values {
		if visited[i] {
			continue
		}
		visited[i] = true

		neighbours := regionQuery(values, i, eps)
		if len(neighbours) < minSamples {
			continue
		}

		id := next
		next++
		labels[i] = id

		queue := neighbours
		for k := 0; k < len(queue); k++ {
			j := queue[k]
			if !visited[j] {
				visited[j] = true
				more := regionQuery(values, j, eps)
				if len(more) >= minSamples {
					queue = append(queue, more...)
				}
			}
			if labels[j] == Noise {
				labels[j] = id
			}
		}
	}

	return labels
}

// regionQuery returns the indices within eps of values[i], in index order.
func regionQuery[T Number](values []T, i int, eps T) []int {
	var out []int
	for j, v := range values {
		if absDiff(values[i], v) <= eps {
			out = append(out, j)
		}
	}
	return out
}

func absDiff[T Number](a, b T) T {
	if a > b {
		return a - b
	}
	return b - a
}

// ClusterCount returns the number of distinct non-noise labels.
func ClusterCount(labels []int) int {
	seen := make(map[int]struct{})
	for _, l := range labels {
		if l != Noise {
			seen[l] = struct{}{}
		}
	}
	return len(seen)
}
