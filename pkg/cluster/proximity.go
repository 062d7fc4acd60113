package cluster

import "math"

// Point is a position on the page plane.
type Point[T Number] struct {
	X, Y T
}

// Distance returns the Euclidean distance between p and q.
func (p Point[T]) Distance(q Point[T]) float64 {
	dx := float64(p.X - q.X)
	dy := float64(p.Y - q.Y)
	return math.Hypot(dx, dy)
}

// GroupByRadius partitions points in a single pass. Each unassigned point
// seeds a new group that takes every later unassigned point within radius
// of the seed. Membership is not transitive: a point close only to a
// non-seed member starts its own group. Groups hold input indices in
// ascending order.
func GroupByRadius[T Number](points []Point[T], radius T) [][]int {
	assigned := make([]bool, len(points))
	var groups [][]int

	for i, seed := range points {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		group := []int{i}

		for j := i + 1; j < len(points); j++ {
			if assigned[j] {
				continue
			}
			if seed.Distance(points[j]) <= float64(radius) {
				assigned[j] = true
				group = append(group, j)
			}
		}
		groups = append(groups, group)
	}

	return groups
}
