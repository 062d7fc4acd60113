package cluster

import "sort"

// Silhouette scores a 1D labeling in [-1, 1]; higher means tighter, better
// separated clusters. Noise points are ignored. It returns 0 when fewer than
// two clusters are present. Labels past the end of values are ignored.
func Silhouette[T Number](values []T, labels []int) float64 {
	if len(labels) > len(values) {
		labels = labels[:len(values)]
	}
	members := groupByLabel(labels)
	if len(members) < 2 {
		return 0
	}

	ids := make([]int, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var sum float64
	var n int
	for i, label := range labels {
		if label == Noise {
			continue
		}

		a := meanDistance(values, i, members[label], true)

		b := 0.0
		found := false
		for _, id := range ids {
			if id == label {
				continue
			}
			d := meanDistance(values, i, members[id], false)
			if !found || d < b {
				b = d
				found = true
			}
		}

		m := a
		if b > m {
			m = b
		}
		s := 0.0
		if m > 0 {
			s = (b - a) / m
		}
		sum += s
		n++
	}

	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// meanDistance is the mean absolute distance from values[i] to the values
// at idx. With skipSelf, i is excluded and a singleton yields 0.
func meanDistance[T Number](values []T, i int, idx []int, skipSelf bool) float64 {
	var sum float64
	var n int
	for _, j := range idx {
		if skipSelf && j == i {
			continue
		}
		sum += float64(absDiff(values[i], values[j]))
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// groupByLabel maps every non-noise label to its member indices in index
// order.
func groupByLabel(labels []int) map[int][]int {
	members := make(map[int][]int)
	for i, l := range labels {
		if l == Noise {
			continue
		}
		members[l] = append(members[l], i)
	}
	return members
}
