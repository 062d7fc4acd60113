package cluster

import "sort"

// NormalizeLabels maps each distinct label (noise included) to a dense id in
// 0..k-1, assigned in ascending order of the original label.
func NormalizeLabels(labels []int) map[int]int {
	seen := make(map[int]struct{})
	for _, l := range labels {
		seen[l] = struct{}{}
	}

	distinct := make([]int, 0, len(seen))
	for l := range seen {
		distinct = append(distinct, l)
	}
	sort.Ints(distinct)

	mapping := make(map[int]int, len(distinct))
	for i, l := range distinct {
		mapping[l] = i
	}
	return mapping
}

// Relabel returns a copy of labels rewritten through mapping. Labels missing
// from mapping are kept as is.
func Relabel(labels []int, mapping map[int]int) []int {
	out := make([]int, len(labels))
	for i, l := range labels {
		if m, ok := mapping[l]; ok {
			out[i] = m
			continue
		}
		out[i] = l
	}
	return out
}
