package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLabels(t *testing.T) {
	tests := []struct {
		name     string
		labels   []int
		expected map[int]int
	}{
		{"empty", nil, map[int]int{}},
		{"already dense", []int{0, 1, 1, 2}, map[int]int{0: 0, 1: 1, 2: 2}},
		{"sparse with noise", []int{5, Noise, 3, 5}, map[int]int{Noise: 0, 3: 1, 5: 2}},
		{"single label", []int{7, 7}, map[int]int{7: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeLabels(tt.labels))
		})
	}
}

func TestNormalizeLabelsCoversDenseRange(t *testing.T) {
	labels := []int{42, 9, Noise, 9, 100, 42, 3}
	mapping := NormalizeLabels(labels)

	image := make(map[int]bool)
	for _, v := range mapping {
		image[v] = true
	}
	assert.Len(t, image, 5)
	for i := 0; i < 5; i++ {
		assert.True(t, image[i], "missing %d", i)
	}
}

func TestRelabel(t *testing.T) {
	labels := []int{5, Noise, 3, 5}
	out := Relabel(labels, NormalizeLabels(labels))
	assert.Equal(t, []int{2, 0, 1, 2}, out)
	assert.Equal(t, []int{5, Noise, 3, 5}, labels)

	assert.Equal(t, []int{1, 9}, Relabel([]int{0, 9}, map[int]int{0: 1}))
}
