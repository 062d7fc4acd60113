package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestEps(t *testing.T) {
	values := []float64{0, 1, 2, 10, 11, 12}

	result := BestEps(values, []float64{1.5, 20}, 1)
	require.True(t, result.Found())
	assert.Equal(t, 1.5, result.Eps)
	assert.Equal(t, []int{0, 0, 0, 1, 1, 1}, result.Labels)
	assert.Greater(t, result.Score, 0.0)
	assert.InDelta(t, Silhouette(values, result.Labels), result.Score, 1e-12)
}

func TestBestEpsTiesKeepFirstCandidate(t *testing.T) {
	values := []float64{0, 10}
	candidates := []float64{3, 1, 2}

	for i := 0; i < 50; i++ {
		result := BestEps(values, candidates, 1)
		require.Equal(t, 3.0, result.Eps)
		require.Equal(t, 1.0, result.Score)
	}
}

func TestBestEpsNoPartition(t *testing.T) {
	tests := []struct {
		name       string
		values     []float64
		candidates []float64
		eps        float64
	}{
		{"single cluster everywhere", []float64{0, 0.1, 0.2}, []float64{5, 6}, 5},
		{"no values", nil, []float64{1, 2}, 1},
		{"no candidates", []float64{0, 10}, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BestEps(tt.values, tt.candidates, 1)
			assert.False(t, result.Found())
			assert.Equal(t, NoPartition, result.Score)
			assert.Equal(t, tt.eps, result.Eps)
		})
	}
}

func TestBestEpsNeverLosesToEligibleCandidate(t *testing.T) {
	values := []float64{0.10, 0.11, 0.13, 0.30, 0.31, 0.55, 0.56, 0.58, 0.90, 0.12, 0.32}
	candidates := Candidates(0.005, 0.005, 20)

	result := BestEps(values, candidates, 1)
	require.True(t, result.Found())

	for _, eps := range candidates {
		labels := DBSCAN(values, eps, 1)
		if ClusterCount(labels) < 2 {
			continue
		}
		assert.LessOrEqual(t, Silhouette(values, labels), result.Score, "eps %v", eps)
	}
}

func TestBestEpsDeterministic(t *testing.T) {
	values := []float32{0.2, 0.21, 0.5, 0.52, 0.8, 0.79, 0.2, 0.51}
	candidates := Candidates[float32](0.01, 0.01, 30)

	first := BestEps(values, candidates, 2)
	for i := 0; i < 25; i++ {
		require.Equal(t, first, BestEps(values, candidates, 2))
	}
}

func TestCandidates(t *testing.T) {
	got := Candidates(1.0, 0.5, 4)
	assert.Equal(t, []float64{1, 1.5, 2, 2.5}, got)
	assert.Empty(t, Candidates(1.0, 1.0, 0))
}
