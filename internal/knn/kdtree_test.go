package knn

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestKDTreeAgreesWithBruteForce checks that the search strategy has no
// effect on predictions across leaf sizes and distance powers.
func TestKDTreeAgreesWithBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	const n, dims = 300, 5

	x := make([][]float64, n)
	y := make([]string, n)
	parties := []string{"Democrat", "Republican", "Libertarian"}
	for i := range x {
		row := make([]float64, dims)
		for d := range row {
			row[d] = r.Float64() * 100
		}
		x[i] = row
		y[i] = parties[i%len(parties)]
	}

	queries := make([][]float64, 50)
	for i := range queries {
		q := make([]float64, dims)
		for d := range q {
			q[d] = r.Float64() * 100
		}
		queries[i] = q
	}

	for _, power := range []float64{1, 2} {
		for _, leafSize := range []int{1, 10, 50} {
			for _, k := range []int{1, 5, 13} {
				name := fmt.Sprintf("p=%v_leaf=%d_k=%d", power, leafSize, k)
				t.Run(name, func(t *testing.T) {
					brute, err := NewClassifier(Options{K: k, Weights: WeightDistance, Power: power, Algorithm: AlgorithmBrute})
					require.NoError(t, err)
					require.NoError(t, brute.Fit(x, y))

					tree, err := NewClassifier(Options{K: k, Weights: WeightDistance, Power: power, Algorithm: AlgorithmKDTree, LeafSize: leafSize})
					require.NoError(t, err)
					require.NoError(t, tree.Fit(x, y))

					brutePreds, err := brute.Predict(queries)
					require.NoError(t, err)
					treePreds, err := tree.Predict(queries)
					require.NoError(t, err)
					assert.Equal(t, brutePreds, treePreds)
				})
			}
		}
	}
}

// TestKDTreeNeighborSetsMatch compares raw neighbor sets, not only the
// voted labels.
func TestKDTreeNeighborSetsMatch(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	const n, dims, k = 120, 3, 7

	points := make([][]float64, n)
	for i := range points {
		row := make([]float64, dims)
		for d := range row {
			row[d] = r.Float64() * 10
		}
		points[i] = row
	}

	labels := make([]string, n)
	clf, err := NewClassifier(Options{K: k, Weights: WeightUniform, Power: 2, Algorithm: AlgorithmBrute})
	require.NoError(t, err)
	require.NoError(t, clf.Fit(points, labels))

	tree := buildKDTree(points, 4)
	for trial := 0; trial < 25; trial++ {
		q := []float64{r.Float64() * 10, r.Float64() * 10, r.Float64() * 10}
		assert.Equal(t, clf.bruteSearch(q, k), tree.search(q, k, 2))
	}
}

func TestKDTreeSingleLeaf(t *testing.T) {
	points := [][]float64{{1, 1}, {2, 2}, {3, 3}}
	tree := buildKDTree(points, 10) // everything in one leaf

	got := tree.search([]float64{0, 0}, 2, 2)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].index)
	assert.Equal(t, 1, got[1].index)
}
