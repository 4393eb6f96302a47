package knn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSizes(t *testing.T) {
	train, test, err := Split(100, 0.25, 42)
	require.NoError(t, err)
	assert.Len(t, test, 25)
	assert.Len(t, train, 75)
}

func TestSplitReproducible(t *testing.T) {
	train1, test1, err := Split(50, 0.25, 42)
	require.NoError(t, err)
	train2, test2, err := Split(50, 0.25, 42)
	require.NoError(t, err)
	assert.Equal(t, train1, train2)
	assert.Equal(t, test1, test2)

	_, test3, err := Split(50, 0.25, 43)
	require.NoError(t, err)
	assert.NotEqual(t, test1, test3, "different seed should draw a different partition")
}

func TestSplitDisjointAndComplete(t *testing.T) {
	train, test, err := Split(31, 0.3, 7)
	require.NoError(t, err)

	seen := make(map[int]int)
	for _, i := range train {
		seen[i]++
	}
	for _, i := range test {
		seen[i]++
	}
	require.Len(t, seen, 31)
	for i, count := range seen {
		assert.Equal(t, 1, count, "index %d", i)
	}
}

func TestSplitDefaultFraction(t *testing.T) {
	train, test, err := Split(100, 0, 1)
	require.NoError(t, err)
	assert.Len(t, test, 25)
	assert.Len(t, train, 75)
}

func TestSplitErrors(t *testing.T) {
	_, _, err := Split(1, 0.25, 1)
	assert.Error(t, err)
	_, _, err = Split(10, 1.5, 1)
	assert.Error(t, err)
	_, _, err = Split(10, -0.1, 1)
	assert.Error(t, err)
}

func TestRowsAndLabels(t *testing.T) {
	x := [][]float64{{0}, {1}, {2}, {3}}
	y := []string{"a", "b", "c", "d"}

	assert.Equal(t, [][]float64{{3}, {1}}, Rows(x, []int{3, 1}))
	assert.Equal(t, []string{"d", "b"}, Labels(y, []int{3, 1}))
}
