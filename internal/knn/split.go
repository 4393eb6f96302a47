package knn

import (
	"fmt"
	"math"
	"math/rand"
)

// Split partitions row indices [0,n) into train and test sets using a
// seeded shuffle, so the same seed always re-draws the same partition.
// Label stratification is not performed. testFraction defaults the
// conventional 0.25 when callers pass the zero value.
func Split(n int, testFraction float64, seed int64) (train, test []int, err error) {
	if n < 2 {
		return nil, nil, fmt.Errorf("cannot split %d rows", n)
	}
	if testFraction == 0 {
		testFraction = 0.25
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("invalid test fraction %v: must be in (0,1)", testFraction)
	}

	testN := int(math.Round(float64(n) * testFraction))
	if testN < 1 {
		testN = 1
	}
	if testN > n-1 {
		testN = n - 1
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[testN:], perm[:testN], nil
}

// Rows gathers matrix rows by index.
func Rows(x [][]float64, indices []int) [][]float64 {
	out := make([][]float64, len(indices))
	for i, idx := range indices {
		out[i] = x[idx]
	}
	return out
}

// Labels gathers label entries by index.
func Labels(y []string, indices []int) []string {
	out := make([]string, len(indices))
	for i, idx := range indices {
		out[i] = y[idx]
	}
	return out
}
