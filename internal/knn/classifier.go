// Package knn implements the K-nearest-neighbors party classifier along
// with the seeded train/test split and the cross-validated grid search
// used to tune it.
package knn

import (
	"fmt"
	"math"
	"sort"
)

// WeightScheme controls how neighbor votes are weighted.
type WeightScheme string

const (
	// WeightUniform gives every neighbor an equal vote.
	WeightUniform WeightScheme = "uniform"
	// WeightDistance weights votes by inverse distance.
	WeightDistance WeightScheme = "distance"
)

// Algorithm selects the neighbor-search strategy. The strategy has no
// effect on predictions, only on lookup performance.
type Algorithm string

const (
	AlgorithmBrute  Algorithm = "brute"
	AlgorithmKDTree Algorithm = "kd_tree"
)

// Options are the classifier hyperparameters.
type Options struct {
	K         int          // neighbor count
	Weights   WeightScheme // uniform or distance
	Power     float64      // Minkowski distance power p
	Algorithm Algorithm    // brute or kd_tree
	LeafSize  int          // kd-tree leaf size; ignored by brute force
}

// DefaultOptions returns the best configuration observed in tuning:
// 13 neighbors, inverse-distance weighting, Euclidean distance, brute
// force with leaf size 1.
func DefaultOptions() Options {
	return Options{
		K:         13,
		Weights:   WeightDistance,
		Power:     2,
		Algorithm: AlgorithmBrute,
		LeafSize:  1,
	}
}

// Validate checks the hyperparameters.
func (o Options) Validate() error {
	if o.K < 1 {
		return fmt.Errorf("invalid neighbor count %d: must be >= 1", o.K)
	}
	if o.Weights != WeightUniform && o.Weights != WeightDistance {
		return fmt.Errorf("invalid weight scheme %q", o.Weights)
	}
	if o.Power < 1 {
		return fmt.Errorf("invalid Minkowski power %v: must be >= 1", o.Power)
	}
	if o.Algorithm != AlgorithmBrute && o.Algorithm != AlgorithmKDTree {
		return fmt.Errorf("invalid algorithm %q", o.Algorithm)
	}
	if o.Algorithm == AlgorithmKDTree && o.LeafSize < 1 {
		return fmt.Errorf("invalid leaf size %d: must be >= 1", o.LeafSize)
	}
	return nil
}

// Classifier is a fitted K-nearest-neighbors model.
type Classifier struct {
	opts   Options
	points [][]float64
	labels []string
	tree   *kdTree
}

// NewClassifier creates an unfitted classifier.
func NewClassifier(opts Options) (*Classifier, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return &Classifier{opts: opts}, nil
}

// Fit stores the training data and, for the kd-tree strategy, builds the
// search tree. The training set is referenced, not copied.
func (c *Classifier) Fit(x [][]float64, y []string) error {
	if len(x) == 0 {
		return fmt.Errorf("empty training set")
	}
	if len(x) != len(y) {
		return fmt.Errorf("feature/label length mismatch: %d != %d", len(x), len(y))
	}
	dims := len(x[0])
	for i, row := range x {
		if len(row) != dims {
			return fmt.Errorf("inconsistent feature width at row %d: %d != %d", i, len(row), dims)
		}
	}

	c.points = x
	c.labels = y
	c.tree = nil
	if c.opts.Algorithm == AlgorithmKDTree {
		c.tree = buildKDTree(x, c.opts.LeafSize)
	}
	return nil
}

// Predict classifies each row of x.
func (c *Classifier) Predict(x [][]float64) ([]string, error) {
	if c.points == nil {
		return nil, fmt.Errorf("classifier is not fitted")
	}
	preds := make([]string, len(x))
	for i, row := range x {
		if len(row) != len(c.points[0]) {
			return nil, fmt.Errorf("query row %d has width %d, want %d", i, len(row), len(c.points[0]))
		}
		preds[i] = c.predictOne(row)
	}
	return preds, nil
}

// neighbor is one training point with its distance to the query.
type neighbor struct {
	index int
	dist  float64
}

func (c *Classifier) predictOne(x []float64) string {
	k := c.opts.K
	if k > len(c.points) {
		k = len(c.points)
	}

	var neighbors []neighbor
	if c.tree != nil {
		neighbors = c.tree.search(x, k, c.opts.Power)
	} else {
		neighbors = c.bruteSearch(x, k)
	}
	return vote(neighbors, c.labels, c.opts.Weights)
}

// bruteSearch scans every training point. Ties in distance resolve to
// the lower index so both strategies return identical neighbor sets.
func (c *Classifier) bruteSearch(x []float64, k int) []neighbor {
	all := make([]neighbor, len(c.points))
	for i, p := range c.points {
		all[i] = neighbor{index: i, dist: minkowski(x, p, c.opts.Power)}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].dist != all[j].dist {
			return all[i].dist < all[j].dist
		}
		return all[i].index < all[j].index
	})
	return all[:k]
}

// vote tallies neighbor labels. Inverse-distance weighting has an
// exact-match fast path: when any neighbor coincides with the query,
// only coincident neighbors vote. Tied tallies resolve to the
// lexicographically smaller label for determinism.
func vote(neighbors []neighbor, labels []string, scheme WeightScheme) string {
	tally := make(map[string]float64, 4)

	if scheme == WeightDistance {
		var exact []neighbor
		for _, n := range neighbors {
			if n.dist == 0 {
				exact = append(exact, n)
			}
		}
		if len(exact) > 0 {
			for _, n := range exact {
				tally[labels[n.index]]++
			}
		} else {
			for _, n := range neighbors {
				tally[labels[n.index]] += 1 / n.dist
			}
		}
	} else {
		for _, n := range neighbors {
			tally[labels[n.index]]++
		}
	}

	best := ""
	bestWeight := math.Inf(-1)
	for label, weight := range tally {
		if weight > bestWeight || (weight == bestWeight && label < best) {
			best = label
			bestWeight = weight
		}
	}
	return best
}

// minkowski computes the Minkowski distance of power p between a and b.
func minkowski(a, b []float64, p float64) float64 {
	switch p {
	case 1:
		var sum float64
		for i := range a {
			sum += math.Abs(a[i] - b[i])
		}
		return sum
	case 2:
		var sum float64
		for i := range a {
			d := a[i] - b[i]
			sum += d * d
		}
		return math.Sqrt(sum)
	default:
		var sum float64
		for i := range a {
			sum += math.Pow(math.Abs(a[i]-b[i]), p)
		}
		return math.Pow(sum, 1/p)
	}
}

// Accuracy returns the fraction of predictions matching the labels.
func Accuracy(pred, want []string) float64 {
	if len(pred) == 0 || len(pred) != len(want) {
		return 0
	}
	correct := 0
	for i := range pred {
		if pred[i] == want[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(pred))
}

// Majority returns the most frequent label, ties resolving to the
// lexicographically smaller one. Useful as a baseline classifier.
func Majority(labels []string) string {
	counts := make(map[string]int, 4)
	for _, l := range labels {
		counts[l]++
	}
	best := ""
	bestCount := -1
	for label, count := range counts {
		if count > bestCount || (count == bestCount && label < best) {
			best = label
			bestCount = count
		}
	}
	return best
}
