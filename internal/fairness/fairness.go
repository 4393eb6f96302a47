// Package fairness checks whether prediction quality differs across a
// name-based proxy attribute: whether the representative's recorded name
// carries an honorific marker. The gap in micro-averaged recall between
// the two groups is tested for significance with a label-shuffling
// permutation test.
package fairness

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"
)

// HasHonorific reports whether the recorded name contains any of the
// marker substrings.
func HasHonorific(name string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

// ProxyAttribute computes the honorific flag for every name.
func ProxyAttribute(names []string, markers []string) []bool {
	out := make([]bool, len(names))
	for i, name := range names {
		out[i] = HasHonorific(name, markers)
	}
	return out
}

// MicroRecall pools true positives and false negatives across all
// classes for the rows where inGroup matches group, then divides. With
// one label per row that pooling reduces to the group's accuracy. It
// returns NaN for an empty group.
func MicroRecall(pred, want []string, inGroup []bool, group bool) float64 {
	var correct, total int
	for i := range pred {
		if inGroup[i] != group {
			continue
		}
		total++
		if pred[i] == want[i] {
			correct++
		}
	}
	if total == 0 {
		return math.NaN()
	}
	return float64(correct) / float64(total)
}

// RecallGap is the marker-group micro recall minus the non-marker one.
func RecallGap(pred, want []string, inGroup []bool) float64 {
	return MicroRecall(pred, want, inGroup, true) - MicroRecall(pred, want, inGroup, false)
}

// Result holds the permutation-test outcome.
type Result struct {
	ObservedGap  float64
	PValue       float64
	Iterations   int
	ExceededBy   int // permutations with |gap| >= |observed|
	MarkerRecall float64
	OtherRecall  float64
}

// PermutationTest shuffles the proxy attribute without replacement,
// preserving group sizes, and tallies how often the permuted recall gap
// is at least as extreme as the observed one. The tallied proportion is
// the p-value; a small value means the observed gap is unlikely under
// the null of no association between the proxy and prediction accuracy.
func PermutationTest(ctx context.Context, pred, want []string, inGroup []bool, iterations int, seed int64, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(pred) == 0 || len(pred) != len(want) || len(pred) != len(inGroup) {
		return nil, fmt.Errorf("mismatched inputs: pred=%d want=%d group=%d", len(pred), len(want), len(inGroup))
	}
	if iterations < 1 {
		return nil, fmt.Errorf("invalid iteration count %d: must be >= 1", iterations)
	}

	result := &Result{
		Iterations:   iterations,
		MarkerRecall: MicroRecall(pred, want, inGroup, true),
		OtherRecall:  MicroRecall(pred, want, inGroup, false),
	}
	result.ObservedGap = result.MarkerRecall - result.OtherRecall
	if math.IsNaN(result.ObservedGap) {
		return nil, fmt.Errorf("proxy attribute has an empty group")
	}

	start := time.Now()
	r := rand.New(rand.NewSource(seed))
	shuffled := append([]bool(nil), inGroup...)
	observed := math.Abs(result.ObservedGap)

	for i := 0; i < iterations; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("permutation test cancelled: %w", ctx.Err())
		default:
		}

		r.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if math.Abs(RecallGap(pred, want, shuffled)) >= observed {
			result.ExceededBy++
		}
	}
	result.PValue = float64(result.ExceededBy) / float64(iterations)

	logger.InfoContext(ctx, "permutation test completed",
		"observed_gap", result.ObservedGap,
		"p_value", result.PValue,
		"iterations", iterations,
		"duration", time.Since(start),
	)
	return result, nil
}
