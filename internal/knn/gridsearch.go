package knn

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ParamGrid defines the hyperparameter search space.
type ParamGrid struct {
	K          []int
	Weights    []WeightScheme
	Powers     []float64
	Algorithms []Algorithm
	LeafSizes  []int
}

// DefaultGrid spans neighbor counts kMin..kMax, both weight schemes,
// Manhattan and Euclidean distance, both search strategies and two leaf
// sizes. The strategy and leaf size only affect lookup performance, they
// are tuned alongside everything else all the same.
func DefaultGrid(kMin, kMax int) ParamGrid {
	ks := make([]int, 0, kMax-kMin+1)
	for k := kMin; k <= kMax; k++ {
		ks = append(ks, k)
	}
	return ParamGrid{
		K:          ks,
		Weights:    []WeightScheme{WeightUniform, WeightDistance},
		Powers:     []float64{1, 2},
		Algorithms: []Algorithm{AlgorithmBrute, AlgorithmKDTree},
		LeafSizes:  []int{1, 30},
	}
}

// candidates expands the grid in deterministic order.
func (g ParamGrid) candidates() []Options {
	var out []Options
	for _, k := range g.K {
		for _, w := range g.Weights {
			for _, p := range g.Powers {
				for _, a := range g.Algorithms {
					for _, l := range g.LeafSizes {
						out = append(out, Options{K: k, Weights: w, Power: p, Algorithm: a, LeafSize: l})
					}
				}
			}
		}
	}
	return out
}

// Candidate is one evaluated grid point.
type Candidate struct {
	Options      Options
	MeanAccuracy float64
}

// SearchResult holds the grid-search outcome.
type SearchResult struct {
	Best       Options
	BestScore  float64
	Candidates []Candidate
}

// GridSearch evaluates every grid point with k-fold cross-validated
// accuracy and returns the best. Folds are contiguous index ranges, so
// the evaluation is deterministic for a fixed input ordering; ties keep
// the earlier grid point.
func GridSearch(ctx context.Context, x [][]float64, y []string, grid ParamGrid, folds int, logger *slog.Logger) (*SearchResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if folds < 2 {
		return nil, fmt.Errorf("invalid fold count %d: must be >= 2", folds)
	}
	if len(x) < folds {
		return nil, fmt.Errorf("cannot run %d-fold cross-validation on %d rows", folds, len(x))
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("feature/label length mismatch: %d != %d", len(x), len(y))
	}

	candidates := grid.candidates()
	if len(candidates) == 0 {
		return nil, fmt.Errorf("empty parameter grid")
	}

	start := time.Now()
	logger.InfoContext(ctx, "starting hyperparameter grid search",
		"candidates", len(candidates),
		"folds", folds,
		"rows", len(x),
	)

	result := &SearchResult{BestScore: -1, Candidates: make([]Candidate, 0, len(candidates))}

	for i, opts := range candidates {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("grid search cancelled: %w", ctx.Err())
		default:
		}

		score, err := crossValidate(x, y, opts, folds)
		if err != nil {
			return nil, fmt.Errorf("evaluate candidate %+v: %w", opts, err)
		}
		result.Candidates = append(result.Candidates, Candidate{Options: opts, MeanAccuracy: score})
		if score > result.BestScore {
			result.Best = opts
			result.BestScore = score
		}

		if (i+1)%100 == 0 {
			logger.DebugContext(ctx, "grid search progress",
				"evaluated", i+1,
				"total", len(candidates),
				"best_score", result.BestScore,
			)
		}
	}

	logger.InfoContext(ctx, "grid search completed",
		"duration", time.Since(start),
		"best_score", result.BestScore,
		"best_k", result.Best.K,
		"best_weights", result.Best.Weights,
		"best_power", result.Best.Power,
		"best_algorithm", result.Best.Algorithm,
		"best_leaf_size", result.Best.LeafSize,
	)
	return result, nil
}

// crossValidate computes the mean held-out accuracy over contiguous folds.
func crossValidate(x [][]float64, y []string, opts Options, folds int) (float64, error) {
	n := len(x)
	var total float64

	for fold := 0; fold < folds; fold++ {
		lo := fold * n / folds
		hi := (fold + 1) * n / folds

		trainX := make([][]float64, 0, n-(hi-lo))
		trainY := make([]string, 0, n-(hi-lo))
		trainX = append(trainX, x[:lo]...)
		trainX = append(trainX, x[hi:]...)
		trainY = append(trainY, y[:lo]...)
		trainY = append(trainY, y[hi:]...)

		clf, err := NewClassifier(opts)
		if err != nil {
			return 0, err
		}
		if err := clf.Fit(trainX, trainY); err != nil {
			return 0, err
		}
		preds, err := clf.Predict(x[lo:hi])
		if err != nil {
			return 0, err
		}
		total += Accuracy(preds, y[lo:hi])
	}
	return total / float64(folds), nil
}
