package training

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/OldStager01/diapredict/internal/classifier"
	"github.com/OldStager01/diapredict/internal/dataset"
	"github.com/OldStager01/diapredict/internal/logger"
	"github.com/OldStager01/diapredict/internal/model"
)

var ErrNoCandidates = errors.New("no candidates to select from")

// Result is a fitted candidate with its held-out score.
type Result struct {
	Candidate Candidate
	Pipeline  *model.Pipeline
	Accuracy  float64
	CVMean    *float64
}

// Select walks results in order and keeps the last one whose accuracy is at
// least the best seen, so ties go to the later candidate.
func Select(results []Result) (Result, error) {
	if len(results) == 0 {
		return Result{}, ErrNoCandidates
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.Accuracy >= best.Accuracy {
			best = r
		}
	}
	return best, nil
}

// CrossValidate returns the mean held-out accuracy over k folds of train.
func CrossValidate(ctx context.Context, c Candidate, train *dataset.Dataset, k int, seed int64) (float64, error) {
	folds, err := dataset.Folds(train.Len(), k, seed)
	if err != nil {
		return 0, err
	}

	scores := make([]float64, 0, len(folds))
	for i, held := range folds {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		fitPart := train.Subset(dataset.TrainIndices(folds, i))
		p, err := c.Fit(fitPart, nil)
		if err != nil {
			return 0, fmt.Errorf("fold %d: %w", i+1, err)
		}
		acc, err := Accuracy(p, train.Subset(held))
		if err != nil {
			return 0, fmt.Errorf("fold %d: %w", i+1, err)
		}
		scores = append(scores, acc)
	}
	return stat.Mean(scores, nil), nil
}

// ForestGrid is the random forest hyperparameter grid.
type ForestGrid struct {
	NEstimators     []int
	MaxDepth        []int
	MinSamplesSplit []int
}

func DefaultForestGrid() ForestGrid {
	return ForestGrid{
		NEstimators:     []int{100, 200},
		MaxDepth:        []int{0, 5, 10},
		MinSamplesSplit: []int{2, 5},
	}
}

// GridSearch scores every grid point by k-fold accuracy and returns the first
// best configuration.
func GridSearch(ctx context.Context, base classifier.ForestConfig, grid ForestGrid, train *dataset.Dataset, k int, seed int64) (classifier.ForestConfig, float64, error) {
	c, err := newCandidate(classifier.KindRandomForest, Config{Forest: base, Seed: base.Seed})
	if err != nil {
		return base, 0, err
	}

	best, bestScore := base, -1.0
	for _, n := range grid.NEstimators {
		for _, depth := range grid.MaxDepth {
			for _, minSplit := range grid.MinSamplesSplit {
				fc := base
				fc.NEstimators, fc.MaxDepth, fc.MinSamplesSplit = n, depth, minSplit

				score, err := CrossValidate(ctx, c.withForest(fc), train, k, seed)
				if err != nil {
					return base, 0, err
				}
				logger.WithFields(map[string]interface{}{
					"n_estimators":      n,
					"max_depth":         depth,
					"min_samples_split": minSplit,
					"cv_accuracy":       score,
				}).Debug("Grid point scored")

				if score > bestScore {
					best, bestScore = fc, score
				}
			}
		}
	}
	if bestScore < 0 {
		return base, 0, ErrNoCandidates
	}
	return best, bestScore, nil
}
