package training

import (
	"context"
	"fmt"
	"time"

	"github.com/OldStager01/diapredict/internal/classifier"
	"github.com/OldStager01/diapredict/internal/dataset"
	"github.com/OldStager01/diapredict/internal/logger"
	"github.com/OldStager01/diapredict/pkg/models"
)

// Report is the outcome of one training run.
type Report struct {
	Selected   Result
	Results    []Result
	Evaluation models.Evaluation
	TrainSize  int
	TestSize   int
	Seed       int64
	// TunedForest is set when grid search ran.
	TunedForest *classifier.ForestConfig
	Duration    time.Duration
}

// Scores lists each candidate's held-out accuracy in evaluation order.
func (r *Report) Scores() []models.CandidateScore {
	scores := make([]models.CandidateScore, 0, len(r.Results))
	for _, res := range r.Results {
		scores = append(scores, models.CandidateScore{
			Label:    res.Candidate.Label,
			Kind:     res.Candidate.Kind,
			Accuracy: res.Accuracy,
			Selected: res.Pipeline == r.Selected.Pipeline,
		})
	}
	return scores
}

type Trainer struct {
	cfg      Config
	progress ProgressFunc
}

type Option func(*Trainer)

// WithProgress reports per-tree progress of every forest fit.
func WithProgress(fn ProgressFunc) Option {
	return func(t *Trainer) {
		t.progress = fn
	}
}

func NewTrainer(cfg Config, opts ...Option) *Trainer {
	t := &Trainer{cfg: cfg}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run loads the configured dataset and trains on it.
func (t *Trainer) Run(ctx context.Context) (*Report, error) {
	logger.Infof("Loading dataset from %s", t.cfg.DataPath)
	ds, err := dataset.Load(t.cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	return t.RunDataset(ctx, ds)
}

// RunDataset splits ds, fits every candidate on the training partition,
// scores it on the test partition and evaluates the selected pipeline.
func (t *Trainer) RunDataset(ctx context.Context, ds *dataset.Dataset) (*Report, error) {
	start := time.Now()

	candidates, err := Candidates(t.cfg)
	if err != nil {
		return nil, err
	}

	train, test, err := dataset.Split(ds, t.cfg.TestRatio, t.cfg.Seed)
	if err != nil {
		return nil, err
	}
	logger.WithFields(map[string]interface{}{
		"rows":          ds.Len(),
		"train":         train.Len(),
		"test":          test.Len(),
		"seed":          t.cfg.Seed,
		"positive_rate": ds.PositiveRate(),
	}).Info("Dataset split")

	report := &Report{
		TrainSize: train.Len(),
		TestSize:  test.Len(),
		Seed:      t.cfg.Seed,
	}

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if t.cfg.GridSearch && c.Kind == classifier.KindRandomForest {
			base := t.cfg.Forest
			base.Seed = t.cfg.Seed
			k := t.cvFolds()
			if k == 0 {
				k = 5
			}
			tuned, score, err := GridSearch(ctx, base, DefaultForestGrid(), train, k, t.cfg.Seed)
			if err != nil {
				return nil, fmt.Errorf("grid search failed: %w", err)
			}
			logger.Infof("Grid search picked n_estimators=%d max_depth=%d min_samples_split=%d (cv accuracy %.4f)",
				tuned.NEstimators, tuned.MaxDepth, tuned.MinSamplesSplit, score)
			c = c.withForest(tuned)
			report.TunedForest = &tuned
		}

		res, err := t.fitCandidate(ctx, c, train, test)
		if err != nil {
			return nil, err
		}
		report.Results = append(report.Results, res)
	}

	selected, err := Select(report.Results)
	if err != nil {
		return nil, err
	}
	report.Selected = selected
	logger.Infof("Selected %s with accuracy %.4f", selected.Candidate.Label, selected.Accuracy)

	eval, err := Evaluate(selected.Pipeline, train, test)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate %s: %w", selected.Candidate.Label, err)
	}
	eval.CVMean = selected.CVMean
	report.Evaluation = eval
	report.Duration = time.Since(start)

	return report, nil
}

func (t *Trainer) fitCandidate(ctx context.Context, c Candidate, train, test *dataset.Dataset) (Result, error) {
	logger.Infof("Training %s...", c.Label)

	p, err := c.Fit(train, t.progress)
	if err != nil {
		return Result{}, err
	}
	acc, err := Accuracy(p, test)
	if err != nil {
		return Result{}, err
	}
	res := Result{Candidate: c, Pipeline: p, Accuracy: acc}

	if k := t.cvFolds(); k > 0 {
		mean, err := CrossValidate(ctx, c, train, k, t.cfg.Seed)
		if err != nil {
			return Result{}, fmt.Errorf("cross-validation of %s failed: %w", c.Label, err)
		}
		res.CVMean = &mean
		logger.Infof("%s accuracy: %.4f (cv mean %.4f)", c.Label, acc, mean)
	} else {
		logger.Infof("%s accuracy: %.4f", c.Label, acc)
	}
	return res, nil
}

func (t *Trainer) cvFolds() int {
	if t.cfg.CVFolds < 2 {
		return 0
	}
	return t.cfg.CVFolds
}
