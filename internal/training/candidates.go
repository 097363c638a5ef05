package training

import (
	"fmt"

	"github.com/OldStager01/diapredict/internal/classifier"
	"github.com/OldStager01/diapredict/internal/dataset"
	"github.com/OldStager01/diapredict/internal/model"
	"github.com/OldStager01/diapredict/internal/preprocess"
	"github.com/OldStager01/diapredict/pkg/models"
)

// Candidate is one model family competing for selection.
type Candidate struct {
	Label string
	Kind  string
	// Standardize fits a StandardScaler on the imputed training rows.
	Standardize bool
	build       func(progress func()) classifier.Classifier
	trees       int
}

var candidateLabels = map[string]string{
	classifier.KindLogisticRegression: "Logistic Regression",
	classifier.KindRandomForest:       "Random Forest",
	classifier.KindDecisionTree:       "Decision Tree",
}

// LabelFor returns the display label of a classifier kind.
func LabelFor(kind string) string {
	if label, ok := candidateLabels[kind]; ok {
		return label
	}
	return kind
}

// Candidates builds the candidate list in evaluation order.
func Candidates(cfg Config) ([]Candidate, error) {
	kinds := cfg.Candidates
	if len(kinds) == 0 {
		kinds = DefaultCandidates()
	}

	out := make([]Candidate, 0, len(kinds))
	for _, kind := range kinds {
		c, err := newCandidate(kind, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// DefaultCandidates lists the linear model first and the ensemble second.
func DefaultCandidates() []string {
	return []string{classifier.KindLogisticRegression, classifier.KindRandomForest}
}

func newCandidate(kind string, cfg Config) (Candidate, error) {
	c := Candidate{Kind: kind, Label: LabelFor(kind)}
	switch kind {
	case classifier.KindLogisticRegression:
		c.Standardize = true
		c.build = func(func()) classifier.Classifier {
			return classifier.NewLogisticRegression(cfg.Logistic)
		}
	case classifier.KindRandomForest:
		forest := cfg.Forest
		forest.Seed = cfg.Seed
		c.trees = classifier.NewRandomForest(forest).NEstimators
		c.build = func(progress func()) classifier.Classifier {
			fc := forest
			fc.Progress = progress
			return classifier.NewRandomForest(fc)
		}
	case classifier.KindDecisionTree:
		c.build = func(func()) classifier.Classifier {
			return classifier.NewDecisionTree(classifier.TreeConfig{
				MaxDepth:        cfg.Forest.MaxDepth,
				MinSamplesSplit: cfg.Forest.MinSamplesSplit,
				Seed:            cfg.Seed,
			})
		}
	default:
		return Candidate{}, fmt.Errorf("%w: %q", classifier.ErrUnknownKind, kind)
	}
	return c, nil
}

// withForest returns a copy of a random forest candidate using fc.
func (c Candidate) withForest(fc classifier.ForestConfig) Candidate {
	c.trees = classifier.NewRandomForest(fc).NEstimators
	c.build = func(progress func()) classifier.Classifier {
		cfg := fc
		cfg.Progress = progress
		return classifier.NewRandomForest(cfg)
	}
	return c
}

// Fit fits the imputer, the optional scaler and the classifier on train and
// returns the assembled pipeline. Medians come from train only.
func (c Candidate) Fit(train *dataset.Dataset, progress ProgressFunc) (*model.Pipeline, error) {
	imputer, err := preprocess.FitMedianImputer(train.Rows, models.SentinelColumns())
	if err != nil {
		return nil, err
	}
	rows := imputer.TransformAll(train.Rows)

	var scaler *preprocess.StandardScaler
	if c.Standardize {
		scaler, err = preprocess.FitStandardScaler(rows)
		if err != nil {
			return nil, err
		}
		rows = scaler.TransformAll(rows)
	}

	var tick func()
	if progress != nil && c.trees > 0 {
		var done func()
		tick, done = progress(c.Label, c.trees)
		defer done()
	}

	clf := c.build(tick)
	if err := clf.Fit(rows, train.Labels); err != nil {
		return nil, fmt.Errorf("failed to fit %s: %w", c.Label, err)
	}

	return &model.Pipeline{
		Label:      c.Label,
		Imputer:    imputer,
		Scaler:     scaler,
		Classifier: clf,
	}, nil
}
