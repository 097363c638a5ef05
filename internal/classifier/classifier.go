// Package classifier implements the binary model families the trainer can
// choose between. Every model predicts the probability of the positive
// class (Outcome == 1) for one feature row.
package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	KindLogisticRegression = "logistic_regression"
	KindRandomForest       = "random_forest"
	KindDecisionTree       = "decision_tree"
)

var (
	ErrNotFitted    = errors.New("classifier is not fitted")
	ErrInvalidInput = errors.New("invalid training input")
	ErrUnknownKind  = errors.New("unknown classifier kind")
	ErrFeatureWidth = errors.New("feature row has wrong width")
)

type Classifier interface {
	Kind() string
	Fit(rows [][]float64, labels []int) error
	// PredictProba returns P(Outcome == 1).
	PredictProba(row []float64) (float64, error)
	Predict(row []float64) (int, error)
}

// Explainer is implemented by classifiers that can attribute their output
// to input features. Weights are aligned with the feature order used in Fit.
type Explainer interface {
	FeatureImportances() []float64
}

// New returns an unfitted classifier with default hyperparameters.
func New(kind string) (Classifier, error) {
	switch kind {
	case KindLogisticRegression:
		return NewLogisticRegression(LogisticConfig{}), nil
	case KindRandomForest:
		return NewRandomForest(ForestConfig{}), nil
	case KindDecisionTree:
		return NewDecisionTree(TreeConfig{}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// Unmarshal restores a fitted classifier of the given kind from its JSON
// parameters.
func Unmarshal(kind string, data []byte) (Classifier, error) {
	c, err := New(kind)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to decode %s parameters: %w", kind, err)
	}
	if v, ok := c.(interface{ validate() error }); ok {
		if err := v.validate(); err != nil {
			return nil, fmt.Errorf("invalid %s parameters: %w", kind, err)
		}
	}
	return c, nil
}

// predictFromProba applies the argmax rule; a tie goes to the negative class.
func predictFromProba(c Classifier, row []float64) (int, error) {
	p, err := c.PredictProba(row)
	if err != nil {
		return 0, err
	}
	if p > 0.5 {
		return 1, nil
	}
	return 0, nil
}

func checkTrainingInput(rows [][]float64, labels []int) (width int, err error) {
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: no rows", ErrInvalidInput)
	}
	if len(rows) != len(labels) {
		return 0, fmt.Errorf("%w: %d rows but %d labels", ErrInvalidInput, len(rows), len(labels))
	}
	width = len(rows[0])
	if width == 0 {
		return 0, fmt.Errorf("%w: empty rows", ErrInvalidInput)
	}
	for i, row := range rows {
		if len(row) != width {
			return 0, fmt.Errorf("%w: row %d has %d features, want %d", ErrInvalidInput, i, len(row), width)
		}
		if labels[i] != 0 && labels[i] != 1 {
			return 0, fmt.Errorf("%w: label %d at row %d is not binary", ErrInvalidInput, labels[i], i)
		}
	}
	return width, nil
}

func normalize(values []float64) []float64 {
	out := append([]float64(nil), values...)
	var sum float64
	for _, v := range out {
		sum += v
	}
	if sum <= 0 {
		return out
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
