// Package model couples a fitted classifier with the preprocessing it was
// trained behind, so that training-time evaluation and serving run the exact
// same transform.
package model

import (
	"errors"
	"fmt"

	"github.com/OldStager01/diapredict/internal/classifier"
	"github.com/OldStager01/diapredict/internal/preprocess"
	"github.com/OldStager01/diapredict/pkg/models"
)

var ErrIncompletePipeline = errors.New("pipeline is missing a component")

type Pipeline struct {
	Label      string
	Imputer    *preprocess.MedianImputer
	Scaler     *preprocess.StandardScaler
	Classifier classifier.Classifier
}

func (p *Pipeline) Validate() error {
	if p.Imputer == nil {
		return fmt.Errorf("%w: imputer", ErrIncompletePipeline)
	}
	if p.Classifier == nil {
		return fmt.Errorf("%w: classifier", ErrIncompletePipeline)
	}
	if p.Scaler != nil {
		if err := p.Scaler.Validate(models.FeatureCount()); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) Kind() string {
	if p.Classifier == nil {
		return ""
	}
	return p.Classifier.Kind()
}

// Transform imputes and, when configured, standardises a raw row.
func (p *Pipeline) Transform(row []float64) []float64 {
	out := p.Imputer.Transform(row)
	if p.Scaler != nil {
		out = p.Scaler.Transform(out)
	}
	return out
}

func (p *Pipeline) TransformAll(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = p.Transform(row)
	}
	return out
}

// Predict returns the class label and the positive-class probability for a
// raw row in models.FeatureNames order.
func (p *Pipeline) Predict(row []float64) (int, float64, error) {
	if len(row) != models.FeatureCount() {
		return 0, 0, fmt.Errorf("%w: got %d, want %d", classifier.ErrFeatureWidth, len(row), models.FeatureCount())
	}
	x := p.Transform(row)
	label, err := p.Classifier.Predict(x)
	if err != nil {
		return 0, 0, err
	}
	proba, err := p.Classifier.PredictProba(x)
	if err != nil {
		return 0, 0, err
	}
	return label, proba, nil
}

// FeatureImportance names the classifier's importances. Classifiers that do
// not implement classifier.Explainer yield an empty map.
func (p *Pipeline) FeatureImportance() map[string]float64 {
	out := make(map[string]float64)
	explainer, ok := p.Classifier.(classifier.Explainer)
	if !ok {
		return out
	}
	weights := explainer.FeatureImportances()
	names := models.FeatureNames()
	if len(weights) != len(names) {
		return out
	}
	for i, name := range names {
		out[name] = weights[i]
	}
	return out
}
