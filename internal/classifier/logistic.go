package classifier

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

type LogisticConfig struct {
	// C is the inverse L2 regularisation strength.
	C            float64
	MaxIter      int
	LearningRate float64
	Tolerance    float64
}

// LogisticRegression is an L2-regularised logistic model fitted by
// full-batch gradient descent. It expects standardised inputs.
type LogisticRegression struct {
	Weights      []float64 `json:"weights"`
	Intercept    float64   `json:"intercept"`
	C            float64   `json:"c"`
	MaxIter      int       `json:"max_iter"`
	LearningRate float64   `json:"learning_rate"`
	Tolerance    float64   `json:"tolerance"`
	Iterations   int       `json:"iterations"`
}

func NewLogisticRegression(cfg LogisticConfig) *LogisticRegression {
	if cfg.C <= 0 {
		cfg.C = 1.0
	}
	if cfg.MaxIter <= 0 {
		cfg.MaxIter = 1000
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 0.5
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = 1e-6
	}
	return &LogisticRegression{
		C:            cfg.C,
		MaxIter:      cfg.MaxIter,
		LearningRate: cfg.LearningRate,
		Tolerance:    cfg.Tolerance,
	}
}

func (m *LogisticRegression) Kind() string { return KindLogisticRegression }

// Fit minimises mean log-loss + ||w||^2 / (2*C*n).
func (m *LogisticRegression) Fit(rows [][]float64, labels []int) error {
	width, err := checkTrainingInput(rows, labels)
	if err != nil {
		return err
	}

	n := float64(len(rows))
	weights := make([]float64, width)
	var intercept float64
	grad := make([]float64, width)
	residuals := make([]float64, len(rows))

	iter := 0
	for ; iter < m.MaxIter; iter++ {
		for i, row := range rows {
			residuals[i] = sigmoid(floats.Dot(weights, row)+intercept) - float64(labels[i])
		}

		for j := range grad {
			grad[j] = 0
		}
		var gradIntercept float64
		for i, row := range rows {
			floats.AddScaled(grad, residuals[i], row)
			gradIntercept += residuals[i]
		}
		floats.Scale(1/n, grad)
		gradIntercept /= n
		floats.AddScaled(grad, 1/(m.C*n), weights)

		norm := math.Sqrt(floats.Dot(grad, grad) + gradIntercept*gradIntercept)
		if norm < m.Tolerance {
			break
		}

		floats.AddScaled(weights, -m.LearningRate, grad)
		intercept -= m.LearningRate * gradIntercept
	}

	m.Weights = weights
	m.Intercept = intercept
	m.Iterations = iter
	return nil
}

func (m *LogisticRegression) PredictProba(row []float64) (float64, error) {
	if len(m.Weights) == 0 {
		return 0, ErrNotFitted
	}
	if len(row) != len(m.Weights) {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrFeatureWidth, len(row), len(m.Weights))
	}
	return sigmoid(floats.Dot(m.Weights, row) + m.Intercept), nil
}

func (m *LogisticRegression) Predict(row []float64) (int, error) {
	return predictFromProba(m, row)
}

// FeatureImportances returns the fitted coefficients. Their sign is kept:
// a negative weight lowers the predicted risk.
func (m *LogisticRegression) FeatureImportances() []float64 {
	return append([]float64(nil), m.Weights...)
}

func (m *LogisticRegression) validate() error {
	if len(m.Weights) == 0 {
		return errors.New("no weights")
	}
	if floats.HasNaN(m.Weights) || math.IsNaN(m.Intercept) {
		return errors.New("NaN weight")
	}
	return nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
