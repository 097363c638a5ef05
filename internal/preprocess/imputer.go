// Package preprocess holds the fitted transforms applied to a feature row
// before it reaches a classifier. Parameters are exported so they can be
// persisted alongside the model.
package preprocess

import (
	"errors"
	"fmt"
	"sort"

	"github.com/OldStager01/diapredict/pkg/models"
)

var ErrUndefinedMedian = errors.New("median undefined: column has no non-missing values")

// MedianImputer replaces sentinel zeros with per-column medians.
type MedianImputer struct {
	Medians map[string]float64 `json:"medians"`

	// resolved column positions, rebuilt lazily from Medians
	index map[int]float64
}

// FitMedianImputer computes the median of the non-zero cells of each column
// over rows. It must be given the training partition only.
func FitMedianImputer(rows [][]float64, columns []string) (*MedianImputer, error) {
	medians := make(map[string]float64, len(columns))
	for _, name := range columns {
		col := models.FeatureIndex(name)
		if col < 0 {
			return nil, fmt.Errorf("unknown feature column %q", name)
		}

		values := make([]float64, 0, len(rows))
		for _, row := range rows {
			if row[col] != 0 {
				values = append(values, row[col])
			}
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrUndefinedMedian, name)
		}
		medians[name] = Median(values)
	}
	return NewMedianImputer(medians)
}

// NewMedianImputer rebuilds an imputer from persisted medians.
func NewMedianImputer(medians map[string]float64) (*MedianImputer, error) {
	m := &MedianImputer{Medians: medians}
	if err := m.resolve(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MedianImputer) resolve() error {
	index := make(map[int]float64, len(m.Medians))
	for name, median := range m.Medians {
		col := models.FeatureIndex(name)
		if col < 0 {
			return fmt.Errorf("unknown feature column %q", name)
		}
		index[col] = median
	}
	m.index = index
	return nil
}

// Transform returns a copy of row with zero cells of the imputed columns
// replaced. Every other cell is passed through unchanged.
func (m *MedianImputer) Transform(row []float64) []float64 {
	index := m.index
	if index == nil {
		index = make(map[int]float64, len(m.Medians))
		for name, median := range m.Medians {
			if col := models.FeatureIndex(name); col >= 0 {
				index[col] = median
			}
		}
	}
	out := append([]float64(nil), row...)
	for col, median := range index {
		if col < len(out) && out[col] == 0 {
			out[col] = median
		}
	}
	return out
}

// TransformAll applies Transform to every row.
func (m *MedianImputer) TransformAll(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = m.Transform(row)
	}
	return out
}

// Median of values; the mean of the two middle values for even lengths.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
