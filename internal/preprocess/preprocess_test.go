package preprocess_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/diapredict/internal/preprocess"
	"github.com/OldStager01/diapredict/pkg/models"
)

func trainingRows() [][]float64 {
	return [][]float64{
		{6, 148, 72, 35, 0, 33.6, 0.627, 50},
		{1, 85, 66, 29, 0, 26.6, 0.351, 31},
		{8, 183, 64, 0, 0, 23.3, 0.672, 32},
		{1, 89, 66, 23, 94, 28.1, 0.167, 21},
		{0, 137, 40, 35, 168, 43.1, 2.288, 33},
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{name: "odd", values: []float64{3, 1, 2}, expected: 2},
		{name: "even", values: []float64{4, 1, 3, 2}, expected: 2.5},
		{name: "single", values: []float64{7}, expected: 7},
		{name: "empty", values: nil, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, preprocess.Median(tt.values))
		})
	}
}

func TestFitMedianImputer_IgnoresSentinels(t *testing.T) {
	imp, err := preprocess.FitMedianImputer(trainingRows(), models.SentinelColumns())
	require.NoError(t, err)

	assert.Equal(t, 137.0, imp.Medians[models.FeatureGlucose])
	assert.Equal(t, 66.0, imp.Medians[models.FeatureBloodPressure])
	// 0 excluded: median of {35, 29, 23, 35}
	assert.Equal(t, 32.0, imp.Medians[models.FeatureSkinThickness])
	// median of {94, 168}
	assert.Equal(t, 131.0, imp.Medians[models.FeatureInsulin])
	assert.Equal(t, 28.1, imp.Medians[models.FeatureBMI])
	assert.NotContains(t, imp.Medians, models.FeaturePregnancies)
}

func TestFitMedianImputer_AllSentinelColumnFails(t *testing.T) {
	rows := trainingRows()
	for _, row := range rows {
		row[models.FeatureIndex(models.FeatureInsulin)] = 0
	}

	_, err := preprocess.FitMedianImputer(rows, models.SentinelColumns())

	require.Error(t, err)
	assert.ErrorIs(t, err, preprocess.ErrUndefinedMedian)
	assert.Contains(t, err.Error(), models.FeatureInsulin)
}

func TestFitMedianImputer_UnknownColumn(t *testing.T) {
	_, err := preprocess.FitMedianImputer(trainingRows(), []string{"Cholesterol"})
	assert.Error(t, err)
}

func TestMedianImputer_OnlyTouchesZeroCells(t *testing.T) {
	imp, err := preprocess.FitMedianImputer(trainingRows(), models.SentinelColumns())
	require.NoError(t, err)

	complete := []float64{2, 130, 70, 25, 100, 28.5, 0.35, 33}
	assert.Equal(t, complete, imp.Transform(complete))

	// zeros outside the sentinel columns are real values
	withZeros := []float64{0, 0, 70, 0, 100, 0, 0, 33}
	got := imp.Transform(withZeros)
	assert.Equal(t, []float64{0, 137, 70, 32, 100, 28.1, 0, 33}, got)
	assert.Equal(t, 0.0, withZeros[1], "input row must not be modified")
}

func TestNewMedianImputer_MatchesFitted(t *testing.T) {
	fitted, err := preprocess.FitMedianImputer(trainingRows(), models.SentinelColumns())
	require.NoError(t, err)

	restored, err := preprocess.NewMedianImputer(fitted.Medians)
	require.NoError(t, err)

	row := []float64{1, 0, 0, 0, 0, 0, 0.5, 40}
	assert.Equal(t, fitted.Transform(row), restored.Transform(row))

	_, err = preprocess.NewMedianImputer(map[string]float64{"Weight": 1})
	assert.Error(t, err)
}

func TestStandardScaler(t *testing.T) {
	rows := [][]float64{{1, 10}, {2, 10}, {3, 10}}

	s, err := preprocess.FitStandardScaler(rows)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{2, 10}, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(2.0/3.0), s.Scale[0], 1e-12)
	assert.Equal(t, 1.0, s.Scale[1], "constant column keeps unit scale")

	out := s.TransformAll(rows)
	assert.InDelta(t, 0.0, out[1][0], 1e-12)
	assert.InDelta(t, -out[0][0], out[2][0], 1e-12)
	assert.Equal(t, 0.0, out[0][1])

	assert.NoError(t, s.Validate(2))
	assert.Error(t, s.Validate(3))
}

func TestFitStandardScaler_Empty(t *testing.T) {
	_, err := preprocess.FitStandardScaler(nil)
	assert.Error(t, err)
}
