package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/OldStager01/diapredict/internal/classifier"
	"github.com/OldStager01/diapredict/internal/model"
	"github.com/OldStager01/diapredict/internal/training"
	"github.com/OldStager01/diapredict/pkg/config"
	"github.com/OldStager01/diapredict/pkg/models"
)

func TestApplyArgs(t *testing.T) {
	cfg := &config.Config{
		Model: config.ModelConfig{ArtifactPath: "models/diabetes_model.json"},
		Training: config.TrainingConfig{
			DataPath: "data/diabetes.csv",
			CVFolds:  5,
			Workers:  2,
		},
	}

	applyArgs(cfg, args{})
	assert.Equal(t, "data/diabetes.csv", cfg.Training.DataPath)
	assert.Equal(t, 5, cfg.Training.CVFolds)
	assert.Equal(t, 2, cfg.Training.Workers)
	assert.False(t, cfg.Training.GridSearch)

	applyArgs(cfg, args{Data: "other.csv", Out: "out.json", GridSearch: true, Workers: 8, NoCV: true})
	assert.Equal(t, "other.csv", cfg.Training.DataPath)
	assert.Equal(t, "out.json", cfg.Model.ArtifactPath)
	assert.True(t, cfg.Training.GridSearch)
	assert.Equal(t, 8, cfg.Training.Workers)
	assert.Equal(t, 0, cfg.Training.CVFolds)
}

func TestTrainingConfig(t *testing.T) {
	tc := config.TrainingConfig{
		DataPath:   "data/diabetes.csv",
		TestRatio:  0.2,
		Seed:       42,
		CVFolds:    5,
		Workers:    3,
		Candidates: []string{classifier.KindLogisticRegression, classifier.KindRandomForest},
		Logistic:   config.LogisticConfig{C: 1, MaxIter: 1000},
		Forest:     config.ForestConfig{NEstimators: 100, MaxDepth: 10, MinSamplesSplit: 2},
	}

	got := trainingConfig(tc)
	assert.Equal(t, int64(42), got.Seed)
	assert.Equal(t, 0.2, got.TestRatio)
	assert.Equal(t, tc.Candidates, got.Candidates)
	assert.Equal(t, 1.0, got.Logistic.C)
	assert.Equal(t, 1000, got.Logistic.MaxIter)
	assert.Equal(t, 100, got.Forest.NEstimators)
	assert.Equal(t, 10, got.Forest.MaxDepth)
	assert.Equal(t, 3, got.Forest.Workers)
}

func TestPrintReport(t *testing.T) {
	lr := &model.Pipeline{Label: "Logistic Regression"}
	rf := &model.Pipeline{Label: "Random Forest"}
	cv := 0.7612

	report := &training.Report{
		Results: []training.Result{
			{Candidate: training.Candidate{Label: "Logistic Regression"}, Pipeline: lr, Accuracy: 0.7532},
			{Candidate: training.Candidate{Label: "Random Forest"}, Pipeline: rf, Accuracy: 0.7532, CVMean: &cv},
		},
		Evaluation: models.Evaluation{Accuracy: 0.7532, Confusion: models.ConfusionMatrix{{80, 19}, {19, 36}}},
		TrainSize:  614,
		TestSize:   154,
		Seed:       42,
		Duration:   1500 * time.Millisecond,
	}
	report.Selected = report.Results[1]

	var buf bytes.Buffer
	printReport(&buf, report, "models/diabetes_model.json")
	out := buf.String()

	assert.Contains(t, out, "614/154")
	assert.Contains(t, out, "Random Forest*")
	assert.NotContains(t, out, "Logistic Regression*")
	assert.Contains(t, out, "0.7612")
	assert.Contains(t, out, "Best model: Random Forest")
	assert.Contains(t, out, "[[80 19] [19 36]]")
	assert.Contains(t, out, "models/diabetes_model.json")
}
