package artifact_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/diapredict/internal/artifact"
	"github.com/OldStager01/diapredict/internal/classifier"
	"github.com/OldStager01/diapredict/internal/dataset"
	"github.com/OldStager01/diapredict/internal/model"
	"github.com/OldStager01/diapredict/internal/training"
	"github.com/OldStager01/diapredict/pkg/models"
)

func loadSample(t *testing.T) *dataset.Dataset {
	ds, err := dataset.Load(filepath.Join("..", "dataset", "testdata", "sample.csv"))
	require.NoError(t, err)
	return ds
}

func fitPipeline(t *testing.T, kind string) *model.Pipeline {
	cfg := training.DefaultConfig()
	cfg.Candidates = []string{kind}
	cfg.Forest.NEstimators = 10
	cands, err := training.Candidates(cfg)
	require.NoError(t, err)

	p, err := cands[0].Fit(loadSample(t), nil)
	require.NoError(t, err)
	return p
}

func TestSaveLoad_RoundTripPreservesPredictions(t *testing.T) {
	for _, kind := range []string{classifier.KindLogisticRegression, classifier.KindRandomForest} {
		t.Run(kind, func(t *testing.T) {
			p := fitPipeline(t, kind)
			a, err := artifact.New(p, artifact.Details{TrainSize: 10, Seed: 42})
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), "models", "nested", "model.json")
			require.NoError(t, artifact.Save(path, a))

			restored, manifest, err := artifact.LoadPipeline(path)
			require.NoError(t, err)
			assert.Equal(t, a.Manifest.ModelID, manifest.ModelID)
			assert.Equal(t, kind, manifest.Kind)
			assert.Equal(t, models.FeatureNames(), manifest.Features)
			assert.Equal(t, 10, manifest.TrainSize)

			for _, row := range loadSample(t).Rows {
				wantLabel, wantProba, err := p.Predict(row)
				require.NoError(t, err)
				gotLabel, gotProba, err := restored.Predict(row)
				require.NoError(t, err)
				assert.Equal(t, wantLabel, gotLabel)
				assert.InDelta(t, wantProba, gotProba, 1e-12)
			}
			assert.Equal(t, p.FeatureImportance(), restored.FeatureImportance())
		})
	}
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	a, err := artifact.New(fitPipeline(t, classifier.KindDecisionTree), artifact.Details{})
	require.NoError(t, err)

	require.NoError(t, artifact.Save(filepath.Join(dir, "model.json"), a))
	require.NoError(t, artifact.Save(filepath.Join(dir, "model.json"), a))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "model.json", entries[0].Name())
}

func TestLoad_Missing(t *testing.T) {
	_, err := artifact.Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, artifact.ErrArtifactMissing)
}

func TestLoad_RejectsMismatchedManifest(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *artifact.Manifest)
	}{
		{"format version", func(m *artifact.Manifest) { m.FormatVersion = 99 }},
		{"reordered features", func(m *artifact.Manifest) {
			m.Features[0], m.Features[1] = m.Features[1], m.Features[0]
		}},
		{"missing feature", func(m *artifact.Manifest) { m.Features = m.Features[:7] }},
		{"missing median", func(m *artifact.Manifest) { delete(m.Medians, models.FeatureInsulin) }},
		{"short scaler", func(m *artifact.Manifest) { m.Scaler.Mean = m.Scaler.Mean[:3] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := artifact.New(fitPipeline(t, classifier.KindLogisticRegression), artifact.Details{})
			require.NoError(t, err)
			tt.mutate(&a.Manifest)

			path := filepath.Join(t.TempDir(), "model.json")
			require.NoError(t, artifact.Save(path, a))

			_, err = artifact.Load(path)
			assert.ErrorIs(t, err, artifact.ErrManifestMismatch)
		})
	}
}

func TestLoad_RejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := artifact.Load(path)
	assert.ErrorIs(t, err, artifact.ErrManifestMismatch)
}

func TestPipeline_UnknownKind(t *testing.T) {
	a, err := artifact.New(fitPipeline(t, classifier.KindDecisionTree), artifact.Details{})
	require.NoError(t, err)
	a.Manifest.Kind = "svm"

	_, err = a.Pipeline()
	assert.ErrorIs(t, err, classifier.ErrUnknownKind)
}

func TestNew_EncodesManifest(t *testing.T) {
	a, err := artifact.New(fitPipeline(t, classifier.KindRandomForest), artifact.Details{
		Metrics: models.Evaluation{Accuracy: 0.75},
	})
	require.NoError(t, err)

	data, err := json.Marshal(a)
	require.NoError(t, err)

	var doc map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	manifest := doc["manifest"]
	assert.EqualValues(t, artifact.FormatVersion, manifest["format_version"])
	assert.Equal(t, "Random Forest", manifest["label"])
	assert.NotContains(t, manifest, "scaler")
	assert.Contains(t, manifest["medians"], models.FeatureGlucose)
}
