// Package artifact persists a fitted pipeline as a versioned JSON document.
// The manifest carries the feature order and preprocessing parameters so
// that the serving side can reject an artifact built for another schema.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/OldStager01/diapredict/internal/classifier"
	"github.com/OldStager01/diapredict/internal/model"
	"github.com/OldStager01/diapredict/internal/preprocess"
	"github.com/OldStager01/diapredict/pkg/models"
)

const FormatVersion = 1

var (
	ErrArtifactMissing  = errors.New("model artifact not found")
	ErrManifestMismatch = errors.New("model artifact does not match feature schema")
)

type Manifest struct {
	FormatVersion   int                        `json:"format_version"`
	ModelID         string                     `json:"model_id"`
	CreatedAt       time.Time                  `json:"created_at"`
	Label           string                     `json:"label"`
	Kind            string                     `json:"kind"`
	Features        []string                   `json:"features"`
	SentinelColumns []string                   `json:"sentinel_columns"`
	Medians         map[string]float64         `json:"medians"`
	Scaler          *preprocess.StandardScaler `json:"scaler,omitempty"`
	Metrics         models.Evaluation          `json:"metrics"`
	Candidates      []models.CandidateScore    `json:"candidates,omitempty"`
	TrainSize       int                        `json:"train_size"`
	TestSize        int                        `json:"test_size"`
	Seed            int64                      `json:"seed"`
}

type Artifact struct {
	Manifest   Manifest        `json:"manifest"`
	Classifier json.RawMessage `json:"classifier"`
}

// Details are the training facts recorded next to the fitted pipeline.
type Details struct {
	Metrics    models.Evaluation
	Candidates []models.CandidateScore
	TrainSize  int
	TestSize   int
	Seed       int64
}

// New snapshots a fitted pipeline into an artifact with a fresh model id.
func New(p *model.Pipeline, d Details) (*Artifact, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	params, err := json.Marshal(p.Classifier)
	if err != nil {
		return nil, fmt.Errorf("failed to encode classifier: %w", err)
	}

	medians := make(map[string]float64, len(p.Imputer.Medians))
	for k, v := range p.Imputer.Medians {
		medians[k] = v
	}

	return &Artifact{
		Manifest: Manifest{
			FormatVersion:   FormatVersion,
			ModelID:         models.NewUUID(),
			CreatedAt:       time.Now().UTC(),
			Label:           p.Label,
			Kind:            p.Kind(),
			Features:        models.FeatureNames(),
			SentinelColumns: models.SentinelColumns(),
			Medians:         medians,
			Scaler:          p.Scaler,
			Metrics:         d.Metrics,
			Candidates:      d.Candidates,
			TrainSize:       d.TrainSize,
			TestSize:        d.TestSize,
			Seed:            d.Seed,
		},
		Classifier: params,
	}, nil
}

// Validate checks the manifest against the compiled-in feature schema.
func (m *Manifest) Validate() error {
	if m.FormatVersion != FormatVersion {
		return fmt.Errorf("%w: format version %d, want %d", ErrManifestMismatch, m.FormatVersion, FormatVersion)
	}

	want := models.FeatureNames()
	if len(m.Features) != len(want) {
		return fmt.Errorf("%w: %d features, want %d", ErrManifestMismatch, len(m.Features), len(want))
	}
	for i, name := range want {
		if m.Features[i] != name {
			return fmt.Errorf("%w: feature %d is %q, want %q", ErrManifestMismatch, i, m.Features[i], name)
		}
	}

	for _, col := range models.SentinelColumns() {
		if _, ok := m.Medians[col]; !ok {
			return fmt.Errorf("%w: no median for %s", ErrManifestMismatch, col)
		}
	}

	if m.Scaler != nil {
		if err := m.Scaler.Validate(len(want)); err != nil {
			return fmt.Errorf("%w: %v", ErrManifestMismatch, err)
		}
	}
	return nil
}

// Pipeline rebuilds the fitted pipeline described by the artifact.
func (a *Artifact) Pipeline() (*model.Pipeline, error) {
	if err := a.Manifest.Validate(); err != nil {
		return nil, err
	}

	imputer, err := preprocess.NewMedianImputer(a.Manifest.Medians)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestMismatch, err)
	}

	clf, err := classifier.Unmarshal(a.Manifest.Kind, a.Classifier)
	if err != nil {
		return nil, err
	}

	p := &model.Pipeline{
		Label:      a.Manifest.Label,
		Imputer:    imputer,
		Scaler:     a.Manifest.Scaler,
		Classifier: clf,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Save writes the artifact to path through a temporary file in the same
// directory, so readers never observe a partial document.
func Save(path string, a *Artifact) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}
	return nil
}

// Load reads and validates the artifact at path.
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, path)
		}
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestMismatch, err)
	}
	if err := a.Manifest.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// LoadPipeline loads the artifact at path and rebuilds its pipeline.
func LoadPipeline(path string) (*model.Pipeline, *Manifest, error) {
	a, err := Load(path)
	if err != nil {
		return nil, nil, err
	}
	p, err := a.Pipeline()
	if err != nil {
		return nil, nil, err
	}
	return p, &a.Manifest, nil
}
