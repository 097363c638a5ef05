// Package predictor serves predictions from one loaded pipeline. A Service is
// immutable after construction and safe for concurrent use.
package predictor

import (
	"errors"
	"fmt"

	"github.com/OldStager01/diapredict/internal/artifact"
	"github.com/OldStager01/diapredict/internal/logger"
	"github.com/OldStager01/diapredict/internal/model"
	"github.com/OldStager01/diapredict/pkg/models"
)

var ErrModelMissing = errors.New("model is not loaded")

type Service struct {
	pipeline *model.Pipeline
	manifest *artifact.Manifest
	reason   string
}

// New wraps a fitted pipeline. The manifest is optional.
func New(p *model.Pipeline, manifest *artifact.Manifest) (*Service, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil pipeline", model.ErrIncompletePipeline)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Service{pipeline: p, manifest: manifest}, nil
}

// Degraded returns a service without a model. Every prediction fails with
// ErrModelMissing and reason as detail.
func Degraded(reason string) *Service {
	return &Service{reason: reason}
}

// Load builds a service from the artifact at path, falling back to a
// degraded service when the artifact cannot be used.
func Load(path string) *Service {
	p, manifest, err := artifact.LoadPipeline(path)
	if err != nil {
		logger.Errorf("Model unavailable, serving degraded: %v", err)
		return Degraded(err.Error())
	}
	logger.WithModel(manifest.ModelID).Infof("Loaded %s from %s", manifest.Label, path)

	svc, err := New(p, manifest)
	if err != nil {
		logger.Errorf("Model unavailable, serving degraded: %v", err)
		return Degraded(err.Error())
	}
	return svc
}

func (s *Service) Ready() bool {
	return s.pipeline != nil
}

// Reason explains why the service is degraded.
func (s *Service) Reason() string {
	return s.reason
}

// Manifest returns the loaded artifact's manifest, or nil.
func (s *Service) Manifest() *artifact.Manifest {
	return s.manifest
}

func (s *Service) Label() string {
	if s.pipeline == nil {
		return ""
	}
	return s.pipeline.Label
}

// Predict classifies one patient record.
func (s *Service) Predict(rec models.PatientRecord) (*models.PredictionResult, error) {
	if s.pipeline == nil {
		return nil, fmt.Errorf("%w: %s", ErrModelMissing, s.reason)
	}

	label, proba, err := s.pipeline.Predict(rec.Vector())
	if err != nil {
		return nil, fmt.Errorf("prediction failed: %w", err)
	}

	return &models.PredictionResult{
		Prediction:        label,
		Probability:       proba,
		RiskLevel:         models.RiskLevelFor(proba),
		FeatureImportance: s.pipeline.FeatureImportance(),
	}, nil
}
