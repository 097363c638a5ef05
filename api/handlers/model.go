package handlers

import (
	"net/http"
	"time"

	"github.com/OldStager01/diapredict/internal/predictor"
	"github.com/OldStager01/diapredict/pkg/models"
	"github.com/gin-gonic/gin"
)

type ModelHandler struct {
	predictor *predictor.Service
}

func NewModelHandler(svc *predictor.Service) *ModelHandler {
	return &ModelHandler{predictor: svc}
}

type ModelResponse struct {
	ModelID         string                  `json:"model_id"`
	Label           string                  `json:"label"`
	Kind            string                  `json:"kind"`
	FormatVersion   int                     `json:"format_version"`
	CreatedAt       time.Time               `json:"created_at"`
	Features        []string                `json:"features"`
	SentinelColumns []string                `json:"sentinel_columns"`
	Medians         map[string]float64      `json:"medians"`
	Standardized    bool                    `json:"standardized"`
	Metrics         models.Evaluation       `json:"metrics"`
	Candidates      []models.CandidateScore `json:"candidates,omitempty"`
	TrainSize       int                     `json:"train_size"`
	TestSize        int                     `json:"test_size"`
}

// Get godoc
// @Summary Loaded model
// @Description Manifest summary of the artifact the service is serving
// @Tags Model
// @Produce json
// @Success 200 {object} ModelResponse
// @Failure 503 {object} models.ErrorResponse "No model loaded"
// @Router /model [get]
func (h *ModelHandler) Get(c *gin.Context) {
	m := h.predictor.Manifest()
	if !h.predictor.Ready() || m == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:  ErrCodeModel,
			Detail: h.predictor.Reason(),
		})
		return
	}

	c.JSON(http.StatusOK, ModelResponse{
		ModelID:         m.ModelID,
		Label:           m.Label,
		Kind:            m.Kind,
		FormatVersion:   m.FormatVersion,
		CreatedAt:       m.CreatedAt,
		Features:        m.Features,
		SentinelColumns: m.SentinelColumns,
		Medians:         m.Medians,
		Standardized:    m.Scaler != nil,
		Metrics:         m.Metrics,
		Candidates:      m.Candidates,
		TrainSize:       m.TrainSize,
		TestSize:        m.TestSize,
	})
}
