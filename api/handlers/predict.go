package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/OldStager01/diapredict/internal/logger"
	"github.com/OldStager01/diapredict/internal/metrics"
	"github.com/OldStager01/diapredict/internal/predictor"
	"github.com/OldStager01/diapredict/pkg/models"
	"github.com/gin-gonic/gin"
)

const (
	ErrCodeValidation  = "validation_failed"
	ErrCodeModel       = "model_missing"
	ErrCodePrediction  = "prediction_failed"
	ErrCodeUnavailable = "unavailable"
)

type PredictHandler struct {
	predictor *predictor.Service
	metrics   *metrics.Metrics
}

func NewPredictHandler(svc *predictor.Service, m *metrics.Metrics) *PredictHandler {
	return &PredictHandler{predictor: svc, metrics: m}
}

// PredictRequest mirrors models.PatientRecord with pointer fields so that an
// absent field is told apart from a zero measurement.
type PredictRequest struct {
	Pregnancies              *int     `json:"Pregnancies" binding:"required" example:"2"`
	Glucose                  *float64 `json:"Glucose" binding:"required" example:"130"`
	BloodPressure            *float64 `json:"BloodPressure" binding:"required" example:"70"`
	SkinThickness            *float64 `json:"SkinThickness" binding:"required" example:"25"`
	Insulin                  *float64 `json:"Insulin" binding:"required" example:"100"`
	BMI                      *float64 `json:"BMI" binding:"required" example:"28.5"`
	DiabetesPedigreeFunction *float64 `json:"DiabetesPedigreeFunction" binding:"required" example:"0.35"`
	Age                      *int     `json:"Age" binding:"required" example:"33"`
}

func (r PredictRequest) Record() models.PatientRecord {
	return models.PatientRecord{
		Pregnancies:              *r.Pregnancies,
		Glucose:                  *r.Glucose,
		BloodPressure:            *r.BloodPressure,
		SkinThickness:            *r.SkinThickness,
		Insulin:                  *r.Insulin,
		BMI:                      *r.BMI,
		DiabetesPedigreeFunction: *r.DiabetesPedigreeFunction,
		Age:                      *r.Age,
	}
}

// Predict godoc
// @Summary Predict diabetes risk
// @Description Classifies one patient record. All eight fields are required; zeros in Glucose, BloodPressure, SkinThickness, Insulin and BMI are treated as missing and imputed.
// @Tags Prediction
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param record body PredictRequest true "Patient measurements"
// @Success 200 {object} models.PredictionResult
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Failure 422 {object} models.ErrorResponse "Missing or mistyped field"
// @Failure 500 {object} models.ErrorResponse "Model not loaded or prediction failed"
// @Router /predict [post]
func (h *PredictHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.IncPredictionError(ErrCodeValidation)
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:  ErrCodeValidation,
			Detail: err.Error(),
		})
		return
	}

	start := time.Now()
	result, err := h.predictor.Predict(req.Record())
	if err != nil {
		if errors.Is(err, predictor.ErrModelMissing) {
			h.metrics.IncPredictionError(ErrCodeModel)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:  ErrCodeModel,
				Detail: h.predictor.Reason(),
			})
			return
		}

		h.metrics.IncPredictionError(ErrCodePrediction)
		logger.ErrorCtxf(c.Request.Context(), "Prediction failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: ErrCodePrediction,
		})
		return
	}

	h.metrics.ObservePredictionLatency(time.Since(start))
	h.metrics.IncPrediction(string(result.RiskLevel))
	c.JSON(http.StatusOK, result)
}
