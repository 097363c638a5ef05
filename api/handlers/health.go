package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/OldStager01/diapredict/internal/predictor"
	"github.com/OldStager01/diapredict/pkg/database"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	predictor *predictor.Service
	db        *database.DB
}

// NewHealthHandler reports on the loaded model and, when db is not nil, the
// run registry.
func NewHealthHandler(svc *predictor.Service, db *database.DB) *HealthHandler {
	return &HealthHandler{predictor: svc, db: db}
}

type RootResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Root godoc
// @Summary Service status
// @Description Answers even when no model is loaded
// @Tags Health
// @Produce json
// @Success 200 {object} RootResponse
// @Router / [get]
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{
		Status:  "online",
		Message: "Diabetes Prediction API is running",
	})
}

// Health godoc
// @Summary Detailed health
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	checks := h.checks(c.Request.Context())

	status := "healthy"
	for _, v := range checks {
		if v != "healthy" {
			status = "unhealthy"
		}
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// Ready godoc
// @Summary Readiness probe
// @Description Ready once a model is loaded
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	if !h.predictor.Ready() {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:    "not ready",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    map[string]string{"model": "missing: " + h.predictor.Reason()},
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ready",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Live godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health/live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "alive",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) checks(ctx context.Context) map[string]string {
	checks := make(map[string]string)

	if h.predictor.Ready() {
		checks["model"] = "healthy"
	} else {
		checks["model"] = "missing: " + h.predictor.Reason()
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := h.db.HealthCheck(ctx); err != nil {
			checks["database"] = "unhealthy: " + err.Error()
		} else {
			checks["database"] = "healthy"
		}
	}
	return checks
}
