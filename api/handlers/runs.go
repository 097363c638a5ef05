package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/OldStager01/diapredict/pkg/config"
	"github.com/OldStager01/diapredict/pkg/database/queries"
	"github.com/OldStager01/diapredict/pkg/models"
	"github.com/gin-gonic/gin"
)

type RunsHandler struct {
	runRepo *queries.TrainingRunRepository
	config  *config.APIConfig
}

func NewRunsHandler(runRepo *queries.TrainingRunRepository, cfg *config.APIConfig) *RunsHandler {
	return &RunsHandler{runRepo: runRepo, config: cfg}
}

func (h *RunsHandler) getDefaultLimit() int {
	if h.config != nil && h.config.DefaultLimit > 0 {
		return h.config.DefaultLimit
	}
	return 20
}

func (h *RunsHandler) getMaxLimit() int {
	if h.config != nil && h.config.MaxLimit > 0 {
		return h.config.MaxLimit
	}
	return 100
}

// List godoc
// @Summary Training runs
// @Description Training-run history, newest first
// @Tags Runs
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} map[string]interface{} "runs and count"
// @Failure 500 {object} models.ErrorResponse
// @Router /runs [get]
func (h *RunsHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	limit := h.parseLimit(c)
	offset := parseInt(c.Query("offset"), 0)

	runs, err := h.runRepo.List(ctx, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to fetch training runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":   runs,
		"count":  len(runs),
		"limit":  limit,
		"offset": offset,
	})
}

// Get godoc
// @Summary Training run
// @Tags Runs
// @Produce json
// @Param model_id path string true "Model ID"
// @Success 200 {object} models.TrainingRun
// @Failure 404 {object} models.ErrorResponse
// @Router /runs/{model_id} [get]
func (h *RunsHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	run, err := h.runRepo.GetByModelID(ctx, c.Param("model_id"))
	if err != nil {
		if errors.Is(err, queries.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "training run not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to fetch training run"})
		return
	}

	c.JSON(http.StatusOK, run)
}

func (h *RunsHandler) parseLimit(c *gin.Context) int {
	maxLimit := h.getMaxLimit()
	limit := h.getDefaultLimit()
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
			if limit > maxLimit {
				limit = maxLimit
			}
		}
	}
	return limit
}

func parseInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	if parsed, err := strconv.Atoi(s); err == nil && parsed >= 0 {
		return parsed
	}
	return defaultVal
}
