package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/OldStager01/diapredict/internal/auth"
	"github.com/OldStager01/diapredict/internal/logger"
	"github.com/OldStager01/diapredict/pkg/database/queries"
	"github.com/OldStager01/diapredict/pkg/models"
	"github.com/OldStager01/diapredict/pkg/validation"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	clientRepo  *queries.ClientRepository
	authService *auth.Service
}

func NewAuthHandler(clientRepo *queries.ClientRepository, authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		clientRepo:  clientRepo,
		authService: authService,
	}
}

type TokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
	Username  string `json:"username"`
}

// Token godoc
// @Summary Issue a bearer token
// @Description Exchanges API client credentials for a token accepted by POST /predict
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body TokenRequest true "Client credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	// Names that could never have been registered are rejected like unknown ones.
	username := validation.SanitizeString(req.Username)
	if validation.ValidateClientName(username) != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid credentials"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	client, err := h.clientRepo.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, queries.ErrClientNotFound):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid credentials"})
		return
	case err != nil:
		logger.ErrorCtxf(c.Request.Context(), "Client lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal error"})
		return
	}

	if !auth.CheckPassword(req.Password, client.PasswordHash) {
		logger.WarnCtxf(c.Request.Context(), "Bad secret for API client %q", client.Username)
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid credentials"})
		return
	}

	token, err := h.authService.GenerateToken(client.ID, client.Username)
	if err != nil {
		logger.ErrorCtxf(c.Request.Context(), "Token generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(h.authService.Duration().Seconds()),
		Username:  client.Username,
	})
}
