package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/diapredict/internal/auth"
	"github.com/OldStager01/diapredict/internal/logger"
)

const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
	UserIDKey           = "user_id"
	UsernameKey         = "username"
)

var (
	errMissingHeader = errors.New("missing authorization header")
	errHeaderFormat  = errors.New("invalid authorization header format")
)

// JWTAuth admits requests carrying a valid bearer token issued by
// authService and records the API client on the context.
func JWTAuth(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader(AuthorizationHeader))
		if err != nil {
			unauthorized(c, err.Error())
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			logger.WarnCtxf(c.Request.Context(), "Rejected bearer token: %v", err)
			if errors.Is(err, auth.ErrExpiredToken) {
				unauthorized(c, "token expired")
				return
			}
			unauthorized(c, "invalid token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UsernameKey, claims.Username)

		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", errHeaderFormat
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	if token == "" {
		return "", errHeaderFormat
	}
	return token, nil
}

func unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="diapredict"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}

func GetUserID(c *gin.Context) int {
	return c.GetInt(UserIDKey)
}

func GetUsername(c *gin.Context) string {
	return c.GetString(UsernameKey)
}
