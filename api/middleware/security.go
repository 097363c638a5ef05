package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// JSON endpoints never load resources.
	apiCSP = "default-src 'none'; frame-ancestors 'none'"

	// The Swagger UI needs inline scripts and styles.
	docsCSP = "default-src 'self'; " +
		"script-src 'self' 'unsafe-inline' 'unsafe-eval'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data: https:; " +
		"font-src 'self' data:; " +
		"frame-ancestors 'none'"
)

var staticSecurityHeaders = map[string]string{
	"X-Frame-Options":        "DENY",
	"X-Content-Type-Options": "nosniff",
	"X-XSS-Protection":       "1; mode=block",
	"Referrer-Policy":        "strict-origin-when-cross-origin",
	// Responses carry patient measurements.
	"Cache-Control": "no-store",
}

func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		for k, v := range staticSecurityHeaders {
			c.Header(k, v)
		}

		csp := apiCSP
		if strings.HasPrefix(c.Request.URL.Path, "/swagger") {
			csp = docsCSP
		}
		c.Header("Content-Security-Policy", csp)

		c.Next()
	}
}

// RequestSizeLimit rejects bodies over maxBytes up front when the length is
// declared and caps the reader otherwise.
func RequestSizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": fmt.Sprintf("request body too large, maximum %d bytes allowed", maxBytes),
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
