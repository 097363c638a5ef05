package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/diapredict/api/middleware"
	"github.com/OldStager01/diapredict/internal/auth"
	"github.com/OldStager01/diapredict/internal/logger"
	"github.com/OldStager01/diapredict/pkg/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"trace_id":  middleware.GetTraceID(c),
			"ctx_trace": logger.TraceIDFromContext(c.Request.Context()),
			"user":      middleware.GetUsername(c),
		})
	})
	return r
}

func get(r http.Handler, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range header {
		req.Header[http.CanonicalHeaderKey(k)] = v
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestTraceID(t *testing.T) {
	r := newRouter(middleware.TraceID())

	rec := get(r, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	generated := rec.Header().Get(middleware.TraceIDHeader)
	assert.Len(t, generated, 36)
	assert.Contains(t, rec.Body.String(), `"ctx_trace":"`+generated+`"`)

	rec = get(r, http.Header{middleware.TraceIDHeader: {"abc-123"}})
	assert.Equal(t, "abc-123", rec.Header().Get(middleware.TraceIDHeader))

	for _, bad := range []string{strings.Repeat("x", 200), "has space"} {
		rec = get(r, http.Header{middleware.TraceIDHeader: {bad}})
		assert.Len(t, rec.Header().Get(middleware.TraceIDHeader), 36, bad)
	}
}

func TestJWTAuth(t *testing.T) {
	svc := auth.NewService("secret", time.Hour)
	r := newRouter(middleware.JWTAuth(svc))
	token, err := svc.GenerateToken(7, "clinic")
	require.NoError(t, err)
	expired, err := auth.NewService("secret", -time.Hour).GenerateToken(7, "clinic")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"missing header", "", http.StatusUnauthorized, "missing authorization header"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "invalid authorization header format"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "invalid authorization header format"},
		{"garbage token", "Bearer nope", http.StatusUnauthorized, "invalid token"},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized, "token expired"},
		{"valid token", "Bearer " + token, http.StatusOK, `"user":"clinic"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set(middleware.AuthorizationHeader, tt.header)
			}
			rec := get(r, h)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := middleware.NewRateLimiter(2, time.Minute)

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))

	assert.True(t, middleware.NewRateLimiter(0, time.Minute).Allow("a"))
}

func TestRateLimit_Middleware(t *testing.T) {
	r := newRouter(middleware.RateLimit(middleware.NewRateLimiter(1, time.Minute)))

	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	rec := get(r, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")
}

func TestEndpointRateLimiter(t *testing.T) {
	erl := middleware.NewEndpointRateLimiter()
	erl.AddEndpoint("/limited", 1, time.Minute)

	r := gin.New()
	r.Use(erl.Middleware())
	r.GET("/limited", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/open", func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	assert.Equal(t, http.StatusOK, call("/limited").Code)
	rec := call("/limited")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, call("/open").Code)
	}

	erl.AddEndpoint("/limited", 0, time.Minute)
	assert.Equal(t, http.StatusOK, call("/limited").Code)
}

func TestCORS(t *testing.T) {
	cfg := middleware.CORSFromConfig(config.CORSConfig{AllowedOrigins: []string{"https://clinic.example"}})
	r := newRouter(middleware.CORS(cfg))

	rec := get(r, http.Header{"Origin": {"https://clinic.example"}})
	assert.Equal(t, "https://clinic.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))

	rec = get(r, http.Header{"Origin": {"https://evil.example"}})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	pre := httptest.NewRecorder()
	r.ServeHTTP(pre, req)
	assert.Equal(t, http.StatusNoContent, pre.Code)
}

func TestSecurityHeaders(t *testing.T) {
	rec := get(newRouter(middleware.SecurityHeaders()), nil)

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "default-src 'none'; frame-ancestors 'none'", rec.Header().Get("Content-Security-Policy"))

	r := gin.New()
	r.Use(middleware.SecurityHeaders())
	r.GET("/swagger/*any", func(c *gin.Context) { c.Status(http.StatusOK) })
	docs := httptest.NewRecorder()
	r.ServeHTTP(docs, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Contains(t, docs.Header().Get("Content-Security-Policy"), "'unsafe-inline'")
}

func TestRequestSizeLimit(t *testing.T) {
	r := gin.New()
	r.POST("/predict", middleware.RequestSizeLimit(16), func(c *gin.Context) {
		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	small := httptest.NewRecorder()
	r.ServeHTTP(small, httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"a":1}`)))
	assert.Equal(t, http.StatusOK, small.Code)

	large := httptest.NewRecorder()
	r.ServeHTTP(large, httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"a":"`+strings.Repeat("x", 64)+`"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, large.Code)
}
