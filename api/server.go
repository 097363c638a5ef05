package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/OldStager01/diapredict/api/docs"
	"github.com/OldStager01/diapredict/api/handlers"
	"github.com/OldStager01/diapredict/api/middleware"
	"github.com/OldStager01/diapredict/internal/auth"
	"github.com/OldStager01/diapredict/internal/metrics"
	"github.com/OldStager01/diapredict/internal/predictor"
	"github.com/OldStager01/diapredict/pkg/config"
	"github.com/OldStager01/diapredict/pkg/database"
	"github.com/OldStager01/diapredict/pkg/database/queries"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// maxRequestBytes bounds a /predict body; a record is well under 1 KiB.
const maxRequestBytes = 64 << 10

type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	config      config.APIConfig
	predictor   *predictor.Service
	db          *database.DB
	metrics     *metrics.Metrics
	authService *auth.Service
}

// NewServer wires the routes around svc. db may be nil, in which case the
// run registry and token endpoints are not mounted.
func NewServer(cfg config.APIConfig, svc *predictor.Service, db *database.DB, m *metrics.Metrics) *Server {
	if m == nil {
		m = metrics.Get()
	}

	s := &Server{
		router:    gin.New(),
		config:    cfg,
		predictor: svc,
		db:        db,
		metrics:   m,
	}
	if cfg.Auth.Enabled {
		s.authService = auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.JWTDuration, auth.WithIssuer(cfg.Auth.JWTIssuer))
	}

	m.SetModelLoaded(modelLabel(svc), svc.Ready())

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func modelLabel(svc *predictor.Service) string {
	if label := svc.Label(); label != "" {
		return label
	}
	return "none"
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(middleware.CORS(middleware.CORSFromConfig(s.config.CORS)))
	s.router.Use(middleware.RequestLogger())
	s.router.Use(middleware.TraceID())

	rateLimiter := middleware.NewRateLimiter(s.config.RateLimit, time.Minute)
	s.router.Use(middleware.RateLimit(rateLimiter))

	endpointLimiter := middleware.NewEndpointRateLimiter()
	endpointLimiter.AddEndpoint("/predict", s.config.PredictRateLimit, time.Minute)
	s.router.Use(endpointLimiter.Middleware())
}

func (s *Server) setupRoutes() {
	// Handlers
	healthHandler := handlers.NewHealthHandler(s.predictor, s.db)
	predictHandler := handlers.NewPredictHandler(s.predictor, s.metrics)
	modelHandler := handlers.NewModelHandler(s.predictor)

	// Public routes
	s.router.GET("/", healthHandler.Root)
	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/health/ready", healthHandler.Ready)
	s.router.GET("/health/live", healthHandler.Live)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	s.router.GET("/model", modelHandler.Get)

	// API documentation
	docs.SwaggerInfo.BasePath = "/"
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prediction
	predict := s.router.Group("/predict")
	predict.Use(middleware.RequestSizeLimit(maxRequestBytes))
	if s.authService != nil {
		predict.Use(middleware.JWTAuth(s.authService))
	}
	predict.POST("", predictHandler.Predict)

	if s.db == nil {
		return
	}

	// Registry routes
	runRepo := queries.NewTrainingRunRepository(s.db)
	runsHandler := handlers.NewRunsHandler(runRepo, &s.config)
	s.router.GET("/runs", runsHandler.List)
	s.router.GET("/runs/:model_id", runsHandler.Get)

	// Auth routes
	if s.authService != nil {
		clientRepo := queries.NewClientRepository(s.db)
		authHandler := handlers.NewAuthHandler(clientRepo, s.authService)
		s.router.POST("/auth/token", middleware.AuthRateLimiter(), authHandler.Token)
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	idleTimeout := s.config.IdleTimeout
	if idleTimeout == 0 {
		idleTimeout = 60 * time.Second
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  idleTimeout,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}
